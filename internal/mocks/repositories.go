package mocks

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/amanah-profile-site/internal/models"
	"github.com/amanah-profile-site/internal/repository"
)

// Verify interface compliance
var (
	_ repository.ArticleRepository = (*MockArticleRepository)(nil)
	_ repository.MemberRepository  = (*MockMemberRepository)(nil)
	_ repository.UserRepository    = (*MockUserRepository)(nil)
	_ repository.JobRepository     = (*MockJobRepository)(nil)
)

// MockArticleRepository is an in-memory ArticleRepository
type MockArticleRepository struct {
	Articles         map[int64]*models.Article
	InsertError      error
	BatchInsertFunc  func(ctx context.Context, articles []*models.Article) (int, error)
	BatchInsertCalls int
	nextID           int64
}

func NewMockArticleRepository() *MockArticleRepository {
	return &MockArticleRepository{Articles: make(map[int64]*models.Article)}
}

// newestFirst returns the stored articles ordered like the SQL queries.
func (m *MockArticleRepository) newestFirst() []*models.Article {
	out := make([]*models.Article, 0, len(m.Articles))
	for _, a := range m.Articles {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (m *MockArticleRepository) List(ctx context.Context, limit, offset int) ([]*models.Article, error) {
	all := m.newestFirst()
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (m *MockArticleRepository) Latest(ctx context.Context, n int) ([]*models.Article, error) {
	return m.List(ctx, n, 0)
}

func (m *MockArticleRepository) Related(ctx context.Context, category string, excludeID int64, n int) ([]*models.Article, error) {
	var out []*models.Article
	for _, a := range m.newestFirst() {
		if a.Category == category && a.ID != excludeID && len(out) < n {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *MockArticleRepository) Count(ctx context.Context) (int, error) {
	return len(m.Articles), nil
}

func (m *MockArticleRepository) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	return m.Articles[id], nil
}

func (m *MockArticleRepository) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	for _, a := range m.Articles {
		if a.Slug == slug {
			return a, nil
		}
	}
	return nil, nil
}

func (m *MockArticleRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	a, _ := m.GetBySlug(ctx, slug)
	return a != nil, nil
}

func (m *MockArticleRepository) Create(ctx context.Context, article *models.Article) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	m.nextID++
	article.ID = m.nextID
	m.Articles[article.ID] = article
	return nil
}

func (m *MockArticleRepository) Update(ctx context.Context, article *models.Article) error {
	if _, ok := m.Articles[article.ID]; !ok {
		return fmt.Errorf("article %d: %w", article.ID, repository.ErrNoRows)
	}
	m.Articles[article.ID] = article
	return nil
}

func (m *MockArticleRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.Articles[id]; !ok {
		return fmt.Errorf("article %d: %w", id, repository.ErrNoRows)
	}
	delete(m.Articles, id)
	return nil
}

func (m *MockArticleRepository) BatchInsert(ctx context.Context, articles []*models.Article) (int, error) {
	m.BatchInsertCalls++
	if m.BatchInsertFunc != nil {
		return m.BatchInsertFunc(ctx, articles)
	}
	if m.InsertError != nil {
		return 0, m.InsertError
	}
	for _, a := range articles {
		if err := m.Create(ctx, a); err != nil {
			return 0, err
		}
	}
	return len(articles), nil
}

func (m *MockArticleRepository) StreamAll(ctx context.Context, callback func(*models.Article) error) error {
	all := m.newestFirst()
	for i := len(all) - 1; i >= 0; i-- {
		if err := callback(all[i]); err != nil {
			return err
		}
	}
	return nil
}

// MockMemberRepository is an in-memory MemberRepository
type MockMemberRepository struct {
	Members     map[int64]*models.Member
	InsertError error
	nextID      int64
}

func NewMockMemberRepository() *MockMemberRepository {
	return &MockMemberRepository{Members: make(map[int64]*models.Member)}
}

func (m *MockMemberRepository) List(ctx context.Context) ([]*models.Member, error) {
	out := make([]*models.Member, 0, len(m.Members))
	for _, mem := range m.Members {
		out = append(out, mem)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *MockMemberRepository) Count(ctx context.Context) (int, error) {
	return len(m.Members), nil
}

func (m *MockMemberRepository) GetByID(ctx context.Context, id int64) (*models.Member, error) {
	return m.Members[id], nil
}

func (m *MockMemberRepository) Create(ctx context.Context, member *models.Member) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	m.nextID++
	member.ID = m.nextID
	m.Members[member.ID] = member
	return nil
}

func (m *MockMemberRepository) Update(ctx context.Context, member *models.Member) error {
	if _, ok := m.Members[member.ID]; !ok {
		return fmt.Errorf("member %d: %w", member.ID, repository.ErrNoRows)
	}
	m.Members[member.ID] = member
	return nil
}

func (m *MockMemberRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.Members[id]; !ok {
		return fmt.Errorf("member %d: %w", id, repository.ErrNoRows)
	}
	delete(m.Members, id)
	return nil
}

func (m *MockMemberRepository) BatchInsert(ctx context.Context, members []*models.Member) (int, error) {
	for _, mem := range members {
		if err := m.Create(ctx, mem); err != nil {
			return 0, err
		}
	}
	return len(members), nil
}

func (m *MockMemberRepository) StreamAll(ctx context.Context, callback func(*models.Member) error) error {
	all, _ := m.List(ctx)
	for i := len(all) - 1; i >= 0; i-- {
		if err := callback(all[i]); err != nil {
			return err
		}
	}
	return nil
}

// MockUserRepository is an in-memory UserRepository
type MockUserRepository struct {
	Users       map[int64]*models.User
	InsertError error
	nextID      int64
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{Users: make(map[int64]*models.User)}
}

func (m *MockUserRepository) List(ctx context.Context) ([]*models.User, error) {
	out := make([]*models.User, 0, len(m.Users))
	for _, u := range m.Users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *MockUserRepository) Count(ctx context.Context) (int, error) {
	return len(m.Users), nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return m.Users[id], nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.Users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, nil
}

func (m *MockUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	u, _ := m.GetByEmail(ctx, email)
	return u != nil, nil
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	m.nextID++
	user.ID = m.nextID
	m.Users[user.ID] = user
	return nil
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	if _, ok := m.Users[user.ID]; !ok {
		return fmt.Errorf("user %d: %w", user.ID, repository.ErrNoRows)
	}
	m.Users[user.ID] = user
	return nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.Users[id]; !ok {
		return fmt.Errorf("user %d: %w", id, repository.ErrNoRows)
	}
	delete(m.Users, id)
	return nil
}

// MockJobRepository is an in-memory JobRepository, safe for use by the
// cleanup worker goroutines.
type MockJobRepository struct {
	mu          sync.Mutex
	Jobs        map[string]*models.Job
	CreateError error
	UpdateError error
}

func NewMockJobRepository() *MockJobRepository {
	return &MockJobRepository{Jobs: make(map[string]*models.Job)}
}

func (m *MockJobRepository) Create(ctx context.Context, job *models.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateError != nil {
		return m.CreateError
	}
	cp := *job
	m.Jobs[job.ID] = &cp
	return nil
}

func (m *MockJobRepository) Update(ctx context.Context, job *models.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateError != nil {
		return m.UpdateError
	}
	cp := *job
	m.Jobs[job.ID] = &cp
	return nil
}

func (m *MockJobRepository) GetByID(ctx context.Context, id string) (*models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.Jobs[id]
	if !ok {
		return nil, nil
	}
	cp := *job
	return &cp, nil
}

func (m *MockJobRepository) GetPendingJobs(ctx context.Context) ([]*models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	var pending []*models.Job
	for _, job := range m.Jobs {
		if job.NextAttemptAt != nil && job.NextAttemptAt.After(now) {
			continue
		}
		if job.Status == models.JobStatusPending {
			cp := *job
			pending = append(pending, &cp)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].CreatedAt.Before(pending[j].CreatedAt) })
	return pending, nil
}

func (m *MockJobRepository) MarkJobAsProcessing(ctx context.Context, jobID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, exists := m.Jobs[jobID]
	if !exists || job.Status != models.JobStatusPending {
		return false, nil
	}
	now := time.Now()
	job.Status = models.JobStatusProcessing
	job.StartedAt = &now
	return true, nil
}

func (m *MockJobRepository) RequeueStale(ctx context.Context, startedBefore time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, job := range m.Jobs {
		if job.Status != models.JobStatusProcessing || job.StartedAt == nil || !job.StartedAt.Before(startedBefore) {
			continue
		}
		job.Status = models.JobStatusPending
		job.NextAttemptAt = nil
		n++
	}
	return n, nil
}

func (m *MockJobRepository) CountByStatus(ctx context.Context) (map[models.JobStatus]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[models.JobStatus]int)
	for _, job := range m.Jobs {
		counts[job.Status]++
	}
	return counts, nil
}

// Snapshot returns a copy of the job with the given ID.
func (m *MockJobRepository) Snapshot(id string) (models.Job, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.Jobs[id]
	if !ok {
		return models.Job{}, false
	}
	return *job, true
}
