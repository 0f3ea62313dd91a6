package mocks

import (
	"context"
	"net/http"
	"sync"

	"github.com/amanah-profile-site/internal/models"
	"github.com/amanah-profile-site/internal/service"
)

// MockChatService is a mock implementation of ChatService
type MockChatService struct {
	ReplyFunc func(ctx context.Context, messages []models.ChatMessage) (string, error)
	Received  [][]models.ChatMessage
}

// Verify interface compliance
var _ service.ChatService = (*MockChatService)(nil)

func NewMockChatService() *MockChatService {
	return &MockChatService{}
}

func (m *MockChatService) Reply(ctx context.Context, messages []models.ChatMessage) (string, error) {
	m.Received = append(m.Received, messages)
	if m.ReplyFunc != nil {
		return m.ReplyFunc(ctx, messages)
	}
	return "Wa'alaikumsalam!", nil
}

// MockCleanupService is a mock implementation of CleanupService that
// records enqueued URLs without processing them
type MockCleanupService struct {
	mu       sync.Mutex
	Enqueued [][]string
	Jobs     map[string]*models.Job
}

// Verify interface compliance
var _ service.CleanupService = (*MockCleanupService)(nil)

func NewMockCleanupService() *MockCleanupService {
	return &MockCleanupService{Jobs: make(map[string]*models.Job)}
}

func (m *MockCleanupService) StartProcessor(ctx context.Context) {}

func (m *MockCleanupService) StopProcessor() {}

func (m *MockCleanupService) Enqueue(ctx context.Context, urls []string) (*models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Enqueued = append(m.Enqueued, urls)
	job := &models.Job{ID: "cleanup-job", Type: models.JobTypeStorageCleanup, Status: models.JobStatusPending, URLs: urls}
	m.Jobs[job.ID] = job
	return job, nil
}

func (m *MockCleanupService) GetJob(ctx context.Context, id string) (*models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if job, ok := m.Jobs[id]; ok {
		return job, nil
	}
	return nil, service.ErrNotFound
}

func (m *MockCleanupService) Stats(ctx context.Context) (map[models.JobStatus]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[models.JobStatus]int)
	for _, job := range m.Jobs {
		counts[job.Status]++
	}
	return counts, nil
}

// MockExportService is a mock implementation of ExportService
type MockExportService struct {
	StreamArticlesFunc func(ctx context.Context, w http.ResponseWriter, format string) error
	StreamMembersFunc  func(ctx context.Context, w http.ResponseWriter, format string) error
	Counts             map[string]int
}

// Verify interface compliance
var _ service.ExportService = (*MockExportService)(nil)

func NewMockExportService() *MockExportService {
	return &MockExportService{
		Counts: map[string]int{
			"articles": 0,
			"members":  0,
			"users":    0,
		},
	}
}

func (m *MockExportService) StreamArticles(ctx context.Context, w http.ResponseWriter, format string) error {
	if m.StreamArticlesFunc != nil {
		return m.StreamArticlesFunc(ctx, w, format)
	}
	return nil
}

func (m *MockExportService) StreamMembers(ctx context.Context, w http.ResponseWriter, format string) error {
	if m.StreamMembersFunc != nil {
		return m.StreamMembersFunc(ctx, w, format)
	}
	return nil
}

func (m *MockExportService) GetCount(ctx context.Context, resource string) (int, error) {
	return m.Counts[resource], nil
}
