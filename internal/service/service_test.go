package service_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/amanah-profile-site/internal/models"
	"github.com/amanah-profile-site/internal/service"
)

func validArticle(title string) *models.ArticleInput {
	return &models.ArticleInput{
		Title:    title,
		Category: "Kegiatan",
		Excerpt:  "Ringkasan",
		Content:  "Isi artikel",
	}
}

func TestArticleService_CreateDerivesSlug(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	article, err := h.services.Article.Create(ctx, validArticle("Kerja Bakti di Panti!"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if article.Slug != "kerja-bakti-di-panti" {
		t.Errorf("Expected derived slug, got %q", article.Slug)
	}
	if article.PublishedAt.IsZero() || article.ID == 0 {
		t.Errorf("Expected ID and publication date to be set, got %+v", article)
	}

	_, err = h.services.Article.Create(ctx, validArticle("Kerja Bakti di Panti"))
	if !errors.Is(err, service.ErrSlugTaken) {
		t.Errorf("Expected ErrSlugTaken for duplicate title, got %v", err)
	}
}

func TestArticleService_CreateValidation(t *testing.T) {
	h := newTestHarness(t)

	_, err := h.services.Article.Create(context.Background(), &models.ArticleInput{Title: "x"})

	var vErr *service.ValidationFailedError
	if !errors.As(err, &vErr) {
		t.Fatalf("Expected ValidationFailedError, got %v", err)
	}
	if len(vErr.Errors) != 2 {
		t.Errorf("Expected category and content errors, got %v", vErr.Errors)
	}
}

func TestArticleService_ListPages(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()
	base := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 20; i++ {
		h.articleRepo.Create(ctx, &models.Article{
			Title:     fmt.Sprintf("Artikel %d", i),
			Slug:      fmt.Sprintf("artikel-%d", i),
			Category:  "Berita",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}

	tests := []struct {
		page      int
		wantCount int
		wantFirst string
	}{
		{0, 9, "artikel-19"},
		{1, 9, "artikel-19"},
		{2, 9, "artikel-10"},
		{3, 2, "artikel-1"},
		{4, 0, ""},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("page %d", tt.page), func(t *testing.T) {
			page, err := h.services.Article.List(ctx, tt.page)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if page.TotalPages != 3 || page.Total != 20 {
				t.Errorf("Expected 3 pages of 20, got %d of %d", page.TotalPages, page.Total)
			}
			if len(page.Articles) != tt.wantCount {
				t.Fatalf("Expected %d articles, got %d", tt.wantCount, len(page.Articles))
			}
			if tt.wantCount > 0 && page.Articles[0].Slug != tt.wantFirst {
				t.Errorf("Expected %s first, got %s", tt.wantFirst, page.Articles[0].Slug)
			}
		})
	}
}

func TestArticleService_GetBySlugNotFound(t *testing.T) {
	h := newTestHarness(t)

	_, err := h.services.Article.GetBySlug(context.Background(), "tidak-ada")
	if !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestArticleService_Related(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	var current *models.Article
	for i := 0; i < 6; i++ {
		input := validArticle(fmt.Sprintf("Sosial %d", i))
		input.Category = "Sosial"
		a, err := h.services.Article.Create(ctx, input)
		if err != nil {
			t.Fatal(err)
		}
		current = a
	}
	other := validArticle("Berita Lain")
	other.Category = "Berita"
	h.services.Article.Create(ctx, other)

	related, err := h.services.Article.Related(ctx, current)
	if err != nil {
		t.Fatal(err)
	}
	if len(related) != service.RelatedLimit {
		t.Fatalf("Expected %d related articles, got %d", service.RelatedLimit, len(related))
	}
	for _, a := range related {
		if a.ID == current.ID || a.Category != "Sosial" {
			t.Errorf("Unexpected related article %+v", a)
		}
	}
}

func TestArticleService_RenderUsesExtractor(t *testing.T) {
	h := newTestHarness(t)

	html := string(h.services.Article.Render(&models.Article{
		Content: "Halo <b>dunia</b>\n\n![](https://cdn.test/storage/artikel/a.png)\n*Keterangan: Foto bersama*",
	}))

	if !strings.Contains(html, "&lt;b&gt;dunia&lt;/b&gt;") {
		t.Errorf("Expected escaped markup, got %s", html)
	}
	if !strings.Contains(html, `alt="Gambar artikel"`) {
		t.Errorf("Expected placeholder alt, got %s", html)
	}
	if !strings.Contains(html, "<figcaption>Foto bersama</figcaption>") {
		t.Errorf("Expected caption without label, got %s", html)
	}
}

func TestArticleService_DeleteQueuesImages(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	cover := h.store.Put("covers/cover.png", []byte("c"))
	inline := h.store.Put("artikel/inline.png", []byte("i"))

	input := validArticle("Dengan Gambar")
	input.ImageURL = cover
	input.Content = "Teks\n\n![a](" + inline + ")\n\n![luar](https://example.com/x.png)"
	article, err := h.services.Article.Create(ctx, input)
	if err != nil {
		t.Fatal(err)
	}

	if err := h.services.Article.Delete(ctx, article.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	pending, _ := h.jobRepo.GetPendingJobs(ctx)
	if len(pending) != 1 {
		t.Fatalf("Expected 1 cleanup job, got %d", len(pending))
	}
	if got := pending[0].URLs; len(got) != 2 || got[0] != cover || got[1] != inline {
		t.Errorf("Expected cover and inline image queued, got %v", got)
	}

	if err := h.services.Article.Delete(ctx, article.ID); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
}

func TestArticleService_UpdateQueuesReplacedImages(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	oldCover := h.store.Put("covers/old.png", []byte("o"))
	input := validArticle("Judul")
	input.ImageURL = oldCover
	article, _ := h.services.Article.Create(ctx, input)

	input.ImageURL = h.store.Put("covers/new.png", []byte("n"))
	updated, err := h.services.Article.Update(ctx, article.ID, input)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.ImageURL != input.ImageURL {
		t.Errorf("Expected new cover, got %s", updated.ImageURL)
	}

	pending, _ := h.jobRepo.GetPendingJobs(ctx)
	if len(pending) != 1 || len(pending[0].URLs) != 1 || pending[0].URLs[0] != oldCover {
		t.Errorf("Expected only the old cover queued, got %+v", pending)
	}
}

func TestMemberService_CRUD(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	photo := h.store.Put("anggota/sinta.jpg", []byte("s"))
	member, err := h.services.Member.Create(ctx, &models.MemberInput{Name: " Sinta ", Role: "Ketua", PhotoURL: photo})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if member.Name != "Sinta" {
		t.Errorf("Expected trimmed name, got %q", member.Name)
	}

	if _, err := h.services.Member.Create(ctx, &models.MemberInput{Name: "Tanpa Jabatan"}); err == nil {
		t.Error("Expected validation error for missing role")
	}

	updated, err := h.services.Member.Update(ctx, member.ID, &models.MemberInput{Name: "Sinta", Role: "Wakil"})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Role != "Wakil" || updated.PhotoURL != "" {
		t.Errorf("Unexpected update result %+v", updated)
	}
	pending, _ := h.jobRepo.GetPendingJobs(ctx)
	if len(pending) != 1 || pending[0].URLs[0] != photo {
		t.Errorf("Expected removed photo queued, got %+v", pending)
	}

	if err := h.services.Member.Delete(ctx, member.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := h.services.Member.Get(ctx, member.ID); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}

func TestUserService_CreateAndAuthenticate(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	user, err := h.services.User.Create(ctx, &models.UserInput{Name: "Admin", Email: "admin@amanah.id", Password: "rahasia123"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if user.PasswordHash == "" || user.PasswordHash == "rahasia123" {
		t.Fatal("Expected password to be hashed")
	}

	if _, err := h.services.User.Create(ctx, &models.UserInput{Email: "ADMIN@amanah.id", Password: "rahasia123"}); !errors.Is(err, service.ErrEmailTaken) {
		t.Errorf("Expected ErrEmailTaken, got %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  bool
	}{
		{"valid", "admin@amanah.id", "rahasia123", false},
		{"email case ignored", "Admin@Amanah.id", "rahasia123", false},
		{"wrong password", "admin@amanah.id", "salah12345", true},
		{"unknown email", "siapa@amanah.id", "rahasia123", true},
		{"empty", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := h.services.User.Authenticate(ctx, tt.email, tt.password)
			if tt.wantErr {
				if !errors.Is(err, service.ErrInvalidCredentials) {
					t.Errorf("Expected ErrInvalidCredentials, got %v", err)
				}
				return
			}
			if err != nil || got.ID != user.ID {
				t.Errorf("Expected user %d, got %v (%v)", user.ID, got, err)
			}
		})
	}
}

func TestUserService_UpdateKeepsPassword(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	user, _ := h.services.User.Create(ctx, &models.UserInput{Email: "admin@amanah.id", Password: "rahasia123"})
	oldHash := user.PasswordHash

	updated, err := h.services.User.Update(ctx, user.ID, &models.UserInput{Name: "Baru", Email: "admin@amanah.id"})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.PasswordHash != oldHash {
		t.Error("Password hash should not change without a new password")
	}

	updated, _ = h.services.User.Update(ctx, user.ID, &models.UserInput{Email: "admin@amanah.id", Password: "kata-sandi-baru"})
	if updated.PasswordHash == oldHash {
		t.Error("Password hash should change with a new password")
	}
	if _, err := h.services.User.Authenticate(ctx, "admin@amanah.id", "kata-sandi-baru"); err != nil {
		t.Errorf("Expected new password to authenticate, got %v", err)
	}
}

func TestChatService_Reply(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	h.memberRepo.Create(ctx, &models.Member{Name: "Sinta", Role: "Ketua"})
	h.articleRepo.Create(ctx, &models.Article{Title: "Kerja Bakti", Excerpt: "Bersih-bersih", PublishedAt: time.Date(2024, 7, 20, 0, 0, 0, 0, time.UTC), CreatedAt: time.Now()})
	h.completer.Replies["llama-3.3-70b-versatile"] = "Ketua kami adalah Sinta."

	reply, err := h.services.Chat.Reply(ctx, []models.ChatMessage{{Role: "user", Content: "Siapa ketuanya?"}})
	if err != nil {
		t.Fatalf("Reply failed: %v", err)
	}
	if reply != "Ketua kami adalah Sinta." {
		t.Errorf("Unexpected reply %q", reply)
	}

	system := h.completer.Messages[0][0]
	if system.Role != "system" || !strings.Contains(system.Content, "- **Sinta** (Ketua)") || !strings.Contains(system.Content, "[20 Juli 2024] Kerja Bakti") {
		t.Errorf("System prompt missing live rows: %s", system.Content)
	}
}

func TestChatService_Errors(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	if _, err := h.services.Chat.Reply(ctx, nil); err == nil || errors.Is(err, service.ErrChatUnavailable) {
		t.Errorf("Expected message validation error, got %v", err)
	}

	h.completer.Errors["llama-3.3-70b-versatile"] = errors.New("down")
	h.completer.Errors["llama-3.1-8b-instant"] = errors.New("down too")

	_, err := h.services.Chat.Reply(ctx, []models.ChatMessage{{Role: "user", Content: "halo"}})
	if !errors.Is(err, service.ErrChatUnavailable) {
		t.Errorf("Expected ErrChatUnavailable, got %v", err)
	}
	if len(h.completer.Calls) != 2 {
		t.Errorf("Expected primary and fallback calls, got %v", h.completer.Calls)
	}
}

func TestMediaService_Upload(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	obj, err := h.services.Media.Upload(ctx, "covers", "Foto.PNG", "image/png", 3, bytes.NewReader([]byte("png")))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if !strings.HasPrefix(obj.Path, "covers/") || !strings.HasSuffix(obj.Path, ".png") {
		t.Errorf("Unexpected object path %s", obj.Path)
	}
	if !h.store.Has(obj.URL) {
		t.Error("Uploaded object should exist in store")
	}

	tests := []struct {
		name        string
		folder      string
		contentType string
		size        int64
	}{
		{"not an image", "covers", "application/pdf", 10},
		{"too large", "covers", "image/jpeg", 6 * 1024 * 1024},
		{"unknown folder", "../etc", "image/png", 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.services.Media.Upload(ctx, tt.folder, "x.png", tt.contentType, tt.size, strings.NewReader("x"))
			var vErr *service.ValidationFailedError
			if !errors.As(err, &vErr) {
				t.Errorf("Expected ValidationFailedError, got %v", err)
			}
		})
	}
}

func TestCleanupService_ProcessesJobs(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	a := h.store.Put("artikel/a.png", []byte("a"))
	b := h.store.Put("artikel/b.png", []byte("b"))

	job, err := h.services.Cleanup.Enqueue(ctx, []string{a, "https://example.com/foreign.png", b, a})
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	if len(job.URLs) != 2 {
		t.Fatalf("Expected foreign and duplicate URLs dropped, got %v", job.URLs)
	}

	go h.services.Cleanup.StartProcessor(ctx)
	defer h.services.Cleanup.StopProcessor()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if snap, _ := h.jobRepo.Snapshot(job.ID); snap.Status == models.JobStatusCompleted {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	snap, _ := h.jobRepo.Snapshot(job.ID)
	if snap.Status != models.JobStatusCompleted {
		t.Fatalf("Expected job completed, got %s", snap.Status)
	}
	if snap.Attempts != 1 || snap.CompletedAt == nil {
		t.Errorf("Expected one attempt with completion time, got %+v", snap)
	}
	if h.store.Has(a) || h.store.Has(b) {
		t.Error("Objects should be removed from storage")
	}
}

func TestCleanupService_RetriesThenFails(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()
	h.store.DeleteError = errors.New("storage offline")

	job, _ := h.services.Cleanup.Enqueue(ctx, []string{h.store.Put("covers/x.png", []byte("x"))})

	go h.services.Cleanup.StartProcessor(ctx)
	defer h.services.Cleanup.StopProcessor()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if snap, _ := h.jobRepo.Snapshot(job.ID); snap.Status == models.JobStatusFailed {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	snap, _ := h.jobRepo.Snapshot(job.ID)
	if snap.Status != models.JobStatusFailed {
		t.Fatalf("Expected job failed after retries, got %s", snap.Status)
	}
	if snap.Attempts != 2 || snap.LastError != "storage offline" {
		t.Errorf("Expected 2 attempts with last error, got %+v", snap)
	}

	stats, _ := h.services.Cleanup.Stats(ctx)
	if stats[models.JobStatusFailed] != 1 {
		t.Errorf("Expected 1 failed job in stats, got %v", stats)
	}
}

func TestCleanupService_WaitsForRetryDelay(t *testing.T) {
	cfg := testConfig()
	cfg.Cleanup.MaxAttempts = 3
	cfg.Cleanup.RetryDelay = time.Hour
	h := newTestHarnessWithConfig(t, cfg)
	ctx := context.Background()
	h.store.DeleteError = errors.New("storage offline")

	job, _ := h.services.Cleanup.Enqueue(ctx, []string{h.store.Put("covers/x.png", []byte("x"))})

	go h.services.Cleanup.StartProcessor(ctx)
	defer h.services.Cleanup.StopProcessor()

	waitForJob := func(done func(models.Job) bool) models.Job {
		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) {
			if snap, _ := h.jobRepo.Snapshot(job.ID); done(snap) {
				return snap
			}
			time.Sleep(10 * time.Millisecond)
		}
		snap, _ := h.jobRepo.Snapshot(job.ID)
		return snap
	}

	snap := waitForJob(func(j models.Job) bool { return j.Attempts == 1 && j.Status == models.JobStatusPending })
	if snap.Attempts != 1 || snap.NextAttemptAt == nil {
		t.Fatalf("Expected one failed attempt with a retry time, got %+v", snap)
	}
	if wait := time.Until(*snap.NextAttemptAt); wait < 59*time.Minute {
		t.Errorf("Expected retry about an hour out, got %s", wait)
	}

	// many poll intervals pass without another attempt
	time.Sleep(100 * time.Millisecond)
	snap, _ = h.jobRepo.Snapshot(job.ID)
	if snap.Attempts != 1 || snap.Status != models.JobStatusPending {
		t.Fatalf("Expected job held back until its retry time, got %+v", snap)
	}

	past := time.Now().Add(-time.Second)
	snap.NextAttemptAt = &past
	h.jobRepo.Update(ctx, &snap)

	snap = waitForJob(func(j models.Job) bool { return j.Attempts == 2 })
	if snap.Attempts != 2 {
		t.Fatalf("Expected a second attempt once due, got %+v", snap)
	}
	if snap.NextAttemptAt == nil || time.Until(*snap.NextAttemptAt) < 119*time.Minute {
		t.Errorf("Expected the retry delay to double, got %v", snap.NextAttemptAt)
	}
}

func TestCleanupService_RequeuesStaleJobs(t *testing.T) {
	cfg := testConfig()
	cfg.Cleanup.StaleAfter = time.Minute
	h := newTestHarnessWithConfig(t, cfg)
	ctx := context.Background()

	a := h.store.Put("artikel/a.png", []byte("a"))
	b := h.store.Put("artikel/b.png", []byte("b"))
	hourAgo := time.Now().Add(-time.Hour)
	justNow := time.Now()

	// a worker died an hour ago while holding the first job
	h.jobRepo.Create(ctx, &models.Job{
		ID: "stale", Type: models.JobTypeStorageCleanup, Status: models.JobStatusProcessing,
		URLs: []string{a}, StartedAt: &hourAgo, CreatedAt: hourAgo,
	})
	h.jobRepo.Create(ctx, &models.Job{
		ID: "running", Type: models.JobTypeStorageCleanup, Status: models.JobStatusProcessing,
		URLs: []string{b}, StartedAt: &justNow, CreatedAt: justNow,
	})

	go h.services.Cleanup.StartProcessor(ctx)
	defer h.services.Cleanup.StopProcessor()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if snap, _ := h.jobRepo.Snapshot("stale"); snap.Status == models.JobStatusCompleted {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	stale, _ := h.jobRepo.Snapshot("stale")
	if stale.Status != models.JobStatusCompleted || stale.Attempts != 1 {
		t.Fatalf("Expected stale job requeued and completed, got %+v", stale)
	}
	if h.store.Has(a) {
		t.Error("Stale job objects should be removed")
	}

	running, _ := h.jobRepo.Snapshot("running")
	if running.Status != models.JobStatusProcessing {
		t.Errorf("Expected recently started job left alone, got %s", running.Status)
	}
	if !h.store.Has(b) {
		t.Error("Recently started job objects should stay")
	}
}

func TestCleanupService_NothingToQueue(t *testing.T) {
	h := newTestHarness(t)

	job, err := h.services.Cleanup.Enqueue(context.Background(), []string{"https://example.com/x.png", ""})
	if err != nil || job != nil {
		t.Errorf("Expected no job for foreign URLs, got %v (%v)", job, err)
	}
}

func TestExportService_StreamArticles(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		h.services.Article.Create(ctx, validArticle(fmt.Sprintf("Artikel %d", i)))
	}

	t.Run("ndjson", func(t *testing.T) {
		rec := httptest.NewRecorder()
		if err := h.services.Export.StreamArticles(ctx, rec, "ndjson"); err != nil {
			t.Fatalf("StreamArticles failed: %v", err)
		}
		lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
		if len(lines) != 3 {
			t.Fatalf("Expected 3 lines, got %d", len(lines))
		}
		if rec.Header().Get("Content-Type") != "application/x-ndjson" {
			t.Errorf("Unexpected content type %s", rec.Header().Get("Content-Type"))
		}

		// Exported lines import back as article inputs
		var input models.ArticleInput
		if err := json.Unmarshal([]byte(lines[0]), &input); err != nil || input.Title == "" {
			t.Errorf("Line does not decode as an article input: %v", err)
		}
	})

	t.Run("json", func(t *testing.T) {
		rec := httptest.NewRecorder()
		if err := h.services.Export.StreamArticles(ctx, rec, "json"); err != nil {
			t.Fatalf("StreamArticles failed: %v", err)
		}
		var articles []models.Article
		if err := json.Unmarshal(rec.Body.Bytes(), &articles); err != nil {
			t.Fatalf("Invalid JSON array: %v", err)
		}
		if len(articles) != 3 {
			t.Errorf("Expected 3 articles, got %d", len(articles))
		}
	})

	t.Run("unsupported", func(t *testing.T) {
		err := h.services.Export.StreamArticles(ctx, httptest.NewRecorder(), "csv")
		if !errors.Is(err, service.ErrUnsupportedFormat) {
			t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
		}
	})
}

func TestExportService_GetCount(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()
	h.memberRepo.Create(ctx, &models.Member{Name: "A", Role: "B"})

	tests := []struct {
		resource string
		want     int
		wantErr  bool
	}{
		{"articles", 0, false},
		{"members", 1, false},
		{"comments", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.resource, func(t *testing.T) {
			count, err := h.services.Export.GetCount(ctx, tt.resource)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GetCount error = %v, wantErr %v", err, tt.wantErr)
			}
			if count != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, count)
			}
		})
	}
}
