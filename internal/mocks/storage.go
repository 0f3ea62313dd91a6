package mocks

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/amanah-profile-site/internal/chat"
	"github.com/amanah-profile-site/internal/models"
	"github.com/amanah-profile-site/internal/storage"
)

// Verify interface compliance
var (
	_ storage.Store  = (*MockStore)(nil)
	_ chat.Completer = (*MockCompleter)(nil)
)

// MockStore is an in-memory storage.Store serving URLs under BaseURL
type MockStore struct {
	mu          sync.Mutex
	BaseURL     string
	Objects     map[string][]byte
	DeleteError error
	DeleteCalls [][]string
}

func NewMockStore() *MockStore {
	return &MockStore{
		BaseURL: "https://cdn.test/storage/",
		Objects: make(map[string][]byte),
	}
}

func (m *MockStore) Upload(ctx context.Context, folder, filename, contentType string, body io.Reader) (*storage.Object, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	name := storage.UniqueName(filename)
	path := folder + "/" + name
	url := m.BaseURL + path
	m.Objects[url] = data
	return &storage.Object{Name: name, Path: path, URL: url, Size: int64(len(data))}, nil
}

func (m *MockStore) Delete(ctx context.Context, urls []string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls = append(m.DeleteCalls, append([]string(nil), urls...))
	if m.DeleteError != nil {
		return 0, m.DeleteError
	}
	removed := 0
	for _, u := range urls {
		if _, ok := m.Objects[u]; ok {
			delete(m.Objects, u)
			removed++
		}
	}
	return removed, nil
}

func (m *MockStore) List(ctx context.Context, folder string) ([]storage.Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []storage.Object
	prefix := m.BaseURL + folder + "/"
	for url, data := range m.Objects {
		if strings.HasPrefix(url, prefix) {
			out = append(out, storage.Object{
				Name: strings.TrimPrefix(url, prefix),
				Path: strings.TrimPrefix(url, m.BaseURL),
				URL:  url,
				Size: int64(len(data)),
			})
		}
	}
	return out, nil
}

func (m *MockStore) Owns(url string) bool {
	return strings.HasPrefix(url, m.BaseURL)
}

// Put stores an object directly and returns its URL
func (m *MockStore) Put(path string, data []byte) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	url := m.BaseURL + path
	m.Objects[url] = data
	return url
}

// Has reports whether an object with url exists
func (m *MockStore) Has(url string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Objects[url]
	return ok
}

// MockCompleter is a scripted chat.Completer
type MockCompleter struct {
	mu       sync.Mutex
	Replies  map[string]string
	Errors   map[string]error
	Calls    []string
	Messages [][]models.ChatMessage
}

func NewMockCompleter() *MockCompleter {
	return &MockCompleter{Replies: make(map[string]string), Errors: make(map[string]error)}
}

func (m *MockCompleter) Complete(ctx context.Context, model string, messages []models.ChatMessage) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, model)
	m.Messages = append(m.Messages, messages)
	if err := m.Errors[model]; err != nil {
		return "", err
	}
	return m.Replies[model], nil
}
