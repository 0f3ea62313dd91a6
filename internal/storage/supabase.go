package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/amanah-profile-site/internal/config"
	"github.com/rs/zerolog"
)

const publicObjectPrefix = "/storage/v1/object/public/"

// SupabaseStore talks to the Supabase Storage REST API. Member photos go
// to their own bucket; everything else goes to the main bucket.
type SupabaseStore struct {
	baseURL      string
	key          string
	bucket       string
	memberBucket string
	client       *http.Client
	log          zerolog.Logger
}

// NewSupabaseStore creates a store for cfg. A nil client gets a default
// one with a 30 second timeout.
func NewSupabaseStore(cfg config.StorageConfig, client *http.Client, log zerolog.Logger) *SupabaseStore {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	memberBucket := cfg.MemberBucket
	if memberBucket == "" {
		memberBucket = cfg.Bucket
	}
	return &SupabaseStore{
		baseURL:      strings.TrimRight(cfg.SupabaseURL, "/"),
		key:          cfg.SupabaseKey,
		bucket:       cfg.Bucket,
		memberBucket: memberBucket,
		client:       client,
		log:          log.With().Str("component", "storage").Str("driver", "supabase").Logger(),
	}
}

func (s *SupabaseStore) bucketFor(folder string) string {
	if folder == FolderMembers {
		return s.memberBucket
	}
	return s.bucket
}

// PublicURL returns the public URL of an object.
func (s *SupabaseStore) PublicURL(bucket, objectPath string) string {
	return s.baseURL + publicObjectPrefix + bucket + "/" + objectPath
}

// PathFromURL splits a public URL of this project into bucket and object path.
func (s *SupabaseStore) PathFromURL(url string) (bucket, objectPath string, ok bool) {
	rest, found := strings.CutPrefix(url, s.baseURL+publicObjectPrefix)
	if !found {
		return "", "", false
	}
	bucket, objectPath, found = strings.Cut(rest, "/")
	if !found || objectPath == "" || (bucket != s.bucket && bucket != s.memberBucket) {
		return "", "", false
	}
	if i := strings.IndexAny(objectPath, "?#"); i >= 0 {
		objectPath = objectPath[:i]
	}
	return bucket, objectPath, true
}

// Owns reports whether url is a public URL of one of the store's buckets.
func (s *SupabaseStore) Owns(url string) bool {
	_, _, ok := s.PathFromURL(url)
	return ok
}

func (s *SupabaseStore) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.key)
	req.Header.Set("apikey", s.key)
	return req, nil
}

func (s *SupabaseStore) do(req *http.Request, out any) error {
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("storage request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("storage %s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func jsonBody(v any) (io.Reader, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}

// Upload stores body under folder/<unique name>.
func (s *SupabaseStore) Upload(ctx context.Context, folder, filename, contentType string, body io.Reader) (*Object, error) {
	if !ValidFolder(folder) {
		return nil, fmt.Errorf("invalid upload folder %q", folder)
	}
	bucket := s.bucketFor(folder)
	name := UniqueName(filename)
	objectPath := folder + "/" + name

	counter := &countingReader{r: body}
	req, err := s.newRequest(ctx, http.MethodPost, "/storage/v1/object/"+bucket+"/"+objectPath, counter)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Cache-Control", "max-age=3600")
	req.Header.Set("x-upsert", "false")

	if err := s.do(req, nil); err != nil {
		return nil, err
	}

	s.log.Debug().Str("bucket", bucket).Str("path", objectPath).Msg("Stored upload")

	return &Object{
		Name: name,
		Path: objectPath,
		URL:  s.PublicURL(bucket, objectPath),
		Size: counter.n,
	}, nil
}

// Delete removes the objects behind urls, one request per bucket.
func (s *SupabaseStore) Delete(ctx context.Context, urls []string) (int, error) {
	byBucket := make(map[string][]string)
	var order []string
	for _, url := range urls {
		bucket, objectPath, ok := s.PathFromURL(url)
		if !ok {
			continue
		}
		if _, seen := byBucket[bucket]; !seen {
			order = append(order, bucket)
		}
		byBucket[bucket] = append(byBucket[bucket], objectPath)
	}

	removed := 0
	for _, bucket := range order {
		body, err := jsonBody(map[string][]string{"prefixes": byBucket[bucket]})
		if err != nil {
			return removed, err
		}
		req, err := s.newRequest(ctx, http.MethodDelete, "/storage/v1/object/"+bucket, body)
		if err != nil {
			return removed, err
		}
		req.Header.Set("Content-Type", "application/json")

		var deleted []json.RawMessage
		if err := s.do(req, &deleted); err != nil {
			return removed, err
		}
		removed += len(deleted)
	}
	return removed, nil
}

type listRequest struct {
	Prefix string   `json:"prefix"`
	Limit  int      `json:"limit"`
	Offset int      `json:"offset"`
	SortBy sortSpec `json:"sortBy"`
}

type sortSpec struct {
	Column string `json:"column"`
	Order  string `json:"order"`
}

type listedObject struct {
	Name      string    `json:"name"`
	ID        *string   `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Metadata  struct {
		Size int64 `json:"size"`
	} `json:"metadata"`
}

// List returns up to ListLimit objects of folder, newest first.
func (s *SupabaseStore) List(ctx context.Context, folder string) ([]Object, error) {
	if !ValidFolder(folder) {
		return nil, fmt.Errorf("invalid upload folder %q", folder)
	}
	bucket := s.bucketFor(folder)

	body, err := jsonBody(listRequest{
		Prefix: folder,
		Limit:  ListLimit,
		SortBy: sortSpec{Column: "created_at", Order: "desc"},
	})
	if err != nil {
		return nil, err
	}
	req, err := s.newRequest(ctx, http.MethodPost, "/storage/v1/object/list/"+bucket, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var listed []listedObject
	if err := s.do(req, &listed); err != nil {
		return nil, err
	}

	objects := make([]Object, 0, len(listed))
	for _, o := range listed {
		// Folder placeholders have no id.
		if o.ID == nil {
			continue
		}
		objectPath := folder + "/" + o.Name
		objects = append(objects, Object{
			Name:      o.Name,
			Path:      objectPath,
			URL:       s.PublicURL(bucket, objectPath),
			Size:      o.Metadata.Size,
			CreatedAt: o.CreatedAt,
		})
	}
	return objects, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
