package uvstorage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// S3 over HTTP, just enough for path-style PUT and GET
type httpS3 struct {
	mu      sync.Mutex
	objects map[string][]byte // "/<bucket>/<key>" => content
}

func (h *httpS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		content, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		h.objects[r.URL.Path] = content
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		content, found := h.objects[r.URL.Path]
		if !found {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?>
<Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
			return
		}

		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(content)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *httpS3) put(path string, content []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.objects[path] = content
}

func (h *httpS3) get(path string) []byte {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.objects[path]
}

func (h *httpS3) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.objects)
}

func newHTTPBucket(t *testing.T, name string) (*Bucket, *httpS3) {
	t.Helper()

	backend := &httpS3{objects: map[string][]byte{}}
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	resource, err := SessionFactory{
		Endpoint:       srv.URL,
		ForcePathStyle: true,
	}.NewResource(testCredentials, "us-east-1")
	require.NoError(t, err)

	return resource.Bucket(name), backend
}

func TestBucketUploadFile(t *testing.T) {
	bucket, backend := newHTTPBucket(t, "models")

	path := filepath.Join(t.TempDir(), "model.pkl")
	require.NoError(t, os.WriteFile(path, []byte("trained weights"), 0600))

	require.NoError(t, bucket.UploadFile(context.Background(), "runs/1/model.pkl", path))

	assert.Equal(t, "trained weights", string(backend.get("/models/runs/1/model.pkl")))
}

func TestBucketUploadFileMissingLocalFile(t *testing.T) {
	bucket, backend := newHTTPBucket(t, "models")

	err := bucket.UploadFile(context.Background(), "model.pkl", filepath.Join(t.TempDir(), "nonexistent"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, 0, backend.count())
}

func TestBucketDownloadFile(t *testing.T) {
	bucket, backend := newHTTPBucket(t, "models")
	backend.put("/models/runs/1/model.pkl", []byte("trained weights"))

	path := filepath.Join(t.TempDir(), "model.pkl")

	require.NoError(t, bucket.DownloadFile(context.Background(), "runs/1/model.pkl", path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "trained weights", string(content))
}

func TestBucketDownloadFileReplacesExisting(t *testing.T) {
	bucket, backend := newHTTPBucket(t, "models")
	backend.put("/models/model.pkl", []byte("new"))

	path := filepath.Join(t.TempDir(), "model.pkl")
	require.NoError(t, os.WriteFile(path, []byte("old and longer"), 0600))

	require.NoError(t, bucket.DownloadFile(context.Background(), "model.pkl", path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(content))
}

func TestBucketDownloadFileMissingKeyKeepsExistingFile(t *testing.T) {
	bucket, _ := newHTTPBucket(t, "models")

	dir := t.TempDir()
	path := filepath.Join(dir, "model.pkl")
	require.NoError(t, os.WriteFile(path, []byte("previously good model"), 0600))

	err := bucket.DownloadFile(context.Background(), "missing.pkl", path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrObjectNotFound))
	assert.Equal(t, "models/missing.pkl: object not found", err.Error())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previously good model", string(content))

	// no leftover temp files either
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestBucketGetOverHTTPMapsNoSuchKey(t *testing.T) {
	bucket, _ := newHTTPBucket(t, "models")

	_, err := bucket.Read(context.Background(), "missing.pkl")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrObjectNotFound))
}
