package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/actionspec-io/spec-hub/internal/spechub/core/model"
	"github.com/actionspec-io/spec-hub/pkg/options"
)

// s3Stub records the bucket and object requests the archive issues.
type s3Stub struct {
	mu           sync.Mutex
	bucketExists bool
	madeBucket   bool
	putKeys      []string
	putBodies    map[string]string
}

func (s *s3Stub) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		switch {
		case r.Method == http.MethodHead:
			if s.bucketExists {
				w.WriteHeader(http.StatusOK)
			} else {
				w.WriteHeader(http.StatusNotFound)
			}
		case r.Method == http.MethodPut && strings.Count(strings.Trim(r.URL.Path, "/"), "/") == 0:
			s.madeBucket = true
			s.bucketExists = true
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodPut:
			body, _ := io.ReadAll(r.Body)
			key := strings.TrimPrefix(r.URL.Path, "/")
			s.putKeys = append(s.putKeys, key)
			if s.putBodies == nil {
				s.putBodies = map[string]string{}
			}
			s.putBodies[key] = string(body)
			w.Header().Set("ETag", `"stub"`)
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusOK)
		}
	})
}

func newTestArchive(t *testing.T, stub *s3Stub) *minioArchive {
	t.Helper()
	srv := httptest.NewServer(stub.handler())
	t.Cleanup(srv.Close)

	opts := options.NewS3Options()
	opts.Enabled = true
	opts.Endpoint = strings.TrimPrefix(srv.URL, "http://")
	opts.AccessKeyID = "test"
	opts.SecretAccessKey = "test"
	opts.UseSSL = false

	archive, err := NewMinIOArchive(context.Background(), opts)
	require.NoError(t, err)
	return archive.(*minioArchive)
}

func TestNewMinIOArchiveCreatesMissingBucket(t *testing.T) {
	stub := &s3Stub{bucketExists: false}
	newTestArchive(t, stub)

	assert.True(t, stub.madeBucket)
}

func TestNewMinIOArchiveKeepsExistingBucket(t *testing.T) {
	stub := &s3Stub{bucketExists: true}
	newTestArchive(t, stub)

	assert.False(t, stub.madeBucket)
}

func TestArchiveKeysRevisionByCommit(t *testing.T) {
	stub := &s3Stub{bucketExists: true}
	archive := newTestArchive(t, stub)

	id := model.PodIdentity{Customer: "advworks", Environment: "dev"}
	err := archive.Archive(context.Background(), id, "0bf9c2", []byte("spec: {}\n"))
	require.NoError(t, err)

	key := archive.bucketName + "/advworks/dev/0bf9c2.yml"
	assert.Contains(t, stub.putKeys, key)
	assert.Contains(t, stub.putBodies[key], "spec: {}")
}
