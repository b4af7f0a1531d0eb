package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	gh "github.com/google/go-github/v66/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/actionspec-io/spec-hub/internal/pkg/util"
	"github.com/actionspec-io/spec-hub/internal/spechub/core/model"
	"github.com/actionspec-io/spec-hub/pkg/options"
)

func newTestRepository(t *testing.T, handler http.Handler) *repository {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := gh.NewClient(nil)
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	client.BaseURL = base

	opts := options.NewGitHubOptions()
	opts.Token = "test-token"
	opts.Repo = "acme/pod-specs"
	return NewRepository(client, opts)
}

func TestListPodsOrdersEnvironmentsByLifecycle(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/pod-specs/git/trees/main", func(w http.ResponseWriter, r *http.Request) {
		paths := []string{
			"infra/contoso/prd/spec.yml",
			"infra/advworks/prd/spec.yml",
			"infra/advworks/dev/spec.yml",
			"infra/advworks/qa1/spec.yml",
			"infra/advworks/stg/spec.yml",
			"infra/advworks/dev/notes.md",
			"infra/README.md",
			"docs/guide.md",
		}
		var entries []map[string]string
		for _, p := range paths {
			entries = append(entries, map[string]string{"path": p, "type": "blob"})
		}
		entries = append(entries, map[string]string{"path": "infra/advworks", "type": "tree"})
		json.NewEncoder(w).Encode(map[string]any{"sha": "t1", "tree": entries})
	})

	repo := newTestRepository(t, mux)
	pods, err := repo.ListPods(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []model.PodIdentity{
		{Customer: "advworks", Environment: "dev"},
		{Customer: "advworks", Environment: "stg"},
		{Customer: "advworks", Environment: "prd"},
		{Customer: "advworks", Environment: "qa1"},
		{Customer: "contoso", Environment: "prd"},
	}, pods)
}

func TestFetchSpec(t *testing.T) {
	const doc = "metadata:\n  customer: advworks\n"

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/pod-specs/contents/infra/advworks/dev/spec.yml", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "main", r.URL.Query().Get("ref"))
		json.NewEncoder(w).Encode(map[string]any{
			"type":     "file",
			"encoding": "base64",
			"sha":      "blob1",
			"content":  base64.StdEncoding.EncodeToString([]byte(doc)),
		})
	})

	repo := newTestRepository(t, mux)
	content, sha, err := repo.FetchSpec(context.Background(), model.PodIdentity{Customer: "advworks", Environment: "dev"})
	require.NoError(t, err)
	assert.Equal(t, doc, string(content))
	assert.Equal(t, "blob1", sha)
}

func TestFetchSpecNotFound(t *testing.T) {
	repo := newTestRepository(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Not Found"}`)
	}))

	_, _, err := repo.FetchSpec(context.Background(), model.PodIdentity{Customer: "ghost", Environment: "dev"})
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestCommitSpec(t *testing.T) {
	var gotBody map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/pod-specs/contents/infra/advworks/dev/spec.yml", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]any{"commit": map[string]any{"sha": "commit1"}})
	})

	repo := newTestRepository(t, mux)
	id := model.PodIdentity{Customer: "advworks", Environment: "dev"}

	sha, err := repo.CommitSpec(context.Background(), id, []byte("spec: {}\n"), "blob1", "deploy: update advworks/dev (instance=web1 waf=on)")
	require.NoError(t, err)
	assert.Equal(t, "commit1", sha)
	assert.Equal(t, "blob1", gotBody["sha"])
	assert.Equal(t, "main", gotBody["branch"])
	assert.Equal(t, "deploy: update advworks/dev (instance=web1 waf=on)", gotBody["message"])
}

func TestCommitSpecCreateOmitsSHA(t *testing.T) {
	var gotBody map[string]any
	repo := newTestRepository(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]any{"commit": map[string]any{"sha": "commit1"}})
	}))

	_, err := repo.CommitSpec(context.Background(), model.PodIdentity{Customer: "c", Environment: "dev"}, []byte("spec: {}\n"), "", "deploy: create c/dev (instance=api waf=off)")
	require.NoError(t, err)
	_, hasSHA := gotBody["sha"]
	assert.False(t, hasSHA)
}

func TestCommitSpecConflict(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"409 head moved", http.StatusConflict, `{"message":"is at ... but expected ..."}`},
		{"422 stale blob sha", http.StatusUnprocessableEntity, `{"message":"infra/c/dev/spec.yml does not match 0bf9c2"}`},
		{"422 create lost race", http.StatusUnprocessableEntity, `{"message":"Invalid request.\n\n\"sha\" wasn't supplied."}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newTestRepository(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))

			_, err := repo.CommitSpec(context.Background(), model.PodIdentity{Customer: "c", Environment: "dev"}, []byte("spec: {}\n"), "stale", "deploy: update c/dev (instance=api waf=off)")
			assert.ErrorIs(t, err, util.ErrConflict)
		})
	}
}

func TestCommitSpecPlainValidationErrorIsNotConflict(t *testing.T) {
	repo := newTestRepository(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"message":"Invalid request.\n\ncontent is too large."}`)
	}))

	_, err := repo.CommitSpec(context.Background(), model.PodIdentity{Customer: "c", Environment: "dev"}, []byte("spec: {}\n"), "blob1", "deploy: update c/dev (instance=api waf=off)")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, util.ErrConflict)
}
