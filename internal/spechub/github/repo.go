package github

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	gh "github.com/google/go-github/v66/github"

	"github.com/actionspec-io/spec-hub/internal/pkg/metrics"
	"github.com/actionspec-io/spec-hub/internal/pkg/util"
	"github.com/actionspec-io/spec-hub/internal/spechub/core"
	"github.com/actionspec-io/spec-hub/internal/spechub/core/model"
	"github.com/actionspec-io/spec-hub/pkg/options"
)

// specFileName is the fixed file name of a pod spec document inside its
// environment directory.
const specFileName = "spec.yml"

var _ core.SpecRepository = (*repository)(nil)

// envRank orders environments by lifecycle stage. Unknown environments sort
// after the known ones, alphabetically.
var envRank = map[string]int{
	"dev": 0,
	"stg": 1,
	"prd": 2,
}

// repository implements core.SpecRepository against the GitHub contents API.
type repository struct {
	client *gh.Client

	owner    string
	repo     string
	basePath string
	branch   string
}

// NewRepository creates a spec repository backed by the configured GitHub
// repository.
func NewRepository(client *gh.Client, opts *options.GitHubOptions) *repository {
	return &repository{
		client:   client,
		owner:    opts.Owner(),
		repo:     opts.Name(),
		basePath: strings.Trim(opts.SpecsPath, "/"),
		branch:   opts.Branch,
	}
}

// ListPods walks the git tree once and collects every
// <base>/<customer>/<environment>/spec.yml path.
func (r *repository) ListPods(ctx context.Context) ([]model.PodIdentity, error) {
	tree, _, err := r.client.Git.GetTree(ctx, r.owner, r.repo, r.branch, true)
	if err != nil {
		return nil, r.mapError("ListPods", err)
	}
	metrics.RemoteCallsTotal.WithLabelValues("list", "ok").Inc()

	prefix := r.basePath + "/"
	var pods []model.PodIdentity
	for _, entry := range tree.Entries {
		p := entry.GetPath()
		if entry.GetType() != "blob" || !strings.HasPrefix(p, prefix) {
			continue
		}
		parts := strings.Split(strings.TrimPrefix(p, prefix), "/")
		if len(parts) != 3 || parts[2] != specFileName {
			continue
		}
		pods = append(pods, model.PodIdentity{Customer: parts[0], Environment: parts[1]})
	}

	sort.Slice(pods, func(i, j int) bool {
		if pods[i].Customer != pods[j].Customer {
			return pods[i].Customer < pods[j].Customer
		}
		ri, iKnown := envRank[pods[i].Environment]
		rj, jKnown := envRank[pods[j].Environment]
		if !iKnown {
			ri = len(envRank)
		}
		if !jKnown {
			rj = len(envRank)
		}
		if ri != rj {
			return ri < rj
		}
		return pods[i].Environment < pods[j].Environment
	})
	return pods, nil
}

// FetchSpec reads a spec document and its blob SHA at the configured branch.
func (r *repository) FetchSpec(ctx context.Context, id model.PodIdentity) ([]byte, string, error) {
	opts := &gh.RepositoryContentGetOptions{Ref: r.branch}
	file, _, _, err := r.client.Repositories.GetContents(ctx, r.owner, r.repo, r.specPath(id), opts)
	if err != nil {
		return nil, "", r.mapError("fetch", err)
	}
	if file == nil {
		metrics.RemoteCallsTotal.WithLabelValues("fetch", "error").Inc()
		return nil, "", fmt.Errorf("%s is a directory, expected a file", r.specPath(id))
	}
	metrics.RemoteCallsTotal.WithLabelValues("fetch", "ok").Inc()

	content, err := file.GetContent()
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode %s: %w", r.specPath(id), err)
	}
	return []byte(content), file.GetSHA(), nil
}

// CommitSpec writes a spec document to the configured branch. A non-empty
// sha updates the existing blob and fails with util.ErrConflict when the
// blob changed since it was read; an empty sha creates the file.
func (r *repository) CommitSpec(ctx context.Context, id model.PodIdentity, content []byte, sha, message string) (string, error) {
	fileOpts := &gh.RepositoryContentFileOptions{
		Message: gh.String(message),
		Content: content,
		Branch:  gh.String(r.branch),
	}

	var (
		resp *gh.RepositoryContentResponse
		err  error
	)
	if sha == "" {
		resp, _, err = r.client.Repositories.CreateFile(ctx, r.owner, r.repo, r.specPath(id), fileOpts)
	} else {
		fileOpts.SHA = gh.String(sha)
		resp, _, err = r.client.Repositories.UpdateFile(ctx, r.owner, r.repo, r.specPath(id), fileOpts)
	}
	if err != nil {
		return "", r.mapError("commit", err)
	}
	metrics.RemoteCallsTotal.WithLabelValues("commit", "ok").Inc()

	return resp.Commit.GetSHA(), nil
}

// RateLimit reports the core REST quota of the authenticated token.
func (r *repository) RateLimit(ctx context.Context) (*model.RateLimit, error) {
	rl, _, err := r.client.RateLimit.Get(ctx)
	if err != nil {
		return nil, r.mapError("ratelimit", err)
	}
	metrics.RemoteCallsTotal.WithLabelValues("ratelimit", "ok").Inc()

	metrics.RateLimitRemaining.Set(float64(rl.Core.Remaining))
	return &model.RateLimit{
		Limit:     rl.Core.Limit,
		Remaining: rl.Core.Remaining,
		Reset:     rl.Core.Reset.Time,
	}, nil
}

func (r *repository) specPath(id model.PodIdentity) string {
	return path.Join(r.basePath, id.Customer, id.Environment, specFileName)
}

// mapError translates GitHub API failures into the error vocabulary the
// service layer understands. 404s and 409s become sentinels, rate limits
// and server errors become remote_unavailable with retry guidance.
func (r *repository) mapError(op string, err error) error {
	metrics.RemoteCallsTotal.WithLabelValues(op, "error").Inc()

	switch e := err.(type) {
	case *gh.RateLimitError:
		ce := core.NewError(core.KindRemoteUnavailable, op, model.PodIdentity{},
			"GitHub API rate limit exhausted", err)
		ce.RetryAfter = time.Until(e.Rate.Reset.Time)
		return ce
	case *gh.AbuseRateLimitError:
		ce := core.NewError(core.KindRemoteUnavailable, op, model.PodIdentity{},
			"GitHub API secondary rate limit hit", err)
		if e.RetryAfter != nil {
			ce.RetryAfter = *e.RetryAfter
		}
		return ce
	case *gh.ErrorResponse:
		if e.Response != nil {
			switch {
			case e.Response.StatusCode == 404:
				return util.ErrNotFound
			case e.Response.StatusCode == 409:
				return util.ErrConflict
			case e.Response.StatusCode == 422 && isShaConflict(e.Message):
				return util.ErrConflict
			case e.Response.StatusCode >= 500:
				return core.NewError(core.KindRemoteUnavailable, op, model.PodIdentity{},
					"GitHub API returned a server error", err)
			}
		}
		return err
	}
	return core.NewError(core.KindRemoteUnavailable, op, model.PodIdentity{},
		"GitHub API unreachable", err)
}

// isShaConflict recognizes the 422 variants of a lost commit race: a stale
// blob SHA on update ("... does not match ..."), or a create against a file
// that already exists (`"sha" wasn't supplied`).
func isShaConflict(message string) bool {
	msg := strings.ToLower(message)
	return strings.Contains(msg, "does not match") || strings.Contains(msg, `"sha"`)
}
