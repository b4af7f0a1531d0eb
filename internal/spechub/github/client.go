// Package github implements the spec repository and pipeline trigger ports
// on top of the GitHub REST API.
package github

import (
	"context"

	gh "github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"

	"github.com/actionspec-io/spec-hub/pkg/options"
)

// NewClient builds an authenticated GitHub API client from the configured
// personal access token.
func NewClient(ctx context.Context, opts *options.GitHubOptions) *gh.Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
	return gh.NewClient(oauth2.NewClient(ctx, ts))
}
