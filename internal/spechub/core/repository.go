package core

import (
	"context"

	"github.com/actionspec-io/spec-hub/internal/spechub/core/model"
)

// SpecRepository defines the interface for reading and writing pod spec
// documents in the remote spec repository. In spec-hub, this is implemented
// by the GitHub contents adapter.
type SpecRepository interface {
	// ListPods returns the identities of every pod spec present in the
	// repository, grouped per customer and ordered by environment lifecycle.
	ListPods(ctx context.Context) ([]model.PodIdentity, error)

	// FetchSpec retrieves the raw spec document for a pod together with the
	// blob SHA of the file at the time of the read.
	FetchSpec(ctx context.Context, id model.PodIdentity) (content []byte, sha string, err error)

	// CommitSpec writes a spec document back to the repository. A non-empty
	// sha makes the write conditional on the file being unchanged since the
	// read; an empty sha creates the file. Returns the new commit SHA.
	CommitSpec(ctx context.Context, id model.PodIdentity, content []byte, sha string, message string) (string, error)

	// RateLimit reports the remaining remote API quota.
	RateLimit(ctx context.Context) (*model.RateLimit, error)
}
