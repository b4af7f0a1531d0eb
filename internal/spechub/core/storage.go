package core

import (
	"context"

	"github.com/actionspec-io/spec-hub/internal/spechub/core/model"
)

// RevisionArchive defines the interface for archiving committed spec
// revisions to object storage. Archival is best effort and never blocks
// a deploy.
type RevisionArchive interface {
	// Archive stores a committed spec document under its commit SHA.
	Archive(ctx context.Context, id model.PodIdentity, commitSHA string, content []byte) error
}
