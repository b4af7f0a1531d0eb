package core

import (
	"context"

	"github.com/actionspec-io/spec-hub/internal/spechub/core/model"
)

// PipelineTrigger defines the interface for kicking off the asynchronous
// provisioning pipeline after a spec change lands. In spec-hub, this is
// implemented by the workflow dispatch adapter.
type PipelineTrigger interface {
	// Trigger enqueues a pipeline run for the given deploy result.
	// Implementations must not block the caller; a full queue drops the
	// trigger and reports false.
	Trigger(ctx context.Context, result *model.DeployResult) bool
}
