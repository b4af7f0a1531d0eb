package service

import (
	"github.com/actionspec-io/spec-hub/internal/spechub/cache"
	"github.com/actionspec-io/spec-hub/internal/spechub/core"
)

// Service implements the core business logic (Use Cases) for spec-hub.
// It orchestrates calls between the Model entities and the Adapters (Ports).
type Service struct {
	repo    core.SpecRepository
	trigger core.PipelineTrigger
	archive core.RevisionArchive
	cache   *cache.Cache
}

// New creates a new instance of the spec-hub core service.
// Dependency Injection happens here. archive may be nil when revision
// archival is disabled.
func New(
	repo core.SpecRepository,
	trigger core.PipelineTrigger,
	archive core.RevisionArchive,
	specCache *cache.Cache,
) *Service {
	return &Service{
		repo:    repo,
		trigger: trigger,
		archive: archive,
		cache:   specCache,
	}
}
