// Package spechub wires the core service, its adapters and the ingress
// servers into one runnable unit.
package spechub

import (
	"context"

	"github.com/actionspec-io/spec-hub/internal/spechub/github"
	"github.com/actionspec-io/spec-hub/internal/spechub/server"
	"github.com/actionspec-io/spec-hub/pkg/log"
)

// SpecHubServer is the assembled service: the ingress servers plus the
// background pipeline trigger worker.
type SpecHubServer struct {
	serverManager   *server.Manager
	triggerPipeline *github.TriggerPipeline
}

// Run starts the trigger worker and all ingress servers, then blocks until
// ctx is canceled or a server fails.
func (s *SpecHubServer) Run(ctx context.Context) error {
	go s.triggerPipeline.Start(ctx)

	err := s.serverManager.Start(ctx)
	log.Info("Spec hub server stopped")
	return err
}
