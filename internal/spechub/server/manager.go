package server

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/actionspec-io/spec-hub/internal/spechub/core/service"
	"github.com/actionspec-io/spec-hub/internal/spechub/server/http"
	"github.com/actionspec-io/spec-hub/pkg/log"
)

// Server defines the common interface for all sub-servers.
type Server interface {
	Start(ctx context.Context) error
}

// Manager manages the lifecycle of all protocol servers.
type Manager struct {
	servers []Server
}

// NewManager creates a new server manager and initializes all sub-servers.
func NewManager(cfg *Config, svc *service.Service) (*Manager, error) {
	var servers []Server

	// HTTP server carries the API, health probes and metrics.
	httpSrv := http.NewServer(cfg.HttpOptions, svc)
	servers = append(servers, httpSrv)

	return &Manager{
		servers: servers,
	}, nil
}

// Start launches all servers in parallel and waits for termination.
func (m *Manager) Start(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, s := range m.servers {
		srv := s
		g.Go(func() error {
			return srv.Start(ctx)
		})
	}

	log.Info("All servers starting...")
	return g.Wait()
}
