package spechub

import (
	"context"
	"fmt"

	"github.com/actionspec-io/spec-hub/internal/spechub/cache"
	"github.com/actionspec-io/spec-hub/internal/spechub/core"
	"github.com/actionspec-io/spec-hub/internal/spechub/core/service"
	"github.com/actionspec-io/spec-hub/internal/spechub/github"
	"github.com/actionspec-io/spec-hub/internal/spechub/server"
	"github.com/actionspec-io/spec-hub/internal/spechub/storage"
	"github.com/actionspec-io/spec-hub/pkg/options"
)

type Config struct {
	HttpOptions   *options.HttpOptions
	GitHubOptions *options.GitHubOptions
	S3Options     *options.S3Options
}

func (cfg *Config) NewSpecHubServer() (*SpecHubServer, error) {
	// 1. Infrastructure: the GitHub client shared by both secondary adapters.
	client := github.NewClient(context.Background(), cfg.GitHubOptions)

	pipeline := github.NewTriggerPipeline(client, cfg.GitHubOptions)
	repo := github.NewRepository(client, cfg.GitHubOptions)

	// 2. Infrastructure: revision archive (optional).
	var archive core.RevisionArchive
	if cfg.S3Options.Enabled {
		var err error
		archive, err = storage.NewMinIOArchive(context.Background(), cfg.S3Options)
		if err != nil {
			return nil, fmt.Errorf("failed to init revision archive: %w", err)
		}
	}

	// 3. Core Domain Service (The Business Logic)
	// Injecting all Secondary Adapters into the Core
	svc := service.New(repo, pipeline, archive, cache.New(cfg.GitHubOptions.CacheTTL))

	// 4. Ingress Servers (Primary Adapters)
	serverConfig := &server.Config{
		HttpOptions: cfg.HttpOptions,
	}
	srvManager, err := server.NewManager(serverConfig, svc)
	if err != nil {
		return nil, fmt.Errorf("failed to init server manager: %w", err)
	}

	return &SpecHubServer{
		serverManager:   srvManager,
		triggerPipeline: pipeline,
	}, nil
}
