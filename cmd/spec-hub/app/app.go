package app

import (
	"fmt"

	genericapiserver "k8s.io/apiserver/pkg/server"

	"github.com/actionspec-io/spec-hub/cmd/spec-hub/app/options"
	"github.com/actionspec-io/spec-hub/pkg/app"
)

const (
	commandName = "spec-hub"
	commandDesc = `The spec hub serves pod spec documents from a GitOps
repository, validates and deploys changes to them, and triggers the
provisioning pipeline after every committed change.`
)

func NewApp() *app.App {
	opts := options.NewSpecHubOptions()
	application := app.NewApp(
		commandName,
		"Launch the spec hub server",
		app.WithDescription(commandDesc),
		app.WithOptions(opts),
		app.WithDefaultValidArgs(),
		app.WithRunFunc(run(opts)),
	)
	return application
}

func run(opts *options.SpecHubOptions) app.RunFunc {
	return func() error {
		ctx := genericapiserver.SetupSignalContext()

		cfg, err := opts.Config()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		server, err := cfg.NewSpecHubServer()
		if err != nil {
			return fmt.Errorf("failed to create spec hub server: %w", err)
		}

		return server.Run(ctx)
	}
}
