// Package app provides the scaffolding every spec-hub command is built on:
// a cobra command wired to named flag sets, viper config-file loading, and a
// single run function.
package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	cliflag "k8s.io/component-base/cli/flag"

	"github.com/actionspec-io/spec-hub/pkg/log"
)

// RunFunc defines the application's startup callback function.
type RunFunc func() error

// NamedFlagSetOptions abstracts the full option set of an application.
type NamedFlagSetOptions interface {
	// Flags returns the flags of the options, grouped into named sets.
	Flags() cliflag.NamedFlagSets

	// Complete fills in any fields not set that are required to have valid data.
	Complete() error

	// Validate validates all the options.
	Validate() error
}

// App is the main structure of a cli application.
type App struct {
	name        string
	shortDesc   string
	description string
	options     NamedFlagSetOptions
	runFunc     RunFunc
	noConfig    bool
	args        cobra.PositionalArgs

	cmd *cobra.Command
}

// Option defines optional parameters for initializing the application structure.
type Option func(*App)

// WithOptions opens the application's function to read from the command line
// or read parameters from a configuration file.
func WithOptions(opts NamedFlagSetOptions) Option {
	return func(a *App) {
		a.options = opts
	}
}

// WithRunFunc is used to set the application startup callback function option.
func WithRunFunc(run RunFunc) Option {
	return func(a *App) {
		a.runFunc = run
	}
}

// WithDescription is used to set the description of the application.
func WithDescription(desc string) Option {
	return func(a *App) {
		a.description = desc
	}
}

// WithDefaultValidArgs sets the default validation function: any non-flag
// argument is rejected.
func WithDefaultValidArgs() Option {
	return func(a *App) {
		a.args = cobra.NoArgs
	}
}

// WithNoConfig disables the --config flag and config-file loading.
func WithNoConfig() Option {
	return func(a *App) {
		a.noConfig = true
	}
}

// NewApp creates a new application instance based on the given name,
// short description, and other options.
func NewApp(name string, shortDesc string, opts ...Option) *App {
	a := &App{
		name:      name,
		shortDesc: shortDesc,
	}

	for _, o := range opts {
		o(a)
	}

	a.buildCommand()

	return a
}

func (a *App) buildCommand() {
	cmd := &cobra.Command{
		Use:           a.name,
		Short:         a.shortDesc,
		Long:          a.description,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          a.args,
	}
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)
	cmd.Flags().SortFlags = true

	var fss cliflag.NamedFlagSets
	if a.options != nil {
		fss = a.options.Flags()
	}

	if !a.noConfig {
		addConfigFlag(a.name, fss.FlagSet("global"))
	}

	for _, fs := range fss.FlagSets {
		cmd.Flags().AddFlagSet(fs)
	}

	cmd.RunE = a.run

	cliflag.SetUsageAndHelpFunc(cmd, fss, 120)

	a.cmd = cmd
}

func (a *App) run(cmd *cobra.Command, args []string) error {
	if !a.noConfig {
		if err := loadConfig(cmd, a.options); err != nil {
			return err
		}
	}

	if a.options != nil {
		if err := a.options.Complete(); err != nil {
			return fmt.Errorf("failed to complete options: %w", err)
		}

		if err := a.options.Validate(); err != nil {
			return err
		}
	}

	log.Info("Starting application", "name", a.name)

	if a.runFunc != nil {
		return a.runFunc()
	}

	return nil
}

// Run launches the application.
func (a *App) Run() {
	if err := a.cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", a.name, err)
		os.Exit(1)
	}
}

// Command returns the cobra command underlying the application.
func (a *App) Command() *cobra.Command {
	return a.cmd
}
