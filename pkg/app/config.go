package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/actionspec-io/spec-hub/pkg/log"
)

const configFlagName = "config"

// addConfigFlag registers the --config flag on the given flag set.
func addConfigFlag(basename string, fs *pflag.FlagSet) {
	fs.String(configFlagName, "", fmt.Sprintf(
		"Path to the %s configuration file. Flags given on the command line take precedence.", basename))
}

// loadConfig merges the optional configuration file and environment variables
// into the already-registered flags. Flag values explicitly set on the command
// line always win; viper only fills the gaps.
func loadConfig(cmd *cobra.Command, opts NamedFlagSetOptions) error {
	v := viper.New()

	cfgFile, _ := cmd.Flags().GetString(configFlagName)
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(cmd.Name())
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/" + cmd.Name())
	}

	v.SetEnvPrefix(strings.ReplaceAll(strings.ToUpper(cmd.Name()), "-", "_"))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read configuration file: %w", err)
		}
	} else {
		log.Info("Loaded configuration file", "file", v.ConfigFileUsed())

		v.OnConfigChange(func(e fsnotify.Event) {
			log.Info("Configuration file changed; restart to apply", "file", e.Name)
		})
		v.WatchConfig()
	}

	// Backfill flags that the user did not set explicitly.
	var applyErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed || !v.IsSet(f.Name) {
			return
		}
		if err := f.Value.Set(v.GetString(f.Name)); err != nil && applyErr == nil {
			applyErr = fmt.Errorf("invalid value for %s in configuration: %w", f.Name, err)
		}
	})

	return applyErr
}
