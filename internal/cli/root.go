package cli

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/stackup-dev/stackup/internal/branding"
	"github.com/stackup-dev/stackup/internal/config"
	"github.com/stackup-dev/stackup/internal/logging"
	"github.com/stackup-dev/stackup/internal/registry"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	flagConfigPath  string
	flagTemplates   string
	flagRegistryURL string
	flagLogLevel    string
	flagLogFormat   string
)

// session is the per-invocation state built before any command runs.
type session struct {
	store    *config.Store
	settings *config.Settings
	logger   *slog.Logger
}

var current *session

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` composes a runnable project skeleton from independently authored
templates. Templates live under <templates>/<sdk>/<template>/` + branding.ManifestFile() + `.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		current = s
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfigPath, "config", "", "Config file (default "+config.FilePath()+")")
	pf.StringVar(&flagTemplates, "templates", "", "Template root directory")
	pf.StringVar(&flagRegistryURL, "registry-url", "", "Package registry base URL")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&flagLogFormat, "log-format", "", "Log format: text or json")
}

// flagBindings maps config keys to the flags that override them. Flags a
// command does not define are skipped.
var flagBindings = []struct{ key, flag string }{
	{config.KeyTemplatesDir, "templates"},
	{config.KeyRegistryURL, "registry-url"},
	{config.KeyLogLevel, "log-level"},
	{config.KeyLogFormat, "log-format"},
	{config.KeyMergeStrategy, "strategy"},
	{config.KeyLanguage, "language"},
	{config.KeyPackageManager, "package-manager"},
}

// openSession loads the config, applies command-line overrides and builds
// the logger.
func openSession(cmd *cobra.Command) (*session, error) {
	store, err := config.Open(flagConfigPath)
	if err != nil {
		return nil, err
	}

	for _, b := range flagBindings {
		f := cmd.Flags().Lookup(b.flag)
		if f == nil {
			f = cmd.Root().PersistentFlags().Lookup(b.flag)
		}
		if f == nil {
			continue
		}
		if err := store.BindFlag(b.key, f); err != nil {
			return nil, err
		}
	}

	settings, err := store.Settings()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cmd.ErrOrStderr(), settings.LogLevel, settings.LogFormat)
	if err != nil {
		return nil, err
	}
	return &session{store: store, settings: settings, logger: logger}, nil
}

// newRegistry builds a template registry from the session settings.
func (s *session) newRegistry(offline bool) *registry.Registry {
	client := &http.Client{Timeout: s.settings.RegistryTimeout}
	return registry.New(s.settings.TemplatesDir,
		registry.WithRegistryURL(s.settings.RegistryURL, client),
		registry.WithProbeTimeout(s.settings.RegistryTimeout),
		registry.WithConcurrency(s.settings.RegistryConcurrency),
		registry.WithOffline(offline || s.settings.Offline),
		registry.WithLogger(s.logger),
	)
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}
