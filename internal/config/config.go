package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stackup-dev/stackup/internal/branding"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Config keys.
const (
	KeyTemplatesDir        = "templates_dir"
	KeyRegistryURL         = "registry.url"
	KeyRegistryTimeout     = "registry.timeout"
	KeyRegistryConcurrency = "registry.concurrency"
	KeyRegistryOffline     = "registry.offline"
	KeyMergeStrategy       = "merge.strategy"
	KeyLanguage            = "scaffold.language"
	KeyPackageManager      = "scaffold.package_manager"
	KeyLogLevel            = "log.level"
	KeyLogFormat           = "log.format"
)

var defaultValues = map[string]any{
	KeyTemplatesDir:        "templates",
	KeyRegistryURL:         branding.RegistryURL(),
	KeyRegistryTimeout:     "10s",
	KeyRegistryConcurrency: 8,
	KeyRegistryOffline:     false,
	KeyMergeStrategy:       "highest",
	KeyLanguage:            "typescript",
	KeyPackageManager:      "npm",
	KeyLogLevel:            "warn",
	KeyLogFormat:           "text",
}

// Settings is the resolved configuration.
type Settings struct {
	TemplatesDir        string
	RegistryURL         string
	RegistryTimeout     time.Duration
	RegistryConcurrency int
	Offline             bool
	MergeStrategy       string
	Language            string
	PackageManager      string
	LogLevel            string
	LogFormat           string
}

// Dir returns the path to the config directory (~/.stackup/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.stackup/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// Store wraps a viper instance bound to one config file.
type Store struct {
	v    *viper.Viper
	path string
}

// Open creates a Store reading from path (FilePath() when empty) and the
// environment. A missing config file is not an error.
func Open(path string) (*Store, error) {
	if path == "" {
		path = FilePath()
	}

	v := viper.New()
	for key, value := range defaultValues {
		v.SetDefault(key, value)
	}
	v.SetConfigFile(path)
	v.SetConfigType(fileType)
	v.SetEnvPrefix(branding.EnvPrefix())
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(path); statErr == nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	return &Store{v: v, path: path}, nil
}

// Path returns the config file backing the store.
func (s *Store) Path() string {
	return s.path
}

// Settings resolves the typed settings.
func (s *Store) Settings() (*Settings, error) {
	timeout, err := time.ParseDuration(s.v.GetString(KeyRegistryTimeout))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", KeyRegistryTimeout, err)
	}
	concurrency := s.v.GetInt(KeyRegistryConcurrency)
	if concurrency < 1 {
		return nil, fmt.Errorf("invalid %s: must be at least 1, got %d", KeyRegistryConcurrency, concurrency)
	}

	return &Settings{
		TemplatesDir:        s.v.GetString(KeyTemplatesDir),
		RegistryURL:         s.v.GetString(KeyRegistryURL),
		RegistryTimeout:     timeout,
		RegistryConcurrency: concurrency,
		Offline:             s.v.GetBool(KeyRegistryOffline),
		MergeStrategy:       s.v.GetString(KeyMergeStrategy),
		Language:            s.v.GetString(KeyLanguage),
		PackageManager:      s.v.GetString(KeyPackageManager),
		LogLevel:            s.v.GetString(KeyLogLevel),
		LogFormat:           s.v.GetString(KeyLogFormat),
	}, nil
}

// BindFlag makes flag override key when the flag is set on the command
// line.
func (s *Store) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("binding %s: flag not defined", key)
	}
	if err := s.v.BindPFlag(key, flag); err != nil {
		return fmt.Errorf("binding %s to --%s: %w", key, flag.Name, err)
	}
	return nil
}

// Get returns a config value by key. Returns empty string if not set.
func (s *Store) Get(key string) string {
	return s.v.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func (s *Store) Set(key, value string) error {
	if !IsKnownKey(key) {
		return fmt.Errorf("unknown config key %q (known keys: %s)", key, strings.Join(Keys(), ", "))
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", filepath.Dir(s.path), err)
	}

	s.v.Set(key, value)

	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Keys returns all known config keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(defaultValues))
	for k := range defaultValues {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsKnownKey reports whether key is a recognized setting.
func IsKnownKey(key string) bool {
	_, ok := defaultValues[key]
	return ok
}
