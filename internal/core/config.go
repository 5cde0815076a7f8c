// Package core contains the business logic for pomotask: the task list, the
// Pomodoro timer state machine, onboarding identity and configuration.
package core

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/valter-silva-au/pomotask/pkg/models"
)

// ConfigFileName is the base name of the configuration file (without the
// .yaml extension Viper appends).
const ConfigFileName = ".pomotask"

// ConfigurationManager defines the interface for loading and validating the
// application configuration.
type ConfigurationManager interface {
	LoadConfig() (*models.AppConfig, error)
	ValidateConfig(cfg *models.AppConfig) error
}

// viperConfigManager implements ConfigurationManager using Viper for
// reading the YAML configuration file.
type viperConfigManager struct {
	// basePath is the directory where .pomotask.yaml resides.
	basePath string
}

// NewConfigurationManager creates a ConfigurationManager that reads
// .pomotask.yaml from basePath.
func NewConfigurationManager(basePath string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath}
}

// DefaultConfig returns an AppConfig populated with the built-in defaults.
func DefaultConfig() *models.AppConfig {
	return &models.AppConfig{
		Timer: models.TimerConfig{
			FocusMinutes: models.DefaultFocusDurationSeconds / 60,
			BreakMinutes: models.DefaultBreakDurationSeconds / 60,
			TargetMode:   true,
		},
		Store: models.StoreConfig{
			Backend: models.StoreBackendFile,
		},
		Identity: models.IdentityConfig{
			RequireUsername: true,
			DefaultUsername: DefaultUsername,
			SkipWhenSaved:   true,
		},
		Tasks: models.TasksConfig{
			Persist: false,
		},
	}
}

// LoadConfig reads .pomotask.yaml from the base path. If the file does not
// exist the defaults are returned. Environment variables prefixed with
// POMOTASK_ override file values (e.g. POMOTASK_STORE_BACKEND=sqlite).
func (cm *viperConfigManager) LoadConfig() (*models.AppConfig, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName(ConfigFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)
	v.SetEnvPrefix("POMOTASK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set Viper defaults so missing keys fall back gracefully.
	v.SetDefault("timer.focus_minutes", cfg.Timer.FocusMinutes)
	v.SetDefault("timer.break_minutes", cfg.Timer.BreakMinutes)
	v.SetDefault("timer.target_mode", cfg.Timer.TargetMode)
	v.SetDefault("store.backend", string(cfg.Store.Backend))
	v.SetDefault("store.path", cfg.Store.Path)
	v.SetDefault("identity.require_username", cfg.Identity.RequireUsername)
	v.SetDefault("identity.default_username", cfg.Identity.DefaultUsername)
	v.SetDefault("identity.skip_when_saved", cfg.Identity.SkipWhenSaved)
	v.SetDefault("tasks.persist", cfg.Tasks.Persist)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading %s.yaml: %w", ConfigFileName, err)
		}
	}

	cfg.Timer.FocusMinutes = v.GetInt("timer.focus_minutes")
	cfg.Timer.BreakMinutes = v.GetInt("timer.break_minutes")
	cfg.Timer.TargetMode = v.GetBool("timer.target_mode")
	cfg.Store.Backend = models.StoreBackend(strings.ToLower(v.GetString("store.backend")))
	cfg.Store.Path = v.GetString("store.path")
	cfg.Identity.RequireUsername = v.GetBool("identity.require_username")
	cfg.Identity.DefaultUsername = v.GetString("identity.default_username")
	cfg.Identity.SkipWhenSaved = v.GetBool("identity.skip_when_saved")
	cfg.Tasks.Persist = v.GetBool("tasks.persist")

	return cfg, nil
}

var validBackends = map[models.StoreBackend]bool{
	models.StoreBackendFile:   true,
	models.StoreBackendSQLite: true,
	models.StoreBackendMemory: true,
}

// ValidateConfig checks the configuration for invalid values and returns an
// error listing every problem found.
func (cm *viperConfigManager) ValidateConfig(cfg *models.AppConfig) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	var errs []string

	if err := ValidateMinutes("timer.focus_minutes", cfg.Timer.FocusMinutes); err != nil {
		errs = append(errs, err.Error())
	}
	if err := ValidateMinutes("timer.break_minutes", cfg.Timer.BreakMinutes); err != nil {
		errs = append(errs, err.Error())
	}
	if !validBackends[cfg.Store.Backend] {
		errs = append(errs, fmt.Sprintf(
			"store.backend %q is invalid, must be one of: file, sqlite, memory",
			cfg.Store.Backend,
		))
	}
	if !cfg.Identity.RequireUsername && strings.TrimSpace(cfg.Identity.DefaultUsername) == "" {
		errs = append(errs, "identity.default_username must not be empty when identity.require_username is false")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// ValidateMinutes checks that an interval length in minutes is within
// [1, models.MaxDurationMinutes].
func ValidateMinutes(name string, minutes int) error {
	if minutes <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, minutes)
	}
	if minutes > models.MaxDurationMinutes {
		return fmt.Errorf("%s must be at most %d, got %d", name, models.MaxDurationMinutes, minutes)
	}
	return nil
}
