package models

// StoreBackend names a key-value store implementation.
type StoreBackend string

const (
	StoreBackendFile   StoreBackend = "file"
	StoreBackendSQLite StoreBackend = "sqlite"
	StoreBackendMemory StoreBackend = "memory"
)

// TimerConfig holds the timer defaults read from .pomotask.yaml.
type TimerConfig struct {
	FocusMinutes int  `yaml:"focus_minutes" mapstructure:"focus_minutes"`
	BreakMinutes int  `yaml:"break_minutes" mapstructure:"break_minutes"`
	TargetMode   bool `yaml:"target_mode" mapstructure:"target_mode"`
}

// StoreConfig selects and locates the key-value store.
type StoreConfig struct {
	Backend StoreBackend `yaml:"backend" mapstructure:"backend"`
	Path    string       `yaml:"path,omitempty" mapstructure:"path"`
}

// IdentityConfig controls the onboarding validation policy.
type IdentityConfig struct {
	RequireUsername bool   `yaml:"require_username" mapstructure:"require_username"`
	DefaultUsername string `yaml:"default_username" mapstructure:"default_username"`
	SkipWhenSaved   bool   `yaml:"skip_when_saved" mapstructure:"skip_when_saved"`
}

// TasksConfig controls task list persistence.
type TasksConfig struct {
	Persist bool `yaml:"persist" mapstructure:"persist"`
}

// AppConfig is the full application configuration.
type AppConfig struct {
	Timer    TimerConfig    `yaml:"timer" mapstructure:"timer"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Identity IdentityConfig `yaml:"identity" mapstructure:"identity"`
	Tasks    TasksConfig    `yaml:"tasks" mapstructure:"tasks"`
}
