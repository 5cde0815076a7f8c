package cli

import (
	"github.com/valter-silva-au/pomotask/internal/core"
	"github.com/valter-silva-au/pomotask/internal/observability"
	"github.com/valter-silva-au/pomotask/pkg/models"
)

// Service instances, set during app initialization in app.go.
var (
	BasePath    string
	Config      *models.AppConfig
	TaskMgr     core.TaskManager
	IdentityMgr core.IdentityManager
	ImagePicker core.ImagePicker
	Events      core.EventLogger
)

// Observability service instances, set during app initialization in app.go.
var (
	EventLog    observability.EventLog
	MetricsCalc observability.MetricsCalculator
)

// timerConfig returns the configured timer settings, or the defaults when
// the app has not been initialized.
func timerConfig() models.TimerConfig {
	if Config == nil {
		return core.DefaultConfig().Timer
	}
	return Config.Timer
}

// identityConfig returns the configured onboarding policy, or the defaults.
func identityConfig() models.IdentityConfig {
	if Config == nil {
		return core.DefaultConfig().Identity
	}
	return Config.Identity
}
