package config

import (
	"github.com/asaskevich/govalidator"

	"github.com/kilianp07/edfsim/infra/logger"
)

// LoggingConfig defines diagnostic log settings. Logs go to stderr; stdout
// is reserved for the trace.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" valid:"required,in(debug|info|warn|error)"`
	// Format selects "json" records or human-readable "console" output.
	Format string `json:"format" valid:"required,in(json|console)"`
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "warn"
	}
	if c.Format == "" {
		c.Format = "console"
	}
}

// Validate checks mandatory fields.
func (c LoggingConfig) Validate() error {
	_, err := govalidator.ValidateStruct(c)
	return err
}

// Options converts the section to logger options.
func (c LoggingConfig) Options() logger.Options {
	return logger.Options{Level: c.Level, Format: c.Format}
}
