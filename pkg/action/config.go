package action

import (
	"fmt"
	"time"

	"github.com/albatrocity/radio-room-server-sub000/pkg/rule"
)

// ActionConfig is the base configuration for all actions.
// This is typically loaded from YAML configuration files.
type ActionConfig struct {
	ID         string                 `yaml:"id" json:"id"`
	Name       string                 `yaml:"name" json:"name"`
	Type       rule.ActionType        `yaml:"type" json:"type"` // e.g., "skipTrack"
	Enabled    bool                   `yaml:"enabled" json:"enabled"`
	Retry      *RetryConfig           `yaml:"retry,omitempty" json:"retry,omitempty"`
	Parameters map[string]interface{} `yaml:"parameters" json:"parameters"`
}

// Backoff strategies for RetryConfig.
const (
	BackoffConstant    = "constant"
	BackoffExponential = "exponential"
)

// RetryConfig defines retry behavior for failed actions.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts" json:"max_attempts"`
	Delay       time.Duration `yaml:"delay" json:"delay"`
	Backoff     string        `yaml:"backoff" json:"backoff"` // "constant", "exponential"
}

// Validate checks retry settings.
func (r *RetryConfig) Validate() error {
	if r == nil {
		return nil
	}
	if r.MaxAttempts < 1 {
		return fmt.Errorf("%w: retry max_attempts must be at least 1", ErrInvalidConfig)
	}
	if r.Delay < 0 {
		return fmt.Errorf("%w: retry delay must be non-negative", ErrInvalidConfig)
	}
	switch r.Backoff {
	case "", BackoffConstant, BackoffExponential:
	default:
		return fmt.Errorf("%w: retry backoff %q is unknown", ErrInvalidConfig, r.Backoff)
	}
	return nil
}

// GetParameterString retrieves a string parameter with a default.
func (c *ActionConfig) GetParameterString(key string, defaultValue string) string {
	if val, ok := c.Parameters[key]; ok {
		if strVal, ok := val.(string); ok {
			return strVal
		}
	}
	return defaultValue
}

// GetParameterBool retrieves a boolean parameter with a default.
func (c *ActionConfig) GetParameterBool(key string, defaultValue bool) bool {
	if val, ok := c.Parameters[key]; ok {
		if boolVal, ok := val.(bool); ok {
			return boolVal
		}
	}
	return defaultValue
}
