package pipeline

import (
	"fmt"
	"os"
	"strings"

	"github.com/albatrocity/radio-room-server-sub000/pkg/action"
	"github.com/albatrocity/radio-room-server-sub000/pkg/rule"
	"gopkg.in/yaml.v3"
)

// Config represents the complete pipeline configuration.
type Config struct {
	Rooms   []RoomConfig          `yaml:"rooms"`
	Actions []action.ActionConfig `yaml:"actions"`
}

// RoomConfig seeds the trigger rules of one room.
type RoomConfig struct {
	ID    string       `yaml:"id"`
	Rules rule.RuleSet `yaml:"rules"`
}

// LoadConfig loads pipeline configuration from a YAML file.
// Supports environment variable expansion in the form ${VAR_NAME} or ${VAR_NAME:default}.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return ParseConfig(data)
}

// ParseConfig parses and validates YAML pipeline configuration.
func ParseConfig(data []byte) (*Config, error) {
	expanded := expandEnvVars(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration for common errors.
// Individual trigger rules are validated when they are compiled, so a bad
// rule only drops that rule and never the whole file.
func (c *Config) Validate() error {
	roomIDs := make(map[string]bool)
	for _, room := range c.Rooms {
		if room.ID == "" {
			return fmt.Errorf("room with empty ID found")
		}
		if roomIDs[room.ID] {
			return fmt.Errorf("duplicate room ID: %s", room.ID)
		}
		roomIDs[room.ID] = true
	}

	actionIDs := make(map[string]bool)
	actionTypes := make(map[rule.ActionType]string)
	for _, ac := range c.Actions {
		if ac.ID == "" {
			return fmt.Errorf("action with empty ID found")
		}
		if actionIDs[ac.ID] {
			return fmt.Errorf("duplicate action ID: %s", ac.ID)
		}
		actionIDs[ac.ID] = true

		if ac.Type == "" {
			return fmt.Errorf("action %s has empty type", ac.ID)
		}
		if !ac.Type.Valid() {
			return fmt.Errorf("action %s has unknown type: %s", ac.ID, ac.Type)
		}
		if other, ok := actionTypes[ac.Type]; ok {
			return fmt.Errorf("actions %s and %s both handle type %s", other, ac.ID, ac.Type)
		}
		actionTypes[ac.Type] = ac.ID

		if err := ac.Retry.Validate(); err != nil {
			return fmt.Errorf("action %s: %w", ac.ID, err)
		}
	}

	return nil
}

// expandEnvVars expands environment variables in the format ${VAR} or ${VAR:default}.
func expandEnvVars(s string) string {
	return os.Expand(s, func(key string) string {
		// Support ${VAR:default} syntax
		parts := strings.SplitN(key, ":", 2)
		varName := parts[0]
		defaultValue := ""
		if len(parts) == 2 {
			defaultValue = parts[1]
		}

		value := os.Getenv(varName)
		if value == "" {
			return defaultValue
		}
		return value
	})
}
