// Package config holds the plugin configuration: the entrypoint list and the
// dev server settings, loadable from bksplugin.yaml or supplied in code.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the configuration file looked up in the project root.
const DefaultFileName = "bksplugin.yaml"

// Entrypoint is a configured (input HTML path, output HTML path) pair, both
// relative to the project root. Immutable once supplied.
type Entrypoint struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
}

// PluginConfig is the full configuration for one plugin project.
type PluginConfig struct {
	Name        string       `yaml:"name"`
	Port        int          `yaml:"port"`
	Entrypoints []Entrypoint `yaml:"entrypoints"`
	DevCmd      string       `yaml:"dev_cmd,omitempty"`
}

// DefaultEntrypoints returns the entrypoint list used when none is configured.
func DefaultEntrypoints() []Entrypoint {
	return []Entrypoint{{Input: "index.html", Output: "dist/index.html"}}
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation error in field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	if len(errs) == 0 {
		return "no validation errors"
	}

	var messages []string
	for _, err := range errs {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

func (errs ValidationErrors) HasErrors() bool {
	return len(errs) > 0
}

// ConfigLoadOptions provides options for loading configuration
type ConfigLoadOptions struct {
	Path              string
	AllowMissing      bool
	ValidateStructure bool
	ApplyDefaults     bool
	Quiet             bool
}

// DefaultLoadOptions returns sensible defaults for config loading
func DefaultLoadOptions() ConfigLoadOptions {
	return ConfigLoadOptions{
		Path:              DefaultFileName,
		AllowMissing:      true,
		ValidateStructure: true,
		ApplyDefaults:     true,
		Quiet:             false,
	}
}

// ConfigManager handles configuration loading, validation, and management
type ConfigManager struct {
	options ConfigLoadOptions
}

// NewConfigManager creates a new configuration manager
func NewConfigManager(options ConfigLoadOptions) *ConfigManager {
	return &ConfigManager{options: options}
}

// LoadConfig loads and validates the configuration
func (cm *ConfigManager) LoadConfig() (*PluginConfig, error) {
	return cm.LoadConfigFromPath(cm.options.Path)
}

// LoadConfigFromPath loads configuration from a specific path
func (cm *ConfigManager) LoadConfigFromPath(path string) (*PluginConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if cm.options.AllowMissing {
			if !cm.options.Quiet {
				fmt.Printf("⚠️  Configuration file not found at %s, using defaults\n", path)
			}
			return cm.createDefaultConfig(), nil
		}
		return nil, fmt.Errorf("configuration file not found: %s\n\nAre you in a plugin project directory?\nRun 'bks-vite new <plugin-name>' to create one", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}

	var config PluginConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %s: %w\n\nPlease check your YAML syntax", path, err)
	}

	if cm.options.ApplyDefaults {
		cm.applyDefaults(&config)
	}

	if cm.options.ValidateStructure {
		if errs := cm.validateConfig(&config); errs.HasErrors() {
			return nil, fmt.Errorf("configuration validation failed:\n%s", cm.formatValidationErrors(errs))
		}
	}

	return &config, nil
}

// validateConfig performs validation on the configuration
func (cm *ConfigManager) validateConfig(config *PluginConfig) ValidationErrors {
	var errors ValidationErrors

	if config.Port <= 0 || config.Port > 65535 {
		errors = append(errors, ValidationError{
			Field:   "port",
			Value:   config.Port,
			Message: "port must be between 1 and 65535",
		})
	}

	for i, entry := range config.Entrypoints {
		if entry.Input == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("entrypoints[%d].input", i),
				Value:   entry.Input,
				Message: "entrypoint input cannot be empty",
			})
		}
		if entry.Output == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("entrypoints[%d].output", i),
				Value:   entry.Output,
				Message: "entrypoint output cannot be empty",
			})
		}
		for _, p := range []string{entry.Input, entry.Output} {
			if p != "" && (filepath.IsAbs(p) || strings.HasPrefix(filepath.Clean(p), "..")) {
				errors = append(errors, ValidationError{
					Field:   fmt.Sprintf("entrypoints[%d]", i),
					Value:   p,
					Message: "entrypoint paths must stay relative to the project root",
				})
			}
		}
	}

	return errors
}

// applyDefaults sets default values for missing configuration fields
func (cm *ConfigManager) applyDefaults(config *PluginConfig) {
	if config.Port == 0 {
		config.Port = 5173
	}
	if len(config.Entrypoints) == 0 {
		config.Entrypoints = DefaultEntrypoints()
	}
}

// createDefaultConfig creates a default configuration when no config file exists
func (cm *ConfigManager) createDefaultConfig() *PluginConfig {
	return &PluginConfig{
		Name:        "my-bks-plugin",
		Port:        5173,
		Entrypoints: DefaultEntrypoints(),
	}
}

// formatValidationErrors formats validation errors in a user-friendly way
func (cm *ConfigManager) formatValidationErrors(errors ValidationErrors) string {
	var lines []string
	for i, err := range errors {
		lines = append(lines, fmt.Sprintf("  %d. %s", i+1, err.Error()))
	}
	return strings.Join(lines, "\n")
}

// Convenience loaders for common use cases

// LoadConfig loads configuration using default options
func LoadConfig() (*PluginConfig, error) {
	cm := NewConfigManager(DefaultLoadOptions())
	return cm.LoadConfig()
}

// LoadConfigQuiet loads configuration without console messages
func LoadConfigQuiet() (*PluginConfig, error) {
	options := DefaultLoadOptions()
	options.Quiet = true

	cm := NewConfigManager(options)
	return cm.LoadConfig()
}

// ValidateConfigFile validates a configuration file without using its contents
func ValidateConfigFile(path string) error {
	cm := NewConfigManager(ConfigLoadOptions{
		Path:              path,
		AllowMissing:      false,
		ValidateStructure: true,
		ApplyDefaults:     true,
		Quiet:             false,
	})

	_, err := cm.LoadConfigFromPath(path)
	return err
}
