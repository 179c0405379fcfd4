package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Defaults used when the config file leaves a key out
const (
	DefaultTheme           = "tokyo-night"
	DefaultHistoryLimit    = 100
	DefaultZoomStep        = 0.1
	DefaultInsertJitter    = 40.0
	DefaultMaxAttachmentMB = 10
	DefaultExportName      = "flowchart"
)

// Config holds application configuration
type Config struct {
	Theme           string            `toml:"theme"`
	HistoryLimit    int               `toml:"history_limit,omitempty"`
	ZoomStep        float64           `toml:"zoom_step,omitempty"`
	InsertJitter    float64           `toml:"insert_jitter,omitempty"`
	MaxAttachmentMB int               `toml:"max_attachment_mb,omitempty"`
	ExportName      string            `toml:"export_name,omitempty"`
	Socket          *bool             `toml:"socket,omitempty"`
	Settings        map[string]string `toml:"settings"`

	// Session settings (not persisted to TOML, overrides persisted settings)
	sessionSettings map[string]string
}

// Load loads the config file from the standard location
func Load() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return defaultConfig(), nil // Return default if can't find config path
	}

	return LoadFromFile(configPath)
}

// LoadFromFile loads config from a specific file
func LoadFromFile(filePath string) (*Config, error) {
	// If file doesn't exist, return default config
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return defaultConfig(), nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	err = toml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply defaults if not specified
	if config.Theme == "" {
		config.Theme = DefaultTheme
	}

	// Initialize persisted settings if not present
	if config.Settings == nil {
		config.Settings = make(map[string]string)
	}

	// Initialize session settings
	config.sessionSettings = make(map[string]string)

	return &config, nil
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, "config.toml"), nil
}

// defaultConfig returns the default configuration
func defaultConfig() *Config {
	return &Config{
		Theme:           DefaultTheme,
		Settings:        make(map[string]string),
		sessionSettings: make(map[string]string),
	}
}

// GetConfigDir returns the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	configDir := filepath.Join(home, ".config", "tui-flowchart")
	return configDir, nil
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	configDir, err := GetConfigDir()
	if err != nil {
		return err
	}

	return os.MkdirAll(configDir, 0o755)
}

// Set sets a session configuration value
func (c *Config) Set(key, value string) {
	if c.sessionSettings == nil {
		c.sessionSettings = make(map[string]string)
	}
	c.sessionSettings[key] = value
}

// Get retrieves a configuration value, checking session settings first (which override persisted settings)
// Returns empty string if not found in either source
func (c *Config) Get(key string) string {
	// Check session settings first (they override persisted settings)
	if c.sessionSettings != nil {
		if val, ok := c.sessionSettings[key]; ok {
			return val
		}
	}

	// Fall back to persisted settings
	if c.Settings != nil {
		if val, ok := c.Settings[key]; ok {
			return val
		}
	}

	return ""
}

// GetAll returns all configuration values (both persisted and session)
// Session settings override persisted settings with the same key
func (c *Config) GetAll() map[string]string {
	result := make(map[string]string)

	for k, v := range c.Settings {
		result[k] = v
	}

	for k, v := range c.sessionSettings {
		result[k] = v
	}

	return result
}

// Save persists the configuration to the TOML file
// Note: This only persists the file fields and Settings, not session settings
func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return c.SaveToFile(configPath)
}

// SaveToFile writes the configuration to filePath
func (c *Config) SaveToFile(filePath string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Typed accessors. A session or settings value under the same key wins over
// the top-level field, so ":set zoom_step 0.25" takes effect immediately.

// HistoryLimitValue returns the number of undo steps kept
func (c *Config) HistoryLimitValue() int {
	return positiveInt(c.Get("history_limit"), c.HistoryLimit, DefaultHistoryLimit)
}

// ZoomStepValue returns the relative zoom change of one step
func (c *Config) ZoomStepValue() float64 {
	return positiveFloat(c.Get("zoom_step"), c.ZoomStep, DefaultZoomStep)
}

// InsertJitterValue returns the spread of new node positions
func (c *Config) InsertJitterValue() float64 {
	return positiveFloat(c.Get("insert_jitter"), c.InsertJitter, DefaultInsertJitter)
}

// MaxAttachmentBytes returns the limit for embedded files
func (c *Config) MaxAttachmentBytes() int64 {
	mb := positiveInt(c.Get("max_attachment_mb"), c.MaxAttachmentMB, DefaultMaxAttachmentMB)
	return int64(mb) << 20
}

// ExportNameValue returns the strftime pattern of export file names
func (c *Config) ExportNameValue() string {
	if v := c.Get("export_name"); v != "" {
		return v
	}
	if c.ExportName != "" {
		return c.ExportName
	}
	return DefaultExportName
}

// SocketEnabled reports whether the control socket is started
func (c *Config) SocketEnabled() bool {
	if v := c.Get("socket"); v != "" {
		b, err := strconv.ParseBool(v)
		return err != nil || b
	}
	if c.Socket != nil {
		return *c.Socket
	}
	return true
}

func positiveInt(override string, field, def int) int {
	if v, err := strconv.Atoi(override); err == nil && v > 0 {
		return v
	}
	if field > 0 {
		return field
	}
	return def
}

func positiveFloat(override string, field, def float64) float64 {
	if v, err := strconv.ParseFloat(override, 64); err == nil && v > 0 {
		return v
	}
	if field > 0 {
		return field
	}
	return def
}
