package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Profile holds the connection settings for one engine backend.
type Profile struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

type EngineConfig struct {
	MaxIterations int    `mapstructure:"max_iterations"`
	OutputDir     string `mapstructure:"output_dir"`
}

type DashboardConfig struct {
	Command []string `mapstructure:"command"`
	URL     string   `mapstructure:"url"`
}

// ValidationConfig describes the manifests and suites checked by self-validation.
type ValidationConfig struct {
	Root    string        `mapstructure:"root"`
	Files   []string      `mapstructure:"files"`
	Symbols []string      `mapstructure:"symbols"`
	Runner  []string      `mapstructure:"runner"`
	SuiteA  string        `mapstructure:"suite_a"`
	SuiteB  string        `mapstructure:"suite_b"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

type Config struct {
	Profiles      map[string]Profile `mapstructure:"profiles"`
	ActiveProfile string             `mapstructure:"active_profile"`
	Engine        EngineConfig       `mapstructure:"engine"`
	Dashboard     DashboardConfig    `mapstructure:"dashboard"`
	Validation    ValidationConfig   `mapstructure:"validation"`
	Log           LogConfig          `mapstructure:"log"`

	path           string
	currentProfile *Profile
}

const defaultModel = "gpt-4o-mini"

// DefaultFiles is the file manifest checked when none is configured.
var DefaultFiles = []string{
	"go.mod",
	"main.go",
	"cmd/root.go",
	"internal/app/application.go",
	"internal/engine/engine.go",
	"internal/validate/validate.go",
	"ui/styles/styles.go",
	"ui/components/printer.go",
}

// DefaultSymbols is the component manifest checked when none is configured.
var DefaultSymbols = []string{
	"engine.NewOpenAI",
	"components.NewPrinter",
	"runner.New",
	"dashboard.New",
	"validate.New",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("active_profile", "default")
	v.SetDefault("engine.max_iterations", 3)
	v.SetDefault("engine.output_dir", "output")
	v.SetDefault("dashboard.command", []string{"agentic-dashboard"})
	v.SetDefault("dashboard.url", "http://127.0.0.1:5000")
	v.SetDefault("validation.root", ".")
	v.SetDefault("validation.files", DefaultFiles)
	v.SetDefault("validation.symbols", DefaultSymbols)
	v.SetDefault("validation.runner", []string{"go", "test"})
	v.SetDefault("validation.suite_a", "./internal/...")
	v.SetDefault("validation.suite_b", "./ui/...")
	v.SetDefault("validation.timeout", 60*time.Second)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "logs/orchestrator.log")
}

// DefaultPath is $AGENTIC_HOME/.agentic/config.json, falling back to the
// user's home directory.
func DefaultPath() (string, error) {
	dir := os.Getenv("AGENTIC_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = home
	}
	return filepath.Join(dir, ".agentic", "config.json"), nil
}

// Load reads the configuration at path (DefaultPath when empty). A missing file
// is not an error. Env vars prefixed AGENTIC_ override file values.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
		path = p
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType(configType(path))
	v.SetEnvPrefix("AGENTIC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.path = path

	cfg.setCurrentProfile()
	return &cfg, nil
}

func configType(path string) string {
	if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext != "" {
		return ext
	}
	return "json"
}

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

// Path is the file the configuration was loaded from and is saved to.
func (c *Config) Path() string {
	return c.path
}

// IsValid reports whether the active profile can reach a backend.
func (c *Config) IsValid() bool {
	return c.currentProfile != nil && c.currentProfile.APIKey != ""
}

func (c *Config) GetAPIKey() string {
	if c.currentProfile == nil {
		return ""
	}
	return c.currentProfile.APIKey
}

func (c *Config) GetModel() string {
	if c.currentProfile == nil || c.currentProfile.Model == "" {
		return defaultModel
	}
	return c.currentProfile.Model
}

func (c *Config) GetBaseURL() string {
	if c.currentProfile == nil {
		return ""
	}
	return c.currentProfile.BaseURL
}

// LookupProfile finds a profile by case-insensitive name and returns the key
// it is stored under.
func (c *Config) LookupProfile(name string) (string, Profile, bool) {
	key := strings.ToLower(name)
	p, ok := c.Profiles[key]
	return key, p, ok
}

// Use switches the active profile.
func (c *Config) Use(name string) error {
	key, _, ok := c.LookupProfile(name)
	if !ok {
		return fmt.Errorf("profile '%s' does not exist", name)
	}
	c.ActiveProfile = key
	c.setCurrentProfile()
	return nil
}

// AddProfile registers a new profile. Names are case-insensitive.
func (c *Config) AddProfile(name string, p Profile) error {
	name = strings.ToLower(name)
	if name == "" {
		return errors.New("profile name is required")
	}
	if _, exists := c.Profiles[name]; exists {
		return fmt.Errorf("profile '%s' already exists", name)
	}
	if p.Model == "" {
		p.Model = defaultModel
	}
	c.Profiles[name] = p
	return nil
}

// DeleteProfile removes a profile. Deleting the active profile activates the
// first remaining one, or a fresh default when none remain.
func (c *Config) DeleteProfile(name string) error {
	key, _, exists := c.LookupProfile(name)
	if !exists {
		return fmt.Errorf("profile '%s' does not exist", name)
	}
	delete(c.Profiles, key)
	if c.ActiveProfile == key {
		c.ActiveProfile = ""
	}
	c.setCurrentProfile()
	return nil
}

// Save writes the configuration back to Path, creating its directory.
func (c *Config) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	profiles := make(map[string]any, len(c.Profiles))
	for name, p := range c.Profiles {
		profiles[name] = map[string]any{"api_key": p.APIKey, "base_url": p.BaseURL, "model": p.Model}
	}

	v := viper.New()
	v.SetConfigType(configType(c.path))
	v.Set("profiles", profiles)
	v.Set("active_profile", c.ActiveProfile)
	v.Set("engine.max_iterations", c.Engine.MaxIterations)
	v.Set("engine.output_dir", c.Engine.OutputDir)
	v.Set("dashboard.command", c.Dashboard.Command)
	v.Set("dashboard.url", c.Dashboard.URL)
	v.Set("validation.root", c.Validation.Root)
	v.Set("validation.files", c.Validation.Files)
	v.Set("validation.symbols", c.Validation.Symbols)
	v.Set("validation.runner", c.Validation.Runner)
	v.Set("validation.suite_a", c.Validation.SuiteA)
	v.Set("validation.suite_b", c.Validation.SuiteB)
	v.Set("validation.timeout", c.Validation.Timeout.String())
	v.Set("log.level", c.Log.Level)
	v.Set("log.format", c.Log.Format)
	v.Set("log.file", c.Log.File)

	if err := v.WriteConfigAs(c.path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return os.Chmod(c.path, 0o600)
}

func (c *Config) setCurrentProfile() {
	if len(c.Profiles) == 0 {
		c.Profiles = map[string]Profile{"default": {Model: defaultModel}}
	}

	profile, exists := c.Profiles[c.ActiveProfile]
	if !exists {
		// Fall back to the first profile in name order.
		names := c.ProfileNames()
		c.ActiveProfile = names[0]
		profile = c.Profiles[names[0]]
	}

	c.currentProfile = &profile
}

// ProfileNames lists profile names sorted alphabetically.
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
