package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds persistent TUI settings stored at <profileDir>/tui.json.
type Config struct {
	Theme      string `json:"theme,omitempty"`
	BackendURL string `json:"backend_url,omitempty"`
}

// Env holds settings read from the environment (and .env when present).
type Env struct {
	BackendURL     string        `envconfig:"COURSEBUDDY_URL" default:"http://localhost:8000"`
	RequestTimeout time.Duration `envconfig:"COURSEBUDDY_REQUEST_TIMEOUT" default:"15s"`
	LogLevel       string        `envconfig:"COURSEBUDDY_LOG_LEVEL" default:"info"`
	Environment    string        `envconfig:"COURSEBUDDY_ENV" default:"development"`
	Theme          string        `envconfig:"COURSEBUDDY_THEME"`
}

// StubEnv configures the coursebuddy-stub server.
type StubEnv struct {
	Addr           string        `envconfig:"STUB_ADDR" default:":8000"`
	Fixtures       string        `envconfig:"STUB_FIXTURES"`
	Latency        time.Duration `envconfig:"STUB_LATENCY" default:"0s"`
	FailEvery      int           `envconfig:"STUB_FAIL_EVERY" default:"0"`
	AllowedOrigins []string      `envconfig:"STUB_ALLOWED_ORIGINS" default:"*"`
	LogLevel       string        `envconfig:"STUB_LOG_LEVEL" default:"info"`
	Environment    string        `envconfig:"STUB_ENV" default:"development"`
}

const filename = "tui.json"

// Load reads <profileDir>/tui.json and returns the parsed Config.
// If the file is absent or unreadable, a default Config is returned.
func Load(profileDir string) Config {
	cfg := defaults()
	data, err := os.ReadFile(filepath.Join(profileDir, filename))
	if err != nil {
		return cfg
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return defaults()
	}
	return cfg
}

// Save writes cfg to <profileDir>/tui.json, creating the directory if needed.
func Save(profileDir string, cfg Config) error {
	if err := os.MkdirAll(profileDir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(profileDir, filename), data, 0o644)
}

// SaveTheme records name as the profile's theme, keeping the other
// profile settings.
func SaveTheme(profileDir, name string) error {
	cfg := Load(profileDir)
	cfg.Theme = name
	if err := Save(profileDir, cfg); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}

// LoadEnv loads an optional .env file and then processes environment
// variables into Env. A missing .env is not an error.
func LoadEnv(dotenv string) (Env, error) {
	if err := loadDotenv(dotenv); err != nil {
		return Env{}, err
	}
	var env Env
	if err := envconfig.Process("", &env); err != nil {
		return Env{}, fmt.Errorf("process env: %w", err)
	}
	if env.RequestTimeout <= 0 {
		return Env{}, fmt.Errorf("COURSEBUDDY_REQUEST_TIMEOUT must be > 0, got %s", env.RequestTimeout)
	}
	return env, nil
}

// LoadStubEnv is LoadEnv for the stub server.
func LoadStubEnv(dotenv string) (StubEnv, error) {
	if err := loadDotenv(dotenv); err != nil {
		return StubEnv{}, err
	}
	var env StubEnv
	if err := envconfig.Process("", &env); err != nil {
		return StubEnv{}, fmt.Errorf("process env: %w", err)
	}
	if env.Latency < 0 || env.FailEvery < 0 {
		return StubEnv{}, fmt.Errorf("STUB_LATENCY and STUB_FAIL_EVERY must not be negative")
	}
	return env, nil
}

func loadDotenv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Resolve merges the profile file with the environment. Environment wins
// only when the variable is set explicitly; the profile wins over defaults.
func Resolve(file Config, env Env) Config {
	out := file
	if _, ok := os.LookupEnv("COURSEBUDDY_URL"); ok || out.BackendURL == "" {
		out.BackendURL = env.BackendURL
	}
	if env.Theme != "" {
		out.Theme = env.Theme
	}
	return out
}

// ThemeFor picks the theme to apply. A theme set in the profile or the
// environment always wins; otherwise the terminal background decides.
func ThemeFor(cfg Config, darkBackground bool) string {
	switch {
	case cfg.Theme != "":
		return cfg.Theme
	case darkBackground:
		return "dark"
	default:
		return "light"
	}
}

// defaults leaves Theme unset so ThemeFor can tell a configured theme from
// none.
func defaults() Config {
	return Config{}
}
