package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Log     LogConfig
	Gemini  GeminiConfig
	Summary SummaryConfig
}

type ServerConfig struct {
	Port int
}

type StorageConfig struct {
	DataDir string
}

type LogConfig struct {
	Level string
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	// DemoMode is kept raw; ParseFlag decides on every request.
	DemoMode  string
	Timeout   string
	DemoDelay string
}

type SummaryConfig struct {
	Enabled  bool
	Schedule string
}

const (
	defaultTimeout   = 30 * time.Second
	defaultDemoDelay = 1200 * time.Millisecond
)

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 4100,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Log: LogConfig{
			Level: "info",
		},
		Gemini: GeminiConfig{
			Model:     "gemini-2.0-flash",
			BaseURL:   "https://generativelanguage.googleapis.com/v1beta",
			Timeout:   defaultTimeout.String(),
			DemoDelay: defaultDemoDelay.String(),
		},
		Summary: SummaryConfig{
			Enabled:  true,
			Schedule: "0 5 0 * * *",
		},
	}
}

// Load reads configuration from the platform-native backend, a .env file in
// the working directory, environment variables, and the OS keyring.
//
// On macOS the backend is UserDefaults (domain: com.helene.app).
// On Linux the backend is a JSON file at $XDG_CONFIG_HOME/helene/config.json.
//
// Environment variables (HELENE_*) override backend values on all platforms;
// .env entries apply only where the real environment is unset. A missing API
// key is not an error: the assistant then runs in demo mode.
func Load() (Config, error) {
	return loadWith(newPlatformBackend(), osKeyring{}, ".env")
}

// keychain abstracts secret storage for testing.
type keychain interface {
	Get(service, account string) (string, error)
}

func loadWith(b ConfigBackend, kc keychain, envFiles ...string) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg, envLookup(envFiles...))

	if cfg.Gemini.APIKey == "" {
		if key, err := kc.Get(keyringService, keyringAPIKey); err == nil && key != "" {
			cfg.Gemini.APIKey = key
		}
	}

	return cfg, nil
}

// envLookup consults the process environment first and then any dotenv
// files that exist. Missing files are skipped silently.
func envLookup(files ...string) func(string) string {
	dotenv := map[string]string{}
	for _, f := range files {
		vals, err := godotenv.Read(f)
		if err != nil {
			if !os.IsNotExist(err) {
				fmt.Fprintf(os.Stderr, "[WARN] could not read env file %s: %v. Ignoring it.\n", f, err)
			}
			continue
		}
		for k, v := range vals {
			if _, seen := dotenv[k]; !seen {
				dotenv[k] = v
			}
		}
	}
	return func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return dotenv[key]
	}
}

// ParseFlag interprets a boolean-like config value. Only "true", "1" and
// "yes" (trimmed, any case) are truthy.
func ParseFlag(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

// RequestTimeout returns the bound on a single live call.
func (g GeminiConfig) RequestTimeout() time.Duration {
	return parseDuration("gemini.timeout", g.Timeout, defaultTimeout)
}

// DemoLatency returns the artificial delay applied to demo replies.
func (g GeminiConfig) DemoLatency() time.Duration {
	return parseDuration("gemini.demo_delay", g.DemoDelay, defaultDemoDelay)
}

func parseDuration(key, raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		fmt.Fprintf(os.Stderr, "[WARN] could not parse duration from config key %s=%q. Using default value %s.\n", key, raw, fallback)
		return fallback
	}
	return d
}
