package config

import (
	"strings"
	"time"
)

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Log     LogConfig
	LLM     LLMConfig
	YouTube YouTubeConfig
	GitHub  GitHubConfig
}

type ServerConfig struct {
	Port       int
	CORSOrigin string
	// APIToken, when set, is required as a bearer token on /api routes.
	APIToken string
}

type StorageConfig struct {
	DataDir string
}

type LogConfig struct {
	Level string
}

type LLMConfig struct {
	BaseURL     string
	Model       string
	APIKey      string
	MaxTokens   int
	Temperature float64
}

type YouTubeConfig struct {
	BaseURL string
	APIKey  string
	Timeout string
}

type GitHubConfig struct {
	ClientID     string
	ClientSecret string
	AuthorizeURL string
	TokenURL     string
	APIURL       string
	RedirectURL  string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:       4000,
			CORSOrigin: "http://localhost:5173",
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Log: LogConfig{
			Level: "info",
		},
		LLM: LLMConfig{
			BaseURL:     "https://api.openai.com/v1",
			Model:       "gpt-3.5-turbo",
			MaxTokens:   500,
			Temperature: 0.7,
		},
		YouTube: YouTubeConfig{
			BaseURL: "https://www.googleapis.com/youtube/v3",
			Timeout: "5s",
		},
		GitHub: GitHubConfig{
			AuthorizeURL: "https://github.com/login/oauth/authorize",
			TokenURL:     "https://github.com/login/oauth/access_token",
			APIURL:       "https://api.github.com",
			RedirectURL:  "http://localhost:4000/auth/callback",
		},
	}
}

// YouTubeTimeout parses YouTube.Timeout, falling back to 5s on bad input.
func (c Config) YouTubeTimeout() time.Duration {
	d, err := time.ParseDuration(c.YouTube.Timeout)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}

// Load reads configuration from the platform-native backend, environment
// variables, and platform secret store.
//
// On macOS the backend is UserDefaults (domain: com.skillagent.app) and
// secrets fall back to macOS Keychain.
// On Linux the backend is a JSON file at $XDG_CONFIG_HOME/skillagent/config.json
// and secrets fall back to $XDG_DATA_HOME/skillagent/secrets.json.
//
// Environment variables (SKILLAGENT_*) override backend values on all
// platforms. No key is mandatory: a missing LLM or YouTube key switches the
// corresponding component to its offline fallback.
func Load() (Config, error) {
	return loadWith(newPlatformBackend(), keychainReader{})
}

// keychain abstracts Keychain access for testing.
type keychain interface {
	Get(service, account string) (string, error)
}

const keychainService = "skillagent"

func loadWith(b ConfigBackend, kc keychain) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	for _, s := range keyDefs {
		if !s.secret || s.account == "" {
			continue
		}
		if cur, _ := s.extract(cfg).(string); cur != "" {
			continue
		}
		if v, err := kc.Get(keychainService, s.account); err == nil && v != "" {
			s.apply(&cfg, v)
		}
	}

	return cfg, nil
}

// keychainReader reads from the platform secret store.
type keychainReader struct{}

func (keychainReader) Get(service, account string) (string, error) {
	out, err := keychainExec(service, account)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
