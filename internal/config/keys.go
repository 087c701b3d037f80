package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
)

type keyType int

const (
	kString keyType = iota
	kInt
	kFloat
)

type keyDef struct {
	key     string
	typ     keyType
	env     string
	secret  bool
	account string // secret store account, secrets only
	apply   func(cfg *Config, v any)
	extract func(cfg Config) any
}

var keyDefs = []keyDef{
	{
		key: "server.port", typ: kInt, env: "SKILLAGENT_SERVER_PORT",
		apply:   func(cfg *Config, v any) { cfg.Server.Port = v.(int) },
		extract: func(cfg Config) any { return cfg.Server.Port },
	},
	{
		key: "server.cors_origin", typ: kString, env: "SKILLAGENT_SERVER_CORS_ORIGIN",
		apply:   func(cfg *Config, v any) { cfg.Server.CORSOrigin = v.(string) },
		extract: func(cfg Config) any { return cfg.Server.CORSOrigin },
	},
	{
		key: "server.api_token", typ: kString, env: "SKILLAGENT_API_TOKEN",
		secret: true, account: "api_token",
		apply:   func(cfg *Config, v any) { cfg.Server.APIToken = v.(string) },
		extract: func(cfg Config) any { return cfg.Server.APIToken },
	},
	{
		key: "storage.data_dir", typ: kString, env: "SKILLAGENT_STORAGE_DATA_DIR",
		apply:   func(cfg *Config, v any) { cfg.Storage.DataDir = v.(string) },
		extract: func(cfg Config) any { return cfg.Storage.DataDir },
	},
	{
		key: "log.level", typ: kString, env: "SKILLAGENT_LOG_LEVEL",
		apply:   func(cfg *Config, v any) { cfg.Log.Level = v.(string) },
		extract: func(cfg Config) any { return cfg.Log.Level },
	},
	{
		key: "llm.base_url", typ: kString, env: "SKILLAGENT_LLM_BASE_URL",
		apply:   func(cfg *Config, v any) { cfg.LLM.BaseURL = v.(string) },
		extract: func(cfg Config) any { return cfg.LLM.BaseURL },
	},
	{
		key: "llm.model", typ: kString, env: "SKILLAGENT_LLM_MODEL",
		apply:   func(cfg *Config, v any) { cfg.LLM.Model = v.(string) },
		extract: func(cfg Config) any { return cfg.LLM.Model },
	},
	{
		key: "llm.max_tokens", typ: kInt, env: "SKILLAGENT_LLM_MAX_TOKENS",
		apply:   func(cfg *Config, v any) { cfg.LLM.MaxTokens = v.(int) },
		extract: func(cfg Config) any { return cfg.LLM.MaxTokens },
	},
	{
		key: "llm.temperature", typ: kFloat, env: "SKILLAGENT_LLM_TEMPERATURE",
		apply:   func(cfg *Config, v any) { cfg.LLM.Temperature = v.(float64) },
		extract: func(cfg Config) any { return cfg.LLM.Temperature },
	},
	{
		key: "llm.api_key", typ: kString, env: "SKILLAGENT_LLM_API_KEY",
		secret: true, account: "llm_api_key",
		apply:   func(cfg *Config, v any) { cfg.LLM.APIKey = v.(string) },
		extract: func(cfg Config) any { return cfg.LLM.APIKey },
	},
	{
		key: "youtube.base_url", typ: kString, env: "SKILLAGENT_YOUTUBE_BASE_URL",
		apply:   func(cfg *Config, v any) { cfg.YouTube.BaseURL = v.(string) },
		extract: func(cfg Config) any { return cfg.YouTube.BaseURL },
	},
	{
		key: "youtube.timeout", typ: kString, env: "SKILLAGENT_YOUTUBE_TIMEOUT",
		apply:   func(cfg *Config, v any) { cfg.YouTube.Timeout = v.(string) },
		extract: func(cfg Config) any { return cfg.YouTube.Timeout },
	},
	{
		key: "youtube.api_key", typ: kString, env: "SKILLAGENT_YOUTUBE_API_KEY",
		secret: true, account: "youtube_api_key",
		apply:   func(cfg *Config, v any) { cfg.YouTube.APIKey = v.(string) },
		extract: func(cfg Config) any { return cfg.YouTube.APIKey },
	},
	{
		key: "github.client_id", typ: kString, env: "SKILLAGENT_GITHUB_CLIENT_ID",
		apply:   func(cfg *Config, v any) { cfg.GitHub.ClientID = v.(string) },
		extract: func(cfg Config) any { return cfg.GitHub.ClientID },
	},
	{
		key: "github.client_secret", typ: kString, env: "SKILLAGENT_GITHUB_CLIENT_SECRET",
		secret: true, account: "github_client_secret",
		apply:   func(cfg *Config, v any) { cfg.GitHub.ClientSecret = v.(string) },
		extract: func(cfg Config) any { return cfg.GitHub.ClientSecret },
	},
	{
		key: "github.authorize_url", typ: kString, env: "SKILLAGENT_GITHUB_AUTHORIZE_URL",
		apply:   func(cfg *Config, v any) { cfg.GitHub.AuthorizeURL = v.(string) },
		extract: func(cfg Config) any { return cfg.GitHub.AuthorizeURL },
	},
	{
		key: "github.token_url", typ: kString, env: "SKILLAGENT_GITHUB_TOKEN_URL",
		apply:   func(cfg *Config, v any) { cfg.GitHub.TokenURL = v.(string) },
		extract: func(cfg Config) any { return cfg.GitHub.TokenURL },
	},
	{
		key: "github.api_url", typ: kString, env: "SKILLAGENT_GITHUB_API_URL",
		apply:   func(cfg *Config, v any) { cfg.GitHub.APIURL = v.(string) },
		extract: func(cfg Config) any { return cfg.GitHub.APIURL },
	},
	{
		key: "github.redirect_url", typ: kString, env: "SKILLAGENT_GITHUB_REDIRECT_URL",
		apply:   func(cfg *Config, v any) { cfg.GitHub.RedirectURL = v.(string) },
		extract: func(cfg Config) any { return cfg.GitHub.RedirectURL },
	},
}

func applyBackend(cfg *Config, b ConfigBackend) error {
	for _, s := range keyDefs {
		if s.secret {
			continue
		}
		var (
			v   any
			ok  bool
			err error
		)
		switch s.typ {
		case kString:
			v, ok, err = b.GetString(s.key)
		case kInt:
			v, ok, err = b.GetInt(s.key)
		case kFloat:
			v, ok, err = b.GetFloat(s.key)
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", s.key, err)
		}
		if ok {
			s.apply(cfg, v)
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	for _, s := range keyDefs {
		raw := os.Getenv(s.env)
		if raw == "" {
			continue
		}
		switch s.typ {
		case kString:
			s.apply(cfg, raw)
		case kInt:
			if i, err := strconv.Atoi(raw); err == nil {
				s.apply(cfg, i)
			} else {
				slog.Warn("could not parse integer from env, using default", "env", s.env, "value", raw, "error", err)
			}
		case kFloat:
			if f, err := strconv.ParseFloat(raw, 64); err == nil {
				s.apply(cfg, f)
			} else {
				slog.Warn("could not parse float from env, using default", "env", s.env, "value", raw, "error", err)
			}
		}
	}
}
