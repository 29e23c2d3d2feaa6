package config

import (
	encjson "encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/reshetovitsme/news-highlights/internal/modules/source/domain"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

const (
	DefaultMinifluxURL = "http://localhost:8081"
	DefaultRedisKey    = "highlights:snapshot"
)

type Config struct {
	HTTPPort       string                `koanf:"http_port"`
	StaticDir      string                `koanf:"static_dir"`
	CacheTTL       int                   `koanf:"cache_ttl"`
	MaxItems       int                   `koanf:"max_items"`
	SourceTimeout  int                   `koanf:"source_timeout"`
	SourceRetries  int                   `koanf:"source_retries"`
	RefreshCron    string                `koanf:"refresh_cron"`
	SnapshotStore  StoreKind             `koanf:"snapshot_store"`
	StoragePath    string                `koanf:"storage_path"`
	RedisAddr      string                `koanf:"redis_addr"`
	RedisKey       string                `koanf:"redis_key"`
	MinifluxURL    string                `koanf:"miniflux_url"`
	MinifluxAPIKey string                `koanf:"miniflux_api_key"`
	Sources        []domain.SourceConfig `koanf:"sources"`
	AppEnv         AppEnv                `koanf:"app_env"`
}

var configFiles = []string{
	"config.yaml",
	"config.yml",
	"config.json",
	"config.toml",
}

// Load reads .env, the first config file found in the working directory and the
// environment, in that order of increasing precedence. A missing API key is not a
// load error; it is reported when the source is queried.
func Load() (*Config, error) {
	// .env is optional; variables already set in the environment win.
	_ = godotenv.Load()

	k := koanf.New(".")

	configFile, found := lo.Find(configFiles, func(file string) bool {
		_, err := os.Stat(file)
		return err == nil
	})

	if found {
		var parser koanf.Parser
		ext := filepath.Ext(configFile)

		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		case ".toml":
			parser = toml.Parser()
		default:
			return nil, oops.Errorf("unsupported config file extension: %s", ext)
		}

		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return nil, oops.With("config_file", configFile).Wrap(err)
		}
	}

	// Environment variables override config file values
	if err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(s)
	}), nil); err != nil {
		return nil, oops.With("context", "loading environment variables").Wrap(err)
	}

	defaults := map[string]any{
		"http_port":      "3001",
		"static_dir":     "public",
		"cache_ttl":      60,
		"max_items":      30,
		"source_timeout": 10,
		"source_retries": 1,
		"snapshot_store": string(StoreKindNone),
		"storage_path":   "./data",
		"redis_addr":     "localhost:6379",
		"redis_key":      DefaultRedisKey,
		"miniflux_url":   DefaultMinifluxURL,
		"app_env":        string(AppEnvProduction),
	}
	for key, value := range defaults {
		if !k.Exists(key) {
			k.Set(key, value)
		}
	}

	// SOURCES may arrive from the environment as a JSON array.
	rawSources, sourcesAsString := k.Get("sources").(string)
	if sourcesAsString {
		k.Delete("sources")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.With("context", "unmarshaling config").Wrap(err)
	}

	if sourcesAsString && strings.TrimSpace(rawSources) != "" {
		if err := encjson.Unmarshal([]byte(rawSources), &cfg.Sources); err != nil {
			return nil, oops.With("context", "parsing sources").Wrap(err)
		}
	}

	if appEnv, err := ParseAppEnv(k.String("app_env")); err == nil {
		cfg.AppEnv = appEnv
	} else {
		cfg.AppEnv = AppEnvProduction
	}

	store, err := ParseStoreKind(k.String("snapshot_store"))
	if err != nil {
		return nil, oops.With("snapshot_store", k.String("snapshot_store")).Wrap(err)
	}
	cfg.SnapshotStore = store

	cfg.Sources = cfg.normalizeSources()
	return &cfg, nil
}

// normalizeSources fills the defaults of the source list. With no sources
// configured, a single miniflux source is built from miniflux_url and
// miniflux_api_key.
func (c *Config) normalizeSources() []domain.SourceConfig {
	if len(c.Sources) == 0 {
		return []domain.SourceConfig{{
			Name:  "miniflux",
			Kind:  domain.SourceKindMiniflux,
			URL:   c.MinifluxURL,
			Token: c.MinifluxAPIKey,
		}}
	}

	return lo.Map(c.Sources, func(src domain.SourceConfig, i int) domain.SourceConfig {
		if src.Kind == "" {
			src.Kind = domain.SourceKindRss
		}
		if kind, err := domain.ParseSourceKind(string(src.Kind)); err == nil {
			src.Kind = kind
		}
		if src.Kind == domain.SourceKindMiniflux {
			src.URL = lo.CoalesceOrEmpty(src.URL, c.MinifluxURL)
			src.Token = lo.CoalesceOrEmpty(src.Token, c.MinifluxAPIKey)
		}
		if src.Name == "" {
			src.Name = fmt.Sprintf("%s-%d", src.Kind, i+1)
		}
		return src
	})
}

// CacheTTLDuration returns the cache freshness window.
func (c *Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// SourceTimeoutDuration returns the per-request upstream timeout.
func (c *Config) SourceTimeoutDuration() time.Duration {
	return time.Duration(c.SourceTimeout) * time.Second
}

// IsDebug reports whether verbose logging is wanted.
func (c *Config) IsDebug() bool {
	return c.AppEnv == AppEnvLocal || c.AppEnv == AppEnvDevelopment
}
