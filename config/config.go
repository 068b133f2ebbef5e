// Package config loads service configuration from an optional TOML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds everything main needs to wire the service.
type Config struct {
	ListenAddr        string        `toml:"listen_addr"`
	DocsDir           string        `toml:"docs_dir"`
	DefaultDocument   string        `toml:"default_document"`
	MaxDocumentBytes  int64         `toml:"max_document_bytes"`
	AllowedExtensions []string      `toml:"allowed_extensions"`
	RedisURL          string        `toml:"redis_url"`
	CacheTTL          time.Duration `toml:"-"`
	CacheTTLRaw       string        `toml:"cache_ttl"`
	AuthSecret        string        `toml:"-"` // env only, never in a file
	Debug             bool          `toml:"debug"`
}

func defaults() Config {
	return Config{
		ListenAddr:       ":8080",
		DocsDir:          "docs",
		DefaultDocument:  "todo.md",
		MaxDocumentBytes: 1 << 20,
		CacheTTL:         time.Minute,
	}
}

// Load reads path when it exists, then applies environment overrides.
// A missing file is not an error; defaults apply.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("config: stat %s: %w", path, err)
		}
	}
	if cfg.CacheTTLRaw != "" {
		d, err := time.ParseDuration(cfg.CacheTTLRaw)
		if err != nil || d < 0 {
			return Config{}, fmt.Errorf("config: invalid cache_ttl %q", cfg.CacheTTLRaw)
		}
		cfg.CacheTTL = d
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v, ok := os.LookupEnv("FUNCTIONS_CUSTOMHANDLER_PORT"); ok {
		cfg.ListenAddr = ":" + v
	}
	if v := os.Getenv("DOCS_DIR"); v != "" {
		cfg.DocsDir = v
	}
	if v := os.Getenv("DEFAULT_DOCUMENT"); v != "" {
		cfg.DefaultDocument = v
	}
	if v := os.Getenv("MAX_DOCUMENT_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return fmt.Errorf("config: invalid MAX_DOCUMENT_BYTES %q", v)
		}
		cfg.MaxDocumentBytes = n
	}
	if v := os.Getenv("REDIS_CONNECTION_STRING"); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return fmt.Errorf("config: invalid CACHE_TTL %q", v)
		}
		cfg.CacheTTL = d
	}
	if v := os.Getenv("EDITOR_AUTH_SECRET"); v != "" {
		cfg.AuthSecret = v
	}
	if v := os.Getenv("DEBUG"); v != "" {
		if dbg, err := strconv.ParseBool(v); err == nil {
			cfg.Debug = dbg
		}
	}
	return nil
}
