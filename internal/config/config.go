// Package config loads the guide's YAML configuration.
//
// Every field has a default, so a missing file or an empty document yields a
// working configuration backed by local files in ".itnav".
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/aretw0/itnav/pkg/persistence/middleware"
	"gopkg.in/yaml.v3"
)

// Config is the top-level YAML structure.
type Config struct {
	Locale   string       `yaml:"locale"`
	LogLevel string       `yaml:"log_level"`
	LogJSON  bool         `yaml:"log_json"`
	Storage  StorageConf  `yaml:"storage"`
	Server   ServerConf   `yaml:"server"`
	Assist   AssistConf   `yaml:"assist"`
	Sessions SessionsConf `yaml:"sessions"`
}

// StorageConf selects where the State and the admin secret live.
type StorageConf struct {
	// Backend is one of "file", "memory", "redis" or "loam".
	Backend   string    `yaml:"backend"`
	Path      string    `yaml:"path"`
	StateKey  string    `yaml:"state_key"`
	SecretKey string    `yaml:"secret_key"`
	Redis     RedisConf `yaml:"redis"`
	// Versioned turns on git history for the loam backend.
	Versioned bool `yaml:"versioned"`
	// EncryptionKey is a base64 AES-256 key. When set every stored value is
	// sealed with it; FallbackKeys still open values sealed before a rotation.
	EncryptionKey string   `yaml:"encryption_key"`
	FallbackKeys  []string `yaml:"fallback_keys"`
}

// RedisConf holds connection settings for the redis backend.
type RedisConf struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// ServerConf holds HTTP settings.
type ServerConf struct {
	Port       int    `yaml:"port"`
	CORSOrigin string `yaml:"cors_origin"`
	MCPBaseURL string `yaml:"mcp_base_url"`
}

// SessionsConf tunes persisted walks.
type SessionsConf struct {
	TTL     time.Duration `yaml:"ttl"`
	LockTTL time.Duration `yaml:"lock_ttl"`
}

// AssistConf holds the external help links and the consultation template.
type AssistConf struct {
	PortalURL  string `yaml:"portal_url"`
	GeminiURL  string `yaml:"gemini_url"`
	ChatGPTURL string `yaml:"chatgpt_url"`
	Template   string `yaml:"template"`
}

const (
	DefaultStateKey  = "coop_it_nav_app_state_v3"
	DefaultSecretKey = "coop_it_nav_admin_pw"
	DefaultPath      = ".itnav"
	DefaultPort      = 8080
)

// Default returns the configuration used when no file is given.
func Default() Config {
	var c Config
	c.applyDefaults()
	return c
}

// Load reads path and fills unset fields with defaults.
// An empty path or a file that does not exist yields Default().
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Locale == "" {
		c.Locale = "en"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = "file"
	}
	if c.Storage.Path == "" {
		c.Storage.Path = DefaultPath
	}
	if c.Storage.StateKey == "" {
		c.Storage.StateKey = DefaultStateKey
	}
	if c.Storage.SecretKey == "" {
		c.Storage.SecretKey = DefaultSecretKey
	}
	if c.Storage.Redis.Addr == "" {
		c.Storage.Redis.Addr = "localhost:6379"
	}
	if c.Storage.Redis.Prefix == "" {
		c.Storage.Redis.Prefix = "itnav:"
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.CORSOrigin == "" {
		c.Server.CORSOrigin = "*"
	}
	if c.Sessions.LockTTL == 0 {
		c.Sessions.LockTTL = 30 * time.Second
	}
	if c.Assist.PortalURL == "" {
		c.Assist.PortalURL = "http://home30.kyushu.coop/grn/index.csp"
	}
	if c.Assist.GeminiURL == "" {
		c.Assist.GeminiURL = "https://gemini.google.com/"
	}
	if c.Assist.ChatGPTURL == "" {
		c.Assist.ChatGPTURL = "https://chatgpt.com/?q="
	}
	if c.Assist.Template == "" {
		c.Assist.Template = DefaultTemplate
	}
}

// Validate reports settings that cannot work.
func (c Config) Validate() error {
	var errs []error
	switch c.Storage.Backend {
	case "file", "memory", "redis", "loam":
	default:
		errs = append(errs, fmt.Errorf("storage.backend %q is not one of file, memory, redis, loam", c.Storage.Backend))
	}
	if c.Storage.StateKey == c.Storage.SecretKey {
		errs = append(errs, fmt.Errorf("storage.state_key and storage.secret_key must differ"))
	}
	if c.Storage.EncryptionKey != "" {
		if _, err := middleware.ParseKeys(c.Storage.EncryptionKey, c.Storage.FallbackKeys...); err != nil {
			errs = append(errs, fmt.Errorf("storage.encryption_key: %w", err))
		}
	} else if len(c.Storage.FallbackKeys) > 0 {
		errs = append(errs, fmt.Errorf("storage.fallback_keys requires storage.encryption_key"))
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d is out of range", c.Server.Port))
	}
	return errors.Join(errs...)
}

// DefaultTemplate is the consultation prompt handed to external AI assistants.
const DefaultTemplate = `あなたは社内情シス向けのサポートAIです。
以下の条件で回答してください。

【前提】
- 私はコープおきなわの職員です
- 個人情報・パスワード・組合員情報は入力しません
- 危険な操作（レジストリ変更、攻撃手順等）は提案しないでください

【相談内容】
・困っている症状：
・発生日時：
・場所（店舗/部署）：
・端末（個人名は書かない）：
・試したこと：
・エラー表示（あれば）：

【してほしいこと】
1. 該当しそうなトラブルジャンルの推測
2. 最初に確認すべきこと（3つまで）
3. 情シスへ問い合わせる場合の文章（ガルーン貼り付け用）`
