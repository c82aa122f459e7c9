package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/yanqian/moonwatch/pkg/util"
)

// Path points at an optional YAML config file. Empty falls back to
// CONFIG_PATH and then configs/config.yaml.
type Path string

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Log       LogConfig       `yaml:"log"`
	Astronomy AstronomyConfig `yaml:"astronomy"`
	Session   SessionConfig   `yaml:"session"`
	Assets    AssetsConfig    `yaml:"assets"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string        `yaml:"address"`
	ReadTimeout    time.Duration `yaml:"readTimeout"`
	WriteTimeout   time.Duration `yaml:"writeTimeout"`
	AllowedOrigins []string      `yaml:"allowedOrigins"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// AstronomyConfig points at the moon data provider.
type AstronomyConfig struct {
	APIBaseURL string `yaml:"apiBaseUrl"`
	APIKey     string `yaml:"apiKey"`
	// Timeout of zero leaves the HTTP client default in place.
	Timeout time.Duration `yaml:"timeout"`
}

// SessionConfig controls the per-browser view sessions.
type SessionConfig struct {
	CookieName  string        `yaml:"cookieName"`
	Secret      string        `yaml:"secret"`
	TTL         time.Duration `yaml:"ttl"`
	IdleTimeout time.Duration `yaml:"idleTimeout"`
	Valkey      ValkeyConfig  `yaml:"valkey"`
}

// ValkeyConfig contains connection information for the snapshot store.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// AssetsConfig locates the background image, audio loop and moon texture.
type AssetsConfig struct {
	Dir        string   `yaml:"dir"`
	Background string   `yaml:"background"`
	Audio      string   `yaml:"audio"`
	TextureURL string   `yaml:"textureUrl"`
	R2         R2Config `yaml:"r2"`
}

// R2Config serves assets from an S3 compatible bucket through presigned URLs.
type R2Config struct {
	Enabled    bool          `yaml:"enabled"`
	Endpoint   string        `yaml:"endpoint"`
	AccessKey  string        `yaml:"accessKey"`
	SecretKey  string        `yaml:"secretKey"`
	Bucket     string        `yaml:"bucket"`
	Region     string        `yaml:"region"`
	PresignTTL time.Duration `yaml:"presignTtl"`
}

// Load reads configuration from .env, a YAML file and environment variables,
// in increasing order of precedence.
func Load(path Path) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	cfg := defaultConfig()

	file := strings.TrimSpace(util.FirstNonEmpty(string(path), os.Getenv("CONFIG_PATH")))
	if file != "" {
		if err := hydrateFromFile(cfg, file); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadDotEnv exports variables from file without overriding the process
// environment. A missing file is not an error.
func loadDotEnv(file string) error {
	if _, err := os.Stat(file); err != nil {
		return nil
	}
	if err := godotenv.Load(file); err != nil {
		return fmt.Errorf("load %s: %w", file, err)
	}
	return nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("ASTRONOMY_API_BASE_URL"); v != "" {
		cfg.Astronomy.APIBaseURL = v
	}
	if v := os.Getenv("ASTRONOMY_API_KEY"); v != "" {
		cfg.Astronomy.APIKey = v
	}
	if v := os.Getenv("ASTRONOMY_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Astronomy.Timeout = parsed
		}
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		cfg.Session.Secret = v
	}
	if v := os.Getenv("SESSION_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Session.TTL = parsed
		}
	}
	if v := os.Getenv("SESSION_IDLE_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Session.IdleTimeout = parsed
		}
	}
	if v := os.Getenv("SESSION_VALKEY_ENABLED"); v != "" {
		cfg.Session.Valkey.Enabled = parseBool(v)
	}
	if v := os.Getenv("SESSION_VALKEY_ADDR"); v != "" {
		cfg.Session.Valkey.Addr = v
	}
	if v := os.Getenv("ASSETS_DIR"); v != "" {
		cfg.Assets.Dir = v
	}
	if v := os.Getenv("ASSETS_TEXTURE_URL"); v != "" {
		cfg.Assets.TextureURL = v
	}
	if v := os.Getenv("ASSETS_R2_ENABLED"); v != "" {
		cfg.Assets.R2.Enabled = parseBool(v)
	}
	if v := os.Getenv("ASSETS_R2_ENDPOINT"); v != "" {
		cfg.Assets.R2.Endpoint = v
	}
	if v := os.Getenv("ASSETS_R2_ACCESS_KEY"); v != "" {
		cfg.Assets.R2.AccessKey = v
	}
	if v := os.Getenv("ASSETS_R2_SECRET_KEY"); v != "" {
		cfg.Assets.R2.SecretKey = v
	}
	if v := os.Getenv("ASSETS_R2_BUCKET"); v != "" {
		cfg.Assets.R2.Bucket = v
	}
	if v := os.Getenv("ASSETS_R2_REGION"); v != "" {
		cfg.Assets.R2.Region = v
	}
	if v := os.Getenv("ASSETS_R2_PRESIGN_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Assets.R2.PresignTTL = parsed
		}
	}
}

func parseBool(v string) bool {
	if parsed, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
		return parsed
	}
	return false
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      "127.0.0.1:8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Astronomy: AstronomyConfig{
			APIBaseURL: "https://api.ipgeolocation.io/astronomy",
		},
		Session: SessionConfig{
			CookieName:  "moonwatch_session",
			TTL:         12 * time.Hour,
			IdleTimeout: 30 * time.Minute,
			Valkey: ValkeyConfig{
				Prefix: "moonwatch",
			},
		},
		Assets: AssetsConfig{
			Dir:        "web/static",
			Background: "bg.jpg",
			Audio:      "moon.mp3",
			TextureURL: "https://upload.wikimedia.org/wikipedia/commons/thumb/e/e1/FullMoon2010.jpg/1024px-FullMoon2010.jpg",
			R2: R2Config{
				Region:     "auto",
				PresignTTL: 15 * time.Minute,
			},
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if strings.TrimSpace(c.Astronomy.APIBaseURL) == "" {
		return errors.New("astronomy.apiBaseUrl cannot be empty")
	}
	if c.Astronomy.Timeout < 0 {
		return errors.New("astronomy.timeout cannot be negative")
	}
	if strings.TrimSpace(c.Session.CookieName) == "" {
		return errors.New("session.cookieName cannot be empty")
	}
	if c.Session.TTL <= 0 {
		return errors.New("session.ttl must be positive")
	}
	if c.Session.IdleTimeout <= 0 {
		return errors.New("session.idleTimeout must be positive")
	}
	if c.Session.Valkey.Enabled && strings.TrimSpace(c.Session.Valkey.Addr) == "" {
		return errors.New("session.valkey.addr cannot be empty when valkey is enabled")
	}
	if strings.TrimSpace(c.Assets.Background) == "" || strings.TrimSpace(c.Assets.Audio) == "" {
		return errors.New("assets.background and assets.audio cannot be empty")
	}
	if c.Assets.R2.Enabled {
		if strings.TrimSpace(c.Assets.R2.Endpoint) == "" || strings.TrimSpace(c.Assets.R2.Bucket) == "" {
			return errors.New("assets.r2.endpoint and assets.r2.bucket are required when r2 is enabled")
		}
		if c.Assets.R2.PresignTTL <= 0 {
			return errors.New("assets.r2.presignTtl must be positive")
		}
	}
	return nil
}
