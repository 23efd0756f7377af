package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	BackendPostgres = "postgres"
	BackendSupabase = "supabase"
)

type Config struct {
	Server struct {
		Port         string   `yaml:"port"`
		AllowOrigins []string `yaml:"allowOrigins"`
		RateLimit    float64  `yaml:"rateLimit"` // requests per second per client IP
		RateBurst    int      `yaml:"rateBurst"`
	} `yaml:"server"`
	DataBackend string `yaml:"dataBackend"` // postgres or supabase
	Database    struct {
		Host        string `yaml:"host"`
		Port        string `yaml:"port"`
		User        string `yaml:"user"`
		Password    string `yaml:"password"`
		Name        string `yaml:"name"`
		SSLMode     string `yaml:"sslMode"`
		AutoMigrate bool   `yaml:"autoMigrate"`
	} `yaml:"database"`
	Supabase struct {
		URL string `yaml:"url"`
		Key string `yaml:"key"`
	} `yaml:"supabase"`
	Assets struct {
		CSSURL      string        `yaml:"cssURL"`
		LogoURL     string        `yaml:"logoURL"`
		LogoPath    string        `yaml:"logoPath"`
		CacheTTL    time.Duration `yaml:"cacheTTL"`
		RefreshCron string        `yaml:"refreshCron"`
	} `yaml:"assets"`
	Trending struct {
		TopK int `yaml:"topK"`
	} `yaml:"trending"`
	Session struct {
		Secret string        `yaml:"secret"`
		TTL    time.Duration `yaml:"ttl"`
	} `yaml:"session"`
	HTTPTimeout time.Duration `yaml:"httpTimeout"`
	Logging     struct {
		Level   string `yaml:"level"`  // trace, debug, info, warn, error
		Format  string `yaml:"format"` // text or json
		LogPath string `yaml:"logPath"`
	} `yaml:"logging"`
}

// Default returns the configuration used when no file or environment overrides exist
func Default() Config {
	var c Config
	c.Server.Port = "8080"
	c.Server.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173"}
	c.Server.RateLimit = 5
	c.Server.RateBurst = 10
	c.DataBackend = BackendPostgres
	c.Database.Host = "localhost"
	c.Database.Port = "5432"
	c.Database.User = "postgres"
	c.Database.Password = "postgres"
	c.Database.Name = "postgres"
	c.Database.SSLMode = "disable"
	c.Assets.CSSURL = "https://raw.githubusercontent.com/arvindkathpalreload-bit/Mishti/refs/heads/main/style.css"
	c.Assets.LogoURL = "https://github.com/arvindkathpalreload-bit/Mishti/blob/main/mishTee_logo.png?raw=true"
	c.Assets.LogoPath = "mishTee_logo.png"
	c.Assets.CacheTTL = 24 * time.Hour
	c.Trending.TopK = 4
	c.Session.TTL = 24 * time.Hour
	c.HTTPTimeout = 15 * time.Second
	c.Logging.Level = "info"
	c.Logging.Format = "text"
	return c
}

// Load reads configs/.env, then the optional YAML file at path, then applies
// environment overrides on top of the defaults.
func Load(path string) (Config, error) {
	_ = godotenv.Load("configs/.env")

	conf := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &conf); err != nil {
				return conf, fmt.Errorf("parse config %s: %w", path, err)
			}
		case !errors.Is(err, os.ErrNotExist):
			return conf, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	applyEnv(&conf)
	if conf.Session.Secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			return conf, errors.New("JWT_SECRET is required in release mode")
		}
		conf.Session.Secret = "default_super_secret_key"
	}
	return conf, conf.Validate()
}

func applyEnv(c *Config) {
	setString(&c.Server.Port, "PORT")
	setString(&c.DataBackend, "DATA_BACKEND")
	setString(&c.Database.Host, "DB_HOST")
	setString(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.Name, "DB_NAME")
	setString(&c.Database.SSLMode, "DB_SSLMODE")
	if v, err := strconv.ParseBool(os.Getenv("DB_AUTO_MIGRATE")); err == nil {
		c.Database.AutoMigrate = v
	}
	setString(&c.Supabase.URL, "SUPABASE_URL")
	setString(&c.Supabase.Key, "SUPABASE_KEY")
	setString(&c.Assets.CSSURL, "ASSET_CSS_URL")
	setString(&c.Assets.LogoURL, "ASSET_LOGO_URL")
	setString(&c.Assets.LogoPath, "ASSET_LOGO_PATH")
	setString(&c.Session.Secret, "JWT_SECRET")
	setString(&c.Logging.Level, "LOG_LEVEL")
	setString(&c.Logging.Format, "LOG_FORMAT")
	setString(&c.Logging.LogPath, "LOG_PATH")
	if v, err := strconv.Atoi(os.Getenv("TRENDING_TOP_K")); err == nil {
		c.Trending.TopK = v
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate reports the first invalid setting
func (c Config) Validate() error {
	switch c.DataBackend {
	case BackendPostgres:
	case BackendSupabase:
		if c.Supabase.URL == "" || c.Supabase.Key == "" {
			return errors.New("supabase backend requires SUPABASE_URL and SUPABASE_KEY")
		}
	default:
		return fmt.Errorf("unknown data backend %q", c.DataBackend)
	}
	if c.Trending.TopK < 0 {
		return fmt.Errorf("trending topK must be >= 0, got %d", c.Trending.TopK)
	}
	if c.Server.RateLimit <= 0 || c.Server.RateBurst <= 0 {
		return errors.New("server rate limit and burst must be > 0")
	}
	if c.Assets.CacheTTL < 0 {
		return errors.New("assets cache TTL must be >= 0")
	}
	return nil
}

// DSN builds the postgres connection string
func (c Config) DSN() string {
	d := c.Database
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.Name + "?sslmode=" + d.SSLMode
}
