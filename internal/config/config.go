package config

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Store     StoreConfig     `yaml:"store"`
	Session   SessionConfig   `yaml:"session"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Email     EmailConfig     `yaml:"email"`
}

type ServerConfig struct {
	Host      string `yaml:"host"       env:"SERVER_HOST"       env-default:"0.0.0.0"`
	Port      int    `yaml:"port"       env:"SERVER_PORT,PORT"  env-default:"4000"`
	Env       string `yaml:"env"        env:"SERVER_ENV"        env-default:"development"`
	StaticDir string `yaml:"static_dir" env:"SERVER_STATIC_DIR"`
	// CORSOrigins is a comma-separated allow list; "*" allows any origin.
	CORSOrigins string `yaml:"cors_origins" env:"SERVER_CORS_ORIGINS"`
}

// StoreConfig selects and configures the backend holding the users and
// feedback collections.
type StoreConfig struct {
	Type        string `yaml:"type"         env:"STORE_TYPE"         env-default:"local"` // local, bin, cloudflare_r2, s3, database
	BasePath    string `yaml:"base_path"    env:"STORE_BASE_PATH"    env-default:"./data"`
	BaseURL     string `yaml:"base_url"     env:"STORE_BASE_URL"`     // bin service root
	APIKey      string `yaml:"api_key"      env:"STORE_API_KEY"`      // bearer credential for the bin service
	UsersBin    string `yaml:"users_bin"    env:"STORE_USERS_BIN"    env-default:"users"`
	FeedbackBin string `yaml:"feedback_bin" env:"STORE_FEEDBACK_BIN" env-default:"feedback"`

	Bucket    string `yaml:"bucket"     env:"STORE_BUCKET"`
	Region    string `yaml:"region"     env:"STORE_REGION"`
	AccessKey string `yaml:"access_key" env:"STORE_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"STORE_SECRET_KEY"`
	Endpoint  string `yaml:"endpoint"   env:"STORE_ENDPOINT"`

	DatabaseDriver string `yaml:"database_driver" env:"STORE_DATABASE_DRIVER" env-default:"postgres"`
	DatabaseDSN    string `yaml:"database_dsn"    env:"STORE_DATABASE_DSN,DATABASE_URL"`

	Timeout time.Duration `yaml:"timeout" env:"STORE_TIMEOUT" env-default:"10s"`
}

type SessionConfig struct {
	Secret     string        `yaml:"secret"      env:"SESSION_SECRET"`
	TTL        time.Duration `yaml:"ttl"         env:"SESSION_TTL"         env-default:"24h"`
	CookieName string        `yaml:"cookie_name" env:"SESSION_COOKIE_NAME" env-default:"feedback_session"`
	Secure     bool          `yaml:"secure"      env:"SESSION_SECURE"`
	SweepEvery time.Duration `yaml:"sweep_every" env:"SESSION_SWEEP_EVERY" env-default:"10m"`
}

type AnalyticsConfig struct {
	PushInterval   time.Duration `yaml:"push_interval"    env:"ANALYTICS_PUSH_INTERVAL"    env-default:"10s"`
	WindowDays     int           `yaml:"window_days"      env:"ANALYTICS_WINDOW_DAYS"      env-default:"30"`
	TimeSeriesDays int           `yaml:"time_series_days" env:"ANALYTICS_TIME_SERIES_DAYS" env-default:"30"`
}

type EmailConfig struct {
	SMTPHost     string `yaml:"smtp_host"     env:"SMTP_HOST"`
	SMTPPort     int    `yaml:"smtp_port"     env:"SMTP_PORT"     env-default:"587"`
	SMTPUsername string `yaml:"smtp_user"     env:"SMTP_USER"`
	SMTPPassword string `yaml:"smtp_password" env:"SMTP_PASSWORD"`
	FromEmail    string `yaml:"from_email"    env:"SMTP_FROM_EMAIL"`
	FromName     string `yaml:"from_name"     env:"SMTP_FROM_NAME" env-default:"Feedback"`
}

// Enabled reports whether outgoing mail is configured.
func (e EmailConfig) Enabled() bool {
	return e.SMTPHost != "" && e.FromEmail != ""
}

var AppConfig *Config

// Load reads the YAML file (CONFIG_PATH, fallback config/config.yaml) and then
// overlays environment variables and defaults. Priority: ENV > YAML > defaults.
// A missing file is only an error when CONFIG_PATH names it explicitly.
func Load() (*Config, error) {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	explicitPath := path != ""
	if !explicitPath {
		path = "config/config.yaml"
	}

	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case explicitPath:
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if cfg.Session.Secret == "" && cfg.Server.Env == "development" {
		cfg.Session.Secret = uuid.NewString()
		log.Println("SESSION_SECRET is not set, using a random secret (sessions will not survive a restart)")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}

// LoadConfig loads the configuration into AppConfig and exits on failure.
func LoadConfig() {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	AppConfig = cfg
}
