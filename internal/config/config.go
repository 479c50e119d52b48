package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Debug   bool          `yaml:"debug" env:"DEBUG"`
	Limiter Limiter       `yaml:"limiter"`
	Server  Server        `yaml:"server"`
	DB      DB            `yaml:"db"`
	Auth    Auth          `yaml:"auth"`
	Tasks   Tasks         `yaml:"tasks"`
	CORS    CORS          `yaml:"cors"`
	SMTP    SMTP          `yaml:"smtp"`
	Genres  Genres        `yaml:"genres"`
	Clients ClientsConfig `yaml:"clients"`
}

type Limiter struct {
	Enabled bool    `yaml:"enabled" env:"LIMITER_ENABLED"`
	Rps     float64 `yaml:"rps" env-default:"20"`
	Burst   int     `yaml:"burst" env-default:"5"`
}

type Server struct {
	Port string `yaml:"port" env:"PORT" env-default:"8000"`
	Host string `yaml:"host" env:"HOST" env-default:"localhost"`

	ReadTimeout     time.Duration `yaml:"read_timeout" env-default:"5s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"10s"`
}

type DB struct {
	Driver          string        `yaml:"driver" env:"DB_DRIVER" env-default:"postgres"`
	Dsn             string        `yaml:"dsn" env:"DB_DSN"`
	MaxConns        int           `yaml:"max_conns" env-default:"25"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env-default:"10m"`
	AutoMigrate     bool          `yaml:"auto_migrate" env:"DB_AUTO_MIGRATE"`
}

type Auth struct {
	JWTSecret   string        `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	TokenTTL    time.Duration `yaml:"token_ttl" env-default:"24h"`
	AdminEmails []string      `yaml:"admin_emails" env:"ADMIN_EMAILS" env-separator:","`
}

type Tasks struct {
	Workers   int `yaml:"workers" env-default:"4"`
	QueueSize int `yaml:"queue_size" env-default:"100"`
}

type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"*"`
}

type SMTP struct {
	Host     string        `yaml:"host" env:"SMTP_HOST"`
	Port     int           `yaml:"port" env:"SMTP_PORT" env-default:"25"`
	Username string        `yaml:"username" env:"SMTP_USERNAME"`
	Password string        `yaml:"password" env:"SMTP_PASSWORD"`
	Sender   string        `yaml:"sender" env-default:"Streamcatalog <no-reply@streamcatalog.local>"`
	Timeout  time.Duration `yaml:"timeout" env-default:"5s"`
	Retries  int           `yaml:"retries" env-default:"3"`
}

type Genres struct {
	// StrictNames rejects object-shaped genre input whose name disagrees with the store.
	StrictNames bool `yaml:"strict_names" env:"GENRES_STRICT_NAMES"`
}

type Client struct {
	BaseURL string        `yaml:"base_url" env-default:"https://api.themoviedb.org/3"`
	Token   string        `yaml:"token" env:"TMDB_TOKEN"`
	Timeout time.Duration `yaml:"timeout" env-default:"5s"`
	// breaker opens after MaxFailures consecutive failures and probes again after OpenTimeout
	MaxFailures uint32        `yaml:"max_failures" env-default:"5"`
	OpenTimeout time.Duration `yaml:"open_timeout" env-default:"30s"`
}

type ClientsConfig struct {
	TMDB Client `yaml:"tmdb"`
}

// MustLoad reads the yaml file at configPath, lets environment variables override it
// and panics on failure. A .env file in the working directory is loaded first when present.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(err)
	}
	return cfg
}

func Load(configPath string) (*Config, error) {
	var cfg Config
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file %s not found", configPath)
	}
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.DB.Dsn == "" {
			return fmt.Errorf("db.dsn is required for the %s driver", DriverPostgres)
		}
	default:
		return fmt.Errorf("unknown db driver %q", c.DB.Driver)
	}
	if c.Tasks.Workers <= 0 {
		return fmt.Errorf("tasks.workers must be positive")
	}
	return nil
}
