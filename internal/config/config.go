package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	Postgres PostgresConfig
	JWT      JWTConfig
	Media    MediaConfig
}

type ServerConfig struct {
	AppEnv          string
	Addr            string
	BodyLimit       int
	ShutdownTimeout time.Duration
	CORSOrigins     string
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

type PostgresConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type MediaConfig struct {
	Driver        string
	CloudinaryURL string
	LocalDir      string
	PublicBase    string
}

// IsDevelopment reports whether the service runs with APP_ENV=development.
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development"
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "production")
	v.SetDefault("HTTP_ADDR", ":5001")
	v.SetDefault("BODY_LIMIT_BYTES", 1<<30)
	v.SetDefault("SHUTDOWN_TIMEOUT", "20s")
	v.SetDefault("CORS_ORIGINS", "*")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_ENCODING", "json")

	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "5m")

	v.SetDefault("JWT_TTL", "168h")

	v.SetDefault("MEDIA_DRIVER", "cloudinary")
	v.SetDefault("MEDIA_LOCAL_DIR", "./uploads")
	v.SetDefault("MEDIA_PUBLIC_BASE", "/uploads")

	// keys without a default are not picked up by AutomaticEnv on Unmarshal
	for _, key := range []string{"DATABASE_URL", "JWT_SECRET", "CLOUDINARY_URL"} {
		_ = v.BindEnv(key)
	}
	return v
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			AppEnv:          v.GetString("APP_ENV"),
			Addr:            v.GetString("HTTP_ADDR"),
			BodyLimit:       v.GetInt("BODY_LIMIT_BYTES"),
			ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
			CORSOrigins:     v.GetString("CORS_ORIGINS"),
		},
		Logger: LoggerConfig{
			Level:    v.GetString("LOG_LEVEL"),
			Encoding: v.GetString("LOG_ENCODING"),
		},
		Postgres: PostgresConfig{
			URL:             v.GetString("DATABASE_URL"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
			TTL:    v.GetDuration("JWT_TTL"),
		},
		Media: MediaConfig{
			Driver:        strings.ToLower(v.GetString("MEDIA_DRIVER")),
			CloudinaryURL: v.GetString("CLOUDINARY_URL"),
			LocalDir:      v.GetString("MEDIA_LOCAL_DIR"),
			PublicBase:    v.GetString("MEDIA_PUBLIC_BASE"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var missing []string
	if c.Postgres.URL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.JWT.Secret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	switch c.Media.Driver {
	case "cloudinary":
		if c.Media.CloudinaryURL == "" {
			missing = append(missing, "CLOUDINARY_URL")
		}
	case "local":
	default:
		return fmt.Errorf("config: unknown MEDIA_DRIVER %q", c.Media.Driver)
	}
	if len(missing) > 0 {
		return fmt.Errorf("config: missing required keys: %s", strings.Join(missing, ", "))
	}
	return nil
}
