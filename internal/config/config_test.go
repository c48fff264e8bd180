package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/catalog")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("MEDIA_DRIVER", "local")

	cfg, err := FromViper(newViper())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Addr != ":5001" {
		t.Fatalf("expected default addr :5001, got %q", cfg.Server.Addr)
	}
	if cfg.JWT.TTL != 168*time.Hour {
		t.Fatalf("expected 7 day token ttl, got %v", cfg.JWT.TTL)
	}
	if cfg.Server.BodyLimit != 1<<30 {
		t.Fatalf("unexpected body limit %d", cfg.Server.BodyLimit)
	}
	if cfg.Media.LocalDir != "./uploads" || cfg.Media.PublicBase != "/uploads" {
		t.Fatalf("unexpected media defaults %+v", cfg.Media)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	v := viper.New()
	v.Set("MEDIA_DRIVER", "cloudinary")

	_, err := FromViper(v)
	if err == nil {
		t.Fatalf("expected error for missing keys")
	}
	for _, key := range []string{"DATABASE_URL", "JWT_SECRET", "CLOUDINARY_URL"} {
		if !strings.Contains(err.Error(), key) {
			t.Fatalf("expected %s in %q", key, err.Error())
		}
	}
}

func TestLoad_UnknownMediaDriver(t *testing.T) {
	v := viper.New()
	v.Set("DATABASE_URL", "postgres://localhost/catalog")
	v.Set("JWT_SECRET", "s3cret")
	v.Set("MEDIA_DRIVER", "s3")

	if _, err := FromViper(v); err == nil {
		t.Fatalf("expected error for unknown media driver")
	}
}
