package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadDefaultsAndYAML(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")
	p := writeTemp(t, `
storage:
  driver: postgres
  dsn: postgres://localhost/test
smtp:
  host: mail.example.com
`)
	c, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Server.Addr != ":8080" {
		t.Errorf("default addr = %q", c.Server.Addr)
	}
	if c.App.Env != "dev" {
		t.Errorf("default env = %q", c.App.Env)
	}
	if c.SMTP.Port != 587 || c.SMTP.TLSMode != "auto" {
		t.Errorf("smtp defaults: port=%d tls=%q", c.SMTP.Port, c.SMTP.TLSMode)
	}
	if c.SMTP.Host != "mail.example.com" {
		t.Errorf("yaml value lost: %q", c.SMTP.Host)
	}
}

func TestEnvOverridesYAML(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")
	t.Setenv("SERVER_ADDR", ":9999")
	t.Setenv("STORAGE_DRIVER", "mongo")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.com, https://b.com")

	p := writeTemp(t, `
server:
  addr: ":8080"
storage:
  driver: postgres
  dsn: postgres://x
`)
	c, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Server.Addr != ":9999" {
		t.Errorf("addr = %q", c.Server.Addr)
	}
	if c.Storage.Driver != "mongo" {
		t.Errorf("driver = %q", c.Storage.Driver)
	}
	if len(c.Server.CORSAllowedOrigins) != 2 || c.Server.CORSAllowedOrigins[1] != "https://b.com" {
		t.Errorf("cors = %v", c.Server.CORSAllowedOrigins)
	}
}

func TestValidateRejectsMissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error without JWT secret")
	}
}

func TestValidateRejectsDriverWithoutDSN(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("STORAGE_DSN", "")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for postgres without dsn")
	}

	t.Setenv("STORAGE_DRIVER", "mongo")
	t.Setenv("MONGO_URI", "")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for mongo without uri")
	}
}
