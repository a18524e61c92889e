package config

import (
	"fmt"
	"testing"
	"time"
)

func TestMustLoad(t *testing.T) {
	cfg := MustLoad("./test_data")

	if cfg.Private.Pg.Host != "localhost" {
		t.Errorf("pg.Host, got: %s, want: %s", cfg.Private.Pg.Host, "localhost")
	}
	if cfg.Private.Pg.Port != 5432 {
		t.Errorf("pg.Port, got: %s, want: %s", fmt.Sprint(cfg.Private.Pg.Port), "5432")
	}
	if cfg.Private.Pg.User != "wboard" {
		t.Errorf("pg.User, got: %s, want: %s", cfg.Private.Pg.User, "wboard")
	}
	if cfg.Private.Pg.Password != "pass" {
		t.Errorf("pg.Password, got: %s, want: %s", cfg.Private.Pg.Password, "pass")
	}
	if cfg.Private.Pg.Dbname != "wboard" {
		t.Errorf("pg.Dbname, got: %s, want: %s", cfg.Private.Pg.Dbname, "wboard")
	}
	if cfg.JwtTTL() != 24*time.Hour {
		t.Errorf("JwtTTL, got: %s, want: %s", fmt.Sprint(cfg.JwtTTL()), "24h")
	}
	if cfg.JwtKey() != "123" {
		t.Errorf("private jwtkey, got: %s, want: %s", cfg.JwtKey(), "123")
	}
	if cfg.Public.ViewCooldown.Std() != 10*time.Minute {
		t.Errorf("ViewCooldown, got: %s, want: %s", cfg.Public.ViewCooldown.Std(), "10m")
	}
	if cfg.Public.MediaDir != "media" {
		t.Errorf("MediaDir, got: %s, want: %s", cfg.Public.MediaDir, "media")
	}
}

func TestMustLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	if cfg.Public.ViewCooldown.Std() != 10*time.Minute {
		t.Errorf("default ViewCooldown, got: %s", cfg.Public.ViewCooldown.Std())
	}
	if cfg.Public.ViewSweepInterval.Std() != 5*time.Minute {
		t.Errorf("default ViewSweepInterval, got: %s", cfg.Public.ViewSweepInterval.Std())
	}
	if cfg.Public.HttpPort != 8080 {
		t.Errorf("default HttpPort, got: %d", cfg.Public.HttpPort)
	}
}
