package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.MaxPages != 50 {
		t.Errorf("MaxPages = %d; want 50", cfg.MaxPages)
	}
	if cfg.StartPage != 1 {
		t.Errorf("StartPage = %d; want 1", cfg.StartPage)
	}
	if cfg.PageDelayMs != 8000 {
		t.Errorf("PageDelayMs = %d; want 8000", cfg.PageDelayMs)
	}
	if cfg.OutputDir != "./extracted" {
		t.Errorf("OutputDir = %q; want ./extracted", cfg.OutputDir)
	}
	if cfg.PostgresEnabled {
		t.Error("PostgresEnabled defaults to true; want false")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MAX_PAGES", "12")
	t.Setenv("START_PAGE", "4")
	t.Setenv("HEADLESS", "false")
	t.Setenv("OUTPUT_DIR", "/tmp/out")

	cfg := Load()
	if cfg.MaxPages != 12 {
		t.Errorf("MaxPages = %d; want 12", cfg.MaxPages)
	}
	if cfg.StartPage != 4 {
		t.Errorf("StartPage = %d; want 4", cfg.StartPage)
	}
	if cfg.Headless {
		t.Error("Headless = true; want false")
	}
	if cfg.OutputDir != "/tmp/out" {
		t.Errorf("OutputDir = %q; want /tmp/out", cfg.OutputDir)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("MAX_PAGES", "not-a-number")
	t.Setenv("DEBUG", "not-a-bool")

	cfg := Load()
	if cfg.MaxPages != 50 {
		t.Errorf("MaxPages = %d; want fallback 50", cfg.MaxPages)
	}
	if cfg.Debug {
		t.Error("Debug = true; want fallback false")
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		PostgresHost:     "db.local",
		PostgresPort:     "5433",
		PostgresUser:     "u",
		PostgresPassword: "p",
		PostgresDB:       "records",
		PostgresSSLMode:  "disable",
	}
	want := "host=db.local port=5433 user=u password=p dbname=records sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %q; want %q", got, want)
	}
}
