package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		cfg := NewConfig()
		cfg.Input = "ftp.example.com"
		return cfg
	}

	t.Run("valid config passes", func(t *testing.T) {
		t.Parallel()
		if err := valid().Validate(); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"missing input", func(c *Config) { c.Input = "" }, ErrNoInput},
		{"bad mode", func(c *Config) { c.Mode = "xml" }, ErrInvalidMode},
		{"zero port", func(c *Config) { c.Port = 0 }, ErrInvalidPort},
		{"huge port", func(c *Config) { c.Port = 70000 }, ErrInvalidPort},
		{"negative threads", func(c *Config) { c.Threads = -1 }, ErrInvalidThreads},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, ErrInvalidTimeout},
		{"negative delay", func(c *Config) { c.Delay = -time.Second }, ErrInvalidDelay},
		{"empty output", func(c *Config) { c.Output = "" }, ErrNoOutput},
		{"both report formats", func(c *Config) { c.JSONReport = true; c.MarkdownReport = true }, ErrConflictingReportFormats},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	t.Run("zero threads means CPU default and passes", func(t *testing.T) {
		t.Parallel()
		cfg := valid()
		cfg.Threads = 0
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("loads defaults from yaml", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := "port: 2121\nthreads: 8\ntimeout: 30s\ndelay: 500ms\nproxy: 127.0.0.1:9050\noutput: results.txt\n"
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("LoadConfigFile failed: %v", err)
		}

		cfg := NewConfig()
		cfg.ApplyFile(cf)
		if cfg.Port != 2121 || cfg.Threads != 8 {
			t.Errorf("file values not applied: %+v", cfg)
		}
		if cfg.Timeout != 30*time.Second || cfg.Delay != 500*time.Millisecond {
			t.Errorf("durations not applied: %+v", cfg)
		}
		if cfg.Proxy != "127.0.0.1:9050" || cfg.Output != "results.txt" {
			t.Errorf("strings not applied: %+v", cfg)
		}
	})

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()
		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("malformed yaml fails", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("port: [not a number"), 0600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected an error for malformed yaml")
		}
	})

	t.Run("ApplyFile keeps existing values for unset fields", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.ApplyFile(&File{Threads: 4})
		if cfg.Port != DefaultPort {
			t.Errorf("unset port must keep default, got %d", cfg.Port)
		}
		if cfg.Threads != 4 {
			t.Errorf("set threads must apply, got %d", cfg.Threads)
		}
		cfg.ApplyFile(nil) // must not panic
	})
}

func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit existing path wins", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "custom.yml")
		if err := os.WriteFile(path, []byte("port: 21\n"), 0600); err != nil {
			t.Fatal(err)
		}
		if got := FindConfigFile(path); got != path {
			t.Errorf("expected %s, got %s", path, got)
		}
	})

	t.Run("explicit missing path returns empty", func(t *testing.T) {
		t.Parallel()
		if got := FindConfigFile(filepath.Join(t.TempDir(), "missing.yml")); got != "" {
			t.Errorf("expected empty, got %s", got)
		}
	})
}
