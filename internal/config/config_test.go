package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ":memory:", cfg.Database.Path)
	assert.Equal(t, 2025, cfg.Closing.ActiveYear)
	assert.Equal(t, "2026-01-13", cfg.Clock.FixedDate)
	assert.Equal(t, time.Second, cfg.Operation.ConfirmDelay)
	assert.Equal(t, 800*time.Millisecond, cfg.Operation.ChatDelay)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.CORSOrigins)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
closing:
  active_year: 2026
clock:
  fixed_date: ""
operation:
  confirm_delay: 250ms
export:
  company_name: Acme Holdings
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 2026, cfg.Closing.ActiveYear)
	assert.Equal(t, "", cfg.Clock.FixedDate)
	assert.Equal(t, 250*time.Millisecond, cfg.Operation.ConfirmDelay)
	assert.Equal(t, "Acme Holdings", cfg.Export.CompanyName)
	assert.Equal(t, "json", cfg.Logger.Format, "unset keys keep defaults")
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("PORT", "7000")
	t.Setenv("CLOSING_CLOSING_ACTIVE_YEAR", "2024")
	t.Setenv("CLOSING_EXPORT_COMPANY_NAME", "Env Corp")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, 2024, cfg.Closing.ActiveYear)
	assert.Equal(t, "Env Corp", cfg.Export.CompanyName)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := writeConfig(t, "closing:\n  active_year: 1990\n")
	_, err = Load(path)
	assert.ErrorContains(t, err, "closing.active_year")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:    ServerConfig{Port: 8080},
			Database:  DatabaseConfig{Path: ":memory:"},
			Closing:   ClosingConfig{ActiveYear: 2025},
			Operation: OperationConfig{ConfirmDelay: time.Second, Retention: time.Minute, SweepInterval: time.Second},
			Export:    ExportConfig{CompanyName: "Tasco"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, true},
		{"no database", func(c *Config) { c.Database.Path = "" }, true},
		{"negative delay", func(c *Config) { c.Operation.ChatDelay = -time.Second }, true},
		{"zero retention", func(c *Config) { c.Operation.Retention = 0 }, true},
		{"no company", func(c *Config) { c.Export.CompanyName = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
