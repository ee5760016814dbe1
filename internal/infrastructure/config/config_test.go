package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/erp/printagent/internal/domain/printing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir runs the test from an empty directory so no config.toml is picked up
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "printagent", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "9123", cfg.App.Port)
	assert.Equal(t, "127.0.0.1:9123", cfg.Addr())

	assert.Equal(t, printing.StrategyRaster, cfg.Print.Strategy)
	assert.Equal(t, []string{"Microsoft Print to PDF"}, cfg.Print.VirtualPrinters)
	assert.Equal(t, "Ticket", cfg.Print.DocName)
	assert.Equal(t, printing.DefaultFontSpec(), cfg.Print.FontSpec())
	assert.Equal(t, printing.DefaultLayout(), cfg.Print.Layout())
	assert.True(t, cfg.Print.SpoolUseCRLF)
	assert.Equal(t, 30*time.Second, cfg.Print.CommandTimeout)

	assert.True(t, cfg.Journal.Enabled)
	assert.Equal(t, 500, cfg.Journal.MaxEntries)
	assert.False(t, cfg.PDF.Enabled)
	assert.Empty(t, cfg.Update.ManifestURL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t)
	t.Setenv("PRINTAGENT_APP_PORT", "9999")
	t.Setenv("PRINTAGENT_APP_VERSION", "1.4.2")
	t.Setenv("PRINTAGENT_PRINT_STRATEGY", "SPOOL")
	t.Setenv("PRINTAGENT_PRINT_SPOOL_USE_CRLF", "false")
	t.Setenv("PRINTAGENT_PRINT_FONT_HEIGHT", "100")
	t.Setenv("PRINTAGENT_JOURNAL_ENABLED", "false")
	t.Setenv("PRINTAGENT_PDF_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.App.Port)
	assert.Equal(t, "1.4.2", cfg.App.Version)
	assert.Equal(t, printing.StrategySpool, cfg.Print.Strategy)
	assert.False(t, cfg.Print.SpoolUseCRLF)
	assert.Equal(t, 100, cfg.Print.FontHeight)
	assert.False(t, cfg.Journal.Enabled)
	assert.True(t, cfg.PDF.Enabled)
}

func TestLoad_InvalidStrategy(t *testing.T) {
	chdir(t)
	t.Setenv("PRINTAGENT_PRINT_STRATEGY", "laser")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "print.strategy")
	assert.Equal(t, printing.ErrKindConfiguration, printing.KindOf(err))
}

func TestLoad_ConfigFileInWorkingDirectory(t *testing.T) {
	dir := chdir(t)
	content := `
[app]
port = "7000"

[print]
strategy = "spool"
virtual_printers = ["Microsoft Print to PDF", "OneNote"]
margin_x = 20
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.App.Port)
	assert.Equal(t, printing.StrategySpool, cfg.Print.Strategy)
	assert.Equal(t, []string{"Microsoft Print to PDF", "OneNote"}, cfg.Print.VirtualPrinters)
	assert.Equal(t, 20, cfg.Print.MarginX)
}

func TestLoadFile(t *testing.T) {
	chdir(t)
	path := filepath.Join(t.TempDir(), "agent.toml")
	content := `
[app]
version = "2.0.1"

[print]
doc_name = "Pedido"
fallback_line_height = 160
command_timeout = "5s"

[journal]
enabled = false
max_entries = 50

[update]
manifest_url = "https://updates.example.com/latest.json"
timeout = "3s"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "2.0.1", cfg.App.Version)
	assert.Equal(t, "Pedido", cfg.Print.DocName)
	assert.Equal(t, 160, cfg.Print.FallbackLineHeight)
	assert.Equal(t, 5*time.Second, cfg.Print.CommandTimeout)
	assert.True(t, cfg.Print.SpoolUseCRLF)
	assert.False(t, cfg.Journal.Enabled)
	assert.Equal(t, 50, cfg.Journal.MaxEntries)
	assert.Equal(t, "https://updates.example.com/latest.json", cfg.Update.ManifestURL)
	assert.Equal(t, 3*time.Second, cfg.Update.Timeout)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{
			name:    "negative fallback line height",
			mutate:  func(c *Config) { c.Print.FallbackLineHeight = -1 },
			wantErr: "fallback_line_height",
		},
		{
			name:    "unknown strategy",
			mutate:  func(c *Config) { c.Print.Strategy = "laser" },
			wantErr: "print.strategy",
		},
		{
			name:    "negative margin",
			mutate:  func(c *Config) { c.Print.MarginX = -5 },
			wantErr: "margin_x",
		},
		{
			name:    "negative journal size",
			mutate:  func(c *Config) { c.Journal.MaxEntries = -1 },
			wantErr: "journal.max_entries",
		},
		{
			name: "wildcard cors in production",
			mutate: func(c *Config) {
				c.App.Env = "production"
				c.HTTP.CORSAllowOrigins = []string{"*"}
			},
			wantErr: "cors_allow_origins",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
