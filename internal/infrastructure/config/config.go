package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/erp/printagent/internal/domain/printing"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variable overrides
const EnvPrefix = "PRINTAGENT"

// Config holds all application configuration
type Config struct {
	App     AppConfig
	Log     LogConfig
	HTTP    HTTPConfig
	Print   PrintConfig
	Journal JournalConfig
	PDF     PDFConfig
	Update  UpdateConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name    string
	Env     string
	Port    string
	Version string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	Host             string
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxBodySize      int64
	CORSAllowOrigins []string
}

// PrintConfig holds the printing subsystem settings
type PrintConfig struct {
	Strategy           printing.Strategy
	VirtualPrinters    []string
	DocName            string
	FontFace           string
	FontHeight         int
	FontWeight         int
	MarginX            int
	OriginY            int
	FallbackLineHeight int
	SpoolUseCRLF       bool
	TempDir            string
	PowerShellPath     string
	CommandTimeout     time.Duration
}

// JournalConfig holds the print job journal settings
type JournalConfig struct {
	Enabled    bool
	Path       string
	MaxEntries int
}

// PDFConfig holds ticket PDF export settings
type PDFConfig struct {
	Enabled   bool
	RemoteURL string
	NoSandbox bool
	Timeout   time.Duration
}

// UpdateConfig holds the update checker settings
type UpdateConfig struct {
	ManifestURL string
	Timeout     time.Duration
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with PRINTAGENT_ prefix (e.g., PRINTAGENT_PRINT_STRATEGY)
// 2. config.toml in the working directory or next to the executable
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	if exe, err := os.Executable(); err == nil {
		v.AddConfigPath(filepath.Dir(exe))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return load(v)
}

// LoadFile loads configuration from the given TOML file, then applies
// environment overrides the same way Load does.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Booleans that default to true cannot be told apart from false after Get
	v.SetDefault("print.spool_use_crlf", true)
	v.SetDefault("journal.enabled", true)

	var strategy printing.Strategy
	if raw := v.GetString("print.strategy"); raw != "" {
		parsed, err := printing.ParseStrategy(raw)
		if err != nil {
			return nil, fmt.Errorf("print.strategy: %w", err)
		}
		strategy = parsed
	}

	cfg := &Config{
		App: AppConfig{
			Name:    v.GetString("app.name"),
			Env:     v.GetString("app.env"),
			Port:    v.GetString("app.port"),
			Version: v.GetString("app.version"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			Host:             v.GetString("http.host"),
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxBodySize:      v.GetInt64("http.max_body_size"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
		},
		Print: PrintConfig{
			Strategy:           strategy,
			VirtualPrinters:    v.GetStringSlice("print.virtual_printers"),
			DocName:            v.GetString("print.doc_name"),
			FontFace:           v.GetString("print.font_face"),
			FontHeight:         v.GetInt("print.font_height"),
			FontWeight:         v.GetInt("print.font_weight"),
			MarginX:            v.GetInt("print.margin_x"),
			OriginY:            v.GetInt("print.origin_y"),
			FallbackLineHeight: v.GetInt("print.fallback_line_height"),
			SpoolUseCRLF:       v.GetBool("print.spool_use_crlf"),
			TempDir:            v.GetString("print.temp_dir"),
			PowerShellPath:     v.GetString("print.powershell_path"),
			CommandTimeout:     v.GetDuration("print.command_timeout"),
		},
		Journal: JournalConfig{
			Enabled:    v.GetBool("journal.enabled"),
			Path:       v.GetString("journal.path"),
			MaxEntries: v.GetInt("journal.max_entries"),
		},
		PDF: PDFConfig{
			Enabled:   v.GetBool("pdf.enabled"),
			RemoteURL: v.GetString("pdf.remote_url"),
			NoSandbox: v.GetBool("pdf.no_sandbox"),
			Timeout:   v.GetDuration("pdf.timeout"),
		},
		Update: UpdateConfig{
			ManifestURL: v.GetString("update.manifest_url"),
			Timeout:     v.GetDuration("update.timeout"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "printagent"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "9123"
	}
	if cfg.App.Version == "" {
		cfg.App.Version = "0.0.0"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	// The agent only serves the local UI shell
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "127.0.0.1"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 60 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 1 << 20 // 1MB
	}
	if cfg.Print.Strategy == "" {
		cfg.Print.Strategy = printing.StrategyRaster
	}
	if cfg.Print.VirtualPrinters == nil {
		cfg.Print.VirtualPrinters = []string{"Microsoft Print to PDF"}
	}
	if cfg.Print.DocName == "" {
		cfg.Print.DocName = printing.DefaultDocName
	}
	if cfg.Print.FontFace == "" {
		cfg.Print.FontFace = printing.DefaultFontFace
	}
	if cfg.Print.FontHeight == 0 {
		cfg.Print.FontHeight = printing.DefaultFontHeight
	}
	if cfg.Print.FontWeight == 0 {
		cfg.Print.FontWeight = printing.DefaultFontWeight
	}
	if cfg.Print.MarginX == 0 {
		cfg.Print.MarginX = printing.DefaultMarginX
	}
	if cfg.Print.OriginY == 0 {
		cfg.Print.OriginY = printing.DefaultOriginY
	}
	if cfg.Print.FallbackLineHeight == 0 {
		cfg.Print.FallbackLineHeight = printing.DefaultFallbackLineHeight
	}
	if cfg.Print.CommandTimeout == 0 {
		cfg.Print.CommandTimeout = 30 * time.Second
	}
	if cfg.Journal.Path == "" {
		cfg.Journal.Path = "printagent.db"
	}
	if cfg.Journal.MaxEntries == 0 {
		cfg.Journal.MaxEntries = 500
	}
	if cfg.PDF.Timeout == 0 {
		cfg.PDF.Timeout = 30 * time.Second
	}
	if cfg.Update.Timeout == 0 {
		cfg.Update.Timeout = 15 * time.Second
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if !c.Print.Strategy.IsValid() {
		return fmt.Errorf("print.strategy must be one of %v, got %q", printing.AllStrategies(), c.Print.Strategy)
	}
	if c.Print.FontHeight < 0 {
		return fmt.Errorf("print.font_height cannot be negative")
	}
	if c.Print.FallbackLineHeight <= 0 {
		return fmt.Errorf("print.fallback_line_height must be positive")
	}
	if c.Print.MarginX < 0 || c.Print.OriginY < 0 {
		return fmt.Errorf("print.margin_x and print.origin_y cannot be negative")
	}
	if c.Print.CommandTimeout < 0 {
		return fmt.Errorf("print.command_timeout cannot be negative")
	}
	if c.Journal.MaxEntries < 0 {
		return fmt.Errorf("journal.max_entries cannot be negative")
	}
	if c.App.Env == "production" {
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}
	return nil
}

// Addr returns the listen address of the HTTP server
func (c *Config) Addr() string {
	return c.HTTP.Host + ":" + c.App.Port
}

// FontSpec returns the configured layout font
func (p *PrintConfig) FontSpec() printing.FontSpec {
	return printing.FontSpec{Face: p.FontFace, Height: p.FontHeight, Weight: p.FontWeight}
}

// Layout returns the configured page layout
func (p *PrintConfig) Layout() printing.Layout {
	return printing.Layout{MarginX: p.MarginX, OriginY: p.OriginY, FallbackLineHeight: p.FallbackLineHeight}
}
