package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/chrbuchsteiner61/extractEmbedFilePDF/internal/pdf/attachments"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultPort                = 8080
	DefaultHost                = "127.0.0.1"
	DefaultLogLevel            = "info"
	DefaultMaxFileSize         = 100 * 1024 * 1024 // 100MB
	DefaultMaxEmbeddedFileSize = 100 * 1024 * 1024 // 100MB

	// Directory permissions
	DefaultDirPerm = 0o750

	// EnvPrefix is prepended to every environment variable, e.g. PDFA3_OUTPUT_DIR
	EnvPrefix = "PDFA3"
)

// Option keys shared by flags, environment variables and viper
const (
	keyMode            = "mode"
	keyHost            = "host"
	keyPort            = "port"
	keyDir             = "dir"
	keyOutputDir       = "output-dir"
	keyLogLevel        = "log-level"
	keyMaxFileSize     = "max-file-size"
	keyMaxEmbeddedSize = "max-embedded-size"
	keyStrict          = "strict"
	keyToDisk          = "to-disk"
)

// Config holds all configuration for the PDF/A-3 attachment server
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// PDF configuration
	PDFDirectory    string
	OutputDirectory string // root for extracted files, empty disables writing

	// Extraction configuration
	MaxEmbeddedFileSize int64 // 0 means unlimited
	StrictPDFA3         bool
	ExtractToDisk       bool

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	MaxFileSize int64 // Maximum PDF file size in bytes
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		// Fallback to current directory if working directory cannot be determined
		currentDir = "."
	}

	return &Config{
		Mode:                ModeStdio, // Default to stdio mode for MCP compatibility
		Host:                DefaultHost,
		Port:                DefaultPort,
		PDFDirectory:        currentDir,
		MaxEmbeddedFileSize: DefaultMaxEmbeddedFileSize,
		Version:             "1.0.0",
		ServerName:          "pdfa3-extract",
		LogLevel:            DefaultLogLevel,
		MaxFileSize:         DefaultMaxFileSize,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	// Expand paths if needed
	if cfg.PDFDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.PDFDirectory); err == nil {
			cfg.PDFDirectory = expandedPath
		}
	}
	if cfg.OutputDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.OutputDirectory); err == nil {
			cfg.OutputDirectory = expandedPath
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	// PDFA3_MAX_FILE_SIZE maps to max-file-size
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault(keyMode, cfg.Mode)
	viper.SetDefault(keyHost, cfg.Host)
	viper.SetDefault(keyPort, cfg.Port)
	viper.SetDefault(keyDir, cfg.PDFDirectory)
	viper.SetDefault(keyOutputDir, cfg.OutputDirectory)
	viper.SetDefault(keyLogLevel, cfg.LogLevel)
	viper.SetDefault(keyMaxFileSize, cfg.MaxFileSize)
	viper.SetDefault(keyMaxEmbeddedSize, cfg.MaxEmbeddedFileSize)
	viper.SetDefault(keyStrict, cfg.StrictPDFA3)
	viper.SetDefault(keyToDisk, cfg.ExtractToDisk)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String(keyMode, cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP server")
	pflag.String(keyHost, cfg.Host, "Server host address (server mode only)")
	pflag.Int(keyPort, cfg.Port, "Server port (server mode only)")
	pflag.String(keyDir, cfg.PDFDirectory, "Directory containing PDF files")
	pflag.String(keyOutputDir, cfg.OutputDirectory, "Directory extracted attachments are written to")
	pflag.String(keyLogLevel, cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64(keyMaxFileSize, cfg.MaxFileSize, "Maximum PDF file size in bytes")
	pflag.Int64(keyMaxEmbeddedSize, cfg.MaxEmbeddedFileSize, "Maximum embedded file size in bytes (0 = unlimited)")
	pflag.Bool(keyStrict, cfg.StrictPDFA3, "Report documents without a PDF/A-3 declaration as errors")
	pflag.Bool(keyToDisk, cfg.ExtractToDisk, "Write extracted attachments to the output directory by default")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	for _, key := range []string{
		keyMode, keyHost, keyPort, keyDir, keyOutputDir, keyLogLevel,
		keyMaxFileSize, keyMaxEmbeddedSize, keyStrict, keyToDisk,
	} {
		_ = viper.BindPFlag(key, pflag.Lookup(key))
	}
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nPDF/A-3 Extract - A Model Context Protocol server for PDF/A-3 attachments\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                          "+
			"# stdio mode, current directory (default)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --dir=/invoices --output-dir=/extracted  "+
			"# read invoices, write attachments\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=server --dir=/invoices --strict   # server mode, strict PDF/A-3\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  PDFA3_MODE              Server mode\n")
		fmt.Fprintf(os.Stderr, "  PDFA3_HOST              Server host\n")
		fmt.Fprintf(os.Stderr, "  PDFA3_PORT              Server port\n")
		fmt.Fprintf(os.Stderr, "  PDFA3_DIR               PDF directory\n")
		fmt.Fprintf(os.Stderr, "  PDFA3_OUTPUT_DIR        Output directory\n")
		fmt.Fprintf(os.Stderr, "  PDFA3_LOG_LEVEL         Log level\n")
		fmt.Fprintf(os.Stderr, "  PDFA3_MAX_FILE_SIZE     Maximum PDF file size\n")
		fmt.Fprintf(os.Stderr, "  PDFA3_MAX_EMBEDDED_SIZE Maximum embedded file size\n")
		fmt.Fprintf(os.Stderr, "  PDFA3_STRICT            Strict PDF/A-3 validation\n")
		fmt.Fprintf(os.Stderr, "  PDFA3_TO_DISK           Write attachments by default\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString(keyMode)
	cfg.Host = viper.GetString(keyHost)
	cfg.Port = viper.GetInt(keyPort)
	cfg.PDFDirectory = viper.GetString(keyDir)
	cfg.OutputDirectory = viper.GetString(keyOutputDir)
	cfg.LogLevel = viper.GetString(keyLogLevel)
	cfg.MaxFileSize = viper.GetInt64(keyMaxFileSize)
	cfg.MaxEmbeddedFileSize = viper.GetInt64(keyMaxEmbeddedSize)
	cfg.StrictPDFA3 = viper.GetBool(keyStrict)
	cfg.ExtractToDisk = viper.GetBool(keyToDisk)
}

// Validate checks if the configuration is valid. The PDF directory is not
// created so that placeholder paths stay usable; the output directory is.
func (c *Config) Validate() error {
	// Validate mode
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	// Validate port range (only for server mode)
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	// Validate PDF directory
	if c.PDFDirectory == "" {
		return errors.New("PDF directory cannot be empty")
	}

	if c.ExtractToDisk && c.OutputDirectory == "" {
		return errors.New("output directory is required when writing to disk")
	}

	if c.OutputDirectory != "" {
		if err := os.MkdirAll(c.OutputDirectory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create output directory %s: %w", c.OutputDirectory, err)
		}
	}

	// Validate sizes
	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}
	if c.MaxEmbeddedFileSize < 0 {
		return errors.New("maximum embedded file size cannot be negative")
	}

	// Validate log level
	if _, ok := logLevels[c.LogLevel]; !ok {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// SlogLevel returns the configured level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	if level, ok := logLevels[c.LogLevel]; ok {
		return level
	}
	return slog.LevelInfo
}

// ExtractorConfig returns the extraction settings
func (c *Config) ExtractorConfig() attachments.ExtractorConfig {
	return attachments.ExtractorConfig{
		StrictPDFA3Validation: c.StrictPDFA3,
		MaxEmbeddedFileSize:   c.MaxEmbeddedFileSize,
		ExtractToDisk:         c.ExtractToDisk,
		OutputDirectory:       c.OutputDirectory,
	}
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, PDFDirectory: %s, OutputDirectory: %s, "+
		"LogLevel: %s, MaxFileSize: %d, MaxEmbeddedFileSize: %d, StrictPDFA3: %t, ExtractToDisk: %t}",
		c.Mode, c.Host, c.Port, c.PDFDirectory, c.OutputDirectory,
		c.LogLevel, c.MaxFileSize, c.MaxEmbeddedFileSize, c.StrictPDFA3, c.ExtractToDisk)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
