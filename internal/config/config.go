package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultPort        = 8080
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "json"
	DefaultMaxFileSize = 50 * 1024 * 1024 // 50MB

	// Analysis defaults
	DefaultGraduationCredits = 128.0
	DefaultPassingFloor      = 1.7
	DefaultMinTableRows      = 5

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for the transcript analyzer
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Transcript configuration
	TranscriptDirectory string
	GraduationCredits   float64
	PassingFloor        float64
	MinTableRows        int

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	LogFormat   string
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
		TranscriptDirectory: currentDir,
		GraduationCredits:   DefaultGraduationCredits,
		PassingFloor:        DefaultPassingFloor,
		MinTableRows:        DefaultMinTableRows,
		Version:             "1.0.0",
		ServerName:          "transcript-analyzer",
		LogLevel:            DefaultLogLevel,
		LogFormat:           DefaultLogFormat,
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
	if cfg.TranscriptDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.TranscriptDirectory); err == nil {
			cfg.TranscriptDirectory = expandedPath
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
	// Set environment variable prefix
	viper.SetEnvPrefix("TRANSCRIPT")
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("dir", cfg.TranscriptDirectory)
	viper.SetDefault("graduationcredits", cfg.GraduationCredits)
	viper.SetDefault("passingfloor", cfg.PassingFloor)
	viper.SetDefault("mintablerows", cfg.MinTableRows)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("logformat", cfg.LogFormat)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP upload API")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("dir", cfg.TranscriptDirectory, "Directory containing transcript PDF files")
	pflag.Float64("graduationcredits", cfg.GraduationCredits, "Credit-hours required for graduation")
	pflag.Float64("passingfloor", cfg.PassingFloor, "Lowest grade value that still passes")
	pflag.Int("mintablerows", cfg.MinTableRows, "Minimum rows before an unlabeled table is considered")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.String("logformat", cfg.LogFormat, "Log format (json, pretty)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	_ = viper.BindPFlag("mode", pflag.Lookup("mode"))
	_ = viper.BindPFlag("host", pflag.Lookup("host"))
	_ = viper.BindPFlag("port", pflag.Lookup("port"))
	_ = viper.BindPFlag("dir", pflag.Lookup("dir"))
	_ = viper.BindPFlag("graduationcredits", pflag.Lookup("graduationcredits"))
	_ = viper.BindPFlag("passingfloor", pflag.Lookup("passingfloor"))
	_ = viper.BindPFlag("mintablerows", pflag.Lookup("mintablerows"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
	_ = viper.BindPFlag("logformat", pflag.Lookup("logformat"))
	_ = viper.BindPFlag("maxfilesize", pflag.Lookup("maxfilesize"))
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nTranscript Analyzer - credit and grade analysis for transcript PDFs\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                          "+
			"# stdio mode, current directory (default)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --dir=/path/to/transcripts               "+
			"# stdio mode with custom directory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=server --port=8081                # HTTP upload API\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --graduationcredits=132                  # custom graduation target\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  TRANSCRIPT_MODE               Server mode\n")
		fmt.Fprintf(os.Stderr, "  TRANSCRIPT_HOST               Server host\n")
		fmt.Fprintf(os.Stderr, "  TRANSCRIPT_PORT               Server port\n")
		fmt.Fprintf(os.Stderr, "  TRANSCRIPT_DIR                Transcript PDF directory\n")
		fmt.Fprintf(os.Stderr, "  TRANSCRIPT_GRADUATIONCREDITS  Graduation credit requirement\n")
		fmt.Fprintf(os.Stderr, "  TRANSCRIPT_PASSINGFLOOR       Lowest passing grade value\n")
		fmt.Fprintf(os.Stderr, "  TRANSCRIPT_LOGLEVEL           Log level\n")
		fmt.Fprintf(os.Stderr, "  TRANSCRIPT_LOGFORMAT          Log format\n")
		fmt.Fprintf(os.Stderr, "  TRANSCRIPT_MAXFILESIZE        Maximum file size\n")
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
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.TranscriptDirectory = viper.GetString("dir")
	cfg.GraduationCredits = viper.GetFloat64("graduationcredits")
	cfg.PassingFloor = viper.GetFloat64("passingfloor")
	cfg.MinTableRows = viper.GetInt("mintablerows")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.LogFormat = viper.GetString("logformat")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate mode
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	// Validate port range (only for server mode)
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	// Validate transcript directory
	if c.TranscriptDirectory == "" {
		return errors.New("transcript directory cannot be empty")
	}

	// Check if transcript directory exists, create if it doesn't
	if _, err := os.Stat(c.TranscriptDirectory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.TranscriptDirectory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create transcript directory %s: %w", c.TranscriptDirectory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access transcript directory %s: %w", c.TranscriptDirectory, err)
	}

	// Validate max file size
	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	// Validate analysis knobs
	if c.GraduationCredits <= 0 {
		return errors.New("graduation credits must be positive")
	}
	if c.PassingFloor < 0 {
		return errors.New("passing floor cannot be negative")
	}
	if c.MinTableRows < 2 {
		return errors.New("minimum table rows must be at least 2")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	if c.LogFormat != "json" && c.LogFormat != "pretty" {
		return fmt.Errorf("invalid log format: %s (must be json or pretty)", c.LogFormat)
	}

	return nil
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
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, TranscriptDirectory: %s, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.Host, c.Port, c.TranscriptDirectory, c.LogLevel, c.MaxFileSize)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
