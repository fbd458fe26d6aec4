package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/creditsum/transcript-analyzer/internal/config"
	"github.com/creditsum/transcript-analyzer/internal/httpserver"
	"github.com/creditsum/transcript-analyzer/internal/logging"
	"github.com/creditsum/transcript-analyzer/internal/mcp"
	"github.com/creditsum/transcript-analyzer/internal/pdf"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// runServerMode serves the HTTP upload API until a shutdown signal.
func runServerMode(ctx context.Context, cancel context.CancelFunc, server *httpserver.Server, log zerolog.Logger) {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.Run(ctx)
	}()

	select {
	case sig := <-signalCh:
		log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully")
		cancel()

		if err := <-serverErrCh; err != nil {
			log.Error().Err(err).Msg("Server shutdown with error")
			os.Exit(1)
		}

	case err := <-serverErrCh:
		if err != nil {
			log.Error().Err(err).Msg("Server error")
			os.Exit(1)
		}
	}

	log.Info().Msg("Server stopped")
}

// runStdioMode serves MCP over standard I/O. The parent process owns
// our lifecycle; we exit when stdin closes.
func runStdioMode(ctx context.Context, server *mcp.Server, log zerolog.Logger) {
	if err := server.Run(ctx); err != nil {
		log.Error().Err(err).Msg("Server error")
		os.Exit(1)
	}
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	log := logging.Setup(cfg.LogLevel, cfg.LogFormat, cfg.IsStdioMode())

	if cfg.IsServerMode() {
		log.Info().
			Str("mode", cfg.Mode).
			Str("addr", cfg.Address()).
			Str("dir", cfg.TranscriptDirectory).
			Msg("Starting transcript analyzer")
	}

	pdfService, err := pdf.NewService(log, pdf.ServiceOptions{
		MaxFileSize:       cfg.MaxFileSize,
		Directory:         cfg.TranscriptDirectory,
		ServerName:        cfg.ServerName,
		Version:           cfg.Version,
		GraduationCredits: cfg.GraduationCredits,
		PassingFloor:      cfg.PassingFloor,
		MinTableRows:      cfg.MinTableRows,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create PDF service")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.IsServerMode() {
		server, err := httpserver.NewServer(cfg, pdfService, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create HTTP server")
		}
		runServerMode(ctx, cancel, server, log)
		return
	}

	server, err := mcp.NewServer(cfg, pdfService, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create MCP server")
	}
	runStdioMode(ctx, server, log)
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("Transcript Analyzer\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
