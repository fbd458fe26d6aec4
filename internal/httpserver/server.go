// Package httpserver exposes the transcript analyzer over HTTP for web
// uploads. The MCP stdio transport lives in internal/mcp; this package
// covers the "server" mode only.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/creditsum/transcript-analyzer/internal/config"
	"github.com/creditsum/transcript-analyzer/internal/pdf"
)

// Server wraps a Gin engine serving the transcript upload API.
type Server struct {
	config     *config.Config
	pdfService *pdf.Service
	engine     *gin.Engine
	log        zerolog.Logger
}

// NewServer creates the HTTP server and registers all routes.
func NewServer(cfg *config.Config, pdfService *pdf.Service, log zerolog.Logger) (*Server, error) {
	if pdfService == nil {
		return nil, fmt.Errorf("pdfService cannot be nil")
	}

	if cfg.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.MaxMultipartMemory = cfg.MaxFileSize

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type"}
	corsConfig.MaxAge = 12 * time.Hour
	engine.Use(cors.New(corsConfig))

	s := &Server{
		config:     cfg,
		pdfService: pdfService,
		engine:     engine,
		log:        log,
	}
	s.registerRoutes()

	return s, nil
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", s.handleHealth)

	v1 := s.engine.Group("/api/v1")
	{
		v1.POST("/transcripts/analyze", s.handleAnalyzeUpload)
		v1.GET("/server/info", s.handleServerInfo)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": s.config.Version})
}

func (s *Server) handleServerInfo(c *gin.Context) {
	info, err := s.pdfService.ServerInfo(pdf.ServerInfoRequest{})
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": info})
}

// handleAnalyzeUpload accepts a multipart transcript PDF and returns
// the analysis as JSON, or as a CSV attachment when format=csv.
func (s *Server) handleAnalyzeUpload(c *gin.Context) {
	req, cleanup, err := s.receiveUpload(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	defer cleanup()

	if c.Query("format") == "csv" {
		result, err := s.pdfService.TranscriptExportCSV(pdf.TranscriptExportCSVRequest(req))
		if err != nil {
			respondError(c, http.StatusUnprocessableEntity, err.Error())
			return
		}
		c.Header("Content-Disposition", `attachment; filename="transcript.csv"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(result.CSV))
		return
	}

	result, err := s.pdfService.TranscriptAnalyzeFile(req)
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}

// receiveUpload writes the uploaded PDF to a temp file and builds the
// analyze request from the form fields. The returned cleanup removes
// the temp file and must always be called.
func (s *Server) receiveUpload(c *gin.Context) (pdf.TranscriptAnalyzeFileRequest, func(), error) {
	noop := func() {}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		return pdf.TranscriptAnalyzeFileRequest{}, noop, errors.New("multipart field 'file' is required")
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		return pdf.TranscriptAnalyzeFileRequest{}, noop, errors.New("only PDF uploads are accepted")
	}
	if header.Size > s.config.MaxFileSize {
		return pdf.TranscriptAnalyzeFileRequest{}, noop,
			fmt.Errorf("file too large: %d bytes (max %d)", header.Size, s.config.MaxFileSize)
	}

	tmp, err := os.CreateTemp("", "transcript-upload-*.pdf")
	if err != nil {
		return pdf.TranscriptAnalyzeFileRequest{}, noop, fmt.Errorf("failed to buffer upload: %w", err)
	}
	cleanup := func() { _ = os.Remove(tmp.Name()) }

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		cleanup()
		return pdf.TranscriptAnalyzeFileRequest{}, noop, fmt.Errorf("failed to store upload: %w", err)
	}
	// The analyzer reopens the file itself, so release our handle first.
	if err := tmp.Close(); err != nil {
		cleanup()
		return pdf.TranscriptAnalyzeFileRequest{}, noop, fmt.Errorf("failed to store upload: %w", err)
	}

	req := pdf.TranscriptAnalyzeFileRequest{Path: tmp.Name()}
	if raw := c.PostForm("graduation_credits"); raw != "" {
		credits, err := strconv.ParseFloat(raw, 64)
		if err != nil || credits <= 0 {
			cleanup()
			return pdf.TranscriptAnalyzeFileRequest{}, noop,
				fmt.Errorf("invalid graduation_credits: %q", raw)
		}
		req.GraduationCredits = credits
	}

	s.log.Debug().
		Str("filename", header.Filename).
		Int64("size", header.Size).
		Msg("received transcript upload")

	return req, cleanup, nil
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": gin.H{"message": message}})
}

// Handler returns the underlying HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves HTTP until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Address(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return <-errCh
}
