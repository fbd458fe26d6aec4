package pdf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func newTestService(t *testing.T, dir string) *Service {
	t.Helper()
	svc, err := NewService(zerolog.Nop(), ServiceOptions{
		MaxFileSize: 1024 * 1024,
		Directory:   dir,
		ServerName:  "transcript-analyzer",
		Version:     "test",
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestNewService(t *testing.T) {
	dir := t.TempDir()
	service := newTestService(t, dir)

	if service.maxFileSize != 1024*1024 {
		t.Errorf("maxFileSize = %d, want %d", service.maxFileSize, 1024*1024)
	}
	if service.validator == nil {
		t.Error("validator component should not be nil")
	}
	if service.search == nil {
		t.Error("search component should not be nil")
	}
	if service.extractor == nil {
		t.Error("extractor component should not be nil")
	}
	if service.analyzer == nil {
		t.Error("analyzer component should not be nil")
	}
}

func TestNewServiceRejectsZeroFileSize(t *testing.T) {
	_, err := NewService(zerolog.Nop(), ServiceOptions{Directory: t.TempDir()})
	if err == nil {
		t.Error("expected error for zero max file size")
	}
}

func TestService_GetMaxFileSize(t *testing.T) {
	service := newTestService(t, t.TempDir())
	if got := service.GetMaxFileSize(); got != 1024*1024 {
		t.Errorf("GetMaxFileSize() = %d, want %d", got, 1024*1024)
	}
}

func TestService_TranscriptAnalyzeFileErrors(t *testing.T) {
	service := newTestService(t, t.TempDir())

	if _, err := service.TranscriptAnalyzeFile(TranscriptAnalyzeFileRequest{}); err == nil {
		t.Error("expected error for empty path")
	}

	_, err := service.TranscriptAnalyzeFile(TranscriptAnalyzeFileRequest{Path: "/missing/file.pdf"})
	if err == nil {
		t.Error("expected error for missing file")
	}
	if err != nil && !strings.Contains(err.Error(), "invalid transcript PDF") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestService_TranscriptExportCSVErrors(t *testing.T) {
	service := newTestService(t, t.TempDir())

	if _, err := service.TranscriptExportCSV(TranscriptExportCSVRequest{Path: "/missing/file.pdf"}); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestService_PDFValidateFile(t *testing.T) {
	service := newTestService(t, t.TempDir())

	result, err := service.PDFValidateFile(PDFValidateFileRequest{Path: "/missing/file.pdf"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Valid {
		t.Error("missing file must not validate")
	}
}

func TestService_PDFSearchDirectoryDefaultsToConfigured(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "t.pdf"), make([]byte, 64), 0o600); err != nil {
		t.Fatal(err)
	}

	service := newTestService(t, dir)
	result, err := service.PDFSearchDirectory(PDFSearchDirectoryRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TotalCount != 1 {
		t.Errorf("TotalCount = %d, want 1", result.TotalCount)
	}
}

func TestService_ServerInfo(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "transcript.pdf"), make([]byte, 64), 0o600); err != nil {
		t.Fatal(err)
	}

	service := newTestService(t, dir)
	info, err := service.ServerInfo(ServerInfoRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if info.ServerName != "transcript-analyzer" {
		t.Errorf("ServerName = %q", info.ServerName)
	}
	if info.DefaultDirectory != dir {
		t.Errorf("DefaultDirectory = %q, want %q", info.DefaultDirectory, dir)
	}
	if len(info.DirectoryContents) != 1 {
		t.Errorf("DirectoryContents = %d files, want 1", len(info.DirectoryContents))
	}

	wantTools := map[string]bool{
		"transcript_analyze_file": false,
		"transcript_export_csv":   false,
		"pdf_validate_file":       false,
		"pdf_search_directory":    false,
		"server_info":             false,
	}
	for _, tool := range info.AvailableTools {
		if _, ok := wantTools[tool.Name]; ok {
			wantTools[tool.Name] = true
		}
	}
	for name, seen := range wantTools {
		if !seen {
			t.Errorf("tool %s missing from server info", name)
		}
	}
	if info.UsageGuidance == "" {
		t.Error("usage guidance should not be empty")
	}
}
