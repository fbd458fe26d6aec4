package pdf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidator_ValidateFile(t *testing.T) {
	validator := NewValidator(1024 * 1024) // 1MB limit

	tempDir := t.TempDir()
	writeFile := func(name string, content []byte) string {
		path := filepath.Join(tempDir, name)
		if err := os.WriteFile(path, content, 0o600); err != nil {
			t.Fatalf("failed to create test file %s: %v", name, err)
		}
		return path
	}

	textFile := writeFile("notes.txt", []byte("hello"))
	emptyFile := writeFile("empty.pdf", nil)
	garbageFile := writeFile("garbage.pdf", []byte("this is not a pdf"))

	tests := []struct {
		name        string
		path        string
		wantValid   bool
		wantMessage string
	}{
		{
			name:        "empty path",
			path:        "",
			wantValid:   false,
			wantMessage: "path cannot be empty",
		},
		{
			name:        "non-existent file",
			path:        "/non/existent/file.pdf",
			wantValid:   false,
			wantMessage: "does not exist",
		},
		{
			name:        "directory instead of file",
			path:        tempDir,
			wantValid:   false,
			wantMessage: "not a PDF",
		},
		{
			name:        "wrong extension",
			path:        textFile,
			wantValid:   false,
			wantMessage: "not a PDF",
		},
		{
			name:        "empty file",
			path:        emptyFile,
			wantValid:   false,
			wantMessage: "file is empty",
		},
		{
			name:        "garbage content",
			path:        garbageFile,
			wantValid:   false,
			wantMessage: "invalid PDF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := validator.ValidateFile(PDFValidateFileRequest{Path: tt.path})
			if err != nil {
				t.Fatalf("ValidateFile should not return a processing error, got %v", err)
			}
			if result.Valid != tt.wantValid {
				t.Errorf("Valid = %v, want %v", result.Valid, tt.wantValid)
			}
			if result.Path != tt.path {
				t.Errorf("Path = %q, want %q", result.Path, tt.path)
			}
			if tt.wantMessage != "" && !strings.Contains(result.Message, tt.wantMessage) {
				t.Errorf("Message = %q, want substring %q", result.Message, tt.wantMessage)
			}
		})
	}
}

func TestValidator_ValidateFileTooLarge(t *testing.T) {
	validator := NewValidator(4)

	path := filepath.Join(t.TempDir(), "big.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4 content"), 0o600); err != nil {
		t.Fatal(err)
	}

	result, err := validator.ValidateFile(PDFValidateFileRequest{Path: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Valid {
		t.Error("oversized file must not validate")
	}
	if !strings.Contains(result.Message, "too large") {
		t.Errorf("Message = %q, want 'too large'", result.Message)
	}
}

func TestValidator_ValidateFileInfo(t *testing.T) {
	validator := NewValidator(1024)

	dir := t.TempDir()
	dirInfo, err := os.Stat(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := validator.ValidateFileInfo(dir, dirInfo); err == nil {
		t.Error("directories must be rejected")
	}

	path := filepath.Join(dir, "doc.pdf")
	if err := os.WriteFile(path, []byte("%PDF"), 0o600); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := validator.ValidateFileInfo(path, info); err != nil {
		t.Errorf("basic file info check should pass without opening the PDF, got %v", err)
	}
}

func TestValidator_IsValidPDF(t *testing.T) {
	validator := NewValidator(1024 * 1024)

	if validator.IsValidPDF("/non/existent/file.pdf") {
		t.Error("IsValidPDF must be false for a missing file")
	}
}
