package pdf

import "github.com/creditsum/transcript-analyzer/internal/transcript"

// FileInfo represents information about a PDF file
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// Request Types

// TranscriptAnalyzeFileRequest represents a request to analyze a transcript PDF
type TranscriptAnalyzeFileRequest struct {
	Path              string             `json:"path"`
	GraduationCredits float64            `json:"graduation_credits,omitempty"`
	GradeOverrides    map[string]float64 `json:"grade_overrides,omitempty"`
}

// TranscriptExportCSVRequest represents a request to export transcript records as CSV
type TranscriptExportCSVRequest struct {
	Path              string             `json:"path"`
	GraduationCredits float64            `json:"graduation_credits,omitempty"`
	GradeOverrides    map[string]float64 `json:"grade_overrides,omitempty"`
}

// PDFValidateFileRequest represents a request to validate a PDF file
type PDFValidateFileRequest struct {
	Path string `json:"path"`
}

// PDFSearchDirectoryRequest represents a request to search for PDF files in a directory
type PDFSearchDirectoryRequest struct {
	Directory string `json:"directory"`
	Query     string `json:"query"`
}

// ServerInfoRequest represents a request to get server information and capabilities
type ServerInfoRequest struct {
	// No parameters needed for server info
}

// Response Types

// TranscriptAnalyzeFileResult represents the result of a transcript analysis
type TranscriptAnalyzeFileResult struct {
	Path        string                    `json:"path"`
	Pages       int                       `json:"pages"`
	TablesFound int                       `json:"tables_found"`
	TablesUsed  int                       `json:"tables_used"`
	Records     []transcript.CourseRecord `json:"records"`
	Summary     transcript.Summary        `json:"summary"`
	Warnings    []string                  `json:"warnings,omitempty"`
}

// TranscriptExportCSVResult represents the result of a CSV export
type TranscriptExportCSVResult struct {
	Path        string `json:"path"`
	CSV         string `json:"csv"`
	RecordCount int    `json:"record_count"`
}

// PDFValidateFileResult represents the result of a PDF validation operation
type PDFValidateFileResult struct {
	Valid   bool   `json:"valid"`
	Path    string `json:"path"`
	Message string `json:"message,omitempty"`
}

// PDFSearchDirectoryResult represents the result of a PDF search operation
type PDFSearchDirectoryResult struct {
	Files       []FileInfo `json:"files"`
	TotalCount  int        `json:"total_count"`
	Directory   string     `json:"directory"`
	SearchQuery string     `json:"search_query,omitempty"`
}

// ServerInfoResult represents server information and usage guidance
type ServerInfoResult struct {
	ServerName        string     `json:"server_name"`
	Version           string     `json:"version"`
	DefaultDirectory  string     `json:"default_directory"`
	MaxFileSize       int64      `json:"max_file_size"`
	GraduationCredits float64    `json:"graduation_credits"`
	AvailableTools    []ToolInfo `json:"available_tools"`
	DirectoryContents []FileInfo `json:"directory_contents"`
	UsageGuidance     string     `json:"usage_guidance"`
}

// ToolInfo represents information about an available tool
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Usage       string `json:"usage"`
	Parameters  string `json:"parameters"`
}
