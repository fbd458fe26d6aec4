package pdf

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/creditsum/transcript-analyzer/internal/transcript"
)

// Service orchestrates transcript analysis over PDF files: validation,
// directory discovery, table extraction and the analysis pipeline.
type Service struct {
	maxFileSize       int64
	directory         string
	serverName        string
	version           string
	graduationCredits float64

	validator *Validator
	search    *Search
	extractor *TableExtractor
	analyzer  *transcript.Analyzer
	log       zerolog.Logger
}

// ServiceOptions configures a Service.
type ServiceOptions struct {
	MaxFileSize       int64
	Directory         string
	ServerName        string
	Version           string
	GraduationCredits float64
	PassingFloor      float64
	TableConfig       TableConfig
	MinTableRows      int
}

// NewService creates a transcript analysis service.
func NewService(log zerolog.Logger, opts ServiceOptions) (*Service, error) {
	if opts.MaxFileSize <= 0 {
		return nil, fmt.Errorf("maxFileSize must be greater than 0")
	}

	absDir, err := filepath.Abs(opts.Directory)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve transcript directory: %w", err)
	}

	classifier := transcript.DefaultClassifierConfig()
	if opts.MinTableRows > 0 {
		classifier.MinRows = opts.MinTableRows
	}

	graduation := opts.GraduationCredits
	if graduation <= 0 {
		graduation = transcript.DefaultGraduationCredits
	}

	return &Service{
		maxFileSize:       opts.MaxFileSize,
		directory:         absDir,
		serverName:        opts.ServerName,
		version:           opts.Version,
		graduationCredits: graduation,
		validator:         NewValidator(opts.MaxFileSize),
		search:            NewSearch(opts.MaxFileSize),
		extractor:         NewTableExtractor(log, opts.TableConfig),
		analyzer: transcript.NewAnalyzer(log, transcript.Options{
			GraduationCredits: opts.GraduationCredits,
			PassingFloor:      opts.PassingFloor,
			Classifier:        classifier,
		}),
		log: log,
	}, nil
}

// TranscriptAnalyzeFile extracts the tables of a transcript PDF and
// runs the credit analysis pipeline over them.
func (s *Service) TranscriptAnalyzeFile(req TranscriptAnalyzeFileRequest) (*TranscriptAnalyzeFileResult, error) {
	if err := s.checkFile(req.Path); err != nil {
		return nil, err
	}

	start := time.Now()
	doc, err := s.extractor.ExtractTables(req.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to extract tables from %s: %w", req.Path, err)
	}

	analysis := s.analyzer.Analyze(doc.Tables, transcript.AnalyzeOptions{
		GraduationCredits: req.GraduationCredits,
		GradeOverrides:    req.GradeOverrides,
	})

	s.log.Info().Str("path", req.Path).Int("pages", doc.Pages).
		Dur("elapsed", time.Since(start)).Msg("transcript analyzed")

	return &TranscriptAnalyzeFileResult{
		Path:        req.Path,
		Pages:       doc.Pages,
		TablesFound: analysis.TablesSeen,
		TablesUsed:  analysis.TablesUsed,
		Records:     analysis.Records,
		Summary:     analysis.Summary,
		Warnings:    analysis.Warnings,
	}, nil
}

// TranscriptExportCSV analyzes a transcript PDF and renders the course
// records as a UTF-8 CSV document.
func (s *Service) TranscriptExportCSV(req TranscriptExportCSVRequest) (*TranscriptExportCSVResult, error) {
	analysis, err := s.TranscriptAnalyzeFile(TranscriptAnalyzeFileRequest(req))
	if err != nil {
		return nil, err
	}

	csvBytes, err := transcript.ExportCSV(analysis.Records)
	if err != nil {
		return nil, fmt.Errorf("failed to render CSV for %s: %w", req.Path, err)
	}

	return &TranscriptExportCSVResult{
		Path:        req.Path,
		CSV:         string(csvBytes),
		RecordCount: len(analysis.Records),
	}, nil
}

// PDFValidateFile performs validation on a PDF file
func (s *Service) PDFValidateFile(req PDFValidateFileRequest) (*PDFValidateFileResult, error) {
	return s.validator.ValidateFile(req)
}

// PDFSearchDirectory searches for PDF files in a directory
func (s *Service) PDFSearchDirectory(req PDFSearchDirectoryRequest) (*PDFSearchDirectoryResult, error) {
	// If no directory specified, use configured directory
	if req.Directory == "" {
		req.Directory = s.directory
	}
	return s.search.SearchDirectory(req)
}

// GetMaxFileSize returns the maximum file size limit
func (s *Service) GetMaxFileSize() int64 {
	return s.maxFileSize
}

// IsValidPDF performs a quick validation check on a file
func (s *Service) IsValidPDF(filePath string) bool {
	return s.validator.IsValidPDF(filePath)
}

// CountPDFsInDirectory counts the number of valid PDF files in a directory
func (s *Service) CountPDFsInDirectory(directory string) (int, error) {
	return s.search.CountPDFsInDirectory(directory)
}

// checkFile runs the pre-analysis file checks shared by the analyze
// operations.
func (s *Service) checkFile(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	result, err := s.validator.ValidateFile(PDFValidateFileRequest{Path: path})
	if err != nil {
		return err
	}
	if !result.Valid {
		return fmt.Errorf("invalid transcript PDF: %s", result.Message)
	}
	return nil
}

// ServerInfo returns server information and usage guidance.
func (s *Service) ServerInfo(_ ServerInfoRequest) (*ServerInfoResult, error) {
	// Scan the default directory with a timeout so a slow filesystem
	// cannot hang the tool call. Limit to the first 100 files.
	directoryContents := []FileInfo{}

	resultChan := make(chan []FileInfo, 1)
	errorChan := make(chan error, 1)

	go func() {
		files, err := s.search.FindPDFsInDirectoryLimited(s.directory, 100)
		if err != nil {
			errorChan <- err
			return
		}
		resultChan <- files
	}()

	select {
	case files := <-resultChan:
		directoryContents = files
	case <-errorChan:
		// Don't fail completely if directory scan fails, just return empty contents
	case <-time.After(5 * time.Second):
	}

	availableTools := []ToolInfo{
		{
			Name:        "transcript_analyze_file",
			Description: "Analyze a transcript PDF and compute earned credits, GPA and graduation progress",
			Usage: "Use this tool on a transcript PDF to get the reconstructed course records, " +
				"total passed credits, remaining credits toward graduation and a credit-weighted GPA.",
			Parameters: "path (required): Full absolute path to the PDF file, " +
				"graduation_credits (optional): custom graduation requirement, " +
				"grade_overrides (optional): map of grade token to numeric value",
		},
		{
			Name:        "transcript_export_csv",
			Description: "Analyze a transcript PDF and export the course records as CSV",
			Usage:       "Use this tool to get the reconstructed records in spreadsheet-ready CSV form.",
			Parameters:  "path (required): Full absolute path to the PDF file",
		},
		{
			Name:        "pdf_validate_file",
			Description: "Validate if a file is a readable PDF",
			Usage:       "Use this tool to check if a file is a valid PDF before attempting to analyze it.",
			Parameters:  "path (required): Full absolute path to the PDF file",
		},
		{
			Name:        "pdf_search_directory",
			Description: "Search for PDF files in a directory with optional fuzzy search",
			Usage: "Use this tool to find transcript PDFs in the default directory or any specified " +
				"directory. Supports fuzzy search by filename.",
			Parameters: "directory (optional): Directory path to search (uses default if empty), " +
				"query (optional): Search query for fuzzy matching",
		},
		{
			Name:        "server_info",
			Description: "Get server information, available tools and directory contents",
			Usage:       "Use this tool to discover what the server can do and which files are available.",
			Parameters:  "none",
		},
	}

	usageGuidance := `Transcript Analyzer Usage Guide:

1. START WITH DISCOVERY:
   - Use 'pdf_search_directory' to find available transcript PDFs

2. VALIDATE FILES:
   - Use 'pdf_validate_file' to check if a file is readable before processing

3. ANALYZE:
   - Use 'transcript_analyze_file' to get course records and the credit summary
   - Check 'tables_used' and 'warnings' in the response: zero used tables means
     no grades table was recognized in the document

4. EXPORT:
   - Use 'transcript_export_csv' for a spreadsheet-ready rendition of the records

IMPORTANT NOTES:
- Always use absolute file paths
- The server can handle files up to ` + fmt.Sprintf("%d", s.maxFileSize/(1024*1024)) + `MB
- Scanned transcripts without extractable text cannot be analyzed (no OCR)`

	return &ServerInfoResult{
		ServerName:        s.serverName,
		Version:           s.version,
		DefaultDirectory:  s.directory,
		MaxFileSize:       s.maxFileSize,
		GraduationCredits: s.graduationCredits,
		AvailableTools:    availableTools,
		DirectoryContents: directoryContents,
		UsageGuidance:     usageGuidance,
	}, nil
}
