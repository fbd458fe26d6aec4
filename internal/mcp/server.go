package mcp

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/creditsum/transcript-analyzer/internal/config"
	"github.com/creditsum/transcript-analyzer/internal/pdf"
)

// Server represents the MCP server instance
type Server struct {
	config     *config.Config
	pdfService *pdf.Service
	mcpServer  *server.MCPServer
	log        zerolog.Logger
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, pdfService *pdf.Service, log zerolog.Logger) (*Server, error) {
	if pdfService == nil {
		return nil, fmt.Errorf("pdfService cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:     cfg,
		pdfService: pdfService,
		mcpServer:  mcpServer,
		log:        log,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	analyzeTool := mcp.NewTool(
		"transcript_analyze_file",
		mcp.WithDescription("Analyze a transcript PDF and compute earned credits, GPA and graduation progress"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the transcript PDF file"),
		),
		mcp.WithNumber("graduation_credits",
			mcp.Description("Credit-hours required for graduation (uses server default if omitted)"),
		),
		mcp.WithObject("grade_overrides",
			mcp.Description("Map of grade token to numeric value, overriding the default grade mapping"),
		),
	)
	s.mcpServer.AddTool(analyzeTool, s.handleTranscriptAnalyzeFile)

	exportTool := mcp.NewTool(
		"transcript_export_csv",
		mcp.WithDescription("Analyze a transcript PDF and export the course records as CSV"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the transcript PDF file"),
		),
		mcp.WithNumber("graduation_credits",
			mcp.Description("Credit-hours required for graduation (uses server default if omitted)"),
		),
	)
	s.mcpServer.AddTool(exportTool, s.handleTranscriptExportCSV)

	validateTool := mcp.NewTool(
		"pdf_validate_file",
		mcp.WithDescription("Validate if a file is a readable PDF"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(validateTool, s.handlePDFValidateFile)

	searchTool := mcp.NewTool(
		"pdf_search_directory",
		mcp.WithDescription("Search for PDF files in a directory with optional fuzzy search"),
		mcp.WithString("directory",
			mcp.Description("Directory path to search (uses default if empty)"),
		),
		mcp.WithString("query",
			mcp.Description("Optional search query for fuzzy matching"),
		),
	)
	s.mcpServer.AddTool(searchTool, s.handlePDFSearchDirectory)

	infoTool := mcp.NewTool(
		"server_info",
		mcp.WithDescription("Get server information, available tools, directory contents, and usage guidance"),
	)
	s.mcpServer.AddTool(infoTool, s.handleServerInfo)
}

// Handler functions

func (s *Server) handleTranscriptAnalyzeFile(_ context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	req, err := s.parseAnalyzeRequest(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.TranscriptAnalyzeFile(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatAnalyzeResult(result)), nil
}

func (s *Server) handleTranscriptExportCSV(_ context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	req, err := s.parseAnalyzeRequest(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.TranscriptExportCSV(pdf.TranscriptExportCSVRequest(req))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Exported %d course record(s) from %s\n\n%s",
		result.RecordCount, result.Path, result.CSV)
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handlePDFValidateFile(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.PDFValidateFile(pdf.PDFValidateFileRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.Valid {
		responseText = fmt.Sprintf("PDF file %s is valid and readable", result.Path)
	} else {
		responseText = fmt.Sprintf("PDF validation failed for %s: %s", result.Path, result.Message)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handlePDFSearchDirectory(_ context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	args := request.GetArguments()

	directory := s.config.TranscriptDirectory // default
	if dir, ok := args["directory"].(string); ok && dir != "" {
		directory = dir
	}

	query := ""
	if q, ok := args["query"].(string); ok {
		query = q
	}

	result, err := s.pdfService.PDFSearchDirectory(pdf.PDFSearchDirectoryRequest{
		Directory: directory,
		Query:     query,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.TotalCount == 0 {
		responseText = fmt.Sprintf("No PDF files found in directory: %s", result.Directory)
		if result.SearchQuery != "" {
			responseText += fmt.Sprintf(" (searched for: %s)", result.SearchQuery)
		}
	} else {
		responseText = s.formatSearchDirectoryResult(result)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleServerInfo(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.pdfService.ServerInfo(pdf.ServerInfoRequest{})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatServerInfoResult(result)), nil
}

// parseAnalyzeRequest extracts the shared analyze arguments from a tool
// call.
func (s *Server) parseAnalyzeRequest(request mcp.CallToolRequest) (pdf.TranscriptAnalyzeFileRequest, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return pdf.TranscriptAnalyzeFileRequest{}, err
	}

	req := pdf.TranscriptAnalyzeFileRequest{Path: path}
	args := request.GetArguments()

	if v, ok := args["graduation_credits"].(float64); ok && v > 0 {
		req.GraduationCredits = v
	}

	if raw, ok := args["grade_overrides"].(map[string]interface{}); ok && len(raw) > 0 {
		overrides := make(map[string]float64, len(raw))
		for token, value := range raw {
			switch v := value.(type) {
			case float64:
				overrides[token] = v
			case string:
				parsed, err := strconv.ParseFloat(v, 64)
				if err != nil {
					return pdf.TranscriptAnalyzeFileRequest{},
						fmt.Errorf("invalid grade override for %q: %s", token, v)
				}
				overrides[token] = parsed
			default:
				return pdf.TranscriptAnalyzeFileRequest{},
					fmt.Errorf("invalid grade override for %q", token)
			}
		}
		req.GradeOverrides = overrides
	}

	return req, nil
}

// Formatting methods

func (s *Server) formatAnalyzeResult(result *pdf.TranscriptAnalyzeFileResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Transcript analysis for: %s\n", result.Path)
	fmt.Fprintf(&b, "Pages: %d\n", result.Pages)
	fmt.Fprintf(&b, "Tables: %d found, %d recognized as grades tables\n",
		result.TablesFound, result.TablesUsed)

	for _, warning := range result.Warnings {
		fmt.Fprintf(&b, "Warning: %s\n", warning)
	}

	summary := result.Summary
	b.WriteString("\nSummary:\n")
	fmt.Fprintf(&b, "  Earned credits: %s\n", formatCredits(summary.TotalCredits))
	fmt.Fprintf(&b, "  Graduation requirement: %s\n", formatCredits(summary.GraduationCredits))
	fmt.Fprintf(&b, "  Remaining credits: %s\n", formatCredits(summary.RemainingCredits))
	fmt.Fprintf(&b, "  GPA: %.2f\n", summary.GPA)
	fmt.Fprintf(&b, "  Courses passed: %d, failed: %d\n", len(summary.Passed), len(summary.Failed))

	if len(summary.Failed) > 0 {
		b.WriteString("\nFailed courses:\n")
		for _, rec := range summary.Failed {
			fmt.Fprintf(&b, "  %s %s %s (%s credits, grade %s)\n",
				rec.AcademicYear, rec.Semester, rec.CourseName,
				formatCredits(rec.Credits), rec.Grade)
		}
	}

	if len(result.Records) > 0 {
		b.WriteString("\nRecords:\n")
		for i, rec := range result.Records {
			fmt.Fprintf(&b, "%d. %s %s %s - %s credits, grade %s\n",
				i+1, rec.AcademicYear, rec.Semester, rec.CourseName,
				formatCredits(rec.Credits), rec.Grade)
		}
	}

	return b.String()
}

func (s *Server) formatSearchDirectoryResult(result *pdf.PDFSearchDirectoryResult) string {
	text := fmt.Sprintf("Found %d PDF file(s) in directory: %s\n", result.TotalCount, result.Directory)
	if result.SearchQuery != "" {
		text += fmt.Sprintf("Search query: %s\n", result.SearchQuery)
	}
	text += "\nFiles:\n"

	for i, file := range result.Files {
		text += fmt.Sprintf("%d. %s\n", i+1, file.Name)
		text += fmt.Sprintf("   Path: %s\n", file.Path)
		text += fmt.Sprintf("   Size: %d bytes\n", file.Size)
		text += fmt.Sprintf("   Modified: %s\n", file.ModifiedTime)
		if i < len(result.Files)-1 {
			text += "\n"
		}
	}

	return text
}

func (s *Server) formatServerInfoResult(result *pdf.ServerInfoResult) string {
	text := fmt.Sprintf("%s v%s - Server Information\n", result.ServerName, result.Version)
	text += fmt.Sprintf("Default Directory: %s\n", result.DefaultDirectory)
	text += fmt.Sprintf("Max File Size: %d MB\n", result.MaxFileSize/(1024*1024))
	text += fmt.Sprintf("Graduation Requirement: %s credits\n\n", formatCredits(result.GraduationCredits))

	if len(result.DirectoryContents) > 0 {
		text += fmt.Sprintf("Directory Contents (%d PDF files found):\n", len(result.DirectoryContents))
		for i, file := range result.DirectoryContents {
			if i >= 10 { // Limit to first 10 files for readability
				text += fmt.Sprintf("   ... and %d more files\n", len(result.DirectoryContents)-10)
				break
			}
			text += fmt.Sprintf("   %d. %s (%d bytes)\n", i+1, file.Name, file.Size)
		}
		text += "\n"
	} else {
		text += "Directory Contents: No PDF files found in default directory\n\n"
	}

	text += "Available Tools:\n"
	for _, tool := range result.AvailableTools {
		text += fmt.Sprintf("\n• %s\n", tool.Name)
		text += fmt.Sprintf("  Description: %s\n", tool.Description)
		text += fmt.Sprintf("  Usage: %s\n", tool.Usage)
		text += fmt.Sprintf("  Parameters: %s\n", tool.Parameters)
	}

	text += "\n" + result.UsageGuidance

	return text
}

func formatCredits(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Run starts the MCP server over standard I/O. HTTP mode is handled by
// the httpserver package, not here.
func (s *Server) Run(_ context.Context) error {
	s.log.Debug().Str("dir", s.config.TranscriptDirectory).Msg("starting MCP server in stdio mode")

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
