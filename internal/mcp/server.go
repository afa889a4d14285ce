package mcp

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/chrbuchsteiner61/extractEmbedFilePDF/internal/config"
	"github.com/chrbuchsteiner61/extractEmbedFilePDF/internal/descriptions"
	"github.com/chrbuchsteiner61/extractEmbedFilePDF/internal/pdf"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const shutdownTimeout = 5 * time.Second

// Server represents the MCP server instance
type Server struct {
	config     *config.Config
	pdfService *pdf.Service
	mcpServer  *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, pdfService *pdf.Service) (*Server, error) {
	if pdfService == nil {
		return nil, fmt.Errorf("pdfService cannot be nil")
	}

	// Create MCP server
	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:     cfg,
		pdfService: pdfService,
		mcpServer:  mcpServer,
	}

	// Register tools
	s.registerTools()

	return s, nil
}

// filterOptions are the arguments shared by the attachment tools
func filterOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("extension",
			mcp.Description("Only attachments with this file extension, e.g. 'xml' (case-insensitive)"),
		),
		mcp.WithString("mime_type",
			mcp.Description("Only attachments with this MIME type, e.g. 'text/xml'"),
		),
		mcp.WithBoolean("xml",
			mcp.Description("Only XML attachments (by extension or MIME type); overrides the other filters"),
		),
	}
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	pathArg := mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Path to the PDF file, absolute or relative to the PDF directory"),
	)

	pdfServerInfoTool := mcp.NewTool(
		"pdf_server_info",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_server_info")),
	)
	s.mcpServer.AddTool(pdfServerInfoTool, s.handlePDFServerInfo)

	pdfValidateFileTool := mcp.NewTool(
		"pdf_validate_file",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_validate_file")),
		pathArg,
	)
	s.mcpServer.AddTool(pdfValidateFileTool, s.handlePDFValidateFile)

	pdfCheckTool := mcp.NewTool(
		"pdf_check_pdfa3",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_check_pdfa3")),
		pathArg,
	)
	s.mcpServer.AddTool(pdfCheckTool, s.handlePDFCheckPDFA3)

	listOpts := append([]mcp.ToolOption{
		mcp.WithDescription(descriptions.GetToolDescription("pdf_list_attachments")),
		pathArg,
	}, filterOptions()...)
	s.mcpServer.AddTool(mcp.NewTool("pdf_list_attachments", listOpts...), s.handlePDFListAttachments)

	extractOpts := append([]mcp.ToolOption{
		mcp.WithDescription(descriptions.GetToolDescription("pdf_extract_attachments")),
		pathArg,
		mcp.WithString("output_directory",
			mcp.Description("Directory to write to, relative to or inside the configured output directory"),
		),
	}, filterOptions()...)
	s.mcpServer.AddTool(mcp.NewTool("pdf_extract_attachments", extractOpts...), s.handlePDFExtractAttachments)
}

// filterFromArgs reads the optional filter arguments
func filterFromArgs(args map[string]any) pdf.AttachmentFilter {
	var filter pdf.AttachmentFilter
	if ext, ok := args["extension"].(string); ok {
		filter.Extension = ext
	}
	if mime, ok := args["mime_type"].(string); ok {
		filter.MIMEType = mime
	}
	if xml, ok := args["xml"].(bool); ok {
		filter.XML = xml
	}
	return filter
}

// Handler functions
func (s *Server) handlePDFValidateFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := pdf.PDFValidateFileRequest{Path: path}
	result, err := s.pdfService.PDFValidateFile(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.Valid {
		responseText = fmt.Sprintf("PDF file %s is valid and readable (%d pages)", result.Path, result.Pages)
	} else {
		responseText = fmt.Sprintf("PDF validation failed for %s: %s", result.Path, result.Message)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handlePDFCheckPDFA3(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.PDFCheckConformance(pdf.PDFConformanceRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatPDFConformanceResult(result)), nil
}

func (s *Server) handlePDFListAttachments(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := pdf.PDFListAttachmentsRequest{
		Path:   path,
		Filter: filterFromArgs(request.GetArguments()),
	}
	result, err := s.pdfService.PDFListAttachments(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.TotalCount == 0 {
		responseText = fmt.Sprintf("No embedded files found in: %s\n", result.Path)
		responseText += formatSkipped(result.Skipped)
	} else {
		responseText = fmt.Sprintf("Found %d embedded file(s) in: %s\n", result.TotalCount, result.Path)
		responseText += fmt.Sprintf("Total size: %d bytes\n\n", result.TotalSize)
		responseText += formatAttachments(result.Attachments)
		responseText += formatSkipped(result.Skipped)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handlePDFExtractAttachments(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()
	outputDirectory := ""
	if dir, ok := args["output_directory"].(string); ok {
		outputDirectory = dir
	}

	req := pdf.PDFExtractAttachmentsRequest{
		Path:            path,
		OutputDirectory: outputDirectory,
		Filter:          filterFromArgs(args),
	}
	result, err := s.pdfService.PDFExtractAttachments(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Extracted %d embedded file(s) from: %s\n", result.TotalCount, result.Path)
	if result.OutputDirectory != "" {
		responseText += fmt.Sprintf("Written to: %s\n", result.OutputDirectory)
	} else {
		responseText += "Not written to disk (no output directory)\n"
	}
	responseText += fmt.Sprintf("Total size: %d bytes\n\n", result.TotalSize)
	responseText += formatAttachments(result.Attachments)
	responseText += formatSkipped(result.Skipped)

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handlePDFServerInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req := pdf.PDFServerInfoRequest{}
	result, err := s.pdfService.PDFServerInfo(req, s.config.ServerName, s.config.Version, s.config.PDFDirectory)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := s.formatPDFServerInfoResult(result)
	return mcp.NewToolResultText(responseText), nil
}

// Formatting methods
func (s *Server) formatPDFConformanceResult(result *pdf.PDFConformanceResult) string {
	text := fmt.Sprintf("PDF/A conformance for: %s\n", result.Path)
	if result.Level != "" {
		text += fmt.Sprintf("Declared level: %s\n", result.Level)
	} else {
		text += "Declared level: none\n"
	}
	text += fmt.Sprintf("Summary: %s\n", result.Summary)
	text += fmt.Sprintf("PDF/A-3: %t\n", result.PDFA3)
	text += fmt.Sprintf("Strict mode: %t\n", result.Strict)
	text += fmt.Sprintf("Has embedded files: %t\n", result.HasFiles)
	if result.Message != "" {
		text += fmt.Sprintf("Note: %s\n", result.Message)
	}
	return text
}

func formatAttachments(attachments []pdf.AttachmentInfo) string {
	var b strings.Builder
	for i, a := range attachments {
		fmt.Fprintf(&b, "%d. %s\n", i+1, a.Filename)
		fmt.Fprintf(&b, "   Size: %d bytes", a.Size)
		if a.DeclaredSize != nil && *a.DeclaredSize != a.Size {
			fmt.Fprintf(&b, " (declared: %d bytes)", *a.DeclaredSize)
		}
		b.WriteString("\n")
		if a.MIMEType != "" {
			fmt.Fprintf(&b, "   MIME type: %s\n", a.MIMEType)
		}
		if a.Description != "" {
			fmt.Fprintf(&b, "   Description: %s\n", a.Description)
		}
		if a.Relationship != "" {
			fmt.Fprintf(&b, "   Relationship: %s\n", a.Relationship)
		}
		if a.CreationDate != "" {
			fmt.Fprintf(&b, "   Created: %s\n", a.CreationDate)
		}
		if a.ModificationDate != "" {
			fmt.Fprintf(&b, "   Modified: %s\n", a.ModificationDate)
		}
		if a.Checksum != "" {
			fmt.Fprintf(&b, "   Checksum (MD5): %s\n", a.Checksum)
		}
		if a.SavedPath != "" {
			fmt.Fprintf(&b, "   Saved as: %s\n", a.SavedPath)
		}
	}
	return b.String()
}

func formatSkipped(skipped []string) string {
	if len(skipped) == 0 {
		return ""
	}
	text := fmt.Sprintf("\n⚠️  Skipped %d damaged entries:\n", len(skipped))
	for _, line := range skipped {
		text += fmt.Sprintf("   - %s\n", line)
	}
	return text
}

func (s *Server) formatPDFServerInfoResult(result *pdf.PDFServerInfoResult) string {
	text := fmt.Sprintf("📋 %s v%s - Server Information\n", result.ServerName, result.Version)
	text += fmt.Sprintf("📁 Default Directory: %s\n", result.DefaultDirectory)
	if result.OutputDirectory != "" {
		text += fmt.Sprintf("📤 Output Directory: %s\n", result.OutputDirectory)
	} else {
		text += "📤 Output Directory: not configured (extraction stays in memory)\n"
	}
	text += fmt.Sprintf("📏 Max File Size: %d MB\n", result.MaxFileSize/(1024*1024))
	if result.MaxEmbeddedFileSize > 0 {
		text += fmt.Sprintf("📎 Max Embedded File Size: %d bytes\n", result.MaxEmbeddedFileSize)
	} else {
		text += "📎 Max Embedded File Size: unlimited\n"
	}
	text += fmt.Sprintf("🔒 Strict PDF/A-3: %t\n\n", result.StrictPDFA3)

	// Directory contents
	if len(result.DirectoryContents) > 0 {
		text += fmt.Sprintf("📂 Directory Contents (%d PDF files found):\n", len(result.DirectoryContents))
		for i, file := range result.DirectoryContents {
			if i >= 10 { // Limit to first 10 files for readability
				text += fmt.Sprintf("   ... and %d more files\n", len(result.DirectoryContents)-10)
				break
			}
			text += fmt.Sprintf("   %d. %s (%d bytes)\n", i+1, file.Name, file.Size)
		}
		text += "\n"
	} else {
		text += "📂 Directory Contents: No PDF files found in default directory\n\n"
	}

	// Available tools
	text += "🛠️  Available Tools:\n"
	for _, tool := range result.AvailableTools {
		text += fmt.Sprintf("\n• %s\n", tool.Name)
		text += fmt.Sprintf("  Description: %s\n", tool.Description)
		text += fmt.Sprintf("  Usage: %s\n", tool.Usage)
		text += fmt.Sprintf("  Parameters: %s\n", tool.Parameters)
	}

	// Usage guidance
	text += "\n" + result.UsageGuidance

	return text
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	switch {
	case s.config.IsServerMode():
		return s.runServerMode(ctx)
	case s.config.IsStdioMode():
		return s.runStdioMode(ctx)
	default:
		return fmt.Errorf("unsupported mode: %s", s.config.Mode)
	}
}

// runStdioMode runs the server in stdio mode
func (s *Server) runStdioMode(_ context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting PDF/A-3 MCP server in stdio mode")
		log.Printf("PDF directory: %s", s.config.PDFDirectory)
	}

	// Use the mark3labs/mcp-go server.ServeStdio function
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode serves MCP over HTTP with server-sent events until ctx is done
func (s *Server) runServerMode(ctx context.Context) error {
	addr := s.config.Address()
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL("http://"+addr))

	log.Printf("Starting PDF/A-3 MCP server on %s", addr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- sseServer.Start(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve http: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := sseServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down http server: %w", err)
		}
		return ctx.Err()
	}
}
