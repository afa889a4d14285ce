package pdf

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/chrbuchsteiner61/extractEmbedFilePDF/internal/descriptions"
	"github.com/chrbuchsteiner61/extractEmbedFilePDF/internal/pdf/attachments"
	pdferrors "github.com/chrbuchsteiner61/extractEmbedFilePDF/internal/pdf/errors"
	"github.com/chrbuchsteiner61/extractEmbedFilePDF/internal/pdf/security"
)

// Service handles PDF file operations by orchestrating the validator, the
// analyzer and the path checks
type Service struct {
	maxFileSize     int64
	extraction      attachments.ExtractorConfig
	validator       *Validator
	pathValidator   *security.PathValidator
	outputValidator *security.PathValidator
	logger          *slog.Logger
}

// NewService creates a new PDF service. PDFs are read from configuredDirectory;
// extracted files are written below extraction.OutputDirectory when it is set.
func NewService(maxFileSize int64, configuredDirectory string, extraction attachments.ExtractorConfig,
	logger *slog.Logger,
) (*Service, error) {
	pathValidator, err := security.NewPathValidator(configuredDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	var outputValidator *security.PathValidator
	if extraction.OutputDirectory != "" {
		outputValidator, err = security.NewPathValidator(extraction.OutputDirectory)
		if err != nil {
			return nil, fmt.Errorf("failed to create output path validator: %w", err)
		}
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Service{
		maxFileSize:     maxFileSize,
		extraction:      extraction,
		validator:       NewValidator(maxFileSize),
		pathValidator:   pathValidator,
		outputValidator: outputValidator,
		logger:          logger,
	}, nil
}

// resolve confines a requested PDF path to the PDF directory. Relative
// paths are taken relative to it.
func (s *Service) resolve(path string) (string, error) {
	resolved, err := s.pathValidator.Resolve(path)
	if err != nil {
		return "", fmt.Errorf("security validation failed: %w", err)
	}
	return resolved, nil
}

// open runs the security and pre-flight checks and parses the document
func (s *Service) open(path string, config attachments.ExtractorConfig) (*Analyzer, error) {
	resolved, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Preflight(resolved); err != nil {
		return nil, err
	}
	return Open(resolved, WithConfig(config), WithLogger(s.logger.With("path", resolved)))
}

// PDFValidateFile performs validation on a PDF file
func (s *Service) PDFValidateFile(req PDFValidateFileRequest) (*PDFValidateFileResult, error) {
	resolved, err := s.resolve(req.Path)
	if err != nil {
		return nil, err
	}
	result, err := s.validator.ValidateFile(PDFValidateFileRequest{Path: resolved})
	if err != nil {
		return nil, err
	}
	result.Path = req.Path
	return result, nil
}

// PDFCheckConformance reports the declared PDF/A identification. A document
// without readable XMP, or a strict-mode rejection, is reported in Message.
func (s *Service) PDFCheckConformance(req PDFConformanceRequest) (*PDFConformanceResult, error) {
	analyzer, err := s.open(req.Path, s.extraction)
	if err != nil {
		return nil, err
	}

	result := &PDFConformanceResult{
		Path:     req.Path,
		Strict:   s.extraction.StrictPDFA3Validation,
		Summary:  analyzer.ConformanceSummary(),
		HasFiles: analyzer.HasEmbeddedFiles(),
	}

	ok, err := analyzer.IsPDFA3()
	if err != nil {
		result.Message = err.Error()
	}
	result.PDFA3 = ok

	if level, found := analyzer.ConformanceLevel(); found {
		result.Level = level
	}

	return result, nil
}

// PDFListAttachments decodes the embedded files of a document and describes
// those that match the filter
func (s *Service) PDFListAttachments(req PDFListAttachmentsRequest) (*PDFListAttachmentsResult, error) {
	config := s.extraction
	config.ExtractToDisk = false

	analyzer, err := s.open(req.Path, config)
	if err != nil {
		return nil, err
	}

	result := &PDFListAttachmentsResult{
		Path:        req.Path,
		Attachments: []AttachmentInfo{},
	}

	// A document without attachments is an empty listing, not a failure
	files, err := analyzer.ExtractEmbeddedFiles()
	result.Skipped = diagnosticLines(analyzer.Diagnostics())
	if stderrors.Is(err, pdferrors.ErrNoEmbeddedFiles) {
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	for _, file := range req.Filter.Apply(files) {
		result.Attachments = append(result.Attachments, attachmentInfo(&file, ""))
		result.TotalSize += file.Size()
	}
	result.TotalCount = len(result.Attachments)

	return result, nil
}

// PDFExtractAttachments extracts the embedded files of a document. Files are
// written to the requested directory, or to the configured output directory
// when writing to disk is enabled. The target must lie inside the configured
// output directory.
func (s *Service) PDFExtractAttachments(req PDFExtractAttachmentsRequest) (*PDFExtractAttachmentsResult, error) {
	outDir, err := s.outputDirectory(req.OutputDirectory)
	if err != nil {
		return nil, err
	}

	// Without a filter the extractor writes the files itself; with one, only
	// the matching files are written afterwards
	config := s.extraction
	config.OutputDirectory = outDir
	config.ExtractToDisk = outDir != "" && req.Filter.IsEmpty()

	analyzer, err := s.open(req.Path, config)
	if err != nil {
		return nil, err
	}

	files, err := analyzer.ExtractEmbeddedFiles()
	if err != nil {
		return nil, err
	}

	result := &PDFExtractAttachmentsResult{
		Path:            req.Path,
		OutputDirectory: outDir,
		Attachments:     []AttachmentInfo{},
		Skipped:         diagnosticLines(analyzer.Diagnostics()),
	}

	for _, file := range req.Filter.Apply(files) {
		savedPath := ""
		if outDir != "" {
			if !config.ExtractToDisk {
				if err := file.Save(outDir); err != nil {
					return nil, err
				}
			}
			savedPath = filepath.Join(outDir, file.Filename)
		}
		result.Attachments = append(result.Attachments, attachmentInfo(&file, savedPath))
		result.TotalSize += file.Size()
	}
	result.TotalCount = len(result.Attachments)

	return result, nil
}

// outputDirectory resolves the directory an extraction writes to. An empty
// request falls back to the configured directory if writing is enabled.
func (s *Service) outputDirectory(requested string) (string, error) {
	if requested == "" {
		if s.extraction.ExtractToDisk {
			return s.extraction.OutputDirectory, nil
		}
		return "", nil
	}

	if s.outputValidator == nil {
		return "", fmt.Errorf("security validation failed: no output directory configured")
	}

	resolved, err := s.outputValidator.Resolve(requested)
	if err != nil {
		return "", fmt.Errorf("security validation failed: %w", err)
	}
	if err := s.outputValidator.ValidateDirectory(resolved); err != nil {
		return "", fmt.Errorf("security validation failed: %w", err)
	}
	return resolved, nil
}

// PDFServerInfo returns server information and usage guidance
func (s *Service) PDFServerInfo(req PDFServerInfoRequest, serverName, version,
	defaultDirectory string,
) (*PDFServerInfoResult, error) {
	// Validate the default directory is within bounds
	validatedDir := defaultDirectory
	if err := s.pathValidator.ValidateDirectory(defaultDirectory); err != nil {
		// Use the configured directory if validation fails
		validatedDir = s.pathValidator.Root()
	}

	// Directory listing is best effort and bounded in time
	directoryContents := []FileInfo{}
	resultChan := make(chan []FileInfo, 1)
	go func() {
		resultChan <- listPDFs(validatedDir, 100)
	}()
	select {
	case files := <-resultChan:
		directoryContents = files
	case <-time.After(5 * time.Second):
	}

	availableTools := make([]ToolInfo, 0, len(descriptions.GetAllToolNames()))
	for _, name := range descriptions.GetAllToolNames() {
		availableTools = append(availableTools, ToolInfo{
			Name:        name,
			Description: descriptions.GetToolSummary(name),
			Usage:       descriptions.GetToolUsage(name),
			Parameters:  descriptions.GetToolParameters(name),
		})
	}

	usageGuidance := `PDF/A-3 Attachment Server Usage Guide:

1. VALIDATE FILES:
   - Use 'pdf_validate_file' to check that a file is a readable PDF

2. CHECK CONFORMANCE:
   - Use 'pdf_check_pdfa3' to read the PDF/A identification from the XMP metadata
   - Hybrid invoices (ZUGFeRD, Factur-X, XRechnung) are PDF/A-3 documents

3. LIST AND EXTRACT ATTACHMENTS:
   - Use 'pdf_list_attachments' to see embedded files with sizes, MIME types and dates
   - Use 'pdf_extract_attachments' to write them to the output directory
   - Filter by extension, MIME type or the xml shorthand

IMPORTANT NOTES:
- Relative file paths are resolved against the default directory
- The server can handle PDFs up to ` + fmt.Sprintf("%d", s.maxFileSize/(1024*1024)) + `MB
- A single embedded file above the embedded size limit fails the whole request
- Attachments that cannot be decoded are skipped and reported under 'skipped'`

	return &PDFServerInfoResult{
		ServerName:          serverName,
		Version:             version,
		DefaultDirectory:    validatedDir,
		OutputDirectory:     s.extraction.OutputDirectory,
		MaxFileSize:         s.maxFileSize,
		MaxEmbeddedFileSize: s.extraction.MaxEmbeddedFileSize,
		StrictPDFA3:         s.extraction.StrictPDFA3Validation,
		AvailableTools:      availableTools,
		DirectoryContents:   directoryContents,
		UsageGuidance:       usageGuidance,
	}, nil
}

// GetMaxFileSize returns the maximum file size limit
func (s *Service) GetMaxFileSize() int64 {
	return s.maxFileSize
}

// IsValidPDF performs a quick validation check on a file
func (s *Service) IsValidPDF(filePath string) bool {
	return s.validator.IsValidPDF(filePath)
}

// ValidateConfiguration validates the service configuration
func (s *Service) ValidateConfiguration() error {
	if s.maxFileSize <= 0 {
		return fmt.Errorf("maxFileSize must be greater than 0")
	}

	if s.maxFileSize > 1024*1024*1024 { // 1GB limit
		return fmt.Errorf("maxFileSize cannot exceed 1GB")
	}

	if s.extraction.MaxEmbeddedFileSize < 0 {
		return fmt.Errorf("maxEmbeddedFileSize cannot be negative")
	}

	return nil
}

// listPDFs returns up to limit PDF files directly inside dir, sorted by name
func listPDFs(dir string, limit int) []FileInfo {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return []FileInfo{}
	}

	files := []FileInfo{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:         filepath.Join(dir, entry.Name()),
			Name:         entry.Name(),
			Size:         info.Size(),
			ModifiedTime: info.ModTime().Format(time.RFC3339),
		})
		if limit > 0 && len(files) >= limit {
			break
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files
}

func attachmentInfo(file *attachments.EmbeddedFile, savedPath string) AttachmentInfo {
	info := AttachmentInfo{
		Filename:     file.Filename,
		Size:         file.Size(),
		DeclaredSize: file.Metadata.Size,
		SavedPath:    savedPath,
	}
	m := file.Metadata
	if m.MIMEType != nil {
		info.MIMEType = *m.MIMEType
	}
	if m.Description != nil {
		info.Description = *m.Description
	}
	if m.CreationDate != nil {
		info.CreationDate = *m.CreationDate
	}
	if m.ModificationDate != nil {
		info.ModificationDate = *m.ModificationDate
	}
	if m.Checksum != nil {
		info.Checksum = *m.Checksum
	}
	if m.Relationship != nil {
		info.Relationship = *m.Relationship
	}
	return info
}

func diagnosticLines(diags []attachments.Diagnostic) []string {
	if len(diags) == 0 {
		return nil
	}
	lines := make([]string, 0, len(diags))
	for _, d := range diags {
		lines = append(lines, d.String())
	}
	return lines
}
