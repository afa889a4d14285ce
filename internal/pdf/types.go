package pdf

// FileInfo represents information about a PDF file
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// AttachmentInfo describes one embedded file in listings and extraction results
type AttachmentInfo struct {
	Filename         string `json:"filename"`
	Size             int64  `json:"size"`
	DeclaredSize     *int64 `json:"declared_size,omitempty"`
	MIMEType         string `json:"mime_type,omitempty"`
	Description      string `json:"description,omitempty"`
	CreationDate     string `json:"creation_date,omitempty"`
	ModificationDate string `json:"modification_date,omitempty"`
	Checksum         string `json:"checksum,omitempty"`
	Relationship     string `json:"relationship,omitempty"`
	SavedPath        string `json:"saved_path,omitempty"`
}

// Request Types

// PDFValidateFileRequest represents a request to validate a PDF file
type PDFValidateFileRequest struct {
	Path string `json:"path"`
}

// PDFConformanceRequest represents a request to check PDF/A conformance
type PDFConformanceRequest struct {
	Path string `json:"path"`
}

// PDFListAttachmentsRequest represents a request to list embedded files
type PDFListAttachmentsRequest struct {
	Path   string           `json:"path"`
	Filter AttachmentFilter `json:"filter"`
}

// PDFExtractAttachmentsRequest represents a request to extract embedded files.
// With an empty OutputDirectory nothing is written to disk.
type PDFExtractAttachmentsRequest struct {
	Path            string           `json:"path"`
	OutputDirectory string           `json:"output_directory,omitempty"`
	Filter          AttachmentFilter `json:"filter"`
}

// PDFServerInfoRequest represents a request to get server information and capabilities
type PDFServerInfoRequest struct {
	// No parameters needed for server info
}

// Response Types

// PDFValidateFileResult represents the result of a PDF validation operation
type PDFValidateFileResult struct {
	Valid   bool   `json:"valid"`
	Path    string `json:"path"`
	Pages   int    `json:"pages,omitempty"`
	Message string `json:"message,omitempty"`
}

// PDFConformanceResult reports the declared PDF/A identification
type PDFConformanceResult struct {
	Path     string `json:"path"`
	PDFA3    bool   `json:"pdfa3"`
	Level    string `json:"level,omitempty"`
	Summary  string `json:"summary"`
	Strict   bool   `json:"strict"`
	Message  string `json:"message,omitempty"`
	HasFiles bool   `json:"has_embedded_files"`
}

// PDFListAttachmentsResult lists the embedded files of a document
type PDFListAttachmentsResult struct {
	Path        string           `json:"path"`
	Attachments []AttachmentInfo `json:"attachments"`
	TotalCount  int              `json:"total_count"`
	TotalSize   int64            `json:"total_size"`
	Skipped     []string         `json:"skipped,omitempty"`
}

// PDFExtractAttachmentsResult reports an extraction run
type PDFExtractAttachmentsResult struct {
	Path            string           `json:"path"`
	OutputDirectory string           `json:"output_directory,omitempty"`
	Attachments     []AttachmentInfo `json:"attachments"`
	TotalCount      int              `json:"total_count"`
	TotalSize       int64            `json:"total_size"`
	Skipped         []string         `json:"skipped,omitempty"`
}

// PDFServerInfoResult represents server information and usage guidance
type PDFServerInfoResult struct {
	ServerName          string     `json:"server_name"`
	Version             string     `json:"version"`
	DefaultDirectory    string     `json:"default_directory"`
	OutputDirectory     string     `json:"output_directory,omitempty"`
	MaxFileSize         int64      `json:"max_file_size"`
	MaxEmbeddedFileSize int64      `json:"max_embedded_file_size"`
	StrictPDFA3         bool       `json:"strict_pdfa3"`
	AvailableTools      []ToolInfo `json:"available_tools"`
	DirectoryContents   []FileInfo `json:"directory_contents"`
	UsageGuidance       string     `json:"usage_guidance"`
}

// ToolInfo represents information about an available tool
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Usage       string `json:"usage"`
	Parameters  string `json:"parameters"`
}
