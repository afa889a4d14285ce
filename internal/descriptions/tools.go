package descriptions

import "strings"

// Tool descriptions with practical examples and use cases

const (
	PDFValidateFileDescription = `Verify PDF file integrity and readability before processing.

**When to use:** Before checking conformance or extracting attachments, especially in automated workflows or when handling uploaded invoices.

**Why it's useful:** Identifies corrupted or truncated files early. The file is opened by two independent parsers, so damage that only one of them tolerates is reported.

**Examples:**
• Batch processing safety: "Validate all PDFs in /invoices/ before extracting their XML"
• Upload verification: "Check the uploaded rechnung-4711.pdf is a readable PDF"

**Common workflows:**
1. Invoice intake: Validate → pdf_check_pdfa3 → pdf_extract_attachments
2. Quality control: Validate → Report issues → Reject bad files

**Best practices:** Run this first on unknown files; the message field explains why a file was rejected.`

	PDFCheckPDFA3Description = `Read the PDF/A identification declared in the document's XMP metadata.

**When to use:** Need to know whether a document claims PDF/A-3 conformance, for example before accepting a ZUGFeRD, Factur-X or XRechnung hybrid invoice.

**Why it's useful:** PDF/A-3 is the only PDF/A part that allows arbitrary embedded files. The declared level (A, B or U) is reported even for PDF/A-1 and PDF/A-2 documents.

**Examples:**
• Invoice acceptance: "Is invoice-2024-001.pdf a PDF/A-3 document?"
• Archive audit: "Which conformance level does contract.pdf declare?"

**Common workflows:**
1. Hybrid invoice processing: pdf_check_pdfa3 → if pdfa3 → pdf_extract_attachments with xml filter
2. Archive intake: Check conformance → Route non-conforming files to manual review

**Best practices:** This reads the declaration only, it does not verify the document against the PDF/A rules. In strict mode a missing declaration is reported in the message field.`

	PDFListAttachmentsDescription = `List the files embedded in a PDF with name, size, MIME type, description and dates.

**When to use:** Need to see what a document carries before extracting anything, or need attachment metadata only.

**Why it's useful:** Finds attachments in the EmbeddedFiles name tree and in file attachment annotations on pages. Broken entries are skipped and reported under 'skipped' instead of failing the request.

**Examples:**
• Inspect an invoice: "Which files are embedded in factur-x-invoice.pdf?"
• Find XML payloads: "List only the XML attachments of zugferd.pdf" (filter xml=true)

**Common workflows:**
1. Selective extraction: List → Choose files → pdf_extract_attachments with a filter
2. Auditing: List → Compare declared size and checksum with the decoded data

**Best practices:** Filter by extension (case-insensitive), exact MIME type, or the xml shorthand which matches either.`

	PDFExtractAttachmentsDescription = `Extract the files embedded in a PDF and write them to the output directory.

**When to use:** Need the embedded XML of a hybrid invoice or any other attachment as a file on disk.

**Why it's useful:** Decodes compressed attachment streams and writes them under their declared file names. Names that would escape the output directory are rejected.

**Examples:**
• Get the invoice XML: "Extract the XML from xrechnung.pdf into invoices/2024"
• Archive attachments: "Extract all attachments of contract.pdf"

**Common workflows:**
1. Hybrid invoice processing: pdf_check_pdfa3 → pdf_extract_attachments (xml=true) → parse the XML
2. Bulk export: pdf_list_attachments → pdf_extract_attachments into a per-document directory

**Best practices:** The output directory must lie inside the configured output root. A single attachment larger than the embedded size limit fails the whole request and nothing is written.`

	PDFServerInfoDescription = `Get server configuration, available tools and the PDF files in the default directory.

**When to use:** At the start of a session, to learn the directories, size limits and strict mode the server runs with.

**Why it's useful:** Shows where PDFs are read from and where attachments are written, so tool calls use valid paths.

**Examples:**
• Session setup: "What PDFs are available and where will extracted files go?"
• Troubleshooting: "Why was my attachment rejected?" (check max_embedded_file_size)

**Common workflows:**
1. Discovery: pdf_server_info → pick a file → pdf_list_attachments

**Best practices:** Call once per session; the directory listing is limited to 100 files.`
)

// toolParameters documents the arguments of each tool
var toolParameters = map[string]string{
	"pdf_validate_file":       "path (string, required): PDF file, absolute or relative to the default directory",
	"pdf_check_pdfa3":         "path (string, required): PDF file, absolute or relative to the default directory",
	"pdf_list_attachments":    "path (string, required); extension, mime_type (string, optional); xml (boolean, optional)",
	"pdf_extract_attachments": "path (string, required); output_directory (string, optional); extension, mime_type (string, optional); xml (boolean, optional)",
	"pdf_server_info":         "none",
}

// toolUsage gives a one-line usage hint per tool
var toolUsage = map[string]string{
	"pdf_validate_file":       "Check a file before any other operation",
	"pdf_check_pdfa3":         "Read the declared PDF/A part and conformance level",
	"pdf_list_attachments":    "Describe embedded files without writing anything",
	"pdf_extract_attachments": "Decode embedded files and write them to disk",
	"pdf_server_info":         "Inspect directories, limits and available tools",
}

// toolOrder fixes the order tools are registered and listed in
var toolOrder = []string{
	"pdf_server_info",
	"pdf_validate_file",
	"pdf_check_pdfa3",
	"pdf_list_attachments",
	"pdf_extract_attachments",
}

// ToolDescriptions maps tool names to their full descriptions
var ToolDescriptions = map[string]string{
	"pdf_validate_file":       PDFValidateFileDescription,
	"pdf_check_pdfa3":         PDFCheckPDFA3Description,
	"pdf_list_attachments":    PDFListAttachmentsDescription,
	"pdf_extract_attachments": PDFExtractAttachmentsDescription,
	"pdf_server_info":         PDFServerInfoDescription,
}

// GetToolDescription returns the full description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetToolSummary returns the first line of a tool's description
func GetToolSummary(toolName string) string {
	desc := GetToolDescription(toolName)
	if i := strings.IndexByte(desc, '\n'); i >= 0 {
		return desc[:i]
	}
	return desc
}

// GetToolUsage returns a one-line usage hint
func GetToolUsage(toolName string) string {
	return toolUsage[toolName]
}

// GetToolParameters describes the arguments a tool accepts
func GetToolParameters(toolName string) string {
	return toolParameters[toolName]
}

// GetAllToolNames returns all tool names in registration order
func GetAllToolNames() []string {
	names := make([]string, len(toolOrder))
	copy(names, toolOrder)
	return names
}
