package errors

import (
	"fmt"
)

// ExtractError is the single error type returned by the analysis and
// extraction operations. Type selects one member of a closed taxonomy.
type ExtractError struct {
	Type    ErrorType `json:"type"`
	Name    string    `json:"name,omitempty"` // attachment name, set for ErrorTypeExtraction
	Message string    `json:"message,omitempty"`
	Err     error     `json:"-"`
}

// ErrorType represents the categories of extraction errors
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeIO
	ErrorTypeInvalidPDF
	ErrorTypeNotPDFA3
	ErrorTypeNoEmbeddedFiles
	ErrorTypeExtraction
	ErrorTypeParse
	ErrorTypeFileSizeExceeded
)

// Sentinels for errors.Is. Matching is by Type only.
var (
	ErrIO               = &ExtractError{Type: ErrorTypeIO}
	ErrInvalidPDF       = &ExtractError{Type: ErrorTypeInvalidPDF}
	ErrNotPDFA3         = &ExtractError{Type: ErrorTypeNotPDFA3}
	ErrNoEmbeddedFiles  = &ExtractError{Type: ErrorTypeNoEmbeddedFiles}
	ErrExtraction       = &ExtractError{Type: ErrorTypeExtraction}
	ErrParse            = &ExtractError{Type: ErrorTypeParse}
	ErrFileSizeExceeded = &ExtractError{Type: ErrorTypeFileSizeExceeded}
)

// Error implements the error interface
func (e *ExtractError) Error() string {
	switch e.Type {
	case ErrorTypeIO:
		return fmt.Sprintf("I/O error: %s", e.detail())
	case ErrorTypeInvalidPDF:
		return fmt.Sprintf("invalid PDF: %s", e.detail())
	case ErrorTypeNotPDFA3:
		return fmt.Sprintf("not PDF/A-3: %s", e.detail())
	case ErrorTypeNoEmbeddedFiles:
		return "no embedded files found in this PDF"
	case ErrorTypeExtraction:
		return fmt.Sprintf("failed to extract embedded file '%s': %s", e.Name, e.detail())
	case ErrorTypeParse:
		return fmt.Sprintf("PDF parse error: %s", e.detail())
	case ErrorTypeFileSizeExceeded:
		if e.Message != "" {
			return "embedded file exceeds the configured maximum size: " + e.Message
		}
		return "embedded file exceeds the configured maximum size"
	default:
		return fmt.Sprintf("unknown error: %s", e.detail())
	}
}

func (e *ExtractError) detail() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Type.String()
	}
}

// Unwrap returns the underlying cause, if any
func (e *ExtractError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *ExtractError of the same Type.
func (e *ExtractError) Is(target error) bool {
	t, ok := target.(*ExtractError)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

// String returns a string representation of the ErrorType
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeIO:
		return "IO_ERROR"
	case ErrorTypeInvalidPDF:
		return "INVALID_PDF"
	case ErrorTypeNotPDFA3:
		return "NOT_PDFA3"
	case ErrorTypeNoEmbeddedFiles:
		return "NO_EMBEDDED_FILES"
	case ErrorTypeExtraction:
		return "EXTRACTION_ERROR"
	case ErrorTypeParse:
		return "PARSE_ERROR"
	case ErrorTypeFileSizeExceeded:
		return "FILE_SIZE_EXCEEDED"
	default:
		return "UNKNOWN"
	}
}

// NewIOError wraps a filesystem failure
func NewIOError(err error) *ExtractError {
	return &ExtractError{Type: ErrorTypeIO, Err: err}
}

// NewInvalidPDF reports a failed structural check
func NewInvalidPDF(message string) *ExtractError {
	return &ExtractError{Type: ErrorTypeInvalidPDF, Message: message}
}

// NewNotPDFA3 reports a conformance-chain failure or a strict-mode rejection
func NewNotPDFA3(message string, err error) *ExtractError {
	return &ExtractError{Type: ErrorTypeNotPDFA3, Message: message, Err: err}
}

// NoEmbeddedFiles returns the error for documents without usable attachments
func NoEmbeddedFiles() *ExtractError {
	return &ExtractError{Type: ErrorTypeNoEmbeddedFiles}
}

// NewExtractionError reports a single attachment that failed to resolve
func NewExtractionError(name, reason string, err error) *ExtractError {
	return &ExtractError{Type: ErrorTypeExtraction, Name: name, Message: reason, Err: err}
}

// NewParseError wraps an error from the object-graph collaborator verbatim
func NewParseError(err error) *ExtractError {
	return &ExtractError{Type: ErrorTypeParse, Err: err}
}

// NewFileSizeExceeded reports an attachment above the configured limit
func NewFileSizeExceeded(name string, size, limit int64) *ExtractError {
	return &ExtractError{
		Type:    ErrorTypeFileSizeExceeded,
		Name:    name,
		Message: fmt.Sprintf("'%s' is %d bytes (max: %d bytes)", name, size, limit),
	}
}

// TypeOf returns the ErrorType carried by err, or ErrorTypeUnknown.
func TypeOf(err error) ErrorType {
	for err != nil {
		if e, ok := err.(*ExtractError); ok {
			return e.Type
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ErrorTypeUnknown
		}
		err = u.Unwrap()
	}
	return ErrorTypeUnknown
}
