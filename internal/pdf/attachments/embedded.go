package attachments

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	pdferrors "github.com/chrbuchsteiner61/extractEmbedFilePDF/internal/pdf/errors"
	"github.com/chrbuchsteiner61/extractEmbedFilePDF/internal/pdf/security"
)

// EmbeddedFile is one decoded attachment together with its declared metadata
type EmbeddedFile struct {
	Filename string   `json:"filename"`
	Data     []byte   `json:"-"`
	Metadata Metadata `json:"metadata"`
}

// Metadata holds the optional information a file specification declares
// about its attachment. Declared values are kept as found in the document.
type Metadata struct {
	MIMEType         *string `json:"mime_type,omitempty"`
	Description      *string `json:"description,omitempty"`
	ModificationDate *string `json:"modification_date,omitempty"`
	CreationDate     *string `json:"creation_date,omitempty"`
	Size             *int64  `json:"size,omitempty"`     // as declared in Params
	Checksum         *string `json:"checksum,omitempty"` // lowercase hex
	Relationship     *string `json:"relationship,omitempty"`
}

// Size returns the number of decoded bytes
func (f *EmbeddedFile) Size() int64 {
	return int64(len(f.Data))
}

// Save writes the data to dir/Filename, creating dir if needed. An existing
// file of the same name is overwritten.
func (f *EmbeddedFile) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return pdferrors.NewIOError(err)
	}

	path, err := security.ContainedPath(dir, f.Filename)
	if err != nil {
		return pdferrors.NewIOError(err)
	}

	if err := os.WriteFile(path, f.Data, 0o644); err != nil {
		return pdferrors.NewIOError(err)
	}
	return nil
}

// Extension returns the filename extension without the dot, or "" if the
// filename has none
func (f *EmbeddedFile) Extension() string {
	ext := filepath.Ext(f.Filename)
	if len(ext) <= 1 || ext == filepath.Base(f.Filename) {
		return ""
	}
	return ext[1:]
}

// HasExtension reports whether the extension equals ext, ignoring case
func (f *EmbeddedFile) HasExtension(ext string) bool {
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return false
	}
	return strings.EqualFold(f.Extension(), ext)
}

// IsXML reports whether the MIME type mentions xml, ignoring case
func (m Metadata) IsXML() bool {
	return m.MIMEType != nil && strings.Contains(strings.ToLower(*m.MIMEType), "xml")
}

// HasMIMEType reports whether the MIME type equals mimeType, ignoring case
func (m Metadata) HasMIMEType(mimeType string) bool {
	return m.MIMEType != nil && strings.EqualFold(*m.MIMEType, mimeType)
}

// CreationTime parses the declared creation date
func (m Metadata) CreationTime() (time.Time, bool) {
	if m.CreationDate == nil {
		return time.Time{}, false
	}
	return ParseDate(*m.CreationDate)
}

// ModificationTime parses the declared modification date
func (m Metadata) ModificationTime() (time.Time, bool) {
	if m.ModificationDate == nil {
		return time.Time{}, false
	}
	return ParseDate(*m.ModificationDate)
}
