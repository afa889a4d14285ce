package pdf

import "github.com/chrbuchsteiner61/extractEmbedFilePDF/internal/pdf/attachments"

// AttachmentFilter selects embedded files by extension or MIME type. The XML
// shorthand matches files with an .xml extension or an XML MIME type and
// overrides the other criteria.
type AttachmentFilter struct {
	Extension string `json:"extension,omitempty"`
	MIMEType  string `json:"mime_type,omitempty"`
	XML       bool   `json:"xml,omitempty"`
}

// IsEmpty reports whether the filter matches every file
func (f AttachmentFilter) IsEmpty() bool {
	return !f.XML && f.Extension == "" && f.MIMEType == ""
}

// Matches reports whether file passes the filter
func (f AttachmentFilter) Matches(file *attachments.EmbeddedFile) bool {
	if f.XML {
		return file.HasExtension("xml") || file.Metadata.IsXML()
	}
	if f.Extension != "" && !file.HasExtension(f.Extension) {
		return false
	}
	if f.MIMEType != "" && !file.Metadata.HasMIMEType(f.MIMEType) {
		return false
	}
	return true
}

// Apply returns the matching files in their original order
func (f AttachmentFilter) Apply(files []attachments.EmbeddedFile) []attachments.EmbeddedFile {
	if f.IsEmpty() {
		return files
	}
	matched := make([]attachments.EmbeddedFile, 0, len(files))
	for i := range files {
		if f.Matches(&files[i]) {
			matched = append(matched, files[i])
		}
	}
	return matched
}
