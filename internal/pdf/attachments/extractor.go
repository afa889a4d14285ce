package attachments

import (
	"log/slog"

	pdferrors "github.com/chrbuchsteiner61/extractEmbedFilePDF/internal/pdf/errors"
	"github.com/chrbuchsteiner61/extractEmbedFilePDF/internal/pdf/wrapper"
)

// ExtractorConfig controls an extraction pass
type ExtractorConfig struct {
	// StrictPDFA3Validation makes conformance checks fail on documents that
	// do not declare PDF/A-3
	StrictPDFA3Validation bool `json:"strict_pdfa3_validation"`

	// MaxEmbeddedFileSize is the largest decoded attachment accepted (in bytes, 0 = unlimited)
	MaxEmbeddedFileSize int64 `json:"max_embedded_file_size"`

	// ExtractToDisk writes every extracted file to OutputDirectory
	ExtractToDisk   bool   `json:"extract_to_disk"`
	OutputDirectory string `json:"output_directory,omitempty"`
}

// DefaultExtractorConfig returns the defaults: lenient, 100MB, in memory only
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		StrictPDFA3Validation: false,
		MaxEmbeddedFileSize:   100 * 1024 * 1024, // 100MB
		ExtractToDisk:         false,
	}
}

// persist reports whether files are written to disk
func (c ExtractorConfig) persist() bool {
	return c.ExtractToDisk && c.OutputDirectory != ""
}

// Extractor runs discovery, resolution, the size policy and persistence
type Extractor struct {
	graph  wrapper.ObjectGraph
	config ExtractorConfig
	logger *slog.Logger
	diag   *Diagnostics
}

// NewExtractor creates an extractor over graph. A nil logger discards output.
func NewExtractor(graph wrapper.ObjectGraph, config ExtractorConfig, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Extractor{
		graph:  graph,
		config: config,
		logger: logger,
		diag:   NewDiagnostics(logger),
	}
}

// Diagnostics returns the skip reasons recorded by the most recent call
func (e *Extractor) Diagnostics() *Diagnostics {
	return e.diag
}

// Discover lists the file specifications without resolving them
func (e *Extractor) Discover() []FileSpecEntry {
	e.diag.Reset()
	return NewDiscovery(e.graph, e.diag).Discover()
}

// HasFiles reports whether discovery finds at least one file specification
func (e *Extractor) HasFiles() bool {
	return len(e.Discover()) > 0
}

// CountFiles returns the number of discovered file specifications. Entries
// that would fail to resolve are counted too.
func (e *Extractor) CountFiles() int {
	return len(e.Discover())
}

// Extract resolves every discovered file specification. Entries that fail to
// resolve are skipped and recorded in Diagnostics. A resolved file larger than
// MaxEmbeddedFileSize aborts the whole call. Files are written to disk only
// after every size check passed, so an aborted call writes nothing, not even
// the files that resolved before the oversized one.
func (e *Extractor) Extract() ([]EmbeddedFile, error) {
	entries := e.Discover()
	if len(entries) == 0 {
		return nil, pdferrors.NoEmbeddedFiles()
	}

	resolver := NewResolver(e.graph, e.diag)
	files := make([]EmbeddedFile, 0, len(entries))

	for _, entry := range entries {
		file, err := resolver.Resolve(entry.Name, entry.Ref)
		if err != nil {
			e.diag.Add(Diagnostic{
				Stage:  StageResolve,
				Name:   entry.Name,
				Ref:    refPtr(entry.Ref),
				Reason: "file specification could not be resolved",
				Err:    err,
			})
			continue
		}

		if limit := e.config.MaxEmbeddedFileSize; limit > 0 && file.Size() > limit {
			e.logger.Warn("embedded file exceeds size limit",
				"name", file.Filename, "size", file.Size(), "limit", limit)
			return nil, pdferrors.NewFileSizeExceeded(file.Filename, file.Size(), limit)
		}

		files = append(files, *file)
	}

	if len(files) == 0 {
		return nil, pdferrors.NoEmbeddedFiles()
	}

	if e.config.persist() {
		for i := range files {
			if err := files[i].Save(e.config.OutputDirectory); err != nil {
				return nil, err
			}
			e.logger.Debug("wrote embedded file",
				"name", files[i].Filename, "dir", e.config.OutputDirectory, "size", files[i].Size())
		}
	}

	e.logger.Debug("extracted embedded files", "count", len(files), "skipped", e.diag.Len())
	return files, nil
}
