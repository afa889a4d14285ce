package pdf

import (
	stderrors "errors"
	"io/fs"
	"log/slog"

	"github.com/chrbuchsteiner61/extractEmbedFilePDF/internal/pdf/attachments"
	"github.com/chrbuchsteiner61/extractEmbedFilePDF/internal/pdf/conformance"
	pdferrors "github.com/chrbuchsteiner61/extractEmbedFilePDF/internal/pdf/errors"
	"github.com/chrbuchsteiner61/extractEmbedFilePDF/internal/pdf/wrapper"
)

// Analyzer answers structure and conformance questions about one document
// and extracts its embedded files. An Analyzer is not safe for concurrent use.
type Analyzer struct {
	graph     wrapper.ObjectGraph
	config    attachments.ExtractorConfig
	logger    *slog.Logger
	extractor *attachments.Extractor
}

// Option configures an Analyzer
type Option func(*Analyzer)

// WithConfig sets the extraction configuration
func WithConfig(config attachments.ExtractorConfig) Option {
	return func(a *Analyzer) {
		a.config = config
	}
}

// WithLogger sets the logger used for skipped attachments and extraction progress
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAnalyzer creates an analyzer over an already parsed document
func NewAnalyzer(graph wrapper.ObjectGraph, opts ...Option) *Analyzer {
	a := &Analyzer{
		graph:  graph,
		config: attachments.DefaultExtractorConfig(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.extractor = attachments.NewExtractor(graph, a.config, a.logger)
	return a
}

// Open parses the PDF at path
func Open(path string, opts ...Option) (*Analyzer, error) {
	graph, err := wrapper.OpenFile(path, wrapper.FactoryConfig{})
	if err != nil {
		return nil, openError(err)
	}
	return NewAnalyzer(graph, opts...), nil
}

// OpenBytes parses an in-memory PDF
func OpenBytes(data []byte, opts ...Option) (*Analyzer, error) {
	graph, err := wrapper.OpenBytes(data, wrapper.FactoryConfig{})
	if err != nil {
		return nil, openError(err)
	}
	return NewAnalyzer(graph, opts...), nil
}

// openError classifies a load failure: filesystem problems are I/O errors,
// everything else comes from the parser
func openError(err error) error {
	var pathErr *fs.PathError
	if stderrors.As(err, &pathErr) {
		return pdferrors.NewIOError(err)
	}
	return pdferrors.NewParseError(err)
}

// Config returns the active extraction configuration
func (a *Analyzer) Config() attachments.ExtractorConfig {
	return a.config
}

// Graph returns the underlying object graph
func (a *Analyzer) Graph() wrapper.ObjectGraph {
	return a.graph
}

// IsPDF checks that the document has a catalog, pages and a trailer
func (a *Analyzer) IsPDF() (bool, error) {
	return conformance.NewStructureValidator(a.graph).Validate()
}

// IsPDFA3 reports whether the XMP metadata declares PDF/A-3. In strict mode a
// document that does not is reported as an error.
func (a *Analyzer) IsPDFA3() (bool, error) {
	return conformance.NewDetector(a.graph, a.config.StrictPDFA3Validation).IsConformant()
}

// ConformanceLevel returns the declared level, e.g. "PDF/A-3B"
func (a *Analyzer) ConformanceLevel() (string, bool) {
	return conformance.NewDetector(a.graph, false).Level()
}

// ConformanceSummary describes the declared level in one line
func (a *Analyzer) ConformanceSummary() string {
	return conformance.NewDetector(a.graph, false).Describe()
}

// HasEmbeddedFiles reports whether any file specification is discovered
func (a *Analyzer) HasEmbeddedFiles() bool {
	return a.extractor.HasFiles()
}

// CountEmbeddedFiles returns the number of discovered file specifications
func (a *Analyzer) CountEmbeddedFiles() int {
	return a.extractor.CountFiles()
}

// ListEmbeddedFiles returns the discovered file specifications without
// decoding them
func (a *Analyzer) ListEmbeddedFiles() []attachments.FileSpecEntry {
	return a.extractor.Discover()
}

// ExtractEmbeddedFiles decodes every embedded file, applying the size limit
// and writing to disk when configured. When the size limit aborts the call no
// file is written.
func (a *Analyzer) ExtractEmbeddedFiles() ([]attachments.EmbeddedFile, error) {
	return a.extractor.Extract()
}

// Diagnostics returns the skip reasons of the last discovery or extraction
func (a *Analyzer) Diagnostics() []attachments.Diagnostic {
	return a.extractor.Diagnostics().All()
}
