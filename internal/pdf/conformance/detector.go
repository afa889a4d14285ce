package conformance

import (
	"fmt"
	"strings"

	pdferrors "github.com/chrbuchsteiner61/extractEmbedFilePDF/internal/pdf/errors"
	"github.com/chrbuchsteiner61/extractEmbedFilePDF/internal/pdf/wrapper"
)

// Detector reads the PDF/A identification from the catalog's XMP stream
type Detector struct {
	graph  wrapper.ObjectGraph
	strict bool
}

// NewDetector creates a detector. In strict mode IsConformant reports a
// document that does not declare PDF/A-3 as an error.
func NewDetector(graph wrapper.ObjectGraph, strict bool) *Detector {
	return &Detector{graph: graph, strict: strict}
}

// XMP returns the document's XMP packet as text. Invalid UTF-8 sequences are
// replaced with U+FFFD. Every failure is a not-PDF/A-3 error.
func (d *Detector) XMP() (string, error) {
	catalog, err := d.graph.Catalog()
	if err != nil {
		return "", pdferrors.NewNotPDFA3("cannot read catalog", err)
	}

	metaObj, found := catalog.Find("Metadata")
	if !found {
		return "", pdferrors.NewNotPDFA3("catalog has no /Metadata entry", nil)
	}

	metaRef, ok := wrapper.Ref(metaObj)
	if !ok {
		return "", pdferrors.NewNotPDFA3("/Metadata entry is not an indirect reference", nil)
	}

	obj, err := d.graph.Resolve(metaRef)
	if err != nil {
		return "", pdferrors.NewNotPDFA3("cannot resolve /Metadata object", err)
	}

	stream, err := wrapper.ResolveStream(d.graph, obj)
	if err != nil {
		return "", pdferrors.NewNotPDFA3("/Metadata object is not a stream", nil)
	}

	data, err := d.graph.Decompress(stream)
	if err != nil {
		return "", pdferrors.NewNotPDFA3("cannot decompress /Metadata stream", err)
	}

	return strings.ToValidUTF8(string(data), "\uFFFD"), nil
}

// IsConformant reports whether the XMP declares PDF/A-3 with level A, B or U.
// Outside strict mode a document without readable XMP is reported as not
// conformant with the chain error.
func (d *Detector) IsConformant() (bool, error) {
	xmp, err := d.XMP()
	if err != nil {
		return false, err
	}

	conformant := DeclaresPDFA3(xmp)
	if d.strict && !conformant {
		return false, pdferrors.NewNotPDFA3("document XMP does not declare PDF/A-3 conformance", nil)
	}
	return conformant, nil
}

// Level returns the declared level string, e.g. "PDF/A-3B". Any failure
// reading the XMP yields false.
func (d *Detector) Level() (string, bool) {
	xmp, err := d.XMP()
	if err != nil {
		return "", false
	}
	return ConformanceLevel(xmp)
}

// Describe summarises the conformance state for reports
func (d *Detector) Describe() string {
	level, ok := d.Level()
	if !ok {
		return "no PDF/A identification"
	}
	if strings.HasPrefix(level, "PDF/A-3") {
		return fmt.Sprintf("%s (PDF/A-3 conformant)", level)
	}
	return fmt.Sprintf("%s (not PDF/A-3)", level)
}
