package conformance

import (
	pdferrors "github.com/chrbuchsteiner61/extractEmbedFilePDF/internal/pdf/errors"
	"github.com/chrbuchsteiner61/extractEmbedFilePDF/internal/pdf/wrapper"
)

// StructureValidator checks the elements every PDF needs
type StructureValidator struct {
	graph wrapper.ObjectGraph
}

// NewStructureValidator creates a validator over graph
func NewStructureValidator(graph wrapper.ObjectGraph) *StructureValidator {
	return &StructureValidator{graph: graph}
}

// Validate requires a catalog, at least one page and a non-empty trailer,
// checked in that order
func (v *StructureValidator) Validate() (bool, error) {
	if _, err := v.graph.Catalog(); err != nil {
		return false, pdferrors.NewInvalidPDF("missing or invalid catalog: " + err.Error())
	}

	pages, err := v.graph.Pages()
	if err != nil || len(pages) == 0 {
		return false, pdferrors.NewInvalidPDF("document has no pages")
	}

	if len(v.graph.Trailer()) == 0 {
		return false, pdferrors.NewInvalidPDF("missing trailer dictionary")
	}

	return true, nil
}
