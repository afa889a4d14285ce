package wrapper

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// PDFCPUGraph implements ObjectGraph on top of a pdfcpu context
type PDFCPUGraph struct {
	ctx *model.Context
}

// NewPDFCPUGraph wraps an already read pdfcpu context
func NewPDFCPUGraph(ctx *model.Context) *PDFCPUGraph {
	return &PDFCPUGraph{ctx: ctx}
}

// Context returns the underlying pdfcpu context
func (g *PDFCPUGraph) Context() *model.Context {
	return g.ctx
}

// Catalog returns the document catalog dictionary
func (g *PDFCPUGraph) Catalog() (types.Dict, error) {
	if g.ctx.Root == nil {
		return nil, &WrapperError{Library: LibraryPDFCPU, Op: "catalog", Err: ErrNoCatalog}
	}

	d, err := g.ctx.Catalog()
	if err != nil {
		return nil, &WrapperError{Library: LibraryPDFCPU, Op: "catalog", Err: err}
	}
	if d == nil {
		return nil, &WrapperError{Library: LibraryPDFCPU, Op: "catalog", Err: ErrNoCatalog}
	}
	return d, nil
}

// Pages returns the page object references in document order. Pages whose
// dictionary cannot be located are left out.
func (g *PDFCPUGraph) Pages() ([]types.IndirectRef, error) {
	if err := g.ctx.EnsurePageCount(); err != nil {
		return nil, &WrapperError{
			Library: LibraryPDFCPU,
			Op:      "pages",
			Err:     fmt.Errorf("failed to ensure page count: %w", err),
		}
	}

	pages := make([]types.IndirectRef, 0, g.ctx.PageCount)
	for pageNr := 1; pageNr <= g.ctx.PageCount; pageNr++ {
		_, indRef, _, err := g.ctx.PageDict(pageNr, false)
		if err != nil || indRef == nil {
			continue
		}
		pages = append(pages, *indRef)
	}
	return pages, nil
}

// Resolve follows indirect references through the cross-reference table
func (g *PDFCPUGraph) Resolve(obj types.Object) (types.Object, error) {
	if obj == nil {
		return nil, &WrapperError{Library: LibraryPDFCPU, Op: "resolve", Err: ErrObjectNotFound}
	}

	ref, isRef := Ref(obj)
	if !isRef {
		return obj, nil
	}

	o, err := g.ctx.Dereference(ref)
	if err != nil {
		return nil, &WrapperError{
			Library: LibraryPDFCPU,
			Op:      "resolve",
			Err:     fmt.Errorf("%s: %w", ref.String(), err),
		}
	}
	if o == nil {
		return nil, &WrapperError{
			Library: LibraryPDFCPU,
			Op:      "resolve",
			Err:     fmt.Errorf("%s: %w", ref.String(), ErrObjectNotFound),
		}
	}
	return o, nil
}

// Trailer rebuilds the trailer entries pdfcpu keeps on the xref table
func (g *PDFCPUGraph) Trailer() types.Dict {
	d := types.Dict{}
	if g.ctx.Root != nil {
		d["Root"] = *g.ctx.Root
	}
	if g.ctx.Info != nil {
		d["Info"] = *g.ctx.Info
	}
	if g.ctx.Encrypt != nil {
		d["Encrypt"] = *g.ctx.Encrypt
	}
	if len(g.ctx.ID) > 0 {
		d["ID"] = g.ctx.ID
	}
	if g.ctx.Size != nil {
		d["Size"] = types.Integer(*g.ctx.Size)
	}
	return d
}

// Decompress decodes the stream content
func (g *PDFCPUGraph) Decompress(sd *types.StreamDict) ([]byte, error) {
	content, err := decodeStream(sd)
	if err != nil {
		return nil, &WrapperError{Library: LibraryPDFCPU, Op: "decompress", Err: err}
	}
	return content, nil
}
