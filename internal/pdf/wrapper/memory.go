package wrapper

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// MemoryGraph is an in-memory ObjectGraph. It is used to assemble documents
// programmatically, mostly in tests.
type MemoryGraph struct {
	objects map[types.IndirectRef]types.Object
	nextNr  int
	root    *types.IndirectRef
	pages   []types.IndirectRef
	trailer types.Dict
}

// NewMemoryGraph creates an empty graph without catalog or pages
func NewMemoryGraph() *MemoryGraph {
	return &MemoryGraph{
		objects: make(map[types.IndirectRef]types.Object),
		nextNr:  1,
		trailer: types.Dict{},
	}
}

// Reserve allocates a reference without an object behind it yet
func (g *MemoryGraph) Reserve() types.IndirectRef {
	ref := *types.NewIndirectRef(g.nextNr, 0)
	g.nextNr++
	return ref
}

// Add stores obj under a fresh reference
func (g *MemoryGraph) Add(obj types.Object) types.IndirectRef {
	ref := g.Reserve()
	g.objects[ref] = obj
	return ref
}

// Set stores obj under ref, replacing any previous object
func (g *MemoryGraph) Set(ref types.IndirectRef, obj types.Object) {
	g.objects[ref] = obj
	if nr := ref.ObjectNumber.Value(); nr >= g.nextNr {
		g.nextNr = nr + 1
	}
}

// SetCatalog stores the catalog and points the trailer's Root at it
func (g *MemoryGraph) SetCatalog(catalog types.Dict) types.IndirectRef {
	ref := g.Add(catalog)
	g.root = &ref
	g.trailer["Root"] = ref
	return ref
}

// AddPage stores a page dictionary and appends it to the page list
func (g *MemoryGraph) AddPage(page types.Dict) types.IndirectRef {
	ref := g.Add(page)
	g.pages = append(g.pages, ref)
	return ref
}

// SetTrailerEntry sets a single trailer entry
func (g *MemoryGraph) SetTrailerEntry(key string, obj types.Object) {
	g.trailer[key] = obj
}

// Catalog returns the document catalog dictionary
func (g *MemoryGraph) Catalog() (types.Dict, error) {
	if g.root == nil {
		return nil, &WrapperError{Library: LibraryMemory, Op: "catalog", Err: ErrNoCatalog}
	}
	d, err := ResolveDict(g, *g.root)
	if err != nil {
		return nil, &WrapperError{Library: LibraryMemory, Op: "catalog", Err: err}
	}
	return d, nil
}

// Pages returns the page references in insertion order
func (g *MemoryGraph) Pages() ([]types.IndirectRef, error) {
	pages := make([]types.IndirectRef, len(g.pages))
	copy(pages, g.pages)
	return pages, nil
}

// Resolve looks up indirect references in the object table
func (g *MemoryGraph) Resolve(obj types.Object) (types.Object, error) {
	if obj == nil {
		return nil, &WrapperError{Library: LibraryMemory, Op: "resolve", Err: ErrObjectNotFound}
	}

	ref, isRef := Ref(obj)
	if !isRef {
		return obj, nil
	}

	o, found := g.objects[ref]
	if !found || o == nil {
		return nil, &WrapperError{
			Library: LibraryMemory,
			Op:      "resolve",
			Err:     fmt.Errorf("%s: %w", ref.String(), ErrObjectNotFound),
		}
	}
	return o, nil
}

// Trailer returns a copy of the trailer dictionary
func (g *MemoryGraph) Trailer() types.Dict {
	d := make(types.Dict, len(g.trailer))
	for k, v := range g.trailer {
		d[k] = v
	}
	return d
}

// Decompress decodes the stream content
func (g *MemoryGraph) Decompress(sd *types.StreamDict) ([]byte, error) {
	content, err := decodeStream(sd)
	if err != nil {
		return nil, &WrapperError{Library: LibraryMemory, Op: "decompress", Err: err}
	}
	return content, nil
}

// NewStream builds an unfiltered stream object holding content
func NewStream(d types.Dict, content []byte) types.StreamDict {
	if d == nil {
		d = types.Dict{}
	}
	length := int64(len(content))
	d["Length"] = types.Integer(len(content))
	sd := types.NewStreamDict(d, 0, &length, nil, nil)
	sd.Raw = content
	return sd
}

// NewFilteredStream builds a stream whose raw bytes are encoded with filter
func NewFilteredStream(d types.Dict, filter string, raw []byte) types.StreamDict {
	if d == nil {
		d = types.Dict{}
	}
	length := int64(len(raw))
	d["Length"] = types.Integer(len(raw))
	d["Filter"] = types.Name(filter)
	sd := types.NewStreamDict(d, 0, &length, nil, []types.PDFFilter{{Name: filter}})
	sd.Raw = raw
	return sd
}
