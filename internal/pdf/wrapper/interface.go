package wrapper

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// ObjectGraph is the read-only view of a parsed PDF document that the
// extraction core works against. Implementations resolve indirect
// references, expose the catalog, page list and trailer, and decode streams.
type ObjectGraph interface {
	// Catalog returns the document catalog dictionary
	Catalog() (types.Dict, error)

	// Pages returns the page object references in document order
	Pages() ([]types.IndirectRef, error)

	// Resolve follows obj if it is an indirect reference and returns the
	// target object. Any other object is returned unchanged.
	Resolve(obj types.Object) (types.Object, error)

	// Trailer returns the trailer dictionary as known to the backend
	Trailer() types.Dict

	// Decompress applies the stream's filter pipeline and returns the
	// decoded content. The stream itself is not modified.
	Decompress(sd *types.StreamDict) ([]byte, error)
}

// LibraryType identifies the backend behind an ObjectGraph
type LibraryType string

const (
	LibraryPDFCPU LibraryType = "pdfcpu"
	LibraryMemory LibraryType = "memory"
)

// WrapperError reports a failure inside an ObjectGraph backend
type WrapperError struct {
	Library LibraryType `json:"library"`
	Op      string      `json:"operation"`
	Err     error       `json:"error"`
}

func (e *WrapperError) Error() string {
	return fmt.Sprintf("PDF %s library error in %s: %v", e.Library, e.Op, e.Err)
}

func (e *WrapperError) Unwrap() error {
	return e.Err
}

// Common error variables
var (
	ErrObjectNotFound = fmt.Errorf("object not found")
	ErrNoCatalog      = fmt.Errorf("document has no catalog")
)

// ResolveDict resolves obj and requires a dictionary. A stream dictionary
// is accepted and its dictionary part returned.
func ResolveDict(g ObjectGraph, obj types.Object) (types.Dict, error) {
	o, err := g.Resolve(obj)
	if err != nil {
		return nil, err
	}
	switch v := o.(type) {
	case types.Dict:
		return v, nil
	case types.StreamDict:
		return v.Dict, nil
	case *types.StreamDict:
		return v.Dict, nil
	default:
		return nil, fmt.Errorf("expected dictionary, got %T", o)
	}
}

// ResolveArray resolves obj and requires an array
func ResolveArray(g ObjectGraph, obj types.Object) (types.Array, error) {
	o, err := g.Resolve(obj)
	if err != nil {
		return nil, err
	}
	arr, ok := o.(types.Array)
	if !ok {
		return nil, fmt.Errorf("expected array, got %T", o)
	}
	return arr, nil
}

// ResolveStream resolves obj and requires a stream object
func ResolveStream(g ObjectGraph, obj types.Object) (*types.StreamDict, error) {
	o, err := g.Resolve(obj)
	if err != nil {
		return nil, err
	}
	switch v := o.(type) {
	case types.StreamDict:
		return &v, nil
	case *types.StreamDict:
		return v, nil
	default:
		return nil, fmt.Errorf("expected stream, got %T", o)
	}
}

// decodeStream decodes a copy of sd so shared graph objects stay untouched
func decodeStream(sd *types.StreamDict) ([]byte, error) {
	if sd == nil {
		return nil, fmt.Errorf("nil stream")
	}
	if sd.Raw == nil && sd.Content != nil {
		return sd.Content, nil
	}
	if len(sd.FilterPipeline) == 0 {
		return sd.Raw, nil
	}

	c := *sd
	c.Content = nil
	if err := c.Decode(); err != nil {
		return nil, err
	}
	return c.Content, nil
}
