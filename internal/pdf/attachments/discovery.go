package attachments

import (
	"github.com/chrbuchsteiner61/extractEmbedFilePDF/internal/pdf/wrapper"
)

// Discovery combines the EmbeddedFiles name tree and page annotations into a
// single list of file specifications
type Discovery struct {
	graph wrapper.ObjectGraph
	diag  *Diagnostics
}

// NewDiscovery creates a discovery pass over graph. diag may be nil.
func NewDiscovery(graph wrapper.ObjectGraph, diag *Diagnostics) *Discovery {
	return &Discovery{graph: graph, diag: diag}
}

// Discover returns the name tree entries followed by the annotation entries.
// Entries are not deduplicated. Missing pieces contribute nothing.
func (d *Discovery) Discover() []FileSpecEntry {
	entries := d.fromNameTree()
	entries = append(entries, d.fromAnnotations()...)
	return entries
}

func (d *Discovery) fromNameTree() []FileSpecEntry {
	catalog, err := d.graph.Catalog()
	if err != nil {
		return nil
	}

	namesObj, found := catalog.Find("Names")
	if !found {
		return nil
	}
	names, err := wrapper.ResolveDict(d.graph, namesObj)
	if err != nil {
		d.diag.Add(Diagnostic{Stage: StageNameTree, Reason: "catalog Names is not a dictionary", Err: err})
		return nil
	}

	root, found := names.Find("EmbeddedFiles")
	if !found {
		return nil
	}

	return NewNameTreeWalker(d.graph, d.diag).Walk(root)
}

func (d *Discovery) fromAnnotations() []FileSpecEntry {
	pages, err := d.graph.Pages()
	if err != nil || len(pages) == 0 {
		return nil
	}
	return NewAnnotationScanner(d.graph, d.diag).Scan(pages)
}

