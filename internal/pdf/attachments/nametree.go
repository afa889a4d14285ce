package attachments

import (
	"github.com/chrbuchsteiner61/extractEmbedFilePDF/internal/pdf/wrapper"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// MaxNameTreeDepth bounds the Kids recursion of a name tree
const MaxNameTreeDepth = 64

// FileSpecEntry is a discovered file specification: its display name and the
// reference of the specification dictionary
type FileSpecEntry struct {
	Name string            `json:"name"`
	Ref  types.IndirectRef `json:"ref"`
}

// NameTreeWalker enumerates the leaf pairs of a name tree
type NameTreeWalker struct {
	graph   wrapper.ObjectGraph
	diag    *Diagnostics
	visited map[types.IndirectRef]bool
}

// NewNameTreeWalker creates a walker over graph. diag may be nil.
func NewNameTreeWalker(graph wrapper.ObjectGraph, diag *Diagnostics) *NameTreeWalker {
	return &NameTreeWalker{graph: graph, diag: diag}
}

// Walk returns every well-formed (name, reference) pair below root. Within a
// node the Names pairs come first, then the Kids in array order, depth-first.
// Nodes already entered and nodes deeper than MaxNameTreeDepth are skipped.
func (w *NameTreeWalker) Walk(root types.Object) []FileSpecEntry {
	w.visited = make(map[types.IndirectRef]bool)
	var entries []FileSpecEntry
	w.walk(root, 0, &entries)
	return entries
}

func (w *NameTreeWalker) walk(nodeObj types.Object, depth int, entries *[]FileSpecEntry) {
	ref, isRef := wrapper.Ref(nodeObj)
	var refp *types.IndirectRef
	if isRef {
		refp = refPtr(ref)
	}

	if depth > MaxNameTreeDepth {
		w.diag.skip(StageNameTree, refp, "name tree exceeds maximum depth")
		return
	}
	if isRef {
		if w.visited[ref] {
			w.diag.skip(StageNameTree, refp, "name tree node already visited")
			return
		}
		w.visited[ref] = true
	}

	node, err := wrapper.ResolveDict(w.graph, nodeObj)
	if err != nil {
		w.diag.Add(Diagnostic{Stage: StageNameTree, Ref: refp, Reason: "name tree node is not a dictionary", Err: err})
		return
	}

	// Leaf pairs
	if namesObj, found := node.Find("Names"); found {
		names, err := wrapper.ResolveArray(w.graph, namesObj)
		if err != nil {
			w.diag.Add(Diagnostic{Stage: StageNameTree, Ref: refp, Reason: "Names is not an array", Err: err})
		} else {
			w.collectPairs(names, refp, entries)
		}
	}

	// Intermediate nodes
	if kidsObj, found := node.Find("Kids"); found {
		kids, err := wrapper.ResolveArray(w.graph, kidsObj)
		if err != nil {
			w.diag.Add(Diagnostic{Stage: StageNameTree, Ref: refp, Reason: "Kids is not an array", Err: err})
			return
		}
		for _, kid := range kids {
			w.walk(kid, depth+1, entries)
		}
	}
}

func (w *NameTreeWalker) collectPairs(names types.Array, node *types.IndirectRef, entries *[]FileSpecEntry) {
	for i := 0; i < len(names); i += 2 {
		if i+1 >= len(names) {
			w.diag.skip(StageNameTree, node, "odd trailing key in Names array")
			break
		}

		name, ok := wrapper.TextString(names[i])
		if !ok {
			w.diag.skip(StageNameTree, node, "name tree key is not a string")
			continue
		}

		ref, ok := wrapper.Ref(names[i+1])
		if !ok {
			w.diag.Add(Diagnostic{Stage: StageNameTree, Name: name, Ref: node, Reason: "name tree value is not an indirect reference"})
			continue
		}

		*entries = append(*entries, FileSpecEntry{Name: name, Ref: ref})
	}
}
