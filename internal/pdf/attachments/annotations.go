package attachments

import (
	"github.com/chrbuchsteiner61/extractEmbedFilePDF/internal/pdf/wrapper"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// DefaultAttachmentName is used when neither the file specification nor its
// discovery source carry a usable name
const DefaultAttachmentName = "attachment"

// AnnotationScanner collects FileAttachment annotations from page objects
type AnnotationScanner struct {
	graph wrapper.ObjectGraph
	diag  *Diagnostics
}

// NewAnnotationScanner creates a scanner over graph. diag may be nil.
func NewAnnotationScanner(graph wrapper.ObjectGraph, diag *Diagnostics) *AnnotationScanner {
	return &AnnotationScanner{graph: graph, diag: diag}
}

// Scan returns one entry per FileAttachment annotation whose FS is an
// indirect reference, in page order then Annots order
func (s *AnnotationScanner) Scan(pages []types.IndirectRef) []FileSpecEntry {
	var entries []FileSpecEntry

	for _, pageRef := range pages {
		page, err := wrapper.ResolveDict(s.graph, pageRef)
		if err != nil {
			s.diag.Add(Diagnostic{Stage: StageAnnotation, Ref: refPtr(pageRef), Reason: "page is not a dictionary", Err: err})
			continue
		}

		annotsObj, found := page.Find("Annots")
		if !found {
			continue
		}
		annots, err := wrapper.ResolveArray(s.graph, annotsObj)
		if err != nil {
			s.diag.Add(Diagnostic{Stage: StageAnnotation, Ref: refPtr(pageRef), Reason: "Annots is not an array", Err: err})
			continue
		}

		for _, annotObj := range annots {
			if entry, ok := s.scanAnnotation(annotObj); ok {
				entries = append(entries, entry)
			}
		}
	}

	return entries
}

func (s *AnnotationScanner) scanAnnotation(annotObj types.Object) (FileSpecEntry, bool) {
	var refp *types.IndirectRef
	if ref, ok := wrapper.Ref(annotObj); ok {
		refp = refPtr(ref)
	}

	annot, err := wrapper.ResolveDict(s.graph, annotObj)
	if err != nil {
		s.diag.Add(Diagnostic{Stage: StageAnnotation, Ref: refp, Reason: "annotation is not a dictionary", Err: err})
		return FileSpecEntry{}, false
	}

	// Other annotation subtypes are not attachments and are ignored silently
	if subtype, ok := wrapper.NameValue(annot["Subtype"]); !ok || subtype != "FileAttachment" {
		return FileSpecEntry{}, false
	}

	fsRef, ok := wrapper.Ref(annot["FS"])
	if !ok {
		s.diag.skip(StageAnnotation, refp, "FS is missing or not an indirect reference")
		return FileSpecEntry{}, false
	}

	name := DefaultAttachmentName
	if contents, ok := wrapper.NonEmptyText(annot, "Contents"); ok {
		name = contents
	} else if title, ok := wrapper.NonEmptyText(annot, "T"); ok {
		name = title
	}

	return FileSpecEntry{Name: name, Ref: fsRef}, true
}
