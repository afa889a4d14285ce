package attachments

import (
	"encoding/hex"
	"strings"
	"unicode/utf16"

	"github.com/chrbuchsteiner61/extractEmbedFilePDF/internal/pdf/wrapper"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// testDoc assembles small documents on top of a MemoryGraph
type testDoc struct {
	g       *wrapper.MemoryGraph
	catalog types.Dict
}

func newTestDoc() *testDoc {
	g := wrapper.NewMemoryGraph()
	catalog := types.Dict{"Type": types.Name("Catalog")}
	g.SetCatalog(catalog)
	return &testDoc{g: g, catalog: catalog}
}

// addSpec stores an embedded file stream and a file specification naming it
// under F only
func (d *testDoc) addSpec(filename string, content []byte) types.IndirectRef {
	stream := wrapper.NewStream(types.Dict{"Type": types.Name("EmbeddedFile")}, content)
	streamRef := d.g.Add(stream)
	return d.g.Add(types.Dict{
		"Type": types.Name("Filespec"),
		"F":    types.StringLiteral(filename),
		"EF":   types.Dict{"F": streamRef},
	})
}

// setNameTree installs root as catalog /Names /EmbeddedFiles
func (d *testDoc) setNameTree(root types.Object) {
	d.catalog["Names"] = types.Dict{"EmbeddedFiles": root}
}

// leafNode stores a name tree node holding the given name/ref pairs
func (d *testDoc) leafNode(pairs ...any) types.IndirectRef {
	return d.g.Add(types.Dict{"Names": pairArray(pairs...)})
}

// addPage stores a page with the given annotations
func (d *testDoc) addPage(annots ...types.Object) types.IndirectRef {
	page := types.Dict{"Type": types.Name("Page")}
	if len(annots) > 0 {
		page["Annots"] = types.Array(annots)
	}
	return d.g.AddPage(page)
}

// attachmentAnnot stores a FileAttachment annotation pointing at fs
func (d *testDoc) attachmentAnnot(fs types.IndirectRef, extra types.Dict) types.IndirectRef {
	annot := types.Dict{
		"Type":    types.Name("Annot"),
		"Subtype": types.Name("FileAttachment"),
		"FS":      fs,
	}
	for k, v := range extra {
		annot[k] = v
	}
	return d.g.Add(annot)
}

func pairArray(pairs ...any) types.Array {
	arr := types.Array{}
	for _, p := range pairs {
		switch v := p.(type) {
		case string:
			arr = append(arr, types.StringLiteral(v))
		case types.Object:
			arr = append(arr, v)
		}
	}
	return arr
}

// utf16Hex encodes s as a UTF-16BE hex string with byte order mark
func utf16Hex(s string) types.HexLiteral {
	var b strings.Builder
	b.WriteString("FEFF")
	for _, u := range utf16.Encode([]rune(s)) {
		b.WriteString(strings.ToUpper(hex.EncodeToString([]byte{byte(u >> 8), byte(u)})))
	}
	return types.HexLiteral(b.String())
}

func entryNames(entries []FileSpecEntry) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names
}

func fileNames(files []EmbeddedFile) []string {
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Filename)
	}
	return names
}
