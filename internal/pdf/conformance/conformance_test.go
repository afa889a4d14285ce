package conformance

import (
	"bytes"
	"compress/zlib"
	"testing"

	pdferrors "github.com/chrbuchsteiner61/extractEmbedFilePDF/internal/pdf/errors"
	"github.com/chrbuchsteiner61/extractEmbedFilePDF/internal/pdf/wrapper"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	xmpAttr3B = `<?xpacket begin="" id="W5M0MpCehiHzreSzNTczkc9d"?>
<x:xmpmeta xmlns:x="adobe:ns:meta/">
 <rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
  <rdf:Description rdf:about="" xmlns:pdfaid="http://www.aiim.org/pdfa/ns/id/"
    pdfaid:part="3" pdfaid:conformance="B"/>
 </rdf:RDF>
</x:xmpmeta>
<?xpacket end="w"?>`

	xmpElem3B = `<x:xmpmeta xmlns:x="adobe:ns:meta/">
 <rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
  <rdf:Description rdf:about="" xmlns:pdfaid="http://www.aiim.org/pdfa/ns/id/">
   <pdfaid:part>3</pdfaid:part>
   <pdfaid:conformance>B</pdfaid:conformance>
  </rdf:Description>
 </rdf:RDF>
</x:xmpmeta>`
)

func TestXMPMatching(t *testing.T) {
	tests := []struct {
		name      string
		xmp       string
		pdfa3     bool
		level     string
		wantLevel bool
	}{
		{name: "attribute form", xmp: xmpAttr3B, pdfa3: true, level: "PDF/A-3B", wantLevel: true},
		{name: "element form", xmp: xmpElem3B, pdfa3: true, level: "PDF/A-3B", wantLevel: true},
		{name: "mixed forms", xmp: `pdfaid:part="3" <pdfaid:conformance>U</pdfaid:conformance>`, pdfa3: true, level: "PDF/A-3U", wantLevel: true},
		{name: "level A", xmp: `pdfaid:part="3" pdfaid:conformance="A"`, pdfa3: true, level: "PDF/A-3A", wantLevel: true},
		{name: "part 2", xmp: `pdfaid:part="2" pdfaid:conformance="U"`, pdfa3: false, level: "PDF/A-2U", wantLevel: true},
		{name: "part 1 element", xmp: `<pdfaid:part>1</pdfaid:part><pdfaid:conformance>A</pdfaid:conformance>`, pdfa3: false, level: "PDF/A-1A", wantLevel: true},
		{name: "part 3 without level", xmp: `pdfaid:part="3"`, pdfa3: false},
		{name: "lowercase level", xmp: `pdfaid:part="3" pdfaid:conformance="b"`, pdfa3: false},
		{name: "unknown level", xmp: `pdfaid:part="3" pdfaid:conformance="X"`, pdfa3: false},
		{name: "other prefix", xmp: `pdfa:part="3" pdfa:conformance="B"`, pdfa3: false},
		{name: "part 4", xmp: `pdfaid:part="4" pdfaid:conformance="B"`, pdfa3: false},
		{name: "empty", xmp: "", pdfa3: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.pdfa3, DeclaresPDFA3(tt.xmp))

			level, ok := ConformanceLevel(tt.xmp)
			assert.Equal(t, tt.wantLevel, ok)
			assert.Equal(t, tt.level, level)
		})
	}
}

func TestXMPMatching_PartPrecedence(t *testing.T) {
	// Part 3 is preferred when several parts appear in one packet
	xmp := `pdfaid:part="1" pdfaid:part="3" pdfaid:conformance="B"`
	level, ok := ConformanceLevel(xmp)
	require.True(t, ok)
	assert.Equal(t, "PDF/A-3B", level)
}

// newDocWithMetadata builds a one-page document whose catalog /Metadata is meta
func newDocWithMetadata(meta types.Object) *wrapper.MemoryGraph {
	g := wrapper.NewMemoryGraph()
	catalog := types.Dict{"Type": types.Name("Catalog")}
	if meta != nil {
		catalog["Metadata"] = meta
	}
	g.SetCatalog(catalog)
	g.AddPage(types.Dict{"Type": types.Name("Page")})
	return g
}

func xmpStream(g *wrapper.MemoryGraph, xmp string) types.IndirectRef {
	return g.Add(wrapper.NewStream(types.Dict{
		"Type":    types.Name("Metadata"),
		"Subtype": types.Name("XML"),
	}, []byte(xmp)))
}

func TestDetector_IsConformant(t *testing.T) {
	t.Run("attribute form", func(t *testing.T) {
		g := newDocWithMetadata(nil)
		catalog, err := g.Catalog()
		require.NoError(t, err)
		catalog["Metadata"] = xmpStream(g, xmpAttr3B)

		d := NewDetector(g, false)
		ok, err := d.IsConformant()
		require.NoError(t, err)
		assert.True(t, ok)

		level, found := d.Level()
		assert.True(t, found)
		assert.Equal(t, "PDF/A-3B", level)
	})

	t.Run("flate compressed element form", func(t *testing.T) {
		g := newDocWithMetadata(nil)

		var buf bytes.Buffer
		w := zlib.NewWriter(&buf)
		_, err := w.Write([]byte(xmpElem3B))
		require.NoError(t, err)
		require.NoError(t, w.Close())

		catalog, err := g.Catalog()
		require.NoError(t, err)
		catalog["Metadata"] = g.Add(wrapper.NewFilteredStream(nil, "FlateDecode", buf.Bytes()))

		ok, err := NewDetector(g, true).IsConformant()
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("part 2 lenient", func(t *testing.T) {
		g := newDocWithMetadata(nil)
		catalog, _ := g.Catalog()
		catalog["Metadata"] = xmpStream(g, `pdfaid:part="2" pdfaid:conformance="B"`)

		d := NewDetector(g, false)
		ok, err := d.IsConformant()
		require.NoError(t, err)
		assert.False(t, ok)

		level, found := d.Level()
		assert.True(t, found)
		assert.Equal(t, "PDF/A-2B", level)
		assert.Contains(t, d.Describe(), "not PDF/A-3")
	})

	t.Run("part 2 strict", func(t *testing.T) {
		g := newDocWithMetadata(nil)
		catalog, _ := g.Catalog()
		catalog["Metadata"] = xmpStream(g, `pdfaid:part="2" pdfaid:conformance="B"`)

		ok, err := NewDetector(g, true).IsConformant()
		assert.False(t, ok)
		assert.ErrorIs(t, err, pdferrors.ErrNotPDFA3)
	})

	t.Run("invalid utf-8 is tolerated", func(t *testing.T) {
		g := newDocWithMetadata(nil)
		catalog, _ := g.Catalog()
		catalog["Metadata"] = xmpStream(g, "\xff\xfe"+xmpAttr3B)

		ok, err := NewDetector(g, false).IsConformant()
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestDetector_ChainFailures(t *testing.T) {
	tests := []struct {
		name   string
		build  func() wrapper.ObjectGraph
		reason string
	}{
		{
			name:   "no catalog",
			build:  func() wrapper.ObjectGraph { return wrapper.NewMemoryGraph() },
			reason: "cannot read catalog",
		},
		{
			name:   "no metadata",
			build:  func() wrapper.ObjectGraph { return newDocWithMetadata(nil) },
			reason: "catalog has no /Metadata entry",
		},
		{
			name: "inline metadata",
			build: func() wrapper.ObjectGraph {
				return newDocWithMetadata(wrapper.NewStream(nil, []byte(xmpAttr3B)))
			},
			reason: "/Metadata entry is not an indirect reference",
		},
		{
			name: "dangling reference",
			build: func() wrapper.ObjectGraph {
				return newDocWithMetadata(*types.NewIndirectRef(777, 0))
			},
			reason: "cannot resolve /Metadata object",
		},
		{
			name: "not a stream",
			build: func() wrapper.ObjectGraph {
				g := newDocWithMetadata(nil)
				catalog, _ := g.Catalog()
				catalog["Metadata"] = g.Add(types.Dict{"Type": types.Name("Metadata")})
				return g
			},
			reason: "/Metadata object is not a stream",
		},
		{
			name: "undecodable stream",
			build: func() wrapper.ObjectGraph {
				g := newDocWithMetadata(nil)
				catalog, _ := g.Catalog()
				catalog["Metadata"] = g.Add(wrapper.NewFilteredStream(nil, "FlateDecode", []byte("garbage")))
				return g
			},
			reason: "cannot decompress /Metadata stream",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDetector(tt.build(), false)

			ok, err := d.IsConformant()
			assert.False(t, ok)
			require.Error(t, err)
			assert.ErrorIs(t, err, pdferrors.ErrNotPDFA3)
			assert.Contains(t, err.Error(), tt.reason)

			_, found := d.Level()
			assert.False(t, found)
			assert.Equal(t, "no PDF/A identification", d.Describe())
		})
	}
}

// trailerless hides the trailer of an otherwise complete document
type trailerless struct {
	*wrapper.MemoryGraph
}

func (trailerless) Trailer() types.Dict { return types.Dict{} }

func TestStructureValidator(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		ok, err := NewStructureValidator(newDocWithMetadata(nil)).Validate()
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("no catalog", func(t *testing.T) {
		g := wrapper.NewMemoryGraph()
		g.AddPage(types.Dict{})
		ok, err := NewStructureValidator(g).Validate()
		assert.False(t, ok)
		assert.ErrorIs(t, err, pdferrors.ErrInvalidPDF)
		assert.Contains(t, err.Error(), "catalog")
	})

	t.Run("no pages", func(t *testing.T) {
		g := wrapper.NewMemoryGraph()
		g.SetCatalog(types.Dict{"Type": types.Name("Catalog")})
		ok, err := NewStructureValidator(g).Validate()
		assert.False(t, ok)
		assert.ErrorIs(t, err, pdferrors.ErrInvalidPDF)
		assert.Contains(t, err.Error(), "no pages")
	})

	t.Run("empty trailer", func(t *testing.T) {
		ok, err := NewStructureValidator(trailerless{newDocWithMetadata(nil)}).Validate()
		assert.False(t, ok)
		assert.ErrorIs(t, err, pdferrors.ErrInvalidPDF)
		assert.Contains(t, err.Error(), "trailer")
	})
}
