package attachments

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	pdferrors "github.com/chrbuchsteiner61/extractEmbedFilePDF/internal/pdf/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_NoEmbeddedFiles(t *testing.T) {
	doc := newTestDoc()
	doc.addPage()
	doc.setNameTree(doc.g.Add(types.Dict{"Names": types.Array{}}))

	ex := NewExtractor(doc.g, DefaultExtractorConfig(), nil)
	files, err := ex.Extract()
	assert.Nil(t, files)
	assert.ErrorIs(t, err, pdferrors.ErrNoEmbeddedFiles)
	assert.False(t, ex.HasFiles())
	assert.Zero(t, ex.CountFiles())
}

func TestExtract_DiscoveryOrder(t *testing.T) {
	doc := newTestDoc()
	first := doc.addSpec("first.xml", []byte("1"))
	second := doc.addSpec("second.pdf", []byte("2"))
	third := doc.addSpec("third.txt", []byte("3"))

	doc.setNameTree(doc.leafNode("first", first, "second", second))
	doc.addPage(doc.attachmentAnnot(third, nil))

	ex := NewExtractor(doc.g, DefaultExtractorConfig(), nil)
	files, err := ex.Extract()
	require.NoError(t, err)

	if diff := cmp.Diff([]string{"first.xml", "second.pdf", "third.txt"}, fileNames(files)); diff != "" {
		t.Errorf("unexpected order (-want +got):\n%s", diff)
	}
	assert.True(t, ex.HasFiles())
	assert.Equal(t, 3, ex.CountFiles())
}

func TestExtract_SkipsUnresolvableSpecs(t *testing.T) {
	doc := newTestDoc()
	good := doc.addSpec("good.xml", []byte("<ok/>"))
	broken := doc.g.Add(types.Dict{"F": types.StringLiteral("broken.xml"), "EF": types.Dict{}})

	doc.setNameTree(doc.leafNode("broken", broken, "good", good))

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	ex := NewExtractor(doc.g, DefaultExtractorConfig(), logger)
	files, err := ex.Extract()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "good.xml", files[0].Filename)

	diags := ex.Diagnostics().All()
	require.Len(t, diags, 1)
	assert.Equal(t, StageResolve, diags[0].Stage)
	assert.Equal(t, "broken", diags[0].Name)
	assert.ErrorIs(t, diags[0].Err, pdferrors.ErrExtraction)
	assert.Contains(t, logs.String(), "broken")
	assert.Contains(t, ex.Diagnostics().Summary(), "/EF has neither /F nor /UF")
}

func TestExtract_AllSpecsBroken(t *testing.T) {
	doc := newTestDoc()
	broken := doc.g.Add(types.Dict{"EF": types.Dict{}})
	doc.setNameTree(doc.leafNode("broken", broken))

	ex := NewExtractor(doc.g, DefaultExtractorConfig(), nil)
	_, err := ex.Extract()
	assert.ErrorIs(t, err, pdferrors.ErrNoEmbeddedFiles)
	assert.Equal(t, 1, ex.Diagnostics().Len())
}

func TestExtract_SizeLimitAbortsBatch(t *testing.T) {
	doc := newTestDoc()
	small := doc.addSpec("small.xml", bytes.Repeat([]byte("s"), 5))
	large := doc.addSpec("large.xml", bytes.Repeat([]byte("l"), 20))
	doc.setNameTree(doc.leafNode("small", small, "large", large))

	outDir := filepath.Join(t.TempDir(), "out")
	config := ExtractorConfig{
		MaxEmbeddedFileSize: 10,
		ExtractToDisk:       true,
		OutputDirectory:     outDir,
	}

	files, err := NewExtractor(doc.g, config, nil).Extract()
	assert.Nil(t, files)
	require.Error(t, err)
	assert.ErrorIs(t, err, pdferrors.ErrFileSizeExceeded)
	assert.Contains(t, err.Error(), "large.xml")

	// Nothing is written when the batch aborts
	_, statErr := os.Stat(outDir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestExtract_SizeLimitBoundary(t *testing.T) {
	doc := newTestDoc()
	exact := doc.addSpec("exact.bin", bytes.Repeat([]byte("x"), 10))
	doc.setNameTree(doc.leafNode("exact", exact))

	files, err := NewExtractor(doc.g, ExtractorConfig{MaxEmbeddedFileSize: 10}, nil).Extract()
	require.NoError(t, err)
	assert.Len(t, files, 1)

	// 0 disables the limit
	files, err = NewExtractor(doc.g, ExtractorConfig{MaxEmbeddedFileSize: 0}, nil).Extract()
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestExtract_Persistence(t *testing.T) {
	newDoc := func() *testDoc {
		doc := newTestDoc()
		a := doc.addSpec("a.xml", []byte("<a/>"))
		b := doc.addSpec("b.pdf", []byte("%PDF"))
		doc.setNameTree(doc.leafNode("a", a, "b", b))
		return doc
	}

	t.Run("written to output directory", func(t *testing.T) {
		outDir := filepath.Join(t.TempDir(), "extracted")
		config := ExtractorConfig{ExtractToDisk: true, OutputDirectory: outDir}

		files, err := NewExtractor(newDoc().g, config, nil).Extract()
		require.NoError(t, err)
		require.Len(t, files, 2)

		for _, f := range files {
			got, err := os.ReadFile(filepath.Join(outDir, f.Filename))
			require.NoError(t, err)
			assert.Equal(t, f.Data, got)
		}
	})

	t.Run("no directory means memory only", func(t *testing.T) {
		config := ExtractorConfig{ExtractToDisk: true}
		files, err := NewExtractor(newDoc().g, config, nil).Extract()
		require.NoError(t, err)
		assert.Len(t, files, 2)
	})

	t.Run("directory without flag is ignored", func(t *testing.T) {
		outDir := filepath.Join(t.TempDir(), "unused")
		config := ExtractorConfig{OutputDirectory: outDir}
		_, err := NewExtractor(newDoc().g, config, nil).Extract()
		require.NoError(t, err)

		_, statErr := os.Stat(outDir)
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("escaping filename fails the write", func(t *testing.T) {
		doc := newTestDoc()
		evil := doc.addSpec("../evil.xml", []byte("x"))
		doc.setNameTree(doc.leafNode("evil", evil))

		outDir := filepath.Join(t.TempDir(), "out")
		config := ExtractorConfig{ExtractToDisk: true, OutputDirectory: outDir}
		_, err := NewExtractor(doc.g, config, nil).Extract()
		assert.ErrorIs(t, err, pdferrors.ErrIO)
	})
}
