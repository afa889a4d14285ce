package attachments

import (
	"encoding/hex"
	"strings"

	pdferrors "github.com/chrbuchsteiner61/extractEmbedFilePDF/internal/pdf/errors"
	"github.com/chrbuchsteiner61/extractEmbedFilePDF/internal/pdf/wrapper"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Resolver turns a file specification into an EmbeddedFile
type Resolver struct {
	graph wrapper.ObjectGraph
	diag  *Diagnostics
}

// NewResolver creates a resolver over graph. diag may be nil.
func NewResolver(graph wrapper.ObjectGraph, diag *Diagnostics) *Resolver {
	return &Resolver{graph: graph, diag: diag}
}

// Resolve reads the file specification at ref. name is the display name found
// during discovery. The returned error is always an extraction error for name.
func (r *Resolver) Resolve(name string, ref types.IndirectRef) (*EmbeddedFile, error) {
	spec, err := wrapper.ResolveDict(r.graph, ref)
	if err != nil {
		return nil, pdferrors.NewExtractionError(name, "file spec is not a dictionary", err)
	}

	ef, err := r.embeddedFilesDict(spec, name)
	if err != nil {
		return nil, err
	}

	stream, err := r.embeddedStream(ef, name)
	if err != nil {
		return nil, err
	}

	data, err := r.graph.Decompress(stream)
	if err != nil {
		// Undecodable content is returned as stored
		r.diag.Add(Diagnostic{
			Stage:  StageDecode,
			Name:   name,
			Ref:    refPtr(ref),
			Reason: "stream could not be decoded, using raw bytes",
			Err:    err,
		})
		data = stream.Raw
	}

	return &EmbeddedFile{
		Filename: bestFilename(spec, name),
		Data:     data,
		Metadata: r.readMetadata(spec, stream.Dict),
	}, nil
}

// embeddedFilesDict returns the EF dictionary, stored inline or indirect
func (r *Resolver) embeddedFilesDict(spec types.Dict, name string) (types.Dict, error) {
	efObj, found := spec.Find("EF")
	if !found {
		return nil, pdferrors.NewExtractionError(name, "missing /EF entry", nil)
	}

	ef, err := wrapper.ResolveDict(r.graph, efObj)
	if err != nil {
		return nil, pdferrors.NewExtractionError(name, "/EF is not a dictionary", err)
	}
	return ef, nil
}

// embeddedStream picks EF/UF over EF/F and resolves it to a stream
func (r *Resolver) embeddedStream(ef types.Dict, name string) (*types.StreamDict, error) {
	streamObj, found := ef.Find("UF")
	if !found {
		streamObj, found = ef.Find("F")
	}
	if !found {
		return nil, pdferrors.NewExtractionError(name, "/EF has neither /F nor /UF", nil)
	}

	stream, err := wrapper.ResolveStream(r.graph, streamObj)
	if err != nil {
		return nil, pdferrors.NewExtractionError(name, "embedded stream object is not a stream", err)
	}
	return stream, nil
}

// bestFilename prefers the Unicode name, then the ASCII name, then the
// discovery name
func bestFilename(spec types.Dict, fallback string) string {
	for _, key := range []string{"UF", "F"} {
		if s, ok := wrapper.NonEmptyText(spec, key); ok {
			return s
		}
	}
	if fallback != "" {
		return fallback
	}
	return DefaultAttachmentName
}

// readMetadata collects the optional metadata. Missing or malformed entries
// leave the corresponding field unset.
func (r *Resolver) readMetadata(spec, streamDict types.Dict) Metadata {
	var m Metadata

	if desc, ok := wrapper.NonEmptyText(spec, "Desc"); ok {
		m.Description = &desc
	}

	// Subtype is the MIME type as a name, e.g. /application#2Fxml
	if subtype, ok := wrapper.NameValue(spec["Subtype"]); ok {
		mime := strings.ToLower(strings.ReplaceAll(subtype, "#", ""))
		m.MIMEType = &mime
	}

	if rel, ok := wrapper.NameValue(spec["AFRelationship"]); ok && rel != "" {
		m.Relationship = &rel
	}

	paramsObj, found := streamDict.Find("Params")
	if !found {
		return m
	}
	params, err := wrapper.ResolveDict(r.graph, paramsObj)
	if err != nil {
		return m
	}

	if modDate, ok := wrapper.NonEmptyText(params, "ModDate"); ok {
		m.ModificationDate = &modDate
	}
	if creationDate, ok := wrapper.NonEmptyText(params, "CreationDate"); ok {
		m.CreationDate = &creationDate
	}
	if size, ok := wrapper.IntValue(params["Size"]); ok {
		m.Size = &size
	}
	if sum, ok := wrapper.ByteString(params["CheckSum"]); ok {
		checksum := hex.EncodeToString(sum)
		m.Checksum = &checksum
	}

	return m
}
