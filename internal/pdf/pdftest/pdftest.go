// Package pdftest generates small PDF files for tests: a catalog, one page,
// an optional XMP metadata stream and embedded files in the EmbeddedFiles
// name tree.
package pdftest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// XMP3B declares PDF/A-3B in attribute form
const XMP3B = `<x:xmpmeta xmlns:x="adobe:ns:meta/">
<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
<rdf:Description rdf:about="" xmlns:pdfaid="http://www.aiim.org/pdfa/ns/id/" pdfaid:part="3" pdfaid:conformance="B"/>
</rdf:RDF>
</x:xmpmeta>`

// Attachment is one file placed in the EmbeddedFiles name tree
type Attachment struct {
	Name        string
	Content     string
	Description string
}

// Objects serialises numbered objects into a file with a classic
// cross-reference table. objs[i] becomes object i+1.
func Objects(objs []string) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n%\xE2\xE3\xCF\xD3\n")

	offsets := make([]int, len(objs))
	for i, body := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objs)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return buf.Bytes()
}

func streamObject(dict, data string) string {
	return fmt.Sprintf("<< %s /Length %d >>\nstream\n%s\nendstream", dict, len(data), data)
}

// Build returns a one-page document carrying the given attachments and,
// when xmp is non-empty, a catalog /Metadata stream
func Build(xmp string, files ...Attachment) []byte {
	// 1 catalog, 2 pages, 3 page, 4 metadata, 5 name tree, then spec/stream pairs
	objs := make([]string, 5, 5+2*len(files))

	catalog := "<< /Type /Catalog /Pages 2 0 R"
	if len(files) > 0 {
		catalog += " /Names << /EmbeddedFiles 5 0 R >>"
	}
	if xmp != "" {
		catalog += " /Metadata 4 0 R"
	}
	objs[0] = catalog + " >>"
	objs[1] = "<< /Type /Pages /Kids [3 0 R] /Count 1 >>"
	objs[2] = "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>"
	objs[3] = streamObject("/Type /Metadata /Subtype /XML", xmp)

	names := ""
	for i, f := range files {
		spec := 6 + 2*i
		stream := spec + 1
		names += fmt.Sprintf("(%s) %d 0 R ", f.Name, spec)

		specDict := fmt.Sprintf("<< /Type /Filespec /F (%s) /UF (%s) /AFRelationship /Data /EF << /F %d 0 R >>",
			f.Name, f.Name, stream)
		if f.Description != "" {
			specDict += fmt.Sprintf(" /Desc (%s)", f.Description)
		}
		objs = append(objs,
			specDict+" >>",
			streamObject(fmt.Sprintf("/Type /EmbeddedFile /Params << /Size %d >>", len(f.Content)), f.Content))
	}
	objs[4] = fmt.Sprintf("<< /Names [%s] >>", names)

	return Objects(objs)
}

// Write writes a generated document into dir and returns its path
func Write(t testing.TB, dir, name, xmp string, files ...Attachment) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, Build(xmp, files...), 0o644); err != nil {
		t.Fatalf("failed to write test PDF: %v", err)
	}
	return path
}

// Invoice returns the attachments of a typical hybrid invoice: the invoice
// XML followed by a plain text note
func Invoice() []Attachment {
	return []Attachment{
		{Name: "factur-x.xml", Content: "<rsm:CrossIndustryInvoice/>", Description: "Invoice data"},
		{Name: "notes.txt", Content: "paid"},
	}
}
