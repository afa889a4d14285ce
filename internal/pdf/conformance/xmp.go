// Package conformance checks PDF structure and reads the PDF/A
// identification declared in a document's XMP metadata.
//
// The XMP packet is matched literally against the pdfaid:part and
// pdfaid:conformance properties in attribute form (pdfaid:part="3") and
// element form (<pdfaid:part>3</pdfaid:part>). Packets that bind the PDF/A
// identification namespace to a prefix other than "pdfaid" are not recognised.
package conformance

import (
	"fmt"
	"strings"
)

// Levels lists the accepted conformance levels. Matching is case-sensitive.
var Levels = []string{"A", "B", "U"}

// declaresProperty reports whether xmp sets pdfaid:<prop> to value
func declaresProperty(xmp, prop, value string) bool {
	attr := fmt.Sprintf(`pdfaid:%s="%s"`, prop, value)
	elem := fmt.Sprintf(`<pdfaid:%s>%s</pdfaid:%s>`, prop, value, prop)
	return strings.Contains(xmp, attr) || strings.Contains(xmp, elem)
}

// DeclaresPart reports whether xmp declares PDF/A part n
func DeclaresPart(xmp string, n int) bool {
	return declaresProperty(xmp, "part", fmt.Sprint(n))
}

// DeclaredLevel returns the first of A, B and U that xmp declares
func DeclaredLevel(xmp string) (string, bool) {
	for _, level := range Levels {
		if declaresProperty(xmp, "conformance", level) {
			return level, true
		}
	}
	return "", false
}

// DeclaresPDFA3 reports whether xmp declares part 3 together with a
// valid conformance level
func DeclaresPDFA3(xmp string) bool {
	if !DeclaresPart(xmp, 3) {
		return false
	}
	_, ok := DeclaredLevel(xmp)
	return ok
}

// ConformanceLevel returns a level string such as "PDF/A-3B". Parts are
// checked in the order 3, 2, 1.
func ConformanceLevel(xmp string) (string, bool) {
	for _, part := range []int{3, 2, 1} {
		if !DeclaresPart(xmp, part) {
			continue
		}
		level, ok := DeclaredLevel(xmp)
		if !ok {
			return "", false
		}
		return fmt.Sprintf("PDF/A-%d%s", part, level), true
	}
	return "", false
}
