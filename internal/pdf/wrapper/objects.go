package wrapper

import (
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Ref returns the reference held by obj, if obj is an indirect reference
func Ref(obj types.Object) (types.IndirectRef, bool) {
	switch v := obj.(type) {
	case types.IndirectRef:
		return v, true
	case *types.IndirectRef:
		if v == nil {
			return types.IndirectRef{}, false
		}
		return *v, true
	default:
		return types.IndirectRef{}, false
	}
}

// TextString decodes a PDF text string (literal or hex, PDFDocEncoding or
// UTF-16BE with BOM) into UTF-8.
func TextString(obj types.Object) (string, bool) {
	switch v := obj.(type) {
	case types.StringLiteral:
		s, err := types.StringLiteralToString(v)
		if err != nil {
			return "", false
		}
		return s, true
	case types.HexLiteral:
		s, err := types.HexLiteralToString(v)
		if err != nil {
			return "", false
		}
		return s, true
	default:
		return "", false
	}
}

// NonEmptyText returns the decoded text string stored under key, if any
func NonEmptyText(d types.Dict, key string) (string, bool) {
	obj, found := d[key]
	if !found {
		return "", false
	}
	s, ok := TextString(obj)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// ByteString returns the raw bytes of a string object without any text decoding
func ByteString(obj types.Object) ([]byte, bool) {
	switch v := obj.(type) {
	case types.StringLiteral:
		b, err := types.Unescape(v.Value())
		if err != nil {
			return nil, false
		}
		return b, true
	case types.HexLiteral:
		b, err := v.Bytes()
		if err != nil {
			return nil, false
		}
		return b, true
	default:
		return nil, false
	}
}

// NameValue returns the value of a name object
func NameValue(obj types.Object) (string, bool) {
	switch v := obj.(type) {
	case types.Name:
		return v.Value(), true
	case *types.Name:
		if v == nil {
			return "", false
		}
		return v.Value(), true
	default:
		return "", false
	}
}

// IntValue returns the value of an integer object
func IntValue(obj types.Object) (int64, bool) {
	switch v := obj.(type) {
	case types.Integer:
		return int64(v.Value()), true
	case *types.Integer:
		if v == nil {
			return 0, false
		}
		return int64(v.Value()), true
	default:
		return 0, false
	}
}
