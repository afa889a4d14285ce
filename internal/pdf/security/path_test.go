package security

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// newRoot creates <tmp>/root with a PDF, a subdirectory and a sibling
// directory outside the root
func newRoot(t *testing.T) (root, outside string) {
	t.Helper()
	base, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("failed to resolve temp dir: %v", err)
	}
	root = filepath.Join(base, "root")
	outside = filepath.Join(base, "outside")
	for _, dir := range []string{filepath.Join(root, "batch"), outside} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}
	for _, file := range []string{filepath.Join(root, "invoice.pdf"), filepath.Join(outside, "other.pdf")} {
		if err := os.WriteFile(file, []byte("%PDF-1.7"), 0o644); err != nil {
			t.Fatalf("failed to create %s: %v", file, err)
		}
	}
	return root, outside
}

func TestNewPathValidator(t *testing.T) {
	if _, err := NewPathValidator(""); err == nil {
		t.Error("expected error for an empty root")
	}

	// Roots are not required to exist
	v, err := NewPathValidator("/non/existent/root")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Root() != "/non/existent/root" {
		t.Errorf("Root() = %q", v.Root())
	}
}

func TestPathValidator_ValidatePath(t *testing.T) {
	root, outside := newRoot(t)
	v, err := NewPathValidator(root)
	if err != nil {
		t.Fatalf("failed to create validator: %v", err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{name: "file in root", path: filepath.Join(root, "invoice.pdf")},
		{name: "root itself", path: root},
		{name: "not yet existing file", path: filepath.Join(root, "batch", "new.xml")},
		{name: "empty path", path: "", wantErr: "path cannot be empty"},
		{name: "sibling directory", path: filepath.Join(outside, "other.pdf"), wantErr: "outside configured directory"},
		{name: "traversal", path: filepath.Join(root, "..", "outside", "other.pdf"), wantErr: "outside configured directory"},
		{name: "common prefix", path: root + "-other", wantErr: "outside configured directory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidatePath(tt.path)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidatePath(%q) unexpected error: %v", tt.path, err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ValidatePath(%q) error = %v, want %q", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestPathValidator_MissingRootAcceptsAll(t *testing.T) {
	v, err := NewPathValidator(filepath.Join(t.TempDir(), "later"))
	if err != nil {
		t.Fatalf("failed to create validator: %v", err)
	}
	if err := v.ValidatePath("/etc/passwd"); err != nil {
		t.Errorf("paths should be accepted while the root does not exist: %v", err)
	}
}

func TestPathValidator_Symlinks(t *testing.T) {
	root, outside := newRoot(t)
	link := filepath.Join(root, "escape.pdf")
	if err := os.Symlink(filepath.Join(outside, "other.pdf"), link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	v, err := NewPathValidator(root)
	if err != nil {
		t.Fatalf("failed to create validator: %v", err)
	}
	ok, err := v.Contains(link)
	if err != nil {
		t.Fatalf("Contains() error: %v", err)
	}
	if ok {
		t.Error("a link pointing outside the root should be rejected")
	}

	// A root reached through a link is still the same root
	linkedRoot := filepath.Join(outside, "linked-root")
	if err := os.Symlink(root, linkedRoot); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	lv, err := NewPathValidator(linkedRoot)
	if err != nil {
		t.Fatalf("failed to create validator: %v", err)
	}
	if err := lv.ValidatePath(filepath.Join(root, "invoice.pdf")); err != nil {
		t.Errorf("file below the resolved root should be accepted: %v", err)
	}
}

func TestPathValidator_Resolve(t *testing.T) {
	root, _ := newRoot(t)
	v, err := NewPathValidator(root)
	if err != nil {
		t.Fatalf("failed to create validator: %v", err)
	}

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{name: "relative name", path: "invoice.pdf", want: filepath.Join(root, "invoice.pdf")},
		{name: "relative directory", path: "batch/2024", want: filepath.Join(root, "batch", "2024")},
		{name: "absolute inside", path: filepath.Join(root, "batch"), want: filepath.Join(root, "batch")},
		{name: "null bytes removed", path: "inv\x00oice.pdf", want: filepath.Join(root, "invoice.pdf")},
		{name: "relative traversal", path: "../outside/other.pdf", wantErr: true},
		{name: "absolute outside", path: "/etc/passwd", wantErr: true},
		{name: "empty", path: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Resolve(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Resolve(%q) = %q, want error", tt.path, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q) unexpected error: %v", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestPathValidator_ValidateDirectory(t *testing.T) {
	root, outside := newRoot(t)
	v, err := NewPathValidator(root)
	if err != nil {
		t.Fatalf("failed to create validator: %v", err)
	}

	if err := v.ValidateDirectory(filepath.Join(root, "batch")); err != nil {
		t.Errorf("existing subdirectory: unexpected error %v", err)
	}
	if err := v.ValidateDirectory(filepath.Join(root, "not-yet")); err != nil {
		t.Errorf("missing subdirectory should be accepted: %v", err)
	}
	if err := v.ValidateDirectory(filepath.Join(root, "invoice.pdf")); err == nil ||
		!strings.Contains(err.Error(), "not a directory") {
		t.Errorf("file: error = %v, want not a directory", err)
	}
	if err := v.ValidateDirectory(outside); err == nil {
		t.Error("directory outside the root should be rejected")
	}
}

func TestContainedPath(t *testing.T) {
	dir := filepath.Join(os.TempDir(), "attachments")

	tests := []struct {
		name       string
		file       string
		want       string
		wantError  bool
		wantEscape bool
	}{
		{name: "plain name", file: "factur-x.xml", want: filepath.Join(dir, "factur-x.xml")},
		{name: "nested name", file: "sub/invoice.xml", want: filepath.Join(dir, "sub", "invoice.xml")},
		{name: "dot segments that stay inside", file: "sub/../invoice.xml", want: filepath.Join(dir, "invoice.xml")},
		{name: "null bytes removed", file: "inv\x00oice.xml", want: filepath.Join(dir, "invoice.xml")},
		{name: "empty name", file: "", wantError: true},
		{name: "parent directory", file: "../evil.xml", wantError: true, wantEscape: true},
		{name: "deep traversal", file: "a/../../../etc/passwd", wantError: true, wantEscape: true},
		{name: "absolute name", file: "/etc/passwd", wantError: true, wantEscape: true},
		{name: "dot only", file: ".", wantError: true, wantEscape: true},
		{name: "only null bytes", file: "\x00", wantError: true, wantEscape: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ContainedPath(dir, tt.file)

			if tt.wantError {
				if err == nil {
					t.Fatalf("expected error for %q, got path %q", tt.file, got)
				}
				if tt.wantEscape && !errors.Is(err, ErrPathEscapes) {
					t.Errorf("expected ErrPathEscapes, got %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
