// Package security confines file access to configured directories: the PDF
// directory requests are read from and the output root attachments are
// written to.
package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrPathEscapes is returned when a name would resolve outside its directory
var ErrPathEscapes = errors.New("path escapes the target directory")

// within reports whether target is dir itself or lies below it. Both paths
// must be clean and absolute.
func within(dir, target string) bool {
	rel, err := filepath.Rel(dir, target)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// ContainedPath joins dir and name and verifies the result lies strictly
// inside dir. Absolute names and names that climb out of dir are rejected.
func ContainedPath(dir, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("file name cannot be empty")
	}
	name = strings.ReplaceAll(name, "\x00", "")
	if filepath.IsAbs(name) || filepath.VolumeName(name) != "" {
		return "", fmt.Errorf("%w: %s", ErrPathEscapes, name)
	}

	cleanDir := filepath.Clean(dir)
	target := filepath.Join(cleanDir, name)
	if target == cleanDir || !within(cleanDir, target) {
		return "", fmt.Errorf("%w: %s", ErrPathEscapes, name)
	}
	return target, nil
}

// PathValidator confines paths to a root directory. While the root does not
// exist every path is accepted, so placeholder roots stay usable.
type PathValidator struct {
	root string
}

// NewPathValidator creates a validator for root
func NewPathValidator(root string) (*PathValidator, error) {
	if root == "" {
		return nil, fmt.Errorf("configured directory cannot be empty")
	}
	return &PathValidator{root: root}, nil
}

// Root returns the directory paths are confined to
func (v *PathValidator) Root() string {
	return v.root
}

func (v *PathValidator) rootExists() bool {
	_, err := os.Stat(v.root)
	return !os.IsNotExist(err)
}

// Resolve returns the absolute form of path after validating it. Relative
// paths are taken relative to the root.
func (v *PathValidator) Resolve(path string) (string, error) {
	path = strings.ReplaceAll(path, "\x00", "")
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(v.root, path)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	if err := v.ValidatePath(absPath); err != nil {
		return "", err
	}
	return absPath, nil
}

// ValidatePath checks that path lies within the root
func (v *PathValidator) ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	ok, err := v.Contains(path)
	if err != nil {
		return fmt.Errorf("path validation failed: %w", err)
	}
	if !ok {
		return fmt.Errorf("path is outside configured directory: %s", path)
	}
	return nil
}

// Contains reports whether path lies within the root. Symbolic links in the
// root are resolved, and so is path when it is a link itself; both the
// literal and the resolved location must be inside.
func (v *PathValidator) Contains(path string) (bool, error) {
	if !v.rootExists() {
		return true, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Errorf("failed to resolve path: %w", err)
	}
	absRoot, err := filepath.Abs(v.root)
	if err != nil {
		return false, fmt.Errorf("failed to resolve configured directory: %w", err)
	}

	realRoot := absRoot
	if resolved, err := filepath.EvalSymlinks(absRoot); err == nil {
		realRoot = resolved
	}

	realPath := absPath
	if info, err := os.Lstat(absPath); err == nil && info.Mode()&os.ModeSymlink != 0 {
		if resolved, err := filepath.EvalSymlinks(absPath); err == nil {
			realPath = resolved
		}
	}

	inside := func(p string) bool {
		return within(absRoot, p) || within(realRoot, p)
	}
	return inside(absPath) && inside(realPath), nil
}

// ValidateDirectory checks that dir lies within the root and, if it exists,
// is a directory
func (v *PathValidator) ValidateDirectory(dir string) error {
	if err := v.ValidatePath(dir); err != nil {
		return err
	}

	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", dir)
	}
	return nil
}
