// Package attachments discovers, resolves and extracts the embedded files of
// a PDF document.
package attachments

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Stage names the pass that skipped an object
type Stage string

const (
	StageNameTree   Stage = "name_tree"
	StageAnnotation Stage = "annotation"
	StageResolve    Stage = "resolve"
	StageDecode     Stage = "decode"
)

// Diagnostic records one skipped or degraded object
type Diagnostic struct {
	Stage  Stage              `json:"stage"`
	Name   string             `json:"name,omitempty"`
	Ref    *types.IndirectRef `json:"ref,omitempty"`
	Reason string             `json:"reason"`
	Err    error              `json:"-"`
}

func (d Diagnostic) String() string {
	var b strings.Builder
	b.WriteString(string(d.Stage))
	if d.Name != "" {
		fmt.Fprintf(&b, " %q", d.Name)
	}
	if d.Ref != nil {
		fmt.Fprintf(&b, " (%s)", d.Ref.String())
	}
	b.WriteString(": ")
	b.WriteString(d.Reason)
	if d.Err != nil {
		fmt.Fprintf(&b, ": %v", d.Err)
	}
	return b.String()
}

// Diagnostics collects the skip reasons of a discovery or extraction pass.
// Every entry is also logged at warn level. A nil *Diagnostics discards.
type Diagnostics struct {
	logger  *slog.Logger
	entries []Diagnostic
}

// NewDiagnostics creates an empty collector. A nil logger discards output.
func NewDiagnostics(logger *slog.Logger) *Diagnostics {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Diagnostics{logger: logger}
}

// Add records d
func (d *Diagnostics) Add(diag Diagnostic) {
	if d == nil {
		return
	}
	d.entries = append(d.entries, diag)

	attrs := []any{"stage", string(diag.Stage), "reason", diag.Reason}
	if diag.Name != "" {
		attrs = append(attrs, "name", diag.Name)
	}
	if diag.Ref != nil {
		attrs = append(attrs, "ref", diag.Ref.String())
	}
	if diag.Err != nil {
		attrs = append(attrs, "error", diag.Err)
	}
	d.logger.Warn("skipped PDF object", attrs...)
}

func (d *Diagnostics) skip(stage Stage, ref *types.IndirectRef, reason string) {
	d.Add(Diagnostic{Stage: stage, Ref: ref, Reason: reason})
}

// All returns a copy of the recorded entries in the order they occurred
func (d *Diagnostics) All() []Diagnostic {
	if d == nil {
		return nil
	}
	out := make([]Diagnostic, len(d.entries))
	copy(out, d.entries)
	return out
}

// Len returns the number of recorded entries
func (d *Diagnostics) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Reset drops all recorded entries
func (d *Diagnostics) Reset() {
	if d == nil {
		return
	}
	d.entries = d.entries[:0]
}

// Summary renders one line per entry
func (d *Diagnostics) Summary() string {
	if d.Len() == 0 {
		return ""
	}
	lines := make([]string, 0, len(d.entries))
	for _, e := range d.entries {
		lines = append(lines, e.String())
	}
	return strings.Join(lines, "\n")
}

func refPtr(ref types.IndirectRef) *types.IndirectRef {
	return &ref
}
