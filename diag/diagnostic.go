// Package diag implements the cumulative diagnostic object: (severity,
// source range, message) entries that accumulate across a whole pipeline
// step rather than aborting it, plus an indentation-scoped logger as the
// project's only process-wide state.
package diag

import (
	"fmt"

	"github.com/frankiem-4/Metron/cst"
	"go.uber.org/multierr"
)

// Severity distinguishes diagnostics that fail a phase from ones that
// merely get reported.
type Severity int

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Diagnostic identifies the source file, byte range, module name, and —
// where applicable — the field or method name involved in a failure.
// Code is a short machine-readable tag (e.g. "E_CROSS_CLOCK") alongside
// the free-text Message.
type Diagnostic struct {
	Severity Severity
	Code     string
	Message  string
	Range    cst.Range
	Source   string
	Module   string
	Field    string
	Method   string
}

func (d Diagnostic) Error() string {
	loc := d.Source
	if d.Module != "" {
		loc = fmt.Sprintf("%s:%s", loc, d.Module)
	}
	if d.Method != "" {
		loc = fmt.Sprintf("%s.%s", loc, d.Method)
	}
	if d.Field != "" {
		loc = fmt.Sprintf("%s#%s", loc, d.Field)
	}
	if d.Code != "" {
		return fmt.Sprintf("[%s] %s: %s (%s)", d.Severity, loc, d.Message, d.Code)
	}
	return fmt.Sprintf("[%s] %s: %s", d.Severity, loc, d.Message)
}

// Bag is an append-only cumulative diagnostic value: errors and warnings
// accumulate into it across a top-level step, and only the end of the step
// inspects it to decide overall success.
type Bag struct {
	diagnostics []Diagnostic
	err         error
}

// NewBag returns an empty diagnostic bag.
func NewBag() *Bag {
	return &Bag{}
}

// Add appends a diagnostic. Errors are folded into the bag's aggregate
// error via multierr so Err() reflects overall pass/fail without the
// caller tracking severities itself.
func (b *Bag) Add(d Diagnostic) {
	b.diagnostics = append(b.diagnostics, d)
	if d.Severity == Error {
		b.err = multierr.Append(b.err, d)
	}
}

// Warning is a convenience constructor for Add with Severity: Warning.
func (b *Bag) Warning(code, message string, r cst.Range) {
	b.Add(Diagnostic{Severity: Warning, Code: code, Message: message, Range: r})
}

// Errorf is a convenience constructor for Add with Severity: Error.
func (b *Bag) Errorf(code string, r cst.Range, format string, args ...interface{}) {
	b.Add(Diagnostic{Severity: Error, Code: code, Message: fmt.Sprintf(format, args...), Range: r})
}

// All returns every diagnostic added so far, in insertion order.
func (b *Bag) All() []Diagnostic {
	return b.diagnostics
}

// HasErrors reports whether any Error-severity diagnostic was added.
func (b *Bag) HasErrors() bool {
	return b.err != nil
}

// Err returns the aggregate error, or nil if no Error-severity diagnostic
// was added. Any `error` encountered during process_sources causes the
// overall operation to fail once this is inspected.
func (b *Bag) Err() error {
	return b.err
}

// Merge folds another bag's diagnostics into this one, preserving order.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	for _, d := range other.diagnostics {
		b.Add(d)
	}
}
