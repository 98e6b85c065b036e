// Package classify implements the method classifier: after tracing has
// assigned every field its final lattice state, each method is scanned for
// the states it writes and tagged a combinational producer, an output
// driver, a sequential updater, or some combination of the three.
package classify

import (
	"github.com/frankiem-4/Metron/diag"
	"github.com/frankiem-4/Metron/model"
)

// Classify scans method.FieldsWritten and sets WritesSignal, WritesOutput,
// and WritesRegister according to the traced state of each written field.
// A method that writes an Invalid field is reported as a fatal diagnostic
// rather than silently classified, since the tracer has already flagged
// the underlying field usage as contradictory. logger receives one Infof
// per call; a nil logger is silent.
func Classify(logger *diag.Logger, method *model.Method, bag *diag.Bag) {
	logger.Infof("classifying %s", method.Name)
	seen := map[*model.Field]bool{}
	for _, ref := range method.FieldsWritten {
		field := ref.Resolved()
		if field == nil || seen[field] {
			continue
		}
		seen[field] = true

		switch field.State {
		case model.StateSignal:
			method.WritesSignal = true
		case model.StateOutput:
			method.WritesOutput = true
		case model.StateRegister:
			method.WritesRegister = true
		case model.StateInvalid:
			bag.Errorf("E_INVALID_WRITE", method.Range, "method %q writes field %q which the tracer marked Invalid", method.Name, field.Name)
		}
	}
}
