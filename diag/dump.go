package diag

import "gopkg.in/yaml.v3"

// dumpEntry is the YAML-friendly projection of a Diagnostic.
type dumpEntry struct {
	Severity string `yaml:"severity"`
	Code     string `yaml:"code,omitempty"`
	Message  string `yaml:"message"`
	Source   string `yaml:"source,omitempty"`
	Module   string `yaml:"module,omitempty"`
	Method   string `yaml:"method,omitempty"`
	Field    string `yaml:"field,omitempty"`
	Start    uint32 `yaml:"start"`
	End      uint32 `yaml:"end"`
}

// Dump renders every diagnostic in the bag as a YAML document, for
// downstream tooling that wants a structured (severity, range, message)
// record rather than formatted log lines.
func (b *Bag) Dump() ([]byte, error) {
	entries := make([]dumpEntry, 0, len(b.diagnostics))
	for _, d := range b.diagnostics {
		entries = append(entries, dumpEntry{
			Severity: d.Severity.String(),
			Code:     d.Code,
			Message:  d.Message,
			Source:   d.Source,
			Module:   d.Module,
			Method:   d.Method,
			Field:    d.Field,
			Start:    d.Range.Start,
			End:      d.Range.End,
		})
	}
	return yaml.Marshal(entries)
}
