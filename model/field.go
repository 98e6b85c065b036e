package model

import "github.com/frankiem-4/Metron/cst"

// FieldKindTag discriminates a field's tagged variant: scalars, arrays,
// and sub-module components, which would traditionally be distinguished
// by inheritance and runtime type checks, are instead one struct with an
// exhaustive tag.
type FieldKindTag int

const (
	KindScalar FieldKindTag = iota
	KindArray
	KindComponent
)

func (k FieldKindTag) String() string {
	switch k {
	case KindScalar:
		return "Scalar"
	case KindArray:
		return "Array"
	case KindComponent:
		return "Component"
	default:
		return "Scalar"
	}
}

// FieldKind is the exhaustive-dispatch tagged variant: Scalar{width},
// Array{width,count}, or Component{module_handle}.
type FieldKind struct {
	Tag FieldKindTag

	// Width is the raw, as-written bit-width expression for Scalar and
	// Array fields (e.g. "8" or a macro name) — kept as text rather than
	// folded to an int because the original dialect allows a width to be a
	// #define the collector can't always resolve.
	Width string
	// ResolvedWidth is the best-effort integer value of Width, or -1 if it
	// could not be constant-folded.
	ResolvedWidth int
	// Count is the declared element count for Array fields.
	Count int

	// ComponentType is the as-written module type name for Component
	// fields, before resolution.
	ComponentType string
	// Module is the resolved handle, set by the collector when
	// ComponentType names a module in the library. Nil until resolved.
	Module *Module
}

// Field is a declared data member of a module: a scalar logic field, an
// array, or a sub-module component (when Kind.Tag == KindComponent).
type Field struct {
	Name  string
	Range cst.Range
	Kind  FieldKind
	State State
}

// IsComponent reports whether this field is a sub-module component.
func (f *Field) IsComponent() bool {
	return f.Kind.Tag == KindComponent
}

// FieldRef is a reference to a field, optionally qualified by a
// component-local sub-field: when SubField is non-nil, Field names a
// component and SubField names one of that component's own fields.
// FieldRefs are non-owning references with lifetime bounded by the
// library.
type FieldRef struct {
	Field    *Field
	SubField *Field
}

// Resolved returns the field this reference actually touches: the
// sub-field when present, otherwise the outer field.
func (r FieldRef) Resolved() *Field {
	if r.SubField != nil {
		return r.SubField
	}
	return r.Field
}
