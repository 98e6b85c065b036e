package model

import "github.com/frankiem-4/Metron/cst"

// MethodKind is the inferred role of a method within the clocking model.
// clock() and reset() are treated as clocked-write methods alongside
// tick(), and the tracer follows suit.
type MethodKind int

const (
	KindUnknown MethodKind = iota
	KindTick
	KindTock
	KindClock
	KindReset
	KindFunc
	KindHelper
)

func (k MethodKind) String() string {
	switch k {
	case KindTick:
		return "tick"
	case KindTock:
		return "tock"
	case KindClock:
		return "clock"
	case KindReset:
		return "reset"
	case KindFunc:
		return "func"
	case KindHelper:
		return "helper"
	default:
		return "unknown"
	}
}

// IsClockedWrite reports whether a write performed by a method of this kind
// is a clocked (Register) write rather than a combinational (Signal) one.
func (k MethodKind) IsClockedWrite() bool {
	return k == KindTick || k == KindClock || k == KindReset
}

// Method is a declared member function of a module.
type Method struct {
	Name  string
	Range cst.Range
	Kind  MethodKind

	// Params are treated as CTX_PARAM contexts; Return, when
	// non-nil, is the CTX_RETURN slot.
	Params []*Field
	Return *Field

	// Body is the method's compound_statement node, kept from collection so
	// the body analyzer (walk package) doesn't need to re-locate it.
	Body cst.Node

	// FieldsRead / FieldsWritten are the ordered multisets the body
	// analyzer populates. Order matches occurrence in
	// the body, flattened across control flow.
	FieldsRead    []FieldRef
	FieldsWritten []FieldRef

	// Actions is the in-order action stream the body analyzer produces for
	// this method, preserving branch/switch/call structure
	// for the tracer to merge over.
	Actions []Action

	// Classification results, populated by classify.Classify.
	WritesSignal   bool
	WritesOutput   bool
	WritesRegister bool

	// calleeNames collects as-written callee names discovered while
	// walking the body. The tracer builds its call graph from the Call
	// entries of Actions, not from this list.
	calleeNames []string
}

// CalleeNames returns the distinct method names this method's action
// stream invokes, in first-seen order.
func (m *Method) CalleeNames() []string {
	return m.calleeNames
}

// RecordCallee appends a callee name the body analyzer discovered, if not
// already recorded.
func (m *Method) RecordCallee(name string) {
	for _, existing := range m.calleeNames {
		if existing == name {
			return
		}
	}
	m.calleeNames = append(m.calleeNames, name)
}
