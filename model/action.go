package model

import "github.com/frankiem-4/Metron/cst"

// ActionKind enumerates the action stream vocabulary the method body
// analyzer (walk package) emits, in-order, for a method body.
type ActionKind int

const (
	ActionRead ActionKind = iota
	ActionWrite
	ActionBranch
	ActionSwitch
	ActionCall
)

func (k ActionKind) String() string {
	switch k {
	case ActionRead:
		return "Read"
	case ActionWrite:
		return "Write"
	case ActionBranch:
		return "Branch"
	case ActionSwitch:
		return "Switch"
	case ActionCall:
		return "Call"
	default:
		return "Read"
	}
}

// SwitchCase is one case's body-actions within a Switch action.
type SwitchCase struct {
	Body []Action
}

// Action is one in-order entry of a method's action stream. Only the
// fields relevant to Kind are populated; producing an explicit action
// stream (rather than re-walking the parse tree during tracing) detaches
// the tracer from parse-tree specifics.
type Action struct {
	Kind  ActionKind
	Range cst.Range

	// Read / Write
	Ref FieldRef

	// Branch: Then/Else actions, conditional on a test whose own
	// sub-actions are emitted as Reads preceding this action.
	Then []Action
	Else []Action

	// Switch: one SwitchCase of body-actions per case; case labels get no
	// action list of their own.
	Cases []SwitchCase

	// Call: invocation of another method on the same module or through a
	// component. CalleeName is the as-written name; the tracer resolves it
	// against the callee module's method table at trace time rather than
	// carrying a resolved pointer here. Receiver is non-nil when the call
	// is qualified through a component (c.tick()), naming the component
	// field the callee belongs to. Args are evaluated before the call.
	CalleeName string
	Receiver   *Field
	Args       []Action
}
