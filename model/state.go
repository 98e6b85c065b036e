package model

// State is the field-state lattice: every field of every reachable module
// ends up in exactly one of these. Pending is the pre-trace placeholder;
// Invalid is terminal.
//
// Deliberately excluded: a "Maybe" state. No tracing path ever needs a
// third value between known-good and Invalid, so Metron never emits one.
type State int

const (
	StateNone State = iota
	StateInput
	StateOutput
	StateSignal
	StateRegister
	StateInvalid
	StatePending
)

func (s State) String() string {
	switch s {
	case StateNone:
		return "None"
	case StateInput:
		return "Input"
	case StateOutput:
		return "Output"
	case StateSignal:
		return "Signal"
	case StateRegister:
		return "Register"
	case StateInvalid:
		return "Invalid"
	case StatePending:
		return "Pending"
	default:
		return "Invalid"
	}
}

// NodeKind tags a StateNode by what it represents in a module's
// composition tree.
type NodeKind int

const (
	NodeModule NodeKind = iota
	NodeComponent
	NodeField
	NodeMethod
	NodeParam
	NodeReturn
)

func (k NodeKind) String() string {
	switch k {
	case NodeModule:
		return "Module"
	case NodeComponent:
		return "Component"
	case NodeField:
		return "Field"
	case NodeMethod:
		return "Method"
	case NodeParam:
		return "Param"
	case NodeReturn:
		return "Return"
	default:
		return "Module"
	}
}

// StateNode mirrors the composition of a top-level module: each node
// carries a context kind, a state, and children. trace.BuildStateTree fills
// State in from the traced field states and method classifications once
// tracing and classification are done; the tree itself is owned by its
// module.
type StateNode struct {
	Kind     NodeKind
	Name     string
	State    State
	Field    *Field // backing field, when Kind is NodeField, NodeComponent, NodeParam or NodeReturn
	Children []*StateNode
}

// AddChild appends a child node.
func (n *StateNode) AddChild(child *StateNode) {
	n.Children = append(n.Children, child)
}
