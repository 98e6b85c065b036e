package trace

import "github.com/frankiem-4/Metron/model"

// BuildStateTree assembles mod.Root from the field states the tracer
// settled on and the method classifications classify.Classify produced,
// mirroring the module's own composition: one child per field, component,
// and method, with components recursing into their own sub-module's tree.
// Call once per root module, after both Trace and every Classify call for
// that module's reachable methods have run.
func BuildStateTree(mod *model.Module) *model.StateNode {
	node := &model.StateNode{Kind: model.NodeModule, Name: mod.Name, State: model.StateNone}

	for _, f := range mod.Fields {
		node.AddChild(&model.StateNode{Kind: model.NodeField, Name: f.Name, State: f.State, Field: f})
	}

	for _, c := range mod.Components {
		child := &model.StateNode{Kind: model.NodeComponent, Name: c.Name, State: c.State, Field: c}
		if c.Kind.Module != nil {
			child.Children = BuildStateTree(c.Kind.Module).Children
		}
		node.AddChild(child)
	}

	for _, m := range mod.Methods {
		child := &model.StateNode{Kind: model.NodeMethod, Name: m.Name, State: methodState(m)}
		for _, p := range m.Params {
			child.AddChild(&model.StateNode{Kind: model.NodeParam, Name: p.Name, State: p.State, Field: p})
		}
		if m.Return != nil {
			child.AddChild(&model.StateNode{Kind: model.NodeReturn, Name: m.Name + ".return", State: m.Return.State, Field: m.Return})
		}
		node.AddChild(child)
	}

	mod.Root = node
	return node
}

// methodState picks the single State best summarizing what a method's
// classification flags say it does, in Register > Output > Signal
// precedence — a method can set more than one flag, but a StateNode only
// carries one State.
func methodState(m *model.Method) model.State {
	switch {
	case m.WritesRegister:
		return model.StateRegister
	case m.WritesOutput:
		return model.StateOutput
	case m.WritesSignal:
		return model.StateSignal
	default:
		return model.StateNone
	}
}
