// Package trace implements the tracer: structural propagation of field
// read/write actions across control flow and across the call graph,
// assigning a lattice state to every field that a traced action reads or
// writes, in every module reachable from a root module. A field that no
// traced action touches keeps the state it started with (Pending for an
// ordinary field).
//
// The propagation order is a post-order, memoized graph walk with a
// recursion guard: a call-graph post-order field-state merge rather than
// an iterative dataflow fixed point.
package trace

import (
	"github.com/frankiem-4/Metron/diag"
	"github.com/frankiem-4/Metron/model"
)

// Trace propagates field states starting from every method of root and its
// transitively called methods (including component methods reached through
// a qualified call), in call-graph post-order: callees are fully traced
// before the caller's own actions are merged. Only root modules (no
// parents) are traced directly; non-root modules are covered as a side
// effect of tracing whichever root embeds them. logger receives one Infof
// per method visited, indented one level per call depth; a nil logger is
// silent.
func Trace(logger *diag.Logger, root *model.Module, bag *diag.Bag) {
	t := &tracer{logger: logger, bag: bag, done: map[*model.Method]bool{}, onStack: map[*model.Method]bool{}}
	for _, m := range root.Methods {
		t.process(root, m)
	}
}

type tracer struct {
	logger  *diag.Logger
	bag     *diag.Bag
	done    map[*model.Method]bool
	onStack map[*model.Method]bool
}

// process traces method (declared on mod) in post-order: every method it
// calls is traced first, then method's own action stream is merged.
// Recursion in the call graph is rejected as Invalid rather than followed.
func (t *tracer) process(mod *model.Module, method *model.Method) {
	if t.done[method] {
		return
	}
	if t.onStack[method] {
		t.bag.Errorf("E_RECURSION", method.Range, "method %q participates in a call-graph cycle", method.Name)
		return
	}
	t.onStack[method] = true
	t.logger.Infof("tracing %s.%s", mod.Name, method.Name)

	done := t.logger.Push()
	for _, callee := range collectCalls(method.Actions) {
		calleeMod, calleeMethod := t.resolve(mod, callee)
		if calleeMethod != nil {
			t.process(calleeMod, calleeMethod)
		}
	}
	done()

	t.mergeSequence(method.Actions, method.Kind)

	delete(t.onStack, method)
	t.done[method] = true
}

// resolve finds the method and owning module a Call action names: either a
// helper on the same module, or — when Receiver is set — a method on the
// receiver component's resolved module.
func (t *tracer) resolve(mod *model.Module, call model.Action) (*model.Module, *model.Method) {
	if call.Receiver != nil {
		if call.Receiver.Kind.Module == nil {
			return nil, nil
		}
		target := call.Receiver.Kind.Module
		return target, target.GetMethod(call.CalleeName)
	}
	if method := mod.GetMethod(call.CalleeName); method != nil {
		return mod, method
	}
	return nil, nil
}

// collectCalls returns every Call action reachable from actions, including
// those nested inside branches and switches, so the caller is only
// considered post-order-complete once every transitive call is traced.
func collectCalls(actions []model.Action) []model.Action {
	var calls []model.Action
	for _, a := range actions {
		switch a.Kind {
		case model.ActionCall:
			calls = append(calls, a)
			calls = append(calls, collectCalls(a.Args)...)
		case model.ActionBranch:
			calls = append(calls, collectCalls(a.Then)...)
			calls = append(calls, collectCalls(a.Else)...)
		case model.ActionSwitch:
			for _, c := range a.Cases {
				calls = append(calls, collectCalls(c.Body)...)
			}
		}
	}
	return calls
}

// mergeSequence applies merge_action in order over a flat (non-branching)
// action list, mutating each touched field's State directly: later actions
// see the effect of earlier ones, matching ordinary sequential execution.
func (t *tracer) mergeSequence(actions []model.Action, kind model.MethodKind) {
	for _, a := range actions {
		t.mergeOne(a, kind)
	}
}

func (t *tracer) mergeOne(a model.Action, kind model.MethodKind) {
	switch a.Kind {
	case model.ActionRead:
		t.mergeAction(a.Ref, model.ActionRead, kind, a)
	case model.ActionWrite:
		t.mergeAction(a.Ref, model.ActionWrite, kind, a)
	case model.ActionCall:
		t.mergeSequence(a.Args, kind)
	case model.ActionBranch:
		t.mergeBranchAction(a, kind)
	case model.ActionSwitch:
		t.mergeSwitchAction(a, kind)
	}
}

// mergeAction implements merge_action: the per-field lattice transition for
// a single read or write, given the invoking method's clocking kind.
func (t *tracer) mergeAction(ref model.FieldRef, action model.ActionKind, kind model.MethodKind, a model.Action) {
	field := ref.Resolved()
	if field == nil {
		return
	}
	switch field.State {
	case model.StateInput:
		if action == model.ActionWrite {
			t.invalidate(field, a, "E_WRITE_INPUT", "field %q is an input and cannot be written", field.Name)
		}
	case model.StateOutput:
		if action == model.ActionRead {
			t.invalidate(field, a, "E_READ_OUTPUT", "field %q is an output and cannot be read", field.Name)
		}
	case model.StatePending, model.StateNone:
		if action == model.ActionRead {
			field.State = model.StateRegister
			return
		}
		if kind.IsClockedWrite() {
			field.State = model.StateRegister
		} else {
			field.State = model.StateSignal
		}
	case model.StateSignal:
		if action == model.ActionWrite && kind.IsClockedWrite() {
			t.invalidate(field, a, "E_CROSS_CLOCK", "field %q is written as a signal and again as a register", field.Name)
		}
	case model.StateRegister:
		if action == model.ActionWrite && !kind.IsClockedWrite() {
			t.invalidate(field, a, "E_CROSS_CLOCK", "field %q is written as a register and again as a signal", field.Name)
		}
	case model.StateInvalid:
		// absorbing
	}
}

func (t *tracer) invalidate(field *model.Field, a model.Action, code, format string, args ...interface{}) {
	field.State = model.StateInvalid
	t.bag.Errorf(code, a.Range, format, args...)
}

// mergeBranchAction implements merge_branch for an if/else: both arms are
// evaluated independently from the same pre-branch snapshot, then their
// per-field results are combined.
func (t *tracer) mergeBranchAction(a model.Action, kind model.MethodKind) {
	fields := unique(append(collectFields(a.Then), collectFields(a.Else)...))
	pre := snapshot(fields)

	restore(fields, pre)
	t.mergeSequence(a.Then, kind)
	thenResult := snapshot(fields)

	restore(fields, pre)
	t.mergeSequence(a.Else, kind)
	elseResult := snapshot(fields)

	for _, f := range fields {
		f.State = t.mergeBranch(thenResult[f], elseResult[f], a)
	}
}

// mergeSwitchAction folds merge_branch across every case body, the same
// way mergeBranchAction folds it across two if/else arms.
func (t *tracer) mergeSwitchAction(a model.Action, kind model.MethodKind) {
	var all []*model.Field
	for _, c := range a.Cases {
		all = append(all, collectFields(c.Body)...)
	}
	fields := unique(all)
	pre := snapshot(fields)

	results := make([]map[*model.Field]model.State, len(a.Cases))
	for i, c := range a.Cases {
		restore(fields, pre)
		t.mergeSequence(c.Body, kind)
		results[i] = snapshot(fields)
	}

	for _, f := range fields {
		merged := pre[f]
		for _, r := range results {
			merged = t.mergeBranch(merged, r[f], a)
		}
		f.State = merged
	}
}

// mergeBranch implements merge_branch's field-level combination rule:
// equal states compose identity, Pending yields to the other arm, a
// Signal/Register mismatch is Invalid, and Invalid absorbs.
func (t *tracer) mergeBranch(x, y model.State, a model.Action) model.State {
	if x == y {
		return x
	}
	if x == model.StatePending || x == model.StateNone {
		return y
	}
	if y == model.StatePending || y == model.StateNone {
		return x
	}
	if x == model.StateInvalid || y == model.StateInvalid {
		return model.StateInvalid
	}
	if (x == model.StateSignal && y == model.StateRegister) || (x == model.StateRegister && y == model.StateSignal) {
		t.bag.Errorf("E_CROSS_CLOCK", a.Range, "field is a register on one branch and a signal on another")
		return model.StateInvalid
	}
	t.bag.Errorf("E_BRANCH_MISMATCH", a.Range, "field state %s conflicts with %s across branches", x, y)
	return model.StateInvalid
}

func collectFields(actions []model.Action) []*model.Field {
	var fields []*model.Field
	for _, a := range actions {
		switch a.Kind {
		case model.ActionRead, model.ActionWrite:
			if f := a.Ref.Resolved(); f != nil {
				fields = append(fields, f)
			}
		case model.ActionCall:
			fields = append(fields, collectFields(a.Args)...)
		case model.ActionBranch:
			fields = append(fields, collectFields(a.Then)...)
			fields = append(fields, collectFields(a.Else)...)
		case model.ActionSwitch:
			for _, c := range a.Cases {
				fields = append(fields, collectFields(c.Body)...)
			}
		}
	}
	return fields
}

func unique(fields []*model.Field) []*model.Field {
	seen := map[*model.Field]bool{}
	var out []*model.Field
	for _, f := range fields {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}

func snapshot(fields []*model.Field) map[*model.Field]model.State {
	m := make(map[*model.Field]model.State, len(fields))
	for _, f := range fields {
		m[f] = f.State
	}
	return m
}

func restore(fields []*model.Field, states map[*model.Field]model.State) {
	for _, f := range fields {
		f.State = states[f]
	}
}
