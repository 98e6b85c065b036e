package trace_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/frankiem-4/Metron/cst"
	"github.com/frankiem-4/Metron/diag"
	"github.com/frankiem-4/Metron/model"
	"github.com/frankiem-4/Metron/trace"
)

// newRootModule builds a module with no parents (so Module.IsRoot is true)
// and a ready-to-use field/method scaffold for the scenarios below.
func newRootModule(name string) *model.Module {
	return model.NewModule(name, cst.Range{})
}

func readAction(ref model.FieldRef) model.Action {
	return model.Action{Kind: model.ActionRead, Ref: ref}
}

func writeAction(ref model.FieldRef) model.Action {
	return model.Action{Kind: model.ActionWrite, Ref: ref}
}

func TestTrace_PureCombinational(t *testing.T) {
	// S1: in (Input) -> tock returns in + 7 -> out (Output). No registers.
	mod := newRootModule("Adder")
	in := &model.Field{Name: "in", State: model.StateInput}
	out := &model.Field{Name: "out", State: model.StateOutput}
	mod.AddField(in)
	mod.AddField(out)

	tock := &model.Method{Name: "tock", Kind: model.KindTock}
	tock.Actions = []model.Action{
		readAction(model.FieldRef{Field: in}),
		writeAction(model.FieldRef{Field: out}),
	}
	mod.AddMethod(tock)

	bag := diag.NewBag()
	trace.Trace(nil, mod, bag)

	assert.False(t, bag.HasErrors())
	assert.Equal(t, model.StateInput, in.State)
	assert.Equal(t, model.StateOutput, out.State)
}

func TestTrace_SimpleRegister(t *testing.T) {
	// S2: tick writes a Pending field r -> Register; tock reads r and writes
	// the Output field out.
	mod := newRootModule("Counter")
	in := &model.Field{Name: "in", State: model.StateInput}
	r := &model.Field{Name: "r", State: model.StatePending}
	out := &model.Field{Name: "out", State: model.StateOutput}
	mod.AddField(in)
	mod.AddField(r)
	mod.AddField(out)

	tick := &model.Method{Name: "tick", Kind: model.KindTick}
	tick.Actions = []model.Action{
		readAction(model.FieldRef{Field: in}),
		writeAction(model.FieldRef{Field: r}),
	}
	tock := &model.Method{Name: "tock", Kind: model.KindTock}
	tock.Actions = []model.Action{
		readAction(model.FieldRef{Field: r}),
		writeAction(model.FieldRef{Field: out}),
	}
	mod.AddMethod(tick)
	mod.AddMethod(tock)

	bag := diag.NewBag()
	trace.Trace(nil, mod, bag)

	assert.False(t, bag.HasErrors())
	assert.Equal(t, model.StateRegister, r.State)
	assert.Equal(t, model.StateOutput, out.State)
}

func TestTrace_CrossClockWrite(t *testing.T) {
	// S4: a field written in both tick and tock is Invalid, with an error
	// reported, no panic.
	mod := newRootModule("Bad")
	x := &model.Field{Name: "x", State: model.StatePending}
	mod.AddField(x)

	tick := &model.Method{Name: "tick", Kind: model.KindTick}
	tick.Actions = []model.Action{writeAction(model.FieldRef{Field: x})}
	tock := &model.Method{Name: "tock", Kind: model.KindTock}
	tock.Actions = []model.Action{writeAction(model.FieldRef{Field: x})}
	mod.AddMethod(tick)
	mod.AddMethod(tock)

	bag := diag.NewBag()
	assert.NotPanics(t, func() { trace.Trace(nil, mod, bag) })

	assert.True(t, bag.HasErrors())
	assert.Equal(t, model.StateInvalid, x.State)
}

func TestTrace_ComponentFieldRef(t *testing.T) {
	// S5: a parent module reads a sub-module's field through a component
	// FieldRef; only the component's own field state should move.
	sub := newRootModule("Sub")
	subField := &model.Field{Name: "val", State: model.StatePending}
	sub.AddField(subField)

	parent := newRootModule("Parent")
	component := &model.Field{Name: "sub", Kind: model.FieldKind{Tag: model.KindComponent, Module: sub}}
	out := &model.Field{Name: "out", State: model.StateOutput}
	parent.AddComponent(component)
	parent.AddField(out)
	sub.AddParent(parent)

	tock := &model.Method{Name: "tock", Kind: model.KindTock}
	tock.Actions = []model.Action{
		readAction(model.FieldRef{Field: component, SubField: subField}),
		writeAction(model.FieldRef{Field: out}),
	}
	parent.AddMethod(tock)

	bag := diag.NewBag()
	trace.Trace(nil, parent, bag)

	assert.False(t, bag.HasErrors())
	assert.Equal(t, model.StateRegister, subField.State)
}

func TestTrace_CallGraphPostOrder(t *testing.T) {
	// A tick that calls a helper which writes a Pending field: the helper is
	// traced as a callee of tick, and its write is merged under its own Kind.
	mod := newRootModule("WithHelper")
	r := &model.Field{Name: "r", State: model.StatePending}
	mod.AddField(r)

	helper := &model.Method{Name: "bump", Kind: model.KindHelper}
	helper.Actions = []model.Action{writeAction(model.FieldRef{Field: r})}
	tick := &model.Method{Name: "tick", Kind: model.KindTick}
	tick.Actions = []model.Action{{Kind: model.ActionCall, CalleeName: "bump"}}
	mod.AddMethod(helper)
	mod.AddMethod(tick)

	bag := diag.NewBag()
	trace.Trace(nil, mod, bag)

	assert.False(t, bag.HasErrors())
	// The helper is traced with its own Kind (helper => Signal), since
	// merge_action keys off the method actually performing the write.
	assert.Equal(t, model.StateSignal, r.State)
}
