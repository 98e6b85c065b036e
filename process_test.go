package metron_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frankiem-4/Metron"
	"github.com/frankiem-4/Metron/collect"
	"github.com/frankiem-4/Metron/cst"
	"github.com/frankiem-4/Metron/model"
)

func scalarField(name string) *cst.FakeNode {
	return &cst.FakeNode{
		Type_: "field_declaration",
		Fields: map[string]*cst.FakeNode{
			"type":       {Type_: "template_type", Text_: "logic<8>"},
			"declarator": {Type_: "identifier", Text_: name},
		},
	}
}

func methodNode(name string, returnType *cst.FakeNode, body *cst.FakeNode) *cst.FakeNode {
	fields := map[string]*cst.FakeNode{
		"declarator": {
			Type_: "function_declarator",
			Fields: map[string]*cst.FakeNode{
				"declarator": {Type_: "identifier", Text_: name},
				"parameters": {Type_: "parameter_list"},
			},
		},
		"body": body,
	}
	if returnType != nil {
		fields["type"] = returnType
	}
	return &cst.FakeNode{Type_: "function_definition", Fields: fields}
}

func assignStatement(left, right *cst.FakeNode) *cst.FakeNode {
	return &cst.FakeNode{
		Type_: "expression_statement",
		Children: []*cst.FakeNode{{
			Type_: "assignment_expression",
			Fields: map[string]*cst.FakeNode{
				"left":     left,
				"right":    right,
				"operator": {Type_: "=", Text_: "="},
			},
		}},
	}
}

func returnStatement(expr *cst.FakeNode) *cst.FakeNode {
	return &cst.FakeNode{Type_: "return_statement", Children: []*cst.FakeNode{expr}}
}

// TestProcessSources_SimpleRegisterModule builds, by hand, the
// declaration-level tree for:
//
//	class Counter {
//	  logic<8> in;
//	  logic<8> r;
//	  logic<8> out;
//	  void tick() { r = in; }
//	  logic<8> tock() { return r; }
//	}
//
// and runs it through the whole pipeline, checking the field states the
// tracer and classifier settle on.
func TestProcessSources_SimpleRegisterModule(t *testing.T) {
	tickBody := &cst.FakeNode{
		Type_:    "compound_statement",
		Children: []*cst.FakeNode{assignStatement(&cst.FakeNode{Type_: "identifier", Text_: "r"}, &cst.FakeNode{Type_: "identifier", Text_: "in"})},
	}
	tockBody := &cst.FakeNode{
		Type_:    "compound_statement",
		Children: []*cst.FakeNode{returnStatement(&cst.FakeNode{Type_: "identifier", Text_: "r"})},
	}

	classNode := &cst.FakeNode{
		Type_:  "class_specifier",
		Range_: cst.Range{Start: 0, End: 100},
		Fields: map[string]*cst.FakeNode{
			"name": {Type_: "type_identifier", Text_: "Counter"},
			"body": {
				Type_: "field_declaration_list",
				Children: []*cst.FakeNode{
					scalarField("in"),
					scalarField("r"),
					scalarField("out"),
					methodNode("tick", nil, tickBody),
					methodNode("tock", &cst.FakeNode{Type_: "template_type", Text_: "logic<8>"}, tockBody),
				},
			},
		},
	}
	root := &cst.FakeNode{Type_: "translation_unit", Children: []*cst.FakeNode{classNode}}
	tree := cst.FakeTree{Root: root}

	discoverer := collect.Discoverer{}
	modules := discoverer.Discover(tree.Root, nil)
	require.Len(t, modules, 1)

	source := model.NewSourceFile("counter.h", "/fake/counter.h", nil, 0, tree)
	for _, m := range modules {
		source.AddModule(m)
	}

	lib := model.NewLibrary(nil, nil, nil)
	require.NoError(t, lib.AddSource(source))

	bag := metron.ProcessSources(nil, lib)

	require.False(t, bag.HasErrors(), "unexpected diagnostics: %v", bag.All())

	mod, ok := lib.GetModule("Counter")
	require.True(t, ok)

	r := mod.GetField("r")
	require.NotNil(t, r)
	assert.Equal(t, model.StateRegister, r.State)

	tick := mod.GetMethod("tick")
	require.NotNil(t, tick)
	assert.True(t, tick.WritesRegister)

	tock := mod.GetMethod("tock")
	require.NotNil(t, tock)
	require.NotNil(t, tock.Return)
	assert.Equal(t, model.StateOutput, tock.Return.State)
	assert.True(t, tock.WritesOutput)
}

// TestProcessSources_CrossClockWriteIsReported builds a module whose single
// field is written from both tick and tock, which the tracer marks Invalid
// and the classifier reports as a fatal diagnostic.
func TestProcessSources_CrossClockWriteIsReported(t *testing.T) {
	tickBody := &cst.FakeNode{
		Type_: "compound_statement",
		Children: []*cst.FakeNode{
			assignStatement(&cst.FakeNode{Type_: "identifier", Text_: "x"}, &cst.FakeNode{Type_: "identifier", Text_: "x"}),
		},
	}
	tockBody := &cst.FakeNode{
		Type_: "compound_statement",
		Children: []*cst.FakeNode{
			assignStatement(&cst.FakeNode{Type_: "identifier", Text_: "x"}, &cst.FakeNode{Type_: "identifier", Text_: "x"}),
		},
	}

	classNode := &cst.FakeNode{
		Type_:  "class_specifier",
		Range_: cst.Range{Start: 0, End: 50},
		Fields: map[string]*cst.FakeNode{
			"name": {Type_: "type_identifier", Text_: "Bad"},
			"body": {
				Type_: "field_declaration_list",
				Children: []*cst.FakeNode{
					scalarField("x"),
					methodNode("tick", nil, tickBody),
					methodNode("tock", nil, tockBody),
				},
			},
		},
	}
	root := &cst.FakeNode{Type_: "translation_unit", Children: []*cst.FakeNode{classNode}}
	tree := cst.FakeTree{Root: root}

	discoverer := collect.Discoverer{}
	modules := discoverer.Discover(tree.Root, nil)
	require.Len(t, modules, 1)

	source := model.NewSourceFile("bad.h", "/fake/bad.h", nil, 0, tree)
	for _, m := range modules {
		source.AddModule(m)
	}

	lib := model.NewLibrary(nil, nil, nil)
	require.NoError(t, lib.AddSource(source))

	bag := metron.ProcessSources(nil, lib)

	require.True(t, bag.HasErrors())
	mod, ok := lib.GetModule("Bad")
	require.True(t, ok)
	x := mod.GetField("x")
	require.NotNil(t, x)
	assert.Equal(t, model.StateInvalid, x.State)
}
