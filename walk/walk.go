// Package walk implements the method body analyzer: for each method, it
// walks expressions and statements to emit an in-order action stream of
// field-reference actions, and in doing so populates the method's
// FieldsRead/FieldsWritten multisets.
//
// The traversal uses a switch-on-Type() dispatch, one handler per
// construct, over the Read/Write/Branch/Switch/Call action vocabulary. As
// with collect, the node-type strings named here are the restricted
// C++-like dialect's actual tree-sitter-cpp-family grammar productions.
package walk

import (
	"github.com/frankiem-4/Metron/cst"
	"github.com/frankiem-4/Metron/diag"
	"github.com/frankiem-4/Metron/model"
)

const (
	typeCompoundStatement    = "compound_statement"
	typeExpressionStatement  = "expression_statement"
	typeDeclaration          = "declaration"
	typeAssignmentExpression = "assignment_expression"
	typeBinaryExpression     = "binary_expression"
	typeUnaryExpression      = "unary_expression"
	typeUpdateExpression     = "update_expression"
	typeCallExpression       = "call_expression"
	typeFieldExpression      = "field_expression"
	typeSubscriptExpression  = "subscript_expression"
	typeParenthesizedExpr    = "parenthesized_expression"
	typeConditionalExpr      = "conditional_expression"
	typeIfStatement          = "if_statement"
	typeSwitchStatement      = "switch_statement"
	typeCaseStatement        = "case_statement"
	typeForStatement         = "for_statement"
	typeWhileStatement       = "while_statement"
	typeReturnStatement      = "return_statement"
	typeIdentifier           = "identifier"
	typeFieldIdentifier      = "field_identifier"
	typeArgumentList         = "argument_list"
	typeInitDeclarator       = "init_declarator"
)

const (
	fieldLeft      = "left"
	fieldRight     = "right"
	fieldOperand   = "argument"
	fieldArgument  = "argument"
	fieldField     = "field"
	fieldFunction  = "function"
	fieldArguments = "arguments"
	fieldCondition = "condition"
	fieldConseq    = "consequence"
	fieldAlt       = "alternative"
	fieldValue     = "value"
	fieldBody      = "body"
)

// compoundAssignOps are operators that read-then-write their left operand:
// the old value is observed before the new one is computed and stored.
var compoundAssignOps = map[string]bool{
	"+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"&=": true, "|=": true, "^=": true, "<<=": true, ">>=": true,
}

// analyzer holds the per-call state the recursive descent needs: the
// module whose members identifiers resolve against, the method being
// analyzed (for recording FieldsRead/FieldsWritten and callees), the
// source bytes, and the diagnostic bag.
type analyzer struct {
	mod    *model.Module
	method *model.Method
	src    []byte
	bag    *diag.Bag

	returnCount int
}

// Analyze walks body (the method's compound_statement) and populates
// method.Actions, method.FieldsRead, and method.FieldsWritten. Call targets
// are recorded by name only; trace resolves them against the enclosing
// module's (or a component's) methods.
func Analyze(mod *model.Module, method *model.Method, body cst.Node, src []byte, bag *diag.Bag) {
	a := &analyzer{mod: mod, method: method, src: src, bag: bag}
	if body == nil {
		return
	}
	method.Actions = a.walkBlock(body)
	if method.Kind == model.KindTock && a.returnCount > 1 {
		bag.Errorf("E_MULTIPLE_RETURNS", body.Range(),
			"tock method %q has %d return statements; the dialect requires a single trailing return",
			method.Name, a.returnCount)
	}
}

func (a *analyzer) walkBlock(n cst.Node) []model.Action {
	var actions []model.Action
	for i := 0; i < n.ChildCount(); i++ {
		actions = append(actions, a.walkStatement(n.Child(i))...)
	}
	return actions
}

func (a *analyzer) walkStatement(n cst.Node) []model.Action {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case typeCompoundStatement:
		return a.walkBlock(n)
	case typeExpressionStatement:
		if n.ChildCount() > 0 {
			return a.walkExpr(n.Child(0))
		}
		return nil
	case typeDeclaration, typeInitDeclarator:
		return a.walkDeclaration(n)
	case typeIfStatement:
		return a.walkIf(n)
	case typeSwitchStatement:
		return a.walkSwitch(n)
	case typeForStatement, typeWhileStatement:
		// Loops aren't evaluated symbolically: the body is visited once
		// with all its actions recorded, equivalent for categorization
		// purposes to a single pass.
		if body := n.ChildByFieldName(fieldBody); body != nil {
			return a.walkStatement(body)
		}
		return nil
	case typeReturnStatement:
		return a.walkReturn(n)
	default:
		// Unrecognized statement kinds (declarations without initializers,
		// break/continue, etc.) contribute no field actions; still descend
		// in case they nest a recognized construct.
		var actions []model.Action
		for i := 0; i < n.ChildCount(); i++ {
			actions = append(actions, a.walkStatement(n.Child(i))...)
		}
		return actions
	}
}

func (a *analyzer) walkDeclaration(n cst.Node) []model.Action {
	// A local `logic<N> x = expr;` declaration: expr is read, x is a local
	// (not a module field) so it produces no field action of its own, but
	// its initializer's reads still matter.
	decl := n.ChildByFieldName("declarator")
	if decl == nil {
		decl = n
	}
	if decl.Type() == typeInitDeclarator {
		if value := decl.ChildByFieldName(fieldValue); value != nil {
			return a.walkExpr(value)
		}
	}
	return nil
}

func (a *analyzer) walkReturn(n cst.Node) []model.Action {
	a.returnCount++
	var actions []model.Action
	if n.ChildCount() == 0 {
		return actions
	}
	expr := n.Child(0)
	if expr.Type() == typeReturnStatement {
		return actions
	}
	actions = append(actions, a.walkExpr(expr)...)
	if a.method.Return != nil {
		ref := model.FieldRef{Field: a.method.Return}
		a.method.FieldsWritten = append(a.method.FieldsWritten, ref)
		actions = append(actions, model.Action{Kind: model.ActionWrite, Range: n.Range(), Ref: ref})
	}
	return actions
}

func (a *analyzer) walkIf(n cst.Node) []model.Action {
	var actions []model.Action
	if cond := n.ChildByFieldName(fieldCondition); cond != nil {
		actions = append(actions, a.walkExpr(cond)...)
	}
	branch := model.Action{Kind: model.ActionBranch, Range: n.Range()}
	if conseq := n.ChildByFieldName(fieldConseq); conseq != nil {
		branch.Then = a.walkStatement(conseq)
	}
	if alt := n.ChildByFieldName(fieldAlt); alt != nil {
		branch.Else = a.walkStatement(alt)
	}
	return append(actions, branch)
}

func (a *analyzer) walkSwitch(n cst.Node) []model.Action {
	var actions []model.Action
	if cond := n.ChildByFieldName(fieldCondition); cond != nil {
		actions = append(actions, a.walkExpr(cond)...)
	}
	body := n.ChildByFieldName(fieldBody)
	sw := model.Action{Kind: model.ActionSwitch, Range: n.Range()}
	if body != nil {
		var current *model.SwitchCase
		for i := 0; i < body.ChildCount(); i++ {
			child := body.Child(i)
			if child.Type() != typeCaseStatement {
				continue
			}
			sw.Cases = append(sw.Cases, model.SwitchCase{})
			current = &sw.Cases[len(sw.Cases)-1]
			for j := 0; j < child.ChildCount(); j++ {
				stmt := child.Child(j)
				current.Body = append(current.Body, a.walkStatement(stmt)...)
			}
		}
	}
	return append(actions, sw)
}

func (a *analyzer) walkExpr(n cst.Node) []model.Action {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case typeParenthesizedExpr:
		if n.ChildCount() > 0 {
			return a.walkExpr(n.Child(0))
		}
		return nil
	case typeAssignmentExpression:
		return a.walkAssignment(n)
	case typeUpdateExpression:
		return a.walkUpdate(n)
	case typeBinaryExpression:
		var actions []model.Action
		actions = append(actions, a.walkExpr(n.ChildByFieldName(fieldLeft))...)
		actions = append(actions, a.walkExpr(n.ChildByFieldName(fieldRight))...)
		return actions
	case typeConditionalExpr:
		var actions []model.Action
		actions = append(actions, a.walkExpr(n.ChildByFieldName(fieldCondition))...)
		actions = append(actions, a.walkExpr(n.ChildByFieldName(fieldConseq))...)
		actions = append(actions, a.walkExpr(n.ChildByFieldName(fieldAlt))...)
		return actions
	case typeUnaryExpression:
		return a.walkExpr(n.ChildByFieldName(fieldOperand))
	case typeSubscriptExpression:
		var actions []model.Action
		actions = append(actions, a.walkExpr(n.ChildByFieldName("argument"))...)
		actions = append(actions, a.walkExpr(n.ChildByFieldName("index"))...)
		return actions
	case typeCallExpression:
		return a.walkCall(n)
	case typeFieldExpression, typeIdentifier:
		if ref, ok := a.resolve(n); ok {
			a.method.FieldsRead = append(a.method.FieldsRead, ref)
			return []model.Action{{Kind: model.ActionRead, Range: n.Range(), Ref: ref}}
		}
		return nil
	default:
		var actions []model.Action
		for i := 0; i < n.ChildCount(); i++ {
			actions = append(actions, a.walkExpr(n.Child(i))...)
		}
		return actions
	}
}

func (a *analyzer) walkAssignment(n cst.Node) []model.Action {
	lhs := n.ChildByFieldName(fieldLeft)
	rhs := n.ChildByFieldName(fieldRight)
	op := ""
	if opNode := n.ChildByFieldName("operator"); opNode != nil {
		op = opNode.Text(a.src)
	}
	ref, ok := a.resolve(lhs)
	var actions []model.Action
	if lhs != nil && lhs.Type() == typeSubscriptExpression {
		if index := lhs.ChildByFieldName("index"); index != nil {
			actions = append(actions, a.walkExpr(index)...)
		}
	}
	if compoundAssignOps[op] && ok {
		// Compound operator: read the old value, then evaluate rhs, then
		// write.
		a.method.FieldsRead = append(a.method.FieldsRead, ref)
		actions = append(actions, model.Action{Kind: model.ActionRead, Range: lhs.Range(), Ref: ref})
	}
	actions = append(actions, a.walkExpr(rhs)...)
	if ok {
		a.method.FieldsWritten = append(a.method.FieldsWritten, ref)
		actions = append(actions, model.Action{Kind: model.ActionWrite, Range: n.Range(), Ref: ref})
	}
	return actions
}

func (a *analyzer) walkUpdate(n cst.Node) []model.Action {
	// x++ / ++x / x-- / --x: read-then-write, same as a compound op.
	operand := n.ChildByFieldName(fieldArgument)
	if operand == nil && n.ChildCount() > 0 {
		operand = n.Child(0)
	}
	ref, ok := a.resolve(operand)
	if !ok {
		return nil
	}
	a.method.FieldsRead = append(a.method.FieldsRead, ref)
	a.method.FieldsWritten = append(a.method.FieldsWritten, ref)
	return []model.Action{
		{Kind: model.ActionRead, Range: n.Range(), Ref: ref},
		{Kind: model.ActionWrite, Range: n.Range(), Ref: ref},
	}
}

func (a *analyzer) walkCall(n cst.Node) []model.Action {
	fn := n.ChildByFieldName(fieldFunction)
	args := n.ChildByFieldName(fieldArguments)

	var argActions []model.Action
	if args != nil {
		for i := 0; i < args.ChildCount(); i++ {
			argActions = append(argActions, a.walkExpr(args.Child(i))...)
		}
	}

	call := model.Action{Kind: model.ActionCall, Range: n.Range(), Args: argActions}
	if fn != nil {
		switch fn.Type() {
		case typeIdentifier:
			call.CalleeName = fn.Text(a.src)
			a.method.RecordCallee(call.CalleeName)
		case typeFieldExpression:
			if field := fn.ChildByFieldName(fieldField); field != nil {
				call.CalleeName = field.Text(a.src)
				a.method.RecordCallee(call.CalleeName)
			}
			// A call through a component (c.tick()) also reads the
			// component field itself, since invoking it observes state,
			// and records the component as the call's Receiver so the
			// tracer can resolve the callee against the right module.
			if obj := fn.ChildByFieldName(fieldArgument); obj != nil {
				if ref, ok := a.resolve(obj); ok {
					call.Receiver = ref.Resolved()
					a.method.FieldsRead = append(a.method.FieldsRead, ref)
					call.Args = append([]model.Action{{Kind: model.ActionRead, Range: obj.Range(), Ref: ref}}, call.Args...)
				}
			}
		}
	}
	return []model.Action{call}
}

// resolve turns an identifier or field_expression into a FieldRef against
// the enclosing module, piercing one level into a component's own fields
// when the expression is `component.subfield`.
func (a *analyzer) resolve(n cst.Node) (model.FieldRef, bool) {
	if n == nil {
		return model.FieldRef{}, false
	}
	switch n.Type() {
	case typeIdentifier, typeFieldIdentifier:
		name := n.Text(a.src)
		if f := a.mod.GetField(name); f != nil {
			return model.FieldRef{Field: f}, true
		}
		for _, p := range a.method.Params {
			if p.Name == name {
				return model.FieldRef{Field: p}, true
			}
		}
		return model.FieldRef{}, false
	case typeFieldExpression:
		obj := n.ChildByFieldName(fieldArgument)
		fieldNode := n.ChildByFieldName(fieldField)
		if obj == nil || fieldNode == nil {
			return model.FieldRef{}, false
		}
		objName := obj.Text(a.src)
		component := a.mod.GetField(objName)
		if component == nil || !component.IsComponent() || component.Kind.Module == nil {
			return model.FieldRef{}, false
		}
		sub := component.Kind.Module.GetField(fieldNode.Text(a.src))
		if sub == nil {
			return model.FieldRef{}, false
		}
		return model.FieldRef{Field: component, SubField: sub}, true
	case typeParenthesizedExpr:
		if n.ChildCount() > 0 {
			return a.resolve(n.Child(0))
		}
	case typeSubscriptExpression:
		// An array-element write (s3_wave[i] = 0;) resolves to the array
		// field itself: Metron tracks field-level state, not per-index
		// state, so every element write merges into the same field.
		return a.resolve(n.ChildByFieldName(fieldArgument))
	}
	return model.FieldRef{}, false
}
