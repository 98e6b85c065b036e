// Package collect implements the field/component collector: given a
// module's class declaration node, it records every declared data member
// as a field — distinguishing scalar logic fields from sub-module
// components — and every declared method, with its parameter list and
// return slot.
//
// The dialect is a restricted C++-like surface (logic<N> augmentation),
// and its tree-sitter grammar is an external collaborator; the node-type
// strings this package switches on (class_specifier, field_declaration,
// function_definition, template_type, ...) name the grammar's actual
// productions for that surface.
package collect

import (
	"strconv"
	"strings"

	"github.com/frankiem-4/Metron/cst"
	"github.com/frankiem-4/Metron/diag"
	"github.com/frankiem-4/Metron/model"
)

// Node type names the collector dispatches on. Declared as constants
// rather than scattered literals, matching the package's habit of naming
// well-known symbols (cst.TypePreprocInclude) even though most dispatch is
// still done by raw Type() string in the walk.
const (
	typeClassSpecifier       = "class_specifier"
	typeFieldDeclarationList = "field_declaration_list"
	typeFieldDeclaration     = "field_declaration"
	typeFunctionDefinition   = "function_definition"
	typeFunctionDeclarator   = "function_declarator"
	typeParameterList        = "parameter_list"
	typeParameterDeclaration = "parameter_declaration"
	typeTemplateType         = "template_type"
	typeTypeIdentifier       = "type_identifier"
	typePrimitiveType        = "primitive_type"
	typeFieldIdentifier      = "field_identifier"
	typeIdentifier           = "identifier"
	typeTemplateArgumentList = "template_argument_list"
	typeNumberLiteral        = "number_literal"
	typeInitDeclarator       = "init_declarator"
	typeArrayDeclarator      = "array_declarator"
)

// fieldDeclarator field names used by ChildByFieldName, matching
// tree-sitter-cpp's grammar.
const (
	fieldType       = "type"
	fieldDeclarator = "declarator"
	fieldName       = "name"
	fieldParameters = "parameters"
	fieldBody       = "body"
	fieldSize       = "size"
)

// Collect walks a module's class_specifier node and populates its fields,
// components, and methods. lookupModule resolves a component's declared
// type name to an already-collected sibling module.
func Collect(mod *model.Module, classNode cst.Node, src []byte, lookupModule func(name string) (*model.Module, bool), bag *diag.Bag) {
	body := classNode.ChildByFieldName(fieldBody)
	if body == nil {
		body = findChildOfType(classNode, typeFieldDeclarationList)
	}
	if body == nil {
		return
	}
	for i := 0; i < body.ChildCount(); i++ {
		member := body.Child(i)
		switch member.Type() {
		case typeFieldDeclaration:
			collectField(mod, member, src, lookupModule, bag)
		case typeFunctionDefinition:
			collectMethod(mod, member, src, bag)
		}
	}
}

func collectField(mod *model.Module, node cst.Node, src []byte, lookupModule func(name string) (*model.Module, bool), bag *diag.Bag) {
	typeNode := node.ChildByFieldName(fieldType)
	declNode := node.ChildByFieldName(fieldDeclarator)
	if typeNode == nil || declNode == nil {
		return
	}
	name := declaratorName(declNode, src)
	if name == "" {
		return
	}
	if mod.HasMember(name) {
		bag.Errorf("E_DUPLICATE_MEMBER", node.Range(), "field %q collides with an existing member of %s", name, mod.Name)
		mod.Invalid = true
		return
	}

	kind, ok := classifyType(typeNode, src, lookupModule)
	if !ok {
		bag.Errorf("E_UNRESOLVED_COMPONENT", typeNode.Range(), "component field %q of %s has an unresolved module type %q", name, mod.Name, typeNode.Text(src))
		field := &model.Field{Name: name, Range: node.Range(), Kind: model.FieldKind{Tag: model.KindComponent, ComponentType: typeNode.Text(src)}, State: model.StateInvalid}
		mod.AddComponent(field)
		mod.Invalid = true
		return
	}

	if arrayNode := findArrayDeclarator(declNode); arrayNode != nil && kind.Tag == model.KindScalar {
		kind.Tag = model.KindArray
		if sizeNode := arrayNode.ChildByFieldName(fieldSize); sizeNode != nil {
			if n, err := strconv.Atoi(strings.TrimSpace(sizeNode.Text(src))); err == nil {
				kind.Count = n
			}
		}
	}

	field := &model.Field{Name: name, Range: node.Range(), Kind: kind, State: model.StatePending}
	if kind.Tag == model.KindComponent {
		mod.AddComponent(field)
	} else {
		mod.AddField(field)
	}
}

// classifyType turns a declared type node into a FieldKind: a scalar
// logic<N> or a resolved component (collectField turns a scalar into an
// array from the declarator). Returns ok=false only for
// an unresolved component type name; a plain
// scalar with an unrecognized width still classifies as Scalar with a best-
// effort ResolvedWidth of -1.
func classifyType(typeNode cst.Node, src []byte, lookupModule func(name string) (*model.Module, bool)) (model.FieldKind, bool) {
	text := typeNode.Text(src)
	if typeNode.Type() == typeTemplateType && strings.HasPrefix(text, "logic") {
		width := "0"
		if args := typeNode.ChildByFieldName("arguments"); args != nil {
			if args.ChildCount() > 0 {
				width = args.Child(0).Text(src)
			}
		}
		resolved := -1
		if n, err := strconv.Atoi(strings.TrimSpace(width)); err == nil {
			resolved = n
		}
		return model.FieldKind{Tag: model.KindScalar, Width: width, ResolvedWidth: resolved}, true
	}

	// Otherwise the type names a module: it must resolve to a sibling
	// module in the library.
	moduleName := strings.TrimSpace(text)
	target, found := lookupModule(moduleName)
	if !found {
		return model.FieldKind{}, false
	}
	return model.FieldKind{Tag: model.KindComponent, ComponentType: moduleName, Module: target}, true
}

func collectMethod(mod *model.Module, node cst.Node, src []byte, bag *diag.Bag) {
	declarator := node.ChildByFieldName(fieldDeclarator)
	if declarator == nil {
		declarator = findChildOfType(node, typeFunctionDeclarator)
	}
	if declarator == nil {
		return
	}
	nameNode := declarator.ChildByFieldName(fieldDeclarator)
	if nameNode == nil {
		nameNode = findChildOfType(declarator, typeIdentifier)
	}
	if nameNode == nil {
		nameNode = findChildOfType(declarator, typeFieldIdentifier)
	}
	if nameNode == nil {
		return
	}
	name := nameNode.Text(src)
	if mod.HasMember(name) {
		bag.Errorf("E_DUPLICATE_MEMBER", node.Range(), "method %q collides with an existing member of %s", name, mod.Name)
		mod.Invalid = true
		return
	}

	method := &model.Method{Name: name, Range: node.Range(), Kind: inferMethodKind(name), Body: node.ChildByFieldName(fieldBody)}

	if params := declarator.ChildByFieldName(fieldParameters); params != nil {
		collectParams(method, params, src)
	}

	returnTypeNode := node.ChildByFieldName(fieldType)
	if returnTypeNode != nil && returnTypeNode.Text(src) != "void" {
		if kind, ok := classifyType(returnTypeNode, src, func(string) (*model.Module, bool) { return nil, false }); ok {
			// Only a top-level entry point's return slot is a module output
			// port; a private helper's return value is just a local result
			// the caller reads, and starts Pending like any other field so
			// the lattice (not a hardcoded Output) decides what it becomes.
			state := model.StatePending
			if method.Kind == model.KindTick || method.Kind == model.KindTock || method.Kind == model.KindClock || method.Kind == model.KindReset {
				state = model.StateOutput
			}
			method.Return = &model.Field{Name: name + ".return", Range: returnTypeNode.Range(), Kind: kind, State: state}
		}
	}

	mod.AddMethod(method)
}

func collectParams(method *model.Method, params cst.Node, src []byte) {
	for i := 0; i < params.ChildCount(); i++ {
		param := params.Child(i)
		if param.Type() != typeParameterDeclaration {
			continue
		}
		typeNode := param.ChildByFieldName(fieldType)
		declNode := param.ChildByFieldName(fieldDeclarator)
		if typeNode == nil {
			continue
		}
		paramName := method.Name + "." + strconv.Itoa(len(method.Params))
		if declNode != nil {
			if n := declaratorName(declNode, src); n != "" {
				paramName = n
			}
		}
		kind, ok := classifyType(typeNode, src, func(string) (*model.Module, bool) { return nil, false })
		if !ok {
			kind = model.FieldKind{Tag: model.KindScalar, ResolvedWidth: -1}
		}
		method.Params = append(method.Params, &model.Field{Name: paramName, Range: param.Range(), Kind: kind, State: model.StateInput})
	}
}

// inferMethodKind names the clocking role of a method by its declared
// name: tick/tock/clock/reset are reserved entry-point names; anything
// else is a plain helper, and no later pass changes that kind.
func inferMethodKind(name string) model.MethodKind {
	switch name {
	case "tick":
		return model.KindTick
	case "tock":
		return model.KindTock
	case "clock":
		return model.KindClock
	case "reset":
		return model.KindReset
	default:
		return model.KindHelper
	}
}

func declaratorName(node cst.Node, src []byte) string {
	switch node.Type() {
	case typeIdentifier, typeFieldIdentifier:
		return node.Text(src)
	case typeInitDeclarator:
		if decl := node.ChildByFieldName(fieldDeclarator); decl != nil {
			return declaratorName(decl, src)
		}
	}
	for i := 0; i < node.ChildCount(); i++ {
		if name := declaratorName(node.Child(i), src); name != "" {
			return name
		}
	}
	return ""
}

// findArrayDeclarator reports whether node declares an array, looking
// through the same init_declarator wrapping declaratorName unwraps.
func findArrayDeclarator(node cst.Node) cst.Node {
	switch node.Type() {
	case typeArrayDeclarator:
		return node
	case typeInitDeclarator:
		if decl := node.ChildByFieldName(fieldDeclarator); decl != nil {
			return findArrayDeclarator(decl)
		}
	}
	return nil
}

func findChildOfType(node cst.Node, typ string) cst.Node {
	for i := 0; i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Type() == typ {
			return child
		}
	}
	return nil
}
