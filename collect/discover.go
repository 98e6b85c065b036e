package collect

import (
	"github.com/frankiem-4/Metron/cst"
	"github.com/frankiem-4/Metron/model"
)

const (
	typeTemplateDeclaration   = "template_declaration"
	typeTemplateParameterList = "template_parameter_list"
	typeParameterDeclWithType = "optional_parameter_declaration"
	typeTypeParameterDecl     = "type_parameter_declaration"
	fieldDefault              = "default_value"
)

// Discoverer implements model.ModuleDiscoverer: it enumerates module class
// declarations in a parsed file, recording their module-parameter
// bindings. Field/component/method collection for each discovered module
// happens later, in Collect, once every module across every file is known
// to the library.
type Discoverer struct{}

// Discover scans root for class_specifier nodes, optionally wrapped in a
// template_declaration carrying module-parameter bindings, and returns one
// model.Module stub per declaration (name, range, params — no fields or
// methods yet).
func (Discoverer) Discover(root cst.Node, src []byte) []*model.Module {
	var modules []*model.Module
	var walk func(n cst.Node, pendingParams []*model.ParamBinding)
	walk = func(n cst.Node, pendingParams []*model.ParamBinding) {
		if n == nil {
			return
		}
		switch n.Type() {
		case typeTemplateDeclaration:
			params := collectTemplateParams(n, src)
			for i := 0; i < n.ChildCount(); i++ {
				walk(n.Child(i), params)
			}
			return
		case typeClassSpecifier:
			nameNode := n.ChildByFieldName(fieldName)
			if nameNode == nil {
				nameNode = findChildOfType(n, typeTypeIdentifier)
			}
			if nameNode != nil {
				mod := model.NewModule(nameNode.Text(src), n.Range())
				mod.Params = pendingParams
				modules = append(modules, mod)
			}
		}
		for i := 0; i < n.ChildCount(); i++ {
			walk(n.Child(i), pendingParams)
		}
	}
	walk(root, nil)
	return modules
}

// FindClassNode re-locates the class_specifier node backing mod by byte
// range, so that field/component/method collection (Collect) can run in a
// later pass, once every module across every source file in the library
// has been discovered.
func FindClassNode(root cst.Node, mod *model.Module) cst.Node {
	var found cst.Node
	var walk func(n cst.Node)
	walk = func(n cst.Node) {
		if n == nil || found != nil {
			return
		}
		if n.Type() == typeClassSpecifier {
			r := n.Range()
			if r.Start == mod.Range.Start && r.End == mod.Range.End {
				found = n
				return
			}
		}
		for i := 0; i < n.ChildCount(); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	return found
}

func collectTemplateParams(node cst.Node, src []byte) []*model.ParamBinding {
	list := findChildOfType(node, typeTemplateParameterList)
	if list == nil {
		return nil
	}
	var params []*model.ParamBinding
	for i := 0; i < list.ChildCount(); i++ {
		decl := list.Child(i)
		switch decl.Type() {
		case typeParameterDeclWithType, typeTypeParameterDecl:
			nameNode := decl.ChildByFieldName(fieldDeclarator)
			if nameNode == nil {
				nameNode = findChildOfType(decl, typeIdentifier)
			}
			if nameNode == nil {
				continue
			}
			binding := &model.ParamBinding{Name: nameNode.Text(src)}
			if def := decl.ChildByFieldName(fieldDefault); def != nil {
				binding.Default = def.Text(src)
			}
			params = append(params, binding)
		}
	}
	return params
}
