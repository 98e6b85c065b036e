package model

import "github.com/frankiem-4/Metron/cst"

// ParamBinding is one module-parameter binding declared on a module, with
// an optional default constant expression.
type ParamBinding struct {
	Name    string
	Default string // raw constant expression text, empty if none
}

// Module owns a module declaration's parameters, fields, components,
// methods, parent back-pointers, and the state tree tracing produces.
type Module struct {
	Name   string
	Range  cst.Range
	Params []*ParamBinding

	// Fields and Components partition the declared members: Fields holds
	// scalar/array members, Components holds fields whose type is another
	// module.
	Fields     []*Field
	Components []*Field
	Methods    []*Method

	// Parents lists modules that embed this one as a component.
	Parents []*Module

	// Root is produced by tracing; nil until traced.
	Root *StateNode

	// Invalid marks a module that failed structural validation (e.g. an
	// unresolved component type, or a field/method name collision) during
	// collection.
	Invalid bool

	fieldMap     map[string]int
	componentMap map[string]int
	methodMap    map[string]int
}

// NewModule constructs an empty module ready for field/method collection.
func NewModule(name string, r cst.Range) *Module {
	return &Module{
		Name:         name,
		Range:        r,
		fieldMap:     map[string]int{},
		componentMap: map[string]int{},
		methodMap:    map[string]int{},
	}
}

// AddField appends a scalar/array field, keeping the lookup index current.
func (m *Module) AddField(f *Field) {
	if m.fieldMap == nil {
		m.fieldMap = map[string]int{}
	}
	m.Fields = append(m.Fields, f)
	m.fieldMap[f.Name] = len(m.Fields) - 1
}

// AddComponent appends a sub-module component field.
func (m *Module) AddComponent(f *Field) {
	if m.componentMap == nil {
		m.componentMap = map[string]int{}
	}
	m.Components = append(m.Components, f)
	m.componentMap[f.Name] = len(m.Components) - 1
}

// GetField returns the field or component member with the given name, or
// nil if there is none.
func (m *Module) GetField(name string) *Field {
	if idx, ok := m.fieldMap[name]; ok && idx < len(m.Fields) {
		return m.Fields[idx]
	}
	if idx, ok := m.componentMap[name]; ok && idx < len(m.Components) {
		return m.Components[idx]
	}
	return nil
}

// HasMember reports whether name is already taken by a field, component, or
// method — used by the collector to detect field/method name collisions.
func (m *Module) HasMember(name string) bool {
	if _, ok := m.fieldMap[name]; ok {
		return true
	}
	if _, ok := m.componentMap[name]; ok {
		return true
	}
	_, ok := m.methodMap[name]
	return ok
}

// AddMethod appends a method declaration.
func (m *Module) AddMethod(method *Method) {
	if m.methodMap == nil {
		m.methodMap = map[string]int{}
	}
	m.Methods = append(m.Methods, method)
	m.methodMap[method.Name] = len(m.Methods) - 1
}

// GetMethod returns the named method, or nil.
func (m *Module) GetMethod(name string) *Method {
	idx, ok := m.methodMap[name]
	if !ok || idx >= len(m.Methods) {
		return nil
	}
	return m.Methods[idx]
}

// IsRoot reports whether this module has no parents — an entry point for
// tracing.
func (m *Module) IsRoot() bool {
	return len(m.Parents) == 0
}

// AddParent records a parent module that embeds this one as a component,
// avoiding duplicate entries.
func (m *Module) AddParent(parent *Module) {
	for _, existing := range m.Parents {
		if existing == parent {
			return
		}
	}
	m.Parents = append(m.Parents, parent)
}
