// Package cst defines the parse-tree contract the analyzer consumes. The
// actual CST-to-tree parser front-end (a tree-sitter grammar binding) is an
// external collaborator; this package only specifies the shape the core
// needs from it, matching the subset of github.com/smacker/go-tree-sitter's
// *sitter.Node API the walkers in collect/ and walk/ actually call.
package cst

// Range is a byte-offset span into a source file's raw text.
type Range struct {
	Start uint32
	End   uint32
}

// Node is the minimal read-only view the core requires of a parsed syntax
// node: a symbol id, named-field lookup, ordered children, and a source
// range. A concrete adapter wraps *sitter.Node to satisfy this interface.
type Node interface {
	// Symbol returns the grammar symbol id for this node (its node kind).
	Symbol() SymbolID
	// Type returns the grammar's textual name for Symbol(), e.g. "if_statement".
	Type() string
	// ChildByFieldName returns the child bound to the given named field, or
	// nil if the node has no such field.
	ChildByFieldName(name string) Node
	// ChildCount returns the number of (named and anonymous) children.
	ChildCount() int
	// Child returns the i'th child, 0-indexed.
	Child(i int) Node
	// Range returns the node's byte-offset span in the owning source text.
	Range() Range
	// Text returns the raw source bytes spanned by this node.
	Text(src []byte) string
}

// Tree is a parsed file: a root node plus whatever incremental-reparse state
// the front-end wants to keep. The core only ever reads RootNode.
type Tree interface {
	RootNode() Node
}

// Parser produces a Tree from raw source bytes. The concrete grammar
// binding (a tree-sitter language) lives entirely on the external side of
// this interface; parsing the input language is an explicit Non-goal of the
// core.
type Parser interface {
	Parse(src []byte) (Tree, error)
}

// SymbolID identifies a grammar production. The core enumerates one
// well-known id, SymbolPreprocInclude for #include directives, plus the
// SymbolUnknown zero value; there is no separate id for the node bearing
// the "path" field, which is looked up as the named field FieldPath.
type SymbolID int

// Well-known symbols and fields for include edges. model.Library's include
// discovery matches TypePreprocInclude by Node.Type() and reads FieldPath;
// collect/walk likewise dispatch on Node.Type() strings rather than raw ids.
const (
	SymbolUnknown SymbolID = iota
	SymbolPreprocInclude
)

// FieldPath is the named field a preproc_include node exposes for its
// quoted or angle-bracketed filename.
const FieldPath = "path"

// TypePreprocInclude is the Type() string for an #include directive.
const TypePreprocInclude = "preproc_include"
