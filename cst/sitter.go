package cst

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
)

// sitterNode adapts *sitter.Node to the Node interface. The dialect's own
// tree-sitter grammar is supplied by the caller (an external collaborator)
// via SitterParser's Language field; only the adaptation shape lives here.
type sitterNode struct {
	n *sitter.Node
}

func wrapNode(n *sitter.Node) Node {
	if n == nil {
		return nil
	}
	return sitterNode{n: n}
}

func (s sitterNode) Symbol() SymbolID {
	return SymbolID(s.n.Symbol())
}

func (s sitterNode) Type() string {
	return s.n.Type()
}

func (s sitterNode) ChildByFieldName(name string) Node {
	return wrapNode(s.n.ChildByFieldName(name))
}

func (s sitterNode) ChildCount() int {
	return int(s.n.ChildCount())
}

func (s sitterNode) Child(i int) Node {
	return wrapNode(s.n.Child(i))
}

func (s sitterNode) Range() Range {
	return Range{Start: s.n.StartByte(), End: s.n.EndByte()}
}

func (s sitterNode) Text(src []byte) string {
	return string(src[s.n.StartByte():s.n.EndByte()])
}

type sitterTree struct {
	t *sitter.Tree
}

func (s sitterTree) RootNode() Node {
	return wrapNode(s.t.RootNode())
}

// SitterParser implements Parser over github.com/smacker/go-tree-sitter,
// for a grammar supplied by the caller. Metron ships no grammar of its own
// — parsing the input dialect is an explicit Non-goal — so
// Language must be set by whoever links in the dialect's tree-sitter
// binding.
type SitterParser struct {
	Language *sitter.Language
}

// Parse runs the configured grammar over src and returns the resulting
// Tree.
func (p *SitterParser) Parse(src []byte) (Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(p.Language)
	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, err
	}
	return sitterTree{t: tree}, nil
}
