package model

import "github.com/frankiem-4/Metron/cst"

// SourceFile owns raw source text, a parse tree root, the ordered module
// declarations it contains, and its #include edges to other source files.
// Include edges form a directed graph that may contain cycles only
// through the special include "metron_tools.h", which is ignored by the
// loader.
type SourceFile struct {
	Name string
	Path string // full path it was loaded from
	Text []byte
	Hash uint64 // highwayhash of Text, used to detect duplicate loads

	Tree     cst.Tree
	Modules  []*Module
	Includes []*SourceFile

	moduleMap map[string]int
}

// NewSourceFile constructs a SourceFile from already-read, BOM-stripped
// text and its parsed tree.
func NewSourceFile(name, path string, text []byte, hash uint64, tree cst.Tree) *SourceFile {
	return &SourceFile{
		Name:      name,
		Path:      path,
		Text:      text,
		Hash:      hash,
		Tree:      tree,
		moduleMap: map[string]int{},
	}
}

// AddModule records a module declaration found in this file.
func (s *SourceFile) AddModule(m *Module) {
	if s.moduleMap == nil {
		s.moduleMap = map[string]int{}
	}
	s.Modules = append(s.Modules, m)
	s.moduleMap[m.Name] = len(s.Modules) - 1
}

// GetModule looks up a module declared directly in this file by name.
func (s *SourceFile) GetModule(name string) *Module {
	if idx, ok := s.moduleMap[name]; ok && idx < len(s.Modules) {
		return s.Modules[idx]
	}
	return nil
}

// AddInclude records an edge to another file this one #includes; a nil
// other is ignored. The compiler-supplied prelude never reaches it, since
// the loader's include discovery already drops PreludeInclude.
func (s *SourceFile) AddInclude(other *SourceFile) {
	if other == nil {
		return
	}
	s.Includes = append(s.Includes, other)
}

// PreludeInclude is the literal #include name treated as a compiler-
// supplied prelude and skipped by the loader.
const PreludeInclude = "metron_tools.h"
