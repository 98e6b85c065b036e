package model

import (
	"context"
	"fmt"

	"github.com/frankiem-4/Metron/cst"
	"github.com/frankiem-4/Metron/diag"
)

// Phase is the library's two-phase lifecycle: mutations are only valid
// during Load, and the transition to Process is one-way.
type Phase int

const (
	PhaseLoad Phase = iota
	PhaseProcess
)

// Reader resolves a filename against a library's search paths and returns
// its raw bytes, with any UTF-8 BOM already stripped, plus the full path it
// was found at. Concrete implementations (the load package's afs-backed
// reader) are external collaborators.
type Reader interface {
	Read(ctx context.Context, searchPaths []string, filename string) (fullPath string, data []byte, err error)
}

// ModuleDiscoverer enumerates the module class declarations a parsed file
// contains. The collect package is
// the concrete implementation; kept as an interface here so model never
// imports collect (collect already imports model for the field/method
// types it populates).
type ModuleDiscoverer interface {
	Discover(root cst.Node, src []byte) []*Module
}

// Library is a process-scoped container owning every SourceFile and
// referencing every Module transitively contained by those files. Module
// names are unique across the library; the phase flag guards the
// load/process transition, and any mutation attempted after freezing is a
// programming error surfaced as a structural diagnostic rather than a
// panic.
type Library struct {
	SearchPaths []string
	// Strict promotes a duplicate-load from a warning to a fatal
	// diagnostic; set from Config.Strict via NewLibraryFromConfig.
	Strict bool

	Sources []*SourceFile
	Modules []*Module

	phase      Phase
	reader     Reader
	parser     cst.Parser
	discoverer ModuleDiscoverer

	sourceMap map[string]int
	moduleMap map[string]int
	hashMap   map[uint64]string
}

// NewLibrary constructs an empty library in the load phase, using reader,
// parser, and discoverer as its external file-loading, parse-tree, and
// module-enumeration collaborators.
func NewLibrary(reader Reader, parser cst.Parser, discoverer ModuleDiscoverer) *Library {
	return &Library{
		reader:     reader,
		parser:     parser,
		discoverer: discoverer,
		sourceMap:  map[string]int{},
		moduleMap:  map[string]int{},
		hashMap:    map[uint64]string{},
	}
}

// ErrFrozen is returned by AddSearchPath and AddSource when called after
// ProcessSources has begun; Load reports the same condition as an E_FROZEN
// diagnostic instead.
var ErrFrozen = fmt.Errorf("model: library is frozen, no further mutation is allowed")

// AddSearchPath appends path to the ordered search-path list. Only valid
// before freezing.
func (l *Library) AddSearchPath(path string) error {
	if l.phase != PhaseLoad {
		return ErrFrozen
	}
	l.SearchPaths = append(l.SearchPaths, path)
	return nil
}

// AddSource attaches an externally produced source file. Only valid before
// freezing; fails if a source with the same name already exists.
func (l *Library) AddSource(source *SourceFile) error {
	if l.phase != PhaseLoad {
		return ErrFrozen
	}
	if _, exists := l.sourceMap[source.Name]; exists {
		return fmt.Errorf("model: duplicate source file %q", source.Name)
	}
	l.sourceMap[source.Name] = len(l.Sources)
	l.Sources = append(l.Sources, source)
	return nil
}

// GetSource performs a lookup by name, returning (nil, false) if absent.
func (l *Library) GetSource(name string) (*SourceFile, bool) {
	idx, ok := l.sourceMap[name]
	if !ok || idx >= len(l.Sources) {
		return nil, false
	}
	return l.Sources[idx], true
}

// GetModule performs a lookup by name, returning (nil, false) if absent.
func (l *Library) GetModule(name string) (*Module, bool) {
	idx, ok := l.moduleMap[name]
	if !ok || idx >= len(l.Modules) {
		return nil, false
	}
	return l.Modules[idx], true
}

// Load locates filename under the first search path where it exists, reads
// it (the Reader strips a UTF-8 BOM if present), parses it, then recurses
// into its #include edges, skipping PreludeInclude. Duplicate
// loads of the same file are reported as a warning unless Strict is set, in
// which case they're a fatal diagnostic. logger receives one Infof per file
// visited, indented one level per include-recursion depth; a nil logger is
// silent.
func (l *Library) Load(ctx context.Context, logger *diag.Logger, filename string) *diag.Bag {
	bag := diag.NewBag()
	l.load(ctx, logger, filename, bag)
	return bag
}

func (l *Library) load(ctx context.Context, logger *diag.Logger, filename string, bag *diag.Bag) *SourceFile {
	if l.phase != PhaseLoad {
		bag.Errorf("E_FROZEN", cst.Range{}, "load(%s) called after process_sources began", filename)
		return nil
	}
	logger.Infof("loading %s", filename)
	if existing, ok := l.GetSource(filename); ok {
		message := fmt.Sprintf("duplicate load of %s, keeping first occurrence", filename)
		if l.Strict {
			bag.Errorf("E_DUPLICATE_LOAD", cst.Range{}, "%s", message)
			logger.Errorf(message)
		} else {
			bag.Warning("W_DUPLICATE_LOAD", message, cst.Range{})
			logger.Warnf(message)
		}
		return existing
	}

	fullPath, data, err := l.reader.Read(ctx, l.SearchPaths, filename)
	if err != nil {
		bag.Errorf("E_NOT_FOUND", cst.Range{}, "couldn't find %s in path: %v", filename, err)
		logger.Errorf("couldn't find %s in path: %v", filename, err)
		return nil
	}

	tree, err := l.parser.Parse(data)
	if err != nil {
		bag.Errorf("E_PARSE", cst.Range{}, "failed to parse %s: %v", filename, err)
		logger.Errorf("failed to parse %s: %v", filename, err)
		return nil
	}

	hash, _ := Hash(data)
	if firstName, ok := l.hashMap[hash]; ok && firstName != filename {
		message := fmt.Sprintf("%s has identical content to already-loaded %s", filename, firstName)
		if l.Strict {
			bag.Errorf("E_DUPLICATE_CONTENT", cst.Range{}, "%s", message)
			logger.Errorf(message)
		} else {
			bag.Warning("W_DUPLICATE_CONTENT", message, cst.Range{})
			logger.Warnf(message)
		}
	} else if !ok {
		l.hashMap[hash] = filename
	}

	source := NewSourceFile(filename, fullPath, data, hash, tree)
	if l.discoverer != nil {
		for _, m := range l.discoverer.Discover(tree.RootNode(), data) {
			source.AddModule(m)
		}
	}
	if err := l.AddSource(source); err != nil {
		bag.Errorf("E_DUPLICATE_SOURCE", cst.Range{}, "%v", err)
		return source
	}

	// Recurse through #includes, skipping the compiler-supplied prelude.
	// The library is mutated single-threadedly with no locking, so
	// includes are resolved sequentially rather than fanned out.
	done := logger.Push()
	for _, name := range discoverIncludes(tree.RootNode(), data) {
		if existing, ok := l.GetSource(name); ok {
			source.AddInclude(existing)
			continue
		}
		child := l.load(ctx, logger, name, bag)
		if child != nil {
			source.AddInclude(child)
		}
	}
	done()

	return source
}

// Freeze sets the one-way load→process flag and flattens each source
// file's module list into the library, checking the name-uniqueness
// invariant. Calling it again after the first call is a no-op rather than
// an abort.
func (l *Library) Freeze(bag *diag.Bag) {
	if l.phase == PhaseProcess {
		return
	}
	l.phase = PhaseProcess
	for _, source := range l.Sources {
		for _, m := range source.Modules {
			if _, exists := l.moduleMap[m.Name]; exists {
				bag.Errorf("E_DUPLICATE_MODULE", m.Range, "duplicate module name %q", m.Name)
				continue
			}
			l.moduleMap[m.Name] = len(l.Modules)
			l.Modules = append(l.Modules, m)
		}
	}
}

// Teardown releases all owned storage.
func (l *Library) Teardown() {
	l.Sources = nil
	l.Modules = nil
	l.sourceMap = map[string]int{}
	l.moduleMap = map[string]int{}
	l.hashMap = map[uint64]string{}
}

func discoverIncludes(root cst.Node, src []byte) []string {
	var names []string
	var walk func(n cst.Node)
	walk = func(n cst.Node) {
		if n == nil {
			return
		}
		if n.Type() == cst.TypePreprocInclude {
			if pathNode := n.ChildByFieldName(cst.FieldPath); pathNode != nil {
				name := unquoteInclude(pathNode.Text(src))
				if name != "" && name != PreludeInclude {
					names = append(names, name)
				}
			}
			return
		}
		for i := 0; i < n.ChildCount(); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	return names
}

func unquoteInclude(text string) string {
	if len(text) >= 2 {
		first, last := text[0], text[len(text)-1]
		if (first == '"' && last == '"') || (first == '<' && last == '>') {
			return text[1 : len(text)-1]
		}
	}
	return text
}
