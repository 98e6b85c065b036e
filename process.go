// Package metron ties the pipeline stages together: freezing a loaded
// library, collecting each module's fields/components/methods, linking
// component parents, walking method bodies into action streams, tracing
// field states from every root module, and classifying each method.
//
// The shape is a fixed sequence of whole-library passes, each one
// appending to a single cumulative diagnostic bag rather than aborting on
// first error.
package metron

import (
	"github.com/frankiem-4/Metron/classify"
	"github.com/frankiem-4/Metron/collect"
	"github.com/frankiem-4/Metron/diag"
	"github.com/frankiem-4/Metron/model"
	"github.com/frankiem-4/Metron/trace"
	"github.com/frankiem-4/Metron/walk"
)

// ProcessSources runs every analysis pass over lib and returns the
// cumulative diagnostics. lib must already have had Load called for its
// entry file(s); ProcessSources itself performs the load→process
// transition via Freeze. logger is passed to trace.Trace and
// classify.Classify and logs each collect and walk step itself, indented
// one level per pass; a nil logger runs silently.
func ProcessSources(logger *diag.Logger, lib *model.Library) *diag.Bag {
	bag := diag.NewBag()
	lib.Freeze(bag)
	logger.Infof("processing %d source file(s)", len(lib.Sources))

	linkParents(lib)

	done := logger.Push()
	for _, source := range lib.Sources {
		root := source.Tree.RootNode()
		for _, mod := range source.Modules {
			classNode := collect.FindClassNode(root, mod)
			if classNode == nil {
				bag.Errorf("E_CLASS_NOT_FOUND", mod.Range, "could not re-locate class body for module %q", mod.Name)
				logger.Errorf("could not re-locate class body for module %q", mod.Name)
				continue
			}
			logger.Infof("collecting %s", mod.Name)
			collect.Collect(mod, classNode, source.Text, lib.GetModule, bag)
		}
	}
	done()

	// Re-link parents now that components resolved during Collect may have
	// introduced new component→module edges.
	linkParents(lib)

	done = logger.Push()
	for _, source := range lib.Sources {
		for _, mod := range source.Modules {
			for _, method := range mod.Methods {
				logger.Infof("walking %s.%s", mod.Name, method.Name)
				walk.Analyze(mod, method, method.Body, source.Text, bag)
			}
		}
	}
	done()

	done = logger.Push()
	for _, mod := range lib.Modules {
		if mod.IsRoot() {
			trace.Trace(logger, mod, bag)
		}
	}
	done()

	done = logger.Push()
	for _, mod := range lib.Modules {
		for _, method := range mod.Methods {
			classify.Classify(logger, method, bag)
		}
	}
	done()

	for _, mod := range lib.Modules {
		if mod.IsRoot() {
			trace.BuildStateTree(mod)
		}
	}

	if len(bag.All()) > 0 {
		if dump, err := bag.Dump(); err == nil {
			logger.Infof("diagnostics:\n%s", dump)
		}
	}

	return bag
}

// linkParents walks every module's component fields and records the
// reverse edge on the embedded module, so Module.IsRoot can tell a
// top-level module from one that's only ever used as a sub-component.
func linkParents(lib *model.Library) {
	for _, mod := range lib.Modules {
		for _, component := range mod.Components {
			if component.Kind.Module != nil {
				component.Kind.Module.AddParent(mod)
			}
		}
	}
}
