// Package batchcheck defines an analyzer that validates batch shapes at
// build time. It finds every instantiation of the ecs batch generics and
// rejects shapes that declare the same component type in two fields, naming
// both occurrences, so a structurally invalid shape never reaches a running
// world.
package batchcheck

import (
	"fmt"
	"go/ast"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
)

var Analyzer = &analysis.Analyzer{
	Name: "batchcheck",
	Doc:  "report batch shapes that declare the same component type twice",
	Run:  run,
}

// ecsPath is the import path of the package whose batch generics anchor the
// check. Overridable for vendored or forked layouts.
var ecsPath = "github.com/ahryshan/bizarre-engine-new/ecs"

func init() {
	Analyzer.Flags.StringVar(&ecsPath, "ecspath", ecsPath, "import path of the ecs package")
}

// batchFuncs are the generic functions whose first type argument is a batch shape.
var batchFuncs = map[string]bool{
	"Spawn":            true,
	"RegisterBatch":    true,
	"InsertBatch":      true,
	"RemoveBatch":      true,
	"ValidateBatch":    true,
	"ShapeFingerprint": true,
}

func run(pass *analysis.Pass) (any, error) {
	for ident, inst := range pass.TypesInfo.Instances {
		fn, ok := pass.TypesInfo.Uses[ident].(*types.Func)
		if !ok || fn.Pkg() == nil || !isECSPackage(fn.Pkg().Path()) {
			continue
		}
		if !batchFuncs[fn.Name()] || inst.TypeArgs.Len() == 0 {
			continue
		}

		checkShape(pass, ident, inst.TypeArgs.At(0))
	}
	return nil, nil
}

func isECSPackage(path string) bool {
	return path == ecsPath || strings.HasSuffix(ecsPath, "/"+path)
}

func checkShape(pass *analysis.Pass, ident *ast.Ident, shape types.Type) {
	if _, isParam := shape.(*types.TypeParam); isParam {
		// Generic helper forwarding its own type parameter; the concrete
		// instantiation is checked at the outer call site.
		return
	}

	st, ok := shape.Underlying().(*types.Struct)
	if !ok {
		pass.Reportf(ident.Pos(), "batch shape %s is not a struct", typeName(pass, shape))
		return
	}

	seen := make(map[string]*types.Var, st.NumFields())
	for i := 0; i < st.NumFields(); i++ {
		fld := st.Field(i)
		key := types.TypeString(fld.Type(), nil)

		first, dup := seen[key]
		if !dup {
			seen[key] = fld
			continue
		}

		component := typeName(pass, fld.Type())
		pass.Report(analysis.Diagnostic{
			Pos: ident.Pos(),
			Message: fmt.Sprintf("batch shape %s declares component %s twice: first in field %s, again in field %s",
				typeName(pass, shape), component, first.Name(), fld.Name()),
			Related: []analysis.RelatedInformation{
				{Pos: first.Pos(), Message: fmt.Sprintf("first %s is field %s", component, first.Name())},
				{Pos: fld.Pos(), Message: fmt.Sprintf("conflicting %s is field %s", component, fld.Name())},
			},
		})
	}
}

func typeName(pass *analysis.Pass, t types.Type) string {
	return types.TypeString(t, types.RelativeTo(pass.Pkg))
}
