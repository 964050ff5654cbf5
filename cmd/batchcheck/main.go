// Command batchcheck runs the batch-shape analyzer standalone:
//
//	batchcheck ./...
//
// It exits non-zero when any batch shape declares a component type twice,
// which makes it suitable as a build gate.
package main

import (
	"github.com/ahryshan/bizarre-engine-new/ecs/batchcheck"
	"golang.org/x/tools/go/analysis/singlechecker"
)

func main() {
	singlechecker.Main(batchcheck.Analyzer)
}
