// Package pkg provides the core libraries of adviser.
//
// # Overview
//
// Adviser prepares resolution runs for Python applications. A run is either
// an advisory run, recommending a software stack for a project, or a
// dependency-monkey run, exploring the space of possible stacks. Before a
// run resolves anything it needs two things: a pipeline of units that will
// drive resolution, and a context tracking the package versions it sees.
//
// # Architecture
//
//	unit catalog (YAML/TOML)     Pipfile / Pipfile.lock
//	         ↓                            ↓
//	  [pipeline/units]               [python]
//	         ↓                            ↓
//	     [pipeline]  ← run mode →    [adviser]
//	         ↓
//	  pipeline configuration → [render/nodelink] (DOT/SVG)
//
// # Main Packages
//
//   - [adviser]: run modes and the run context registering package versions
//   - [pipeline]: stages, units, the builder context and the fixed-point builder
//   - [pipeline/units]: declarative units loaded from catalog files
//   - [python]: Pipfile and Pipfile.lock models
//   - [render/nodelink]: Graphviz diagrams of built pipelines
//   - [cache]: reuse of built configurations between invocations
//
// # Supporting Packages
//
//   - [errors]: coded errors shared by every package
//   - [observability]: hooks for build and registry events
//   - [buildinfo]: version information injected at build time
//
// [adviser]: https://pkg.go.dev/github.com/matzehuels/adviser/pkg/adviser
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/adviser/pkg/pipeline
// [pipeline/units]: https://pkg.go.dev/github.com/matzehuels/adviser/pkg/pipeline/units
// [python]: https://pkg.go.dev/github.com/matzehuels/adviser/pkg/python
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/adviser/pkg/render/nodelink
// [cache]: https://pkg.go.dev/github.com/matzehuels/adviser/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/adviser/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/adviser/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/adviser/pkg/buildinfo
package pkg
