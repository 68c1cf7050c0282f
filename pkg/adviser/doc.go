// Package adviser holds the run-scoped state of a dependency-resolution run.
//
// # Run Modes
//
// Every run is exactly one of two kinds: an advisory run that recommends a
// software stack ([RecommendationType]) or a dependency-monkey run that
// explores the space of resolvable stacks ([DecisionType]). [RunMode] is a
// tagged union of the two; construct it with [Advise] or [DependencyMonkey]:
//
//	mode := adviser.Advise(adviser.RecommendationLatest)
//
// At boundaries that still receive the two kinds as separate optional inputs
// (flags, configuration files), use [NewRunMode] or [ParseRunMode], which fail
// with an INVALID_CONFIGURATION error unless exactly one input is set.
//
// # Context and the Package Registry
//
// [Context] is owned by the resolver for the whole run. Besides the run mode
// and opaque handles to the project, knowledge graph and library usage, it
// keeps the registry of package versions touched during resolution. The
// registry guarantees that for each [python.PackageTuple] at most one
// [python.PackageVersion] is ever bound, so pointer identity can be used to
// recognize "the same" package across the whole walk:
//
//	ctx, _ := adviser.NewContext(mode, adviser.ContextOptions{})
//	pv := ctx.RegisterPackageTuple(tuple, false, "", nil)
//	same := ctx.RegisterPackageTuple(tuple, true, "os_name == 'nt'", nil)
//	// same == pv; the second call's develop/markers/extras are discarded
//
// The registry only grows. A Context is not safe for concurrent mutation; it
// is driven by exactly one resolution process.
package adviser
