// Package pipeline assembles the execution pipeline of a resolution run.
//
// A pipeline is made of pluggable units, each belonging to one of five
// stages executed in a fixed order:
//
//  1. boot: prepare the run before resolution starts
//  2. sieve: filter candidate package versions
//  3. step: score resolution steps
//  4. stride: accept or reject fully resolved stacks
//  5. wrap: post-process accepted stacks
//
// # Self-Selection
//
// Units are not listed by hand. Every [Unit] in a [Catalog] decides for
// itself, through [Unit.ShouldInclude], whether it belongs to the pipeline
// of the current run, and may base that decision on which other units have
// already been selected. The [Builder] therefore iterates the catalog until
// a fixed point is reached:
//
//	catalog, _ := pipeline.NewCatalog(units...)
//	b := pipeline.NewBuilder(catalog, pipeline.Options{Project: project})
//	cfg, err := b.AdviserConfiguration(ctx, adviser.RecommendationLatest)
//
// Each pass visits stages in order and, within a stage, every unit that has
// not been included yet, in catalog order. A unit answering with a
// configuration is included immediately (its answer merged over its
// [Defaulter] defaults) and is never asked again; a unit answering "not now"
// is asked again on the next pass. The build stops after a pass that
// includes nothing. A pass cap guards against catalogs whose predicates never
// settle; hitting it is reported as an INVALID_CONFIGURATION error rather than
// silently truncating the pipeline.
//
// # Result
//
// The build produces an immutable [Configuration]: for every stage, the
// included units' names and merged parameters in inclusion order. It
// serializes to JSON and YAML as a document with the keys boots, sieves,
// steps, strides and wraps.
package pipeline
