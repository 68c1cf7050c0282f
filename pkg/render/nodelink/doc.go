// Package nodelink renders built pipelines as node-link diagrams.
//
// # Overview
//
// Each stage of a [pipeline.Configuration] is drawn as a Graphviz cluster
// labelled with the stage key (boots, sieves, ...). Units appear as boxes
// chained left to right in the order they run.
//
// # Usage
//
// Convert a configuration to DOT, then render it:
//
//	dot := nodelink.ToDOT(cfg, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// With Detailed set, unit labels list the merged configuration, one
// "key: value" line per parameter in key order.
//
// # Dependencies
//
// Rendering uses [github.com/goccy/go-graphviz], which embeds Graphviz, so no
// external tools are required.
package nodelink
