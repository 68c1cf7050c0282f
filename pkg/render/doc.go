// Package render provides visual renderings of built pipelines.
//
// The [nodelink] subpackage draws a pipeline configuration as a Graphviz
// diagram: one cluster per stage, units as boxes connected in execution
// order.
//
//	dot := nodelink.ToDOT(cfg, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// [nodelink]: github.com/matzehuels/adviser/pkg/render/nodelink
package render
