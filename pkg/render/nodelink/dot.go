package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/adviser/pkg/errors"
	"github.com/matzehuels/adviser/pkg/pipeline"
)

// Options configures pipeline diagram generation.
type Options struct {
	// Detailed includes each unit's configuration in its label.
	// When false, only the unit name is shown.
	Detailed bool
}

// ToDOT converts a pipeline configuration to Graphviz DOT format.
// Each stage becomes a cluster; units are chained in execution order.
// Empty stages are drawn as a dashed placeholder so the stage order stays
// visible.
func ToDOT(cfg *pipeline.Configuration, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  compound=true;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")

	var order []string
	for _, s := range pipeline.Stages {
		entries := cfg.Units(s)
		fmt.Fprintf(&buf, "\n  subgraph %q {\n", "cluster_"+s.Key())
		fmt.Fprintf(&buf, "    label=%q;\n", s.Key())
		buf.WriteString("    style=\"rounded,dashed\";\n")
		if len(entries) == 0 {
			id := s.Key() + ":empty"
			fmt.Fprintf(&buf, "    %q [label=\"(none)\", style=\"rounded,dashed\", fontcolor=grey];\n", id)
			order = append(order, id)
		}
		for _, e := range entries {
			id := s.Key() + ":" + e.Name
			fmt.Fprintf(&buf, "    %q [label=%q];\n", id, fmtLabel(e, opts.Detailed))
			order = append(order, id)
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for i := 1; i < len(order); i++ {
		fmt.Fprintf(&buf, "  %q -> %q;\n", order[i-1], order[i])
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(e pipeline.UnitEntry, detailed bool) string {
	if !detailed || len(e.Configuration) == 0 {
		return e.Name
	}

	parts := make([]string, 0, len(e.Configuration))
	for _, k := range e.Configuration.Keys() {
		parts = append(parts, fmt.Sprintf("%s: %v", k, fmtValue(e.Configuration[k])))
	}
	return e.Name + "\n" + strings.Join(parts, "\n")
}

func fmtValue(v any) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprint(v)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render SVG")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the root svg tag so the drawing scales from the
// origin with its natural size.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
