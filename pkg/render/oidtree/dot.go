// Package oidtree renders a module's OID tree as a Graphviz diagram.
// Nodes appear as boxes labeled with their identifier, connected along the
// registration hierarchy.
package oidtree

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/mibscope/mibscope/pkg/mib"
)

// Options configures OID tree rendering.
type Options struct {
	// Detailed includes the numeric OID and macro class in node labels.
	// When false, only the identifier is shown.
	Detailed bool
}

// ToDOT converts a module's node forest to Graphviz DOT format. The
// resulting DOT string can be rendered with [RenderSVG]. Nodes without an
// OID are drawn with dashed outlines and grey fill since they occupy no
// place in the registration tree.
func ToDOT(mod *mib.Module, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	var edges []string
	var walk func(nodes []mib.Node, parent string)
	walk = func(nodes []mib.Node, parent string) {
		for _, n := range nodes {
			if n.Name == "" {
				continue
			}
			label := fmtLabel(mod, n, opts.Detailed)
			attrs := fmtAttrs(n, label)
			fmt.Fprintf(&buf, "  %q [%s];\n", n.Name, strings.Join(attrs, ", "))
			if parent != "" {
				edges = append(edges, fmt.Sprintf("  %q -> %q;\n", parent, n.Name))
			}
			walk(n.Children, n.Name)
		}
	}
	walk(mod.Doc, "")

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(mod *mib.Module, n mib.Node, detailed bool) string {
	if !detailed {
		return n.Name
	}

	parts := []string{n.Name}
	if n.OID != "" {
		parts = append(parts, n.OID)
	}
	if d, ok := mod.Detail(n.OID); ok && d.Class != "" {
		parts = append(parts, d.Class)
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(n mib.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.OID == "" {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the SVG root so the viewBox starts at the
// origin, which keeps downstream scaling simple.
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

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
