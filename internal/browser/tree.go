package browser

import (
	"fmt"

	"github.com/mibscope/mibscope/pkg/mib"
)

// noOIDMarker is the identifier suffix shown for nodes without an OID.
const noOIDMarker = "(No OID)"

// Row is one visible line of the rendered tree. It carries everything
// needed to re-locate and act on the node it was rendered from: the
// disclosure key, the node's OID (empty when the node has none) and its
// owning module.
type Row struct {
	Key         string // stable container identity for the expanded set
	Depth       int
	Name        string
	Suffix      string // last OID arc, or the no-identifier marker
	OID         string // empty when the node has no identifier
	Module      string
	HasChildren bool
	Expanded    bool
}

// Flatten renders a node forest into its visible rows given the current
// disclosure state. It is a pure function of its inputs: nodes lacking a
// name are skipped, sibling order is preserved, children appear only under
// an expanded parent. It never panics, whatever the input shape.
func Flatten(nodes []mib.Node, expanded map[string]bool) []Row {
	var rows []Row
	var walk func(nodes []mib.Node, parentKey string, depth int)
	walk = func(nodes []mib.Node, parentKey string, depth int) {
		for i, n := range nodes {
			if n.Name == "" {
				continue
			}
			key := nodeKey(parentKey, i, n)
			row := Row{
				Key:         key,
				Depth:       depth,
				Name:        n.Name,
				Suffix:      suffix(n),
				OID:         n.OID,
				Module:      n.Module,
				HasChildren: n.HasChildren(),
				Expanded:    expanded[key],
			}
			rows = append(rows, row)
			if row.HasChildren && row.Expanded {
				walk(n.Children, key, depth+1)
			}
		}
	}
	walk(nodes, "", 0)
	return rows
}

// ContainerKeys returns the key of every collapsible container in the
// forest, for the bulk expand/collapse operations.
func ContainerKeys(nodes []mib.Node) []string {
	var keys []string
	var walk func(nodes []mib.Node, parentKey string)
	walk = func(nodes []mib.Node, parentKey string) {
		for i, n := range nodes {
			if n.Name == "" {
				continue
			}
			key := nodeKey(parentKey, i, n)
			if n.HasChildren() {
				keys = append(keys, key)
				walk(n.Children, key)
			}
		}
	}
	walk(nodes, "")
	return keys
}

// AncestorKeys locates the node whose OID equals oid and returns the
// container keys of every ancestor on the path to it, outermost first.
// The second return is false when no rendered node carries that OID.
func AncestorKeys(nodes []mib.Node, oid string) ([]string, bool) {
	if oid == "" {
		return nil, false
	}
	var find func(nodes []mib.Node, parentKey string, trail []string) ([]string, bool)
	find = func(nodes []mib.Node, parentKey string, trail []string) ([]string, bool) {
		for i, n := range nodes {
			if n.Name == "" {
				continue
			}
			key := nodeKey(parentKey, i, n)
			if n.OID == oid {
				out := make([]string, len(trail))
				copy(out, trail)
				return out, true
			}
			if n.HasChildren() {
				if found, ok := find(n.Children, key, append(trail, key)); ok {
					return found, true
				}
			}
		}
		return nil, false
	}
	return find(nodes, "", nil)
}

// nodeKey derives a container identity. The OID is the natural handle when
// present; otherwise the key is a position-and-name path, stable for a
// given forest.
func nodeKey(parentKey string, idx int, n mib.Node) string {
	if n.OID != "" {
		return n.OID
	}
	return fmt.Sprintf("%s/%d:%s", parentKey, idx, n.Name)
}

func suffix(n mib.Node) string {
	if n.OID == "" {
		return noOIDMarker
	}
	return n.LastArc()
}
