// Package mib provides a best-effort parser and data model for textual
// SMIv2 MIB modules.
//
// The parser does not attempt full SMI conformance. It extracts the module
// name, the IMPORTS clause, and every object macro that carries an
// `::= { parent subId }` assignment, then resolves dotted OIDs by fixpoint
// iteration and arranges the resolved nodes into a forest keyed by OID
// prefix. Unresolvable definitions are dropped rather than reported; the
// goal is a browsable tree for any plausible MIB text, not validation.
package mib

import "strings"

// Identity is the display identity of a module, taken from its
// MODULE-IDENTITY definition when one exists.
type Identity struct {
	Name string `json:"name,omitempty"`
}

// Node is one element of a module's OID tree as served to browsers.
// Children recurse to unbounded depth; the forest is a strict tree.
type Node struct {
	Name     string `json:"name"`
	OID      string `json:"oid,omitempty"`
	Module   string `json:"module,omitempty"`
	Children []Node `json:"children,omitempty"`
}

// HasChildren reports whether the node owns a non-empty child list.
func (n Node) HasChildren() bool { return len(n.Children) > 0 }

// LastArc returns the final dot-separated segment of the node's OID, or
// the empty string when the node has no OID.
func (n Node) LastArc() string {
	if n.OID == "" {
		return ""
	}
	parts := strings.Split(n.OID, ".")
	return parts[len(parts)-1]
}

// NodeDetail is the full record kept for a definition. It is a superset of
// Node's identity fields and is fetched one at a time when a node is
// inspected.
type NodeDetail struct {
	Name        string `json:"name"`
	OID         string `json:"oid,omitempty"`
	Module      string `json:"module,omitempty"`
	SymOID      string `json:"sym_oid,omitempty"`
	Class       string `json:"klass,omitempty"`
	Syntax      string `json:"syntax,omitempty"`
	Description string `json:"description,omitempty"`
}

// SearchHit points at a single node across the corpus. Module plus OID is
// sufficient to deep-link to the node without re-fetching its module first.
type SearchHit struct {
	Name        string `json:"name"`
	Module      string `json:"module"`
	OID         string `json:"oid,omitempty"`
	Description string `json:"description,omitempty"`
}

// Module is a parsed MIB module: its OID forest plus cross-references to
// the modules it imports from. The struct marshals to the wire shape served
// by GET /module/{name}.
type Module struct {
	Name     string              `json:"name"`
	Identity Identity            `json:"module_identity"`
	Imports  map[string][]string `json:"imports,omitempty"`
	Doc      []Node              `json:"doc"`

	details map[string]NodeDetail
}

// Detail looks up the full record for the node with the given OID.
func (m *Module) Detail(oid string) (NodeDetail, bool) {
	d, ok := m.details[oid]
	return d, ok
}

// DisplayName returns the MODULE-IDENTITY name, falling back to the module
// name itself.
func (m *Module) DisplayName() string {
	if m.Identity.Name != "" {
		return m.Identity.Name
	}
	return m.Name
}

// Flatten walks the document forest depth-first and returns the full detail
// record of every node in tree order. Nodes whose detail record went
// missing are skipped.
func (m *Module) Flatten() []NodeDetail {
	var out []NodeDetail
	var walk func(nodes []Node)
	walk = func(nodes []Node) {
		for _, n := range nodes {
			if d, ok := m.details[n.OID]; ok {
				out = append(out, d)
			}
			walk(n.Children)
		}
	}
	walk(m.Doc)
	return out
}
