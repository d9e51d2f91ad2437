package mib

import (
	"errors"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ErrNoModuleName is returned when the text contains no
// `NAME DEFINITIONS ::= BEGIN` header.
var ErrNoModuleName = errors.New("mib: no module name found")

var (
	reComment    = regexp.MustCompile(`--[^\n]*`)
	reModuleName = regexp.MustCompile(`([A-Za-z][A-Za-z0-9-]*)\s+DEFINITIONS\s*::=\s*BEGIN`)
	reImports    = regexp.MustCompile(`(?s)IMPORTS\s+(.*?);`)
	reImportFrom = regexp.MustCompile(`([\w\s,-]+?)\s+FROM\s+([A-Za-z][A-Za-z0-9-]*)`)

	// One match per object macro that ends in an OID assignment. The body
	// group is non-greedy so each match stops at the first `::= { ... }`.
	reDefinition = regexp.MustCompile(`(?s)([A-Za-z][A-Za-z0-9-]*)\s+` +
		`(OBJECT-TYPE|OBJECT IDENTIFIER|MODULE-IDENTITY|OBJECT-GROUP|NOTIFICATION-TYPE|TRAP-TYPE|TEXTUAL-CONVENTION)\s+` +
		`(.*?)::=\s*\{(.*?)\}`)

	reDescription = regexp.MustCompile(`(?s)DESCRIPTION\s+"(.*?)"`)
	reSyntax      = regexp.MustCompile(`(?s)SYNTAX\s+(.*?)(MAX-ACCESS|ACCESS|STATUS|DESCRIPTION|INDEX|::=)`)
)

// definition is a discovered object macro before and after OID resolution.
type definition struct {
	detail NodeDetail
	oidDef string // raw `{ parent subId }` contents
}

// Parse extracts a browsable module from raw SMIv2 text.
//
// Resolution is three passes: discover every definition, resolve dotted
// OIDs to a fixpoint (seeded with iso = 1), then arrange resolved nodes
// into a forest where a node's parent is the definition owning its OID
// minus the final arc. Definitions whose OID never resolves are omitted
// from the forest.
func Parse(text string) (*Module, error) {
	src := clean(text)

	name := moduleName(src)
	if name == "" {
		return nil, ErrNoModuleName
	}

	mod := &Module{
		Name:    name,
		Imports: parseImports(src),
		details: make(map[string]NodeDetail),
	}

	// The IMPORTS symbol list names macros like OBJECT-TYPE, which the
	// definition pattern would otherwise match. Remove it before discovery.
	src = reImports.ReplaceAllString(src, "")

	defs := discover(src, name)
	resolve(defs)

	for _, d := range defs {
		if d.detail.OID == "" {
			continue
		}
		mod.details[d.detail.OID] = d.detail
		if d.detail.Class == "MODULE-IDENTITY" {
			mod.Identity = Identity{Name: d.detail.Name}
		}
	}

	mod.Doc = buildForest(mod.details)
	return mod, nil
}

// clean strips line comments, rejoins hyphen-wrapped lines and drops
// carriage returns.
func clean(text string) string {
	s := reComment.ReplaceAllString(text, "")
	s = strings.ReplaceAll(s, "-\n", "")
	return strings.ReplaceAll(s, "\r", "")
}

func moduleName(src string) string {
	m := reModuleName.FindStringSubmatch(src)
	if m == nil {
		return ""
	}
	return m[1]
}

// parseImports collects the IMPORTS clause as imported-module → symbols.
// Returns nil when the module imports nothing.
func parseImports(src string) map[string][]string {
	m := reImports.FindStringSubmatch(src)
	if m == nil {
		return nil
	}
	imports := make(map[string][]string)
	for _, clause := range reImportFrom.FindAllStringSubmatch(m[1], -1) {
		var symbols []string
		for _, item := range strings.Split(strings.ReplaceAll(clause[1], "\n", " "), ",") {
			if item = strings.TrimSpace(item); item != "" {
				symbols = append(symbols, item)
			}
		}
		imports[clause[2]] = symbols
	}
	if len(imports) == 0 {
		return nil
	}
	return imports
}

// discover runs pass one: every object macro with an OID assignment becomes
// a definition carrying its class, description and syntax.
func discover(src, module string) []*definition {
	var defs []*definition
	seen := make(map[string]bool)
	for _, m := range reDefinition.FindAllStringSubmatch(src, -1) {
		name, class, body, oidDef := m[1], m[2], m[3], m[4]
		if name == "MACRO" || seen[name] {
			continue
		}
		seen[name] = true
		defs = append(defs, &definition{
			detail: NodeDetail{
				Name:        name,
				Module:      module,
				Class:       strings.ReplaceAll(class, " ", "-"),
				Syntax:      extractSyntax(body),
				Description: extractDescription(body),
			},
			oidDef: strings.TrimSpace(oidDef),
		})
	}
	return defs
}

func extractDescription(body string) string {
	m := reDescription.FindStringSubmatch(body)
	if m == nil {
		return ""
	}
	return strings.Join(strings.Fields(m[1]), " ")
}

func extractSyntax(body string) string {
	m := reSyntax.FindStringSubmatch(body)
	if m == nil {
		return ""
	}
	return strings.Join(strings.Fields(m[1]), " ")
}

// baseOIDs are the well-known arcs most modules hang from without defining
// them locally.
var baseOIDs = map[string]string{
	"ccitt":           "0",
	"iso":             "1",
	"joint-iso-ccitt": "2",
	"org":             "1.3",
	"dod":             "1.3.6",
	"internet":        "1.3.6.1",
	"directory":       "1.3.6.1.1",
	"mgmt":            "1.3.6.1.2",
	"mib-2":           "1.3.6.1.2.1",
	"experimental":    "1.3.6.1.3",
	"private":         "1.3.6.1.4",
	"enterprises":     "1.3.6.1.4.1",
	"snmpV2":          "1.3.6.1.6",
}

// resolve runs pass two: dotted OIDs are assigned by fixpoint iteration.
// Each round resolves every definition whose parent is already known;
// iteration stops when a full round makes no progress.
func resolve(defs []*definition) {
	oids := make(map[string]string, len(baseOIDs))
	for name, oid := range baseOIDs {
		oids[name] = oid
	}
	byName := make(map[string]*definition, len(defs))
	for _, d := range defs {
		byName[d.detail.Name] = d
	}

	for progress := true; progress; {
		progress = false
		for _, d := range defs {
			if d.detail.OID != "" {
				continue
			}
			parent, sub := splitOIDDef(d.oidDef)
			if parent == "" {
				continue
			}

			parentOID := oids[parent]
			if parentOID == "" {
				if p, ok := byName[parent]; ok {
					parentOID = p.detail.OID
				}
			}
			if parentOID == "" || !isDigits(sub) {
				continue
			}

			d.detail.OID = parentOID + "." + sub
			d.detail.SymOID = "{" + parent + " " + sub + "}"
			oids[d.detail.Name] = d.detail.OID
			progress = true
		}
	}
}

// splitOIDDef interprets the contents of `::= { ... }`. The common form is
// `parent subId`; a bare number is an arc directly under iso.
func splitOIDDef(oidDef string) (parent, sub string) {
	parts := strings.Fields(oidDef)
	switch {
	case len(parts) == 2:
		return parts[0], parts[1]
	case len(parts) == 1 && isDigits(parts[0]):
		return "iso", parts[0]
	}
	return "", ""
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// buildForest runs pass three: resolved nodes are sorted by numeric OID and
// attached to the node owning their OID prefix. Nodes without a resolved
// parent become roots.
func buildForest(details map[string]NodeDetail) []Node {
	oids := make([]string, 0, len(details))
	for oid := range details {
		oids = append(oids, oid)
	}
	sort.Slice(oids, func(i, j int) bool { return oidLess(oids[i], oids[j]) })

	children := make(map[string][]string)
	var roots []string
	for _, oid := range oids {
		parent := ""
		if i := strings.LastIndex(oid, "."); i > 0 {
			if _, ok := details[oid[:i]]; ok {
				parent = oid[:i]
			}
		}
		if parent == "" {
			roots = append(roots, oid)
			continue
		}
		children[parent] = append(children[parent], oid)
	}

	var build func(oid string) Node
	build = func(oid string) Node {
		d := details[oid]
		n := Node{Name: d.Name, OID: d.OID, Module: d.Module}
		for _, c := range children[oid] {
			n.Children = append(n.Children, build(c))
		}
		return n
	}

	doc := make([]Node, 0, len(roots))
	for _, oid := range roots {
		doc = append(doc, build(oid))
	}
	return doc
}

// oidLess orders dotted OIDs by their numeric arcs.
func oidLess(a, b string) bool {
	as, bs := strings.Split(a, "."), strings.Split(b, ".")
	for i := 0; i < len(as) && i < len(bs); i++ {
		ai, _ := strconv.Atoi(as[i])
		bi, _ := strconv.Atoi(bs[i])
		if ai != bi {
			return ai < bi
		}
	}
	return len(as) < len(bs)
}
