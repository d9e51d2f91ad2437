package mib

import "regexp"

var (
	reEnumSyntax = regexp.MustCompile(`(?s)^\s*INTEGER\s*\{(.*)\}\s*$`)
	reEnumPair   = regexp.MustCompile(`([A-Za-z][A-Za-z0-9-]*)\s*\(\s*(\d+)\s*\)`)
)

// EnumValue is one named value of an enumerated INTEGER syntax.
type EnumValue struct {
	Name  string
	Value string
}

// ParseEnum recognizes the enumerated-integer grammar
// `INTEGER { name1(value1), name2(value2), ... }` and extracts its
// name/value pairs in source order, duplicates preserved.
//
// This is a best-effort structured view, not a grammar parser: anything not
// matching that one shape reports ok == false and callers should fall back
// to showing the raw syntax text.
func ParseEnum(syntax string) (values []EnumValue, ok bool) {
	m := reEnumSyntax.FindStringSubmatch(syntax)
	if m == nil {
		return nil, false
	}
	for _, pair := range reEnumPair.FindAllStringSubmatch(m[1], -1) {
		values = append(values, EnumValue{Name: pair[1], Value: pair[2]})
	}
	if len(values) == 0 {
		return nil, false
	}
	return values, true
}
