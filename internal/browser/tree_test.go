package browser

import (
	"reflect"
	"testing"

	"github.com/mibscope/mibscope/pkg/mib"
)

func testForest() []mib.Node {
	return []mib.Node{
		{
			Name:   "acmeMIB",
			OID:    "1.3.6.1.4.1.9999",
			Module: "ACME-MIB",
			Children: []mib.Node{
				{
					Name:   "acmeObjects",
					OID:    "1.3.6.1.4.1.9999.1",
					Module: "ACME-MIB",
					Children: []mib.Node{
						{Name: "acmeStatus", OID: "1.3.6.1.4.1.9999.1.1", Module: "ACME-MIB"},
						{Name: "acmeLabel", OID: "1.3.6.1.4.1.9999.1.2", Module: "ACME-MIB"},
					},
				},
				{Name: "acmeConformance", OID: "1.3.6.1.4.1.9999.2", Module: "ACME-MIB"},
			},
		},
	}
}

func rowNames(rows []Row) []string {
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.Name
	}
	return names
}

func TestFlattenCollapsed(t *testing.T) {
	rows := Flatten(testForest(), map[string]bool{})
	if got, want := rowNames(rows), []string{"acmeMIB"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("collapsed rows = %v, want %v", got, want)
	}
	if !rows[0].HasChildren || rows[0].Expanded {
		t.Errorf("root row: HasChildren=%v Expanded=%v, want true/false", rows[0].HasChildren, rows[0].Expanded)
	}
	if rows[0].Suffix != "9999" {
		t.Errorf("root suffix = %q, want last arc", rows[0].Suffix)
	}
}

func TestFlattenExpanded(t *testing.T) {
	expanded := map[string]bool{
		"1.3.6.1.4.1.9999":   true,
		"1.3.6.1.4.1.9999.1": true,
	}
	rows := Flatten(testForest(), expanded)
	want := []string{"acmeMIB", "acmeObjects", "acmeStatus", "acmeLabel", "acmeConformance"}
	if got := rowNames(rows); !reflect.DeepEqual(got, want) {
		t.Fatalf("expanded rows = %v, want %v", got, want)
	}

	depths := []int{0, 1, 2, 2, 1}
	for i, row := range rows {
		if row.Depth != depths[i] {
			t.Errorf("row %s depth = %d, want %d", row.Name, row.Depth, depths[i])
		}
	}
}

func TestFlattenSkipsNamelessNodes(t *testing.T) {
	nodes := []mib.Node{
		{
			Name: "root", OID: "1.3",
			Children: []mib.Node{
				{Name: "", OID: "1.3.1"},
				{Name: "kept", OID: "1.3.2"},
			},
		},
	}
	rows := Flatten(nodes, map[string]bool{"1.3": true})
	if got, want := rowNames(rows), []string{"root", "kept"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("rows = %v, want nameless child skipped: %v", got, want)
	}
}

func TestFlattenNoOIDMarker(t *testing.T) {
	nodes := []mib.Node{{Name: "textualThing"}}
	rows := Flatten(nodes, map[string]bool{})
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].Suffix != "(No OID)" {
		t.Errorf("suffix = %q, want %q", rows[0].Suffix, "(No OID)")
	}
	if rows[0].Key == "" {
		t.Error("node without OID must still get a stable key")
	}
}

func TestContainerKeys(t *testing.T) {
	keys := ContainerKeys(testForest())
	want := []string{"1.3.6.1.4.1.9999", "1.3.6.1.4.1.9999.1"}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("ContainerKeys = %v, want %v", keys, want)
	}
}

func TestAncestorKeys(t *testing.T) {
	keys, ok := AncestorKeys(testForest(), "1.3.6.1.4.1.9999.1.2")
	if !ok {
		t.Fatal("expected OID to be found")
	}
	want := []string{"1.3.6.1.4.1.9999", "1.3.6.1.4.1.9999.1"}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("AncestorKeys = %v, want outermost-first %v", keys, want)
	}
}

func TestAncestorKeysUnknownOID(t *testing.T) {
	if _, ok := AncestorKeys(testForest(), "1.9.9"); ok {
		t.Fatal("unknown OID must report not found")
	}
}
