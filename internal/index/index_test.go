package index

import (
	"strings"
	"testing"

	"github.com/mibscope/mibscope/pkg/mib"
)

const ifaceMIB = `
IFACE-MIB DEFINITIONS ::= BEGIN
ifaceMIB MODULE-IDENTITY
    DESCRIPTION "Interface objects."
    ::= { mib-2 310 }
ifaceTable OBJECT IDENTIFIER ::= { ifaceMIB 1 }
ifaceAdminStatus OBJECT-TYPE
    SYNTAX INTEGER { up(1), down(2) }
    MAX-ACCESS read-write
    STATUS current
    DESCRIPTION "Desired interface state."
    ::= { ifaceTable 1 }
END
`

const clockMIB = `
CLOCK-MIB DEFINITIONS ::= BEGIN
clockMIB MODULE-IDENTITY
    DESCRIPTION "Clock objects."
    ::= { mib-2 311 }
clockDrift OBJECT-TYPE
    SYNTAX INTEGER
    MAX-ACCESS read-only
    STATUS current
    DESCRIPTION "Observed drift in seconds."
    ::= { clockMIB 1 }
END
`

func openTestIndex(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	var modules []*mib.Module
	for _, text := range []string{ifaceMIB, clockMIB} {
		mod, err := mib.Parse(text)
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		modules = append(modules, mod)
	}
	if err := db.Rebuild(modules); err != nil {
		t.Fatalf("Rebuild error: %v", err)
	}
	return db
}

func TestSearchByName(t *testing.T) {
	db := openTestIndex(t)

	hits, err := db.Search("ifaceAdmin", 0)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("hits = %d, want 1", len(hits))
	}
	h := hits[0]
	if h.Name != "ifaceAdminStatus" || h.Module != "IFACE-MIB" {
		t.Errorf("hit = %+v", h)
	}
	if h.OID != "1.3.6.1.2.1.310.1.1" {
		t.Errorf("hit OID = %q", h.OID)
	}
}

func TestSearchCaseInsensitive(t *testing.T) {
	db := openTestIndex(t)

	hits, err := db.Search("CLOCKDRIFT", 0)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(hits) != 1 || hits[0].Name != "clockDrift" {
		t.Errorf("hits = %+v, want clockDrift", hits)
	}
}

func TestSearchAcrossFields(t *testing.T) {
	db := openTestIndex(t)

	// Matches the description text, not just names.
	hits, err := db.Search("drift in seconds", 0)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(hits) != 1 || hits[0].Name != "clockDrift" {
		t.Errorf("hits = %+v, want clockDrift", hits)
	}

	// Matches OIDs too.
	hits, err = db.Search("1.3.6.1.2.1.311", 0)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(hits) != 2 {
		t.Errorf("hits = %d, want 2 (clockMIB and clockDrift)", len(hits))
	}
}

func TestSearchOrderAndMiss(t *testing.T) {
	db := openTestIndex(t)

	// "mib" matches every node; order follows module then tree order.
	hits, err := db.Search("mib", 0)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(hits) != 5 {
		t.Fatalf("hits = %d, want 5", len(hits))
	}
	if hits[0].Name != "ifaceMIB" || hits[len(hits)-1].Name != "clockDrift" {
		t.Errorf("order = %v", hits)
	}

	hits, err = db.Search("no-such-thing", 0)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("hits = %v, want none", hits)
	}

	// Blank terms return nothing rather than everything.
	if hits, _ := db.Search("   ", 0); len(hits) != 0 {
		t.Errorf("blank search hits = %v, want none", hits)
	}
}

func TestSearchSnippetTruncation(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	defer db.Close()

	long := strings.Repeat("x", 300)
	text := `
LONG-MIB DEFINITIONS ::= BEGIN
longNode OBJECT-TYPE
    SYNTAX INTEGER
    MAX-ACCESS read-only
    STATUS current
    DESCRIPTION "` + long + `"
    ::= { mib-2 999 }
END
`
	mod, err := mib.Parse(text)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if err := db.Rebuild([]*mib.Module{mod}); err != nil {
		t.Fatalf("Rebuild error: %v", err)
	}

	hits, err := db.Search("longnode", 0)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("hits = %d, want 1", len(hits))
	}
	if got := len([]rune(hits[0].Description)); got != 100 {
		t.Errorf("snippet length = %d, want 100", got)
	}
}

func TestRebuildReplaces(t *testing.T) {
	db := openTestIndex(t)

	mod, err := mib.Parse(clockMIB)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if err := db.Rebuild([]*mib.Module{mod}); err != nil {
		t.Fatalf("Rebuild error: %v", err)
	}

	n, err := db.Count()
	if err != nil {
		t.Fatalf("Count error: %v", err)
	}
	if n != 2 {
		t.Errorf("Count = %d, want 2 after rebuild", n)
	}
	if hits, _ := db.Search("iface", 0); len(hits) != 0 {
		t.Errorf("stale hits after rebuild: %v", hits)
	}
}
