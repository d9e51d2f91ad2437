package mib

import (
	"reflect"
	"testing"
)

const sampleMIB = `
ACME-MIB DEFINITIONS ::= BEGIN

IMPORTS
    OBJECT-TYPE, MODULE-IDENTITY, enterprises
        FROM SNMPv2-SMI
    DisplayString
        FROM SNMPv2-TC;

acmeMIB MODULE-IDENTITY
    LAST-UPDATED "202401010000Z"
    ORGANIZATION "ACME"
    DESCRIPTION
        "The ACME enterprise tree."
    ::= { enterprises 9999 }

acmeObjects OBJECT IDENTIFIER ::= { acmeMIB 1 }

acmeStatus OBJECT-TYPE
    SYNTAX      INTEGER { up(1), down(2), testing(3) }
    MAX-ACCESS  read-write
    STATUS      current
    DESCRIPTION
        "The desired state of the
         widget."
    ::= { acmeObjects 1 }

acmeLabel OBJECT-TYPE
    SYNTAX      DisplayString
    MAX-ACCESS  read-only
    STATUS      current
    DESCRIPTION "A short label." -- trailing comment
    ::= { acmeObjects 2 }

END
`

func TestParse(t *testing.T) {
	mod, err := Parse(sampleMIB)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if mod.Name != "ACME-MIB" {
		t.Errorf("Name = %q, want %q", mod.Name, "ACME-MIB")
	}
	if mod.Identity.Name != "acmeMIB" {
		t.Errorf("Identity.Name = %q, want %q", mod.Identity.Name, "acmeMIB")
	}
	if mod.DisplayName() != "acmeMIB" {
		t.Errorf("DisplayName() = %q, want %q", mod.DisplayName(), "acmeMIB")
	}

	wantImports := map[string][]string{
		"SNMPv2-SMI": {"OBJECT-TYPE", "MODULE-IDENTITY", "enterprises"},
		"SNMPv2-TC":  {"DisplayString"},
	}
	if !reflect.DeepEqual(mod.Imports, wantImports) {
		t.Errorf("Imports = %v, want %v", mod.Imports, wantImports)
	}
}

func TestParseOIDResolution(t *testing.T) {
	mod, err := Parse(sampleMIB)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	tests := []struct {
		oid    string
		name   string
		symOID string
	}{
		{"1.3.6.1.4.1.9999", "acmeMIB", "{enterprises 9999}"},
		{"1.3.6.1.4.1.9999.1", "acmeObjects", "{acmeMIB 1}"},
		{"1.3.6.1.4.1.9999.1.1", "acmeStatus", "{acmeObjects 1}"},
		{"1.3.6.1.4.1.9999.1.2", "acmeLabel", "{acmeObjects 2}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := mod.Detail(tt.oid)
			if !ok {
				t.Fatalf("Detail(%q) not found", tt.oid)
			}
			if d.Name != tt.name {
				t.Errorf("Name = %q, want %q", d.Name, tt.name)
			}
			if d.SymOID != tt.symOID {
				t.Errorf("SymOID = %q, want %q", d.SymOID, tt.symOID)
			}
		})
	}
}

func TestParseForest(t *testing.T) {
	mod, err := Parse(sampleMIB)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if len(mod.Doc) != 1 {
		t.Fatalf("Doc roots = %d, want 1", len(mod.Doc))
	}
	root := mod.Doc[0]
	if root.Name != "acmeMIB" {
		t.Errorf("root = %q, want acmeMIB", root.Name)
	}
	if len(root.Children) != 1 || root.Children[0].Name != "acmeObjects" {
		t.Fatalf("root children = %v, want [acmeObjects]", root.Children)
	}
	leaves := root.Children[0].Children
	if len(leaves) != 2 {
		t.Fatalf("acmeObjects children = %d, want 2", len(leaves))
	}
	// Numeric OID order, not lexical.
	if leaves[0].Name != "acmeStatus" || leaves[1].Name != "acmeLabel" {
		t.Errorf("leaf order = [%s %s], want [acmeStatus acmeLabel]", leaves[0].Name, leaves[1].Name)
	}
	if leaves[0].Module != "ACME-MIB" {
		t.Errorf("leaf module = %q, want ACME-MIB", leaves[0].Module)
	}
}

func TestParseFields(t *testing.T) {
	mod, err := Parse(sampleMIB)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	d, ok := mod.Detail("1.3.6.1.4.1.9999.1.1")
	if !ok {
		t.Fatal("acmeStatus detail not found")
	}
	if d.Class != "OBJECT-TYPE" {
		t.Errorf("Class = %q, want OBJECT-TYPE", d.Class)
	}
	if d.Syntax != "INTEGER { up(1), down(2), testing(3) }" {
		t.Errorf("Syntax = %q", d.Syntax)
	}
	// Description whitespace is collapsed to single spaces.
	if d.Description != "The desired state of the widget." {
		t.Errorf("Description = %q", d.Description)
	}

	// Comments are stripped before field extraction.
	d, _ = mod.Detail("1.3.6.1.4.1.9999.1.2")
	if d.Description != "A short label." {
		t.Errorf("Description = %q, want %q", d.Description, "A short label.")
	}
	if d.Syntax != "DisplayString" {
		t.Errorf("Syntax = %q, want DisplayString", d.Syntax)
	}
}

func TestParseNoModuleName(t *testing.T) {
	if _, err := Parse("this is not a MIB"); err != ErrNoModuleName {
		t.Errorf("Parse() error = %v, want ErrNoModuleName", err)
	}
}

func TestParseUnresolvedDropped(t *testing.T) {
	const text = `
ORPHAN-MIB DEFINITIONS ::= BEGIN
known OBJECT IDENTIFIER ::= { mib-2 77 }
orphan OBJECT IDENTIFIER ::= { nowhere 1 }
END
`
	mod, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(mod.Doc) != 1 || mod.Doc[0].Name != "known" {
		t.Errorf("Doc = %v, want single known root", mod.Doc)
	}
	if _, ok := mod.Detail("1.3.6.1.2.1.77"); !ok {
		t.Error("known node missing from details")
	}
}

func TestFlattenTreeOrder(t *testing.T) {
	mod, err := Parse(sampleMIB)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	flat := mod.Flatten()
	var names []string
	for _, d := range flat {
		names = append(names, d.Name)
	}
	want := []string{"acmeMIB", "acmeObjects", "acmeStatus", "acmeLabel"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("Flatten order = %v, want %v", names, want)
	}
}
