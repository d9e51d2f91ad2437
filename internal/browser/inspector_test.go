package browser

import (
	"strings"
	"testing"

	"github.com/mibscope/mibscope/pkg/mib"
)

func TestRenderSyntaxEnumTable(t *testing.T) {
	out := renderSyntax("INTEGER { up(1), down(2), testing(3) }")

	for _, want := range []string{"Name", "Value", "up", "down", "testing", "1", "2", "3"} {
		if !strings.Contains(out, want) {
			t.Errorf("enum table missing %q:\n%s", want, out)
		}
	}
}

func TestRenderSyntaxNonEnumVerbatim(t *testing.T) {
	raw := "Integer32 (0..65535)"
	out := renderSyntax(raw)
	if !strings.Contains(out, raw) {
		t.Fatalf("non-enum syntax must render verbatim, got:\n%s", out)
	}
}

func TestRenderInspectorOmitsEmptyFields(t *testing.T) {
	m := New(nil)
	m.inspectorOpen = true
	m.detail = &mib.NodeDetail{
		Name:   "acmeStatus",
		OID:    "1.3.6.1.4.1.9999.1.1",
		Module: "ACME-MIB",
	}

	out := m.renderInspector(inspectorWidth)
	if !strings.Contains(out, "acmeStatus") || !strings.Contains(out, "1.3.6.1.4.1.9999.1.1") {
		t.Fatalf("inspector must show name and OID:\n%s", out)
	}
	for _, label := range []string{"Symbolic", "Class", "Syntax", "Description"} {
		if strings.Contains(out, label) {
			t.Errorf("empty field %q must not render a labeled row", label)
		}
	}
}
