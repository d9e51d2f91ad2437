package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/mibscope/mibscope/internal/index"
	"github.com/mibscope/mibscope/pkg/cache"
	"github.com/mibscope/mibscope/pkg/corpus"
	"github.com/mibscope/mibscope/pkg/mib"
)

const routerMIB = `
ROUTER-MIB DEFINITIONS ::= BEGIN
IMPORTS enterprises FROM SNMPv2-SMI;
routerMIB MODULE-IDENTITY
    DESCRIPTION "Router objects."
    ::= { enterprises 4242 }
routerUptime OBJECT-TYPE
    SYNTAX INTEGER
    MAX-ACCESS read-only
    STATUS current
    DESCRIPTION "Seconds since boot."
    ::= { routerMIB 1 }
END
`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "router.mib"), []byte(routerMIB), 0o644); err != nil {
		t.Fatal(err)
	}

	logger := log.New(io.Discard)
	store := corpus.NewStore(cache.NewNullCache(), logger)
	if err := store.Load(context.Background(), dir); err != nil {
		t.Fatalf("Load error: %v", err)
	}

	idx, err := index.Open(":memory:")
	if err != nil {
		t.Fatalf("index.Open error: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	if err := idx.Rebuild(store.Modules()); err != nil {
		t.Fatalf("Rebuild error: %v", err)
	}

	srv := httptest.NewServer(NewRouter(NewHandler(store, idx), logger))
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, wantStatus int, v any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("GET %s status = %d, want %d", url, resp.StatusCode, wantStatus)
	}
	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
}

func TestListModules(t *testing.T) {
	srv := newTestServer(t)

	var got modulesResponse
	getJSON(t, srv.URL+"/modules", http.StatusOK, &got)

	if len(got.Modules) != 1 || got.Modules[0] != "ROUTER-MIB" {
		t.Errorf("modules = %v", got.Modules)
	}
	if got.Generation == "" {
		t.Error("generation missing")
	}
}

func TestGetModule(t *testing.T) {
	srv := newTestServer(t)

	var mod mib.Module
	getJSON(t, srv.URL+"/module/ROUTER-MIB", http.StatusOK, &mod)

	if mod.Name != "ROUTER-MIB" {
		t.Errorf("name = %q", mod.Name)
	}
	if mod.Identity.Name != "routerMIB" {
		t.Errorf("identity = %q", mod.Identity.Name)
	}
	if _, ok := mod.Imports["SNMPv2-SMI"]; !ok {
		t.Errorf("imports = %v", mod.Imports)
	}
	if len(mod.Doc) != 1 || mod.Doc[0].Name != "routerMIB" {
		t.Fatalf("doc = %v", mod.Doc)
	}
	if len(mod.Doc[0].Children) != 1 || mod.Doc[0].Children[0].Name != "routerUptime" {
		t.Errorf("children = %v", mod.Doc[0].Children)
	}
}

func TestGetModuleNotFound(t *testing.T) {
	srv := newTestServer(t)

	var body errResponse
	getJSON(t, srv.URL+"/module/NOPE-MIB", http.StatusNotFound, &body)
	if body.Error == "" {
		t.Error("expected error body")
	}
}

func TestGetNodeDetail(t *testing.T) {
	srv := newTestServer(t)

	var d mib.NodeDetail
	getJSON(t, srv.URL+"/module/ROUTER-MIB?oid=1.3.6.1.4.1.4242.1", http.StatusOK, &d)

	if d.Name != "routerUptime" {
		t.Errorf("name = %q", d.Name)
	}
	if d.Class != "OBJECT-TYPE" || d.Syntax != "INTEGER" {
		t.Errorf("detail = %+v", d)
	}
	if d.SymOID != "{routerMIB 1}" {
		t.Errorf("sym_oid = %q", d.SymOID)
	}

	var body errResponse
	getJSON(t, srv.URL+"/module/ROUTER-MIB?oid=9.9.9", http.StatusNotFound, &body)
	if body.Error == "" {
		t.Error("expected error body for unknown oid")
	}
}

func TestSearchEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var hits []mib.SearchHit
	getJSON(t, srv.URL+"/search?term=uptime", http.StatusOK, &hits)
	if len(hits) != 1 || hits[0].Name != "routerUptime" {
		t.Errorf("hits = %+v", hits)
	}

	hits = nil
	getJSON(t, srv.URL+"/search?term=zzz-none", http.StatusOK, &hits)
	if len(hits) != 0 {
		t.Errorf("hits = %+v, want empty", hits)
	}
}
