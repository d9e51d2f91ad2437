// Package index provides a SQLite-backed search index over corpus nodes.
//
// Every node of every loaded module becomes one row carrying its locator
// fields plus a lowercased haystack of everything searchable. Search is a
// case-insensitive substring match over the haystack in insertion order,
// which preserves each module's tree order in the results.
package index

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mibscope/mibscope/pkg/mib"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS nodes (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	module      TEXT NOT NULL,
	name        TEXT NOT NULL,
	oid         TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	haystack    TEXT NOT NULL
);
`

// maxHits caps the number of search results returned for one query.
const maxHits = 200

// snippetLen is the maximum length of a hit's description preview.
const snippetLen = 100

// DB wraps a sql.DB with node index operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the index database and applies the schema.
// Use ":memory:" for a process-local index.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	// A single connection keeps an in-memory database coherent across calls.
	conn.SetMaxOpenConns(1)
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Rebuild replaces the whole index with the nodes of the given modules, in
// module and tree order.
func (db *DB) Rebuild(modules []*mib.Module) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM nodes`); err != nil {
		return fmt.Errorf("index: clear: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO nodes (module, name, oid, description, haystack) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("index: prepare: %w", err)
	}
	defer stmt.Close()

	for _, mod := range modules {
		for _, d := range mod.Flatten() {
			if _, err := stmt.Exec(d.Module, d.Name, d.OID, d.Description, haystack(d)); err != nil {
				return fmt.Errorf("index: insert %s::%s: %w", d.Module, d.Name, err)
			}
		}
	}
	return tx.Commit()
}

// Search returns up to maxHits nodes whose haystack contains term,
// case-insensitively, in index order. Hit descriptions are truncated to a
// short preview.
func (db *DB) Search(term string, limit int) ([]mib.SearchHit, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil, nil
	}
	if limit <= 0 || limit > maxHits {
		limit = maxHits
	}

	rows, err := db.conn.Query(`
		SELECT module, name, oid, description
		FROM nodes
		WHERE instr(haystack, ?) > 0
		ORDER BY id
		LIMIT ?
	`, term, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	var hits []mib.SearchHit
	for rows.Next() {
		var h mib.SearchHit
		var desc string
		if err := rows.Scan(&h.Module, &h.Name, &h.OID, &desc); err != nil {
			return nil, err
		}
		h.Description = snippet(desc)
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// Count returns the number of indexed nodes.
func (db *DB) Count() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM nodes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("index: count: %w", err)
	}
	return n, nil
}

// haystack joins every searchable field of a node into one lowercased blob.
func haystack(d mib.NodeDetail) string {
	return strings.ToLower(strings.Join([]string{
		d.Module, d.Name, d.OID, d.SymOID, d.Class, d.Syntax, d.Description,
	}, " "))
}

func snippet(desc string) string {
	runes := []rune(desc)
	if len(runes) <= snippetLen {
		return desc
	}
	return string(runes[:snippetLen])
}
