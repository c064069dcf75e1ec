// Package index flattens a materialized catalog and its migration log
// into a SQLite database for ad-hoc querying.
package index

import (
	"database/sql"
	"fmt"
	"slices"
	"strings"

	"github.com/containerd/log"
	"github.com/ohler55/ojg/oj"
	_ "modernc.org/sqlite"

	"github.com/culinary-data/larder/api"
	"github.com/culinary-data/larder/catalog"
	"github.com/culinary-data/larder/migrate"
)

// Writer bulk-inserts catalog records and migration entries into one
// SQLite file. All writes happen inside a single transaction committed
// by Close.
type Writer struct {
	db      *sql.DB
	tx      *sql.Tx
	stmtRec *sql.Stmt
	stmtMig *sql.Stmt
	records int
	entries int
}

// NewWriter opens (or creates) the database at path and initializes the
// schema.
func NewWriter(path string) (*Writer, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	// Bulk-insert tuning; durability is restored when the file is closed.
	if _, err := db.Exec("PRAGMA synchronous = OFF"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec("PRAGMA journal_mode = MEMORY"); err != nil {
		_ = db.Close()
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS records (
		category TEXT NOT NULL,
		path TEXT NOT NULL,
		depth INTEGER NOT NULL,
		parents TEXT,
		info JSON,
		PRIMARY KEY (category, path)
	);

	CREATE TABLE IF NOT EXISTS migrations (
		category TEXT NOT NULL,
		ts INTEGER NOT NULL,
		seq INTEGER NOT NULL,
		kind TEXT NOT NULL,
		ref TEXT NOT NULL,
		dest TEXT,
		PRIMARY KEY (category, ts, seq)
	);
	`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	w := &Writer{db: db}
	if err := w.begin(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return w, nil
}

func (w *Writer) begin() error {
	var err error
	w.tx, err = w.db.Begin()
	if err != nil {
		return err
	}
	w.stmtRec, err = w.tx.Prepare(`
		INSERT OR REPLACE INTO records (category, path, depth, parents, info)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	w.stmtMig, err = w.tx.Prepare(`
		INSERT OR REPLACE INTO migrations (category, ts, seq, kind, ref, dest)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	return err
}

// WriteCategory aggregates one category through c and flattens the
// resulting tree into the records table.
func (w *Writer) WriteCategory(c *catalog.Catalog, category string) error {
	tree, err := c.Aggregate(category)
	if err != nil {
		return err
	}
	before := w.records
	if err := w.writeTree(category, tree, nil); err != nil {
		return err
	}
	log.L.WithField("category", category).WithField("records", w.records-before).Debug("indexed records")
	return nil
}

// writeTree walks one tree level. Keys are visited sorted so the written
// file is reproducible run-to-run.
func (w *Writer) writeTree(category string, node map[string]any, segs []string) error {
	keys := make([]string, 0, len(node))
	for k := range node {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		v := node[k]
		if k == api.InfoKey {
			info, err := oj.Marshal(v)
			if err != nil {
				return fmt.Errorf("encode info at %s: %w", strings.Join(segs, "/"), err)
			}
			var parents *string
			if len(segs) > 1 {
				p := strings.Join(segs[:len(segs)-1], "/")
				parents = &p
			}
			if _, err := w.stmtRec.Exec(category, strings.Join(segs, "/"), len(segs), parents, info); err != nil {
				return fmt.Errorf("insert record %s: %w", strings.Join(segs, "/"), err)
			}
			w.records++
			continue
		}
		child, ok := v.(map[string]any)
		if !ok {
			continue
		}
		if err := w.writeTree(category, child, append(segs, k)); err != nil {
			return err
		}
	}
	return nil
}

// WriteMigrations streams the full migration log of one category into
// the migrations table, one row per directive, preserving file order via
// a per-timestamp sequence number.
func (w *Writer) WriteMigrations(l *migrate.Log, category string) error {
	total, err := migrate.Reduce(l, category, 0, func(m *api.Migration, n int) (int, error) {
		seq := 0
		row := func(kind, ref string, dest *string) error {
			if _, err := w.stmtMig.Exec(category, m.Timestamp, seq, kind, ref, dest); err != nil {
				return fmt.Errorf("insert migration %s/%s: %w", category, m.Timestamp, err)
			}
			seq++
			return nil
		}
		for _, ref := range m.Add {
			if err := row("add", ref, nil); err != nil {
				return 0, err
			}
		}
		for _, ref := range m.Update {
			if err := row("update", ref, nil); err != nil {
				return 0, err
			}
		}
		for _, ref := range m.Delete {
			if err := row("delete", ref, nil); err != nil {
				return 0, err
			}
		}
		for _, mv := range m.Move {
			dest := mv.To
			if err := row("move", mv.From, &dest); err != nil {
				return 0, err
			}
		}
		return n + seq, nil
	}, migrate.Start)
	if err != nil {
		return err
	}
	w.entries += total
	log.L.WithField("category", category).WithField("entries", total).Debug("indexed migrations")
	return nil
}

// Close commits the transaction, builds lookup indices, and closes the
// database.
func (w *Writer) Close() error {
	if w.stmtRec != nil {
		_ = w.stmtRec.Close()
	}
	if w.stmtMig != nil {
		_ = w.stmtMig.Close()
	}
	if err := w.tx.Commit(); err != nil {
		_ = w.db.Close()
		return err
	}
	// Indices after bulk load for speed.
	if _, err := w.db.Exec(`CREATE INDEX IF NOT EXISTS idx_records_depth ON records(category, depth)`); err != nil {
		_ = w.db.Close()
		return err
	}
	if _, err := w.db.Exec(`CREATE INDEX IF NOT EXISTS idx_migrations_ts ON migrations(category, ts)`); err != nil {
		_ = w.db.Close()
		return err
	}
	return w.db.Close()
}
