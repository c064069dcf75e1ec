// Package migrate materializes the append-only migration log kept next
// to each catalog category. Every dated log file is normalized into one
// change-set of additions, updates, deletions, and moves, and change-sets
// are replayed in ascending timestamp order after a checkpoint.
package migrate

import (
	"cmp"
	"fmt"
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/goccy/go-yaml"

	"github.com/culinary-data/larder/api"
	"github.com/culinary-data/larder/internal/scan"
)

// LogDir is the fixed per-category subdirectory holding migration files.
const LogDir = "__migrations__"

// Start is the checkpoint that selects the entire log: every migration
// timestamp is strictly greater than it.
const Start int64 = -1

const filePattern = "*.yml"

// Log reads the migration logs of one data root.
type Log struct {
	fs     billy.Filesystem
	lister *scan.Scanner
}

// Open returns a Log over the OS directory at root.
func Open(root string) *Log {
	return New(osfs.New(root))
}

// New returns a Log over an arbitrary billy filesystem.
func New(fs billy.Filesystem) *Log {
	return &Log{fs: fs, lister: scan.New(fs)}
}

// Migrations returns every change-set of category recorded strictly
// after the since checkpoint, in ascending timestamp order. Timestamps
// sort numerically, so 9 precedes 10. A category without a migration
// directory has zero migrations; that is not an error.
func (l *Log) Migrations(category string, since int64) ([]*api.Migration, error) {
	return Reduce(l, category, []*api.Migration(nil),
		func(m *api.Migration, acc []*api.Migration) ([]*api.Migration, error) {
			return append(acc, m), nil
		}, since)
}

// Reduce streams the same change-sets Migrations would return, in the
// same order, through visit without building the intermediate slice.
// A parse failure or a visit error aborts the whole fold and returns the
// zero value of T.
func Reduce[T any](l *Log, category string, acc T, visit func(*api.Migration, T) (T, error), since int64) (T, error) {
	var zero T

	entries, err := l.entries(category, since)
	if err != nil {
		return zero, err
	}
	for _, e := range entries {
		m, err := l.parseFile(e)
		if err != nil {
			return zero, err
		}
		acc, err = visit(m, acc)
		if err != nil {
			return zero, err
		}
	}
	return acc, nil
}

// entry pairs a migration file with its decoded timestamp.
type entry struct {
	ts   int64
	stem string
	path string
}

func (l *Log) entries(category string, since int64) ([]entry, error) {
	dir := path.Join(category, LogDir)
	names, err := l.lister.List(dir, filePattern)
	if err != nil {
		return nil, err
	}
	var out []entry
	for _, name := range names {
		stem := strings.TrimSuffix(name, path.Ext(name))
		ts, err := strconv.ParseInt(stem, 10, 64)
		if err != nil {
			return nil, &TimestampError{Path: path.Join(dir, name), Stem: stem}
		}
		if ts <= since {
			continue
		}
		out = append(out, entry{ts: ts, stem: stem, path: path.Join(dir, name)})
	}
	slices.SortFunc(out, func(a, b entry) int {
		return cmp.Compare(a.ts, b.ts)
	})
	return out, nil
}

// parseFile normalizes one log file: an ordered YAML sequence of
// single-key directives, folded into one Migration. The normalization is
// total: every directive must dispatch to one of the four change kinds.
func (l *Log) parseFile(e entry) (*api.Migration, error) {
	data, err := util.ReadFile(l.fs, e.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", e.path, err)
	}
	var directives []map[string]string
	if err := yaml.Unmarshal(data, &directives); err != nil {
		return nil, &api.ParseError{Path: e.path, Err: err}
	}

	m := &api.Migration{Timestamp: e.stem}
	for _, d := range directives {
		if len(d) != 1 {
			return nil, &DirectiveError{Path: e.path, Reason: "directive must carry exactly one key"}
		}
		for key, value := range d {
			switch key {
			case "A":
				m.Add = append(m.Add, value)
			case "U":
				m.Update = append(m.Update, value)
			case "D":
				m.Delete = append(m.Delete, value)
			case "M":
				from, to, ok := strings.Cut(value, " ")
				if !ok || from == "" || to == "" {
					return nil, &DirectiveError{
						Path:   e.path,
						Key:    key,
						Reason: fmt.Sprintf("move value %q is not %q", value, "<from> <to>"),
					}
				}
				m.Move = append(m.Move, api.Move{From: from, To: to})
			default:
				return nil, &DirectiveError{Path: e.path, Key: key, Reason: "unknown directive key"}
			}
		}
	}
	return m, nil
}
