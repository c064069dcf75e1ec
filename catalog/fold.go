package catalog

import (
	"path"
	"slices"

	"github.com/culinary-data/larder/api"
)

// VisitFunc receives one leaf's parsed Info, the ordered chain of its
// still-applicable ancestor records (closest ancestor first), and the
// running accumulator.
type VisitFunc[T any] func(info api.Info, ancestors []api.ContextEntry, acc T) (T, error)

// Fold enumerates every leaf file under dir in a stable pre-order and
// invokes visit for each one. A directory's own info file (the file
// named like the directory, beside it) is visited before the
// directory's entries. Every ancestor of a leaf that produced its own
// file earlier in traversal order is handed to visit already parsed; no
// file is read twice.
//
// Any unparsable file, or an error returned by visit, aborts the whole
// fold: the zero value of T is returned along with the error.
func Fold[T any](c *Catalog, dir string, acc T, visit VisitFunc[T]) (T, error) {
	var zero T

	paths, err := c.lister.List(dir, leafPattern)
	if err != nil {
		return zero, err
	}

	leaves := make([]leaf, len(paths))
	for i, rel := range paths {
		leaves[i] = leaf{rel: rel, segs: segments(rel)}
	}
	slices.SortFunc(leaves, func(a, b leaf) int {
		return slices.Compare(a.segs, b.segs)
	})

	// stack holds one entry per ancestor directory of the most recently
	// visited file that supplied its own record, innermost first.
	var stack []api.ContextEntry
	for _, l := range leaves {
		anc := ancestors(l.segs)
		stack = prune(stack, anc)

		info, err := c.loader.Parse(path.Join(dir, l.rel))
		if err != nil {
			return zero, err
		}
		acc, err = visit(info, stack, acc)
		if err != nil {
			return zero, err
		}

		stem := l.segs[len(l.segs)-1]
		stack = append([]api.ContextEntry{{Name: stem, Info: info}}, stack...)
	}
	return acc, nil
}

type leaf struct {
	rel  string
	segs []string
}

// ancestors returns the directory segments of a leaf, innermost first.
func ancestors(segs []string) []string {
	dirs := segs[:len(segs)-1]
	rev := make([]string, len(dirs))
	for i, s := range dirs {
		rev[len(dirs)-1-i] = s
	}
	return rev
}

// prune discards stack entries from directories no longer on the next
// file's path. Stack and chain are both innermost-first and align at the
// root end, so the stack's front entry corresponds to chain position
// len(chain)-len(stack). Entries are popped from the front until the
// first point of agreement; whatever lies below it is the ancestry the
// previous and next file share. A single-entry stack matching a
// single-entry chain is kept untouched, which captures "self" when a
// directory and its record file share a name.
func prune(stack []api.ContextEntry, chain []string) []api.ContextEntry {
	for len(stack) > 0 {
		off := len(chain) - len(stack)
		if off >= 0 && stack[0].Name == chain[off] {
			break
		}
		stack = stack[1:]
	}
	return stack
}
