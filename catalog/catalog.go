// Package catalog materializes a culinary data tree (one TOML file per
// leaf of a directory hierarchy) into nested associative structures, and
// streams over the same files in deterministic order with ancestor
// context. Each entry point performs one complete pass over a snapshot of
// the filesystem and returns; nothing is cached across calls.
package catalog

import (
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/culinary-data/larder/api"
	"github.com/culinary-data/larder/internal/load"
	"github.com/culinary-data/larder/internal/scan"
)

// leafPattern matches every leaf file below a category root, including
// files sitting at the root itself.
const leafPattern = "**/*.toml"

// Loader parses one leaf file into a generic Info value. A malformed
// file must fail with *api.ParseError; results must be byte-for-byte
// deterministic for a given file.
type Loader interface {
	Parse(path string) (api.Info, error)
}

// Lister enumerates files under a root matching a glob pattern. Every
// matching path is returned exactly once; ordering is not assumed.
type Lister interface {
	List(root, pattern string) ([]string, error)
}

// Catalog reads one data root. The zero value is not usable; construct
// with Open or New.
type Catalog struct {
	lister Lister
	loader Loader
}

// Open returns a Catalog over the OS directory at root. Category
// directories ("diets", "ingredients", ...) are addressed relative to it.
func Open(root string) *Catalog {
	return FS(osfs.New(root))
}

// FS returns a Catalog over an arbitrary billy filesystem with the
// default TOML leaf loader.
func FS(fs billy.Filesystem) *Catalog {
	return New(scan.New(fs), load.NewTOML(fs))
}

// New wires a Catalog from explicit collaborators.
func New(lister Lister, loader Loader) *Catalog {
	return &Catalog{lister: lister, loader: loader}
}

// Aggregate materializes every leaf file under dir into one nested Tree.
// Directory segments become nested keys; each leaf's parsed Info is
// attached under api.InfoKey at the corresponding node. A missing dir
// yields an empty Tree; a malformed leaf aborts the whole call with no
// partial tree.
//
// Two leaf files resolving to the identical final path are a caller
// error: the last one enumerated wins, and enumeration order is not
// deterministic.
func (c *Catalog) Aggregate(dir string) (api.Tree, error) {
	paths, err := c.lister.List(dir, leafPattern)
	if err != nil {
		return nil, err
	}
	tree := api.Tree{}
	for _, rel := range paths {
		info, err := c.loader.Parse(path.Join(dir, rel))
		if err != nil {
			return nil, err
		}
		merge(tree, chain(segments(rel), info))
	}
	return tree, nil
}

// segments splits a root-relative leaf path into its tree key chain:
// directory names plus the file stem, extension stripped.
func segments(rel string) []string {
	segs := strings.Split(rel, "/")
	last := len(segs) - 1
	segs[last] = strings.TrimSuffix(segs[last], path.Ext(segs[last]))
	return segs
}

// chain builds the singleton nesting for one leaf: single-key maps from
// the shallowest segment down to the stem, Info attached at the bottom.
func chain(segs []string, info api.Info) api.Tree {
	node := api.Tree{api.InfoKey: info}
	for i := len(segs) - 1; i >= 0; i-- {
		node = api.Tree{segs[i]: node}
	}
	return node
}

// merge folds src into dst with a deep, key-wise recursive merge. Two
// subtrees under the same key merge recursively; a key present on one
// side only is kept as-is. Info values are opaque leaves and are never
// merged key-by-key: on collision the src side overwrites. The merge is
// associative and commutative per key, so file visitation order cannot
// change the final structure.
func merge(dst, src map[string]any) {
	for k, sv := range src {
		if k != api.InfoKey {
			if sm, ok := sv.(map[string]any); ok {
				if dm, ok := dst[k].(map[string]any); ok {
					merge(dm, sm)
					continue
				}
			}
		}
		dst[k] = sv
	}
}
