// Package scan enumerates leaf files under a data root. It imposes no
// ordering of its own; callers that need deterministic traversal sort the
// returned paths themselves.
package scan

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/gobwas/glob"
)

// Scanner lists files matching a glob pattern below a root directory of
// the backing filesystem. The filesystem is abstracted so tests can run
// against an in-memory tree.
type Scanner struct {
	fs billy.Filesystem
}

func New(fs billy.Filesystem) *Scanner {
	return &Scanner{fs: fs}
}

// List returns every path under root whose root-relative form matches
// pattern, slash-separated and in no guaranteed order. Patterns use '/'
// as the separator: `*` stops at separators, `**` crosses them, and a
// leading `**/` may match zero directories (so `**/*.toml` also matches
// a file at the root itself). A missing root yields an empty result, not
// an error.
func (s *Scanner) List(root, pattern string) ([]string, error) {
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", pattern, err)
	}
	var flat glob.Glob
	if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
		flat, err = glob.Compile(rest, '/')
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q: %w", rest, err)
		}
	}

	if _, err := s.fs.Stat(root); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}

	var out []string
	walkErr := util.Walk(s.fs, root, func(p string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return nil
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(p, root), "/")
		if g.Match(rel) || (flat != nil && flat.Match(rel)) {
			out = append(out, rel)
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walk %s: %w", root, walkErr)
	}
	return out, nil
}
