// Package load turns one leaf file's bytes into a generic Info value.
package load

import (
	"fmt"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/pelletier/go-toml/v2"

	"github.com/culinary-data/larder/api"
)

// TOML parses TOML leaf files from a backing filesystem. Parsing is
// byte-for-byte deterministic; a malformed file yields *api.ParseError.
type TOML struct {
	FS billy.Filesystem
}

func NewTOML(fs billy.Filesystem) *TOML {
	return &TOML{FS: fs}
}

// Parse reads and decodes the file at path into an Info value.
func (l *TOML) Parse(path string) (api.Info, error) {
	data, err := util.ReadFile(l.FS, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var info api.Info
	if err := toml.Unmarshal(data, &info); err != nil {
		return nil, &api.ParseError{Path: path, Err: err}
	}
	return info, nil
}
