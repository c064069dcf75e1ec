package migrate

import "fmt"

// DirectiveError reports a migration file entry that does not normalize
// to any change kind: an unrecognized directive key, a malformed move
// value, or a record shape other than a single-key mapping. Fatal for
// the whole materialize call.
type DirectiveError struct {
	Path   string
	Key    string
	Reason string
}

func (e *DirectiveError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("%s: directive %q: %s", e.Path, e.Key, e.Reason)
}

// TimestampError reports a migration file whose name stem is not a
// base-10 integer timestamp. Fatal for the whole materialize call.
type TimestampError struct {
	Path string
	Stem string
}

func (e *TimestampError) Error() string {
	return fmt.Sprintf("%s: file stem %q is not a numeric timestamp", e.Path, e.Stem)
}
