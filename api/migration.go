package api

// Move is a single rename/relocation recorded in a migration: the
// reference a record was known by, and the reference it moved to.
type Move struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Migration is one normalized change-set from the append-only migration
// log. Timestamp is the originating file's stem, kept as a string.
// Each change-kind list preserves the order of directives within the
// file and is nil when the file recorded no entry of that kind.
type Migration struct {
	Timestamp string   `json:"timestamp"`
	Add       []string `json:"add,omitempty"`
	Update    []string `json:"update,omitempty"`
	Delete    []string `json:"delete,omitempty"`
	Move      []Move   `json:"move,omitempty"`
}
