package api

// InfoKey is the reserved key under which a directory's own parsed file
// content is attached in a Tree. It distinguishes the record belonging to
// a tree node from the node's child segments.
const InfoKey = "__info__"

// Info is the parsed content of a single leaf file: an associative value
// produced by a Loader. The catalog core treats it as opaque: it is
// attached to a Tree or handed to a visitor, never inspected or merged
// key-by-key.
type Info = map[string]any

// Tree is one level of a materialized catalog. Path segments map to child
// Trees, and InfoKey (if present) holds this level's own Info. A Tree is
// built once per call and owned solely by the caller that requested it.
type Tree = map[string]any

// ContextEntry is one ancestor record available to a visitor during an
// ordered fold: the path segment that produced it and its parsed Info.
type ContextEntry struct {
	Name string
	Info Info
}
