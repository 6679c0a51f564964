package mp4tag

import (
	"iter"

	"github.com/simonhull/mp4tag/internal/ilst"
	"github.com/simonhull/mp4tag/internal/store"
)

// Tag is the in-memory metadata model for one file: an ordered multimap
// from Identifier to one or more Data values. A Tag is owned by one caller
// at a time and holds no background work — independent Tags for
// independent files may be used from as many goroutines as there are
// files.
type Tag struct {
	s *store.Store
}

func newTag(s *store.Store) *Tag {
	if s == nil {
		s = store.New()
	}
	return &Tag{s: s}
}

// NewTag returns an empty Tag, for building metadata from scratch before a
// first Save to a file that currently has none.
func NewTag() *Tag { return newTag(store.New()) }

func (t *Tag) store() *store.Store { return t.s }

// All iterates every identifier in on-disk (or insertion) order, yielding
// its ordered values.
func (t *Tag) All() iter.Seq2[Identifier, []Data] {
	return func(yield func(Identifier, []Data) bool) {
		for id, values := range t.s.All() {
			if !yield(Identifier{ident: id}, wrapValues(values)) {
				return
			}
		}
	}
}

// Values returns the ordered data values for id, or nil if absent.
func (t *Tag) Values(id Identifier) []Data {
	return wrapValues(t.s.ValuesOf(id.ident))
}

// Strings projects Values(id) to string-kinded entries, skipping others.
func (t *Tag) Strings(id Identifier) []string { return t.s.StringsOf(id.ident) }

// Ints projects Values(id) to integer-kinded entries, skipping others.
func (t *Tag) Ints(id Identifier) []int64 { return t.s.IntsOf(id.ident) }

// Images projects Values(id) to image-kinded entries, skipping others, in
// insertion order.
func (t *Tag) Images(id Identifier) []Data { return wrapValues(t.s.ImagesOf(id.ident)) }

// SetData replaces all values for id with a single value, creating the
// entry (appended at the end) if it does not already exist.
func (t *Tag) SetData(id Identifier, d Data) { t.s.SetData(id.ident, d.unwrap()) }

// AddData appends one value to id's entry, creating the entry if absent.
// Used for identifiers that legitimately carry more than one value, such
// as covr.
func (t *Tag) AddData(id Identifier, d Data) { t.s.AddData(id.ident, d.unwrap()) }

// RemoveData deletes id's entry entirely, if present. An entry with zero
// data values is never left behind — removal always removes the whole
// entry.
func (t *Tag) RemoveData(id Identifier) { t.s.RemoveDataOf(id.ident) }

// Retain deletes values for which keep returns false, then deletes any
// entry left with no remaining values.
func (t *Tag) Retain(keep func(id Identifier, d Data) bool) {
	t.s.Retain(func(id ilst.Ident, d *ilst.Data) bool {
		return keep(Identifier{ident: id}, wrapData(d))
	})
}

// Clone returns an independent copy: edits to the clone never affect t,
// and vice versa.
func (t *Tag) Clone() *Tag { return newTag(t.s.Clone()) }

func wrapValues(raw []*ilst.Data) []Data {
	if raw == nil {
		return nil
	}
	out := make([]Data, len(raw))
	for i, v := range raw {
		out[i] = wrapData(v)
	}
	return out
}
