// Package store holds the in-memory tag model: an ordered multimap from
// identifier to a list of typed data values, backed by the decoded ilst
// entries.
package store

import (
	"iter"

	"github.com/simonhull/mp4tag/internal/ilst"
)

// Store is the in-memory model described by the tag store component: an
// ordered list of (identifier, values) entries, read order preserved, new
// identifiers appended after existing ones.
type Store struct {
	entries []*ilst.Entry
}

// New returns an empty Store.
func New() *Store {
	return &Store{}
}

// FromEntries wraps already-decoded entries, preserving their order.
func FromEntries(entries []*ilst.Entry) *Store {
	return &Store{entries: entries}
}

// Entries returns the underlying ordered entries, in on-disk/insertion
// order. Callers that need to re-encode the tag use this directly; callers
// that only want to read values use the typed accessors below.
func (s *Store) Entries() []*ilst.Entry {
	return s.entries
}

func (s *Store) find(id ilst.Ident) *ilst.Entry {
	for _, e := range s.entries {
		if e.Ident.Equal(id) {
			return e
		}
	}
	return nil
}

// All iterates every entry in order.
func (s *Store) All() iter.Seq2[ilst.Ident, []*ilst.Data] {
	return func(yield func(ilst.Ident, []*ilst.Data) bool) {
		for _, e := range s.entries {
			if !yield(e.Ident, e.Values) {
				return
			}
		}
	}
}

// ValuesOf returns the data values for an identifier, in order, or nil if
// absent.
func (s *Store) ValuesOf(id ilst.Ident) []*ilst.Data {
	e := s.find(id)
	if e == nil {
		return nil
	}
	return e.Values
}

// StringsOf projects ValuesOf to string-kinded values, skipping others.
func (s *Store) StringsOf(id ilst.Ident) []string {
	var out []string
	for _, d := range s.ValuesOf(id) {
		if d.Kind == ilst.KindString {
			out = append(out, d.Str)
		}
	}
	return out
}

// IntsOf projects ValuesOf to int-kinded values, skipping others.
func (s *Store) IntsOf(id ilst.Ident) []int64 {
	var out []int64
	for _, d := range s.ValuesOf(id) {
		if d.Kind == ilst.KindInt {
			out = append(out, d.Int)
		}
	}
	return out
}

// ImagesOf projects ValuesOf to image-kinded values, skipping others.
func (s *Store) ImagesOf(id ilst.Ident) []*ilst.Data {
	var out []*ilst.Data
	for _, d := range s.ValuesOf(id) {
		if d.Kind == ilst.KindImage {
			out = append(out, d)
		}
	}
	return out
}

// SetData replaces all values for id with a single value, creating the
// entry (appended at the end) if it does not already exist.
func (s *Store) SetData(id ilst.Ident, d *ilst.Data) {
	if e := s.find(id); e != nil {
		e.Values = []*ilst.Data{d}
		return
	}
	s.entries = append(s.entries, &ilst.Entry{Ident: id, Values: []*ilst.Data{d}})
}

// AddData appends one value to id's entry, creating the entry if absent.
func (s *Store) AddData(id ilst.Ident, d *ilst.Data) {
	if e := s.find(id); e != nil {
		e.Values = append(e.Values, d)
		return
	}
	s.entries = append(s.entries, &ilst.Entry{Ident: id, Values: []*ilst.Data{d}})
}

// RemoveDataOf deletes id's entry entirely, if present.
func (s *Store) RemoveDataOf(id ilst.Ident) {
	for i, e := range s.entries {
		if e.Ident.Equal(id) {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return
		}
	}
}

// Retain deletes values for which keep returns false, then deletes any
// entry left with no remaining values.
func (s *Store) Retain(keep func(id ilst.Ident, d *ilst.Data) bool) {
	out := s.entries[:0]
	for _, e := range s.entries {
		var kept []*ilst.Data
		for _, d := range e.Values {
			if keep(e.Ident, d) {
				kept = append(kept, d)
			}
		}
		if len(kept) > 0 {
			e.Values = kept
			out = append(out, e)
		}
	}
	s.entries = out
}

// Clone returns a deep-enough copy: entries and their value slices are
// copied, so mutating the clone never affects the original's ordering or
// value lists. Data values themselves are shared (they are treated as
// immutable once decoded).
func (s *Store) Clone() *Store {
	clone := &Store{entries: make([]*ilst.Entry, len(s.entries))}
	for i, e := range s.entries {
		values := make([]*ilst.Data, len(e.Values))
		copy(values, e.Values)
		clone.entries[i] = &ilst.Entry{Ident: e.Ident, Values: values}
	}
	return clone
}
