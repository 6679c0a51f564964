// Package atom provides a generic reader/writer for the length-prefixed,
// four-character-coded box hierarchy used by ISO base media / QuickTime
// container files.
package atom

import "fmt"

// TruncatedError is returned when a read runs past the end of the
// enclosing range while parsing an atom header.
type TruncatedError struct {
	Path   string
	What   string
	Offset int64
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("%s: truncated while reading %s at offset %d", e.Path, e.What, e.Offset)
}

// MalformedSizeError is returned when an atom's declared size cannot be a
// valid atom (smaller than its own header, or a 64-bit extension that
// itself doesn't leave room for a header).
type MalformedSizeError struct {
	Path   string
	Offset int64
	Size   uint64
}

func (e *MalformedSizeError) Error() string {
	return fmt.Sprintf("%s: malformed atom size %d at offset %d", e.Path, e.Size, e.Offset)
}

// UnexpectedEOFError is returned when the byte source ends before an atom
// that claims to have more payload.
type UnexpectedEOFError struct {
	Path   string
	Offset int64
}

func (e *UnexpectedEOFError) Error() string {
	return fmt.Sprintf("%s: unexpected end of data at offset %d", e.Path, e.Offset)
}
