package mp4tag

import (
	"fmt"

	"github.com/simonhull/mp4tag/internal/atom"
	"github.com/simonhull/mp4tag/internal/ilst"
)

// The error kinds below are a closed taxonomy. Open/Save return every
// failure to the caller — the core never silently drops one — and
// atom-codec and ilst-shape failures arrive as one of these kinds,
// reachable via errors.As/errors.Unwrap. Other failures (a short or
// out-of-range read, an undecodable "data" payload, a file with no moov)
// are returned as plain errors: Open and Save never construct
// MalformedDataError or UnsupportedError.

// IOError reports a failure from the underlying byte source or sink.
type IOError struct {
	Path string
	Op   string
	Err  error
}

func (e *IOError) Error() string { return fmt.Sprintf("%s: %s: %v", e.Path, e.Op, e.Err) }
func (e *IOError) Unwrap() error { return e.Err }

// UnknownFiletypeError reports a missing or unrecognized ftyp brand. On
// read this is recorded as a Warning unless WithStrictParsing is set; on
// write it always aborts, since the engine needs a known brand to pick the
// synthesis flavor.
type UnknownFiletypeError struct {
	Path  string
	Brand string
}

func (e *UnknownFiletypeError) Error() string {
	if e.Brand == "" {
		return fmt.Sprintf("%s: no ftyp atom", e.Path)
	}
	return fmt.Sprintf("%s: unrecognized file brand %q", e.Path, e.Brand)
}

// MalformedAtomError wraps a size or type violation from the atom codec:
// truncation, an invalid size field, or unexpected EOF.
type MalformedAtomError struct {
	Path string
	Err  error
}

func (e *MalformedAtomError) Error() string {
	return fmt.Sprintf("%s: malformed atom: %v", e.Path, e.Err)
}
func (e *MalformedAtomError) Unwrap() error { return e.Err }

// MalformedMetadataError wraps an ilst child that matches neither the
// FourCC-entry nor the freeform-entry shape.
type MalformedMetadataError struct {
	Path string
	Err  error
}

func (e *MalformedMetadataError) Error() string {
	return fmt.Sprintf("%s: malformed metadata: %v", e.Path, e.Err)
}
func (e *MalformedMetadataError) Unwrap() error { return e.Err }

// MalformedDataError wraps a "data" atom payload that cannot be decoded
// under its declared type code (odd-length UTF-16, an unsupported integer
// width, a truncated payload).
type MalformedDataError struct {
	Path string
	Err  error
}

func (e *MalformedDataError) Error() string {
	return fmt.Sprintf("%s: malformed data: %v", e.Path, e.Err)
}
func (e *MalformedDataError) Unwrap() error { return e.Err }

// NoTagError reports that moov/udta/meta/ilst is entirely absent. Open
// treats an absent chain as an empty Tag by default; pass WithRequireTag
// to get NoTagError instead and tell "no tag" apart from "empty tag".
type NoTagError struct {
	Path string
}

func (e *NoTagError) Error() string {
	return fmt.Sprintf("%s: no tag: moov/udta/meta/ilst chain absent", e.Path)
}

// UnsupportedError reports a recognized but unhandled type-set selector or
// integer width encountered while writing.
type UnsupportedError struct {
	Path   string
	Reason string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s: unsupported: %s", e.Path, e.Reason)
}

// Warning is a non-fatal issue recorded on File.Warnings rather than
// surfaced as an error — an unrecognized file brand on read, for example.
// Unlike the error kinds above, a Warning never aborts parsing.
type Warning struct {
	Stage   string
	Message string
	Offset  int64
}

func (w Warning) String() string {
	if w.Offset > 0 {
		return fmt.Sprintf("%s (at offset %d): %s", w.Stage, w.Offset, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Stage, w.Message)
}

// wrapErr classifies the typed errors of internal/atom (truncation, bad
// size, unexpected EOF) and internal/ilst (malformed entry shape) into the
// closed taxonomy above, keeping the original reachable through Unwrap.
// Every other error, including the untyped "data" payload decode errors
// from internal/ilst, passes through unchanged.
func wrapErr(path string, err error) error {
	if err == nil {
		return nil
	}
	switch err.(type) {
	case *atom.TruncatedError, *atom.MalformedSizeError, *atom.UnexpectedEOFError:
		return &MalformedAtomError{Path: path, Err: err}
	case *ilst.MalformedMetadataError:
		return &MalformedMetadataError{Path: path, Err: err}
	default:
		return err
	}
}
