package atom

import (
	"github.com/simonhull/mp4tag/internal/binary"
)

const uuidType = "uuid"

// ReadHeaderAt reads a single atom header starting at offset, within the
// enclosing range [offset, containerEnd). containerEnd is used to resolve
// the size == 0 ("runs to end of container") case and to catch truncation;
// pass 0 only when offset is known to be at the top of the file and the
// file size itself is the bound (ReadHeaderAt then uses the reader's size).
func ReadHeaderAt(sr *binary.Reader, offset int64, containerEnd int64) (*Atom, error) {
	if containerEnd == 0 {
		containerEnd = sr.Size()
	}

	size32, err := sr.Uint32(offset, "atom size")
	if err != nil {
		return nil, &TruncatedError{Path: sr.Path(), What: "atom size", Offset: offset}
	}

	typeBytes := make([]byte, 4)
	if err := sr.ReadAt(typeBytes, offset+4, "atom type"); err != nil {
		return nil, &TruncatedError{Path: sr.Path(), What: "atom type", Offset: offset + 4}
	}

	a := &Atom{
		Type:      string(typeBytes),
		Offset:    offset,
		HeaderLen: 8,
	}
	a.NonPrintableType = !PrintableType(a.Type)

	switch size32 {
	case 0:
		if containerEnd <= offset {
			return nil, &MalformedSizeError{Path: sr.Path(), Offset: offset, Size: 0}
		}
		a.Size = uint64(containerEnd - offset)
	case 1:
		size64, err := sr.Uint64(offset+8, "extended atom size")
		if err != nil {
			return nil, &TruncatedError{Path: sr.Path(), What: "extended atom size", Offset: offset + 8}
		}
		a.Size = size64
		a.HeaderLen = 16
	default:
		a.Size = uint64(size32)
	}

	if a.Type == uuidType {
		extOffset := offset + a.HeaderLen
		ext := make([]byte, 16)
		if err := sr.ReadAt(ext, extOffset, "uuid extended type"); err != nil {
			return nil, &TruncatedError{Path: sr.Path(), What: "uuid extended type", Offset: extOffset}
		}
		copy(a.ExtType[:], ext)
		a.HasUUID = true
		a.HeaderLen += 16
	}

	if a.Size < uint64(a.HeaderLen) {
		return nil, &MalformedSizeError{Path: sr.Path(), Offset: offset, Size: a.Size}
	}

	if containerEnd > 0 && a.End() > containerEnd {
		return nil, &UnexpectedEOFError{Path: sr.Path(), Offset: offset}
	}

	return a, nil
}

// Walk performs a lazy, single-level traversal over the children of a
// container occupying [start, end), invoking yield for each. Returning
// false from yield stops the walk early without error.
func Walk(sr *binary.Reader, start, end int64, yield func(*Atom) bool) error {
	offset := start
	for offset < end {
		a, err := ReadHeaderAt(sr, offset, end)
		if err != nil {
			return err
		}
		if !yield(a) {
			return nil
		}
		offset = a.End()
	}
	return nil
}

// Find returns the first direct child of type atomType within [start, end).
func Find(sr *binary.Reader, start, end int64, atomType string) (*Atom, error) {
	var found *Atom
	err := Walk(sr, start, end, func(a *Atom) bool {
		if a.Type == atomType {
			found = a
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// FindAll returns every direct child of type atomType within [start, end),
// in on-disk order. Used where an atom type may legally repeat, such as
// stco/co64 across multiple tracks.
func FindAll(sr *binary.Reader, start, end int64, atomType string) ([]*Atom, error) {
	var matches []*Atom
	err := Walk(sr, start, end, func(a *Atom) bool {
		if a.Type == atomType {
			matches = append(matches, a)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// Children returns every direct child within [start, end), in on-disk order.
func Children(sr *binary.Reader, start, end int64) ([]*Atom, error) {
	var children []*Atom
	err := Walk(sr, start, end, func(a *Atom) bool {
		children = append(children, a)
		return true
	})
	if err != nil {
		return nil, err
	}
	return children, nil
}

// ContainerRange returns the [start, end) byte range of a container atom's
// children, accounting for the meta atom's irregular 4-byte version/flags
// prefix under ISO BMFF (see MetaHasVersionPrefix).
func ContainerRange(sr *binary.Reader, a *Atom) (int64, int64, error) {
	start := a.DataOffset()
	end := a.DataOffset() + int64(a.DataSize())

	if a.Type == "meta" {
		hasPrefix, err := MetaHasVersionPrefix(sr, a)
		if err != nil {
			return 0, 0, err
		}
		if hasPrefix {
			start += 4
		}
	}

	return start, end, nil
}

// FindPath descends a fixed chain of container atoms starting from the
// range [start, end), returning the final atom in the chain. A missing
// intermediate returns (nil, nil) rather than an error — callers treat an
// absent path as "tag is empty" rather than a parse failure.
func FindPath(sr *binary.Reader, start, end int64, path ...string) (*Atom, error) {
	cur, curEnd := start, end
	var a *Atom
	for i, name := range path {
		found, err := Find(sr, cur, curEnd, name)
		if err != nil {
			return nil, err
		}
		if found == nil {
			return nil, nil
		}
		a = found
		if i < len(path)-1 {
			cur, curEnd, err = ContainerRange(sr, a)
			if err != nil {
				return nil, err
			}
		}
	}
	return a, nil
}
