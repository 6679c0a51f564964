package atom

// Atom represents a single box header as located during a parse: its
// four-character type, its absolute position in the byte source, and the
// lengths needed to compute where its payload starts and ends.
//
// Atom never holds payload bytes itself — callers read payload through the
// binary.Reader at DataOffset()/DataSize(), which keeps the parser lazy even
// over a multi-gigabyte mdat.
type Atom struct {
	Type string // four-character code, e.g. "moov", "ilst", "\xa9nam"

	// ExtType holds the 16-byte extended type that follows the header when
	// Type == "uuid". Zero value when not a uuid atom.
	ExtType [16]byte
	HasUUID bool

	// NonPrintableType flags a type code containing bytes outside printable
	// ASCII (beyond the iTunes 0xa9 lead byte). Such codes exist in the
	// wild and parse normally; the flag lets callers surface them as a
	// warning instead of silently passing them through.
	NonPrintableType bool
	Offset           int64  // absolute offset of the size field
	HeaderLen        int64  // 8, 16 (64-bit size), or +16 more for uuid
	Size             uint64 // total atom size including header
}

// DataOffset returns the absolute offset where this atom's payload begins.
func (a *Atom) DataOffset() int64 {
	return a.Offset + a.HeaderLen
}

// DataSize returns the payload length, excluding the header.
func (a *Atom) DataSize() uint64 {
	if a.Size < uint64(a.HeaderLen) {
		return 0
	}
	return a.Size - uint64(a.HeaderLen)
}

// End returns the absolute offset one past the end of this atom.
func (a *Atom) End() int64 {
	return a.Offset + int64(a.Size)
}

// IsContainer reports whether this atom type's payload is a sequence of
// child atoms rather than opaque data, per the fixed container table.
func (a *Atom) IsContainer() bool {
	return IsContainerType(a.Type)
}
