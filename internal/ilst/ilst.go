// Package ilst implements the metadata codec: decoding and encoding the
// moov/udta/meta/ilst subtree into typed identifier/data entries.
package ilst

import (
	"fmt"

	"github.com/simonhull/mp4tag/internal/atom"
	"github.com/simonhull/mp4tag/internal/binary"
)

// IdentKind distinguishes the two identifier shapes an ilst entry can carry.
type IdentKind int

const (
	KindFourCC IdentKind = iota
	KindFreeform
)

// Ident is the tagged union described in the data model: a four-byte code,
// or a (mean, name) freeform pair. Equality is case-sensitive byte equality
// on whichever fields apply.
type Ident struct {
	Kind   IdentKind
	FourCC string
	Mean   string
	Name   string
}

// Equal reports whether two identifiers refer to the same ilst entry slot.
func (i Ident) Equal(o Ident) bool {
	if i.Kind != o.Kind {
		return false
	}
	if i.Kind == KindFourCC {
		return i.FourCC == o.FourCC
	}
	return i.Mean == o.Mean && i.Name == o.Name
}

func (i Ident) String() string {
	if i.Kind == KindFourCC {
		return i.FourCC
	}
	return fmt.Sprintf("----:%s:%s", i.Mean, i.Name)
}

// Entry is one decoded ilst child: an identifier plus its ordered data
// values. An entry with zero values is never constructed by this package —
// removal deletes the entry (see internal/store).
type Entry struct {
	Ident  Ident
	Values []*Data
}

// MalformedMetadataError reports an ilst child that matches neither the
// FourCC-entry nor the freeform-entry shape.
type MalformedMetadataError struct {
	Path   string
	Reason string
}

func (e *MalformedMetadataError) Error() string {
	return fmt.Sprintf("%s: malformed ilst metadata: %s", e.Path, e.Reason)
}

// DecodeIlst reads every child of the ilst atom occupying [start, end) into
// ordered entries, preserving on-disk order.
func DecodeIlst(sr *binary.Reader, start, end int64) ([]*Entry, error) {
	children, err := atom.Children(sr, start, end)
	if err != nil {
		return nil, err
	}

	entries := make([]*Entry, 0, len(children))
	for _, child := range children {
		entry, err := decodeEntry(sr, child)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func decodeEntry(sr *binary.Reader, child *atom.Atom) (*Entry, error) {
	if child.Type == "----" {
		return decodeFreeformEntry(sr, child)
	}
	return decodeFourCCEntry(sr, child)
}

func decodeFourCCEntry(sr *binary.Reader, child *atom.Atom) (*Entry, error) {
	dataAtoms, err := atom.FindAll(sr, child.DataOffset(), child.DataOffset()+int64(child.DataSize()), "data")
	if err != nil {
		return nil, err
	}
	if len(dataAtoms) == 0 {
		return nil, &MalformedMetadataError{
			Path:   sr.Path(),
			Reason: fmt.Sprintf("%q entry has no data atoms", child.Type),
		}
	}

	values := make([]*Data, 0, len(dataAtoms))
	for _, da := range dataAtoms {
		payload := make([]byte, da.DataSize())
		if err := sr.ReadAt(payload, da.DataOffset(), "data payload"); err != nil {
			return nil, err
		}
		d, err := DecodeData(payload)
		if err != nil {
			return nil, err
		}
		decodePacked(child.Type, d)
		values = append(values, d)
	}

	return &Entry{Ident: Ident{Kind: KindFourCC, FourCC: child.Type}, Values: values}, nil
}

// decodeFreeformEntry parses a "----" entry: exactly one mean atom, exactly
// one name atom (both UTF-8 preceded by 4 reserved bytes), and one or more
// data atoms, per the decoding rule for freeform entries.
func decodeFreeformEntry(sr *binary.Reader, child *atom.Atom) (*Entry, error) {
	start, end := child.DataOffset(), child.DataOffset()+int64(child.DataSize())

	meanAtom, err := atom.Find(sr, start, end, "mean")
	if err != nil {
		return nil, err
	}
	nameAtom, err := atom.Find(sr, start, end, "name")
	if err != nil {
		return nil, err
	}
	if meanAtom == nil || nameAtom == nil {
		return nil, &MalformedMetadataError{Path: sr.Path(), Reason: "---- entry missing mean or name atom"}
	}

	mean, err := readReservedPrefixedString(sr, meanAtom)
	if err != nil {
		return nil, err
	}
	name, err := readReservedPrefixedString(sr, nameAtom)
	if err != nil {
		return nil, err
	}

	dataAtoms, err := atom.FindAll(sr, start, end, "data")
	if err != nil {
		return nil, err
	}
	if len(dataAtoms) == 0 {
		return nil, &MalformedMetadataError{Path: sr.Path(), Reason: "---- entry has no data atoms"}
	}

	values := make([]*Data, 0, len(dataAtoms))
	for _, da := range dataAtoms {
		payload := make([]byte, da.DataSize())
		if err := sr.ReadAt(payload, da.DataOffset(), "data payload"); err != nil {
			return nil, err
		}
		d, err := DecodeData(payload)
		if err != nil {
			return nil, err
		}
		values = append(values, d)
	}

	return &Entry{Ident: Ident{Kind: KindFreeform, Mean: mean, Name: name}, Values: values}, nil
}

// readReservedPrefixedString reads a mean/name atom's payload: 4 reserved
// bytes (usually a version/flags field, always zero in practice but not
// validated) followed by a UTF-8 string.
func readReservedPrefixedString(sr *binary.Reader, a *atom.Atom) (string, error) {
	size := a.DataSize()
	if size < 4 {
		return "", &MalformedMetadataError{Path: sr.Path(), Reason: fmt.Sprintf("%q atom too short for reserved prefix", a.Type)}
	}
	buf := make([]byte, size)
	if err := sr.ReadAt(buf, a.DataOffset(), a.Type+" payload"); err != nil {
		return "", err
	}
	return string(buf[4:]), nil
}

// EncodeIlst serializes entries back into the concatenated child-atom bytes
// that form an ilst atom's payload, in the given order.
func EncodeIlst(entries []*Entry) []byte {
	var payload []byte
	for _, e := range entries {
		payload = append(payload, encodeEntry(e)...)
	}
	return payload
}

func encodeEntry(e *Entry) []byte {
	if e.Ident.Kind == KindFreeform {
		return encodeFreeformEntry(e)
	}
	return encodeFourCCEntry(e)
}

func encodeFourCCEntry(e *Entry) []byte {
	var children [][]byte
	for _, d := range e.Values {
		children = append(children, atom.Serialize("data", EncodeData(d)))
	}
	return atom.SerializeContainer(e.Ident.FourCC, children...)
}

func encodeFreeformEntry(e *Entry) []byte {
	meanPayload := append([]byte{0, 0, 0, 0}, []byte(e.Ident.Mean)...)
	namePayload := append([]byte{0, 0, 0, 0}, []byte(e.Ident.Name)...)

	children := [][]byte{
		atom.Serialize("mean", meanPayload),
		atom.Serialize("name", namePayload),
	}
	for _, d := range e.Values {
		children = append(children, atom.Serialize("data", EncodeData(d)))
	}
	return atom.SerializeContainer("----", children...)
}
