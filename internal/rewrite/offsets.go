package rewrite

import (
	"encoding/binary"

	"github.com/simonhull/mp4tag/internal/atom"
	safebinary "github.com/simonhull/mp4tag/internal/binary"
)

// OffsetTable is one stco/co64 chunk-offset table discovered under a track's
// sample table, per the data model's "Offset tables" entry: the set the
// Rewrite Engine must keep pointing at the same media bytes after a write.
type OffsetTable struct {
	AtomType      string // "stco" or "co64"
	EntriesOffset int64  // absolute offset of the first entry, pre-rewrite
	Count         uint32
	Width         int // 4 for stco, 8 for co64
}

// DiscoverOffsetTables walks every trak under moov looking for a stbl's
// stco or co64 atom. A well-formed track carries exactly one of the two;
// both are collected defensively in case a file carries either shape per
// track.
func DiscoverOffsetTables(sr *safebinary.Reader, moov *atom.Atom) ([]OffsetTable, error) {
	var tables []OffsetTable

	start, end, err := atom.ContainerRange(sr, moov)
	if err != nil {
		return nil, err
	}

	traks, err := atom.FindAll(sr, start, end, "trak")
	if err != nil {
		return nil, err
	}

	for _, trak := range traks {
		stbl, err := atom.FindPath(sr, trak.DataOffset(), trak.DataOffset()+int64(trak.DataSize()), "mdia", "minf", "stbl")
		if err != nil {
			return nil, err
		}
		if stbl == nil {
			continue
		}

		stblStart, stblEnd, err := atom.ContainerRange(sr, stbl)
		if err != nil {
			return nil, err
		}

		if stco, err := atom.Find(sr, stblStart, stblEnd, "stco"); err != nil {
			return nil, err
		} else if stco != nil {
			t, err := readOffsetTable(sr, "stco", stco, 4)
			if err != nil {
				return nil, err
			}
			tables = append(tables, t)
		}

		if co64, err := atom.Find(sr, stblStart, stblEnd, "co64"); err != nil {
			return nil, err
		} else if co64 != nil {
			t, err := readOffsetTable(sr, "co64", co64, 8)
			if err != nil {
				return nil, err
			}
			tables = append(tables, t)
		}
	}

	return tables, nil
}

// readOffsetTable reads an stco/co64 atom's header fields: version/flags (4
// bytes, ignored), entry count (4 bytes), then the entry array.
func readOffsetTable(sr *safebinary.Reader, atomType string, a *atom.Atom, width int) (OffsetTable, error) {
	count, err := sr.Uint32(a.DataOffset()+4, atomType+" entry count")
	if err != nil {
		return OffsetTable{}, err
	}
	return OffsetTable{
		AtomType:      atomType,
		EntriesOffset: a.DataOffset() + 8,
		Count:         count,
		Width:         width,
	}, nil
}

// PatchEntries overwrites every chunk offset in buf (a mutable copy of the
// bytes originally spanning [bufBase, bufBase+len(buf))) whose absolute
// original position is covered by the table, replacing each value v with
// shift(v). The table's EntriesOffset is always within that range for any
// caller that discovered it via DiscoverOffsetTables against the same
// source atom tree.
func PatchEntries(buf []byte, bufBase int64, t OffsetTable, shift func(int64) int64) {
	for i := uint32(0); i < t.Count; i++ {
		entryAbs := t.EntriesOffset + int64(i)*int64(t.Width)
		rel := entryAbs - bufBase
		if rel < 0 || rel+int64(t.Width) > int64(len(buf)) {
			continue
		}
		switch t.Width {
		case 4:
			old := int64(binary.BigEndian.Uint32(buf[rel : rel+4]))
			binary.BigEndian.PutUint32(buf[rel:rel+4], uint32(shift(old)))
		case 8:
			old := int64(binary.BigEndian.Uint64(buf[rel : rel+8]))
			binary.BigEndian.PutUint64(buf[rel:rel+8], uint64(shift(old)))
		}
	}
}
