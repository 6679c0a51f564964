package rewrite

import (
	"github.com/simonhull/mp4tag/internal/atom"
	safebinary "github.com/simonhull/mp4tag/internal/binary"
)

// Location pins down where the udta/meta/ilst chain lives (or doesn't) for
// a parsed file, plus any sibling free/skip atom available to absorb a
// size change without a full relocate.
type Location struct {
	Moov *atom.Atom
	Udta *atom.Atom // nil: no udta under moov
	Meta *atom.Atom // nil: no meta under udta
	Ilst *atom.Atom // nil: no ilst under meta (tag is empty)

	MetaHasPrefix bool // meta carries the ISO BMFF 4-byte version/flags prefix

	Free *atom.Atom // sibling of Ilst inside meta's children, if any
}

// Locate walks moov down to ilst, tolerating a missing intermediate at any
// level (the tag is then empty), and looks for a free/skip sibling of ilst
// that a size change could absorb.
func Locate(sr *safebinary.Reader, moov *atom.Atom) (*Location, error) {
	loc := &Location{Moov: moov}

	udtaStart, udtaEnd, err := atom.ContainerRange(sr, moov)
	if err != nil {
		return nil, err
	}
	udta, err := atom.Find(sr, udtaStart, udtaEnd, "udta")
	if err != nil {
		return nil, err
	}
	if udta == nil {
		return loc, nil
	}
	loc.Udta = udta

	metaStart, metaEnd, err := atom.ContainerRange(sr, udta)
	if err != nil {
		return nil, err
	}
	meta, err := atom.Find(sr, metaStart, metaEnd, "meta")
	if err != nil {
		return nil, err
	}
	if meta == nil {
		return loc, nil
	}
	loc.Meta = meta

	hasPrefix, err := atom.MetaHasVersionPrefix(sr, meta)
	if err != nil {
		return nil, err
	}
	loc.MetaHasPrefix = hasPrefix

	ilstStart, ilstEnd, err := atom.ContainerRange(sr, meta)
	if err != nil {
		return nil, err
	}
	ilst, err := atom.Find(sr, ilstStart, ilstEnd, "ilst")
	if err != nil {
		return nil, err
	}
	if ilst == nil {
		return loc, nil
	}
	loc.Ilst = ilst

	siblings, err := atom.Children(sr, ilstStart, ilstEnd)
	if err != nil {
		return nil, err
	}
	for _, sib := range siblings {
		if sib.Type == "free" || sib.Type == "skip" {
			loc.Free = sib
			break
		}
	}

	return loc, nil
}

// spliceChild replaces child's byte range within parentPayload (raw bytes
// spanning [parentBase, parentBase+len(parentPayload))) with newBytes.
func spliceChild(parentPayload []byte, parentBase int64, child *atom.Atom, newBytes []byte) []byte {
	relStart := child.Offset - parentBase
	relEnd := relStart + int64(child.Size)
	out := make([]byte, 0, len(parentPayload)-int(child.Size)+len(newBytes))
	out = append(out, parentPayload[:relStart]...)
	out = append(out, newBytes...)
	out = append(out, parentPayload[relEnd:]...)
	return out
}

// RebuildMeta returns the complete new "meta" atom bytes with ilst replaced
// (or appended, if it didn't previously exist) by newIlstAtomBytes. Other
// meta children (hdlr and anything else) are preserved verbatim. quickTime
// controls the flavor of a meta synthesized from scratch: QuickTime files
// get a raw container, ISO BMFF files get the 4-byte version/flags prefix.
func RebuildMeta(sr *safebinary.Reader, loc *Location, newIlstAtomBytes []byte, quickTime bool) ([]byte, error) {
	if loc.Meta == nil {
		return synthesizeMeta(newIlstAtomBytes, quickTime), nil
	}

	metaPayload := make([]byte, loc.Meta.DataSize())
	if err := sr.ReadAt(metaPayload, loc.Meta.DataOffset(), "meta payload"); err != nil {
		return nil, err
	}

	if loc.Ilst == nil {
		metaPayload = append(metaPayload, newIlstAtomBytes...)
	} else {
		metaPayload = spliceChild(metaPayload, loc.Meta.DataOffset(), loc.Ilst, newIlstAtomBytes)
	}

	return atom.Serialize("meta", metaPayload), nil
}

// RebuildUdta returns the complete new "udta" atom bytes with meta replaced
// (or appended) by newMetaAtomBytes. Other udta children are preserved
// verbatim.
func RebuildUdta(sr *safebinary.Reader, loc *Location, newMetaAtomBytes []byte) ([]byte, error) {
	if loc.Udta == nil {
		return synthesizeUdta(newMetaAtomBytes), nil
	}

	udtaPayload := make([]byte, loc.Udta.DataSize())
	if err := sr.ReadAt(udtaPayload, loc.Udta.DataOffset(), "udta payload"); err != nil {
		return nil, err
	}

	if loc.Meta == nil {
		udtaPayload = append(udtaPayload, newMetaAtomBytes...)
	} else {
		udtaPayload = spliceChild(udtaPayload, loc.Udta.DataOffset(), loc.Meta, newMetaAtomBytes)
	}

	return atom.Serialize("udta", udtaPayload), nil
}

// RebuildMoov returns the complete new "moov" atom bytes with udta replaced
// (or appended) by newUdtaAtomBytes, and every discovered chunk-offset
// entry patched via shift. Patching happens before the udta splice so the
// patch positions are computed against the untouched original layout; the
// splice then carries the already-patched bytes to their new position.
func RebuildMoov(sr *safebinary.Reader, loc *Location, newUdtaAtomBytes []byte, tables []OffsetTable, shift func(int64) int64) ([]byte, error) {
	moovPayload := make([]byte, loc.Moov.DataSize())
	if err := sr.ReadAt(moovPayload, loc.Moov.DataOffset(), "moov payload"); err != nil {
		return nil, err
	}

	for _, t := range tables {
		PatchEntries(moovPayload, loc.Moov.DataOffset(), t, shift)
	}

	if loc.Udta == nil {
		moovPayload = append(moovPayload, newUdtaAtomBytes...)
	} else {
		moovPayload = spliceChild(moovPayload, loc.Moov.DataOffset(), loc.Udta, newUdtaAtomBytes)
	}

	return atom.Serialize("moov", moovPayload), nil
}
