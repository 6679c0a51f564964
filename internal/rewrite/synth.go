package rewrite

import "github.com/simonhull/mp4tag/internal/atom"

// synthesizeMeta wraps an already-serialized ilst atom in a fresh meta/hdlr
// subtree for a file that had no tag at all. ISO BMFF requires the 4-byte
// version/flags prefix before meta's children; pure QuickTime files omit
// it. The handler type mdir with manufacturer appl identifies the metadata
// handler the way iTunes itself writes it.
func synthesizeMeta(ilstAtomBytes []byte, quickTime bool) []byte {
	hdlr := atom.Serialize("hdlr", synthHdlrPayload())

	var metaPayload []byte
	if !quickTime {
		metaPayload = append(metaPayload, 0, 0, 0, 0)
	}
	metaPayload = append(metaPayload, hdlr...)
	metaPayload = append(metaPayload, ilstAtomBytes...)
	return atom.Serialize("meta", metaPayload)
}

// synthesizeUdta wraps already-serialized meta atom bytes in a udta atom,
// for a file that had no udta container at all. The meta bytes come from
// RebuildMeta, which itself falls back to synthesizeMeta when meta was
// absent too.
func synthesizeUdta(metaAtomBytes []byte) []byte {
	return atom.Serialize("udta", metaAtomBytes)
}

// synthHdlrPayload builds a minimal QuickTime-style handler reference atom:
// version/flags (4 bytes), predefined (4 bytes, zero), handler type "mdir",
// manufacturer "appl" (4 bytes), reserved (2x4 bytes), and a zero-length
// (single NUL) component name.
func synthHdlrPayload() []byte {
	buf := make([]byte, 0, 25)
	buf = append(buf, 0, 0, 0, 0) // version/flags
	buf = append(buf, 0, 0, 0, 0) // predefined
	buf = append(buf, 'm', 'd', 'i', 'r')
	buf = append(buf, 'a', 'p', 'p', 'l')
	buf = append(buf, 0, 0, 0, 0) // reserved
	buf = append(buf, 0, 0, 0, 0) // reserved
	buf = append(buf, 0)          // component name, empty pascal/C string
	return buf
}
