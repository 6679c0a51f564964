package atom

import "github.com/simonhull/mp4tag/internal/binary"

// containerTypes lists the atom types this library ever needs to descend
// into. It is intentionally narrower than a full ISO BMFF/QuickTime table:
// mp4tag only needs to walk the path down to ilst and the sample tables
// that hold stco/co64, so only those branches are marked as containers.
var containerTypes = map[string]bool{
	"moov": true,
	"trak": true,
	"mdia": true,
	"minf": true,
	"stbl": true,
	"udta": true,
	"meta": true,
	"ilst": true,
	"----": true,
	"edts": true,
}

// IsContainerType reports whether atomType's payload is a sequence of child
// atoms according to the fixed table above.
func IsContainerType(atomType string) bool {
	return containerTypes[atomType]
}

// MetaHasVersionPrefix detects whether a meta atom carries the 4-byte
// version/flags prefix ISO BMFF requires before its children, which pure
// QuickTime meta atoms omit.
//
// The probe reads a candidate child header immediately after the meta
// header. If it looks like a real atom (its declared size is at least a
// header and fits inside the meta payload, and its type code is printable
// per PrintableType), meta is treated as a raw container. Otherwise the first 4 bytes
// are assumed to be the version/flags field and are skipped.
func MetaHasVersionPrefix(sr *binary.Reader, meta *Atom) (bool, error) {
	payloadEnd := meta.DataOffset() + int64(meta.DataSize())

	probe, err := ReadHeaderAt(sr, meta.DataOffset(), payloadEnd)
	if err == nil && looksLikeAtom(probe, payloadEnd) {
		return false, nil
	}

	// Retry 4 bytes in, as if a version/flags field were present.
	probe, err = ReadHeaderAt(sr, meta.DataOffset()+4, payloadEnd)
	if err != nil {
		// Neither interpretation parses; default to the ISO BMFF prefix,
		// since that's the more common form in files this library targets.
		return true, nil
	}
	if looksLikeAtom(probe, payloadEnd) {
		return true, nil
	}

	return true, nil
}

// looksLikeAtom applies a light sanity check: a real child atom's size must
// be at least a header's worth and must not run past the end of its parent.
func looksLikeAtom(a *Atom, containerEnd int64) bool {
	if a.Size < 8 {
		return false
	}
	if a.End() > containerEnd {
		return false
	}
	return PrintableType(a.Type)
}

// PrintableType reports whether every byte of a four-character code is
// printable ASCII, with the iTunes copyright-sign lead byte (0xa9) allowed
// in first position. Non-printable codes exist in the wild and are still
// parsed; the predicate exists so callers can flag them, and so the meta
// prefix probe can treat a garbage type as a sign it misaligned on the
// version/flags field.
func PrintableType(t string) bool {
	if len(t) != 4 {
		return false
	}
	for i := 0; i < 4; i++ {
		c := t[i]
		if c < 0x20 || c > 0x7e {
			// iTunes well-known atoms like "\xa9nam" use the top bit; allow
			// the copyright-sign lead byte specifically.
			if i == 0 && c == 0xa9 {
				continue
			}
			return false
		}
	}
	return true
}
