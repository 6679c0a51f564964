package atom

import (
	"encoding/binary"

	"github.com/google/uuid"
)

// maxInt32Size is the largest total atom length a 32-bit size field can
// carry before the encoder falls back to the 64-bit extension.
const maxInt32Size = 1<<32 - 1

// Serialize returns the complete header+payload bytes for atomType. It
// chooses the minimal-width size encoding: a plain 32-bit header unless the
// total length would overflow it, in which case it falls back to the
// size==1 64-bit extension.
func Serialize(atomType string, payload []byte) []byte {
	total := uint64(8 + len(payload))
	if total <= maxInt32Size {
		buf := make([]byte, 8, total)
		binary.BigEndian.PutUint32(buf[0:4], uint32(total))
		copy(buf[4:8], atomType)
		return append(buf, payload...)
	}

	total = uint64(16 + len(payload))
	buf := make([]byte, 16, total)
	binary.BigEndian.PutUint32(buf[0:4], 1)
	copy(buf[4:8], atomType)
	binary.BigEndian.PutUint64(buf[8:16], total)
	return append(buf, payload...)
}

// SerializeUUID returns the complete header+payload bytes for a "uuid"
// extension atom carrying the given 16-byte extended type.
func SerializeUUID(extType [16]byte, payload []byte) []byte {
	total := uint64(8 + 16 + len(payload))
	var buf []byte
	if total <= maxInt32Size {
		buf = make([]byte, 8, total)
		binary.BigEndian.PutUint32(buf[0:4], uint32(total))
		copy(buf[4:8], uuidType)
	} else {
		total = uint64(16 + 16 + len(payload))
		buf = make([]byte, 16, total)
		binary.BigEndian.PutUint32(buf[0:4], 1)
		copy(buf[4:8], uuidType)
		binary.BigEndian.PutUint64(buf[8:16], total)
	}
	buf = append(buf, extType[:]...)
	return append(buf, payload...)
}

// SerializeVendorUUID returns the bytes of a "uuid" extension atom under a
// freshly generated random extended type, for callers writing a vendor box
// that has no assigned identifier of its own. The generated type is
// returned alongside the bytes so the caller can locate the atom again.
func SerializeVendorUUID(payload []byte) ([]byte, [16]byte) {
	ext := [16]byte(uuid.New())
	return SerializeUUID(ext, payload), ext
}

// SerializeContainer concatenates children (already-serialized atoms) and
// wraps them in an atomType header, per invariant I2: a container's
// payload is exactly the concatenation of its children.
func SerializeContainer(atomType string, children ...[]byte) []byte {
	var payload []byte
	for _, c := range children {
		payload = append(payload, c...)
	}
	return Serialize(atomType, payload)
}
