package ilst

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"golang.org/x/text/encoding/unicode"
)

// TypeCode is the low 24 bits of a data atom's 4-byte type-set field: the
// iTunes type identifying how the payload that follows should be decoded.
type TypeCode uint32

const (
	TypeReserved      TypeCode = 0
	TypeUTF8          TypeCode = 1
	TypeUTF16BE       TypeCode = 2
	TypeJPEG          TypeCode = 13
	TypePNG           TypeCode = 14
	TypeBESignedInt   TypeCode = 21
	TypeBEUnsignedInt TypeCode = 22
	TypeBMP           TypeCode = 27
)

// Kind classifies a decoded Data value for callers that don't care about
// the exact TypeCode: string, integer, image, or opaque bytes.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindImage
	KindBytes
)

// PackedKind marks a Reserved-type payload whose bytes follow one of the
// structured layouts iTunes uses without a dedicated type code: the
// trkn/disk (reserved, number, total, reserved) pair, or the 2-byte gnre
// genre code.
type PackedKind int

const (
	PackedNone PackedKind = iota
	PackedPair
	PackedGenre
)

// Data is one decoded "data" atom payload: the original type-set selector
// and code (preserved for round-trip fidelity), the locale field (almost
// always zero, but preserved verbatim), and the typed value.
type Data struct {
	Selector byte // high byte of the type-set field; non-zero values are rare but preserved
	Code     TypeCode
	Locale   uint32

	Kind   Kind
	Packed PackedKind

	Str   string
	Int   int64
	Total int64  // second element of a packed trkn/disk pair
	Width int    // byte width of Int as read, one of 1/2/3/4/8; used to re-emit at the same width
	Bytes []byte // raw payload for KindImage and KindBytes, and the source bytes for KindString/KindInt round-trip checks

	packedLen int // full body length of a packed pair as read: 8 for trkn, 6 for disk
}

// utf16BE is a stateless UTF-16 big-endian codec, the byte order iTunes
// metadata always uses (never the platform-native order the standard
// library's utf16 package assumes).
var utf16BE = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

// DecodeData parses a "data" atom's payload (the bytes immediately after the
// "data" atom's own 8-byte header) into a typed Data value.
func DecodeData(payload []byte) (*Data, error) {
	if len(payload) < 8 {
		return nil, fmt.Errorf("ilst: data atom payload too short: %d bytes", len(payload))
	}

	typeSet := binary.BigEndian.Uint32(payload[0:4])
	selector := byte(typeSet >> 24)
	code := TypeCode(typeSet & 0x00ffffff)
	locale := binary.BigEndian.Uint32(payload[4:8])
	body := payload[8:]

	d := &Data{Selector: selector, Code: code, Locale: locale, Bytes: body}

	switch code {
	case TypeUTF8:
		d.Kind = KindString
		d.Str = string(body)
	case TypeUTF16BE:
		if len(body)%2 != 0 {
			return nil, fmt.Errorf("ilst: malformed utf-16: odd payload length %d", len(body))
		}
		decoded, err := utf16BE.NewDecoder().Bytes(body)
		if err != nil {
			return nil, fmt.Errorf("ilst: malformed utf-16: %w", err)
		}
		d.Kind = KindString
		d.Str = string(decoded)
	case TypeJPEG, TypePNG, TypeBMP:
		d.Kind = KindImage
	case TypeBESignedInt:
		v, width, err := decodeSignedInt(body)
		if err != nil {
			return nil, err
		}
		d.Kind = KindInt
		d.Int = v
		d.Width = width
	case TypeBEUnsignedInt:
		v, width, err := decodeUnsignedInt(body)
		if err != nil {
			return nil, err
		}
		d.Kind = KindInt
		d.Int = v
		d.Width = width
	case TypeReserved:
		d.Kind = KindBytes
	default:
		// Unrecognized type code: retained verbatim. Callers that want
		// the raw bytes use d.Bytes; d.Kind stays KindBytes so filtered
		// accessors skip it.
		d.Kind = KindBytes
	}

	return d, nil
}

func decodeSignedInt(b []byte) (int64, int, error) {
	switch len(b) {
	case 1:
		return int64(int8(b[0])), 1, nil
	case 2:
		return int64(int16(binary.BigEndian.Uint16(b))), 2, nil
	case 3:
		v := uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
		if v&0x800000 != 0 {
			v |= 0xff000000
		}
		return int64(int32(v)), 3, nil
	case 4:
		return int64(int32(binary.BigEndian.Uint32(b))), 4, nil
	case 8:
		return int64(binary.BigEndian.Uint64(b)), 8, nil
	default:
		return 0, 0, fmt.Errorf("ilst: unsupported integer width %d", len(b))
	}
}

func decodeUnsignedInt(b []byte) (int64, int, error) {
	switch len(b) {
	case 1:
		return int64(b[0]), 1, nil
	case 2:
		return int64(binary.BigEndian.Uint16(b)), 2, nil
	case 3:
		return int64(uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])), 3, nil
	case 4:
		return int64(binary.BigEndian.Uint32(b)), 4, nil
	case 8:
		return int64(binary.BigEndian.Uint64(b)), 8, nil
	default:
		return 0, 0, fmt.Errorf("ilst: unsupported integer width %d", len(b))
	}
}

// EncodeData serializes a Data value back to a "data" atom payload (type-set
// field + locale + body). It re-emits at the width/encoding the value was
// read with; NewUTF8String/NewSignedInt construct fresh values with sensible
// defaults for first-time writes.
func EncodeData(d *Data) []byte {
	typeSet := uint32(d.Selector)<<24 | uint32(d.Code)&0x00ffffff

	var body []byte
	switch d.Kind {
	case KindString:
		if d.Code == TypeUTF16BE {
			encoded, _ := utf16BE.NewEncoder().Bytes([]byte(d.Str))
			body = encoded
		} else {
			body = []byte(d.Str)
		}
	case KindInt:
		switch d.Packed {
		case PackedPair:
			body = encodePair(d.Int, d.Total, d.packedLen)
		case PackedGenre:
			body = make([]byte, 2)
			binary.BigEndian.PutUint16(body, uint16(d.Int))
		default:
			body = encodeIntWidth(d.Int, d.Width, d.Code == TypeBEUnsignedInt)
		}
	default:
		body = d.Bytes
	}

	out := make([]byte, 8, 8+len(body))
	binary.BigEndian.PutUint32(out[0:4], typeSet)
	binary.BigEndian.PutUint32(out[4:8], d.Locale)
	return append(out, body...)
}

// encodeIntWidth widens to the next supported width ({1,2,3,4,8}) if v does
// not fit in the requested width, per the encoding rule in the data model.
func encodeIntWidth(v int64, width int, unsignedVal bool) []byte {
	widths := []int{1, 2, 3, 4, 8}
	chosen := width
	if !fitsWidth(v, width, unsignedVal) {
		for _, w := range widths {
			if w >= width && fitsWidth(v, w, unsignedVal) {
				chosen = w
				break
			}
		}
	}

	buf := make([]byte, chosen)
	switch chosen {
	case 1:
		buf[0] = byte(v)
	case 2:
		binary.BigEndian.PutUint16(buf, uint16(v))
	case 3:
		buf[0] = byte(v >> 16)
		buf[1] = byte(v >> 8)
		buf[2] = byte(v)
	case 4:
		binary.BigEndian.PutUint32(buf, uint32(v))
	case 8:
		binary.BigEndian.PutUint64(buf, uint64(v))
	}
	return buf
}

func fitsWidth(v int64, width int, unsignedVal bool) bool {
	bits := width * 8
	if unsignedVal {
		if v < 0 {
			return false
		}
		if bits >= 64 {
			return true
		}
		return v < (int64(1) << bits)
	}
	if bits >= 64 {
		return true
	}
	lo := -(int64(1) << (bits - 1))
	hi := (int64(1) << (bits - 1)) - 1
	return v >= lo && v <= hi
}

// NewUTF8String constructs a fresh UTF-8 Data value, the preferred encoding
// for new string entries per the encoding rules.
func NewUTF8String(s string) *Data {
	return &Data{Code: TypeUTF8, Kind: KindString, Str: s}
}

// NewSignedInt constructs a fresh BE-signed-integer Data value at the
// narrowest supported width that fits v.
func NewSignedInt(v int64) *Data {
	width := 1
	for _, w := range []int{1, 2, 3, 4, 8} {
		if fitsWidth(v, w, false) {
			width = w
			break
		}
	}
	return &Data{Code: TypeBESignedInt, Kind: KindInt, Int: v, Width: width}
}

// NewImage constructs a fresh image Data value. code must be TypeJPEG,
// TypePNG, or TypeBMP.
func NewImage(code TypeCode, bytes []byte) *Data {
	return &Data{Code: code, Kind: KindImage, Bytes: bytes}
}

// decodePacked upgrades a Reserved-type body to its structured
// sub-encoding for the identifiers that carry one: the trkn/disk
// (reserved, number, total, reserved) pair and the 2-byte gnre genre
// code. The upgrade only happens when re-encoding the extracted fields
// reproduces the original bytes exactly, so a payload with nonzero
// reserved bytes stays opaque and round-trips verbatim.
func decodePacked(fourCC string, d *Data) {
	if d.Code != TypeReserved || d.Selector != 0 || d.Kind != KindBytes {
		return
	}
	switch fourCC {
	case "trkn", "disk":
		if len(d.Bytes) < 6 {
			return
		}
		number := int64(binary.BigEndian.Uint16(d.Bytes[2:4]))
		total := int64(binary.BigEndian.Uint16(d.Bytes[4:6]))
		if !bytes.Equal(encodePair(number, total, len(d.Bytes)), d.Bytes) {
			return
		}
		d.Kind = KindInt
		d.Packed = PackedPair
		d.Int = number
		d.Total = total
		d.packedLen = len(d.Bytes)
	case "gnre":
		if len(d.Bytes) != 2 {
			return
		}
		d.Kind = KindInt
		d.Packed = PackedGenre
		d.Int = int64(binary.BigEndian.Uint16(d.Bytes))
	}
}

// encodePair lays out a (number, total) pair at the given full body
// length: 2 reserved bytes, number, total, then zero padding out to size
// (trkn carries a trailing 2-byte reserved field, disk does not).
func encodePair(number, total int64, size int) []byte {
	if size < 6 {
		size = 6
	}
	buf := make([]byte, size)
	binary.BigEndian.PutUint16(buf[2:4], uint16(number))
	binary.BigEndian.PutUint16(buf[4:6], uint16(total))
	return buf
}

// Pair returns the (number, total) of a packed trkn/disk value.
func (d *Data) Pair() (number, total int64, ok bool) {
	if d.Packed != PackedPair {
		return 0, 0, false
	}
	return d.Int, d.Total, true
}

// NewTrackPair constructs the packed (number, total) value carried by
// trkn, with the trailing reserved field iTunes writes for tracks.
func NewTrackPair(number, total int64) *Data {
	return &Data{Kind: KindInt, Packed: PackedPair, Int: number, Total: total, packedLen: 8}
}

// NewDiscPair constructs the packed (number, total) value carried by disk,
// which iTunes writes without the trailing reserved field.
func NewDiscPair(number, total int64) *Data {
	return &Data{Kind: KindInt, Packed: PackedPair, Int: number, Total: total, packedLen: 6}
}

// NewGenreCode constructs the 2-byte numeric genre-code value carried by
// gnre. See GenreName for the code-to-label table.
func NewGenreCode(code uint16) *Data {
	return &Data{Kind: KindInt, Packed: PackedGenre, Int: int64(code)}
}
