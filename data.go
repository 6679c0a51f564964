package mp4tag

import "github.com/simonhull/mp4tag/internal/ilst"

// DataType is the iTunes type-set code identifying how a Data value's
// payload was (or will be) encoded.
type DataType int

const (
	DataReserved      = DataType(ilst.TypeReserved)
	DataUTF8          = DataType(ilst.TypeUTF8)
	DataUTF16BE       = DataType(ilst.TypeUTF16BE)
	DataJPEG          = DataType(ilst.TypeJPEG)
	DataPNG           = DataType(ilst.TypePNG)
	DataBESignedInt   = DataType(ilst.TypeBESignedInt)
	DataBEUnsignedInt = DataType(ilst.TypeBEUnsignedInt)
	DataBMP           = DataType(ilst.TypeBMP)
)

// Data is one typed metadata value, a tagged union over the iTunes type
// codes: a decoded string, an integer, image bytes, or an opaque payload
// retained verbatim so unrecognized values survive a rewrite untouched.
type Data struct {
	d *ilst.Data
}

func wrapData(d *ilst.Data) Data  { return Data{d: d} }
func (d Data) unwrap() *ilst.Data { return d.d }

// Type returns the iTunes type-set code this value was decoded from, or
// will be encoded as.
func (d Data) Type() DataType { return DataType(d.d.Code) }

// String returns the decoded string for a UTF-8 or UTF-16BE value, and ""
// for any other kind.
func (d Data) String() string {
	if d.d.Kind == ilst.KindString {
		return d.d.Str
	}
	return ""
}

// Int returns the decoded integer for a BE signed/unsigned value, the
// number of a packed TrackNumber/DiscNumber pair, or the code of a packed
// GenreID value, and 0 for any other kind.
func (d Data) Int() int64 {
	if d.d.Kind == ilst.KindInt {
		return d.d.Int
	}
	return 0
}

// Bytes returns the raw payload: image bytes for JPEG/PNG/BMP, or the
// opaque bytes for Reserved/unrecognized type codes.
func (d Data) Bytes() []byte { return d.d.Bytes }

// IsImage reports whether this value decoded as JPEG, PNG, or BMP.
func (d Data) IsImage() bool { return d.d.Kind == ilst.KindImage }

// IsString reports whether this value decoded as UTF-8 or UTF-16BE.
func (d Data) IsString() bool { return d.d.Kind == ilst.KindString }

// IsInt reports whether this value decoded as a BE signed or unsigned
// integer, or as a packed TrackNumber/DiscNumber pair or GenreID code.
func (d Data) IsInt() bool { return d.d.Kind == ilst.KindInt }

// NewString constructs a fresh UTF-8 string value — the preferred encoding
// for new entries under identifiers that have historically carried UTF-8,
// per the Metadata Codec's encoding rule.
func NewString(s string) Data { return wrapData(ilst.NewUTF8String(s)) }

// NewInt constructs a fresh BE-signed-integer value at the narrowest
// width that fits v.
func NewInt(v int64) Data { return wrapData(ilst.NewSignedInt(v)) }

// NewTrackPair and NewDiscPair construct the packed (number, total)
// values TrackNumber and DiscNumber carry on disk.
func NewTrackPair(number, total int64) Data { return wrapData(ilst.NewTrackPair(number, total)) }
func NewDiscPair(number, total int64) Data  { return wrapData(ilst.NewDiscPair(number, total)) }

// NewGenreCode constructs the numeric genre-code value carried by GenreID.
func NewGenreCode(code uint16) Data { return wrapData(ilst.NewGenreCode(code)) }

// Pair returns the (number, total) of a packed TrackNumber/DiscNumber
// value, and (0, 0, false) for any other kind.
func (d Data) Pair() (number, total int64, ok bool) { return d.d.Pair() }

// NewJPEG, NewPNG, and NewBMP construct fresh image values of the
// corresponding type, for use with CoverArt and similar identifiers.
func NewJPEG(b []byte) Data { return wrapData(ilst.NewImage(ilst.TypeJPEG, b)) }
func NewPNG(b []byte) Data  { return wrapData(ilst.NewImage(ilst.TypePNG, b)) }
func NewBMP(b []byte) Data  { return wrapData(ilst.NewImage(ilst.TypeBMP, b)) }
