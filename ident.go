package mp4tag

import "github.com/simonhull/mp4tag/internal/ilst"

// Identifier names one Tag entry: either a four-character code (the
// "FourCC" case) or a freeform (mean, name) pair stored under the "----"
// marker. FourCC equality is byte equality; freeform equality compares
// both parts, case-sensitively.
type Identifier struct {
	ident ilst.Ident
}

// FourCC constructs a four-character identifier, e.g. FourCC("\xa9ART")
// for artist. Any 4-byte code is accepted, recognized or not — an
// unrecognized FourCC still round-trips, it just has no Name().
func FourCC(code string) Identifier {
	return Identifier{ilst.Ident{Kind: ilst.KindFourCC, FourCC: code}}
}

// Freeform constructs a "----" identifier from its mean (reverse-DNS
// namespace, conventionally "com.apple.iTunes") and name parts.
func Freeform(mean, name string) Identifier {
	return Identifier{ilst.Ident{Kind: ilst.KindFreeform, Mean: mean, Name: name}}
}

// ITunesFreeform constructs a freeform identifier in the com.apple.iTunes
// namespace, the one iTunes itself writes: ITunesFreeform("ISRC") names
// the same entry as Freeform("com.apple.iTunes", "ISRC").
func ITunesFreeform(name string) Identifier {
	return Freeform(ilst.FreeformMean, name)
}

// Well-known identifier constants for the four-character codes callers
// reach for most. internal/ilst.WellKnown carries the fuller table these
// are drawn from.
var (
	Artist      = FourCC("\xa9ART")
	AlbumArtist = FourCC("aART")
	Album       = FourCC("\xa9alb")
	Title       = FourCC("\xa9nam")
	Year        = FourCC("\xa9day")
	Composer    = FourCC("\xa9wrt")
	Genre       = FourCC("\xa9gen")
	GenreID     = FourCC("gnre")
	TrackNumber = FourCC("trkn")
	DiscNumber  = FourCC("disk")
	BPM         = FourCC("tmpo")
	Compilation = FourCC("cpil")
	CoverArt    = FourCC("covr")
	Comment     = FourCC("\xa9cmt")
	Lyrics      = FourCC("\xa9lyr")
	Copyright   = FourCC("cprt")
	Encoder     = FourCC("\xa9too")
	Grouping    = FourCC("\xa9grp")
)

// Name returns the well-known human-readable name for this identifier, if
// it is a recognized FourCC. Freeform identifiers and unrecognized FourCC
// codes return ("", false).
func (i Identifier) Name() (string, bool) {
	if i.ident.Kind != ilst.KindFourCC {
		return "", false
	}
	return ilst.Name(i.ident.FourCC)
}

// IsFreeform reports whether this identifier is a "----" (mean, name)
// pair rather than a plain FourCC.
func (i Identifier) IsFreeform() bool {
	return i.ident.Kind == ilst.KindFreeform
}

// FourCCCode returns the four-character code and true, for a FourCC
// identifier; ("", false) for a freeform one.
func (i Identifier) FourCCCode() (string, bool) {
	if i.ident.Kind == ilst.KindFourCC {
		return i.ident.FourCC, true
	}
	return "", false
}

// Mean and Name return the freeform pair, for a freeform identifier;
// ("", "", false) for a FourCC one. (The method is MeanName, not Name,
// because Name already reports the well-known-table label above.)
func (i Identifier) MeanName() (mean, name string, ok bool) {
	if i.ident.Kind == ilst.KindFreeform {
		return i.ident.Mean, i.ident.Name, true
	}
	return "", "", false
}

func (i Identifier) String() string { return i.ident.String() }
