package mp4tag

import (
	"github.com/simonhull/mp4tag/internal/atom"
	"github.com/simonhull/mp4tag/internal/binary"
)

// FileType is the ftyp descriptor every MP4-family container carries: a
// major brand, a minor version, and a list of compatible brands. It picks
// the write-path flavor (QuickTime vs ISO BMFF) and validates that a file
// is a recognized variant before writing.
type FileType struct {
	MajorBrand       string
	MinorVersion     uint32
	CompatibleBrands []string
}

// recognizedBrands is the set of major brands this library knows how to
// write: M4A/M4B/M4P/M4V, the ISO BMFF variants, and plain QuickTime.
var recognizedBrands = map[string]bool{
	"M4A ": true,
	"M4B ": true,
	"M4P ": true,
	"M4V ": true,
	"mp42": true,
	"mp41": true,
	"isom": true,
	"iso2": true,
	"qt  ": true,
}

// Recognized reports whether t's major brand is one this library knows how
// to write. An unrecognized brand does not stop Open from reading the
// file best-effort; it does stop Save/SaveAs.
func (t FileType) Recognized() bool {
	return recognizedBrands[t.MajorBrand]
}

// readFileType locates and decodes the ftyp atom, if present. A nil
// return with a nil error means the file has no ftyp at all.
func readFileType(sr *binary.Reader) (*FileType, error) {
	a, err := atom.Find(sr, 0, sr.Size(), "ftyp")
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, nil
	}

	payload := make([]byte, a.DataSize())
	if err := sr.ReadAt(payload, a.DataOffset(), "ftyp payload"); err != nil {
		return nil, err
	}
	if len(payload) < 8 {
		return nil, &atom.MalformedSizeError{Path: sr.Path(), Offset: a.Offset, Size: a.Size}
	}

	ft := &FileType{
		MajorBrand:   string(payload[0:4]),
		MinorVersion: be32(payload[4:8]),
	}
	for i := 8; i+4 <= len(payload); i += 4 {
		ft.CompatibleBrands = append(ft.CompatibleBrands, string(payload[i:i+4]))
	}
	return ft, nil
}

func be32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
