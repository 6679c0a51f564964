package mp4tag

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/mp4tag/internal/atom"
	"github.com/simonhull/mp4tag/internal/binary"
)

func TestFileType_Recognized(t *testing.T) {
	cases := []struct {
		brand string
		want  bool
	}{
		{"M4A ", true},
		{"M4B ", true},
		{"M4P ", true},
		{"M4V ", true},
		{"mp42", true},
		{"mp41", true},
		{"isom", true},
		{"iso2", true},
		{"qt  ", true},
		{"zzzz", false},
	}
	for _, c := range cases {
		ft := FileType{MajorBrand: c.brand}
		assert.Equal(t, c.want, ft.Recognized(), c.brand)
	}
}

func TestReadFileType(t *testing.T) {
	payload := []byte("M4A \x00\x00\x02\x00M4A mp42isom")
	file := atom.Serialize("ftyp", payload)

	sr := binary.NewReader(bytes.NewReader(file), int64(len(file)), "test.m4a")
	ft, err := readFileType(sr)
	require.NoError(t, err)
	require.NotNil(t, ft)

	assert.Equal(t, "M4A ", ft.MajorBrand)
	assert.Equal(t, uint32(0x200), ft.MinorVersion)
	assert.Equal(t, []string{"M4A ", "mp42", "isom"}, ft.CompatibleBrands)
}

func TestReadFileType_Absent(t *testing.T) {
	file := atom.Serialize("moov", make([]byte, 4))
	sr := binary.NewReader(bytes.NewReader(file), int64(len(file)), "test.m4a")

	ft, err := readFileType(sr)
	require.NoError(t, err)
	assert.Nil(t, ft)
}
