package mp4tag

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/mp4tag/internal/atom"
	"github.com/simonhull/mp4tag/internal/ilst"
)

// buildTestFile assembles a synthetic ftyp/moov/mdat file with an ilst
// built from entries under moov/udta/meta/ilst. No trak/stco is included —
// these tests exercise Open/Save's metadata path, not chunk-offset
// patching (see rewrite_test.go in internal/rewrite for that).
func buildTestFile(brand string, entries []*ilst.Entry) []byte {
	ftyp := atom.Serialize("ftyp", []byte(brand+"\x00\x00\x00\x00"+brand))

	ilstBytes := atom.Serialize("ilst", ilst.EncodeIlst(entries))
	hdlr := atom.Serialize("hdlr", make([]byte, 24))
	metaPayload := append([]byte{0, 0, 0, 0}, hdlr...)
	metaPayload = append(metaPayload, ilstBytes...)
	meta := atom.Serialize("meta", metaPayload)
	udta := atom.Serialize("udta", meta)

	mvhd := atom.Serialize("mvhd", make([]byte, 100))
	moovPayload := append(append([]byte{}, mvhd...), udta...)
	moov := atom.Serialize("moov", moovPayload)

	mdat := atom.Serialize("mdat", bytes.Repeat([]byte{0xAB}, 32))

	var file []byte
	file = append(file, ftyp...)
	file = append(file, moov...)
	file = append(file, mdat...)
	return file
}

func nameEntry(str string) *ilst.Entry {
	return &ilst.Entry{Ident: ilst.Ident{Kind: ilst.KindFourCC, FourCC: "\xa9ART"}, Values: []*ilst.Data{ilst.NewUTF8String(str)}}
}

func TestOpenReader_ReadsArtist(t *testing.T) {
	file := buildTestFile("M4A ", []*ilst.Entry{nameEntry("Alice")})

	f, err := OpenReader(bytes.NewReader(file), int64(len(file)), "test.m4a")
	require.NoError(t, err)

	assert.Equal(t, []string{"Alice"}, f.Tag.Strings(Artist))
	assert.Equal(t, "M4A ", f.Type.MajorBrand)
	assert.Empty(t, f.Warnings)
}

func TestOpenReader_NoTagTreatedAsEmpty(t *testing.T) {
	file := buildFileWithoutUdta("M4A ")

	f, err := OpenReader(bytes.NewReader(file), int64(len(file)), "test.m4a")
	require.NoError(t, err)
	assert.Empty(t, f.Tag.Strings(Artist))
}

func TestOpenReader_WithRequireTag_ReturnsNoTagError(t *testing.T) {
	file := buildFileWithoutUdta("M4A ")

	_, err := OpenReader(bytes.NewReader(file), int64(len(file)), "test.m4a", WithRequireTag())
	var noTag *NoTagError
	assert.ErrorAs(t, err, &noTag)
}

func TestOpenReader_UnknownBrandIsWarningByDefault(t *testing.T) {
	file := buildTestFile("zzzz", []*ilst.Entry{nameEntry("Alice")})

	f, err := OpenReader(bytes.NewReader(file), int64(len(file)), "test.m4a")
	require.NoError(t, err)
	require.Len(t, f.Warnings, 1)
	assert.Equal(t, "filetype", f.Warnings[0].Stage)
}

func TestOpenReader_UnknownBrandFailsUnderStrictParsing(t *testing.T) {
	file := buildTestFile("zzzz", []*ilst.Entry{nameEntry("Alice")})

	_, err := OpenReader(bytes.NewReader(file), int64(len(file)), "test.m4a", WithStrictParsing())
	var unknown *UnknownFiletypeError
	assert.ErrorAs(t, err, &unknown)
}

func TestOpenReader_IgnoreWarnings(t *testing.T) {
	file := buildTestFile("zzzz", []*ilst.Entry{nameEntry("Alice")})

	f, err := OpenReader(bytes.NewReader(file), int64(len(file)), "test.m4a", WithIgnoreWarnings())
	require.NoError(t, err)
	assert.Empty(t, f.Warnings)
}

// buildFileWithoutUdta builds a file with a moov atom that has no udta
// child at all — the canonical "no tag" shape.
func buildFileWithoutUdta(brand string) []byte {
	ftyp := atom.Serialize("ftyp", []byte(brand+"\x00\x00\x00\x00"+brand))
	mvhd := atom.Serialize("mvhd", make([]byte, 100))
	moov := atom.Serialize("moov", mvhd)
	mdat := atom.Serialize("mdat", bytes.Repeat([]byte{0xCD}, 32))

	var file []byte
	file = append(file, ftyp...)
	file = append(file, moov...)
	file = append(file, mdat...)
	return file
}

func TestOpenReader_AlternateMetaRoot(t *testing.T) {
	// A nonstandard file carrying meta/ilst directly at the file root,
	// with a moov that has no tag chain of its own.
	brand := "M4A "
	ftyp := atom.Serialize("ftyp", []byte(brand+"\x00\x00\x00\x00"+brand))
	mvhd := atom.Serialize("mvhd", make([]byte, 100))
	moov := atom.Serialize("moov", mvhd)

	ilstBytes := atom.Serialize("ilst", ilst.EncodeIlst([]*ilst.Entry{nameEntry("Alice")}))
	hdlr := atom.Serialize("hdlr", make([]byte, 24))
	metaPayload := append([]byte{0, 0, 0, 0}, hdlr...)
	metaPayload = append(metaPayload, ilstBytes...)
	meta := atom.Serialize("meta", metaPayload)

	var file []byte
	file = append(file, ftyp...)
	file = append(file, moov...)
	file = append(file, meta...)

	// Default: the canonical path is absent, so the tag reads empty.
	f, err := OpenReader(bytes.NewReader(file), int64(len(file)), "test.m4a")
	require.NoError(t, err)
	assert.Empty(t, f.Tag.Strings(Artist))

	// Opted in: the root-level meta/ilst chain is probed and found.
	f, err = OpenReader(bytes.NewReader(file), int64(len(file)), "test.m4a", WithAlternateMetaRoot())
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice"}, f.Tag.Strings(Artist))
}

func TestOpenMany_CanceledContext(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "song.m4a")
	require.NoError(t, os.WriteFile(path, buildTestFile("M4A ", []*ilst.Entry{nameEntry("Alice")}), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := OpenMany(ctx, []string{path})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpenMany_OpensInInputOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	names := []string{"Alice", "Bob", "Carol"}
	for i, n := range names {
		p := filepath.Join(dir, fmt.Sprintf("song%d.m4a", i))
		require.NoError(t, os.WriteFile(p, buildTestFile("M4A ", []*ilst.Entry{nameEntry(n)}), 0o644))
		paths = append(paths, p)
	}

	files, err := OpenMany(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, files, 3)
	for i, f := range files {
		assert.Equal(t, []string{names[i]}, f.Tag.Strings(Artist))
		f.Close()
	}
}
