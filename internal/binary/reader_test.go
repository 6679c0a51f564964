package binary

import (
	"bytes"
	"strings"
	"testing"
)

func TestReader_ReadAt(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04}
	r := NewReader(bytes.NewReader(data), int64(len(data)), "test.m4a")

	buf := make([]byte, 2)
	if err := r.ReadAt(buf, 1, "payload"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf[0] != 0x02 || buf[1] != 0x03 {
		t.Errorf("got [0x%02x, 0x%02x], want [0x02, 0x03]", buf[0], buf[1])
	}
}

func TestReader_ReadAt_OutOfBounds(t *testing.T) {
	data := []byte{0x01, 0x02}
	r := NewReader(bytes.NewReader(data), int64(len(data)), "test.m4a")

	buf := make([]byte, 2)
	err := r.ReadAt(buf, 10, "out of bounds")
	if err == nil {
		t.Fatal("expected error for out-of-bounds offset")
	}
	if !strings.Contains(err.Error(), "out of bounds") {
		t.Errorf("error should name the bounds violation: %v", err)
	}
	if !strings.Contains(err.Error(), "test.m4a") {
		t.Errorf("error should carry the path label: %v", err)
	}
}

func TestReader_ReadAt_ExceedsSize(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04}
	r := NewReader(bytes.NewReader(data), int64(len(data)), "test.m4a")

	buf := make([]byte, 3)
	err := r.ReadAt(buf, 2, "tail")
	if err == nil {
		t.Fatal("expected error for read running past the declared size")
	}
	if !strings.Contains(err.Error(), "tail") {
		t.Errorf("error should name what was being read: %v", err)
	}
}

func TestReader_ReadAt_NegativeOffset(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{1}), 1, "test.m4a")
	if err := r.ReadAt(make([]byte, 1), -1, "negative"); err == nil {
		t.Fatal("expected error for negative offset")
	}
}

func TestReader_Scalars(t *testing.T) {
	data := []byte{
		0x12, 0x34,
		0x00, 0x01, 0xe2, 0x40,
		0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00,
	}
	r := NewReader(bytes.NewReader(data), int64(len(data)), "test.m4a")

	if v, err := r.Uint16(0, "u16"); err != nil || v != 0x1234 {
		t.Errorf("Uint16 = %#x, %v; want 0x1234", v, err)
	}
	if v, err := r.Uint32(2, "u32"); err != nil || v != 123456 {
		t.Errorf("Uint32 = %d, %v; want 123456", v, err)
	}
	if v, err := r.Uint64(6, "u64"); err != nil || v != 1<<32 {
		t.Errorf("Uint64 = %d, %v; want 2^32", v, err)
	}
}

func TestReader_ScalarPastEnd(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0x12}), 1, "test.m4a")
	if _, err := r.Uint32(0, "u32"); err == nil {
		t.Fatal("expected error reading a uint32 from a 1-byte source")
	}
}

func TestReader_PathAndSize(t *testing.T) {
	r := NewReader(bytes.NewReader(make([]byte, 42)), 42, "song.m4b")
	if r.Path() != "song.m4b" {
		t.Errorf("Path = %q, want song.m4b", r.Path())
	}
	if r.Size() != 42 {
		t.Errorf("Size = %d, want 42", r.Size())
	}
}

// shortReader serves fewer bytes than its declared size, the shape of a
// file truncated after its headers were written.
type shortReader struct{ data []byte }

func (s *shortReader) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(s.data)) {
		return 0, nil
	}
	return copy(p, s.data[off:]), nil
}

func TestReader_ShortRead(t *testing.T) {
	r := NewReader(&shortReader{data: []byte{1, 2}}, 8, "truncated.m4a")
	err := r.ReadAt(make([]byte, 4), 0, "header")
	if err == nil {
		t.Fatal("expected error for short read")
	}
	if !strings.Contains(err.Error(), "short read") {
		t.Errorf("error should name the short read: %v", err)
	}
}
