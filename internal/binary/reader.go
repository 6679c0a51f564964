// Package binary is the bounds-checked byte-access layer the atom and
// metadata codecs parse MP4 structures through. All multi-byte values are
// big-endian, the only byte order the container format uses.
package binary

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Reader wraps a random-access byte source with bounds checking against a
// known total size, so a truncated or lying atom surfaces as a descriptive
// error instead of a short read deep inside a codec.
type Reader struct {
	src  io.ReaderAt
	path string
	size int64
}

// NewReader wraps src, whose total length is size. path labels errors and
// warnings; it need not be a real filesystem path.
func NewReader(src io.ReaderAt, size int64, path string) *Reader {
	return &Reader{
		src:  src,
		size: size,
		path: path,
	}
}

// Path returns the diagnostic label this reader was created with.
func (r *Reader) Path() string {
	return r.path
}

// Size returns the total length of the underlying byte source.
func (r *Reader) Size() int64 {
	return r.size
}

// ReadAt fills b from the absolute offset off. what names the structure
// being read, so a failure deep in an atom tree still points at the field
// that caused it.
func (r *Reader) ReadAt(b []byte, off int64, what string) error {
	if off < 0 || off > r.size {
		return fmt.Errorf("%s: offset %d out of bounds (size %d) while reading %s",
			r.path, off, r.size, what)
	}
	if off+int64(len(b)) > r.size {
		return fmt.Errorf("%s: read of %d bytes at offset %d would exceed size %d while reading %s",
			r.path, len(b), off, r.size, what)
	}

	n, err := r.src.ReadAt(b, off)
	if err != nil && err != io.EOF {
		return fmt.Errorf("%s: failed to read %s at offset %d: %w", r.path, what, off, err)
	}
	if n < len(b) {
		return fmt.Errorf("%s: short read for %s at offset %d: got %d bytes, expected %d",
			r.path, what, off, n, len(b))
	}
	return nil
}

// Uint16 reads a big-endian 16-bit value at off.
func (r *Reader) Uint16(off int64, what string) (uint16, error) {
	var buf [2]byte
	if err := r.ReadAt(buf[:], off, what); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf[:]), nil
}

// Uint32 reads a big-endian 32-bit value at off.
func (r *Reader) Uint32(off int64, what string) (uint32, error) {
	var buf [4]byte
	if err := r.ReadAt(buf[:], off, what); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

// Uint64 reads a big-endian 64-bit value at off.
func (r *Reader) Uint64(off int64, what string) (uint64, error) {
	var buf [8]byte
	if err := r.ReadAt(buf[:], off, what); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}
