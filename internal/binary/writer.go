package binary

import (
	"encoding/binary"
	"io"
)

// Writer counts bytes on their way to an underlying sink and offers the
// big-endian helpers the serializers need. It implements io.Writer so it
// can front any destination; Flush propagates to the sink when the sink
// has a flush or sync hook of its own.
type Writer struct {
	w io.Writer
	n int64
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Count returns the number of bytes written so far.
func (w *Writer) Count() int64 {
	return w.n
}

// Write passes p through to the sink, tracking the byte count.
func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	w.n += int64(n)
	return n, err
}

// Uint16 writes a big-endian 16-bit value.
func (w *Writer) Uint16(v uint16) error {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

// Uint32 writes a big-endian 32-bit value.
func (w *Writer) Uint32(v uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

// Uint64 writes a big-endian 64-bit value.
func (w *Writer) Uint64(v uint64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

// Flush pushes buffered bytes through to stable storage where the sink
// supports it: a Flush method (buffered writers) or a Sync method
// (os.File). Sinks with neither are a no-op.
func (w *Writer) Flush() error {
	switch s := w.w.(type) {
	case interface{ Flush() error }:
		return s.Flush()
	case interface{ Sync() error }:
		return s.Sync()
	}
	return nil
}
