// Package bitpack wraps github.com/icza/bitio with the fixed-width-field
// read/write pair the MTF template-id channel needs: it packs a uniform bit
// width per value, chosen once per window from the
// value domain size, rather than the variable-width Rice/unary coding bitio
// is more commonly paired with.
package bitpack

import (
	"bytes"

	"github.com/icza/bitio"
)

// WidthFor returns the number of bits needed to represent values in
// [0, domainSize) . A domain of size 0 or 1 still needs a single bit so that
// Writer/Reader never operate on a zero-width field.
func WidthFor(domainSize int) uint8 {
	if domainSize <= 1 {
		return 1
	}

	width := uint8(0)
	for v := domainSize - 1; v > 0; v >>= 1 {
		width++
	}

	return width
}

// Writer packs a sequence of fixed-width unsigned values into a byte buffer.
type Writer struct {
	buf *bytes.Buffer
	bw  *bitio.Writer
}

// NewWriter creates an empty Writer; each WriteField call names its own bit
// width.
func NewWriter() *Writer {
	buf := &bytes.Buffer{}
	return &Writer{
		buf: buf,
		bw:  bitio.NewWriter(buf),
	}
}

// WriteField writes the low width bits of v.
func (w *Writer) WriteField(v uint64, width uint8) error {
	return w.bw.WriteBits(v, width)
}

// Close flushes any partial byte and returns the packed bytes.
//
// The returned slice is only valid until the next call to WriteField.
func (w *Writer) Close() ([]byte, error) {
	if err := w.bw.Close(); err != nil {
		return nil, err
	}

	return w.buf.Bytes(), nil
}

// Reader unpacks a sequence of fixed-width unsigned values from a byte slice.
type Reader struct {
	br *bitio.Reader
}

// NewReader creates a Reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{br: bitio.NewReader(bytes.NewReader(data))}
}

// ReadField reads width bits and returns them as an unsigned value.
//
// It returns io.EOF or io.ErrUnexpectedEOF, per bitio.Reader.ReadBits, once
// the underlying byte slice is exhausted.
func (r *Reader) ReadField(width uint8) (uint64, error) {
	return r.br.ReadBits(width)
}
