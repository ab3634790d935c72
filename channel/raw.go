package channel

import (
	"fmt"

	"github.com/maddwiz/UnifiedStateCodec/internal/pool"
	"github.com/maddwiz/UnifiedStateCodec/internal/varint"
)

// RawEncoder encodes a stream of arbitrary byte strings as
// varint-length-prefixed concatenated blocks. RAW slot values and whole
// unmatched lines are not bounded in length, so the prefix is a varint
// rather than a single byte.
type RawEncoder struct {
	buf   *pool.ByteBuffer
	count int
}

// NewRawEncoder creates an empty RAW channel encoder.
func NewRawEncoder() *RawEncoder {
	return &RawEncoder{buf: pool.GetWindowBuffer()}
}

// Write appends one byte string.
func (e *RawEncoder) Write(v []byte) {
	e.count++
	e.buf.MustWrite(varint.AppendUvarint(nil, uint64(len(v))))
	e.buf.MustWrite(v)
}

// WriteString appends one string.
func (e *RawEncoder) WriteString(v string) {
	e.Write([]byte(v))
}

// Bytes returns the encoded channel payload.
func (e *RawEncoder) Bytes() []byte { return e.buf.Bytes() }

// Len returns the number of values written.
func (e *RawEncoder) Len() int { return e.count }

// Size returns the number of bytes in the encoded payload.
func (e *RawEncoder) Size() int { return e.buf.Len() }

// Finish returns the encoder's pooled buffer.
func (e *RawEncoder) Finish() {
	pool.PutWindowBuffer(e.buf)
	e.buf = nil
}

// RawDecoder decodes a RAW channel payload back into byte strings.
type RawDecoder struct{}

// NewRawDecoder creates a stateless RAW channel decoder.
func NewRawDecoder() RawDecoder { return RawDecoder{} }

// All decodes every value from data in order.
func (RawDecoder) All(data []byte, count int) ([][]byte, error) {
	if count <= 0 {
		return nil, nil
	}

	out := make([][]byte, 0, count)
	offset := 0
	for i := 0; i < count; i++ {
		l, n := varint.Uvarint(data[offset:])
		if n <= 0 {
			return out, fmt.Errorf("usc: raw channel truncated length prefix at value %d", i)
		}
		offset += n

		end := offset + int(l)
		if end > len(data) {
			return out, fmt.Errorf("usc: raw channel truncated body at value %d", i)
		}
		out = append(out, data[offset:end])
		offset = end
	}

	return out, nil
}
