// Package channel implements the L4 per-slot-type channel codecs: INT, IP,
// HEX, DICT, RAW value streams and the MTF template-id stream. Each codec
// is a concrete type rather than a type-parameterized ColumnarEncoder[T],
// since the five slot types are structurally different (int64 deltas,
// per-octet zigzag-varint deltas, verbatim length-prefixed hex strings,
// index-into-dictionary, length-prefixed bytes) and gain nothing from being forced through one
// generic shape.
package channel

import (
	"github.com/maddwiz/UnifiedStateCodec/internal/pool"
	"github.com/maddwiz/UnifiedStateCodec/internal/varint"
)

// IntEncoder encodes a stream of int64 slot values using delta + zigzag +
// varint: the first value is a full varint, every value after it is a
// zigzag-varint delta against the immediately preceding value.
type IntEncoder struct {
	buf   *pool.ByteBuffer
	prev  int64
	count int
}

// NewIntEncoder creates an empty INT channel encoder.
func NewIntEncoder() *IntEncoder {
	return &IntEncoder{buf: pool.GetWindowBuffer()}
}

// Write appends one int64 value to the channel.
func (e *IntEncoder) Write(v int64) {
	e.count++

	if e.count == 1 {
		e.buf.MustWrite(varint.AppendUvarint(nil, uint64(v)))
		e.prev = v
		return
	}

	delta := v - e.prev
	e.buf.MustWrite(varint.AppendVarint(nil, delta))
	e.prev = v
}

// WriteSlice appends a slice of int64 values.
func (e *IntEncoder) WriteSlice(vs []int64) {
	for _, v := range vs {
		e.Write(v)
	}
}

// Bytes returns the encoded channel payload.
func (e *IntEncoder) Bytes() []byte { return e.buf.Bytes() }

// Len returns the number of values written.
func (e *IntEncoder) Len() int { return e.count }

// Size returns the number of bytes in the encoded payload.
func (e *IntEncoder) Size() int { return e.buf.Len() }

// Finish returns the encoder's pooled buffer.
func (e *IntEncoder) Finish() {
	pool.PutWindowBuffer(e.buf)
	e.buf = nil
}

// IntDecoder decodes an INT channel payload back into int64 values.
type IntDecoder struct{}

// NewIntDecoder creates a stateless INT channel decoder.
func NewIntDecoder() IntDecoder { return IntDecoder{} }

// All decodes every value from data in order.
func (IntDecoder) All(data []byte, count int) []int64 {
	if count <= 0 {
		return nil
	}

	out := make([]int64, 0, count)
	offset := 0

	first, n := varint.Uvarint(data[offset:])
	if n <= 0 {
		return out
	}
	offset += n
	cur := int64(first) //nolint:gosec
	out = append(out, cur)

	for i := 1; i < count && offset < len(data); i++ {
		delta, n := varint.Varint(data[offset:])
		if n <= 0 {
			break
		}
		offset += n

		cur += delta
		out = append(out, cur)
	}

	return out
}
