package channel

import (
	"fmt"

	"github.com/maddwiz/UnifiedStateCodec/internal/pool"
	"github.com/maddwiz/UnifiedStateCodec/internal/varint"
)

// HexEncoder encodes a stream of hexadecimal-string slot values as
// length-prefixed byte strings, verbatim.
//
// A fixed-width bit-packed encoding (one nibble per hex digit) cannot
// preserve this channel's values byte-for-byte: packing at a single
// per-window width either pads shorter values with leading zero nibbles,
// which silently manufactures leading zeros a shorter value never had
// ("ABCDEF1" decodes back as "0ABCDEF1"), or it must normalize case to
// fit a nibble, since 'A' and 'a' pack to the same four bits. Carrying
// the original string through untouched is the only encoding that
// reconstructs every HEX-classified value exactly.
type HexEncoder struct {
	buf   *pool.ByteBuffer
	count int
}

// NewHexEncoder creates an empty HEX channel encoder.
func NewHexEncoder() *HexEncoder {
	return &HexEncoder{buf: pool.GetWindowBuffer()}
}

// Write appends one hex string (without a leading "0x").
func (e *HexEncoder) Write(hex string) error {
	if !isHexString(hex) {
		return fmt.Errorf("usc: %q is not a valid hex value", hex)
	}
	e.count++
	e.buf.MustWrite(varint.AppendUvarint(nil, uint64(len(hex))))
	e.buf.MustWrite([]byte(hex))
	return nil
}

// Len returns the number of values written.
func (e *HexEncoder) Len() int { return e.count }

// Bytes returns the encoded channel payload.
func (e *HexEncoder) Bytes() ([]byte, error) { return e.buf.Bytes(), nil }

// Size returns the number of bytes in the encoded payload.
func (e *HexEncoder) Size() int { return e.buf.Len() }

// Finish returns the encoder's pooled buffer.
func (e *HexEncoder) Finish() {
	pool.PutWindowBuffer(e.buf)
	e.buf = nil
}

func isHexString(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if !((r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')) {
			return false
		}
	}
	return true
}

// HexDecoder decodes a HEX channel payload back into hex strings.
type HexDecoder struct{}

// NewHexDecoder creates a stateless HEX channel decoder.
func NewHexDecoder() HexDecoder { return HexDecoder{} }

// All decodes every value from data in order.
func (HexDecoder) All(data []byte, count int) ([]string, error) {
	if count <= 0 {
		return nil, nil
	}

	out := make([]string, 0, count)
	offset := 0
	for i := 0; i < count; i++ {
		l, n := varint.Uvarint(data[offset:])
		if n <= 0 {
			return out, fmt.Errorf("usc: hex channel truncated length prefix at value %d", i)
		}
		offset += n

		end := offset + int(l)
		if end > len(data) {
			return out, fmt.Errorf("usc: hex channel truncated body at value %d", i)
		}
		out = append(out, string(data[offset:end]))
		offset = end
	}

	return out, nil
}
