package channel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/maddwiz/UnifiedStateCodec/internal/pool"
	"github.com/maddwiz/UnifiedStateCodec/internal/varint"
)

// IPEncoder encodes dotted-quad IPv4 addresses as four independent
// per-octet zigzag-varint delta streams against the previous address seen
// in the same slot.
type IPEncoder struct {
	buf   *pool.ByteBuffer
	prev  [4]int64
	count int
}

// NewIPEncoder creates an empty IP channel encoder.
func NewIPEncoder() *IPEncoder {
	return &IPEncoder{buf: pool.GetWindowBuffer()}
}

// Write appends one dotted-quad address. The caller must have already
// classified the value as slot.TypeIP (four 0-255 octets); a malformed
// address returns an error rather than writing partial state.
func (e *IPEncoder) Write(addr string) error {
	octets, err := splitOctets(addr)
	if err != nil {
		return err
	}

	for i, o := range octets {
		var delta int64
		if e.count == 0 {
			delta = o
		} else {
			delta = o - e.prev[i]
		}
		e.buf.MustWrite(varint.AppendVarint(nil, delta))
		e.prev[i] = o
	}
	e.count++

	return nil
}

// Bytes returns the encoded channel payload.
func (e *IPEncoder) Bytes() []byte { return e.buf.Bytes() }

// Len returns the number of addresses written.
func (e *IPEncoder) Len() int { return e.count }

// Size returns the number of bytes in the encoded payload.
func (e *IPEncoder) Size() int { return e.buf.Len() }

// Finish returns the encoder's pooled buffer.
func (e *IPEncoder) Finish() {
	pool.PutWindowBuffer(e.buf)
	e.buf = nil
}

func splitOctets(addr string) ([4]int64, error) {
	var out [4]int64
	parts := strings.Split(addr, ".")
	if len(parts) != 4 {
		return out, fmt.Errorf("usc: %q is not a dotted-quad address", addr)
	}
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 || v > 255 {
			return out, fmt.Errorf("usc: %q has an invalid octet %q", addr, p)
		}
		out[i] = int64(v)
	}
	return out, nil
}

// IPDecoder decodes an IP channel payload back into dotted-quad strings.
type IPDecoder struct{}

// NewIPDecoder creates a stateless IP channel decoder.
func NewIPDecoder() IPDecoder { return IPDecoder{} }

// All decodes every address from data in order.
func (IPDecoder) All(data []byte, count int) []string {
	if count <= 0 {
		return nil
	}

	out := make([]string, 0, count)
	offset := 0
	var prev [4]int64

	for row := 0; row < count; row++ {
		var octets [4]int64
		for i := 0; i < 4; i++ {
			val, n := varint.Varint(data[offset:])
			if n <= 0 {
				return out
			}
			offset += n

			if row == 0 {
				octets[i] = val
			} else {
				octets[i] = prev[i] + val
			}
		}
		prev = octets
		out = append(out, fmt.Sprintf("%d.%d.%d.%d", octets[0], octets[1], octets[2], octets[3]))
	}

	return out
}
