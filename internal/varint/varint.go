// Package varint provides the zigzag/varint primitives shared by every L0
// channel encoder (INT deltas, slot counts, section lengths, template ids).
//
// All multi-byte integers on the wire are LEB128 unsigned varints; signed
// values are zigzag-mapped to unsigned before varint encoding so that small
// negative deltas stay small on the wire.
package varint

import "encoding/binary"

// MaxLen64 is the maximum number of bytes a 64-bit varint can occupy.
const MaxLen64 = binary.MaxVarintLen64

// ZigZagEncode maps a signed value to an unsigned value so that small
// negative numbers, not just small positive numbers, encode to few bytes.
//
//	v >= 0  ->  2*v
//	v <  0  ->  2*|v|-1
func ZigZagEncode(v int64) uint64 {
	return uint64(v<<1) ^ uint64(v>>63)
}

// ZigZagDecode reverses ZigZagEncode.
func ZigZagDecode(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1)
}

// AppendUvarint appends the varint encoding of v to dst and returns the
// extended slice.
func AppendUvarint(dst []byte, v uint64) []byte {
	var tmp [MaxLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	return append(dst, tmp[:n]...)
}

// AppendVarint zigzag-encodes v and appends its varint form to dst.
func AppendVarint(dst []byte, v int64) []byte {
	return AppendUvarint(dst, ZigZagEncode(v))
}

// Uvarint decodes an unsigned varint from the start of data.
//
// It returns the decoded value and the number of bytes read, or n<=0 if
// data did not contain a complete, valid varint (see encoding/binary.Uvarint
// for the exact n<=0 convention).
func Uvarint(data []byte) (uint64, int) {
	return binary.Uvarint(data)
}

// Varint decodes a zigzag+varint encoded signed value from the start of data.
func Varint(data []byte) (int64, int) {
	u, n := binary.Uvarint(data)
	if n <= 0 {
		return 0, n
	}

	return ZigZagDecode(u), n
}
