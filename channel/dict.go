package channel

import (
	"errors"
	"fmt"
)

// ErrDictOverflow is returned by DictEncoder.Write when a slot's
// cardinality grows past 65,536 distinct values; the caller must fall
// that slot back to RAW for the window, per the DICT channel's
// promote-to-RAW contract.
var ErrDictOverflow = errors.New("usc: dictionary channel cardinality exceeds 65536")

// DictEncoder encodes a stream of string slot values as indices into a
// dictionary table built over every value written to the encoder: 1-byte
// indices while final cardinality is at or under 256, widening to 2-byte
// indices up to 65,536. This is two-pass — the index width is only fixed
// once the encoder's final cardinality is known, so indices are buffered and packed uniformly in
// Bytes() rather than written incrementally. The dictionary
// itself is not part of this channel's own payload; it belongs in the
// DICT packet header (Dictionary returns it for the packet assembler to
// place there).
type DictEncoder struct {
	dict    []string
	byValue map[string]int
	order   []int
}

// NewDictEncoder creates an empty DICT channel encoder.
func NewDictEncoder() *DictEncoder {
	return &DictEncoder{byValue: make(map[string]int)}
}

// Write appends one string value, assigning it a new dictionary index on
// first sight. Returns ErrDictOverflow once cardinality would exceed
// 65,536 distinct values.
func (e *DictEncoder) Write(value string) error {
	idx, ok := e.byValue[value]
	if !ok {
		if len(e.dict) >= 65536 {
			return fmt.Errorf("%w: %q would be entry %d", ErrDictOverflow, value, len(e.dict))
		}
		idx = len(e.dict)
		e.dict = append(e.dict, value)
		e.byValue[value] = idx
	}
	e.order = append(e.order, idx)

	return nil
}

// IndexWidth returns the per-index byte width (1 or 2 bytes) Bytes will
// pack with, based on final cardinality.
func (e *DictEncoder) IndexWidth() int {
	if len(e.dict) <= 256 {
		return 1
	}
	return 2
}

// Dictionary returns the ordered list of distinct values seen, in
// first-seen order (their index into this slice is the wire index).
func (e *DictEncoder) Dictionary() []string { return e.dict }

// Cardinality returns the number of distinct values seen.
func (e *DictEncoder) Cardinality() int { return len(e.dict) }

// Len returns the number of values written.
func (e *DictEncoder) Len() int { return len(e.order) }

// Bytes packs every buffered index at IndexWidth() bytes, in write order.
func (e *DictEncoder) Bytes() []byte {
	width := e.IndexWidth()
	out := make([]byte, 0, len(e.order)*width)
	for _, idx := range e.order {
		out = append(out, byte(idx))
		if width == 2 {
			out = append(out, byte(idx>>8))
		}
	}
	return out
}

// Size returns the number of bytes Bytes would produce.
func (e *DictEncoder) Size() int { return len(e.order) * e.IndexWidth() }

// EncodeRange packs the indices written between [start, end) — one
// window's worth of rows — at the encoder's final IndexWidth(). The full
// Write pass over every row (across every window) must complete before
// calling this, since IndexWidth depends on the session-wide dictionary's
// final cardinality, not just this range's.
func (e *DictEncoder) EncodeRange(start, end int) []byte {
	width := e.IndexWidth()
	out := make([]byte, 0, (end-start)*width)
	for _, idx := range e.order[start:end] {
		out = append(out, byte(idx))
		if width == 2 {
			out = append(out, byte(idx>>8))
		}
	}
	return out
}

// DictDecoder decodes a DICT channel's index stream back into strings,
// given the dictionary recovered from the DICT packet header.
type DictDecoder struct{}

// NewDictDecoder creates a stateless DICT channel decoder.
func NewDictDecoder() DictDecoder { return DictDecoder{} }

// All decodes every value from data (an index stream) using dict to
// resolve indices back to strings. indexWidth must match the width the
// encoder used (1 or 2 bytes).
func (DictDecoder) All(data []byte, count int, dict []string, indexWidth int) ([]string, error) {
	if count <= 0 {
		return nil, nil
	}

	out := make([]string, 0, count)
	offset := 0
	for i := 0; i < count; i++ {
		if offset+indexWidth > len(data) {
			return out, fmt.Errorf("usc: dict channel truncated at value %d", i)
		}

		var idx int
		if indexWidth == 1 {
			idx = int(data[offset])
		} else {
			idx = int(data[offset]) | int(data[offset+1])<<8
		}
		offset += indexWidth

		if idx < 0 || idx >= len(dict) {
			return out, fmt.Errorf("usc: dict channel index %d out of range (dictionary has %d entries)", idx, len(dict))
		}
		out = append(out, dict[idx])
	}

	return out, nil
}
