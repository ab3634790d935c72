package channel

import (
	"fmt"

	"github.com/maddwiz/UnifiedStateCodec/internal/bitpack"
)

// MTFEncoder move-to-front transforms a stream of template ids into small
// recency positions, then bit-packs them at a uniform per-window width.
// It is owned by the encode session (not recreated per window): the
// recency list persists across windows exactly like the TemplateBank it
// tracks, only ever growing as new template ids are first seen. A
// template id is "new" (never MTF-encoded before) exactly when the miner
// inserted it into the TemplateBank for the first time; the decoder
// reconstructs this without extra side information because bank ids are
// assigned in increasing first-seen order, so the next unseen id is
// always equal to the current recency-list length.
type MTFEncoder struct {
	recency   []int
	positions []int
}

// NewMTFEncoder creates an MTF encoder with an empty recency list.
func NewMTFEncoder() *MTFEncoder {
	return &MTFEncoder{}
}

// Write move-to-front encodes one template id and buffers its position
// for the next FlushWindow call.
func (e *MTFEncoder) Write(templateID int) {
	pos := -1
	for i, id := range e.recency {
		if id == templateID {
			pos = i
			break
		}
	}

	if pos == -1 {
		pos = len(e.recency)
		e.recency = append([]int{templateID}, e.recency...)
	} else {
		id := e.recency[pos]
		copy(e.recency[1:pos+1], e.recency[:pos])
		e.recency[0] = id
	}

	e.positions = append(e.positions, pos)
}

// Width returns the bit width needed to represent any position against
// the current recency-list size: ceil(log2(bank_size_so_far + 1)).
func (e *MTFEncoder) Width() uint8 {
	return bitpack.WidthFor(len(e.recency) + 1)
}

// FlushWindow bit-packs every position buffered since the last
// FlushWindow at Width() bits, returning the packed payload and the width
// used (the packet header must carry this width explicitly, since the
// decoder cannot derive it from the packed bits alone). The recency list
// is not reset; only the pending position buffer is.
func (e *MTFEncoder) FlushWindow() ([]byte, uint8, error) {
	width := e.Width()

	w := bitpack.NewWriter()
	for _, p := range e.positions {
		if err := w.WriteField(uint64(p), width); err != nil {
			return nil, 0, err
		}
	}
	data, err := w.Close()
	if err != nil {
		return nil, 0, err
	}

	e.positions = e.positions[:0]

	return data, width, nil
}

// MTFDecoder reconstructs template ids from a stream of MTF positions. It
// owns the same recency list shape as MTFEncoder and must be fed windows
// in the same order they were encoded.
type MTFDecoder struct {
	recency []int
}

// NewMTFDecoder creates an MTF decoder with an empty recency list.
func NewMTFDecoder() *MTFDecoder {
	return &MTFDecoder{}
}

// DecodeWindow unpacks rowCount positions from data (packed at width bits
// per FlushWindow's contract) and returns the reconstructed template ids.
func (d *MTFDecoder) DecodeWindow(data []byte, width uint8, rowCount int) ([]int, error) {
	r := bitpack.NewReader(data)

	ids := make([]int, 0, rowCount)
	for i := 0; i < rowCount; i++ {
		raw, err := r.ReadField(width)
		if err != nil {
			return ids, fmt.Errorf("usc: mtf channel truncated at row %d: %w", i, err)
		}
		pos := int(raw)

		var id int
		switch {
		case pos == len(d.recency):
			id = len(d.recency)
			d.recency = append([]int{id}, d.recency...)
		case pos >= 0 && pos < len(d.recency):
			id = d.recency[pos]
			copy(d.recency[1:pos+1], d.recency[:pos])
			d.recency[0] = id
		default:
			return ids, fmt.Errorf("usc: mtf position %d out of range (recency size %d)", pos, len(d.recency))
		}

		ids = append(ids, id)
	}

	return ids, nil
}
