// Package framer implements the L6 outer frame: the final, whole-packet-set
// pass applied after the packet assembler (L5) and before a session's bytes
// are wrapped by the file container (L7's container writer).
//
// In stream and hot-lite-full modes framing is pass-through, tagged with
// format.CompressionNone so a decoder never has to guess whether a frame
// was compressed. In cold mode the framer trains an FSST symbol table over
// a fixed-size sample of the framed bytes (the first SampleSize bytes, the
// trained-dictionary region this codec pins at 112 KiB) and layers a plain
// Zstd pass on top of the FSST-coded bytes as a final entropy-coding pass,
// cold mode only.
package framer

import (
	"fmt"

	"github.com/axiomhq/fsst"

	"github.com/maddwiz/UnifiedStateCodec/compress"
	"github.com/maddwiz/UnifiedStateCodec/errs"
	"github.com/maddwiz/UnifiedStateCodec/format"
	"github.com/maddwiz/UnifiedStateCodec/internal/varint"
)

// SampleSize is the number of leading bytes cold mode trains its FSST
// dictionary over.
const SampleSize = 112 * 1024

// Framer applies and removes the L6 outer frame. A zero-value Framer is
// stream-mode pass-through; NewCold configures the trained-dictionary path.
type Framer struct {
	cold  bool
	inner compress.Codec // outer pass layered on top of FSST-coded bytes in cold mode
}

// New creates a stream/hot-lite-full framer: pass-through, tagged None.
func New() *Framer {
	return &Framer{}
}

// NewCold creates a framer that trains an FSST dictionary over the first
// SampleSize bytes it is given and layers Zstd on top of the FSST-coded
// remainder. The outer pass always goes through compress.CreateCodec so
// the same factory backs both the framer and the per-slot fallback path
// in package packet.
func NewCold() *Framer {
	inner, err := compress.CreateCodec(format.CompressionZstd, "cold-mode outer frame")
	if err != nil {
		// format.CompressionZstd is always registered in CreateCodec's switch.
		panic(err)
	}
	return &Framer{cold: true, inner: inner}
}

// Frame compresses the concatenation of a session's packets (already
// assembled by packet.Session) and returns the framed payload along with
// the compression tag the container should record.
func (f *Framer) Frame(data []byte) ([]byte, format.CompressionType, error) {
	if !f.cold {
		return data, format.CompressionNone, nil
	}

	sample := data
	if len(sample) > SampleSize {
		sample = sample[:SampleSize]
	}
	table := compress.TrainSample(sample)

	tableBytes, err := table.MarshalBinary()
	if err != nil {
		return nil, 0, fmt.Errorf("usc: marshaling cold-mode fsst table: %w", err)
	}

	coded := table.EncodeAll(data)
	outer, err := f.inner.Compress(coded)
	if err != nil {
		return nil, 0, fmt.Errorf("usc: outer compression pass: %w", err)
	}

	framed := varint.AppendUvarint(nil, uint64(len(tableBytes)))
	framed = append(framed, tableBytes...)
	framed = append(framed, outer...)

	return framed, format.CompressionFSST, nil
}

// Unframe reverses Frame given the compression tag the container recorded.
func (f *Framer) Unframe(data []byte, tag format.CompressionType) ([]byte, error) {
	switch tag {
	case format.CompressionNone:
		return data, nil
	case format.CompressionFSST:
		return unframeCold(data)
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedCompression, tag)
	}
}

func unframeCold(data []byte) ([]byte, error) {
	tableLen, n := varint.Uvarint(data)
	if n <= 0 {
		return nil, fmt.Errorf("%w: cold frame missing table length", errs.ErrMalformedInput)
	}
	if n+int(tableLen) > len(data) {
		return nil, fmt.Errorf("%w: cold frame truncated table", errs.ErrMalformedInput)
	}

	table := new(fsst.Table)
	if err := table.UnmarshalBinary(data[n : n+int(tableLen)]); err != nil {
		return nil, fmt.Errorf("usc: unmarshaling cold-mode fsst table: %w", err)
	}

	outer := data[n+int(tableLen):]
	codec, err := compress.GetCodec(format.CompressionZstd)
	if err != nil {
		return nil, fmt.Errorf("usc: resolving cold-mode outer codec: %w", err)
	}
	coded, err := codec.Decompress(outer)
	if err != nil {
		return nil, fmt.Errorf("usc: outer decompression pass: %w", err)
	}

	return table.DecodeAll(coded), nil
}
