package codec

import (
	"context"
	"fmt"

	"github.com/maddwiz/UnifiedStateCodec/channel"
	"github.com/maddwiz/UnifiedStateCodec/container"
	"github.com/maddwiz/UnifiedStateCodec/errs"
	"github.com/maddwiz/UnifiedStateCodec/format"
	"github.com/maddwiz/UnifiedStateCodec/framer"
	"github.com/maddwiz/UnifiedStateCodec/mode"
	"github.com/maddwiz/UnifiedStateCodec/packet"
)

// Decoder reverses Encoder.Finish: open the container, undo the outer
// frame, replay the DICT packet then each DATA packet in order. A Decoder
// holds no state across calls and is safe to reuse.
type Decoder struct{}

// NewDecoder returns a Decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode reverses a container produced by Encoder.Finish and returns the
// original lines in order. Cancellation is checked once per DATA packet,
// the decode-side mirror of Finish's per-window check.
func (d *Decoder) Decode(ctx context.Context, data []byte) ([]string, error) {
	lines, _, err := d.decode(ctx, data)
	return lines, err
}

// Index reverses the trailing event-id index a hot-lite-full container
// carries, if present. A stream or cold container (or a hot-lite-full one
// whose index was stripped in transit) returns a nil slice and no error:
// "a missing index degrades gracefully to linear scan".
func (d *Decoder) Index(ctx context.Context, data []byte) ([]packet.IndexEntry, error) {
	_, trailer, err := d.decode(ctx, data)
	if err != nil {
		return nil, err
	}

	return mode.ReadIndex(trailer)
}

// decode does the shared work of Decode/Index: it returns the
// reconstructed lines plus whatever bytes remain after the last DATA
// packet (the optional event-id index trailer, or nil).
func (d *Decoder) decode(ctx context.Context, data []byte) ([]string, []byte, error) {
	header, body, err := container.Open(data)
	if err != nil {
		return nil, nil, err
	}
	if header.PacketCount == 0 {
		return nil, nil, errs.ErrEmptyContainer
	}

	fr, tag := framerFor(header.Mode), compressionFor(header.Mode)

	unframed, err := fr.Unframe(body, tag)
	if err != nil {
		return nil, nil, err
	}

	dict, n, err := packet.ParseDictPacket(unframed)
	if err != nil {
		return nil, nil, err
	}
	offset := n

	mtfDecoder := channel.NewMTFDecoder()
	var lines []string

	for i := 0; i < header.PacketCount-1; i++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		window, consumed, err := packet.ParseDataPacket(unframed[offset:], dict.Templates, dict.SlotDicts, mtfDecoder)
		if err != nil {
			return nil, nil, fmt.Errorf("usc: decoding data packet %d: %w", i, err)
		}

		lines = append(lines, window.Lines...)
		offset += consumed
	}

	return lines, unframed[offset:], nil
}

func framerFor(tag format.ModeTag) *framer.Framer {
	if tag == format.ModeCold {
		return framer.NewCold()
	}

	return framer.New()
}

func compressionFor(tag format.ModeTag) format.CompressionType {
	if tag == format.ModeCold {
		return format.CompressionFSST
	}

	return format.CompressionNone
}
