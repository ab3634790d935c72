// Package usc provides a unified state codec for log-shaped text streams:
// it mines repeated line shapes into templates, channels each template's
// slot values through the typed encoder best suited to what it sees, and
// packs everything into a small, streamable packet format.
//
// # Core Features
//
//   - Template mining with per-slot type promotion (int/ip/hex/dict, raw until promoted)
//   - Bit-packed move-to-front template-id coding plus delta-coded numeric slots
//   - Three modes: stream (lowest latency), hot-lite-full (adds an
//     event-id index), cold (trained-dictionary outer compression)
//   - Lossless roundtrip on every mode; no mode trades correctness for size
//
// # Basic Usage
//
// Encoding a stream of lines:
//
//	enc, _ := usc.NewEncoder()
//	for _, line := range lines {
//	    _ = enc.EncodeLine(ctx, line)
//	}
//	data, diag, _ := enc.Finish(ctx)
//
// Decoding it back:
//
//	dec := usc.NewDecoder()
//	lines, _ := dec.Decode(ctx, data)
//
// # Package Structure
//
// This package is a thin set of top-level aliases over codec, the
// package that actually drives the mining/packet/framing pipeline. Use
// codec, mode, packet, and miner directly for fine-grained control; use
// usc for the common case.
package usc

import (
	"github.com/maddwiz/UnifiedStateCodec/codec"
	"github.com/maddwiz/UnifiedStateCodec/mode"
)

// Encoder mines and packs a stream of lines into a container.
type Encoder = codec.Encoder

// Decoder reverses Encoder's container back into the original lines.
type Decoder = codec.Decoder

// Diagnostics reports non-fatal signals observed during an encode.
type Diagnostics = codec.Diagnostics

// Option configures an Encoder/Decoder session.
type Option = codec.Option

// NewEncoder creates an Encoder with defaultConfig, USC_WINDOW/
// USC_MAX_TEMPLATES env overrides, and the given Options layered on top,
// in that order of increasing precedence. Stream mode (the lowest-latency
// mode, no outer framing or index) is the default.
func NewEncoder(opts ...Option) (*Encoder, error) {
	return codec.NewEncoder(opts...)
}

// NewDecoder returns a Decoder. A Decoder holds no state and is safe to
// reuse across containers and modes.
func NewDecoder() *Decoder {
	return codec.NewDecoder()
}

// WithWindowSize overrides the number of rows each DATA packet covers.
func WithWindowSize(n int) Option { return codec.WithWindowSize(n) }

// WithMaxTemplates overrides the TemplateBank size cap.
func WithMaxTemplates(n int) Option { return codec.WithMaxTemplates(n) }

// WithMode selects stream, hot-lite-full, or cold mode.
func WithMode(m mode.Config) Option { return codec.WithMode(m) }

// Stream is the default mode: lowest latency, no event-id index, no outer
// compression pass.
func Stream() mode.Config { return mode.Stream() }

// HotLiteFull adds a trailing event-id index, letting a caller find the
// first packet containing a given template id without a linear scan.
func HotLiteFull() mode.Config { return mode.HotLiteFull() }

// Cold trains an FSST dictionary over the assembled packet stream and
// layers Zstd on top, trading encode latency for ratio on archival data.
func Cold() mode.Config { return mode.Cold() }
