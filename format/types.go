// Package format defines the small wire-level enums shared across the
// compression and mode layers: the outer-frame compression backend tag
// and the file container's mode tag.
package format

type (
	// ModeTag identifies which of the three modes produced a container:
	// stream, hot-lite-full, or cold.
	ModeTag uint8

	// CompressionType identifies the L6 outer-frame compression backend
	// a framed payload was written with.
	CompressionType uint8
)

const (
	ModeStream       ModeTag = 0x1 // ModeStream represents the stream mode (no outer framing).
	ModeHotLiteFull  ModeTag = 0x2 // ModeHotLiteFull represents hot-lite-full mode (adds the event-id index).
	ModeCold         ModeTag = 0x3 // ModeCold represents cold mode (trained-dictionary outer pass).

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
	CompressionFSST CompressionType = 0x5 // CompressionFSST represents the FSST trained-dictionary backend.
)

func (m ModeTag) String() string {
	switch m {
	case ModeStream:
		return "stream"
	case ModeHotLiteFull:
		return "hot-lite-full"
	case ModeCold:
		return "cold"
	default:
		return "unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	case CompressionFSST:
		return "FSST"
	default:
		return "Unknown"
	}
}
