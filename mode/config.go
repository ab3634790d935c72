package mode

import "github.com/maddwiz/UnifiedStateCodec/format"

// Config names which layers a session runs: a small struct of named
// booleans/values rather than a flag bitmask, so each mode reads
// directly off the struct literal that builds it.
type Config struct {
	Tag format.ModeTag

	// Cold selects the trained-dictionary outer framer (framer.NewCold)
	// instead of the stream-mode pass-through framer (framer.New).
	Cold bool

	// BuildIndex builds the trailing event-id index after the last DATA
	// packet (hot-lite-full only).
	BuildIndex bool
}

// Stream is the default mode: no outer framing, no event-id index.
func Stream() Config {
	return Config{Tag: format.ModeStream}
}

// HotLiteFull adds the event-id index over the stream-mode layers; framing
// stays pass-through (fast, linear-scan-free lookups favor fast
// decompression over a trained dictionary's better ratio).
func HotLiteFull() Config {
	return Config{Tag: format.ModeHotLiteFull, BuildIndex: true}
}

// Cold adds the trained-dictionary outer framer on top of the stream-mode
// layers; no event-id index (cold data is scanned, not looked up by id).
func Cold() Config {
	return Config{Tag: format.ModeCold, Cold: true}
}
