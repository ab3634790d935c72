// Package compress provides the L6 compression backends the outer framer
// layers over a session's assembled DICT/DATA packets.
//
// # Overview
//
// The framer applies compression after packet assembly: channel encoders
// already exploit structure (deltas, bit-packing, dictionaries); compress
// is the final, general-purpose pass over the concatenated packet bytes.
// The one per-channel use is packet/data.go's S2 compression of a slot's
// RAW fallback payload.
//
//   - None: no compression (stream mode default)
//   - Zstd: best ratio, moderate speed
//   - S2: balanced ratio and speed
//   - LZ4: fastest decompression
//   - FSST: trained symbol-table coder, cold mode's dictionary pass
//
// # Architecture
//
//	type Compressor interface { Compress(data []byte) ([]byte, error) }
//	type Decompressor interface { Decompress(data []byte) ([]byte, error) }
//	type Codec interface { Compressor; Decompressor }
//
// # Algorithm selection
//
// | Mode          | Backend | Reason                                |
// |---------------|---------|----------------------------------------|
// | stream        | None    | packets ship as soon as a window closes |
// | hot-lite-full | None    | index lookups favor fast decompression |
// | cold          | FSST(+Zstd) | trained dictionary over the whole stream |
//
// FSST is unlike the other four: it is not a fixed algorithm but a table
// trained from the data being compressed (on every Compress call for
// FSSTCompressor, once over a leading sample for cold mode's framer), which is why CreateCodec/GetCodec hand back a distinct
// FSSTCompressor rather than a stateless wrapper around a library default.
//
// # Memory
//
// The pure-Go Zstd build pools its encoders and decoders, and LZ4 its
// compressors (sync.Pool), to amortize the warmup cost library authors
// document for repeated use; S2 calls its stateless Encode/Decode
// functions directly. FSST's table is
// sized by the trained symbol count (at most 255 entries) and is cheap to
// keep around for a session's lifetime.
package compress
