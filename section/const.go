// Package section defines the fixed, version-tagged pieces of the DICT
// and DATA packet wire formats: magic numbers, the version byte, and the
// two packet headers. Headers are variable-length (varint-encoded
// counts) since there is no compile-time-bounded row or slot count to
// pin a fixed width to; each header still follows a Bytes()/Parse()
// pairing with magic-number-first validation.
package section

import "github.com/maddwiz/UnifiedStateCodec/errs"

// Magic numbers identify a packet's kind at the start of its byte stream.
var (
	DictMagic = [4]byte{'U', 'S', 'C', 'D'}
	DataMagic = [4]byte{'U', 'S', 'C', 'x'}
)

// Version is the current wire format version this package reads and writes.
const Version uint8 = 1

func checkMagic(data []byte, want [4]byte) error {
	if len(data) < 4 {
		return errs.ErrTruncatedPacket
	}
	if data[0] != want[0] || data[1] != want[1] || data[2] != want[2] || data[3] != want[3] {
		return errs.ErrInvalidMagic
	}
	return nil
}
