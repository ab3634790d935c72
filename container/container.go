// Package container implements the file container format: the outermost
// wire boundary an Encoder.Finish()/Decoder.Decode() pair writes and reads.
// It is core to this codec, not part of the excluded CLI surface — the
// file container is how a session's framed packet bytes are persisted or
// transmitted between one encode call and a later decode call.
//
// Layout: magic "USC\0" | u8 version | u8 mode_tag | u32 packet_count |
// packets. Each packet is itself self-delimiting (its own magic + header +
// table lengths), so packets are concatenated with no extra per-packet
// length prefix. The container carries no separate compression field:
// mode_tag alone determines which framer.Unframe path to run, since
// stream and hot-lite-full always frame with format.CompressionNone and
// cold mode always frames with the trained FSST path (see codec.Decoder).
package container

import (
	"fmt"

	"github.com/maddwiz/UnifiedStateCodec/endian"
	"github.com/maddwiz/UnifiedStateCodec/errs"
	"github.com/maddwiz/UnifiedStateCodec/format"
)

// wireEndian is the byte order every fixed-width field in the container
// header is written and read with.
var wireEndian = endian.GetBigEndianEngine()

// Magic identifies a USC file container at the start of its byte stream.
var Magic = [4]byte{'U', 'S', 'C', 0}

// Version is the current container format version this package reads and writes.
const Version uint8 = 1

// headerSize is magic(4) + version(1) + mode_tag(1) + packet_count(4).
const headerSize = 4 + 1 + 1 + 4

// Write assembles a file container from a session's already-framed packet
// bytes (DICT packet followed by each window's DATA packet, already passed
// through framer.Frame as one concatenated blob) plus the mode tag that
// produced them.
func Write(framedPackets []byte, packetCount int, mode format.ModeTag) []byte {
	buf := make([]byte, 0, headerSize+len(framedPackets))
	buf = append(buf, Magic[:]...)
	buf = append(buf, Version)
	buf = append(buf, byte(mode))
	buf = wireEndian.AppendUint32(buf, uint32(packetCount))

	buf = append(buf, framedPackets...)

	return buf
}

// Header is the parsed fixed prefix of a file container.
type Header struct {
	Version     uint8
	Mode        format.ModeTag
	PacketCount int
}

// Open parses a file container's header and returns it alongside the
// remaining (still framed) packet bytes.
func Open(data []byte) (Header, []byte, error) {
	if len(data) < headerSize {
		return Header{}, nil, errs.ErrTruncatedPacket
	}
	if data[0] != Magic[0] || data[1] != Magic[1] || data[2] != Magic[2] || data[3] != Magic[3] {
		return Header{}, nil, errs.ErrInvalidMagic
	}

	version := data[4]
	if version != Version {
		return Header{}, nil, fmt.Errorf("%w: container version %d", errs.ErrVersionUnsupported, version)
	}

	mode := format.ModeTag(data[5])
	count := wireEndian.Uint32(data[6:10])

	return Header{Version: version, Mode: mode, PacketCount: int(count)}, data[headerSize:], nil
}
