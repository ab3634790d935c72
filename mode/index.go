// Package mode implements L7: the three modes (stream, hot-lite-full,
// cold) as a small composed configuration naming which layers run, plus
// the hot-lite-full event-id index. The tiered-confidence Memory decorator
// lives in the root usc package (memory.go), not here.
package mode

import (
	"github.com/maddwiz/UnifiedStateCodec/endian"
	"github.com/maddwiz/UnifiedStateCodec/errs"
	"github.com/maddwiz/UnifiedStateCodec/packet"
)

// wireEndian is the byte order every fixed-width field of the event-id
// index is written and read with.
var wireEndian = endian.GetBigEndianEngine()

// indexEntrySize is the fixed stride of one event-id index row:
// TemplateID(4) + FirstPacketIndex(4) + RowCount(4), all big-endian uint32.
const indexEntrySize = 12

// WriteIndex serializes the hot-lite-full event-id index as a trailing,
// fixed-stride section: entry count (varint-free, fixed 4-byte count to
// match the fixed-stride rows that follow it) then one indexEntrySize
// record per entry, in the order given.
func WriteIndex(entries []packet.IndexEntry) []byte {
	buf := make([]byte, 0, 4+len(entries)*indexEntrySize)
	buf = wireEndian.AppendUint32(buf, uint32(len(entries)))

	for _, e := range entries {
		buf = wireEndian.AppendUint32(buf, e.TemplateID)
		buf = wireEndian.AppendUint32(buf, e.FirstPacketIndex)
		buf = wireEndian.AppendUint32(buf, e.RowCount)
	}

	return buf
}

// ReadIndex parses an event-id index written by WriteIndex. A short or
// empty slice (the "missing index degrades gracefully to linear scan"
// case) returns a nil slice and no error.
func ReadIndex(data []byte) ([]packet.IndexEntry, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if len(data) < 4 {
		return nil, errs.ErrTruncatedPacket
	}

	count := wireEndian.Uint32(data[:4])
	want := 4 + int(count)*indexEntrySize
	if len(data) < want {
		return nil, errs.ErrTruncatedPacket
	}

	entries := make([]packet.IndexEntry, count)
	offset := 4
	for i := range entries {
		row := data[offset : offset+indexEntrySize]
		entries[i] = packet.IndexEntry{
			TemplateID:       wireEndian.Uint32(row[0:4]),
			FirstPacketIndex: wireEndian.Uint32(row[4:8]),
			RowCount:         wireEndian.Uint32(row[8:12]),
		}
		offset += indexEntrySize
	}

	return entries, nil
}

// Lookup returns the index entry for templateID, if present.
func Lookup(entries []packet.IndexEntry, templateID uint32) (packet.IndexEntry, bool) {
	for _, e := range entries {
		if e.TemplateID == templateID {
			return e, true
		}
	}
	return packet.IndexEntry{}, false
}
