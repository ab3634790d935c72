package packet

import (
	"fmt"

	"github.com/maddwiz/UnifiedStateCodec/channel"
	"github.com/maddwiz/UnifiedStateCodec/compress"
	"github.com/maddwiz/UnifiedStateCodec/errs"
	"github.com/maddwiz/UnifiedStateCodec/format"
	"github.com/maddwiz/UnifiedStateCodec/internal/varint"
	"github.com/maddwiz/UnifiedStateCodec/miner"
	"github.com/maddwiz/UnifiedStateCodec/section"
	"github.com/maddwiz/UnifiedStateCodec/slot"
)

// fallbackCodec compresses a slot's RAW fallback payload (type
// contradiction or the §4.3 safety fallback). S2 is chosen over Zstd for
// this path: it runs once per slot per window, at the granularity of a
// few dozen to a few hundred values, where S2's lower per-call latency
// matters more than Zstd's better ratio, which is reserved for whole-session
// cold-mode framing instead.
var fallbackCodec = compress.NewS2Compressor()

// DictOffsets tracks, per (template id, slot index), how many DICT-channel
// values have already been consumed by earlier windows in this session —
// the DICT channel's dictionary and index stream are built once across the
// whole session (SlotDictionaries), so each window must slice its own
// [offset, offset+count) range out of that session-wide stream rather than
// starting a fresh encoder.
type DictOffsets map[int]map[int]int

func (o DictOffsets) advance(templateID, slotIdx, n int) int {
	if o[templateID] == nil {
		o[templateID] = make(map[int]int)
	}
	start := o[templateID][slotIdx]
	o[templateID][slotIdx] = start + n
	return start
}

// BuildDataPacket assembles one window's DATA packet: row mask, MTF
// template-id stream, per-(template,slot) channel payloads in
// (template-id asc, slot-index asc) order, and the raw-rows section for
// untemplated rows. mtf and dicts are session-wide state shared across
// every window's call (mtf's recency list persists; dicts' dictionaries
// and index streams were built by a full pass over every row up front).
func BuildDataPacket(rows []miner.Row, bank *miner.Bank, dicts SlotDictionaries, offsets DictOffsets, mtf *channel.MTFEncoder) ([]byte, error) {
	rowMask := section.NewBitSet()
	for _, row := range rows {
		rowMask.Append(row.Templated)
		if row.Templated {
			mtf.Write(row.TemplateID)
		}
	}

	mtfPayload, mtfWidth, err := mtf.FlushWindow()
	if err != nil {
		return nil, fmt.Errorf("usc: flushing mtf window: %w", err)
	}

	buf := section.NewDataHeader(len(rows)).Bytes()
	buf = append(buf, mtfWidth)
	buf = append(buf, rowMask.Bytes()...)
	buf = varint.AppendUvarint(buf, uint64(len(mtfPayload)))
	buf = append(buf, mtfPayload...)

	templateIDs := presentTemplateIDs(rows, bank)
	buf = varint.AppendUvarint(buf, uint64(len(templateIDs)))

	for _, id := range templateIDs {
		tpl, _ := bank.Get(id)
		rowIdxs := rowsForTemplate(rows, id)

		buf = varint.AppendUvarint(buf, uint64(id))
		buf = varint.AppendUvarint(buf, uint64(len(rowIdxs)))

		fallback := section.NewBitSet()
		payloads := make([][]byte, len(tpl.SlotTypes))

		for slotIdx, st := range tpl.SlotTypes {
			values := make([]string, len(rowIdxs))
			for i, ri := range rowIdxs {
				values[i] = rows[ri].Params[slotIdx]
			}

			contradicted := false
			for _, ri := range rowIdxs {
				if rows[ri].Contradicts[slotIdx] {
					contradicted = true
					break
				}
			}

			fellBack := contradicted
			var payload []byte
			var err error
			if !fellBack {
				payload, err = encodeTyped(st, values, id, slotIdx, dicts, offsets)
				if err != nil {
					return nil, err
				}
				// The §4.3 safety fallback is scoped to the directly
				// encodable types. DICT's own promote-to-RAW rule is
				// cardinality-based (channel.ErrDictOverflow), decided
				// once for the whole session by packet.NewSession before
				// any window is built; a per-window size check here
				// would desync a DICT slot's window-by-window RAW/DICT
				// choice from the offsets that NewSession already fixed.
				if st != slot.TypeDICT && len(payload) > rawEquivalentSize(values) {
					fellBack = true
				}
			}
			if fellBack {
				payload, err = encodeRawFallback(values)
				if err != nil {
					return nil, err
				}
			}

			fallback.Append(fellBack)
			payloads[slotIdx] = payload
		}

		buf = append(buf, fallback.Bytes()...)
		for _, payload := range payloads {
			buf = varint.AppendUvarint(buf, uint64(len(payload)))
			buf = append(buf, payload...)
		}
	}

	rawEnc := channel.NewRawEncoder()
	for _, row := range rows {
		if !row.Templated {
			rawEnc.Write(row.Raw)
		}
	}
	rawPayload := rawEnc.Bytes()
	rawEnc.Finish()
	buf = varint.AppendUvarint(buf, uint64(len(rawPayload)))
	buf = append(buf, rawPayload...)

	return buf, nil
}

// encodeTyped encodes values through the typed channel for st. It never
// falls back to RAW itself; callers decide that from the contradiction
// flag and, for the directly encodable types, from rawEquivalentSize.
func encodeTyped(st slot.Type, values []string, templateID, slotIdx int, dicts SlotDictionaries, offsets DictOffsets) ([]byte, error) {
	switch st {
	case slot.TypeINT:
		return encodeInt(values)
	case slot.TypeIP:
		enc := channel.NewIPEncoder()
		for _, v := range values {
			if err := enc.Write(v); err != nil {
				return nil, err
			}
		}
		payload := enc.Bytes()
		enc.Finish()
		return payload, nil
	case slot.TypeHEX:
		enc := channel.NewHexEncoder()
		for _, v := range values {
			if err := enc.Write(v); err != nil {
				return nil, err
			}
		}
		return enc.Bytes()
	case slot.TypeDICT:
		start := offsets.advance(templateID, slotIdx, len(values))
		return dicts[templateID][slotIdx].EncodeRange(start, start+len(values)), nil
	default:
		return nil, fmt.Errorf("usc: unencodable slot type %v", st)
	}
}

// rawEquivalentSize is the byte size values would occupy under the RAW
// channel's own encoding (varint length prefix plus bytes, per value),
// the yardstick the §4.3 safety fallback compares a typed encoding
// against.
func rawEquivalentSize(values []string) int {
	size := 0
	for _, v := range values {
		size += len(varint.AppendUvarint(nil, uint64(len(v)))) + len(v)
	}
	return size
}

// encodeRawFallback encodes values through the RAW channel and compresses
// the result, tagging the payload with the compression type byte so
// decodeSlot can reverse it without the tag being carried anywhere else.
func encodeRawFallback(values []string) ([]byte, error) {
	enc := channel.NewRawEncoder()
	for _, v := range values {
		enc.WriteString(v)
	}
	raw := enc.Bytes()
	compressed, err := fallbackCodec.Compress(raw)
	enc.Finish()
	if err != nil {
		return nil, fmt.Errorf("usc: compressing fallback slot payload: %w", err)
	}

	return append([]byte{byte(format.CompressionS2)}, compressed...), nil
}

func encodeInt(values []string) ([]byte, error) {
	enc := channel.NewIntEncoder()
	for _, v := range values {
		n, err := parseInt64(v)
		if err != nil {
			return nil, err
		}
		enc.Write(n)
	}
	payload := enc.Bytes()
	enc.Finish()
	return payload, nil
}

func parseInt64(v string) (int64, error) {
	var neg bool
	s := v
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	var n int64
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("usc: %q is not a valid integer slot value", v)
		}
		n = n*10 + int64(r-'0')
	}
	if neg {
		n = -n
	}
	return n, nil
}

func presentTemplateIDs(rows []miner.Row, bank *miner.Bank) []int {
	seen := make(map[int]bool)
	for _, row := range rows {
		if row.Templated {
			seen[row.TemplateID] = true
		}
	}
	ids := make([]int, 0, len(seen))
	for id := 0; id < bank.Len(); id++ {
		if seen[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

func rowsForTemplate(rows []miner.Row, templateID int) []int {
	var idxs []int
	for i, row := range rows {
		if row.Templated && row.TemplateID == templateID {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

// DecodedWindow is one window's decoded DATA packet: reconstructed lines
// in original row order.
type DecodedWindow struct {
	Lines []string
}

// ParseDataPacket decodes one window's DATA packet against the templates
// and dictionaries recovered from the session's DICT packet. mtfDecoder
// carries the MTF recency list across windows, mirroring the encoder's.
func ParseDataPacket(data []byte, templates []*miner.Template, slotDicts map[int]map[int][]string, mtfDecoder *channel.MTFDecoder) (DecodedWindow, int, error) {
	header, offset, err := section.ParseDataHeader(data)
	if err != nil {
		return DecodedWindow{}, 0, err
	}
	if offset >= len(data) {
		return DecodedWindow{}, 0, errs.ErrTruncatedPacket
	}
	mtfWidth := data[offset]
	offset++

	maskBytes := (header.RowCount + 7) / 8
	if offset+maskBytes > len(data) {
		return DecodedWindow{}, 0, errs.ErrTruncatedPacket
	}
	rowMask := section.BitSetFromBytes(data[offset:offset+maskBytes], header.RowCount)
	offset += maskBytes

	mtfLen, n, err := readUvarint(data, offset)
	if err != nil {
		return DecodedWindow{}, 0, err
	}
	offset += n
	if offset+int(mtfLen) > len(data) {
		return DecodedWindow{}, 0, errs.ErrTruncatedPacket
	}
	templatedCount := rowMask.Popcount()
	templateIDsByRow, err := mtfDecoder.DecodeWindow(data[offset:offset+int(mtfLen)], mtfWidth, templatedCount)
	if err != nil {
		return DecodedWindow{}, 0, err
	}
	offset += int(mtfLen)

	templateCount, n, err := readUvarint(data, offset)
	if err != nil {
		return DecodedWindow{}, 0, err
	}
	offset += n

	slotValues := make(map[int][][]string) // templateID -> slotIdx-major values
	for i := 0; i < int(templateCount); i++ {
		id64, n, err := readUvarint(data, offset)
		if err != nil {
			return DecodedWindow{}, 0, err
		}
		offset += n
		id := int(id64)

		count64, n, err := readUvarint(data, offset)
		if err != nil {
			return DecodedWindow{}, 0, err
		}
		offset += n
		count := int(count64)

		if id < 0 || id >= len(templates) {
			return DecodedWindow{}, 0, errs.ErrTemplateIDMismatch
		}
		tpl := templates[id]

		flagBytes := (len(tpl.SlotTypes) + 7) / 8
		if offset+flagBytes > len(data) {
			return DecodedWindow{}, 0, errs.ErrTruncatedPacket
		}
		fallback := section.BitSetFromBytes(data[offset:offset+flagBytes], len(tpl.SlotTypes))
		offset += flagBytes

		perSlot := make([][]string, len(tpl.SlotTypes))
		for slotIdx, st := range tpl.SlotTypes {
			payloadLen, n, err := readUvarint(data, offset)
			if err != nil {
				return DecodedWindow{}, 0, err
			}
			offset += n
			if offset+int(payloadLen) > len(data) {
				return DecodedWindow{}, 0, errs.ErrTruncatedPacket
			}
			payload := data[offset : offset+int(payloadLen)]
			offset += int(payloadLen)

			values, err := decodeSlot(st, fallback.Bit(slotIdx), payload, count, id, slotIdx, slotDicts)
			if err != nil {
				return DecodedWindow{}, 0, err
			}
			perSlot[slotIdx] = values
		}
		slotValues[id] = perSlot
	}

	rawLen, n, err := readUvarint(data, offset)
	if err != nil {
		return DecodedWindow{}, 0, err
	}
	offset += n
	if offset+int(rawLen) > len(data) {
		return DecodedWindow{}, 0, errs.ErrTruncatedPacket
	}
	rawDecoder := channel.NewRawDecoder()
	rawValues, err := rawDecoder.All(data[offset:offset+int(rawLen)], header.RowCount-templatedCount)
	if err != nil {
		return DecodedWindow{}, 0, err
	}
	offset += int(rawLen)

	cursor := make(map[int]int) // templateID -> next row within this window
	lines := make([]string, header.RowCount)
	rawCursor := 0
	templatedCursor := 0
	for i := 0; i < header.RowCount; i++ {
		if !rowMask.Bit(i) {
			lines[i] = string(rawValues[rawCursor])
			rawCursor++
			continue
		}
		id := templateIDsByRow[templatedCursor]
		templatedCursor++
		idx := cursor[id]
		cursor[id] = idx + 1

		tpl := templates[id]
		params := make([]string, len(tpl.SlotTypes))
		for slotIdx := range tpl.SlotTypes {
			params[slotIdx] = slotValues[id][slotIdx][idx]
		}
		lines[i] = tpl.Render(params)
	}

	return DecodedWindow{Lines: lines}, offset, nil
}

func decodeSlot(st slot.Type, fallenBack bool, payload []byte, count, templateID, slotIdx int, slotDicts map[int]map[int][]string) ([]string, error) {
	if fallenBack {
		if len(payload) == 0 {
			return nil, fmt.Errorf("%w: fallback slot payload missing compression tag", errs.ErrTruncatedPacket)
		}
		codec, err := compress.GetCodec(format.CompressionType(payload[0]))
		if err != nil {
			return nil, fmt.Errorf("usc: fallback slot payload: %w", err)
		}
		raw, err := codec.Decompress(payload[1:])
		if err != nil {
			return nil, fmt.Errorf("usc: decompressing fallback slot payload: %w", err)
		}

		rawValues, err := channel.NewRawDecoder().All(raw, count)
		if err != nil {
			return nil, err
		}
		out := make([]string, len(rawValues))
		for i, b := range rawValues {
			out[i] = string(b)
		}
		return out, nil
	}

	switch st {
	case slot.TypeINT:
		ints := channel.NewIntDecoder().All(payload, count)
		out := make([]string, len(ints))
		for i, v := range ints {
			out[i] = fmt.Sprintf("%d", v)
		}
		return out, nil
	case slot.TypeIP:
		return channel.NewIPDecoder().All(payload, count), nil
	case slot.TypeHEX:
		return channel.NewHexDecoder().All(payload, count)
	case slot.TypeDICT:
		dict := slotDicts[templateID][slotIdx]
		width := 1
		if len(dict) > 256 {
			width = 2
		}
		return channel.NewDictDecoder().All(payload, count, dict, width)
	default:
		return nil, fmt.Errorf("usc: undecodable slot type %v", st)
	}
}
