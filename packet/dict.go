// Package packet assembles and parses the DICT and DATA packets: L5 in
// the pipeline, composing section (fixed headers), channel (per-slot
// codecs), and miner (TemplateBank, Template, Row) into the wire bytes.
// Grounded on blob.NumericEncoder.Finish()'s header-then-sections
// assembly (clone-header immutability, precompute section offsets,
// sequential append into one buffer) and blob.NumericDecoder's
// read-header-then-walk-sections parse flow.
package packet

import (
	"fmt"

	"github.com/maddwiz/UnifiedStateCodec/channel"
	"github.com/maddwiz/UnifiedStateCodec/errs"
	"github.com/maddwiz/UnifiedStateCodec/internal/varint"
	"github.com/maddwiz/UnifiedStateCodec/miner"
	"github.com/maddwiz/UnifiedStateCodec/section"
	"github.com/maddwiz/UnifiedStateCodec/slot"
)

// SlotDictionaries indexes the session-wide DICT channel encoders that
// back DICT-typed slots, keyed by template id then slot index. These
// persist for the whole encode session (built by a full pass over every
// row before any packet is assembled) since the DICT packet's dictionary
// tables are emitted once and referenced by every later DATA packet's
// index streams.
type SlotDictionaries map[int]map[int]*channel.DictEncoder

// BuildDictPacket assembles the one-time DICT packet from a frozen
// TemplateBank and its DICT-typed slots' dictionaries.
func BuildDictPacket(bank *miner.Bank, dicts SlotDictionaries) ([]byte, error) {
	buf := section.NewDictHeader(bank.Len()).Bytes()

	// Template table: token_count + tokens + placeholder flag vector, per template.
	for id := 0; id < bank.Len(); id++ {
		tpl, _ := bank.Get(id)

		buf = varint.AppendUvarint(buf, uint64(len(tpl.Pieces)))

		flags := section.NewBitSet()
		var tokens []byte
		for _, p := range tpl.Pieces {
			flags.Append(p.IsSlot)
			tokens = varint.AppendUvarint(tokens, uint64(len(p.Literal)))
			tokens = append(tokens, p.Literal...)
		}
		buf = append(buf, flags.Bytes()...)
		buf = append(buf, tokens...)
	}

	// Slot-type table: arity bytes per template, in template-id order.
	for id := 0; id < bank.Len(); id++ {
		tpl, _ := bank.Get(id)
		for _, st := range tpl.SlotTypes {
			buf = append(buf, byte(st))
		}
	}

	// Dict tables: per (template, DICT slot), in (template asc, slot asc) order.
	for id := 0; id < bank.Len(); id++ {
		tpl, _ := bank.Get(id)
		for slotIdx, st := range tpl.SlotTypes {
			if st != slot.TypeDICT {
				continue
			}
			enc := dicts[id][slotIdx]
			values := enc.Dictionary()

			buf = varint.AppendUvarint(buf, uint64(len(values)))
			for _, v := range values {
				buf = varint.AppendUvarint(buf, uint64(len(v)))
				buf = append(buf, v...)
			}
		}
	}

	return buf, nil
}

// DecodedDict is a parsed DICT packet: the reconstructed templates (in
// bank id order) and the dictionary tables for their DICT-typed slots.
type DecodedDict struct {
	Templates []*miner.Template
	SlotDicts map[int]map[int][]string
}

// ParseDictPacket parses a DICT packet produced by BuildDictPacket and
// returns the number of bytes consumed, so a caller walking a concatenated
// stream of packets (the file container) can find the start of the next one.
func ParseDictPacket(data []byte) (DecodedDict, int, error) {
	header, offset, err := section.ParseDictHeader(data)
	if err != nil {
		return DecodedDict{}, 0, err
	}

	templates := make([]*miner.Template, header.TemplateCount)
	for id := 0; id < header.TemplateCount; id++ {
		tokenCount, n, err := readUvarint(data, offset)
		if err != nil {
			return DecodedDict{}, 0, err
		}
		offset += n

		flagBytes := (int(tokenCount) + 7) / 8
		if offset+flagBytes > len(data) {
			return DecodedDict{}, 0, errs.ErrTruncatedPacket
		}
		flags := section.BitSetFromBytes(data[offset:offset+flagBytes], int(tokenCount))
		offset += flagBytes

		pieces := make([]miner.Piece, tokenCount)
		arity := 0
		for i := 0; i < int(tokenCount); i++ {
			textLen, n, err := readUvarint(data, offset)
			if err != nil {
				return DecodedDict{}, 0, err
			}
			offset += n

			if offset+int(textLen) > len(data) {
				return DecodedDict{}, 0, errs.ErrTruncatedPacket
			}
			isSlot := flags.Bit(i)
			pieces[i] = miner.Piece{IsSlot: isSlot, Literal: string(data[offset : offset+int(textLen)])}
			offset += int(textLen)
			if isSlot {
				arity++
			}
		}

		templates[id] = &miner.Template{ID: id, Pieces: pieces, SlotTypes: make([]slot.Type, arity)}
	}

	for id := 0; id < header.TemplateCount; id++ {
		tpl := templates[id]
		for i := range tpl.SlotTypes {
			if offset >= len(data) {
				return DecodedDict{}, 0, errs.ErrTruncatedPacket
			}
			tpl.SlotTypes[i] = slot.Type(data[offset])
			offset++
		}
	}

	slotDicts := make(map[int]map[int][]string)
	for id := 0; id < header.TemplateCount; id++ {
		tpl := templates[id]
		for slotIdx, st := range tpl.SlotTypes {
			if st != slot.TypeDICT {
				continue
			}

			count, n, err := readUvarint(data, offset)
			if err != nil {
				return DecodedDict{}, 0, err
			}
			offset += n

			values := make([]string, count)
			for i := 0; i < int(count); i++ {
				l, n, err := readUvarint(data, offset)
				if err != nil {
					return DecodedDict{}, 0, err
				}
				offset += n
				if offset+int(l) > len(data) {
					return DecodedDict{}, 0, errs.ErrTruncatedPacket
				}
				values[i] = string(data[offset : offset+int(l)])
				offset += int(l)
			}

			if slotDicts[id] == nil {
				slotDicts[id] = make(map[int][]string)
			}
			slotDicts[id][slotIdx] = values
		}
	}

	return DecodedDict{Templates: templates, SlotDicts: slotDicts}, offset, nil
}

func readUvarint(data []byte, offset int) (uint64, int, error) {
	if offset >= len(data) {
		return 0, 0, errs.ErrTruncatedPacket
	}
	v, n := varint.Uvarint(data[offset:])
	if n <= 0 {
		return 0, 0, fmt.Errorf("%w: invalid varint at offset %d", errs.ErrTruncatedPacket, offset)
	}
	return v, n, nil
}
