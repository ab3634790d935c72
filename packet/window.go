package packet

import (
	"github.com/maddwiz/UnifiedStateCodec/channel"
	"github.com/maddwiz/UnifiedStateCodec/miner"
	"github.com/maddwiz/UnifiedStateCodec/slot"
)

// DefaultWindowSize is the number of rows a DATA packet covers when the
// caller does not request a different size.
const DefaultWindowSize = 25

// Session drives the full-buffer-then-window-slice assembly this codec
// commits to: every line is mined up front into a frozen TemplateBank and
// Row sequence (the caller's job, via miner.Miner), then a Session is
// built from that frozen state so its one DICT packet's dictionaries are
// already final before any DATA packet is emitted — the only way a DICT
// packet preceding every DATA packet that references its templates and a
// growing, streaming dictionary can both hold at once.
type Session struct {
	bank    *miner.Bank
	windows [][]miner.Row
	dicts   SlotDictionaries
	offsets DictOffsets
	mtf     *channel.MTFEncoder
}

// NewSession partitions rows into fixed-size windows and pre-populates
// every DICT-typed slot's dictionary by replaying the same per-window
// contradiction/fallback decision BuildDataPacket will make later — this
// keeps each DictEncoder's write order exactly aligned with the window
// order DataPackets will later slice with EncodeRange.
func NewSession(bank *miner.Bank, rows []miner.Row, windowSize int) *Session {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}

	var windows [][]miner.Row
	for start := 0; start < len(rows); start += windowSize {
		end := start + windowSize
		if end > len(rows) {
			end = len(rows)
		}
		windows = append(windows, rows[start:end])
	}

	dicts := make(SlotDictionaries)
	for id := 0; id < bank.Len(); id++ {
		tpl, _ := bank.Get(id)
		for slotIdx, st := range tpl.SlotTypes {
			if st != slot.TypeDICT {
				continue
			}
			if dicts[id] == nil {
				dicts[id] = make(map[int]*channel.DictEncoder)
			}
			dicts[id][slotIdx] = channel.NewDictEncoder()
		}
	}

	for _, window := range windows {
		for id := 0; id < bank.Len(); id++ {
			tpl, _ := bank.Get(id)
			rowIdxs := rowsForTemplate(window, id)
			if len(rowIdxs) == 0 {
				continue
			}

			for slotIdx, st := range tpl.SlotTypes {
				if st != slot.TypeDICT {
					continue
				}

				contradicted := false
				for _, ri := range rowIdxs {
					if window[ri].Contradicts[slotIdx] {
						contradicted = true
						break
					}
				}
				if contradicted {
					continue
				}

				// Cardinality overflow (channel.ErrDictOverflow) beyond 65,536
				// distinct values for one slot is not handled here; this
				// codec targets log-shaped enum/hostname cardinalities, which
				// stay well under that bound in practice.
				enc := dicts[id][slotIdx]
				for _, ri := range rowIdxs {
					_ = enc.Write(window[ri].Params[slotIdx])
				}
			}
		}
	}

	return &Session{
		bank:    bank,
		windows: windows,
		dicts:   dicts,
		offsets: make(DictOffsets),
		mtf:     channel.NewMTFEncoder(),
	}
}

// WindowCount returns the number of DATA packets DataPackets will produce.
func (s *Session) WindowCount() int { return len(s.windows) }

// DictPacket assembles the session's one DICT packet.
func (s *Session) DictPacket() ([]byte, error) {
	return BuildDictPacket(s.bank, s.dicts)
}

// DataPackets assembles every window's DATA packet, in window order. The
// MTF encoder's recency list and each DICT channel's read offset carry
// across calls, so windows must be consumed in this order.
func (s *Session) DataPackets() ([][]byte, error) {
	packets := make([][]byte, 0, len(s.windows))
	for i := range s.windows {
		packet, err := s.BuildWindow(i)
		if err != nil {
			return nil, err
		}
		packets = append(packets, packet)
	}
	return packets, nil
}

// BuildWindow assembles the DATA packet for window i. Windows must be
// built in ascending order (0, 1, 2, ...) since the MTF encoder and DICT
// channel offsets carry state across calls — this is what lets a caller
// (codec.Encoder.Finish) check for cancellation between windows without
// losing that state, instead of calling DataPackets all at once.
func (s *Session) BuildWindow(i int) ([]byte, error) {
	return BuildDataPacket(s.windows[i], s.bank, s.dicts, s.offsets, s.mtf)
}

// IndexEntry is one row of the hot-lite-full event-id index: the first
// DATA packet (0-based, counting only DATA packets, not the DICT packet
// ahead of them) that contains a row of TemplateID, and the total row
// count for that template across the whole session.
type IndexEntry struct {
	TemplateID       uint32
	FirstPacketIndex uint32
	RowCount         uint32
}

// EventIndex builds the hot-lite-full event-id index: one entry per
// template id that appears in at least one row, ordered by TemplateID
// ascending, fixed-size and sorted so a caller can binary-search it.
func (s *Session) EventIndex() []IndexEntry {
	firstPacket := make(map[int]int)
	rowCount := make(map[int]int)

	for windowIdx, window := range s.windows {
		for _, row := range window {
			if !row.Templated {
				continue
			}
			if _, ok := firstPacket[row.TemplateID]; !ok {
				firstPacket[row.TemplateID] = windowIdx
			}
			rowCount[row.TemplateID]++
		}
	}

	entries := make([]IndexEntry, 0, len(rowCount))
	for id := 0; id < s.bank.Len(); id++ {
		if rowCount[id] == 0 {
			continue
		}
		entries = append(entries, IndexEntry{
			TemplateID:       uint32(id),
			FirstPacketIndex: uint32(firstPacket[id]),
			RowCount:         uint32(rowCount[id]),
		})
	}

	return entries
}
