// Package codec wires the whole pipeline together: it drives a
// miner.Miner to turn lines into Rows, hands the frozen Bank and Rows to
// a packet.Session to assemble DICT/DATA packets, passes the concatenated
// packet bytes through the framer appropriate to the configured mode, and
// wraps the result in a container. Decoder reverses every step.
package codec

import (
	"context"

	"github.com/maddwiz/UnifiedStateCodec/container"
	"github.com/maddwiz/UnifiedStateCodec/framer"
	"github.com/maddwiz/UnifiedStateCodec/miner"
	"github.com/maddwiz/UnifiedStateCodec/mode"
	"github.com/maddwiz/UnifiedStateCodec/packet"
)

// Diagnostics reports non-fatal signals about a completed encode: slot
// fallback is "a warning, not a hard error" per the error-handling design,
// so it surfaces here rather than as an error, the same pattern the
// teacher uses for NumericEncoder's collision flag.
type Diagnostics struct {
	RowCount      int
	TemplateCount int
	WindowCount   int
	SlotFallbacks int // rows with at least one contradicted slot
}

// Encoder owns one session's TemplateBank, mined rows, and config
// exclusively — no package-level mutable state is shared across Encoder
// instances, and nothing here is safe to share across goroutines.
type Encoder struct {
	cfg   Config
	miner *miner.Miner
	rows  []miner.Row
}

// NewEncoder builds an Encoder from defaultConfig, USC_WINDOW/
// USC_MAX_TEMPLATES env overrides, and the given Options, in that order
// of increasing precedence.
func NewEncoder(opts ...Option) (*Encoder, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}

	return &Encoder{
		cfg:   cfg,
		miner: miner.NewWithLimit(cfg.MaxTemplates),
	}, nil
}

// EncodeLine mines one line and buffers the resulting Row. If ctx is
// already cancelled it returns ctx.Err() without mining the line; mining a
// single line is never interrupted mid-way, and packet assembly checks for
// cancellation only between windows, in Finish.
func (e *Encoder) EncodeLine(ctx context.Context, line string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e.rows = append(e.rows, e.miner.Mine(line))

	return nil
}

// Finish assembles every buffered row into the final container bytes:
// one DICT packet, one DATA packet per window, an optional trailing
// event-id index (hot-lite-full), and the outer frame appropriate to the
// configured mode. Context cancellation is checked between windows, never
// mid-window.
func (e *Encoder) Finish(ctx context.Context) ([]byte, Diagnostics, error) {
	sess := packet.NewSession(e.miner.Bank(), e.rows, e.cfg.WindowSize)

	dictPkt, err := sess.DictPacket()
	if err != nil {
		return nil, Diagnostics{}, err
	}

	body := make([]byte, 0, len(dictPkt)*sess.WindowCount())
	body = append(body, dictPkt...)

	for i := 0; i < sess.WindowCount(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, Diagnostics{}, err
		}

		dataPkt, err := sess.BuildWindow(i)
		if err != nil {
			return nil, Diagnostics{}, err
		}
		body = append(body, dataPkt...)
	}

	fr := framerForConfig(e.cfg.Mode)
	framed, _, err := fr.Frame(body)
	if err != nil {
		return nil, Diagnostics{}, err
	}

	if e.cfg.Mode.BuildIndex {
		framed = append(framed, mode.WriteIndex(sess.EventIndex())...)
	}

	out := container.Write(framed, 1+sess.WindowCount(), e.cfg.Mode.Tag)

	diag := Diagnostics{
		RowCount:      len(e.rows),
		TemplateCount: e.miner.Bank().Len(),
		WindowCount:   sess.WindowCount(),
		SlotFallbacks: countFallbacks(e.rows),
	}

	return out, diag, nil
}

func countFallbacks(rows []miner.Row) int {
	n := 0
	for _, row := range rows {
		for _, c := range row.Contradicts {
			if c {
				n++
				break
			}
		}
	}

	return n
}

func framerForConfig(cfg mode.Config) *framer.Framer {
	if cfg.Cold {
		return framer.NewCold()
	}

	return framer.New()
}
