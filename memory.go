package usc

import (
	"bytes"
	"context"
	"strings"

	"github.com/maddwiz/UnifiedStateCodec/errs"
	"github.com/maddwiz/UnifiedStateCodec/internal/hash"
)

// Decoded is the re-architected form of the source's confidence-scored
// tiered result: a plain sum type instead of runtime reflection/probes.
// Exactly one of Exact or Approx is set.
type Decoded struct {
	Exact      []byte  // set when the codec round-tripped exactly
	Approx     []byte  // set when only an approximate payload is available
	Confidence float64 // 0.0-1.0, meaningful only when Approx is set
}

// Verify checks a Decoded result against the original bytes it claims to
// represent. It only has an opinion about the exact tier: an Approx
// result is never "wrong", only less certain.
func Verify(original []byte, d Decoded) error {
	if d.Exact != nil && !bytes.Equal(d.Exact, original) {
		return errs.ErrRoundtripMismatch
	}
	return nil
}

// CommitLogEntry is one row of Memory's deterministic append-only log,
// replacing the source's runtime commit loop.
type CommitLogEntry struct {
	Fingerprint uint64
	Tier        string // "exact", "approximate", or "mismatch"
	Bytes       []byte
}

// Memory is a thin decorator over Encoder/Decoder: it never changes what
// Encoder.Finish produces, it only optionally verifies it. This codec's
// core properties (P1-P7) bind Encoder/Decoder directly; Memory is
// additive, non-core surface preserved from the source's tiered design.
type Memory struct {
	enc       *Encoder
	dec       *Decoder
	threshold float64
	log       []CommitLogEntry
}

// NewMemory wraps a fresh Encoder/Decoder pair. threshold is a plain
// confidence-gate cutoff (no runtime probes): a Finish call only runs its
// decode-verify pass and commits a log entry when threshold > 0.
func NewMemory(threshold float64, opts ...Option) (*Memory, error) {
	enc, err := NewEncoder(opts...)
	if err != nil {
		return nil, err
	}

	return &Memory{enc: enc, dec: NewDecoder(), threshold: threshold}, nil
}

// EncodeLine mines and buffers line through the real lossless codec.
func (m *Memory) EncodeLine(ctx context.Context, line string) error {
	return m.enc.EncodeLine(ctx, line)
}

// Finish closes the session exactly as Encoder.Finish does, then — if
// threshold > 0 — decodes its own output and verifies it against
// originalLines, appending the outcome to the commit log rather than
// returning it inline. The returned container and Diagnostics are
// identical to what a bare Encoder would have produced.
func (m *Memory) Finish(ctx context.Context, originalLines []string) ([]byte, Diagnostics, error) {
	out, diag, err := m.enc.Finish(ctx)
	if err != nil {
		return nil, diag, err
	}

	if m.threshold > 0 {
		m.commit(ctx, out, originalLines)
	}

	return out, diag, nil
}

func (m *Memory) commit(ctx context.Context, out []byte, originalLines []string) {
	original := []byte(strings.Join(originalLines, "\n"))

	d := Decoded{Confidence: 1}
	if lines, err := m.dec.Decode(ctx, out); err == nil {
		d.Exact = []byte(strings.Join(lines, "\n"))
	} else {
		d.Approx = out
		d.Confidence = 0
	}

	tier := "exact"
	switch {
	case d.Exact == nil:
		tier = "approximate"
	case Verify(original, d) != nil:
		tier = "mismatch"
	}

	m.log = append(m.log, CommitLogEntry{
		Fingerprint: hash.ID(string(original)),
		Tier:        tier,
		Bytes:       out,
	})
}

// Log returns Memory's commit log in append order.
func (m *Memory) Log() []CommitLogEntry {
	return m.log
}
