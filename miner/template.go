package miner

import "github.com/maddwiz/UnifiedStateCodec/slot"

// Piece is one element of a Template's reconstruction sequence: either a
// literal text run (verbatim, including whitespace) or a wildcard slot
// whose text comes from a Row's Params at encode/decode time.
type Piece struct {
	Literal string
	IsSlot  bool
}

// Template is a mined line shape: an ordered sequence of literal/slot
// Pieces plus the slot-type vector classified for its parameter positions.
type Template struct {
	ID        int
	Pieces    []Piece
	SlotTypes []slot.Type
}

// Arity returns the number of wildcard slots in the template.
func (t *Template) Arity() int {
	return len(t.SlotTypes)
}

// Render reconstructs the canonical line for this template given a set of
// parameter values, one per slot in order.
func (t *Template) Render(params []string) string {
	var b []byte
	pi := 0
	for _, p := range t.Pieces {
		if !p.IsSlot {
			b = append(b, p.Literal...)
			continue
		}
		if pi < len(params) {
			b = append(b, params[pi]...)
		}
		pi++
	}

	return string(b)
}
