// Package miner implements the L2 template-mining stage: it turns each
// canonicalized line into either a Templated Row (a TemplateBank id plus
// the positional parameter values that fill its wildcard slots) or a Raw
// Row (opaque bytes), and tracks each slot position's syntactic type
// across the rows that share a template.
//
// Placeholder-piece rule: a whitespace-delimited word becomes one or more
// slot pieces if it contains a canonicalizer sentinel substring
// (<TS>/<UUID>/<HEX>/<INT> — the word is split at the sentinel's
// boundaries, so "blk_<INT>" becomes the literal piece "blk_" followed by
// a slot piece, and the slot's parameter is the side-vector original, not
// the sentinel text itself), or if the whole word is a bare decimal
// integer not already covered by a sentinel ("7", "-42"). Anything else —
// identifiers, dotted names, single words, punctuation runs — stays a
// literal piece. This reading is what lets a numeric log-line suffix not
// covered by any canonicalizer sentinel (e.g. a raw block id) still land
// in its own slot, while two differently-shaped lines sharing a run still
// mine into two distinct templates.
package miner

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/maddwiz/UnifiedStateCodec/canon"
	"github.com/maddwiz/UnifiedStateCodec/slot"
)

// sentinelPattern recognizes the four canonicalizer sentinels inside a
// word. Duplicated from canon's own (unexported) pattern rather than
// imported: four literal alternatives is a small enough duplication that
// it isn't worth exporting canon internals just to share it.
var sentinelPattern = regexp.MustCompile(`<TS>|<UUID>|<HEX>|<INT>`)

// wordOrGap splits a line into alternating whitespace and non-whitespace
// runs, preserving every byte of the original (gaps included) so a
// Template's Pieces can reconstruct the line exactly.
var wordOrGap = regexp.MustCompile(`\s+|\S+`)

// Miner mines lines against a single TemplateBank, tracking each
// template's per-slot type across all rows seen so far.
type Miner struct {
	canon    *canon.Canonicalizer
	bank     *Bank
	trackers [][]*slot.Tracker // trackers[templateID][slotIndex]
}

// New creates a Miner with a fresh Canonicalizer and empty TemplateBank.
func New() *Miner {
	return &Miner{canon: canon.New(), bank: NewBank()}
}

// NewWithLimit creates a Miner whose TemplateBank caps out at limit
// templates instead of the MaxTemplates default, for callers honoring the
// USC_MAX_TEMPLATES override.
func NewWithLimit(limit int) *Miner {
	return &Miner{canon: canon.New(), bank: NewBankWithLimit(limit)}
}

// Bank returns the Miner's TemplateBank.
func (m *Miner) Bank() *Bank {
	return m.bank
}

// Mine classifies one input line into a Row.
func (m *Miner) Mine(line string) Row {
	if !utf8.ValidString(line) || strings.Contains(line, slotMarker) {
		return Row{Raw: []byte(line)}
	}
	if line == "" {
		return Row{Raw: []byte("\n")}
	}

	res := m.canon.Canonicalize(line)
	pieces, params, words := buildPieces(res.Canonical, res.Side)
	if words < 2 {
		return Row{Raw: []byte(line)}
	}

	fp := fingerprint(pieces)
	id, ok := m.bank.Lookup(fp)
	if !ok {
		if m.bank.Full() {
			return Row{Raw: []byte(line)}
		}
		tpl := &Template{Pieces: pieces, SlotTypes: make([]slot.Type, len(params))}
		id = m.bank.Insert(tpl, fp)
		m.trackers = append(m.trackers, newTrackers(len(params)))
	}

	tpl, _ := m.bank.Get(id)
	trackers := m.trackers[id]
	contradicts := make([]bool, len(params))
	for i, p := range params {
		contradicts[i] = trackers[i].Observe(p)
		tpl.SlotTypes[i] = trackers[i].Type()
	}

	return Row{Templated: true, TemplateID: id, Params: params, Contradicts: contradicts}
}

func newTrackers(n int) []*slot.Tracker {
	trackers := make([]*slot.Tracker, n)
	for i := range trackers {
		trackers[i] = slot.NewTracker()
	}
	return trackers
}

// buildPieces tokenizes canonical (already sentinel-substituted) into
// literal/slot Pieces per the placeholder-piece rule, returning the
// ordered slot parameter values and the count of non-whitespace words
// seen (used by the caller's <2-token Raw fallback).
func buildPieces(canonical string, side []canon.Entry) (pieces []Piece, params []string, words int) {
	sideIdx := 0
	for _, tok := range wordOrGap.FindAllString(canonical, -1) {
		if isGap(tok) {
			pieces = append(pieces, Piece{Literal: tok})
			continue
		}
		words++

		locs := sentinelPattern.FindAllStringIndex(tok, -1)
		switch {
		case len(locs) > 0:
			last := 0
			for _, loc := range locs {
				if loc[0] > last {
					pieces = append(pieces, Piece{Literal: tok[last:loc[0]]})
				}
				pieces = append(pieces, Piece{IsSlot: true})
				if sideIdx < len(side) {
					params = append(params, string(side[sideIdx].Original))
					sideIdx++
				} else {
					params = append(params, tok[loc[0]:loc[1]])
				}
				last = loc[1]
			}
			if last < len(tok) {
				pieces = append(pieces, Piece{Literal: tok[last:]})
			}
		case isBareInt(tok):
			pieces = append(pieces, Piece{IsSlot: true})
			params = append(params, tok)
		default:
			pieces = append(pieces, Piece{Literal: tok})
		}
	}

	return pieces, params, words
}

func isGap(tok string) bool {
	for _, r := range tok {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' && r != '\v' && r != '\f' {
			return false
		}
	}
	return len(tok) > 0
}

func isBareInt(tok string) bool {
	_, err := strconv.ParseInt(tok, 10, 64)
	return err == nil
}

// slotMarker is written between literal runs in a fingerprint to mark a
// slot position. \x00 is valid UTF-8, so utf8.ValidString alone does not
// exclude it; Mine stores any line containing it as a Raw row before
// fingerprinting, so the marker cannot be confused with literal content.
const slotMarker = "\x00"

// fingerprint builds the shape-fingerprint string used as the
// TemplateBank lookup key: literal runs verbatim, slot positions
// collapsed to a single marker byte, so two lines with the same literal
// skeleton and differing parameter values hash identically regardless of
// parameter content or length.
func fingerprint(pieces []Piece) string {
	var b []byte
	for _, p := range pieces {
		if p.IsSlot {
			b = append(b, slotMarker...)
			continue
		}
		b = append(b, p.Literal...)
	}
	return string(b)
}
