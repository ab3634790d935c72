// Package canon implements the lossless L1 canonicalizer: it replaces
// volatile tokens (timestamps, UUIDs, long hex runs, long decimal runs) with
// sentinel markers and records the stripped originals in a side vector, so
// the exact original line can always be reconstructed.
//
// Per the re-architecture guidance this replaces ("canonicalization regexes
// must be compiled once per session, not per line"), the recognition
// pattern is compiled once, at package initialization, and every
// Canonicalizer returned by New shares it for the life of the session. It
// holds no mutable state beyond the compiled pattern, so canonicalize and
// uncanonicalize are effectively pure functions of their arguments; a
// Canonicalizer is safe to share across lines processed by one goroutine but
// is not claimed safe for concurrent use by multiple goroutines, matching
// the rest of this codec's single-threaded pipeline.
//
// Recognition order is significant: at any given starting position a
// timestamp wins over a UUID, a UUID wins over a decimal run, and a decimal
// run wins over a generic hex run. This lets one combined, ahead-of-time
// compiled regexp resolve every case in a single left-to-right scan,
// relying on Go's leftmost-first alternation semantics (earlier alternatives
// win ties at the same starting offset).
//
// An all-decimal run is never KindHEX: a run of 10-13 digits matches the
// epoch-seconds TS alternative first, and a run of 6-9 digits (or a
// '-'-led run of 6 or more) is KindINT. A longer unsigned run is split:
// its first 13 digits become TS and the rest become TS, INT or literal text
// by length. A hex run that begins with six or more decimal digits is split
// the same way: the digits match INT (or TS) and the letters after them
// stay literal text.
package canon

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/maddwiz/UnifiedStateCodec/errs"
)

const (
	tsPattern   = `\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+-]\d{2}:?\d{2})?|\d{10,13}`
	uuidPattern = `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`
	intPattern  = `-?\d{6,}`
	hexPattern  = `[0-9a-fA-F]{8,}`
)

// combined holds one alternative per Kind, in priority order, as a
// numbered (not named) capture group each; the group that participated in a
// given match tells us which Kind matched.
var combined = regexp.MustCompile(
	"(" + tsPattern + ")|(" + uuidPattern + ")|(" + intPattern + ")|(" + hexPattern + ")",
)

var sentinelPattern = regexp.MustCompile(`<TS>|<UUID>|<HEX>|<INT>`)

// Canonicalizer turns lines into their canonical form plus a side vector of
// stripped originals, and back.
type Canonicalizer struct {
	re *regexp.Regexp
}

// New creates a Canonicalizer with its recognition pattern compiled once.
func New() *Canonicalizer {
	return &Canonicalizer{re: combined}
}

// Canonicalize replaces every recognized volatile token in line with its
// sentinel marker and returns the canonical line plus the side vector of
// stripped originals, in left-to-right order.
//
// A line that is not valid UTF-8 is passed through unchanged, with an empty
// side vector: treating it as opaque raw bytes avoids the regex engine
// operating on a string whose rune boundaries are undefined.
func (c *Canonicalizer) Canonicalize(line string) Result {
	if !utf8.ValidString(line) {
		return Result{Canonical: line}
	}

	matches := c.re.FindAllStringSubmatchIndex(line, -1)
	if len(matches) == 0 {
		return Result{Canonical: line}
	}

	var b strings.Builder
	side := make([]Entry, 0, len(matches))
	last := 0

	for _, m := range matches {
		start, end := m[0], m[1]
		kind := kindFromSubmatch(m)

		b.WriteString(line[last:start])
		b.WriteString(kind.String())
		side = append(side, Entry{Kind: kind, Original: []byte(line[start:end])})
		last = end
	}
	b.WriteString(line[last:])

	return Result{Canonical: b.String(), Side: side}
}

// kindFromSubmatch maps a FindAllStringSubmatchIndex match to the Kind of
// its participating capture group. Group 0 is the whole match; groups 1-4
// correspond to TS, UUID, INT, HEX in that order.
func kindFromSubmatch(m []int) Kind {
	switch {
	case m[2] >= 0:
		return KindTS
	case m[4] >= 0:
		return KindUUID
	case m[6] >= 0:
		return KindINT
	default:
		return KindHEX
	}
}

// Uncanonicalize replaces each sentinel marker in canonical, in order, with
// the corresponding side-vector entry's original bytes, reconstructing the
// original line exactly.
//
// It returns errs.ErrMalformedInput if canonical does not contain exactly
// len(side) sentinel markers.
func (c *Canonicalizer) Uncanonicalize(canonical string, side []Entry) (string, error) {
	if len(side) == 0 {
		if sentinelPattern.MatchString(canonical) {
			return "", errs.ErrMalformedInput
		}

		return canonical, nil
	}

	locs := sentinelPattern.FindAllStringIndex(canonical, -1)
	if len(locs) != len(side) {
		return "", errs.ErrMalformedInput
	}

	var b strings.Builder
	last := 0
	for i, loc := range locs {
		b.WriteString(canonical[last:loc[0]])
		b.Write(side[i].Original)
		last = loc[1]
	}
	b.WriteString(canonical[last:])

	return b.String(), nil
}
