package miner

import (
	"github.com/maddwiz/UnifiedStateCodec/internal/hash"
)

// MaxTemplates is the default TemplateBank size limit (spec's MAX_TEMPLATES);
// once reached, the miner stops inserting new templates and falls new shapes
// back to Raw rows instead.
const MaxTemplates = 65535

// Bank is the append-only TemplateBank: ids are the slice index a template
// was first seen at, in input order, and never change.
//
// Lookup is keyed by a 64-bit hash of the shape fingerprint (grounded on
// internal/hash.ID), with the fingerprint string itself also stored so a
// hash collision — astronomically unlikely but not impossible — is caught
// by comparing fingerprints rather than trusted blindly, the same
// defensive posture as the collision-bucket pattern used for hashed metric
// ids elsewhere in this codec's ancestry.
type Bank struct {
	templates    []*Template
	fingerprints []string
	byHash       map[uint64][]int
	limit        int
}

// NewBank creates an empty TemplateBank capped at MaxTemplates.
func NewBank() *Bank {
	return &Bank{byHash: make(map[uint64][]int), limit: MaxTemplates}
}

// NewBankWithLimit creates an empty TemplateBank capped at limit, for
// callers honoring the USC_MAX_TEMPLATES override.
func NewBankWithLimit(limit int) *Bank {
	if limit <= 0 {
		limit = MaxTemplates
	}
	return &Bank{byHash: make(map[uint64][]int), limit: limit}
}

// Lookup returns the template id for fingerprint, if one has been inserted.
func (b *Bank) Lookup(fingerprint string) (int, bool) {
	h := hash.ID(fingerprint)
	for _, id := range b.byHash[h] {
		if b.fingerprints[id] == fingerprint {
			return id, true
		}
	}

	return 0, false
}

// Insert appends tpl as a new template, assigns it the next id (in input
// order), and indexes it by fingerprint. The caller must have already
// confirmed fingerprint is not present via Lookup.
func (b *Bank) Insert(tpl *Template, fingerprint string) int {
	id := len(b.templates)
	tpl.ID = id
	b.templates = append(b.templates, tpl)
	b.fingerprints = append(b.fingerprints, fingerprint)

	h := hash.ID(fingerprint)
	b.byHash[h] = append(b.byHash[h], id)

	return id
}

// Get returns the template with the given id.
func (b *Bank) Get(id int) (*Template, bool) {
	if id < 0 || id >= len(b.templates) {
		return nil, false
	}

	return b.templates[id], true
}

// Len returns the number of templates currently in the bank.
func (b *Bank) Len() int {
	return len(b.templates)
}

// Full reports whether the bank has reached its configured limit.
func (b *Bank) Full() bool {
	return len(b.templates) >= b.limit
}
