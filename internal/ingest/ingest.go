// Package ingest holds the fully materialized batch of contact mentions and
// the lookup indexes built over it. Both merge phases need global visibility
// of every record, so the collection is populated completely before the core
// runs, and the indexes are explicit per-run structures rather than ambient
// state.
package ingest

import (
	"github.com/manasnilorout-blv/decode-contacts/internal/model"
)

// Collection is the transient tabular store of all RawContacts in a batch.
type Collection struct {
	contacts []model.RawContact

	byEmail map[string][]int
	byPhone map[string][]int
	byName  map[string][]int
}

// NewCollection builds a collection and its indexes from adapter output.
// Input order is preserved; it determines merge-absorption direction and
// rank tiebreaks downstream.
func NewCollection(contacts []model.RawContact) *Collection {
	c := &Collection{
		contacts: contacts,
		byEmail:  make(map[string][]int),
		byPhone:  make(map[string][]int),
		byName:   make(map[string][]int),
	}
	for i, rc := range contacts {
		if rc.Email != "" {
			c.byEmail[rc.Email] = append(c.byEmail[rc.Email], i)
		}
		if rc.Phone != "" {
			c.byPhone[rc.Phone] = append(c.byPhone[rc.Phone], i)
		}
		if rc.NormalizedName != "" {
			c.byName[rc.NormalizedName] = append(c.byName[rc.NormalizedName], i)
		}
	}
	return c
}

// Len returns the number of mentions in the batch.
func (c *Collection) Len() int { return len(c.contacts) }

// All returns the mentions in input order. Callers must not mutate.
func (c *Collection) All() []model.RawContact { return c.contacts }

// ByEmail returns the indices of mentions carrying the given canonical email.
func (c *Collection) ByEmail(email string) []int { return c.byEmail[email] }

// ByPhone returns the indices of mentions carrying the given canonical phone.
func (c *Collection) ByPhone(phone string) []int { return c.byPhone[phone] }

// ByName returns the indices of mentions whose normalized name matches.
// The collection's retrieval contract covers all three canonical keys;
// name lookup replaces the upstream tool's global name-to-id map. Neither
// merge phase retrieves by whole name (exact grouping keys on email and
// phone, the fuzzy pass indexes name tokens), so this one serves ad hoc
// name-keyed inspection rather than the core passes.
func (c *Collection) ByName(name string) []int { return c.byName[name] }

// Emails returns the distinct canonical emails present in the batch.
func (c *Collection) Emails() int { return len(c.byEmail) }

// Phones returns the distinct canonical phones present in the batch.
func (c *Collection) Phones() int { return len(c.byPhone) }
