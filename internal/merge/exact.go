// Package merge implements the deduplication core: exact-key grouping,
// name-similarity merging over a posting-list index, and output ranking.
package merge

import (
	"go.uber.org/zap"

	"github.com/manasnilorout-blv/decode-contacts/internal/ingest"
	"github.com/manasnilorout-blv/decode-contacts/internal/model"
)

// ExactStats counts raw mentions per exact-key partition. The four
// partitions are disjoint and must sum to the batch size.
type ExactStats struct {
	ByEmail          int `json:"by_email"`
	ByPhone          int `json:"by_phone"`
	NetworkSingles   int `json:"network_singles"`
	PhoneBookSingles int `json:"phonebook_singles"`
	Dropped          int `json:"dropped"`
}

// Total returns the number of raw mentions accounted for.
func (s ExactStats) Total() int {
	return s.ByEmail + s.ByPhone + s.NetworkSingles + s.PhoneBookSingles + s.Dropped
}

// AggregateExact groups the batch into candidates by hard key: email first,
// then phone among emailless mentions, then one singleton per keyless
// network or phone-book mention. Within a group each name slot takes the
// first-encountered mention of its category (deterministic winner policy;
// the reference left this arbitrary). Group email/phone come from the key,
// with phone backfilled from the first member that carries one.
func AggregateExact(col *ingest.Collection) ([]*model.Candidate, ExactStats) {
	log := zap.L().With(zap.String("component", "exact_aggregator"))

	var (
		stats      ExactStats
		candidates []*model.Candidate
	)
	contacts := col.All()

	// Partition 1: by email, group creation in first-occurrence order.
	seenEmail := make(map[string]bool, col.Emails())
	for _, rc := range contacts {
		if rc.Email == "" || seenEmail[rc.Email] {
			continue
		}
		seenEmail[rc.Email] = true

		cand := model.NewCandidate()
		cand.Email = rc.Email
		for _, j := range col.ByEmail(rc.Email) {
			member := contacts[j]
			cand.SetName(member.Source.NameCategory(), member.OriginalName)
			if cand.Phone == "" && member.Phone != "" {
				cand.Phone = member.Phone
			}
			stats.ByEmail++
		}
		candidates = append(candidates, cand)
	}

	// Partition 2: by phone among mentions with no email.
	seenPhone := make(map[string]bool, col.Phones())
	for _, rc := range contacts {
		if rc.Email != "" || rc.Phone == "" || seenPhone[rc.Phone] {
			continue
		}
		seenPhone[rc.Phone] = true

		cand := model.NewCandidate()
		cand.Phone = rc.Phone
		for _, j := range col.ByPhone(rc.Phone) {
			member := contacts[j]
			if member.Email != "" {
				continue // already consumed by partition 1
			}
			cand.SetName(member.Source.NameCategory(), member.OriginalName)
			stats.ByPhone++
		}
		candidates = append(candidates, cand)
	}

	// Partitions 3 and 4: keyless mentions become their own singletons.
	for _, rc := range contacts {
		if rc.Email != "" || rc.Phone != "" {
			continue
		}
		switch rc.Source {
		case model.SourceNetworkExport:
			cand := model.NewCandidate()
			cand.SetName(model.CategoryLinkedIn, rc.OriginalName)
			candidates = append(candidates, cand)
			stats.NetworkSingles++
		case model.SourcePhoneBook:
			cand := model.NewCandidate()
			cand.SetName(model.CategoryPhoneBook, rc.OriginalName)
			candidates = append(candidates, cand)
			stats.PhoneBookSingles++
		default:
			// Mail mentions always carry an email; anything else keyless and
			// nameless was rejected at the adapter. Count it so the
			// partition-sum invariant stays checkable.
			stats.Dropped++
		}
	}

	if stats.Total() != col.Len() {
		log.Warn("exact-key partitions do not cover the batch",
			zap.Int("batch", col.Len()),
			zap.Int("partitioned", stats.Total()),
		)
	}
	log.Debug("exact aggregation complete",
		zap.Int("raw", col.Len()),
		zap.Int("candidates", len(candidates)),
	)
	return candidates, stats
}
