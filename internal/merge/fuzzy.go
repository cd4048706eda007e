package merge

import (
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/manasnilorout-blv/decode-contacts/internal/model"
	"github.com/manasnilorout-blv/decode-contacts/internal/normalize"
)

// MergeStats reports the fuzzy pass outcome. Emitted+Absorbed must equal
// Input; anything else means a candidate was silently dropped or doubled.
type MergeStats struct {
	Input    int `json:"input"`
	Emitted  int `json:"emitted"`
	Absorbed int `json:"absorbed"`
}

// Merger folds candidates with similar names together when they lack
// conflicting hard keys. A posting-list index over name tokens keeps the
// pass near-linear instead of quadratic over the candidate set.
type Merger struct {
	matcher Matcher
}

// NewMerger returns a merger using the given matcher, or the default
// word-overlap matcher when nil.
func NewMerger(matcher Matcher) *Merger {
	if matcher == nil {
		matcher = NewWordOverlapMatcher()
	}
	return &Merger{matcher: matcher}
}

// Merge runs the similarity pass over candidates in input order and returns
// the surviving records, still in input order. Candidate index order is
// load-bearing: the earliest unprocessed candidate in a similar pair is
// always the absorber, so input order decides which record's fields win.
// The input slice's records are mutated in place by folding.
func (m *Merger) Merge(candidates []*model.Candidate) ([]*model.Candidate, MergeStats, error) {
	log := zap.L().With(zap.String("component", "fuzzy_merger"))
	stats := MergeStats{Input: len(candidates)}

	// Comparison names are fixed at index-build time; folding must not
	// retarget a candidate's tokens mid-pass.
	names := make([]string, len(candidates))
	postings := make(map[string][]int)
	for i, c := range candidates {
		names[i] = normalize.Name(c.ComparisonName())
		for _, tok := range indexTokens(names[i]) {
			postings[tok] = append(postings[tok], i)
		}
	}

	absorbed := make([]bool, len(candidates))
	for i, c := range candidates {
		if absorbed[i] || names[i] == "" {
			continue
		}

		for _, j := range plausible(postings, names[i], i) {
			if absorbed[j] {
				continue
			}
			other := candidates[j]

			// Conflicting hard identifiers always veto a name match.
			if c.Email != "" && other.Email != "" && c.Email != other.Email {
				continue
			}
			if c.Phone != "" && other.Phone != "" && c.Phone != other.Phone {
				continue
			}

			if !m.matcher.Similar(names[i], names[j]) {
				continue
			}

			fold(c, other)
			absorbed[j] = true
			stats.Absorbed++
		}
	}

	out := make([]*model.Candidate, 0, len(candidates)-stats.Absorbed)
	for i, c := range candidates {
		if !absorbed[i] {
			out = append(out, c)
		}
	}
	stats.Emitted = len(out)

	if stats.Emitted+stats.Absorbed != stats.Input {
		return nil, stats, eris.Errorf(
			"merge: conservation violated: emitted %d + absorbed %d != input %d",
			stats.Emitted, stats.Absorbed, stats.Input,
		)
	}

	log.Debug("fuzzy merge complete",
		zap.Int("input", stats.Input),
		zap.Int("emitted", stats.Emitted),
		zap.Int("absorbed", stats.Absorbed),
	)
	return out, stats, nil
}

// plausible unions the posting lists for name's tokens and returns the
// deduplicated candidate indices after i, in ascending order. Only later
// indices matter: earlier unabsorbed candidates already had their chance to
// absorb i.
func plausible(postings map[string][]int, name string, i int) []int {
	seen := make(map[int]bool)
	for _, tok := range indexTokens(name) {
		for _, j := range postings[tok] {
			if j > i {
				seen[j] = true
			}
		}
	}
	out := make([]int, 0, len(seen))
	for j := range seen {
		out = append(out, j)
	}
	sort.Ints(out)
	return out
}

// fold copies other's fields into dst: name slots only where dst still has
// the sentinel (first writer per slot wins), email/phone only where dst has
// none.
func fold(dst, other *model.Candidate) {
	dst.SetName(model.CategoryLinkedIn, other.LinkedInName)
	dst.SetName(model.CategoryPhoneBook, other.PhoneBookName)
	dst.SetName(model.CategoryEmail, other.EmailName)
	if dst.Email == "" {
		dst.Email = other.Email
	}
	if dst.Phone == "" {
		dst.Phone = other.Phone
	}
}
