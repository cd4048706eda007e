package merge

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/manasnilorout-blv/decode-contacts/internal/model"
)

// Rank orders merged records for output: source priority first (network
// name, then phone-book name, then email-only), then by the scoring name
// under an English collation. The sort is stable, so equal keys keep their
// insertion order; the whole ordering is deterministic and total.
func Rank(candidates []*model.Candidate) {
	coll := collate.New(language.English)

	sort.SliceStable(candidates, func(i, j int) bool {
		si, sj := candidates[i].PriorityScore(), candidates[j].PriorityScore()
		if si != sj {
			return si < sj
		}
		return coll.CompareString(candidates[i].RankName(), candidates[j].RankName()) < 0
	})
}
