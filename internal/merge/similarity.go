package merge

import "strings"

// Scoring drops single-letter initials ("jane d" contributes only "jane"),
// while the posting-list index keeps only words longer than two characters
// so short particles never fan out the candidate search.
const (
	minScoreTokenLen = 1 // tokens must be strictly longer to be scored
	minIndexTokenLen = 2 // tokens must be strictly longer to be indexed
)

// tokenMatchThreshold is the per-token normalized Levenshtein similarity a
// pair of words must reach to count as matching.
const tokenMatchThreshold = 0.8

// DefaultThreshold is the word-overlap similarity driving production merges.
const DefaultThreshold = 0.7

// Matcher decides whether two normalized names refer to the same person.
type Matcher interface {
	Similar(a, b string) bool
}

// WordOverlapMatcher scores name similarity as a Dice-style word-overlap
// coefficient with per-token Levenshtein matching. This is the default
// production matcher.
type WordOverlapMatcher struct {
	Threshold float64
}

// NewWordOverlapMatcher returns the default matcher at DefaultThreshold.
func NewWordOverlapMatcher() *WordOverlapMatcher {
	return &WordOverlapMatcher{Threshold: DefaultThreshold}
}

// Similar implements Matcher.
func (m *WordOverlapMatcher) Similar(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	return Similarity(a, b) >= m.Threshold
}

// Similarity computes the word-overlap coefficient between two normalized
// names: 2·matched / (tokensA + tokensB), where a token in A matches at most
// one token in B (first qualifying token wins, no double counting).
func Similarity(a, b string) float64 {
	tokensA := scoreTokens(a)
	tokensB := scoreTokens(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	matched := 0
	for _, ta := range tokensA {
		for _, tb := range tokensB {
			if tokenSimilarity(ta, tb) >= tokenMatchThreshold {
				matched++
				break
			}
		}
	}
	return 2 * float64(matched) / float64(len(tokensA)+len(tokensB))
}

// scoreTokens splits a normalized name into the words that participate in
// similarity scoring.
func scoreTokens(name string) []string {
	return tokensLongerThan(name, minScoreTokenLen)
}

// indexTokens splits a normalized name into the words worth indexing.
func indexTokens(name string) []string {
	return tokensLongerThan(name, minIndexTokenLen)
}

func tokensLongerThan(name string, min int) []string {
	fields := strings.Fields(name)
	out := fields[:0]
	for _, f := range fields {
		if len(f) > min {
			out = append(out, f)
		}
	}
	return out
}

// tokenSimilarity is (maxLen − editDistance) / maxLen.
func tokenSimilarity(a, b string) float64 {
	la, lb := len(a), len(b)
	max := la
	if lb > max {
		max = lb
	}
	if max == 0 {
		return 0
	}
	return float64(max-Levenshtein(a, b)) / float64(max)
}

// Levenshtein returns the classic edit distance between two strings with
// unit insert, delete, and substitute costs.
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			ins := curr[j-1] + 1
			del := prev[j] + 1
			sub := prev[j-1] + cost

			min := ins
			if del < min {
				min = del
			}
			if sub < min {
				min = sub
			}
			curr[j] = min
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
