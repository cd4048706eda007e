package merge

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// DictionaryThreshold is the overlap coefficient the dictionary matcher
// requires. Stricter than the default word-overlap threshold because alias
// expansion already loosens token matching.
const DictionaryThreshold = 0.75

// DictionaryMatcher is an alternative Matcher that treats tokens as
// matching when they are equal or listed in the same alias set (e.g.
// nicknames: bob/robert). It is pluggable and not used by default.
type DictionaryMatcher struct {
	Threshold float64

	// aliasGroup maps each token to its alias-set id.
	aliasGroup map[string]int
}

// dictionaryFile is the on-disk shape of an alias dictionary:
//
//	aliases:
//	  - [robert, bob, rob]
//	  - [william, bill, will]
type dictionaryFile struct {
	Aliases [][]string `yaml:"aliases"`
}

// NewDictionaryMatcher builds a matcher from explicit alias sets.
func NewDictionaryMatcher(aliases [][]string) *DictionaryMatcher {
	m := &DictionaryMatcher{
		Threshold:  DictionaryThreshold,
		aliasGroup: make(map[string]int),
	}
	for id, set := range aliases {
		for _, tok := range set {
			tok = strings.ToLower(strings.TrimSpace(tok))
			if tok == "" {
				continue
			}
			if _, ok := m.aliasGroup[tok]; !ok {
				m.aliasGroup[tok] = id
			}
		}
	}
	return m
}

// LoadDictionaryMatcher reads alias sets from a YAML file.
func LoadDictionaryMatcher(path string) (*DictionaryMatcher, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dictionary: read %s", path)
	}
	var df dictionaryFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return nil, eris.Wrapf(err, "dictionary: parse %s", path)
	}
	return NewDictionaryMatcher(df.Aliases), nil
}

// Similar implements Matcher.
func (m *DictionaryMatcher) Similar(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}

	tokensA := scoreTokens(a)
	tokensB := scoreTokens(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return false
	}

	matched := 0
	for _, ta := range tokensA {
		for _, tb := range tokensB {
			if m.tokensMatch(ta, tb) {
				matched++
				break
			}
		}
	}
	overlap := 2 * float64(matched) / float64(len(tokensA)+len(tokensB))
	return overlap >= m.Threshold
}

func (m *DictionaryMatcher) tokensMatch(a, b string) bool {
	if a == b {
		return true
	}
	ga, okA := m.aliasGroup[a]
	gb, okB := m.aliasGroup[b]
	return okA && okB && ga == gb
}
