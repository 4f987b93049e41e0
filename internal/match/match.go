package match

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Strategy selects how a phrase is matched against directory keys.
type Strategy string

const (
	// StrategyKeyword matches an entry iff every whitespace-delimited
	// keyword of the phrase is a substring of the entry's key.
	StrategyKeyword Strategy = "keyword"
	// StrategyFuzzy ranks every key by sequence similarity and accepts
	// the single best candidate at or above the cutoff.
	StrategyFuzzy Strategy = "fuzzy"
)

// DefaultFuzzyCutoff is the similarity floor for StrategyFuzzy on a 0-1 scale.
const DefaultFuzzyCutoff = 0.5

// Matcher applies one configured strategy to normalized directory keys.
type Matcher struct {
	strategy Strategy
	cutoff   float64
}

// New builds a Matcher. The cutoff only applies to StrategyFuzzy; zero
// means DefaultFuzzyCutoff.
func New(strategy Strategy, cutoff float64) (*Matcher, error) {
	switch strategy {
	case StrategyKeyword, StrategyFuzzy:
	default:
		return nil, fmt.Errorf("unknown match strategy %q", strategy)
	}
	if cutoff == 0 {
		cutoff = DefaultFuzzyCutoff
	}
	return &Matcher{strategy: strategy, cutoff: cutoff}, nil
}

// Match resolves a free-text phrase to one directory key. Returns false
// when nothing matches, including for an empty directory.
func (m *Matcher) Match(phrase string, keys []string) (string, bool) {
	switch m.strategy {
	case StrategyFuzzy:
		return fuzzy(phrase, keys, m.cutoff)
	default:
		return keyword(phrase, keys)
	}
}

// keyword picks the lexicographically smallest key containing every
// keyword of the phrase, so repeated runs resolve the same account even
// when several satisfy the predicate.
func keyword(phrase string, keys []string) (string, bool) {
	keywords := strings.Fields(Normalize(phrase))
	if len(keywords) == 0 {
		return "", false
	}
	candidates := make([]string, 0, 1)
	for _, key := range keys {
		all := true
		for _, kw := range keywords {
			if !strings.Contains(key, kw) {
				all = false
				break
			}
		}
		if all {
			candidates = append(candidates, key)
		}
	}
	if len(candidates) == 0 {
		return "", false
	}
	sort.Strings(candidates)
	return candidates[0], true
}

func fuzzy(phrase string, keys []string, cutoff float64) (string, bool) {
	normalized := Normalize(phrase)
	if normalized == "" {
		return "", false
	}
	best := ""
	bestScore := -1.0
	for _, key := range keys {
		score := similarity(normalized, key)
		if score > bestScore || (score == bestScore && key < best) {
			best = key
			bestScore = score
		}
	}
	if best == "" || bestScore < cutoff {
		return "", false
	}
	return best, true
}

// similarity maps edit distance onto a 0-1 ratio relative to the longer
// string; 1 means identical.
func similarity(a, b string) float64 {
	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}
