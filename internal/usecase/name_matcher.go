package usecase

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pmezard/go-difflib/difflib"
)

// Package-level compiled regex pattern for performance
var tokenSplitRegex = regexp.MustCompile(`[\s\-/,:;"'()\[\]|]+`)

// Default gate thresholds for name matching
const (
	defaultSimilarityThreshold   = 0.55 // whole-string similarity ratio
	defaultTokenOverlapThreshold = 0.5  // share of target tokens found in the title
	minTokenLength               = 3    // shorter tokens carry no meaning ("tv", "4k", "20")
)

// NameMatchConfig holds configuration for the name matcher
type NameMatchConfig struct {
	SimilarityThreshold   float64
	TokenOverlapThreshold float64
}

// NameScore is the breakdown of a name comparison
type NameScore struct {
	Similarity    float64
	TokenOverlap  float64
	MatchedTokens []string
}

// NameMatcher decides whether a listing title plausibly names a target product.
//
// Two gates must pass:
//   - the case-insensitive similarity ratio of the whole strings
//   - the fraction of the target's meaningful tokens present in the title
//
// The ratio alone accepts short titles sharing common substrings; the token overlap
// alone accepts titles that only share generic words like "smart" or "inverter".
type NameMatcher struct {
	similarityThreshold   float64
	tokenOverlapThreshold float64
}

// NewNameMatcher creates a name matcher, falling back to defaults for unset thresholds
func NewNameMatcher(config NameMatchConfig) *NameMatcher {
	similarity := config.SimilarityThreshold
	if similarity <= 0 {
		similarity = defaultSimilarityThreshold
	}

	overlap := config.TokenOverlapThreshold
	if overlap <= 0 {
		overlap = defaultTokenOverlapThreshold
	}

	return &NameMatcher{
		similarityThreshold:   similarity,
		tokenOverlapThreshold: overlap,
	}
}

// IsNameMatch reports whether listingTitle refers to targetName
func (m *NameMatcher) IsNameMatch(listingTitle, targetName string) bool {
	score := m.Score(listingTitle, targetName)
	if score.Similarity < m.similarityThreshold {
		return false
	}
	// A target without meaningful tokens scores zero overlap and is never confirmed.
	return score.TokenOverlap >= m.tokenOverlapThreshold
}

// Score computes both gate measurements without applying thresholds
func (m *NameMatcher) Score(listingTitle, targetName string) NameScore {
	targetTokens := meaningfulTokens(targetName)
	titleTokens := meaningfulTokens(listingTitle)

	score := NameScore{Similarity: similarityRatio(listingTitle, targetName)}
	if len(targetTokens) == 0 {
		return score
	}

	matched, tokens := findIntersection(titleTokens, targetTokens)
	score.TokenOverlap = float64(matched) / float64(len(targetTokens))
	score.MatchedTokens = tokens
	return score
}

// similarityRatio returns 2*M/T over the runes of both lowercased strings,
// where M is the number of matched runes in the longest matching blocks.
func similarityRatio(a, b string) float64 {
	matcher := difflib.NewMatcher(splitRunes(strings.ToLower(a)), splitRunes(strings.ToLower(b)))
	return matcher.Ratio()
}

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

// meaningfulTokens returns the distinct lowercase tokens of s longer than two characters
func meaningfulTokens(s string) []string {
	words := tokenSplitRegex.Split(strings.ToLower(s), -1)

	seen := make(map[string]bool, len(words))
	var tokens []string
	for _, word := range words {
		if utf8.RuneCountInString(word) < minTokenLength || seen[word] {
			continue
		}
		seen[word] = true
		tokens = append(tokens, word)
	}
	return tokens
}

// findIntersection returns the count of tokens2 entries present in tokens1 and the list of them
func findIntersection(tokens1, tokens2 []string) (int, []string) {
	set := make(map[string]bool)
	for _, t := range tokens1 {
		set[t] = true
	}

	var matched []string
	seen := make(map[string]bool)
	for _, t := range tokens2 {
		if set[t] && !seen[t] {
			matched = append(matched, t)
			seen[t] = true
		}
	}

	return len(matched), matched
}
