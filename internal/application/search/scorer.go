// Package search implements the keyword search over persisted patents: a
// substring match in the repository plus a token-overlap relevance score.
package search

import "strings"

// Tokenize lowercases the query, splits it on whitespace and discards
// tokens of length 1 or less. An empty result is valid and drives the
// neutral-score path.
func Tokenize(query string) []string {
	var tokens []string
	for _, token := range strings.Fields(strings.ToLower(query)) {
		if len(token) > 1 {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// Score rates one matched patent against the query tokens. With no tokens
// every match scores a neutral 0.5; otherwise the hit ratio maps linearly
// into [0.3, 0.98].
func Score(tokens []string, title, abstract string) float64 {
	if len(tokens) == 0 {
		return 0.5
	}
	haystack := strings.ToLower(title + " " + abstract)
	hits := 0
	for _, token := range tokens {
		if strings.Contains(haystack, token) {
			hits++
		}
	}
	ratio := float64(hits) / float64(len(tokens))
	score := 0.3 + ratio*0.68
	if score > 0.98 {
		return 0.98
	}
	if score < 0.3 {
		return 0.3
	}
	return score
}

// Highlights returns the first four distinct terms from the patent's
// classification codes followed by the query tokens, or a literal
// placeholder when both are empty.
func Highlights(tokens, classifications []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, term := range append(append([]string{}, classifications...), tokens...) {
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		out = append(out, term)
		if len(out) == 4 {
			break
		}
	}
	if len(out) == 0 {
		return []string{"text match"}
	}
	return out
}
