package errors

import (
	"slices"
	"strings"
)

// MaxSuggestions is the maximum number of suggestions to return.
const MaxSuggestions = 3

// Suggestion represents a suggested correction with its edit distance.
type Suggestion struct {
	Value    string
	Distance int
}

// SuggestSimilar finds candidates close to target, ignoring case. Short
// targets tolerate fewer edits: one for up to three runes, two for up to
// five, three otherwise.
func SuggestSimilar(target string, candidates []string) []Suggestion {
	if target == "" || len(candidates) == 0 {
		return nil
	}
	needle := strings.ToLower(target)
	threshold := 3
	switch n := len([]rune(needle)); {
	case n <= 3:
		threshold = 1
	case n <= 5:
		threshold = 2
	}
	var out []Suggestion
	for _, candidate := range candidates {
		lower := strings.ToLower(candidate)
		if candidate == "" || lower == needle {
			continue
		}
		if d := editDistance(needle, lower); d <= threshold {
			out = append(out, Suggestion{Value: candidate, Distance: d})
		}
	}
	slices.SortFunc(out, func(a, b Suggestion) int {
		if a.Distance != b.Distance {
			return a.Distance - b.Distance
		}
		return strings.Compare(a.Value, b.Value)
	})
	if len(out) > MaxSuggestions {
		out = out[:MaxSuggestions]
	}
	return out
}

// FormatSuggestions renders suggestions as a "did you mean" phrase, or ""
// when there are none.
func FormatSuggestions(suggestions []Suggestion) string {
	switch len(suggestions) {
	case 0:
		return ""
	case 1:
		return "did you mean '" + suggestions[0].Value + "'?"
	}
	quoted := make([]string, len(suggestions))
	for i, s := range suggestions {
		quoted[i] = "'" + s.Value + "'"
	}
	return "did you mean one of: " + strings.Join(quoted, ", ") + "?"
}

// DidYouMean is shorthand for FormatSuggestions(SuggestSimilar(...)).
func DidYouMean(target string, candidates []string) string {
	return FormatSuggestions(SuggestSimilar(target, candidates))
}

// editDistance is the Levenshtein distance between a and b over runes,
// computed with a single rolling row.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	row := make([]int, len(ra)+1)
	for i := range row {
		row[i] = i
	}
	for j := 1; j <= len(rb); j++ {
		diag := row[0]
		row[0] = j
		for i := 1; i <= len(ra); i++ {
			above := row[i]
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			row[i] = min(row[i]+1, row[i-1]+1, diag+cost)
			diag = above
		}
	}
	return row[len(ra)]
}
