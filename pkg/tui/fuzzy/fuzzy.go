// ABOUTME: Fuzzy filtering over sahilm/fuzzy for pick lists
// ABOUTME: An empty pattern keeps every item in its original order

package fuzzy

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// Match is one ranked item.
type Match struct {
	Str            string
	Index          int
	MatchedIndexes []int
	Score          int
}

// Filter ranks items against pattern, best first. A blank pattern returns
// every item unranked so a list can show its full contents before typing.
func Filter(pattern string, items []string) []Match {
	if strings.TrimSpace(pattern) == "" {
		all := make([]Match, len(items))
		for i, s := range items {
			all[i] = Match{Str: s, Index: i}
		}
		return all
	}
	return convert(fuzzy.Find(pattern, items))
}

// FilterFrom is Filter over a custom source, such as records with a label.
func FilterFrom(pattern string, data fuzzy.Source) []Match {
	if strings.TrimSpace(pattern) == "" {
		all := make([]Match, data.Len())
		for i := range all {
			all[i] = Match{Str: data.String(i), Index: i}
		}
		return all
	}
	return convert(fuzzy.FindFrom(pattern, data))
}

func convert(results fuzzy.Matches) []Match {
	matches := make([]Match, len(results))
	for i, r := range results {
		matches[i] = Match{
			Str:            r.Str,
			Index:          r.Index,
			MatchedIndexes: r.MatchedIndexes,
			Score:          r.Score,
		}
	}
	return matches
}
