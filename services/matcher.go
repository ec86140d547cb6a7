package services

import (
	"sort"
	"strings"
)

// RecipeIngredients is the matcher's read-only snapshot of one recipe:
// its id and the names of every ingredient it requires.
type RecipeIngredients struct {
	RecipeID string
	Required []string
}

// Match is one suggestion: the recipe, how much of its requirement set the
// pantry covers, and how many ingredients are still missing.
type Match struct {
	RecipeID     string  `json:"recipe_id"`
	MatchPercent float64 `json:"match_percent"`
	Missing      int     `json:"missing"`
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NormalizePantry folds the caller-supplied ingredient names into a lookup
// set. Names that match no stored ingredient are harmless: they simply
// never intersect anything.
func NormalizePantry(names []string) map[string]bool {
	pantry := make(map[string]bool, len(names))
	for _, n := range names {
		if n = normalizeName(n); n != "" {
			pantry[n] = true
		}
	}
	return pantry
}

// Suggest ranks recipes by how much of their required-ingredient set the
// pantry covers: overlap ratio descending, then fewer missing ingredients,
// then recipe id ascending. Recipes with zero overlap are excluded, so an
// empty pantry yields no suggestions.
func Suggest(recipes []RecipeIngredients, pantry map[string]bool) []Match {
	var matches []Match
	for _, r := range recipes {
		if len(r.Required) == 0 {
			continue
		}

		required := make(map[string]bool, len(r.Required))
		for _, name := range r.Required {
			required[normalizeName(name)] = true
		}

		overlap := 0
		for name := range required {
			if pantry[name] {
				overlap++
			}
		}
		if overlap == 0 {
			continue
		}

		matches = append(matches, Match{
			RecipeID:     r.RecipeID,
			MatchPercent: float64(overlap) / float64(len(required)),
			Missing:      len(required) - overlap,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].MatchPercent != matches[j].MatchPercent {
			return matches[i].MatchPercent > matches[j].MatchPercent
		}
		if matches[i].Missing != matches[j].Missing {
			return matches[i].Missing < matches[j].Missing
		}
		return matches[i].RecipeID < matches[j].RecipeID
	})

	return matches
}

// Filter returns the ids of recipes whose entire requirement set is covered
// by the pantry, in recipe id order. No recipe has an empty requirement
// set, so an empty pantry matches nothing.
func Filter(recipes []RecipeIngredients, pantry map[string]bool) []string {
	var ids []string
	for _, r := range recipes {
		if len(r.Required) == 0 {
			continue
		}

		covered := true
		for _, name := range r.Required {
			if !pantry[normalizeName(name)] {
				covered = false
				break
			}
		}
		if covered {
			ids = append(ids, r.RecipeID)
		}
	}

	sort.Strings(ids)
	return ids
}
