package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func snapshot() []RecipeIngredients {
	return []RecipeIngredients{
		{RecipeID: "a", Required: []string{"картофель", "лук"}},
		{RecipeID: "b", Required: []string{"картофель", "лук", "морковь", "мясо"}},
		{RecipeID: "c", Required: []string{"рис", "курица"}},
	}
}

func TestSuggestRanking(t *testing.T) {
	pantry := NormalizePantry([]string{"картофель", "лук", "морковь"})

	matches := Suggest(snapshot(), pantry)

	assert.Len(t, matches, 2)
	assert.Equal(t, "a", matches[0].RecipeID)
	assert.InDelta(t, 1.0, matches[0].MatchPercent, 1e-9)
	assert.Equal(t, 0, matches[0].Missing)
	assert.Equal(t, "b", matches[1].RecipeID)
	assert.InDelta(t, 0.75, matches[1].MatchPercent, 1e-9)
	assert.Equal(t, 1, matches[1].Missing)
}

func TestFilterFullCoverageOnly(t *testing.T) {
	pantry := NormalizePantry([]string{"картофель", "лук", "морковь"})

	ids := Filter(snapshot(), pantry)

	assert.Equal(t, []string{"a"}, ids)
}

func TestFilterSubsetOfSuggest(t *testing.T) {
	pantry := NormalizePantry([]string{"картофель", "лук", "рис", "курица"})

	suggested := map[string]bool{}
	for _, m := range Suggest(snapshot(), pantry) {
		suggested[m.RecipeID] = true
	}

	for _, id := range Filter(snapshot(), pantry) {
		assert.True(t, suggested[id], "fully covered recipe %s missing from suggestions", id)
	}
}

func TestEmptyPantry(t *testing.T) {
	pantry := NormalizePantry(nil)

	assert.Empty(t, Suggest(snapshot(), pantry))
	assert.Empty(t, Filter(snapshot(), pantry))
}

func TestCaseInsensitiveMatching(t *testing.T) {
	upper := Suggest(snapshot(), NormalizePantry([]string{"Картофель"}))
	lower := Suggest(snapshot(), NormalizePantry([]string{"картофель"}))

	assert.Equal(t, lower, upper)
	assert.NotEmpty(t, lower)
}

func TestUnknownIngredientsIgnored(t *testing.T) {
	pantry := NormalizePantry([]string{"картофель", "лук", "единорог"})

	matches := Suggest(snapshot(), pantry)

	// The unknown name contributes nothing; recipe a is still fully matched.
	assert.Equal(t, "a", matches[0].RecipeID)
	assert.InDelta(t, 1.0, matches[0].MatchPercent, 1e-9)
}

func TestZeroOverlapExcluded(t *testing.T) {
	pantry := NormalizePantry([]string{"рис"})

	matches := Suggest(snapshot(), pantry)

	assert.Len(t, matches, 1)
	assert.Equal(t, "c", matches[0].RecipeID)
}

func TestSuggestTieBreaks(t *testing.T) {
	recipes := []RecipeIngredients{
		// Same ratio (1/2), same missing count: id decides.
		{RecipeID: "z", Required: []string{"соль", "перец"}},
		{RecipeID: "y", Required: []string{"соль", "сахар"}},
		// Same ratio (1/2) but via 2/4: more missing, sorts after.
		{RecipeID: "x", Required: []string{"соль", "мука", "вода", "дрожжи"}},
	}
	pantry := NormalizePantry([]string{"соль", "мука"})

	matches := Suggest(recipes, pantry)

	assert.Len(t, matches, 3)
	assert.Equal(t, "y", matches[0].RecipeID)
	assert.Equal(t, "z", matches[1].RecipeID)
	assert.Equal(t, "x", matches[2].RecipeID)
}

func TestNormalizePantryTrimsAndFolds(t *testing.T) {
	pantry := NormalizePantry([]string{"  Лук ", "МОРКОВЬ", "", "   "})

	assert.Len(t, pantry, 2)
	assert.True(t, pantry["лук"])
	assert.True(t, pantry["морковь"])
}
