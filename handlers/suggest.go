package handlers

import (
	"net/http"
	"strconv"

	"voicechef/db"
	"voicechef/models"
	"voicechef/services"

	"github.com/gin-gonic/gin"
)

// loadRecipeSnapshot reads every recipe of the user together with its
// required ingredient names, as the matcher's immutable input. The recipe
// summaries come along in the same pass so match results need no further
// per-recipe lookups.
func loadRecipeSnapshot(userID string) ([]services.RecipeIngredients, map[string]models.Recipe, error) {
	rows, err := db.GetDB().Query(`
		SELECT r.id, r.dish_id, r.cook_time, r.cook_method, r.servings,
		       COALESCE(r.photo_url, ''), r.is_favorite, r.created_at, i.name
		FROM recipes r
		JOIN dishes d ON d.id = r.dish_id
		JOIN recipe_ingredients ri ON ri.recipe_id = r.id
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE d.user_id = $1
		ORDER BY r.id
	`, userID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	byRecipe := make(map[string]*services.RecipeIngredients)
	summaries := make(map[string]models.Recipe)
	var order []string
	for rows.Next() {
		var r models.Recipe
		var name string
		if err := rows.Scan(
			&r.ID, &r.DishID, &r.CookTime, &r.CookMethod, &r.Servings,
			&r.PhotoURL, &r.IsFavorite, &r.CreatedAt, &name,
		); err != nil {
			continue
		}
		entry, ok := byRecipe[r.ID]
		if !ok {
			entry = &services.RecipeIngredients{RecipeID: r.ID}
			byRecipe[r.ID] = entry
			summaries[r.ID] = r
			order = append(order, r.ID)
		}
		entry.Required = append(entry.Required, name)
	}

	snapshot := make([]services.RecipeIngredients, 0, len(order))
	for _, id := range order {
		snapshot = append(snapshot, *byRecipe[id])
	}
	return snapshot, summaries, nil
}

func SuggestRecipes(c *gin.Context) {
	userID := c.GetString("userID")

	var req struct {
		Ingredients []string `json:"ingredients"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	minMatch := 0.0
	if raw := c.Query("min_match"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || v > 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "min_match must be between 0 and 1"})
			return
		}
		minMatch = v
	}

	pantry := services.NormalizePantry(req.Ingredients)
	if len(pantry) == 0 {
		c.JSON(http.StatusOK, gin.H{"suggestions": []gin.H{}})
		return
	}

	snapshot, summaries, err := loadRecipeSnapshot(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	matches := services.Suggest(snapshot, pantry)

	suggestions := make([]gin.H, 0, len(matches))
	for _, m := range matches {
		if m.MatchPercent < minMatch {
			continue
		}
		recipe := summaries[m.RecipeID]
		suggestions = append(suggestions, gin.H{
			"id":            recipe.ID,
			"dish_id":       recipe.DishID,
			"cook_time":     recipe.CookTime,
			"cook_method":   recipe.CookMethod,
			"servings":      recipe.Servings,
			"photo_url":     recipe.PhotoURL,
			"is_favorite":   recipe.IsFavorite,
			"match_percent": m.MatchPercent,
			"missing":       m.Missing,
		})
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

func FilterRecipes(c *gin.Context) {
	userID := c.GetString("userID")

	pantry := services.NormalizePantry(c.QueryArray("ingredients"))
	if len(pantry) == 0 {
		c.JSON(http.StatusOK, gin.H{"recipes": []models.Recipe{}})
		return
	}

	snapshot, summaries, err := loadRecipeSnapshot(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	ids := services.Filter(snapshot, pantry)

	recipes := make([]models.Recipe, 0, len(ids))
	for _, id := range ids {
		recipe := summaries[id]
		recipe.Steps = loadSteps(recipe.ID)
		recipe.Ingredients = loadIngredients(recipe.ID)
		recipes = append(recipes, recipe)
	}

	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}
