package handlers

import (
	"net/http"
	"strconv"

	"voicechef/db"

	"github.com/gin-gonic/gin"
)

// Aggregate counts for the caller's cookbook.
func GetStats(c *gin.Context) {
	userID := c.GetString("userID")
	dbConn := db.GetDB()

	var stats struct {
		TotalDishes     int `json:"total_dishes"`
		TotalRecipes    int `json:"total_recipes"`
		FavoriteRecipes int `json:"favorite_recipes"`
	}

	_ = dbConn.QueryRow("SELECT COUNT(*) FROM dishes WHERE user_id = $1", userID).Scan(&stats.TotalDishes)
	_ = dbConn.QueryRow(
		"SELECT COUNT(*) FROM recipes WHERE dish_id IN (SELECT id FROM dishes WHERE user_id = $1)",
		userID,
	).Scan(&stats.TotalRecipes)
	_ = dbConn.QueryRow(
		"SELECT COUNT(*) FROM recipes WHERE is_favorite AND dish_id IN (SELECT id FROM dishes WHERE user_id = $1)",
		userID,
	).Scan(&stats.FavoriteRecipes)

	c.JSON(http.StatusOK, stats)
}

func GetCategoryStats(c *gin.Context) {
	userID := c.GetString("userID")

	rows, err := db.GetDB().Query(`
		SELECT d.category,
		       COUNT(DISTINCT d.id) AS dishes_count,
		       COUNT(r.id) AS recipes_count
		FROM dishes d
		LEFT JOIN recipes r ON r.dish_id = d.id
		WHERE d.user_id = $1
		GROUP BY d.category
		ORDER BY dishes_count DESC
	`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	type categoryStats struct {
		Category     string `json:"category"`
		DishesCount  int    `json:"dishes_count"`
		RecipesCount int    `json:"recipes_count"`
	}

	stats := []categoryStats{}
	for rows.Next() {
		var s categoryStats
		if err := rows.Scan(&s.Category, &s.DishesCount, &s.RecipesCount); err == nil {
			stats = append(stats, s)
		}
	}

	c.JSON(http.StatusOK, gin.H{"categories": stats})
}

func GetPopularIngredients(c *gin.Context) {
	userID := c.GetString("userID")

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
			return
		}
		limit = v
	}

	rows, err := db.GetDB().Query(`
		SELECT i.id, i.name, COUNT(*) AS used
		FROM recipe_ingredients ri
		JOIN ingredients i ON i.id = ri.ingredient_id
		JOIN recipes r ON r.id = ri.recipe_id
		JOIN dishes d ON d.id = r.dish_id
		WHERE d.user_id = $1
		GROUP BY i.id, i.name
		ORDER BY used DESC, i.name
		LIMIT $2
	`, userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	type popularIngredient struct {
		IngredientID string `json:"ingredient_id"`
		Name         string `json:"name"`
		Count        int    `json:"count"`
	}

	ingredients := []popularIngredient{}
	for rows.Next() {
		var p popularIngredient
		if err := rows.Scan(&p.IngredientID, &p.Name, &p.Count); err == nil {
			ingredients = append(ingredients, p)
		}
	}

	c.JSON(http.StatusOK, gin.H{"ingredients": ingredients})
}
