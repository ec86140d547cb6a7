package handlers

import (
	"net/http"

	"voicechef/db"
	"voicechef/models"

	"github.com/gin-gonic/gin"
)

func ToggleFavorite(c *gin.Context) {
	userID := c.GetString("userID")
	recipeID := c.Param("id")

	recipe, err := ownedRecipe(userID, recipeID)
	if err != nil {
		notFoundOrDBError(c, err, "Recipe")
		return
	}

	var isFavorite bool
	err = db.GetDB().QueryRow(
		"UPDATE recipes SET is_favorite = NOT is_favorite WHERE id = $1 RETURNING is_favorite",
		recipe.ID,
	).Scan(&isFavorite)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recipe_id":   recipe.ID,
		"is_favorite": isFavorite,
	})
}

func ListFavorites(c *gin.Context) {
	userID := c.GetString("userID")

	rows, err := db.GetDB().Query(`
		SELECT r.id, r.dish_id, r.cook_time, r.cook_method, r.servings,
		       COALESCE(r.photo_url, ''), r.is_favorite, r.created_at
		FROM recipes r
		JOIN dishes d ON d.id = r.dish_id
		WHERE d.user_id = $1 AND r.is_favorite
		ORDER BY r.created_at DESC
	`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	var recipes []models.Recipe
	for rows.Next() {
		var r models.Recipe
		if err := rows.Scan(&r.ID, &r.DishID, &r.CookTime, &r.CookMethod, &r.Servings,
			&r.PhotoURL, &r.IsFavorite, &r.CreatedAt); err != nil {
			continue
		}
		recipes = append(recipes, r)
	}

	if recipes == nil {
		recipes = []models.Recipe{}
	}

	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}
