package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"voicechef/db"
	"voicechef/models"
	"voicechef/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type stepInput struct {
	Description string `json:"description"`
	Duration    int    `json:"duration"`
}

func AddRecipe(c *gin.Context) {
	userID := c.GetString("userID")
	dishID := c.Param("id")

	var req struct {
		CookTime    int         `json:"cook_time"`
		CookMethod  string      `json:"cook_method"`
		Servings    int         `json:"servings"`
		Steps       []stepInput `json:"steps"`
		Ingredients []string    `json:"ingredients"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	if req.CookTime <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cook_time must be positive"})
		return
	}
	if req.Servings <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "servings must be positive"})
		return
	}
	req.CookMethod = strings.TrimSpace(req.CookMethod)
	if req.CookMethod == "" || len(req.CookMethod) > 200 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cook_method is required and must be under 200 chars"})
		return
	}
	for i, s := range req.Steps {
		if strings.TrimSpace(s.Description) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("step %d description is required", i+1)})
			return
		}
		if s.Duration < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("step %d duration must be non-negative", i+1)})
			return
		}
	}

	// Recipe quota is per dish; serialize on the dish id.
	unlock := services.CreationLocks.Lock(dishID)
	defer unlock()

	tx, err := db.GetDB().Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer tx.Rollback()

	// The dish row lock holds the recipe count stable until commit; the
	// join verifies ownership and yields the owner's tier for the limit.
	var isPremium bool
	err = tx.QueryRow(`
		SELECT u.is_premium
		FROM dishes d
		JOIN users u ON u.id = d.user_id
		WHERE d.id = $1 AND d.user_id = $2
		FOR UPDATE OF d
	`, dishID, userID).Scan(&isPremium)
	if err != nil {
		notFoundOrDBError(c, err, "Dish")
		return
	}

	var recipeCount int
	if err := tx.QueryRow(
		"SELECT COUNT(*) FROM recipes WHERE dish_id = $1", dishID,
	).Scan(&recipeCount); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if err := services.CheckCreateRecipe(isPremium, recipeCount); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}
	if err := services.CheckRecipeIngredients(isPremium, len(req.Ingredients)); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}

	var recipe models.Recipe
	err = tx.QueryRow(`
		INSERT INTO recipes (dish_id, cook_time, cook_method, servings)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, dishID, req.CookTime, req.CookMethod, req.Servings).Scan(&recipe.ID, &recipe.CreatedAt)
	if err != nil {
		fmt.Printf("Error creating recipe: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create recipe"})
		return
	}

	for i, s := range req.Steps {
		if _, err := tx.Exec(`
			INSERT INTO recipe_steps (recipe_id, position, description, duration)
			VALUES ($1, $2, $3, $4)
		`, recipe.ID, i+1, strings.TrimSpace(s.Description), s.Duration); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save steps"})
			return
		}
	}

	// Unknown ingredient ids are skipped, matching the matcher's tolerance
	// for unknown names.
	for _, ingID := range req.Ingredients {
		if _, err := uuid.Parse(ingID); err != nil {
			continue
		}
		if _, err := tx.Exec(`
			INSERT INTO recipe_ingredients (recipe_id, ingredient_id)
			SELECT $1, id FROM ingredients WHERE id = $2
			ON CONFLICT DO NOTHING
		`, recipe.ID, ingID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save ingredients"})
			return
		}
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	recipe.DishID = dishID
	recipe.CookTime = req.CookTime
	recipe.CookMethod = req.CookMethod
	recipe.Servings = req.Servings
	c.JSON(http.StatusCreated, recipe)
}

// loadDishRecipes reads all recipes of a dish with steps and ingredients.
// Ownership of the dish must already be checked by the caller.
func loadDishRecipes(dishID string) ([]models.Recipe, error) {
	rows, err := db.GetDB().Query(`
		SELECT id, dish_id, cook_time, cook_method, servings,
		       COALESCE(photo_url, ''), is_favorite, created_at
		FROM recipes
		WHERE dish_id = $1
		ORDER BY created_at
	`, dishID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipes := []models.Recipe{}
	for rows.Next() {
		var r models.Recipe
		if err := rows.Scan(&r.ID, &r.DishID, &r.CookTime, &r.CookMethod, &r.Servings,
			&r.PhotoURL, &r.IsFavorite, &r.CreatedAt); err != nil {
			continue
		}
		r.Steps = loadSteps(r.ID)
		r.Ingredients = loadIngredients(r.ID)
		recipes = append(recipes, r)
	}
	return recipes, nil
}

func GetRecipes(c *gin.Context) {
	userID := c.GetString("userID")
	dishID := c.Param("id")

	var dummy string
	err := db.GetDB().QueryRow(
		"SELECT id FROM dishes WHERE id = $1 AND user_id = $2", dishID, userID,
	).Scan(&dummy)
	if err != nil {
		notFoundOrDBError(c, err, "Dish")
		return
	}

	recipes, err := loadDishRecipes(dishID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func GetRecipe(c *gin.Context) {
	userID := c.GetString("userID")
	recipeID := c.Param("id")

	recipe, err := ownedRecipe(userID, recipeID)
	if err != nil {
		notFoundOrDBError(c, err, "Recipe")
		return
	}

	recipe.Steps = loadSteps(recipe.ID)
	recipe.Ingredients = loadIngredients(recipe.ID)
	c.JSON(http.StatusOK, recipe)
}

func DeleteRecipe(c *gin.Context) {
	userID := c.GetString("userID")
	recipeID := c.Param("id")

	recipe, err := ownedRecipe(userID, recipeID)
	if err != nil {
		notFoundOrDBError(c, err, "Recipe")
		return
	}

	if _, err := db.GetDB().Exec("DELETE FROM recipes WHERE id = $1", recipeID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	// Steps and ingredient rows cascade in the DB; files are ours to clean.
	go func() {
		removePhotoFile(recipe.PhotoURL)
		if ttsCache != nil {
			ttsCache.DeleteRecipe(recipeID)
		}
	}()

	c.JSON(http.StatusOK, gin.H{"message": "Recipe deleted"})
}

func loadSteps(recipeID string) []models.RecipeStep {
	rows, err := db.GetDB().Query(`
		SELECT id, recipe_id, position, description, duration
		FROM recipe_steps
		WHERE recipe_id = $1
		ORDER BY position
	`, recipeID)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var steps []models.RecipeStep
	for rows.Next() {
		var s models.RecipeStep
		if err := rows.Scan(&s.ID, &s.RecipeID, &s.Position, &s.Description, &s.Duration); err == nil {
			steps = append(steps, s)
		}
	}
	return steps
}

func loadIngredients(recipeID string) []models.RecipeIngredient {
	rows, err := db.GetDB().Query(`
		SELECT ri.ingredient_id, i.name, ri.amount, ri.unit
		FROM recipe_ingredients ri
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE ri.recipe_id = $1
		ORDER BY i.name
	`, recipeID)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var ings []models.RecipeIngredient
	for rows.Next() {
		var ri models.RecipeIngredient
		if err := rows.Scan(&ri.IngredientID, &ri.Name, &ri.Amount, &ri.Unit); err == nil {
			ings = append(ings, ri)
		}
	}
	return ings
}
