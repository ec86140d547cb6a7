package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"voicechef/db"
	"voicechef/models"
	"voicechef/services"

	"github.com/gin-gonic/gin"
)

func CreateDish(c *gin.Context) {
	userID := c.GetString("userID")

	var req struct {
		Name     string `json:"name"`
		Category string `json:"category"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || len(req.Name) > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required and must be under 100 chars"})
		return
	}
	if !models.IsValidCategory(req.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category. Must be 'первое', 'второе' or 'гарнир'"})
		return
	}

	// Quota check and insert must be one atomic unit: serialize per user
	// in-process, and lock the user row so other connections wait too.
	unlock := services.CreationLocks.Lock(userID)
	defer unlock()

	tx, err := db.GetDB().Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer tx.Rollback()

	var isPremium bool
	if err := tx.QueryRow(
		"SELECT is_premium FROM users WHERE id = $1 FOR UPDATE", userID,
	).Scan(&isPremium); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var dishCount int
	if err := tx.QueryRow(
		"SELECT COUNT(*) FROM dishes WHERE user_id = $1", userID,
	).Scan(&dishCount); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if err := services.CheckCreateDish(isPremium, dishCount); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}

	var dish models.Dish
	err = tx.QueryRow(`
		INSERT INTO dishes (user_id, name, category)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, userID, req.Name, req.Category).Scan(&dish.ID, &dish.CreatedAt)

	if err != nil {
		fmt.Printf("Error creating dish: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create dish"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	dish.UserID = userID
	dish.Name = req.Name
	dish.Category = req.Category
	c.JSON(http.StatusCreated, dish)
}

func ListDishes(c *gin.Context) {
	userID := c.GetString("userID")
	category := c.Query("category")
	search := strings.TrimSpace(c.Query("search"))

	query := `
		SELECT id, user_id, name, category, created_at
		FROM dishes
		WHERE user_id = $1
	`
	args := []interface{}{userID}

	if category != "" {
		if !models.IsValidCategory(category) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
			return
		}
		args = append(args, category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if search != "" {
		args = append(args, "%"+search+"%")
		query += fmt.Sprintf(" AND name ILIKE $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := db.GetDB().Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	var dishes []models.Dish
	for rows.Next() {
		var d models.Dish
		if err := rows.Scan(&d.ID, &d.UserID, &d.Name, &d.Category, &d.CreatedAt); err != nil {
			continue
		}
		dishes = append(dishes, d)
	}

	if dishes == nil {
		dishes = []models.Dish{}
	}

	c.JSON(http.StatusOK, gin.H{"dishes": dishes})
}

// GetDish returns a single dish with its recipes nested, the detail view
// behind a row in the dish list.
func GetDish(c *gin.Context) {
	userID := c.GetString("userID")
	id := c.Param("id")

	var dish models.Dish
	err := db.GetDB().QueryRow(`
		SELECT id, user_id, name, category, created_at
		FROM dishes
		WHERE id = $1 AND user_id = $2
	`, id, userID).Scan(&dish.ID, &dish.UserID, &dish.Name, &dish.Category, &dish.CreatedAt)
	if err != nil {
		notFoundOrDBError(c, err, "Dish")
		return
	}

	dish.Recipes, err = loadDishRecipes(dish.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, dish)
}

func DeleteDish(c *gin.Context) {
	userID := c.GetString("userID")
	id := c.Param("id")

	// Ownership check also collects media to clean up after the cascade.
	rows, err := db.GetDB().Query(
		"SELECT id, COALESCE(photo_url, '') FROM recipes WHERE dish_id = $1", id,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	type toClean struct{ recipeID, photoURL string }
	var cleanup []toClean
	for rows.Next() {
		var t toClean
		if err := rows.Scan(&t.recipeID, &t.photoURL); err == nil {
			cleanup = append(cleanup, t)
		}
	}
	rows.Close()

	res, err := db.GetDB().Exec(
		"DELETE FROM dishes WHERE id = $1 AND user_id = $2", id, userID,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Dish not found"})
		return
	}

	go func() {
		for _, t := range cleanup {
			removePhotoFile(t.photoURL)
			if ttsCache != nil {
				ttsCache.DeleteRecipe(t.recipeID)
			}
		}
	}()

	c.JSON(http.StatusOK, gin.H{"message": "Dish deleted"})
}

// ownedRecipe loads a recipe only if it belongs to a dish of this user.
func ownedRecipe(userID, recipeID string) (models.Recipe, error) {
	var r models.Recipe
	err := db.GetDB().QueryRow(`
		SELECT r.id, r.dish_id, r.cook_time, r.cook_method, r.servings,
		       COALESCE(r.photo_url, ''), r.is_favorite, r.created_at
		FROM recipes r
		JOIN dishes d ON d.id = r.dish_id
		WHERE r.id = $1 AND d.user_id = $2
	`, recipeID, userID).Scan(
		&r.ID, &r.DishID, &r.CookTime, &r.CookMethod, &r.Servings,
		&r.PhotoURL, &r.IsFavorite, &r.CreatedAt,
	)
	return r, err
}

func notFoundOrDBError(c *gin.Context, err error, what string) {
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
}
