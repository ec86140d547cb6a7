package handlers

import (
	"net/http"
	"strings"

	"voicechef/db"
	"voicechef/models"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
)

var validIngredientTypes = map[string]bool{
	"мясо": true, "рыба": true, "овощ": true,
	"фрукт": true, "молочное": true, "другое": true,
}

func CreateIngredient(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
		Type string `json:"type"`
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
	if req.Type == "" {
		req.Type = "другое"
	}
	if !validIngredientTypes[req.Type] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ingredient type"})
		return
	}

	var ing models.Ingredient
	err := db.GetDB().QueryRow(`
		INSERT INTO ingredients (name, type)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, req.Name, req.Type).Scan(&ing.ID, &ing.CreatedAt)

	if err != nil {
		// Uniqueness is case-insensitive (index on lower(name)).
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Ingredient already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create ingredient"})
		return
	}

	ing.Name = req.Name
	ing.Type = req.Type
	c.JSON(http.StatusCreated, ing)
}

func ListIngredients(c *gin.Context) {
	rows, err := db.GetDB().Query(`
		SELECT id, name, type, created_at
		FROM ingredients
		ORDER BY name
	`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	var ingredients []models.Ingredient
	for rows.Next() {
		var ing models.Ingredient
		if err := rows.Scan(&ing.ID, &ing.Name, &ing.Type, &ing.CreatedAt); err != nil {
			continue
		}
		ingredients = append(ingredients, ing)
	}

	if ingredients == nil {
		ingredients = []models.Ingredient{}
	}

	c.JSON(http.StatusOK, gin.H{"ingredients": ingredients})
}
