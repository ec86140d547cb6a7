package models

import (
	"time"
)

// Dish categories understood by the mobile app.
const (
	CategoryFirst   = "первое"
	CategorySecond  = "второе"
	CategoryGarnish = "гарнир"
)

func IsValidCategory(c string) bool {
	return c == CategoryFirst || c == CategorySecond || c == CategoryGarnish
}

type Dish struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
	Recipes   []Recipe  `json:"recipes,omitempty"` // For detail view
}

type Recipe struct {
	ID          string             `json:"id"`
	DishID      string             `json:"dish_id"`
	CookTime    int                `json:"cook_time"`
	CookMethod  string             `json:"cook_method"`
	Servings    int                `json:"servings"`
	PhotoURL    string             `json:"photo_url,omitempty"`
	IsFavorite  bool               `json:"is_favorite"`
	CreatedAt   time.Time          `json:"created_at"`
	Steps       []RecipeStep       `json:"steps,omitempty"`
	Ingredients []RecipeIngredient `json:"ingredients,omitempty"`
}

type RecipeStep struct {
	ID          string `json:"id"`
	RecipeID    string `json:"recipe_id"`
	Position    int    `json:"position"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
}

type Ingredient struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

type RecipeIngredient struct {
	IngredientID string  `json:"ingredient_id"`
	Name         string  `json:"name"`
	Amount       float64 `json:"amount"`
	Unit         string  `json:"unit"`
}
