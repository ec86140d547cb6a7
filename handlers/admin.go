package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"voicechef/db"

	"github.com/gin-gonic/gin"
)

// GetAdminDashboard summarizes users and content for the admin panel.
func GetAdminDashboard(c *gin.Context) {
	var totalUsers, activeUsers, premiumUsers, newUsersToday int
	var totalDishes, totalRecipes, totalIngredients int
	var recentDishes, recentRecipes int

	err := db.GetDB().QueryRow(`
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE is_active),
			COUNT(*) FILTER (WHERE is_premium),
			COUNT(*) FILTER (WHERE created_at >= CURRENT_DATE)
		FROM users
	`).Scan(&totalUsers, &activeUsers, &premiumUsers, &newUsersToday)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	err = db.GetDB().QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM dishes),
			(SELECT COUNT(*) FROM recipes),
			(SELECT COUNT(*) FROM ingredients),
			(SELECT COUNT(*) FROM dishes WHERE created_at >= NOW() - INTERVAL '7 days'),
			(SELECT COUNT(*) FROM recipes WHERE created_at >= NOW() - INTERVAL '7 days')
	`).Scan(&totalDishes, &totalRecipes, &totalIngredients, &recentDishes, &recentRecipes)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	conversionRate := 0.0
	if totalUsers > 0 {
		conversionRate = float64(premiumUsers) / float64(totalUsers) * 100
	}

	rows, err := db.GetDB().Query(`
		SELECT category, COUNT(*) AS count
		FROM dishes
		GROUP BY category
		ORDER BY count DESC
		LIMIT 5
	`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	topCategories := []gin.H{}
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err == nil {
			topCategories = append(topCategories, gin.H{"category": category, "count": count})
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"users": gin.H{
			"total":           totalUsers,
			"active":          activeUsers,
			"premium":         premiumUsers,
			"new_today":       newUsersToday,
			"conversion_rate": conversionRate,
		},
		"content": gin.H{
			"dishes":         totalDishes,
			"recipes":        totalRecipes,
			"ingredients":    totalIngredients,
			"recent_dishes":  recentDishes,
			"recent_recipes": recentRecipes,
		},
		"top_categories": topCategories,
	})
}

// GetSystemStats returns per-day registration and content counts over a
// period of 1d, 7d, 30d or 90d.
func GetSystemStats(c *gin.Context) {
	period := c.DefaultQuery("period", "7d")
	days, ok := map[string]int{"1d": 1, "7d": 7, "30d": 30, "90d": 90}[period]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "period must be one of 1d, 7d, 30d, 90d"})
		return
	}

	daily := func(table string) ([]gin.H, error) {
		rows, err := db.GetDB().Query(fmt.Sprintf(`
			SELECT created_at::date AS day, COUNT(*)
			FROM %s
			WHERE created_at >= NOW() - $1 * INTERVAL '1 day'
			GROUP BY day
			ORDER BY day
		`, table), days)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		out := []gin.H{}
		for rows.Next() {
			var day string
			var count int
			if err := rows.Scan(&day, &count); err == nil {
				out = append(out, gin.H{"date": day, "count": count})
			}
		}
		return out, nil
	}

	registrations, err := daily("users")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	dishesCreated, err := daily("dishes")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	recipesCreated, err := daily("recipes")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"period":          period,
		"registrations":   registrations,
		"dishes_created":  dishesCreated,
		"recipes_created": recipesCreated,
	})
}

// ListUsersAdmin lists all users with pagination and filters.
func ListUsersAdmin(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page must be a positive integer"})
		return
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "20"))
	if err != nil || size < 1 || size > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "size must be between 1 and 100"})
		return
	}

	where := "TRUE"
	args := []interface{}{}

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		args = append(args, "%"+search+"%")
		where += fmt.Sprintf(" AND email ILIKE $%d", len(args))
	}
	for param, column := range map[string]string{
		"is_premium": "is_premium",
		"is_active":  "is_active",
	} {
		if raw := c.Query(param); raw != "" {
			val, err := strconv.ParseBool(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": param + " must be a boolean"})
				return
			}
			args = append(args, val)
			where += fmt.Sprintf(" AND %s = $%d", column, len(args))
		}
	}

	var total int
	if err := db.GetDB().QueryRow(
		"SELECT COUNT(*) FROM users WHERE "+where, args...,
	).Scan(&total); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	args = append(args, size, (page-1)*size)
	rows, err := db.GetDB().Query(fmt.Sprintf(`
		SELECT id, email, is_premium, is_active, is_admin, created_at
		FROM users
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args)), args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	users := []gin.H{}
	for rows.Next() {
		var id, email string
		var isPremium, isActive, isAdmin bool
		var createdAt time.Time
		if err := rows.Scan(&id, &email, &isPremium, &isActive, &isAdmin, &createdAt); err != nil {
			continue
		}
		users = append(users, gin.H{
			"id":         id,
			"email":      email,
			"is_premium": isPremium,
			"is_active":  isActive,
			"is_admin":   isAdmin,
			"created_at": createdAt,
		})
	}

	pages := (total + size - 1) / size
	c.JSON(http.StatusOK, gin.H{
		"items":    users,
		"total":    total,
		"page":     page,
		"size":     size,
		"pages":    pages,
		"has_next": page < pages,
		"has_prev": page > 1,
	})
}

// ToggleUserPremium flips a user's premium flag.
func ToggleUserPremium(c *gin.Context) {
	id := c.Param("id")

	var isPremium bool
	err := db.GetDB().QueryRow(
		"UPDATE users SET is_premium = NOT is_premium WHERE id = $1 RETURNING is_premium", id,
	).Scan(&isPremium)
	if err != nil {
		notFoundOrDBError(c, err, "User")
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "is_premium": isPremium})
}

// ToggleUserActive flips a user's active flag. Admins cannot deactivate
// their own account.
func ToggleUserActive(c *gin.Context) {
	id := c.Param("id")

	if id == c.GetString("userID") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot deactivate own account"})
		return
	}

	var isActive bool
	err := db.GetDB().QueryRow(
		"UPDATE users SET is_active = NOT is_active WHERE id = $1 RETURNING is_active", id,
	).Scan(&isActive)
	if err != nil {
		notFoundOrDBError(c, err, "User")
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "is_active": isActive})
}
