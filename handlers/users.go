package handlers

import (
	"net/http"

	"voicechef/db"
	"voicechef/models"
	"voicechef/services"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// GetUserLimits reports the caller's tier limits alongside current usage,
// so the app can render "12 of 15 dishes" without extra round trips.
func GetUserLimits(c *gin.Context) {
	userID, _ := c.Get("userID")

	var user models.User
	err := db.GetDB().QueryRow(
		`SELECT id, email, is_premium, created_at FROM users WHERE id = $1`,
		userID,
	).Scan(&user.ID, &user.Email, &user.IsPremium, &user.CreatedAt)

	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var dishCount, recipeCount int
	_ = db.GetDB().QueryRow("SELECT COUNT(*) FROM dishes WHERE user_id = $1", userID).Scan(&dishCount)
	_ = db.GetDB().QueryRow(
		"SELECT COUNT(*) FROM recipes WHERE dish_id IN (SELECT id FROM dishes WHERE user_id = $1)",
		userID,
	).Scan(&recipeCount)

	c.JSON(http.StatusOK, gin.H{
		"user_type": user.Tier(),
		"limits":    services.GetUserLimits(user.IsPremium),
		"usage": gin.H{
			"dishes":  dishCount,
			"recipes": recipeCount,
		},
		"user_info": gin.H{
			"email":      user.Email,
			"is_premium": user.IsPremium,
			"created_at": user.CreatedAt,
		},
	})
}

func ChangePassword(c *gin.Context) {
	userID, _ := c.Get("userID")

	var req struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var storedHash string
	err := db.GetDB().QueryRow("SELECT password_hash FROM users WHERE id = $1", userID).Scan(&storedHash)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(req.CurrentPassword)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Current password is incorrect"})
		return
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	if _, err := db.GetDB().Exec(
		"UPDATE users SET password_hash = $1 WHERE id = $2", string(newHash), userID,
	); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed"})
}

func DeactivateAccount(c *gin.Context) {
	userID, _ := c.Get("userID")

	if _, err := db.GetDB().Exec(
		"UPDATE users SET is_active = FALSE WHERE id = $1", userID,
	); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account deactivated"})
}
