package handlers

import (
	"net/http"
	"strings"
	"time"

	"voicechef/db"
	"voicechef/models"
	"voicechef/services"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

var jwtSecret []byte

// SetJWTSecret injects the signing key at startup, after config is loaded.
func SetJWTSecret(secret string) {
	jwtSecret = []byte(secret)
}

type AuthInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func Register(c *gin.Context) {
	var input AuthInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	var userID string
	err = db.GetDB().QueryRow(
		`INSERT INTO users (email, password_hash) VALUES ($1, $2) RETURNING id`,
		email, string(hash),
	).Scan(&userID)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	go services.SendWelcomeEmail(email)

	token, _ := generateToken(userID, email)
	c.JSON(http.StatusCreated, gin.H{
		"id":    userID,
		"email": email,
		"token": token,
	})
}

func Login(c *gin.Context) {
	var input AuthInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	var user models.User
	err := db.GetDB().QueryRow(
		`SELECT id, email, password_hash, is_active FROM users WHERE LOWER(email) = $1`,
		email,
	).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.IsActive)

	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account is not active"})
		return
	}

	token, _ := generateToken(user.ID, user.Email)
	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"token_type": "bearer",
		"expires_in": 24 * 60 * 60,
	})
}

func Me(c *gin.Context) {
	userID, _ := c.Get("userID")

	var user models.User
	err := db.GetDB().QueryRow(
		`SELECT id, email, is_premium, is_active, created_at FROM users WHERE id = $1`,
		userID,
	).Scan(&user.ID, &user.Email, &user.IsPremium, &user.IsActive, &user.CreatedAt)

	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         user.ID,
		"email":      user.Email,
		"tier":       user.Tier(),
		"is_premium": user.IsPremium,
		"created_at": user.CreatedAt,
	})
}

// UpgradeSubscription switches the caller to premium. Idempotent: upgrading
// an already-premium account is a no-op success.
func UpgradeSubscription(c *gin.Context) {
	userID, _ := c.Get("userID")

	var email string
	var wasPremium bool
	err := db.GetDB().QueryRow(
		`SELECT email, is_premium FROM users WHERE id = $1`, userID,
	).Scan(&email, &wasPremium)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if _, err := db.GetDB().Exec(
		`UPDATE users SET is_premium = TRUE WHERE id = $1`, userID,
	); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if !wasPremium {
		go services.SendUpgradeEmail(email)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Premium subscription active",
		"tier":    "premium",
	})
}

func generateToken(id, email string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": id,
		"email":   email,
		"exp":     time.Now().Add(time.Hour * 24).Unix(),
	})
	return token.SignedString(jwtSecret)
}
