package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"voicechef/db"
	"voicechef/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var uploadDir = "uploads/photos"

// SetUploadDir wires the configured photo directory at startup.
func SetUploadDir(dir string) {
	uploadDir = dir
}

var allowedPhotoExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true,
}

func UploadPhoto(c *gin.Context) {
	userID := c.GetString("userID")
	recipeID := c.Param("id")

	recipe, err := ownedRecipe(userID, recipeID)
	if err != nil {
		notFoundOrDBError(c, err, "Recipe")
		return
	}

	file, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedPhotoExts[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file format. Allowed: .jpg, .jpeg, .png"})
		return
	}

	var isPremium bool
	if err := db.GetDB().QueryRow(
		"SELECT is_premium FROM users WHERE id = $1", userID,
	).Scan(&isPremium); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if err := services.CheckPhotoUpload(isPremium, file.Size); err != nil {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		return
	}

	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store photo"})
		return
	}

	filename := fmt.Sprintf("%s_%s%s", recipeID, uuid.New().String()[:8], ext)
	dst := filepath.Join(uploadDir, filename)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		fmt.Printf("Error saving photo: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store photo"})
		return
	}

	photoURL := "/" + filepath.ToSlash(dst)
	if _, err := db.GetDB().Exec(
		"UPDATE recipes SET photo_url = $1 WHERE id = $2", photoURL, recipeID,
	); err != nil {
		_ = os.Remove(dst)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	// Replaced photos are removed after the new URL is committed.
	if recipe.PhotoURL != "" {
		go removePhotoFile(recipe.PhotoURL)
	}

	c.JSON(http.StatusOK, gin.H{"photo_url": photoURL})
}

func DeletePhoto(c *gin.Context) {
	userID := c.GetString("userID")
	recipeID := c.Param("id")

	recipe, err := ownedRecipe(userID, recipeID)
	if err != nil {
		notFoundOrDBError(c, err, "Recipe")
		return
	}

	if recipe.PhotoURL != "" {
		if _, err := db.GetDB().Exec(
			"UPDATE recipes SET photo_url = NULL WHERE id = $1", recipeID,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		go removePhotoFile(recipe.PhotoURL)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Photo deleted"})
}

func removePhotoFile(photoURL string) {
	if photoURL == "" {
		return
	}
	path := strings.TrimPrefix(photoURL, "/")
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		fmt.Printf("Error deleting photo %s: %v\n", path, err)
	}
}
