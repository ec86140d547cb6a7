package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"voicechef/db"
	"voicechef/services"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

var ttsCache *services.TTSCache

// SetTTSCache wires the step-audio cache at startup. When nil, TTS
// endpoints report the feature as unavailable.
func SetTTSCache(cache *services.TTSCache) {
	ttsCache = cache
}

// GetStepAudio streams the MP3 for one recipe step, synthesizing it on a
// cache miss.
func GetStepAudio(c *gin.Context) {
	userID := c.GetString("userID")
	recipeID := c.Param("id")

	position, err := strconv.Atoi(c.Param("step"))
	if err != nil || position < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid step number"})
		return
	}

	if ttsCache == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "TTS is not available"})
		return
	}

	if _, err := ownedRecipe(userID, recipeID); err != nil {
		notFoundOrDBError(c, err, "Recipe")
		return
	}

	var description string
	err = db.GetDB().QueryRow(`
		SELECT description FROM recipe_steps
		WHERE recipe_id = $1 AND position = $2
	`, recipeID, position).Scan(&description)
	if err != nil {
		notFoundOrDBError(c, err, fmt.Sprintf("Step %d", position))
		return
	}

	_, limits, err := callerLimits(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	path, err := ttsCache.Ensure(recipeID, position, description, limits.CanUsePremiumTTS, limits.MaxTTSCacheSize)
	if err != nil {
		if errors.Is(err, services.ErrTTSUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "TTS is not available"})
			return
		}
		fmt.Printf("Error generating step audio: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate audio"})
		return
	}

	c.Header("Cache-Control", "public, max-age=3600")
	c.Header("Content-Disposition",
		fmt.Sprintf(`inline; filename="recipe_%s_step_%d.mp3"`, recipeID, position))
	c.File(path)
}

// GenerateRecipeTTS pregenerates audio for every step of a recipe so
// playback starts instantly in the app.
func GenerateRecipeTTS(c *gin.Context) {
	userID := c.GetString("userID")
	recipeID := c.Param("id")

	if ttsCache == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "TTS is not available"})
		return
	}

	if _, err := ownedRecipe(userID, recipeID); err != nil {
		notFoundOrDBError(c, err, "Recipe")
		return
	}

	steps := loadSteps(recipeID)
	if len(steps) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Recipe has no steps"})
		return
	}

	_, limits, err := callerLimits(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	premiumVoice := limits.CanUsePremiumTTS

	var g errgroup.Group
	g.SetLimit(4)
	for _, s := range steps {
		s := s
		g.Go(func() error {
			_, err := ttsCache.Ensure(recipeID, s.Position, s.Description, premiumVoice, limits.MaxTTSCacheSize)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		if errors.Is(err, services.ErrTTSUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "TTS is not available"})
			return
		}
		fmt.Printf("Error pregenerating TTS for recipe %s: %v\n", recipeID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate audio"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Audio generated",
		"steps":   len(steps),
	})
}

func callerLimits(userID string) (bool, services.Limits, error) {
	var isPremium bool
	err := db.GetDB().QueryRow(
		"SELECT is_premium FROM users WHERE id = $1", userID,
	).Scan(&isPremium)
	if err != nil {
		return false, services.Limits{}, err
	}
	return isPremium, services.GetUserLimits(isPremium), nil
}
