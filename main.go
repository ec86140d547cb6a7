package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"voicechef/config"
	"voicechef/db"
	"voicechef/handlers"
	"voicechef/middleware"
	"voicechef/services"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func runMigrations() {
	sqlBytes, err := os.ReadFile("schema.sql")
	if err != nil {
		log.Fatal("Failed to read schema.sql:", err)
	}

	if _, err := db.GetDB().Exec(string(sqlBytes)); err != nil {
		log.Fatal("Failed to apply schema:", err)
	}
	log.Println("Database schema verified")
}

func main() {
	cfg := config.Load()

	if err := db.InitDB(cfg.DatabaseURL); err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	runMigrations()

	middleware.SetJWTSecret(cfg.JWTSecret)
	handlers.SetJWTSecret(cfg.JWTSecret)
	handlers.SetUploadDir(cfg.UploadDir)
	services.SetMailEnabled(cfg.MailEnabled)

	if cfg.TTSEnabled {
		var engine services.Synthesizer
		if parts := strings.Fields(cfg.TTSCommand); len(parts) > 0 {
			engine = services.CommandSynthesizer{Command: parts[0], Args: parts[1:]}
		}

		cache, err := services.NewTTSCache(cfg.TTSCacheDir, 7*24*time.Hour, engine)
		if err != nil {
			log.Fatal("Failed to init TTS cache: ", err)
		}
		handlers.SetTTSCache(cache)

		// Periodic sweep of expired step audio.
		go func() {
			ticker := time.NewTicker(time.Hour)
			defer ticker.Stop()
			for range ticker.C {
				func() {
					defer func() {
						if r := recover(); r != nil {
							fmt.Printf("TTS sweep panic: %v\n", r)
						}
					}()
					if n := cache.Sweep(); n > 0 {
						log.Printf("TTS cache sweep removed %d files", n)
					}
				}()
			}
		}()
	}

	r := setupRouter()

	fmt.Println("Server starting on port " + cfg.Port)
	r.Run(":" + cfg.Port)
}

func setupRouter() *gin.Engine {
	r := gin.Default()
	r.Static("/uploads", "./uploads")

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Voice Chef API is running",
		})
	})

	auth := r.Group("/auth", middleware.RateLimit(rate.Limit(5), 10))
	{
		auth.POST("/register", handlers.Register)
		auth.POST("/login", handlers.Login)
		auth.POST("/subscription/upgrade", middleware.AuthRequired(), handlers.UpgradeSubscription)
	}

	api := r.Group("/", middleware.AuthRequired())
	{
		api.GET("/users/me", handlers.Me)
		api.GET("/users/me/limits", handlers.GetUserLimits)
		api.POST("/users/me/change-password", handlers.ChangePassword)
		api.POST("/users/me/deactivate", handlers.DeactivateAccount)

		api.POST("/dishes", handlers.CreateDish)
		api.GET("/dishes", handlers.ListDishes)
		api.GET("/dishes/:id", handlers.GetDish)
		api.DELETE("/dishes/:id", handlers.DeleteDish)

		api.POST("/dishes/:id/recipes", handlers.AddRecipe)
		api.GET("/dishes/:id/recipes", handlers.GetRecipes)

		// Pantry matching operates across all of the caller's recipes.
		api.POST("/dishes/recipes/suggest", handlers.SuggestRecipes)
		api.GET("/dishes/recipes/filter", handlers.FilterRecipes)

		api.GET("/dishes/recipes/favorites", handlers.ListFavorites)

		api.GET("/dishes/recipes/:id", handlers.GetRecipe)
		api.DELETE("/dishes/recipes/:id", handlers.DeleteRecipe)
		api.PUT("/dishes/recipes/:id/favorite", handlers.ToggleFavorite)

		api.POST("/dishes/recipes/:id/photo", handlers.UploadPhoto)
		api.DELETE("/dishes/recipes/:id/photo", handlers.DeletePhoto)

		api.GET("/recipes/:id/tts/step/:step", handlers.GetStepAudio)
		api.POST("/recipes/:id/tts/generate", handlers.GenerateRecipeTTS)

		api.POST("/ingredients", handlers.CreateIngredient)
		api.GET("/ingredients", handlers.ListIngredients)

		api.GET("/reports/stats", handlers.GetStats)
		api.GET("/reports/categories", handlers.GetCategoryStats)
		api.GET("/reports/popular_ingredients", handlers.GetPopularIngredients)
	}

	admin := r.Group("/admin", middleware.AuthRequired(), middleware.AdminRequired())
	{
		admin.GET("/dashboard", handlers.GetAdminDashboard)
		admin.GET("/system/stats", handlers.GetSystemStats)
		admin.GET("/users", handlers.ListUsersAdmin)
		admin.PUT("/users/:id/toggle-premium", handlers.ToggleUserPremium)
		admin.PUT("/users/:id/toggle-active", handlers.ToggleUserActive)
	}

	return r
}
