package services

import (
	"errors"
	"fmt"
)

var (
	// ErrQuotaExceeded rejects a mutation that would exceed a per-tier
	// resource count. Maps to HTTP 403.
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrPayloadTooLarge rejects an upload over the tier's byte limit.
	// Maps to HTTP 413, never conflated with quota errors.
	ErrPayloadTooLarge = errors.New("payload too large")
)

type Limits struct {
	MaxDishes               int   `json:"max_dishes"`
	MaxRecipesPerDish       int   `json:"max_recipes_per_dish"`
	MaxPhotoSize            int64 `json:"max_photo_size"`
	MaxTTSCacheSize         int64 `json:"max_tts_cache_size"`
	MaxIngredientsPerRecipe int   `json:"max_ingredients_per_recipe"`
	CanUsePremiumTTS        bool  `json:"can_use_premium_tts"`
	CanExportRecipes        bool  `json:"can_export_recipes"`
}

var freeLimits = Limits{
	MaxDishes:               15,
	MaxRecipesPerDish:       3,
	MaxPhotoSize:            2 * 1024 * 1024,
	MaxTTSCacheSize:         50 * 1024 * 1024,
	MaxIngredientsPerRecipe: 20,
	CanUsePremiumTTS:        false,
	CanExportRecipes:        false,
}

var premiumLimits = Limits{
	MaxDishes:               45,
	MaxRecipesPerDish:       5,
	MaxPhotoSize:            10 * 1024 * 1024,
	MaxTTSCacheSize:         200 * 1024 * 1024,
	MaxIngredientsPerRecipe: 50,
	CanUsePremiumTTS:        true,
	CanExportRecipes:        true,
}

// GetUserLimits returns the quota table for a subscription tier.
func GetUserLimits(isPremium bool) Limits {
	if isPremium {
		return premiumLimits
	}
	return freeLimits
}

// CheckCreateDish permits creating one more dish for a user that already
// owns dishCount dishes. Advisory only: the caller must hold the check and
// the insert inside one critical section (see WithUserLock).
func CheckCreateDish(isPremium bool, dishCount int) error {
	limits := GetUserLimits(isPremium)
	if dishCount >= limits.MaxDishes {
		return fmt.Errorf("%w: dish limit is %d", ErrQuotaExceeded, limits.MaxDishes)
	}
	return nil
}

// CheckCreateRecipe permits adding one more recipe to a dish whose owner is
// on the given tier.
func CheckCreateRecipe(isPremium bool, recipeCount int) error {
	limits := GetUserLimits(isPremium)
	if recipeCount >= limits.MaxRecipesPerDish {
		return fmt.Errorf("%w: recipe limit per dish is %d", ErrQuotaExceeded, limits.MaxRecipesPerDish)
	}
	return nil
}

// CheckRecipeIngredients caps the number of ingredient references a single
// recipe may carry.
func CheckRecipeIngredients(isPremium bool, ingredientCount int) error {
	limits := GetUserLimits(isPremium)
	if ingredientCount > limits.MaxIngredientsPerRecipe {
		return fmt.Errorf("%w: ingredient limit per recipe is %d", ErrQuotaExceeded, limits.MaxIngredientsPerRecipe)
	}
	return nil
}

// CheckPhotoUpload permits an upload of byteSize bytes. A photo of exactly
// the limit is allowed; one byte over is not.
func CheckPhotoUpload(isPremium bool, byteSize int64) error {
	limits := GetUserLimits(isPremium)
	if byteSize > limits.MaxPhotoSize {
		return fmt.Errorf("%w: photo limit is %d bytes", ErrPayloadTooLarge, limits.MaxPhotoSize)
	}
	return nil
}
