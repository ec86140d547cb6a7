package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTierLimitTable(t *testing.T) {
	free := GetUserLimits(false)
	assert.Equal(t, 15, free.MaxDishes)
	assert.Equal(t, 3, free.MaxRecipesPerDish)
	assert.Equal(t, int64(2_097_152), free.MaxPhotoSize)
	assert.False(t, free.CanUsePremiumTTS)
	assert.False(t, free.CanExportRecipes)

	premium := GetUserLimits(true)
	assert.Equal(t, 45, premium.MaxDishes)
	assert.Equal(t, 5, premium.MaxRecipesPerDish)
	assert.Equal(t, int64(10_485_760), premium.MaxPhotoSize)
	assert.True(t, premium.CanUsePremiumTTS)
	assert.True(t, premium.CanExportRecipes)
}

func TestCheckCreateDish(t *testing.T) {
	tests := []struct {
		name      string
		isPremium bool
		dishCount int
		wantErr   bool
	}{
		{name: "free under limit", isPremium: false, dishCount: 14, wantErr: false},
		{name: "free at limit", isPremium: false, dishCount: 15, wantErr: true},
		{name: "free over limit", isPremium: false, dishCount: 20, wantErr: true},
		{name: "premium where free would fail", isPremium: true, dishCount: 15, wantErr: false},
		{name: "premium at limit", isPremium: true, dishCount: 45, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckCreateDish(tt.isPremium, tt.dishCount)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrQuotaExceeded)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// Upgrading raises future limits without touching stored resources: the
// same count that was rejected on free passes on premium.
func TestUpgradeRaisesLimit(t *testing.T) {
	assert.ErrorIs(t, CheckCreateDish(false, 15), ErrQuotaExceeded)
	assert.NoError(t, CheckCreateDish(true, 15))
}

func TestCheckCreateRecipe(t *testing.T) {
	assert.NoError(t, CheckCreateRecipe(false, 2))
	assert.ErrorIs(t, CheckCreateRecipe(false, 3), ErrQuotaExceeded)
	assert.NoError(t, CheckCreateRecipe(true, 3))
	assert.ErrorIs(t, CheckCreateRecipe(true, 5), ErrQuotaExceeded)
}

func TestCheckPhotoUploadBoundary(t *testing.T) {
	// Exactly the limit is allowed; one byte more is not.
	assert.NoError(t, CheckPhotoUpload(false, 2_097_152))
	assert.ErrorIs(t, CheckPhotoUpload(false, 2_097_153), ErrPayloadTooLarge)

	assert.NoError(t, CheckPhotoUpload(true, 2_097_153))
	assert.NoError(t, CheckPhotoUpload(true, 10_485_760))
	assert.ErrorIs(t, CheckPhotoUpload(true, 10_485_761), ErrPayloadTooLarge)
}

func TestCheckRecipeIngredients(t *testing.T) {
	assert.NoError(t, CheckRecipeIngredients(false, 20))
	assert.ErrorIs(t, CheckRecipeIngredients(false, 21), ErrQuotaExceeded)
	assert.NoError(t, CheckRecipeIngredients(true, 50))
	assert.ErrorIs(t, CheckRecipeIngredients(true, 51), ErrQuotaExceeded)
}

func TestQuotaAndSizeErrorsDistinct(t *testing.T) {
	quotaErr := CheckCreateDish(false, 15)
	sizeErr := CheckPhotoUpload(false, 3_000_000)

	assert.NotErrorIs(t, quotaErr, ErrPayloadTooLarge)
	assert.NotErrorIs(t, sizeErr, ErrQuotaExceeded)
}
