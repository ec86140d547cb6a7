package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/voicechef_test")
	t.Setenv("PORT", "")
	t.Setenv("UPLOAD_DIR", "")
	t.Setenv("TTS_CACHE_DIR", "")
	t.Setenv("MAIL_ENABLED", "")
	t.Setenv("TTS_ENABLED", "")

	cfg := Load()

	assert.Equal(t, "postgres://localhost/voicechef_test", cfg.DatabaseURL)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "uploads/photos", cfg.UploadDir)
	assert.Equal(t, "cache/tts", cfg.TTSCacheDir)
	assert.True(t, cfg.MailEnabled)
	assert.True(t, cfg.TTSEnabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("UPLOAD_DIR", "/data/photos")
	t.Setenv("MAIL_ENABLED", "false")
	t.Setenv("TTS_ENABLED", "0")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "/data/photos", cfg.UploadDir)
	assert.False(t, cfg.MailEnabled)
	assert.False(t, cfg.TTSEnabled)
}

func TestGetBoolBadValue(t *testing.T) {
	t.Setenv("MAIL_ENABLED", "not-a-bool")
	assert.True(t, getBool("MAIL_ENABLED", true))
	assert.False(t, getBool("MAIL_ENABLED", false))
}
