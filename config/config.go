package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	Port        string
	JWTSecret   string

	UploadDir   string
	TTSCacheDir string
	TTSCommand  string

	MailEnabled bool
	TTSEnabled  bool
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first if present (local development).
func Load() Config {
	_ = godotenv.Load()

	return Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Port:        getEnv("PORT", "8080"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		UploadDir:   getEnv("UPLOAD_DIR", "uploads/photos"),
		TTSCacheDir: getEnv("TTS_CACHE_DIR", "cache/tts"),
		TTSCommand:  os.Getenv("TTS_COMMAND"),
		MailEnabled: getBool("MAIL_ENABLED", true),
		TTSEnabled:  getBool("TTS_ENABLED", true),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
