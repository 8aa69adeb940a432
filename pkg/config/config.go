package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config carries every knob the services need, resolved once at startup so no
// component reads the environment on its own.
type Config struct {
	Port                    string
	Env                     string
	FirebaseCredentialsPath string
	MongoURI                string
	DatabaseName            string
	JWTSecret               string
	TokenTTL                time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}
	return &Config{
		Port:                    getEnv("PORT", "3000"),
		Env:                     getEnv("ENV", "development"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", "./firebase_credentials.json"),
		MongoURI:                getEnv("MONGO_URI", ""),
		DatabaseName:            getEnv("DB_NAME", "eventflow"),
		JWTSecret:               getEnv("SECRET_ACCESS_KEY", "supersecretjwtkey"),
		TokenTTL:                getDuration("TOKEN_TTL", 72*time.Hour),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
