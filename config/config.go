package config

import "os"

type Config struct {
	Port           string
	MongoURI       string
	DBName         string
	JWTSecret      string
	GoogleBooksURL string // override for the catalog endpoint; empty means the public API
}

func Load() (*Config, error) {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		MongoURI:       getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		DBName:         getEnv("MONGODB_DB", "booksearch"),
		JWTSecret:      getEnv("JWT_SECRET", "change-me-in-production"),
		GoogleBooksURL: getEnv("GOOGLE_BOOKS_URL", ""),
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
