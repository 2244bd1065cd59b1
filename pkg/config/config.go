package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                    string
	Env                     string
	DatabaseDriver          string
	PostgresConnStr         string
	SQLitePath              string
	MongoURI                string
	MongoDatabase           string
	CookieSecret            string
	StaticDir               string
	UploadDir               string
	FirebaseCredentialsPath string
	FirebaseStorageBucket   string
}

// Load reads the configuration from the environment, after merging a .env file if present
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		DatabaseDriver:          getEnv("DATABASE_DRIVER", "postgres"),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		SQLitePath:              getEnv("SQLITE_PATH", "data/blog.db"),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "blog"),
		CookieSecret:            getEnv("COOKIE_SECRET", "cookie-secret"),
		StaticDir:               getEnv("STATIC_DIR", "public"),
		UploadDir:               getEnv("UPLOAD_DIR", "public/uploads"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		FirebaseStorageBucket:   getEnv("FIREBASE_STORAGE_BUCKET", ""),
	}
}

// IsProduction reports whether cookies should be marked Secure
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
