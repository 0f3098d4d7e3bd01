package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	AuthProviderJWT      = "jwt"
	AuthProviderFirebase = "firebase"

	UserDirectoryPostgres = "postgres"
	UserDirectoryFirebase = "firebase"
)

type Config struct {
	Port                    string
	Env                     string
	FirebaseCredentialsPath string
	PostgresConnStr         string
	MongoURI                string
	MongoDatabase           string
	RedisURL                string
	AuthProvider            string
	JWTSecret               string
	UserDirectory           string
	MetricsPort             string
	RequestTimeout          time.Duration
	AuthorCacheTTL          time.Duration
}

// Load reads the configuration from the environment, after merging an
// optional .env file.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "quill"),
		RedisURL:                getEnv("REDIS_URL", ""),
		AuthProvider:            getEnv("AUTH_PROVIDER", AuthProviderJWT),
		JWTSecret:               getEnv("JWT_SECRET", ""),
		UserDirectory:           getEnv("USER_DIRECTORY", UserDirectoryPostgres),
		MetricsPort:             getEnv("METRICS_PORT", "9090"),
		RequestTimeout:          getDuration("REQUEST_TIMEOUT", 10*time.Second),
		AuthorCacheTTL:          getDuration("AUTHOR_CACHE_TTL", 5*time.Minute),
	}
}

// Validate reports the first missing or inconsistent setting.
func (c *Config) Validate() error {
	if c.PostgresConnStr == "" {
		return fmt.Errorf("POSTGRES_CONN_STR environment variable not set")
	}
	if c.MongoURI == "" {
		return fmt.Errorf("MONGO_URI environment variable not set")
	}

	switch c.AuthProvider {
	case AuthProviderJWT:
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET must be set when AUTH_PROVIDER is %q", AuthProviderJWT)
		}
	case AuthProviderFirebase:
	default:
		return fmt.Errorf("unknown AUTH_PROVIDER %q", c.AuthProvider)
	}

	switch c.UserDirectory {
	case UserDirectoryPostgres, UserDirectoryFirebase:
	default:
		return fmt.Errorf("unknown USER_DIRECTORY %q", c.UserDirectory)
	}

	if c.NeedsFirebase() && c.FirebaseCredentialsPath == "" {
		return fmt.Errorf("FIREBASE_CREDENTIALS_PATH must be set to use Firebase")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	return nil
}

// NeedsFirebase reports whether any component is backed by Firebase.
func (c *Config) NeedsFirebase() bool {
	return c.AuthProvider == AuthProviderFirebase || c.UserDirectory == UserDirectoryFirebase
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: invalid %s %q, using %s", key, raw, defaultValue)
		return defaultValue
	}
	return d
}
