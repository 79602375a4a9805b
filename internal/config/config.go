// Package config loads server configuration from the environment, with a
// .env file picked up when present.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/plink/plink/internal/media"
)

// Config is the full server configuration.
type Config struct {
	Addr    string
	DBPath  string
	LogPath string

	RedisAddr     string
	RedisPassword string

	// AdminEmail is the bootstrap admin account created on first run.
	AdminEmail string

	// CORSOrigins lists allowed browser origins. Empty means same-origin
	// only.
	CORSOrigins []string

	// GeminiAPIKey enables photo analysis in the wizard. Empty disables
	// the feature.
	GeminiAPIKey string

	// MediaBackend selects where uploads go: "db" (default) or "s3".
	MediaBackend string
	S3           media.S3Config

	// MaxUploadBytes caps a single upload. Videos are larger than photos,
	// so the default is generous.
	MaxUploadBytes int64
}

const defaultMaxUpload = 100 << 20

// Load reads configuration from the environment.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Addr:          getEnv("PLINK_ADDR", ":8080"),
		DBPath:        getEnv("PLINK_DB", "plink.sqlite3"),
		LogPath:       os.Getenv("PLINK_LOG"),
		RedisAddr:     getEnv("PLINK_REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("PLINK_REDIS_PASSWORD"),
		AdminEmail:    getEnv("PLINK_ADMIN_EMAIL", "admin@plink.local"),
		GeminiAPIKey:  os.Getenv("PLINK_GEMINI_API_KEY"),
		MediaBackend:  getEnv("PLINK_MEDIA_BACKEND", "db"),
		S3: media.S3Config{
			Bucket:          os.Getenv("PLINK_S3_BUCKET"),
			Region:          getEnv("PLINK_S3_REGION", "eu-west-2"),
			Endpoint:        os.Getenv("PLINK_S3_ENDPOINT"),
			AccessKeyID:     os.Getenv("PLINK_S3_ACCESS_KEY"),
			SecretAccessKey: os.Getenv("PLINK_S3_SECRET_KEY"),
		},
		MaxUploadBytes: defaultMaxUpload,
	}

	if origins := os.Getenv("PLINK_CORS_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
