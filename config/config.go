package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

var (
	BIND_ADDRESS = "0.0.0.0:3001"
	TLS_DOMAINS  = "" // e.g. "photos.example.com" - enables autotls when set
	DEBUG_MODE   = true
	CORS_ORIGINS = "*" // comma-separated origin allow-list, "*" allows any

	MYSQL_DSN   = "" // MySQL will be used if this is set
	SQLITE_FILE = "ourphotos.db"

	JWT_SECRET = "change-me-in-production"

	// Media store: "minio" or "s3"
	MEDIA_BACKEND = "minio"

	MINIO_ENDPOINT   = "localhost:9000"
	MINIO_ACCESS_KEY = "minioadmin"
	MINIO_SECRET_KEY = "minioadmin"
	MINIO_BUCKET     = "photos"
	MINIO_USE_SSL    = false
	MINIO_PUBLIC_URL = "" // external base URL for stored objects, defaults to the endpoint

	S3_BUCKET     = ""
	S3_REGION     = "us-east-1"
	S3_ENDPOINT   = "" // custom endpoint for S3-compatible stores
	S3_ACCESS_KEY = ""
	S3_SECRET_KEY = ""
	S3_PUBLIC_URL = ""
)

func init() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	readEnvString("BIND_ADDRESS", &BIND_ADDRESS)
	readEnvString("TLS_DOMAINS", &TLS_DOMAINS)
	readEnvBool("DEBUG_MODE", &DEBUG_MODE)
	readEnvString("CORS_ORIGINS", &CORS_ORIGINS)
	readEnvString("MYSQL_DSN", &MYSQL_DSN)
	readEnvString("SQLITE_FILE", &SQLITE_FILE)
	readEnvString("JWT_SECRET", &JWT_SECRET)
	readEnvString("MEDIA_BACKEND", &MEDIA_BACKEND)
	readEnvString("MINIO_ENDPOINT", &MINIO_ENDPOINT)
	readEnvString("MINIO_ACCESS_KEY", &MINIO_ACCESS_KEY)
	readEnvString("MINIO_SECRET_KEY", &MINIO_SECRET_KEY)
	readEnvString("MINIO_BUCKET", &MINIO_BUCKET)
	readEnvBool("MINIO_USE_SSL", &MINIO_USE_SSL)
	readEnvString("MINIO_PUBLIC_URL", &MINIO_PUBLIC_URL)
	readEnvString("S3_BUCKET", &S3_BUCKET)
	readEnvString("S3_REGION", &S3_REGION)
	readEnvString("S3_ENDPOINT", &S3_ENDPOINT)
	readEnvString("S3_ACCESS_KEY", &S3_ACCESS_KEY)
	readEnvString("S3_SECRET_KEY", &S3_SECRET_KEY)
	readEnvString("S3_PUBLIC_URL", &S3_PUBLIC_URL)
}

// AllowedOrigins returns the parsed CORS allow-list.
func AllowedOrigins() []string {
	result := []string{}
	for _, origin := range strings.Split(CORS_ORIGINS, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			result = append(result, origin)
		}
	}
	if len(result) == 0 {
		return []string{"*"}
	}
	return result
}

func readEnvString(name string, value *string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	*value = v
}

func readEnvBool(name string, value *bool) {
	v := strings.ToLower(os.Getenv(name))
	if v == "true" || v == "1" || v == "yes" || v == "on" {
		*value = true
	} else if v == "false" || v == "0" || v == "no" || v == "off" {
		*value = false
	}
}
