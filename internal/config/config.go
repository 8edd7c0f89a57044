package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultCORSOrigins = "http://localhost:3000"

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string
	LogLevel    string
	LogFormat   string
	MinIO       MinIOConfig
}

// MinIOConfig foto bukti (panen, hama) untuk disimpan di object storage.
// Endpoint kosong berarti upload foto dimatikan.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

// Load membaca .env (jika ada) lalu environment. DATABASE_DSN dan
// JWT_SECRET wajib diisi.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("CORS_ALLOWED_ORIGINS", defaultCORSOrigins)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("MINIO_BUCKET", "sawitku")
	v.SetDefault("MINIO_USE_SSL", false)

	cfg := &Config{
		HTTPPort:    v.GetString("HTTP_PORT"),
		DatabaseDSN: v.GetString("DATABASE_DSN"),
		JWTSecret:   v.GetString("JWT_SECRET"),
		CORSOrigins: v.GetString("CORS_ALLOWED_ORIGINS"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		LogFormat:   v.GetString("LOG_FORMAT"),
		MinIO: MinIOConfig{
			Endpoint:  v.GetString("MINIO_ENDPOINT"),
			AccessKey: v.GetString("MINIO_ACCESS_KEY"),
			SecretKey: v.GetString("MINIO_SECRET_KEY"),
			Bucket:    v.GetString("MINIO_BUCKET"),
			UseSSL:    v.GetBool("MINIO_USE_SSL"),
			PublicURL: v.GetString("MINIO_PUBLIC_URL"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DatabaseDSN == "" {
		return errors.New("DATABASE_DSN belum diisi")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET belum diisi")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET minimal 32 karakter, sekarang %d", len(c.JWTSecret))
	}
	return nil
}

// UsesDefaultCORS true kalau origin belum diganti untuk production.
func (c *Config) UsesDefaultCORS() bool {
	return c.CORSOrigins == defaultCORSOrigins
}

// AllowedOrigins memecah CORS_ALLOWED_ORIGINS yang dipisah koma.
func (c *Config) AllowedOrigins() []string {
	parts := strings.Split(c.CORSOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
