package config

import (
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store backends
const (
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Mongo    MongoConfig
	Database DatabaseConfig
	CORS     CORSConfig
}

type ServerConfig struct {
	Port     string
	Env      string
	LogLevel string
}

type StoreConfig struct {
	Backend string
}

type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// IsDevelopment reports whether the server runs outside production
func (c *Config) IsDevelopment() bool {
	return c.Server.Env != "production"
}

// DSN builds the Postgres connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable&search_path=%s",
		url.QueryEscape(d.User), url.QueryEscape(d.Password), d.Host, d.Port, d.Database, d.Schema)
}

func Load() *Config {
	// Export .env into the process environment first so that both viper and
	// anything reading os.Getenv see the same values.
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env: %v", err)
	}

	v := viper.New()
	v.AutomaticEnv()

	// Set defaults
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORE_BACKEND", BackendMongo)
	v.SetDefault("MONGO_HOST", "cluster0.zdihtln.mongodb.net")
	v.SetDefault("MONGO_DATABASE", "toyTopia")
	v.SetDefault("MONGO_COLLECTION", "allToys")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SCHEMA", "public")

	return &Config{
		Server: ServerConfig{
			Port:     serverPort(v),
			Env:      v.GetString("SERVER_ENV"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		Store: StoreConfig{
			Backend: strings.ToLower(v.GetString("STORE_BACKEND")),
		},
		Mongo: MongoConfig{
			URI:        mongoURI(v),
			Database:   v.GetString("MONGO_DATABASE"),
			Collection: v.GetString("MONGO_COLLECTION"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Database: v.GetString("DB_DATABASE"),
			Schema:   v.GetString("DB_SCHEMA"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
	}
}

// serverPort prefers SERVER_PORT, then the platform-provided PORT
func serverPort(v *viper.Viper) string {
	if port := v.GetString("SERVER_PORT"); port != "" {
		return port
	}
	if port := v.GetString("PORT"); port != "" {
		return port
	}
	return "5000"
}

// mongoURI returns MONGO_URI verbatim or assembles an Atlas SRV URI from
// MONGO_USER and MONGO_PASS. DB_USER and DB_PASS are read only when those are
// unset; DB_USER is also the Postgres user.
func mongoURI(v *viper.Viper) string {
	if uri := v.GetString("MONGO_URI"); uri != "" {
		return uri
	}

	return fmt.Sprintf("mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority",
		url.QueryEscape(firstSet(v, "MONGO_USER", "DB_USER")),
		url.QueryEscape(firstSet(v, "MONGO_PASS", "DB_PASS")),
		v.GetString("MONGO_HOST"),
	)
}

func firstSet(v *viper.Viper, keys ...string) string {
	for _, key := range keys {
		if value := v.GetString(key); value != "" {
			return value
		}
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
