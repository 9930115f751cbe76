package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	StoreBackendGorm = "gorm"
	StoreBackendREST = "rest"
)

var (
	JwtSecret   string
	Issuer      string
	ServerPort  string
	GinMode     string
	Environment string
	LogFile     string
	CORSOrigins []string

	DatabaseURL string
	DbHost      string
	DbPort      string
	DbUser      string
	DbPassword  string
	DbName      string
	DebugSQL    bool

	StoreBackend string
	RestURL      string
	RestAPIKey   string
	RestTimeout  time.Duration
	RestRetries  int

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	MinioBucket    string
	PresignExpiry  time.Duration

	AuditRetentionDays int
	AuditCleanupSpec   string
	ProjectCacheTTL    time.Duration
	RecentNotesLimit   int
)

// fileConfig mirrors the keys accepted in CONFIG_FILE. Empty values keep
// whatever the environment provided.
type fileConfig struct {
	ServerPort         string   `yaml:"server_port"`
	Issuer             string   `yaml:"issuer"`
	CORSOrigins        []string `yaml:"cors_origins"`
	DatabaseURL        string   `yaml:"database_url"`
	StoreBackend       string   `yaml:"store_backend"`
	RestURL            string   `yaml:"rest_url"`
	RestTimeout        string   `yaml:"rest_timeout"`
	RestRetries        *int     `yaml:"rest_retries"`
	MinioEndpoint      string   `yaml:"minio_endpoint"`
	MinioBucket        string   `yaml:"minio_bucket"`
	AuditRetentionDays *int     `yaml:"audit_retention_days"`
	AuditCleanupSpec   string   `yaml:"audit_cleanup_spec"`
	ProjectCacheTTL    string   `yaml:"project_cache_ttl"`
	RecentNotesLimit   *int     `yaml:"recent_notes_limit"`
}

func LoadConfig() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	JwtSecret = getEnv("JWT_SECRET", "defaultsecret")
	Issuer = getEnv("ISSUER", "")
	ServerPort = getEnv("SERVER_PORT", "8080")
	GinMode = getEnv("GIN_MODE", "debug")
	Environment = strings.ToLower(getEnv("ENVIRONMENT", "development"))
	LogFile = getEnv("LOG_FILE", "")
	CORSOrigins = splitList(getEnv("CORS_ORIGINS", "http://localhost:5173"))

	DatabaseURL = getEnv("DATABASE_URL", "")
	DbHost = getEnv("DB_HOST", "localhost")
	DbPort = getEnv("DB_PORT", "5432")
	DbUser = getEnv("DB_USER", "postgres")
	DbPassword = getEnv("DB_PASSWORD", "password")
	DbName = getEnv("DB_NAME", "nephra")
	DebugSQL, _ = strconv.ParseBool(getEnv("DEBUG_SQL", "false"))

	StoreBackend = strings.ToLower(getEnv("STORE_BACKEND", StoreBackendGorm))
	RestURL = getEnv("REST_URL", "http://localhost:54321")
	RestAPIKey = getEnv("REST_API_KEY", "")
	RestTimeout = getDuration("REST_TIMEOUT", 15*time.Second)
	RestRetries = getInt("REST_RETRIES", 2)

	MinioEndpoint = getEnv("MINIO_ENDPOINT", "localhost:9000")
	MinioAccessKey = getEnv("MINIO_ACCESS_KEY", "minioadmin")
	MinioSecretKey = getEnv("MINIO_SECRET_KEY", "minioadmin")
	MinioBucket = getEnv("MINIO_BUCKET", "application-attachments")
	MinioUseSSL, _ = strconv.ParseBool(getEnv("MINIO_USE_SSL", "false"))
	PresignExpiry = getDuration("PRESIGN_EXPIRY", time.Hour)

	AuditRetentionDays = getInt("AUDIT_RETENTION_DAYS", 90)
	AuditCleanupSpec = getEnv("AUDIT_CLEANUP_SPEC", "@daily")
	ProjectCacheTTL = getDuration("PROJECT_CACHE_TTL", 5*time.Minute)
	RecentNotesLimit = getInt("RECENT_NOTES_LIMIT", 3)

	if path := getEnv("CONFIG_FILE", ""); path != "" {
		if err := loadFile(path); err != nil {
			log.Printf("Warning: failed to load config file %s: %v", path, err)
		}
	}
}

func loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return err
	}
	applyFile(fc)
	return nil
}

func applyFile(fc fileConfig) {
	overlay(&ServerPort, fc.ServerPort)
	overlay(&Issuer, fc.Issuer)
	overlay(&DatabaseURL, fc.DatabaseURL)
	overlay(&StoreBackend, strings.ToLower(fc.StoreBackend))
	overlay(&RestURL, fc.RestURL)
	overlay(&MinioEndpoint, fc.MinioEndpoint)
	overlay(&MinioBucket, fc.MinioBucket)
	overlay(&AuditCleanupSpec, fc.AuditCleanupSpec)
	if len(fc.CORSOrigins) > 0 {
		CORSOrigins = fc.CORSOrigins
	}
	if d, err := time.ParseDuration(fc.RestTimeout); err == nil {
		RestTimeout = d
	}
	if d, err := time.ParseDuration(fc.ProjectCacheTTL); err == nil {
		ProjectCacheTTL = d
	}
	if fc.RestRetries != nil {
		RestRetries = *fc.RestRetries
	}
	if fc.AuditRetentionDays != nil {
		AuditRetentionDays = *fc.AuditRetentionDays
	}
	if fc.RecentNotesLimit != nil {
		RecentNotesLimit = *fc.RecentNotesLimit
	}
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
