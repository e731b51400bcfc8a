package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds environment driven configuration values.
// Secrets such as the redis password should be provided via env files or the environment.
type AppConfig struct {
	AppPort string
	// Backend REST API
	APIBaseURL    string
	APITimeoutSec int
	// Gin framework configuration
	GinMode        string
	GinPath        string
	AllowedOrigins []string
	StaticDir      string
	// Login submit throttling
	RateLimitPerMinute int
	// Session cookie and store
	CookieName      string
	CookieSecure    bool
	SessionTTLHours int
	// Notice bar configuration
	NoticeTitle string
	NoticeHTML  string
	// Redis for sessions; empty host selects the in-memory store
	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string
	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
}

var cfg AppConfig
var loaded bool

// ErrMissingAPIBaseURL is returned when no backend base URL is configured.
var ErrMissingAPIBaseURL = errors.New("API_URL must be set in config or environment")

// Load loads the application configuration. It should be called once during boot.
func Load() AppConfig {
	if loaded {
		return cfg
	}

	c, err := LoadFrom(filepath.Join("config", "config.json"), ".env")
	if err != nil {
		log.Fatal(err)
	}

	cfg = c
	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

// LoadFrom builds a configuration without touching the cached value.
// Precedence: JSON file -> defaults -> .env file -> environment variable overrides.
func LoadFrom(jsonPath, envFile string) (AppConfig, error) {
	var out AppConfig
	if err := loadJSONConfig(jsonPath, &out); err != nil {
		return out, err
	}

	applyDefaults(&out)

	// godotenv never overrides variables already present in the process environment
	if envFile != "" {
		_ = godotenv.Load(envFile)
	}
	applyEnvOverrides(&out)

	if out.APIBaseURL == "" {
		return out, ErrMissingAPIBaseURL
	}
	out.APIBaseURL = strings.TrimRight(out.APIBaseURL, "/")
	return out, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// loadJSONConfig reads JSON file into out if present. Returns error only for invalid JSON.
func loadJSONConfig(path string, out *AppConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return nil // silently ignore missing file
	}
	defer f.Close()

	var raw map[string]any
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return err
	}

	getString := func(m map[string]any, key string) string {
		if v, ok := m[key]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
		return ""
	}
	getInt := func(m map[string]any, key string) int {
		if v, ok := m[key]; ok {
			switch t := v.(type) {
			case float64:
				return int(t)
			case int:
				return t
			}
		}
		return 0
	}
	getBool := func(m map[string]any, key string) bool {
		if v, ok := m[key]; ok {
			if b, ok := v.(bool); ok {
				return b
			}
		}
		return false
	}
	getStringSlice := func(m map[string]any, key string) []string {
		if v, ok := m[key]; ok {
			if arr, ok := v.([]any); ok {
				res := make([]string, 0, len(arr))
				for _, it := range arr {
					if s, ok := it.(string); ok {
						res = append(res, s)
					}
				}
				return res
			}
		}
		return nil
	}

	// Grouped sections first, flat keys fill whatever is still empty
	if app, ok := raw["app"].(map[string]any); ok {
		out.AppPort = getString(app, "AppPort")
		out.StaticDir = getString(app, "StaticDir")
		out.RateLimitPerMinute = getInt(app, "RateLimitPerMinute")
		if list := getStringSlice(app, "AllowedOrigins"); len(list) > 0 {
			out.AllowedOrigins = list
		}
		out.CookieName = getString(app, "CookieName")
		out.CookieSecure = getBool(app, "CookieSecure")
		out.SessionTTLHours = getInt(app, "SessionTTLHours")
	}

	if api, ok := raw["api"].(map[string]any); ok {
		out.APIBaseURL = getString(api, "BaseURL")
		out.APITimeoutSec = getInt(api, "TimeoutSec")
	}

	if rds, ok := raw["redis"].(map[string]any); ok {
		out.RedisHost = getString(rds, "RedisHost")
		out.RedisPort = getInt(rds, "RedisPort")
		out.RedisDB = getInt(rds, "RedisDB")
		out.RedisPassword = getString(rds, "RedisPassword")
	}

	if nt, ok := raw["notice"].(map[string]any); ok {
		out.NoticeTitle = getString(nt, "Title")
		out.NoticeHTML = getString(nt, "HTML")
	}

	if lg, ok := raw["log"].(map[string]any); ok {
		out.LogLevel = getString(lg, "Level")
		out.LogPath = getString(lg, "Path")
		out.GinMode = getString(lg, "GinMode")
		out.GinPath = getString(lg, "GinPath")
		out.LogMaxSizeMB = getInt(lg, "MaxSizeMB")
		out.LogMaxBackups = getInt(lg, "MaxBackups")
		out.LogMaxAgeDays = getInt(lg, "MaxAgeDays")
		out.LogCompress = getBool(lg, "Compress")
	}

	// flat keys
	if out.AppPort == "" {
		out.AppPort = getString(raw, "AppPort")
	}
	if out.APIBaseURL == "" {
		out.APIBaseURL = getString(raw, "APIBaseURL")
	}
	if out.APITimeoutSec == 0 {
		out.APITimeoutSec = getInt(raw, "APITimeoutSec")
	}
	if out.GinMode == "" {
		out.GinMode = getString(raw, "GinMode")
	}
	if len(out.AllowedOrigins) == 0 {
		out.AllowedOrigins = getStringSlice(raw, "AllowedOrigins")
	}
	if out.RedisHost == "" {
		out.RedisHost = getString(raw, "RedisHost")
	}
	if out.LogLevel == "" {
		out.LogLevel = getString(raw, "LogLevel")
	}
	if out.LogPath == "" {
		out.LogPath = getString(raw, "LogPath")
	}
	return nil
}

func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "8080"
	}
	if c.APITimeoutSec == 0 {
		c.APITimeoutSec = 10
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.GinPath == "" {
		c.GinPath = "logs/go_gin.log"
	}
	if c.StaticDir == "" {
		c.StaticDir = "./static"
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = 30
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.CookieName == "" {
		c.CookieName = "blogfront_session"
	}
	if c.SessionTTLHours == 0 {
		c.SessionTTLHours = 24 * 30
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = 100
	}
	if c.LogMaxBackups == 0 {
		c.LogMaxBackups = 3
	}
	if c.LogMaxAgeDays == 0 {
		c.LogMaxAgeDays = 7
	}
}

func applyEnvOverrides(c *AppConfig) {
	if v := getEnv("APP_PORT", ""); v != "" {
		c.AppPort = v
	}
	if v := getEnv("API_URL", ""); v != "" {
		c.APIBaseURL = v
	}
	if v := getEnv("API_TIMEOUT_SEC", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.APITimeoutSec = n
		}
	}
	if v := getEnv("GIN_MODE", ""); v != "" {
		c.GinMode = v
	}
	if v := getEnv("GIN_PATH", ""); v != "" {
		c.GinPath = v
	}
	if v := getEnv("STATIC_DIR", ""); v != "" {
		c.StaticDir = v
	}
	if v := getEnv("RATE_LIMIT_PER_MINUTE", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RateLimitPerMinute = n
		}
	}
	if v := getEnv("CORS_ALLOWED_ORIGINS", ""); v != "" {
		c.AllowedOrigins = splitAndTrim(v)
	}
	if v := getEnv("COOKIE_NAME", ""); v != "" {
		c.CookieName = v
	}
	if v := getEnv("COOKIE_SECURE", ""); v != "" {
		c.CookieSecure = parseBool(v)
	}
	if v := getEnv("SESSION_TTL_HOURS", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.SessionTTLHours = n
		}
	}
	if v := getEnv("NOTICE_TITLE", ""); v != "" {
		c.NoticeTitle = v
	}
	if v := getEnv("NOTICE_HTML", ""); v != "" {
		c.NoticeHTML = v
	}
	if v := getEnv("REDIS_HOST", ""); v != "" {
		c.RedisHost = v
	}
	if v := getEnv("REDIS_PORT", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RedisPort = n
		}
	}
	if v := getEnv("REDIS_DB", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RedisDB = n
		}
	}
	if v := getEnv("REDIS_PASSWORD", ""); v != "" {
		c.RedisPassword = v
	}
	if v := getEnv("LOG_LEVEL", ""); v != "" {
		c.LogLevel = v
	}
	if v := getEnv("LOG_PATH", ""); v != "" {
		c.LogPath = v
	}
	if v := getEnv("LOG_MAX_SIZE_MB", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.LogMaxSizeMB = n
		}
	}
	if v := getEnv("LOG_MAX_BACKUPS", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.LogMaxBackups = n
		}
	}
	if v := getEnv("LOG_MAX_AGE_DAYS", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.LogMaxAgeDays = n
		}
	}
	if v := getEnv("LOG_COMPRESS", ""); v != "" {
		c.LogCompress = parseBool(v)
	}
}

func splitAndTrim(v string) []string {
	parts := strings.Split(v, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			res = append(res, p)
		}
	}
	return res
}

func parseBool(v string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	return err == nil && b
}
