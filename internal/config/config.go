// internal/config/config.go
// Loader konfigurasi dari environment variables (opsional .env lewat godotenv)
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppName   string
	AppEnv    string
	AppPort   string
	LogLevel  string
	LogPretty bool

	CORSOrigins []string

	DB struct {
		Driver   string // sqlite | mysql
		DSN      string // override penuh, kalau diisi host/port diabaikan
		Path     string // file sqlite
		Host     string
		Port     string
		Name     string
		User     string
		Password string
		MaxOpen  int
		MaxIdle  int
		CacheTTL time.Duration
	}

	Series struct {
		SpanMonths int
		Step       string // calendar | 30d
		Seed       int64  // 0 = seed dari waktu
	}

	Sim struct {
		Seed int64
	}

	Admin struct {
		APIKey    string
		User      string
		PassHash  string
		JWTSecret string
		UploadDir string
	}

	LLM struct {
		APIKey  string
		BaseURL string
		Model   string
	}

	Worker struct {
		ExportDir string
		Schedule  string // cron with seconds
	}
}

// Load membaca .env (kalau ada) lalu environment.
func Load() *Config {
	_ = godotenv.Load()

	c := &Config{}
	c.AppName = getEnv("APP_NAME", "wellprod")
	c.AppEnv = getEnv("APP_ENV", "development")
	c.AppPort = getEnv("APP_PORT", "8080")
	c.LogLevel = getEnv("LOG_LEVEL", "info")
	c.LogPretty = getEnvBool("LOG_PRETTY", c.AppEnv == "development")
	c.CORSOrigins = getEnvList("CORS_ORIGINS")

	c.DB.Driver = strings.ToLower(getEnv("DB_DRIVER", "sqlite"))
	c.DB.DSN = getEnv("DB_DSN", "")
	c.DB.Path = getEnv("SQLITE_PATH", "data/production.db")
	c.DB.Host = getEnv("MYSQL_HOST", "localhost")
	c.DB.Port = getEnv("MYSQL_PORT", "3306")
	c.DB.Name = getEnv("MYSQL_DB", "production")
	c.DB.User = getEnv("MYSQL_USER", "root")
	c.DB.Password = getEnv("MYSQL_PASSWORD", "")
	c.DB.MaxOpen = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	c.DB.MaxIdle = getEnvInt("DB_MAX_IDLE_CONNS", 5)
	c.DB.CacheTTL = getEnvDuration("DATA_CACHE_TTL", time.Hour)

	c.Series.SpanMonths = getEnvInt("SERIES_SPAN_MONTHS", 24)
	c.Series.Step = getEnv("SERIES_STEP", "calendar")
	c.Series.Seed = int64(getEnvInt("SERIES_SEED", 0))
	c.Sim.Seed = int64(getEnvInt("SIM_SEED", 42))

	c.Admin.APIKey = getEnv("API_KEY", "")
	c.Admin.User = getEnv("ADMIN_USER", "admin")
	c.Admin.PassHash = getEnv("ADMIN_PASS_HASH", "")
	c.Admin.JWTSecret = getEnv("ADMIN_JWT_SECRET", "")
	c.Admin.UploadDir = getEnv("UPLOAD_DIR", "uploads")

	c.LLM.APIKey = getEnv("OPENAI_API_KEY", "")
	c.LLM.BaseURL = getEnv("OPENAI_BASE_URL", "")
	c.LLM.Model = getEnv("OPENAI_MODEL", "gpt-4o-mini")

	c.Worker.ExportDir = getEnv("EXPORT_DIR", "exports")
	c.Worker.Schedule = getEnv("SNAPSHOT_SCHEDULE", "0 0 1 * * *")
	return c
}

// Validate checks values that would otherwise fail much later.
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case "sqlite", "mysql":
	default:
		return fmt.Errorf("DB_DRIVER must be sqlite or mysql, got %q", c.DB.Driver)
	}
	if c.Series.SpanMonths <= 0 {
		return fmt.Errorf("SERIES_SPAN_MONTHS must be positive, got %d", c.Series.SpanMonths)
	}
	if _, err := strconv.Atoi(c.AppPort); err != nil {
		return fmt.Errorf("APP_PORT: %w", err)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var i int
		_, err := fmt.Sscanf(v, "%d", &i)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

// getEnvDuration menerima "90s", "1h" atau angka detik polos.
func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return def
}

// getEnvList: "a, b,c" -> [a b c]; kosong -> nil.
func getEnvList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
