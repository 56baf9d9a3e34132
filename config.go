package main

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config carries all process configuration. It is built once in main and
// passed to the pieces that need it; nothing reads the environment after
// startup.
type Config struct {
	Port          string
	DatabaseDSN   string
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Env           string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func loadConfig() Config {
	loadDotEnv()
	return Config{
		Port:        getenv("PORT", "3000"),
		DatabaseDSN: os.Getenv("DB_DSN"),
		// Insecure fallbacks for local development only; a deployment must
		// override both secrets.
		AccessSecret:  getenv("JWT_SECRET", "secretkey"),
		RefreshSecret: getenv("JWT_REFRESH_SECRET", "your-refresh-secret-key-change-in-production"),
		AccessTTL:     time.Duration(getenvInt("ACCESS_TOKEN_TTL_MINUTES", 15)) * time.Minute,
		RefreshTTL:    time.Duration(getenvInt("REFRESH_TOKEN_TTL_DAYS", 7)) * 24 * time.Hour,
		Env:           getenv("APP_ENV", "dev"),
	}
}

// loadDotEnv loads key=value pairs from a local .env file into the environment
// without overwriting variables that are already set. Lines starting with # are ignored.
func loadDotEnv() {
	path := ".env"
	if _, err := os.Stat(path); err != nil {
		return // no .env file
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// split on first '='
		if eq := strings.IndexByte(line, '='); eq > 0 {
			key := strings.TrimSpace(line[:eq])
			val := strings.TrimSpace(line[eq+1:])
			if _, exists := os.LookupEnv(key); !exists {
				_ = os.Setenv(key, val)
			}
		}
	}
}
