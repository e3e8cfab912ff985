package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath        string
	RawPayloadDir string
	OutputDir     string

	NaverAPIBaseURL   string
	NaverClientID     string
	NaverClientSecret string
	NaverRateLimitRPS int
	NaverTimeoutMs    int
	FetchLookbackHrs  int

	MySQLDSN string

	SheetID               string
	SheetRange            string
	SheetsCredentialsFile string

	ListenerIntervalSec  int
	ListenerProcessBatch int
	ListenerAutoExport   bool
	ListenerPushSheet    bool
	ListenerSyncDB       bool
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:        getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),
		RawPayloadDir: getEnv("PAYLOAD_RAW_DIR", filepath.Join(cwd, "data", "raw")),
		OutputDir:     getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),

		NaverAPIBaseURL:   getEnv("NAVER_API_BASE_URL", "https://api.commerce.naver.com/external/v1"),
		NaverClientID:     getEnv("NAVER_CLIENT_ID", ""),
		NaverClientSecret: getEnv("NAVER_CLIENT_SECRET", ""),
		NaverRateLimitRPS: getEnvInt("NAVER_RATE_LIMIT_RPS", 2),
		NaverTimeoutMs:    getEnvInt("NAVER_TIMEOUT_MS", 30000),
		FetchLookbackHrs:  getEnvInt("FETCH_LOOKBACK_HOURS", 24),

		MySQLDSN: getEnv("MYSQL_DSN", ""),

		SheetID:               getEnv("SHEET_ID", ""),
		SheetRange:            getEnv("SHEET_RANGE", "input!A40"),
		SheetsCredentialsFile: getEnv("SHEETS_CREDENTIALS_FILE", ""),

		ListenerIntervalSec:  getEnvInt("LISTENER_INTERVAL_SEC", 300),
		ListenerProcessBatch: getEnvInt("LISTENER_PROCESS_BATCH", 20),
		ListenerAutoExport:   getEnvBool("LISTENER_AUTO_EXPORT", true),
		ListenerPushSheet:    getEnvBool("LISTENER_PUSH_SHEET", false),
		ListenerSyncDB:       getEnvBool("LISTENER_SYNC_DB", false),
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}
