package config

import (
	"fmt"
	"net"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env            string
	Addr           string
	DBPath         string
	AllowedOrigins []string

	RateLimitWindow time.Duration
	RateLimitMax    int
	SubmitLimitMax  int

	LogLevel string

	AppName        string
	AppVersion     string
	AppDescription string

	MaintenanceMode bool
}

// Parse reads configuration from the environment, loading a .env file
// first when one is present.
func Parse() (cfg Config, err error) {
	_ = godotenv.Load()

	cfg.Env = getEnv("GO_ENV", "development")

	host := getEnv("HOST", "localhost")
	port, err := getEnvInt("PORT", 3000)
	if err != nil {
		return
	}
	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(port))

	cfg.DBPath = getEnv("DB_PATH", "./mySurveyDB.db")
	cfg.AllowedOrigins = getEnvList("ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")

	windowMs, err := getEnvInt("RATE_LIMIT_WINDOW_MS", 900000)
	if err != nil {
		return
	}
	cfg.RateLimitWindow = time.Duration(windowMs) * time.Millisecond
	cfg.RateLimitMax, err = getEnvInt("RATE_LIMIT_MAX_REQUESTS", 100)
	if err != nil {
		return
	}
	cfg.SubmitLimitMax, err = getEnvInt("SUBMIT_RATE_LIMIT_MAX", 5)
	if err != nil {
		return
	}

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")

	cfg.AppName = getEnv("APP_NAME", "dKin Butterfly Club")
	cfg.AppVersion = getEnv("APP_VERSION", "1.0.0")
	cfg.AppDescription = getEnv("APP_DESCRIPTION", "Informative web page on Butterflies from around the world")

	cfg.MaintenanceMode = getEnvBool("MAINTENANCE_MODE", false)

	err = cfg.validate(port)
	return
}

func (cfg Config) validate(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid port number: %d, must be between 1-65535", port)
	}
	if cfg.RateLimitMax < 1 {
		return fmt.Errorf("RATE_LIMIT_MAX_REQUESTS must be greater than 0")
	}
	if cfg.SubmitLimitMax < 1 {
		return fmt.Errorf("SUBMIT_RATE_LIMIT_MAX must be greater than 0")
	}
	return nil
}

func (cfg Config) Production() bool {
	return cfg.Env == "production"
}

func (cfg Config) Url() (url string) {
	url = cfg.Addr
	url = regexp.MustCompile(`^0.0.0.0`).ReplaceAllString(url, "localhost")
	url = "http://" + url
	return
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("environment variable %s must be a valid number, got: %s", key, v)
	}
	return n, nil
}

func getEnvBool(key string, def bool) bool {
	switch os.Getenv(key) {
	case "true", "1", "yes":
		return true
	case "":
		return def
	default:
		return false
	}
}

func getEnvList(key, def string) (list []string) {
	v := os.Getenv(key)
	if v == "" {
		v = def
	}
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return
}
