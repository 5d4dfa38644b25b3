package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	VenueFile string
	API       APIConfig
	Log       LogConfig
}

type APIConfig struct {
	URL     string
	Token   string
	Timeout time.Duration
}

type LogConfig struct {
	Level  string
	Format string
	File   string
}

func New() (*Config, error) {
	const op = "config.New"

	_ = godotenv.Load()

	timeoutStr := os.Getenv("SEATMAP_HTTP_TIMEOUT")
	if timeoutStr == "" {
		timeoutStr = "12s"
	}

	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid SEATMAP_HTTP_TIMEOUT: %w", op, err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("%s: invalid SEATMAP_HTTP_TIMEOUT: must be positive", op)
	}

	apiCfg := APIConfig{
		URL:     strings.TrimRight(os.Getenv("SEATMAP_API_URL"), "/"),
		Token:   os.Getenv("SEATMAP_API_TOKEN"),
		Timeout: timeout,
	}

	level := strings.ToLower(os.Getenv("SEATMAP_LOG_LEVEL"))
	if level == "" {
		level = "info"
	}

	format := strings.ToLower(os.Getenv("SEATMAP_LOG_FORMAT"))
	if format == "" {
		format = "text"
	}
	if format != "text" && format != "json" {
		return nil, fmt.Errorf("%s: invalid SEATMAP_LOG_FORMAT %q", op, format)
	}

	logFile := os.Getenv("SEATMAP_LOG_FILE")
	if logFile == "" {
		logFile = defaultLogFile()
	}

	return &Config{
		VenueFile: os.Getenv("SEATMAP_VENUE_FILE"),
		API:       apiCfg,
		Log: LogConfig{
			Level:  level,
			Format: format,
			File:   logFile,
		},
	}, nil
}

func defaultLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil || dir == "" {
		return filepath.Join(os.TempDir(), "seatmap.log")
	}
	return filepath.Join(dir, "seatmap", "seatmap.log")
}
