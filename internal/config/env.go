package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// ServerConfig holds the HTTP API settings. Read from the environment only.
type ServerConfig struct {
	Port               string
	Env                string // development, staging, production
	CORSAllowedOrigins []string
	BatchConcurrency   int
}

// LoadServer reads server settings from the environment (and .env).
func LoadServer() ServerConfig {
	loadEnvFile()
	return ServerConfig{
		Port:               getEnv("API_PORT", "8080"),
		Env:                getEnv("API_ENV", "development"),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		BatchConcurrency:   getEnvAsInt("BATCH_CONCURRENCY", 4),
	}
}

// ApplyEnv overlays environment variables (and .env) onto c. Secrets such as
// the solver token are expected here rather than in the YAML file.
func ApplyEnv(c *Config) {
	loadEnvFile()
	c.Solver.Remote.Token = getEnv("SOLVER_API_TOKEN", c.Solver.Remote.Token)
	c.Solver.Remote.URL = getEnv("SOLVER_URL", c.Solver.Remote.URL)
	if name := os.Getenv("SOLVER_NAME"); name != "" {
		c.Solver.Name = name
	}
	c.Solver.NumReads = getEnvAsInt("SOLVER_NUM_READS", c.Solver.NumReads)
	c.Solver.Metrics = getEnvAsBool("SOLVER_METRICS", c.Solver.Metrics)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
}

// loadEnvFile tries to load .env from the working directory or next to the
// executable. Existing variables win.
func loadEnvFile() {
	paths := []string{".env"}
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
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
