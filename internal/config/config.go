// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all runtime configuration for the scout service.
type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string

	LinkedInEmail    string
	LinkedInPassword string

	OllamaBaseURL string
	LLMModel      string

	SearchTerm string // default query used by the scheduled run
	MaxPosts   int    // cap on posts ingested per run
	AssetDir   string // where fetched images and captions are written

	ScrapeCronSpec  string // weekly trigger, server local time
	BrowserHeadless bool
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	email := os.Getenv("LINKEDIN_EMAIL")
	if email == "" {
		return nil, fmt.Errorf("LINKEDIN_EMAIL is required")
	}

	password := os.Getenv("LINKEDIN_PASSWORD")
	if password == "" {
		return nil, fmt.Errorf("LINKEDIN_PASSWORD is required")
	}

	maxPosts := 5
	if s := os.Getenv("MAX_POSTS"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("MAX_POSTS must be a positive integer, got %q", s)
		}
		maxPosts = v
	}

	headless := true
	if s := os.Getenv("BROWSER_HEADLESS"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("BROWSER_HEADLESS must be a boolean, got %q", s)
		}
		headless = v
	}

	port := os.Getenv("SCOUT_PORT")
	if port == "" {
		port = "8083"
	}

	return &Config{
		Port:             port,
		DatabaseURL:      dbURL,
		RedisURL:         redisURL,
		LinkedInEmail:    email,
		LinkedInPassword: password,
		OllamaBaseURL:    envOr("OLLAMA_BASE_URL", "http://localhost:11434"),
		LLMModel:         envOr("LLM_MODEL", "llama3.1:8b"),
		SearchTerm:       envOr("SEARCH_TERM", "Cognizant Walk-in Kolkata"),
		MaxPosts:         maxPosts,
		AssetDir:         envOr("ASSET_DIR", "./static/images"),
		ScrapeCronSpec:   envOr("SCRAPE_CRON", "0 9 * * THU"),
		BrowserHeadless:  headless,
	}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
