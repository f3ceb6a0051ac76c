package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP server
	Port           string
	PublicOrigin   string
	AllowedOrigins []string

	// Upstreams
	APIBaseURL         string
	WebhookURL         string
	ImageWebhookURL    string
	WebhookSecret      string
	ImageWebhookSecret string
	PromptEncoding     string

	// Google Cloud
	ProjectID         string
	FirestoreDatabase string

	// Logging
	LogLevel  string
	LogFormat string

	// Dashboard
	Timezone       string
	CacheStaleTime time.Duration
	CacheGCTime    time.Duration
	FetchTimeout   time.Duration
	SessionTTL     time.Duration
}

// New reads the environment, after loading an optional .env file.
func New() *Config {
	_ = godotenv.Load()

	port := getEnv("PORT", "8080")
	return &Config{
		Port:           port,
		PublicOrigin:   getEnv("PUBLICORIGIN", "http://localhost:"+port),
		AllowedOrigins: getEnvList("ALLOWEDORIGINS"),

		APIBaseURL:         os.Getenv("APIBASEURL"),
		WebhookURL:         os.Getenv("WEBHOOKURL"),
		ImageWebhookURL:    os.Getenv("IMAGEWEBHOOKURL"),
		WebhookSecret:      os.Getenv("WEBHOOKSECRET"),
		ImageWebhookSecret: os.Getenv("IMAGEWEBHOOKSECRET"),
		PromptEncoding:     strings.ToLower(getEnv("PROMPTENCODING", "json")),

		ProjectID:         os.Getenv("PROJECTID"),
		FirestoreDatabase: os.Getenv("FIRESTOREDATABASE"),

		LogLevel:  getEnv("LOGLEVEL", "info"),
		LogFormat: strings.ToLower(getEnv("LOGFORMAT", "cloudrun")),

		Timezone:       getEnv("TIMEZONE", "UTC"),
		CacheStaleTime: getEnvDuration("CACHESTALETIME", 5*time.Minute),
		CacheGCTime:    getEnvDuration("CACHEGCTIME", 10*time.Minute),
		FetchTimeout:   getEnvDuration("FETCHTIMEOUT", 30*time.Second),
		SessionTTL:     getEnvDuration("SESSIONTTL", 24*time.Hour),
	}
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	for _, u := range []struct{ name, value string }{
		{"PUBLICORIGIN", c.PublicOrigin},
		{"APIBASEURL", c.APIBaseURL},
		{"WEBHOOKURL", c.WebhookURL},
		{"IMAGEWEBHOOKURL", c.ImageWebhookURL},
	} {
		if u.value == "" {
			continue
		}
		if msg := checkURL(u.value); msg != "" {
			problems = append(problems, fmt.Sprintf("invalid %s '%s': %s", u.name, u.value, msg))
		}
	}

	// The spendings API must be another service; our own /spendings needs a session.
	switch {
	case strings.TrimSpace(c.APIBaseURL) == "":
		problems = append(problems, "APIBASEURL is required: falling back to PUBLICORIGIN would call this service's own /spendings")
	case sameOrigin(c.APIBaseURL, c.PublicOrigin):
		problems = append(problems, fmt.Sprintf("invalid APIBASEURL '%s': points at this service (PUBLICORIGIN)", c.APIBaseURL))
	}

	if c.PromptEncoding != "json" && c.PromptEncoding != "form" {
		problems = append(problems, fmt.Sprintf("invalid prompt encoding '%s': must be 'json' or 'form'", c.PromptEncoding))
	}
	if c.LogFormat != "cloudrun" && c.LogFormat != "text" {
		problems = append(problems, fmt.Sprintf("invalid log format '%s': must be 'cloudrun' or 'text'", c.LogFormat))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		problems = append(problems, fmt.Sprintf("invalid timezone '%s': %v", c.Timezone, err))
	}

	if (c.WebhookSecret != "" || c.ImageWebhookSecret != "") && c.ProjectID == "" {
		problems = append(problems, "PROJECTID is required when webhook URLs are read from Secret Manager")
	}

	for _, d := range []struct {
		name  string
		value time.Duration
	}{
		{"cache stale time", c.CacheStaleTime},
		{"cache gc time", c.CacheGCTime},
		{"fetch timeout", c.FetchTimeout},
		{"session ttl", c.SessionTTL},
	} {
		if d.value <= 0 {
			problems = append(problems, fmt.Sprintf("invalid %s %v: must be positive", d.name, d.value))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// Location is the zone used when a request does not name the viewer's own.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func checkURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return err.Error()
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "scheme must be 'http' or 'https'"
	}
	if parsed.Host == "" {
		return "host is missing"
	}
	return ""
}

// sameOrigin compares scheme and host, ignoring case and trailing paths.
func sameOrigin(a, b string) bool {
	pa, errA := url.Parse(strings.TrimSpace(a))
	pb, errB := url.Parse(strings.TrimSpace(b))
	if errA != nil || errB != nil || pa.Host == "" {
		return false
	}
	return strings.EqualFold(pa.Scheme, pb.Scheme) && strings.EqualFold(pa.Host, pb.Host)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
