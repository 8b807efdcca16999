package env

import (
	"fmt"
	"os"
)

const (
	WorkflowBaseURL = "WORKFLOW_BASE_URL"
	WorkflowAPIKey  = "WORKFLOW_API_KEY"
	BusinessID      = "BUSINESS_ID"
	UserSecretKey   = "USER_SECRET"
	AuthRedisURL    = "AUTH_REDIS_URL"
	AuthRedisPass   = "AUTH_REDIS_PASS"
	CacheRedisURL   = "CACHE_REDIS_URL"
	CacheRedisPass  = "CACHE_REDIS_PASS"
	DashboardUser   = "DASHBOARD_USER"
	DashboardPass   = "DASHBOARD_PASS"
	WebUrl          = "WEB_URL"
)

// Required lists the variables the server refuses to start without.
// Validation happens in main so library packages stay importable in tests.
func Required() []string {
	return []string{
		WorkflowBaseURL,
		BusinessID,
		UserSecretKey,
		DashboardUser,
		DashboardPass,
	}
}

func Validate() error {
	for _, key := range Required() {
		if os.Getenv(key) == "" {
			return fmt.Errorf("env: required environment variable not set: %s", key)
		}
	}
	return nil
}

func Get(key string) string {
	return os.Getenv(key)
}

func GetOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func MustGet(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic("env: required environment variable not set: " + key)
	}
	return val
}
