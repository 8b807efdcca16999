package jwt

import (
	"time"

	"github.com/go-redis/redis/v8"
)

var (
	userSecret  string
	RedisClient *redis.Client
)

const RefreshTokenTTL = 24 * 30 * time.Hour

const (
	RoleUser Role = iota
)

// Configure sets the signing secret and the redis client backing refresh
// tokens. Must be called from main before any token is issued or parsed.
func Configure(secret string, rdb *redis.Client) {
	userSecret = secret
	RedisClient = rdb
}

func roleSecret(role Role) (string, bool) {
	switch role {
	case RoleUser:
		return userSecret, userSecret != ""
	}
	return "", false
}
