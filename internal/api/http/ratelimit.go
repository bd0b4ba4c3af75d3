package http

import (
	"fmt"
	nethttp "net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	apperrors "github.com/Prateekyadav17/ElectricHelp/pkg/util"
)

// NewAuthRateLimiter returns a per-IP fixed-window limiter for the auth
// endpoints, backed by Redis. The limiter fails open: an unreachable Redis
// never blocks logins.
func NewAuthRateLimiter(client *redis.Client, logger *zap.Logger, perMinute int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if client == nil || perMinute <= 0 {
			return c.Next()
		}

		window := time.Now().Unix() / 60
		key := fmt.Sprintf("ratelimit:auth:%s:%d", c.IP(), window)

		count, err := client.Incr(c.UserContext(), key).Result()
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.Error(err))
			return c.Next()
		}
		if count == 1 {
			if err := client.Expire(c.UserContext(), key, time.Minute).Err(); err != nil {
				logger.Warn("rate limiter expire failed", zap.String("key", key), zap.Error(err))
			}
		}
		if count > int64(perMinute) {
			retry := 60 - time.Now().Unix()%60
			c.Set("Retry-After", strconv.FormatInt(retry, 10))
			return apperrors.NewDomainError("RATE_LIMITED", "Too many requests", nethttp.StatusTooManyRequests, nil)
		}
		return c.Next()
	}
}
