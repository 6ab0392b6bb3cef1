package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/hotel-booking-web/internal/config"
)

// attemptScript refills a bucket continuously and takes one attempt from
// it.  It returns {allowed, remaining, retry_after_ms}.
var attemptScript = redis.NewScript(`
local burst = tonumber(ARGV[1])
local refill_ms = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

local tokens = tonumber(redis.call('HGET', KEYS[1], 'tokens'))
local at = tonumber(redis.call('HGET', KEYS[1], 'at'))
if tokens == nil or at == nil then
  tokens = burst
  at = now
end

local earned = math.floor((now - at) / refill_ms)
if earned > 0 then
  tokens = math.min(burst, tokens + earned)
  at = at + earned * refill_ms
end

local allowed = 0
local retry = 0
if tokens >= 1 then
  allowed = 1
  tokens = tokens - 1
else
  retry = refill_ms - (now - at)
end

redis.call('HSET', KEYS[1], 'tokens', tokens, 'at', at)
redis.call('PEXPIRE', KEYS[1], burst * refill_ms)
return {allowed, tokens, retry}
`)

// NewLoginLimiter throttles credential submissions per client.  It fails
// open when Redis is missing or errors.
func NewLoginLimiter(cfg config.RateLimitConfig, rdb *redis.Client, logger *slog.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "ratelimit")
	refillMs := cfg.Refill.Milliseconds()
	if refillMs < 1 {
		refillMs = 1
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := limiterKey(cfg, c)
			res, err := attemptScript.Run(c.Request().Context(), rdb, []string{key},
				cfg.Burst, refillMs, time.Now().UnixMilli()).Int64Slice()
			if err != nil || len(res) != 3 {
				logger.Warn("limiter unavailable", "key", key, "err", err)
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Burst))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(res[1], 10))
			if res[0] == 1 {
				return next(c)
			}

			wait := (time.Duration(res[2])*time.Millisecond + time.Second - 1) / time.Second
			h.Set("Retry-After", strconv.FormatInt(int64(wait), 10))
			logger.Info("attempt throttled", "key", key, "retry_after_s", int64(wait))
			return c.JSON(http.StatusTooManyRequests, map[string]any{
				"error":       "too_many_requests",
				"message":     "too many attempts, try again shortly",
				"retry_after": int64(wait),
			})
		}
	}
}

// limiterKey names the bucket: prefix:ip, plus the route when PerRoute is
// set.
func limiterKey(cfg config.RateLimitConfig, c echo.Context) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	parts := []string{cfg.Prefix, ip}
	if cfg.PerRoute {
		parts = append(parts, strings.ToLower(c.Request().Method)+c.Path())
	}
	return strings.Join(parts, ":")
}
