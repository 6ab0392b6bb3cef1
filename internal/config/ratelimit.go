package config

import "time"

// RateLimitConfig throttles sign-in and registration attempts.  Each client
// holds up to Burst attempts and earns one back every Refill.
type RateLimitConfig struct {
	Enabled bool
	Burst   int
	Refill  time.Duration
	// PerRoute keys buckets by client IP and route instead of IP alone.
	PerRoute bool
	Prefix   string
}

// LoadRateLimitConfig reads RATE_LIMIT_* variables.  Non-positive values
// fall back to the defaults.
func LoadRateLimitConfig() RateLimitConfig {
	c := RateLimitConfig{
		Enabled:  envBool("RATE_LIMIT_ENABLED", true),
		Burst:    envInt("RATE_LIMIT_BURST", 10),
		Refill:   envDur("RATE_LIMIT_REFILL_EVERY", 6*time.Second),
		PerRoute: envBool("RATE_LIMIT_PER_ROUTE", true),
		Prefix:   envStr("RATE_LIMIT_PREFIX", "rl"),
	}
	if c.Burst < 1 {
		c.Burst = 10
	}
	if c.Refill <= 0 {
		c.Refill = 6 * time.Second
	}
	return c
}
