package config

import (
	"fmt"
	"strings"
	"time"
)

// Session storage backends.
const (
	BackendRedis  = "redis"
	BackendMySQL  = "mysql"
	BackendMemory = "memory"
)

// SessionConfig selects where session entries live and how the browser
// cookie that names them is issued.
type SessionConfig struct {
	Backend      string
	TTL          time.Duration
	CookieName   string
	CookieSecure bool
	RedisPrefix  string
	GuardTTL     time.Duration

	DBUser string
	DBPass string
	DBHost string
	DBPort string
	DBName string
}

// LoadSessionConfig reads SESSION_* and DB_* variables.  An unknown backend
// falls back to memory.
func LoadSessionConfig() SessionConfig {
	c := SessionConfig{
		Backend:      strings.ToLower(envStr("SESSION_BACKEND", BackendRedis)),
		TTL:          envDur("SESSION_TTL", 24*time.Hour),
		CookieName:   envStr("SESSION_COOKIE", "hb_sid"),
		CookieSecure: envBool("SESSION_COOKIE_SECURE", false),
		RedisPrefix:  envStr("SESSION_PREFIX", "sess"),
		GuardTTL:     envDur("INFLIGHT_TTL", 30*time.Second),
		DBUser:       envStr("DB_USER", "root"),
		DBPass:       envStr("DB_PASS", ""),
		DBHost:       envStr("DB_HOST", "127.0.0.1"),
		DBPort:       envStr("DB_PORT", "3306"),
		DBName:       envStr("DB_NAME", "hotel_web"),
	}
	switch c.Backend {
	case BackendRedis, BackendMySQL, BackendMemory:
	default:
		c.Backend = BackendMemory
	}
	return c
}

// DSN is the go-sql-driver/mysql data source for the session table.
func (c SessionConfig) DSN() string {
	auth := c.DBUser
	if c.DBPass != "" {
		auth = fmt.Sprintf("%s:%s", c.DBUser, c.DBPass)
	}
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC", auth, c.DBHost, c.DBPort, c.DBName)
}
