package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/hotel-booking-web/internal/config"
	"github.com/iliyamo/hotel-booking-web/internal/gate"
)

// cachedPage is what the cache stores for one catalog response.
type cachedPage struct {
	Status int         `json:"s"`
	Header http.Header `json:"h"`
	Body   []byte      `json:"b"`
}

// pageRecorder tees the response body into buf until limit is exceeded.
type pageRecorder struct {
	http.ResponseWriter
	status   int
	buf      bytes.Buffer
	limit    int
	overflow bool
}

func (r *pageRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *pageRecorder) Write(b []byte) (int, error) {
	if !r.overflow {
		if r.limit > 0 && r.buf.Len()+len(b) > r.limit {
			r.overflow = true
			r.buf.Reset()
		} else {
			r.buf.Write(b)
		}
	}
	return r.ResponseWriter.Write(b)
}

// pageKey hashes the method, path and query under cfg.Prefix.
func pageKey(cfg config.CacheConfig, req *http.Request) string {
	sum := sha256.Sum256([]byte(req.Method + " " + req.URL.Path + "?" + req.URL.RawQuery))
	return cfg.Prefix + ":" + hex.EncodeToString(sum[:16])
}

// cacheable admits anonymous requests for public catalog pages.  Anything
// rendered for a signed-in visitor carries their identity and is never
// shared.
func cacheable(cfg config.CacheConfig, c echo.Context) bool {
	req := c.Request()
	if !cfg.Methods[strings.ToUpper(req.Method)] || CurrentSession(c) != nil {
		return false
	}
	return req.URL.Path != "/healthz" && gate.Classify(req.URL.Path) == gate.Public
}

// replayable drops headers that belong to a single response.  Set-Cookie
// carries the first visitor's session id.
func replayable(h http.Header) http.Header {
	out := h.Clone()
	for _, k := range []string{"Set-Cookie", "Content-Length", "X-Cache"} {
		out.Del(k)
	}
	return out
}

// NewRedisCache serves anonymous catalog pages from Redis.  A hit replays
// the stored status, headers and body.  Redis failures fall through to the
// handler.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client, logger *slog.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "cache")
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cacheable(cfg, c) {
				return next(c)
			}
			key := pageKey(cfg, c.Request())
			resp := c.Response()

			if raw, err := rdb.Get(c.Request().Context(), key).Bytes(); err == nil {
				var page cachedPage
				if json.Unmarshal(raw, &page) == nil && page.Status != 0 {
					for k, vals := range page.Header {
						resp.Header()[k] = vals
					}
					resp.Header().Set("X-Cache", "HIT")
					resp.WriteHeader(page.Status)
					_, err := resp.Write(page.Body)
					return err
				}
			} else if !errors.Is(err, redis.Nil) {
				logger.Warn("cache read failed", "err", err)
			}

			rec := &pageRecorder{ResponseWriter: resp.Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
			resp.Writer = rec
			resp.Header().Set("X-Cache", "MISS")
			if err := next(c); err != nil {
				return err
			}
			if rec.status != http.StatusOK || rec.overflow {
				return nil
			}
			raw, err := json.Marshal(cachedPage{Status: rec.status, Header: replayable(resp.Header()), Body: rec.buf.Bytes()})
			if err != nil {
				return nil
			}
			if err := rdb.Set(context.WithoutCancel(c.Request().Context()), key, raw, ttl).Err(); err != nil {
				logger.Warn("cache write failed", "err", err)
			}
			return nil
		}
	}
}
