package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iliyamo/pathfinder-api/internal/config"
)

// CacheStore is the subset of a key/value store the response cache needs.
type CacheStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetEx(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// errCacheMiss is what CacheStore implementations return for absent keys.
var errCacheMiss = errors.New("cache miss")

type redisStore struct{ rdb *redis.Client }

// NewRedisStore adapts a go-redis client to CacheStore.
func NewRedisStore(rdb *redis.Client) CacheStore {
	return redisStore{rdb: rdb}
}

func (s redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	bs, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errCacheMiss
	}
	return bs, err
}

func (s redisStore) SetEx(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.rdb.SetEx(ctx, key, value, ttl).Err()
}

// captureWriter captures the response status and body while forwarding them
// to the client.  Once the body exceeds limit it stops buffering and marks
// the response as too large to cache.
type captureWriter struct {
	http.ResponseWriter
	status   int
	buf      bytes.Buffer
	limit    int64
	overflow bool
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if !cw.overflow {
		if cw.limit > 0 && int64(cw.buf.Len()+len(b)) > cw.limit {
			cw.overflow = true
			cw.buf.Reset()
		} else {
			cw.buf.Write(b)
		}
	}
	return cw.ResponseWriter.Write(b)
}

// cacheKeyFrom builds a stable key from the configured strategy.  The
// request path is used rather than the route template so that
// /api/colleges/arts and /api/colleges/btech never share an entry.
func cacheKeyFrom(cfg config.CacheConfig, c echo.Context) string {
	r := c.Request()
	route := r.URL.Path

	var parts []string
	switch strings.ToLower(cfg.KeyStrategy) {
	case "route":
		parts = []string{"route", route}
	case "method_route":
		parts = []string{"method", r.Method, "route", route}
	case "method_route_query":
		parts = []string{"method", r.Method, "route", route, "q", r.URL.RawQuery}
	default: // "route_query"
		parts = []string{"route", route, "q", r.URL.RawQuery}
	}
	sum := sha1.Sum([]byte(strings.Join(parts, ":")))
	return fmt.Sprintf("%s:%x", cfg.Prefix, sum[:])
}

// cachedResponse is the value stored per cache key.
type cachedResponse struct {
	Status int         `json:"status"`
	Header http.Header `json:"header"`
	Body   []byte      `json:"body"`
}

func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	return json.Marshal(cachedResponse{Status: status, Header: header, Body: body})
}

// decodePayload reports ok=false for anything that is not a stored response,
// which the middleware treats like a miss.
func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
	var cr cachedResponse
	if err := json.Unmarshal(bs, &cr); err != nil || cr.Status == 0 {
		return 0, nil, nil, false
	}
	return cr.Status, cr.Header, cr.Body, true
}

// ResponseCache replays cached 200 responses for the configured methods and
// stores fresh ones for cfg.TTL.  It is meant for the catalog routes, whose
// data never changes while the process runs.  A nil store or a disabled
// config makes it a pass-through; store errors are logged and otherwise
// ignored so a cache outage never fails a request.
func ResponseCache(cfg config.CacheConfig, store CacheStore, log zerolog.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || store == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
				return next(c)
			}
			ctx := c.Request().Context()
			key := cacheKeyFrom(cfg, c)

			bs, err := store.Get(ctx, key)
			if err == nil {
				if status, hdr, body, ok := decodePayload(bs); ok {
					return replay(c, status, hdr, body)
				}
			} else if !errors.Is(err, errCacheMiss) {
				log.Warn().Err(err).Str("key", key).Msg("cache read failed")
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: int64(cfg.MaxBodyBytes)}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			if cw.status != http.StatusOK || cw.overflow {
				return nil
			}

			hdr := make(http.Header)
			for k, vals := range c.Response().Header() {
				if replayable(k) {
					hdr[k] = append([]string(nil), vals...)
				}
			}
			payload, err := encodePayload(cw.status, hdr, cw.buf.Bytes())
			if err != nil {
				return nil
			}
			// The request context may already be cancelled once the client has
			// its response; the write should still go through.
			wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
			defer cancel()
			if err := store.SetEx(wctx, key, payload, ttl); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("cache write failed")
			}
			return nil
		}
	}
}

// skipOnReplay lists headers that belong to the original exchange rather
// than to the cached representation.  CORS headers depend on the Origin of
// the current request, which is not part of the cache key.
var skipOnReplay = map[string]bool{
	echo.HeaderContentLength: true,
	echo.HeaderXRequestID:    true,
	echo.HeaderVary:          true,
	"X-Cache":                true,
}

func replayable(key string) bool {
	key = http.CanonicalHeaderKey(key)
	return !skipOnReplay[key] && !strings.HasPrefix(key, "Access-Control-")
}

func replay(c echo.Context, status int, hdr http.Header, body []byte) error {
	out := c.Response().Header()
	for k, vals := range hdr {
		if !replayable(k) {
			continue
		}
		out[k] = append([]string(nil), vals...)
	}
	out.Set("X-Cache", "HIT")
	c.Response().WriteHeader(status)
	_, err := c.Response().Write(body)
	return err
}
