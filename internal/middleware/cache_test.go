package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/pathfinder-api/internal/config"
)

type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]time.Duration
	err  error
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	bs, ok := m.data[key]
	if !ok {
		return nil, errCacheMiss
	}
	return bs, nil
}

func (m *memStore) SetEx(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *memStore) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

func cacheConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{http.MethodGet: true},
		TTL:          time.Minute,
		KeyStrategy:  "route_query",
		Prefix:       "cache",
		MaxBodyBytes: 1 << 20,
	}
}

func cachedEcho(cfg config.CacheConfig, store CacheStore, calls *int) *echo.Echo {
	e := echo.New()
	mw := ResponseCache(cfg, store, zerolog.Nop())
	e.GET("/items/:name", func(c echo.Context) error {
		*calls++
		if c.Param("name") == "missing" {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "nope"})
		}
		return c.JSON(http.StatusOK, echo.Map{"name": c.Param("name"), "q": c.QueryParam("q")})
	}, mw)
	return e
}

func get(e *echo.Echo, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestResponseCache_MissThenHit(t *testing.T) {
	store := newMemStore()
	calls := 0
	e := cachedEcho(cacheConfig(), store, &calls)

	first := get(e, "/items/arts?q=1")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := get(e, "/items/arts?q=1")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Contains(t, second.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON)
	assert.Equal(t, 1, calls)

	for _, ttl := range store.ttls {
		assert.Equal(t, time.Minute, ttl)
	}
}

func TestResponseCache_KeysIncludePathAndQuery(t *testing.T) {
	store := newMemStore()
	calls := 0
	e := cachedEcho(cacheConfig(), store, &calls)

	get(e, "/items/arts")
	get(e, "/items/btech")
	get(e, "/items/arts?q=2")

	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, store.len())
	assert.Contains(t, get(e, "/items/btech").Body.String(), `"btech"`)
}

func TestResponseCache_SkipsNonOK(t *testing.T) {
	store := newMemStore()
	calls := 0
	e := cachedEcho(cacheConfig(), store, &calls)

	get(e, "/items/missing")
	rec := get(e, "/items/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, 2, calls)
	assert.Zero(t, store.len())
}

func TestResponseCache_SkipsOversizedBodies(t *testing.T) {
	cfg := cacheConfig()
	cfg.MaxBodyBytes = 8
	store := newMemStore()
	calls := 0
	e := cachedEcho(cfg, store, &calls)

	rec := get(e, "/items/arts")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "arts")
	assert.Zero(t, store.len())
}

func TestResponseCache_StoreErrorsAreIgnored(t *testing.T) {
	store := newMemStore()
	store.err = errors.New("connection refused")
	calls := 0
	e := cachedEcho(cacheConfig(), store, &calls)

	assert.Equal(t, http.StatusOK, get(e, "/items/arts").Code)
	assert.Equal(t, http.StatusOK, get(e, "/items/arts").Code)
	assert.Equal(t, 2, calls)
}

func TestResponseCache_DisabledIsPassThrough(t *testing.T) {
	cfg := cacheConfig()
	cfg.Enabled = false
	calls := 0
	e := cachedEcho(cfg, newMemStore(), &calls)

	rec := get(e, "/items/arts")
	assert.Empty(t, rec.Header().Get("X-Cache"))

	calls = 0
	e = cachedEcho(cacheConfig(), nil, &calls)
	rec = get(e, "/items/arts")
	assert.Empty(t, rec.Header().Get("X-Cache"))
	assert.Equal(t, 1, calls)
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"a":1}`))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, hdr, gotHdr)
	assert.Equal(t, `{"a":1}`, string(body))

	_, _, _, ok = decodePayload([]byte{0, 1})
	assert.False(t, ok)
}

func TestResponseCache_DoesNotReplayCORSHeaders(t *testing.T) {
	store := newMemStore()
	e := echo.New()
	e.GET("/streams", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"ok": true})
	}, func(next echo.HandlerFunc) echo.HandlerFunc {
		// stands in for the CORS middleware, which runs before the cache
		return func(c echo.Context) error {
			c.Response().Header().Add(echo.HeaderVary, echo.HeaderOrigin)
			c.Response().Header().Set(echo.HeaderAccessControlAllowOrigin, c.Request().Header.Get(echo.HeaderOrigin))
			return next(c)
		}
	}, ResponseCache(cacheConfig(), store, zerolog.Nop()))

	for _, origin := range []string{"http://a.test", "http://b.test"} {
		req := httptest.NewRequest(http.MethodGet, "/streams", nil)
		req.Header.Set(echo.HeaderOrigin, origin)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{origin}, rec.Header().Values(echo.HeaderAccessControlAllowOrigin), origin)
		assert.Equal(t, []string{echo.HeaderOrigin}, rec.Header().Values(echo.HeaderVary), origin)
	}

	require.Equal(t, 1, store.len())
	for _, payload := range store.data {
		_, hdr, _, ok := decodePayload(payload)
		require.True(t, ok)
		assert.Empty(t, hdr.Get(echo.HeaderAccessControlAllowOrigin))
		assert.Empty(t, hdr.Get(echo.HeaderVary))
		assert.NotEmpty(t, hdr.Get(echo.HeaderContentType))
	}
}
