package og

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/superblogger/waitlist/config/router"
	"github.com/superblogger/waitlist/internal/log"
)

type recordingCache struct {
	values map[string]string
	ttls   map[string]time.Duration
	gets   int
	getErr error
}

func newRecordingCache() *recordingCache {
	return &recordingCache{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (c *recordingCache) Get(_ context.Context, key string) (string, error) {
	c.gets++
	if c.getErr != nil {
		return "", c.getErr
	}
	return c.values[key], nil
}

func (c *recordingCache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	c.values[key] = value
	c.ttls[key] = ttl
	return nil
}

func newTestOGService(t *testing.T, cache Cache) (OGService, *Renderer) {
	t.Helper()

	renderer, err := NewDefaultRenderer()
	require.NoError(t, err)

	return NewOGService(log.NewLoggerWithJSONOutput(), renderer, cache, time.Hour), renderer
}

func TestOGService_CachesRenderedImage(t *testing.T) {
	cache := newRecordingCache()
	service, renderer := newTestOGService(t, cache)

	first, err := service.Image(context.Background())
	require.NoError(t, err)
	assert.Equal(t, string(first), cache.values[renderer.CacheKey()])
	assert.Equal(t, time.Hour, cache.ttls[renderer.CacheKey()])

	cache.values[renderer.CacheKey()] = "cached-bytes"
	second, err := service.Image(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "cached-bytes", string(second))
}

func TestOGService_CacheReadFailureStillRenders(t *testing.T) {
	cache := newRecordingCache()
	cache.getErr = errors.New("redis down")
	service, _ := newTestOGService(t, cache)

	img, err := service.Image(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), img[:4])
}

func TestOGService_WithoutCache(t *testing.T) {
	service, _ := newTestOGService(t, nil)

	img, err := service.Image(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, img)
}

func TestOGController_ServesPNG(t *testing.T) {
	service, _ := newTestOGService(t, newRecordingCache())

	rs := router.CreateRouterService(log.NewLoggerWithJSONOutput(), &router.RouterConfig{})
	rs.MountController(NewOGController(service))

	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/og", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, CacheControl, w.Header().Get("Cache-Control"))
	assert.Equal(t, []byte("\x89PNG"), w.Body.Bytes()[:4])
}
