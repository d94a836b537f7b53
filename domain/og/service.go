package og

import (
	"context"
	"time"

	"github.com/superblogger/waitlist/internal/log"
)

// CacheControl marks the preview as immutable; a new icon changes the cache key, not the URL.
const CacheControl = "public, immutable, no-transform, max-age=31536000"

type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

type OGService interface {
	// Image returns the PNG bytes of the social preview.
	Image(ctx context.Context) ([]byte, error)
}

type ogService struct {
	logger   *log.Logger
	renderer *Renderer
	cache    Cache
	ttl      time.Duration
}

// NewOGService caches rendered images in cache when it is non-nil.
func NewOGService(logger *log.Logger, renderer *Renderer, cache Cache, ttl time.Duration) OGService {
	return &ogService{
		logger:   logger,
		renderer: renderer,
		cache:    cache,
		ttl:      ttl,
	}
}

func (s *ogService) Image(ctx context.Context) ([]byte, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)
	key := s.renderer.CacheKey()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		if err != nil {
			logger.Warn("Preview image cache read failed", "error", err, "key", key)
		} else if cached != "" {
			return []byte(cached), nil
		}
	}

	rendered, err := s.renderer.Render()
	if err != nil {
		logger.Error("Failed to render preview image", "error", err)
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, string(rendered), s.ttl); err != nil {
			logger.Warn("Preview image cache write failed", "error", err, "key", key)
		}
	}

	return rendered, nil
}
