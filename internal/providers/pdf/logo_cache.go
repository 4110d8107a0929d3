package pdf

import (
	"context"
	"time"

	"github.com/smallbiznis/garagebook/internal/cache"
)

const defaultLogoTTL = 10 * time.Minute

type cachingLogoLoader struct {
	next  LogoLoader
	cache cache.Cache[string, *Image]
	ttl   time.Duration
}

// NewCachingLogoLoader keeps successfully loaded logos for ttl. Failures are
// not cached so a fixed URL is picked up on the next render.
func NewCachingLogoLoader(next LogoLoader, ttl time.Duration) LogoLoader {
	if ttl <= 0 {
		ttl = defaultLogoTTL
	}
	return &cachingLogoLoader{
		next:  next,
		cache: cache.NewTTLCache[string, *Image](),
		ttl:   ttl,
	}
}

func (l *cachingLogoLoader) Load(ctx context.Context, url string) (*Image, error) {
	key := cache.Key("logo", url)
	if img, ok := l.cache.Get(key); ok {
		return img, nil
	}

	img, err := l.next.Load(ctx, url)
	if err != nil {
		return nil, err
	}
	l.cache.Set(key, img, l.ttl)
	return img, nil
}
