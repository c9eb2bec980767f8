package fixtures

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/five82/nearby/internal/catalog"
	"github.com/five82/nearby/internal/reels"
)

// Bundle is everything the engines are seeded with.
type Bundle struct {
	Catalog  []catalog.Entry
	Videos   []reels.VideoSource
	Ads      []reels.AdSource
	Trending []string
}

// Loader reads fixtures from an optional remote source and falls back to a
// local one per fixture.
type Loader struct {
	Remote Source
	Local  Source
	Logger *zap.Logger
}

// NewLoader builds a Loader. An empty remoteURL disables the remote source
// and an empty dir selects the embedded fixtures.
func NewLoader(remoteURL, dir string, logger *zap.Logger) (*Loader, error) {
	l := &Loader{Local: NewLocal(dir), Logger: logger}
	if strings.TrimSpace(remoteURL) != "" {
		client, err := NewClient(remoteURL)
		if err != nil {
			return nil, err
		}
		l.Remote = client
	}
	return l, nil
}

// Load fetches the four fixtures concurrently. A remote failure is logged and
// the local copy is used instead; only a local failure is returned.
func (l *Loader) Load(ctx context.Context) (Bundle, error) {
	var b Bundle
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		b.Catalog, err = withFallback(gctx, l, "catalog", Source.FetchCatalog)
		return err
	})
	g.Go(func() (err error) {
		b.Videos, err = withFallback(gctx, l, "reels", Source.FetchVideos)
		return err
	})
	g.Go(func() (err error) {
		b.Ads, err = withFallback(gctx, l, "ads", Source.FetchAds)
		return err
	})
	g.Go(func() (err error) {
		b.Trending, err = withFallback(gctx, l, "trending", Source.FetchTrending)
		return err
	})
	if err := g.Wait(); err != nil {
		return Bundle{}, err
	}
	l.logger().Debug("fixtures loaded",
		zap.Int("catalog", len(b.Catalog)),
		zap.Int("videos", len(b.Videos)),
		zap.Int("ads", len(b.Ads)),
		zap.Int("trending", len(b.Trending)),
	)
	return b, nil
}

// Trending reads trending terms from the primary source without fallback, so
// callers polling for fresh terms see remote failures.
func (l *Loader) Trending(ctx context.Context) ([]string, error) {
	src := l.Remote
	if src == nil {
		src = l.Local
	}
	if src == nil {
		return nil, fmt.Errorf("no fixture source")
	}
	return src.FetchTrending(ctx)
}

func withFallback[T any](ctx context.Context, l *Loader, name string, fetch func(Source, context.Context) (T, error)) (T, error) {
	if l.Remote != nil {
		v, err := fetch(l.Remote, ctx)
		if err == nil {
			return v, nil
		}
		if ctx.Err() != nil {
			var zero T
			return zero, ctx.Err()
		}
		l.logger().Warn("remote fixture failed, using local copy", zap.String("fixture", name), zap.Error(err))
	}
	if l.Local == nil {
		var zero T
		return zero, fmt.Errorf("load %s: no local source", name)
	}
	v, err := fetch(l.Local, ctx)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("load %s: %w", name, err)
	}
	return v, nil
}

func (l *Loader) logger() *zap.Logger {
	if l.Logger == nil {
		return zap.NewNop()
	}
	return l.Logger
}
