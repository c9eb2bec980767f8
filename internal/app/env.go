package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/five82/nearby/internal/cart"
	"github.com/five82/nearby/internal/catalog"
	"github.com/five82/nearby/internal/config"
	"github.com/five82/nearby/internal/favorites"
	"github.com/five82/nearby/internal/fixtures"
	"github.com/five82/nearby/internal/kv"
	"github.com/five82/nearby/internal/logging"
	"github.com/five82/nearby/internal/prefs"
	"github.com/five82/nearby/internal/reels"
	"github.com/five82/nearby/internal/search"
	"github.com/five82/nearby/internal/share"
)

// Options configure the nearby application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/nearby/prefs.toml
	Verbose    bool
	// Logger overrides the file logger built from the config.
	Logger *zap.Logger
	// Sharer overrides the clipboard sharer.
	Sharer share.Sharer
}

// Env holds every long-lived component, wired and seeded.
type Env struct {
	Config    config.Config
	Prefs     prefs.Prefs
	Logger    *zap.Logger
	Store     kv.Store
	Loader    *fixtures.Loader
	Catalog   *catalog.Index
	Search    *search.Engine
	Feed      *reels.Feed
	Favorites *favorites.Set
	Cart      *cart.Cart

	ownsLogger bool
}

// Open loads configuration, fixtures and persisted state and builds the
// engines. Close releases what Open acquired.
func Open(ctx context.Context, opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	userPrefs, _ := prefs.Load(opts.PrefsPath)

	env := &Env{Config: cfg, Prefs: userPrefs, Logger: opts.Logger}
	if env.Logger == nil {
		level := cfg.LogLevel
		if opts.Verbose {
			level = "debug"
		}
		env.Logger, err = logging.New(level, cfg.LogPath())
		if err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
		env.ownsLogger = true
	}
	log := env.Logger

	env.Store, err = kv.Open(cfg.Store, cfg.DataDir)
	if err != nil {
		env.Close()
		return nil, fmt.Errorf("open %s store: %w", cfg.Store, err)
	}

	env.Loader, err = fixtures.NewLoader(cfg.FixturesURL, cfg.FixturesDir, log.Named("fixtures"))
	if err != nil {
		env.Close()
		return nil, fmt.Errorf("init fixtures: %w", err)
	}
	bundle, err := env.Loader.Load(ctx)
	if err != nil {
		env.Close()
		return nil, fmt.Errorf("load fixtures: %w", err)
	}

	env.Catalog = catalog.NewIndex(bundle.Catalog)
	env.Search = search.New(search.Options{
		Catalog:       env.Catalog,
		Store:         env.Store,
		Logger:        log.Named("search"),
		Debounce:      cfg.Debounce(),
		Limit:         cfg.Search.SuggestionLimit,
		RecentCap:     cfg.Search.RecentCap,
		TrendingLimit: cfg.Search.TrendingLimit,
		Trending:      bundle.Trending,
	})

	sharer := opts.Sharer
	if sharer == nil {
		sharer = share.Clipboard{}
	}
	env.Feed = reels.New(reels.Options{
		Store:           env.Store,
		Logger:          log.Named("reels"),
		Sharer:          sharer,
		ShareBaseURL:    cfg.ShareBaseURL,
		Cadence:         cfg.Reels.AdCadence,
		DoubleTapWindow: cfg.DoubleTapWindow(),
		MaxUpload:       cfg.MaxUpload(),
		StartUnmuted:    !userPrefs.Muted,
	})
	env.Feed.Load(bundle.Videos, bundle.Ads)

	env.Favorites = favorites.Load(env.Store, log.Named("favorites"))
	env.Cart = cart.Load(env.Store, log.Named("cart"))

	log.Info("nearby ready",
		zap.String("store", cfg.Store),
		zap.Int("catalog", env.Catalog.Len()),
		zap.Int("reels", env.Feed.Len()),
	)
	return env, nil
}

// Close stops background work and releases the store and logger.
func (e *Env) Close() error {
	if e == nil {
		return nil
	}
	var errs []error
	if e.Search != nil {
		e.Search.Close()
	}
	if e.Store != nil {
		if err := e.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close store: %w", err))
		}
	}
	if e.ownsLogger && e.Logger != nil {
		_ = e.Logger.Sync()
	}
	return errors.Join(errs...)
}
