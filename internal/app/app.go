package app

import (
	"context"
	"fmt"

	"github.com/five82/nearby/internal/ui"
)

// Run boots the nearby TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	env, err := Open(ctx, opts)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if every := env.Config.TrendingRefresh(); every > 0 {
		StartPoller(ctx, env.Search, env.Loader, every, env.Logger.Named("poller"))
	}

	uiOpts := ui.Options{
		Context:   ctx,
		Search:    env.Search,
		Feed:      env.Feed,
		Favorites: env.Favorites,
		Cart:      env.Cart,
		Catalog:   env.Catalog,
		Logger:    env.Logger.Named("ui"),
		Prefs:     env.Prefs,
		PrefsPath: opts.PrefsPath,
	}
	if err := ui.Run(uiOpts); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
