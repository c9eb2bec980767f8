package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// maxBackoff caps the retry delay after consecutive refresh failures.
const maxBackoff = 30 * time.Second

// TrendingSource yields the current trending search terms.
type TrendingSource interface {
	Trending(ctx context.Context) ([]string, error)
}

// TrendingSink receives refreshed terms.
type TrendingSink interface {
	SetTrending(terms []string)
}

// StartPoller launches a background goroutine that refreshes trending terms
// every interval until ctx is cancelled. Failures back off exponentially. It
// returns immediately; the returned channel is closed when the goroutine exits.
func StartPoller(ctx context.Context, sink TrendingSink, src TrendingSource, interval time.Duration, logger *zap.Logger) <-chan struct{} {
	done := make(chan struct{})
	if logger == nil {
		logger = zap.NewNop()
	}
	go func() {
		defer close(done)
		failures := 0
		for {
			wait := interval
			if err := refresh(ctx, sink, src); err != nil {
				if ctx.Err() != nil {
					return
				}
				failures++
				wait = calculateBackoff(failures, interval)
				logger.Warn("trending refresh failed",
					zap.Int("failures", failures),
					zap.Duration("retry_in", wait),
					zap.Error(err),
				)
			} else {
				failures = 0
			}

			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
	}()
	return done
}

func refresh(ctx context.Context, sink TrendingSink, src TrendingSource) error {
	terms, err := src.Trending(ctx)
	if err != nil {
		return err
	}
	sink.SetTrending(terms)
	return nil
}

// calculateBackoff doubles base once per consecutive failure, up to maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	d := base
	for i := 0; i < failures; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}
