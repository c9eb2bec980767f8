// Package share hands reel links to whatever the platform offers for sharing.
package share

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
)

// Payload is what gets shared.
type Payload struct {
	Title string
	URL   string
}

// Sharer delivers a payload to the user's share target.
type Sharer interface {
	Share(ctx context.Context, p Payload) error
}

// Func adapts a plain function to Sharer.
type Func func(ctx context.Context, p Payload) error

// Share implements Sharer.
func (f Func) Share(ctx context.Context, p Payload) error {
	return f(ctx, p)
}

// Clipboard copies the payload URL to the system clipboard.
type Clipboard struct{}

// Share implements Sharer.
func (Clipboard) Share(ctx context.Context, p Payload) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard unsupported on this system")
	}
	if err := clipboard.WriteAll(p.URL); err != nil {
		return fmt.Errorf("copy link: %w", err)
	}
	return nil
}

// Nop discards payloads.
type Nop struct{}

// Share implements Sharer.
func (Nop) Share(context.Context, Payload) error { return nil }
