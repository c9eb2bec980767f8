// Package app is the composition root for nearby.
//
// Open loads config and preferences, builds the logger and the key-value
// store, fetches fixtures and constructs the search engine, reel feed,
// favorites and cart on top of them. Env.Close releases the store and
// flushes the logger. The one-shot CLI commands use Open directly.
//
// Run adds the interactive pieces: an optional trending poller that refreshes
// the search engine's trending terms with exponential backoff on failure, and
// the Bubble Tea UI, which blocks until the user quits or the context is
// cancelled.
package app
