// Package fixtures loads the static data the app is seeded with: the
// catalog, reel videos, ads and trending search terms.
//
// Each fixture is a JSON list named <fixture>.json. An object that wraps the
// list under the fixture name ({"reels": [...]}) is accepted too. Local
// directories may use .yaml or .yml instead.
//
// Loader tries the optional HTTP source first and falls back to the local
// copy fixture by fixture, so a partially broken server still yields a full
// Bundle. With no fixtures directory configured the local copy is the one
// embedded in the binary.
package fixtures
