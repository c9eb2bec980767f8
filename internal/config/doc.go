// Package config loads the nearby TOML configuration.
//
// # Discovery
//
// Load reads the given path, or ~/.config/nearby/config.toml when the path is
// empty. A missing file is not an error: Default is returned so the app works
// without any setup. Fields that are absent, blank or non-positive keep their
// defaults; an unknown store kind or malformed TOML is an error.
//
// # Defaults
//
//   - data_dir: ~/.local/share/nearby
//   - store: file (also sqlite or memory)
//   - log file: <data_dir>/nearby.log, level info
//   - share_base_url: https://nearby.mkt/reels
//   - search: 200ms debounce, 8 suggestions (also the maximum), 10 recent,
//     10 trending
//   - reels: an ad after every 5 videos, 300ms double tap, 60s uploads
//
// # Example
//
//	data_dir = "~/.local/share/nearby"
//	store = "sqlite"
//	fixtures_url = "http://localhost:8080/fixtures"
//
//	[search]
//	debounce_ms = 150
//	trending_refresh_seconds = 300
//
//	[reels]
//	ad_cadence = 4
//
// A negative ad_cadence disables ads. Paths accept a leading tilde.
package config
