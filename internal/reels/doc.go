// Package reels implements the vertical short-video feed: a sequence of
// videos with sponsored cards mixed in, one active item at a time, and the
// engagement actions a viewer can take on it.
//
// # Items
//
// Item is a closed two-way variant (Video or Ad). Consumers read it through
// Match so a new variant cannot be silently ignored. Engagement state (likes,
// liked, faved, comments) lives on the Video and is what gets persisted.
//
// # Assembly
//
// Assemble interleaves ads after every fifth video by default. Ads are used
// in order and never repeated; when they run out the remaining videos follow
// back to back.
//
// # Playback
//
// Exactly one item is Playing after Load. Next and Prev clamp at the ends;
// moving pauses the outgoing item and rewinds and plays the incoming one.
// The Player interface is the seam to real media. Its errors are logged at
// debug level and never stop a transition. Mute is global and starts on.
//
// # Persistence
//
// The whole sequence is stored as a JSON array under FeedKey after every
// mutation. On Load a stored, non-empty sequence wins over the fixture
// sources, which keeps likes, favorites, comments and uploads across runs.
// Storage failures are logged and ignored.
package reels
