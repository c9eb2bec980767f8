package reels

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Kind discriminates the variants of Item.
type Kind int

const (
	KindVideo Kind = iota
	KindAd
)

func (k Kind) String() string {
	switch k {
	case KindVideo:
		return "video"
	case KindAd:
		return "ad"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Video is a playable reel together with its engagement state.
type Video struct {
	Src         string
	Song        string
	ProfileName string
	ProfilePic  string
	Caption     string
	Likes       int
	Liked       bool
	Faved       bool
	Comments    []string
}

// Ad is a sponsored card shown between videos.
type Ad struct {
	Title string
	Brand string
	Image string
	Link  string
	CTA   string
}

// Item is one entry of the feed: either a Video or an Ad. Build items with
// NewVideoItem or NewAdItem and read them with Match.
type Item struct {
	ID    string
	kind  Kind
	video *Video
	ad    *Ad
}

// NewVideoItem wraps v as a feed item.
func NewVideoItem(id string, v Video) Item {
	v.Comments = slices.Clone(v.Comments)
	return Item{ID: id, kind: KindVideo, video: &v}
}

// NewAdItem wraps a as a feed item.
func NewAdItem(id string, a Ad) Item {
	return Item{ID: id, kind: KindAd, ad: &a}
}

// Kind returns the variant.
func (it Item) Kind() Kind { return it.kind }

// IsAd reports whether the item is an advertisement.
func (it Item) IsAd() bool { return it.kind == KindAd }

// Video returns the video variant.
func (it Item) Video() (Video, bool) {
	if it.kind != KindVideo || it.video == nil {
		return Video{}, false
	}
	v := *it.video
	v.Comments = slices.Clone(v.Comments)
	return v, true
}

// Ad returns the advertisement variant.
func (it Item) Ad() (Ad, bool) {
	if it.kind != KindAd || it.ad == nil {
		return Ad{}, false
	}
	return *it.ad, true
}

// Match calls exactly one of the handlers depending on the variant. Every
// consumer of the feed goes through Match, so adding a variant means changing
// this signature and every caller with it.
func (it Item) Match(video func(Video), ad func(Ad)) {
	switch it.kind {
	case KindVideo:
		v, _ := it.Video()
		video(v)
	case KindAd:
		a, _ := it.Ad()
		ad(a)
	default:
		panic(fmt.Sprintf("reels: unhandled item %s", it.kind))
	}
}

func (it Item) clone() Item {
	switch it.kind {
	case KindAd:
		if it.ad != nil {
			return NewAdItem(it.ID, *it.ad)
		}
	case KindVideo:
		if it.video != nil {
			return NewVideoItem(it.ID, *it.video)
		}
	}
	return it
}

// wireItem is the persisted form: a flat object with an isAd discriminant.
type wireItem struct {
	ID    string `json:"id"`
	IsAd  bool   `json:"isAd"`
	Title string `json:"title,omitempty"`
	Brand string `json:"brand,omitempty"`
	Image string `json:"image,omitempty"`
	Link  string `json:"link,omitempty"`
	CTA   string `json:"cta,omitempty"`

	Src         string   `json:"src,omitempty"`
	Song        string   `json:"song,omitempty"`
	ProfileName string   `json:"profileName,omitempty"`
	ProfilePic  string   `json:"profilePic,omitempty"`
	Caption     string   `json:"caption,omitempty"`
	Likes       int      `json:"likes,omitempty"`
	Liked       bool     `json:"liked,omitempty"`
	Faved       bool     `json:"faved,omitempty"`
	Comments    []string `json:"comments,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (it Item) MarshalJSON() ([]byte, error) {
	w := wireItem{ID: it.ID}
	switch it.kind {
	case KindAd:
		a, _ := it.Ad()
		w.IsAd = true
		w.Title, w.Brand, w.Image, w.Link, w.CTA = a.Title, a.Brand, a.Image, a.Link, a.CTA
	case KindVideo:
		v, _ := it.Video()
		w.Src, w.Song, w.ProfileName, w.ProfilePic, w.Caption = v.Src, v.Song, v.ProfileName, v.ProfilePic, v.Caption
		w.Likes, w.Liked, w.Faved, w.Comments = v.Likes, v.Liked, v.Faved, v.Comments
	default:
		return nil, fmt.Errorf("encode item %q: unknown %s", it.ID, it.kind)
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler.
func (it *Item) UnmarshalJSON(data []byte) error {
	var w wireItem
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.IsAd {
		*it = NewAdItem(w.ID, Ad{Title: w.Title, Brand: w.Brand, Image: w.Image, Link: w.Link, CTA: w.CTA})
		return nil
	}
	if w.Likes < 0 {
		w.Likes = 0
	}
	*it = NewVideoItem(w.ID, Video{
		Src:         w.Src,
		Song:        w.Song,
		ProfileName: w.ProfileName,
		ProfilePic:  w.ProfilePic,
		Caption:     w.Caption,
		Likes:       w.Likes,
		Liked:       w.Liked,
		Faved:       w.Faved,
		Comments:    w.Comments,
	})
	return nil
}
