package reels

import "strings"

// VideoSource is a video record from the fixtures.
type VideoSource struct {
	ID          string   `json:"id" yaml:"id"`
	Src         string   `json:"src" yaml:"src"`
	Video       string   `json:"video" yaml:"video"`
	Song        string   `json:"song" yaml:"song"`
	ProfileName string   `json:"profileName" yaml:"profileName"`
	ProfilePic  string   `json:"profilePic" yaml:"profilePic"`
	Caption     string   `json:"caption" yaml:"caption"`
	Likes       int      `json:"likes" yaml:"likes"`
	Faved       bool     `json:"faved" yaml:"faved"`
	Comments    []string `json:"comments" yaml:"comments"`
}

// AdSource is an advertisement record from the fixtures.
type AdSource struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Brand string `json:"brand" yaml:"brand"`
	Image string `json:"image" yaml:"image"`
	Link  string `json:"link" yaml:"link"`
	CTA   string `json:"cta" yaml:"cta"`
}

const defaultSong = "Original Audio"

func (s VideoSource) item() Item {
	src := strings.TrimSpace(s.Src)
	if src == "" {
		src = strings.TrimSpace(s.Video)
	}
	song := s.Song
	if strings.TrimSpace(song) == "" {
		song = defaultSong
	}
	likes := s.Likes
	if likes < 0 {
		likes = 0
	}
	return NewVideoItem(s.ID, Video{
		Src:         src,
		Song:        song,
		ProfileName: s.ProfileName,
		ProfilePic:  s.ProfilePic,
		Caption:     s.Caption,
		Likes:       likes,
		Faved:       s.Faved,
		Comments:    s.Comments,
	})
}

func (s AdSource) item() Item {
	return NewAdItem(s.ID, Ad{Title: s.Title, Brand: s.Brand, Image: s.Image, Link: s.Link, CTA: s.CTA})
}

// Assemble builds the playback order: after every cadence-th video the next
// unused ad is inserted. Once the ads run out the remaining videos follow
// without interruption. A cadence of zero or less disables ads.
func Assemble(videos []VideoSource, ads []AdSource, cadence int) []Item {
	items := make([]Item, 0, len(videos)+len(ads))
	nextAd := 0
	for i, v := range videos {
		items = append(items, v.item())
		if cadence <= 0 || nextAd >= len(ads) {
			continue
		}
		if (i+1)%cadence == 0 {
			items = append(items, ads[nextAd].item())
			nextAd++
		}
	}
	return items
}
