// Package player hands a resolved stream to an external video player.
package player

import (
	"fmt"

	"github.com/reel-cli/reel/selection"
	"github.com/reel-cli/reel/stream"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Media is everything a player needs to start a stream.
type Media struct {
	Title    string
	URL      string
	Headers  map[string]string
	Captions []stream.CaptionTrack
	Caption  mo.Option[stream.CaptionTrack]
	Quality  selection.Quality
}

// NewMedia combines a ready descriptor with the current selection.
func NewMedia(title string, d *stream.Descriptor, s selection.State) Media {
	return Media{
		Title:    title,
		URL:      d.Playlist,
		Headers:  d.Headers,
		Captions: d.Captions,
		Caption:  s.Caption,
		Quality:  s.Quality,
	}
}

// captionIndex returns the 1-based position of the selected caption among Captions.
func (m Media) captionIndex() (int, bool) {
	selected, ok := m.Caption.Get()
	if !ok {
		return 0, false
	}
	_, i, found := lo.FindIndexOf(m.Captions, func(c stream.CaptionTrack) bool {
		return c.ID == selected.ID
	})
	return i + 1, found
}

// Player is a playback backend.
type Player interface {
	// Play starts a new player process for media.
	Play(media Media) error
	// Select applies a new caption and quality choice to the running player.
	Select(media Media) error
	IsRunning() bool
	// Wait returns a channel that is closed when playback ends.
	Wait() <-chan struct{}
	Close() error
}

// New returns the backend registered under name.
func New(name string) (Player, error) {
	switch name {
	case "mpv":
		return NewMPV(), nil
	case "iina":
		return NewIINA(), nil
	default:
		return nil, fmt.Errorf("unknown player %q", name)
	}
}
