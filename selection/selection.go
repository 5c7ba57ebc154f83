// Package selection holds the user's playback choices for the current stream.
package selection

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reel-cli/reel/stream"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Quality is a resolution preference handed to the player.
type Quality string

const (
	Auto  Quality = "auto"
	Q240  Quality = "240p"
	Q360  Quality = "360p"
	Q480  Quality = "480p"
	Q720  Quality = "720p"
	Q1080 Quality = "1080p"
)

var qualities = []Quality{Auto, Q240, Q360, Q480, Q720, Q1080}

// ErrUnknownQuality is returned for a quality outside the supported set.
var ErrUnknownQuality = errors.New("unknown quality")

// Qualities lists every choice in picker order.
func Qualities() []Quality {
	return append([]Quality(nil), qualities...)
}

// ParseQuality accepts the canonical names case-insensitively.
func ParseQuality(s string) (Quality, error) {
	q := Quality(strings.ToLower(strings.TrimSpace(s)))
	if !q.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownQuality, s)
	}
	return q, nil
}

func (q Quality) Valid() bool {
	return lo.Contains(qualities, q)
}

func (q Quality) String() string {
	return string(q)
}

// Height is the vertical resolution, or 0 for auto.
func (q Quality) Height() int {
	switch q {
	case Q240:
		return 240
	case Q360:
		return 360
	case Q480:
		return 480
	case Q720:
		return 720
	case Q1080:
		return 1080
	default:
		return 0
	}
}

// Bitrate is a rough upper bound in bits per second for the quality, or 0 for auto.
func (q Quality) Bitrate() int {
	switch q {
	case Q240:
		return 400_000
	case Q360:
		return 800_000
	case Q480:
		return 1_400_000
	case Q720:
		return 2_800_000
	case Q1080:
		return 5_000_000
	default:
		return 0
	}
}

// State is an immutable selection. Updates return a new value.
type State struct {
	Quality Quality
	Caption mo.Option[stream.CaptionTrack]

	captions []stream.CaptionTrack
}

// Zero is the selection while nothing is ready.
func Zero() State {
	return State{Quality: Auto, Caption: mo.None[stream.CaptionTrack]()}
}

// Derive builds the initial selection for a freshly ready descriptor.
func Derive(d *stream.Descriptor, language string) State {
	s := Zero()
	if d == nil {
		return s
	}
	s.captions = append([]stream.CaptionTrack(nil), d.Captions...)
	s.Caption = d.CaptionFor(language)
	return s
}

// Captions returns the tracks the selection may choose from.
func (s State) Captions() []stream.CaptionTrack {
	return append([]stream.CaptionTrack(nil), s.captions...)
}

// SetQuality returns the selection with q applied.
func (s State) SetQuality(q Quality) (State, error) {
	if !q.Valid() {
		return s, fmt.Errorf("%w: %q", ErrUnknownQuality, q)
	}
	s.Quality = q
	return s, nil
}

// SetCaption selects the track with the given id, or none.
// An unknown id leaves the selection as is and reports false.
func (s State) SetCaption(id mo.Option[string]) (State, bool) {
	wanted, ok := id.Get()
	if !ok {
		s.Caption = mo.None[stream.CaptionTrack]()
		return s, true
	}

	track, found := lo.Find(s.captions, func(c stream.CaptionTrack) bool {
		return c.ID == wanted
	})
	if !found {
		return s, false
	}

	s.Caption = mo.Some(track)
	return s, true
}
