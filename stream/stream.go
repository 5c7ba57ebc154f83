// Package stream defines the resolved playback metadata shared by the cache, resolver and engine.
package stream

import (
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// SourceID is an opaque identifier of one playable unit: a movie or a single episode.
type SourceID string

func (s SourceID) String() string {
	return string(s)
}

// Kind is the delivery format of a stream. Only HLS is produced today, but
// unknown kinds are carried through untouched.
type Kind string

const KindHLS Kind = "hls"

// CaptionTrack is an external caption file attached to a stream.
type CaptionTrack struct {
	ID       string `json:"id"`
	Language string `json:"language"`
	URL      string `json:"url"`
}

func (c CaptionTrack) String() string {
	return c.Language
}

// Descriptor is everything the player needs to start a stream.
type Descriptor struct {
	ID       string            `json:"id"`
	Kind     Kind              `json:"type"`
	Playlist string            `json:"playlist"`
	Headers  map[string]string `json:"headers,omitempty"`
	Captions []CaptionTrack    `json:"captions"`
}

// Caption looks up a caption track by id.
func (d *Descriptor) Caption(id string) mo.Option[CaptionTrack] {
	if d == nil {
		return mo.None[CaptionTrack]()
	}
	track, ok := lo.Find(d.Captions, func(c CaptionTrack) bool {
		return c.ID == id
	})
	if !ok {
		return mo.None[CaptionTrack]()
	}
	return mo.Some(track)
}

// CaptionFor returns the first track in the given language, in declaration order.
func (d *Descriptor) CaptionFor(language string) mo.Option[CaptionTrack] {
	if d == nil || language == "" {
		return mo.None[CaptionTrack]()
	}
	track, ok := lo.Find(d.Captions, func(c CaptionTrack) bool {
		return c.Language == language
	})
	if !ok {
		return mo.None[CaptionTrack]()
	}
	return mo.Some(track)
}

// Clone returns a deep copy so that callers can't mutate cached descriptors.
func (d *Descriptor) Clone() *Descriptor {
	if d == nil {
		return nil
	}
	c := *d
	if d.Headers != nil {
		c.Headers = make(map[string]string, len(d.Headers))
		for k, v := range d.Headers {
			c.Headers[k] = v
		}
	}
	c.Captions = append([]CaptionTrack(nil), d.Captions...)
	return &c
}
