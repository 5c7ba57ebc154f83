// Package cache persists resolved stream descriptors keyed by source identifier.
//
// Entries never expire on disk. Freshness is decided by the reader via Entry.Fresh,
// and a stale entry is simply overwritten by the next successful resolution.
package cache

import (
	"sync"
	"time"

	"github.com/metafates/gache"
	"github.com/reel-cli/reel/filesystem"
	"github.com/reel-cli/reel/log"
	"github.com/reel-cli/reel/stream"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Store is the contract the resolution engine depends on.
type Store interface {
	Get(id stream.SourceID) mo.Option[*Entry]
	Put(id stream.SourceID, descriptor *stream.Descriptor, capturedAt time.Time) error
}

// Entry is a cached resolution result.
type Entry struct {
	Source     stream.SourceID
	Descriptor *stream.Descriptor
	CapturedAt time.Time
}

// Fresh reports whether the entry is younger than ttl at now. The boundary is exclusive.
func (e *Entry) Fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.CapturedAt) < ttl
}

// record is the on-disk shape of a single entry.
type record struct {
	Data      payload `json:"data"`
	Timestamp int64   `json:"timestamp"`
}

type payload struct {
	Stream   streamRecord          `json:"stream"`
	Captions []stream.CaptionTrack `json:"captions"`
}

type streamRecord struct {
	ID       string            `json:"id"`
	Kind     stream.Kind       `json:"type"`
	Playlist string            `json:"playlist"`
	Headers  map[string]string `json:"headers,omitempty"`
}

func newRecord(d *stream.Descriptor, capturedAt time.Time) *record {
	d = d.Clone()
	return &record{
		Data: payload{
			Stream: streamRecord{
				ID:       d.ID,
				Kind:     d.Kind,
				Playlist: d.Playlist,
				Headers:  d.Headers,
			},
			Captions: d.Captions,
		},
		Timestamp: capturedAt.UnixMilli(),
	}
}

func (r *record) entry(id stream.SourceID) *Entry {
	captions := r.Data.Captions
	if captions == nil {
		captions = []stream.CaptionTrack{}
	}
	return &Entry{
		Source: id,
		Descriptor: &stream.Descriptor{
			ID:       r.Data.Stream.ID,
			Kind:     r.Data.Stream.Kind,
			Playlist: r.Data.Stream.Playlist,
			Headers:  r.Data.Stream.Headers,
			Captions: captions,
		},
		CapturedAt: time.UnixMilli(r.Timestamp),
	}
}

// Gache is a Store backed by a single JSON file through gache.
type Gache struct {
	internal *gache.Cache[map[string]*record]
	mu       sync.RWMutex
}

var _ Store = (*Gache)(nil)

// New opens (lazily) the cache file at path.
func New(path string) *Gache {
	return &Gache{
		internal: gache.New[map[string]*record](
			&gache.Options{
				Path:       path,
				FileSystem: &filesystem.GacheFs{},
			},
		),
	}
}

func (g *Gache) load() (map[string]*record, error) {
	data, expired, err := g.internal.Get()
	if err != nil {
		return nil, err
	}
	if expired || data == nil {
		return make(map[string]*record), nil
	}
	return data, nil
}

// Get returns the stored entry regardless of its freshness.
func (g *Gache) Get(id stream.SourceID) mo.Option[*Entry] {
	g.mu.RLock()
	defer g.mu.RUnlock()

	data, err := g.load()
	if err != nil {
		log.Warnf("stream cache read failed for %s: %v", id, err)
		return mo.None[*Entry]()
	}

	r, ok := data[string(id)]
	if !ok || r == nil {
		return mo.None[*Entry]()
	}
	return mo.Some(r.entry(id))
}

// Put overwrites the entry for id.
func (g *Gache) Put(id stream.SourceID, descriptor *stream.Descriptor, capturedAt time.Time) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	data, err := g.load()
	if err != nil {
		return err
	}

	data[string(id)] = newRecord(descriptor, capturedAt)
	return g.internal.Set(data)
}

// Entries lists every stored entry, fresh or not.
func (g *Gache) Entries() ([]*Entry, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	data, err := g.load()
	if err != nil {
		return nil, err
	}

	return lo.MapToSlice(data, func(id string, r *record) *Entry {
		return r.entry(stream.SourceID(id))
	}), nil
}

// Clear drops every entry.
func (g *Gache) Clear() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.internal.Set(make(map[string]*record))
}
