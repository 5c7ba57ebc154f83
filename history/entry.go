package history

import (
	"fmt"
	"time"

	"github.com/reel-cli/reel/stream"
)

// Entry records a stream that became playable.
type Entry struct {
	Source  stream.SourceID `json:"source_id"`
	ShowID  string          `json:"show_id,omitempty"`
	Title   string          `json:"title"`
	Quality string          `json:"quality,omitempty"`
	Caption string          `json:"caption,omitempty"`
	// WatchedAt is in epoch milliseconds, matching the stream cache.
	WatchedAt int64 `json:"watched_at"`
}

// key groups episodes of one show under a single record, so that
// --continue resumes the show rather than a specific episode.
func (e *Entry) key() string {
	if e.ShowID != "" {
		return "show:" + e.ShowID
	}
	return "source:" + e.Source.String()
}

func (e *Entry) Time() time.Time {
	return time.UnixMilli(e.WatchedAt)
}

func (e *Entry) String() string {
	title := e.Title
	if title == "" {
		title = e.Source.String()
	}
	return fmt.Sprintf("%s (%s)", title, e.Time().Format("2006-01-02 15:04"))
}
