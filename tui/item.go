package tui

import (
	"fmt"

	"github.com/reel-cli/reel/icon"
	"github.com/reel-cli/reel/navigation"
	"github.com/reel-cli/reel/selection"
	"github.com/reel-cli/reel/stream"
	"github.com/reel-cli/reel/style"
	"github.com/reel-cli/reel/util"
	"github.com/samber/mo"
)

// captionChoice is an entry of the caption picker. An absent track turns captions off.
type captionChoice struct {
	track mo.Option[stream.CaptionTrack]
}

// listItem wraps the domain values shown in pickers.
type listItem struct {
	internal any
	marked   bool
}

func (t *listItem) Title() (title string) {
	switch e := t.internal.(type) {
	case selection.Quality:
		title = e.String()
	case captionChoice:
		title = "Off"
		if track, ok := e.track.Get(); ok {
			title = track.Language
		}
	case *navigation.Season:
		title = e.Name
	case *navigation.Episode:
		title = e.Title
	default:
		title = t.FilterValue()
	}

	if t.marked {
		title = fmt.Sprintf("%s %s", title, style.Fg(style.AccentColor)(icon.Get(icon.Success)))
	}
	return
}

func (t *listItem) Description() string {
	switch e := t.internal.(type) {
	case selection.Quality:
		if e.Height() == 0 {
			return "let the player choose"
		}
		return fmt.Sprintf("up to %dp", e.Height())
	case captionChoice:
		if track, ok := e.track.Get(); ok {
			return style.Faint(track.URL)
		}
		return "no captions"
	case *navigation.Season:
		return util.Quantify(len(e.Episodes), "episode", "episodes")
	case *navigation.Episode:
		return e.Duration
	default:
		return ""
	}
}

func (t *listItem) FilterValue() string {
	switch e := t.internal.(type) {
	case selection.Quality:
		return e.String()
	case captionChoice:
		if track, ok := e.track.Get(); ok {
			return track.Language
		}
		return "off"
	case *navigation.Season:
		return e.Name
	case *navigation.Episode:
		return e.Title
	case fmt.Stringer:
		return e.String()
	default:
		return ""
	}
}
