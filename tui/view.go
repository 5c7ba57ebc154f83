package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"
	"github.com/reel-cli/reel/color"
	"github.com/reel-cli/reel/icon"
	"github.com/reel-cli/reel/resolver"
	"github.com/reel-cli/reel/style"
	"github.com/reel-cli/reel/util"
)

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)
)

func (b *statefulBubble) View() string {
	switch b.state {
	case loadingState:
		return b.viewLoading()
	case readyState:
		return b.viewReady()
	case errorState:
		return b.viewError()
	case qualityState:
		return listExtraPaddingStyle.Render(b.qualityC.View())
	case captionState:
		return listExtraPaddingStyle.Render(b.captionC.View())
	case seasonsState:
		return listExtraPaddingStyle.Render(b.seasonsC.View())
	case episodesState:
		return listExtraPaddingStyle.Render(b.episodesC.View())
	default:
		return "Unknown state"
	}
}

func (b *statefulBubble) viewLoading() string {
	status := "Loading episodes"
	if source := b.snapshot.State.Source; source != "" {
		status = fmt.Sprintf("Resolving %s", style.Fg(color.Purple)(b.title()))
	}

	return b.renderLines(
		true,
		[]string{
			style.Title("Loading"),
			"",
			style.Truncate(b.width)(b.spinnerC.View() + " " + status),
		},
	)
}

func (b *statefulBubble) viewReady() string {
	state := b.snapshot.State
	sel := b.snapshot.Selection
	d := state.Descriptor
	if d == nil {
		return b.viewLoading()
	}

	caption := "off"
	if track, ok := sel.Caption.Get(); ok {
		caption = track.Language
	}

	playback := style.Faint("not playing")
	if b.playing {
		playback = style.Fg(color.Green)("playing")
	}

	lines := []string{
		style.Title("Ready"),
		"",
		style.Truncate(b.width)(fmt.Sprintf("%s %s", icon.Get(icon.Stream), style.Fg(color.Purple)(b.title()))),
		"",
		fmt.Sprintf("%s %s %s", icon.Get(icon.Quality), style.Bold("Quality"), sel.Quality),
		fmt.Sprintf("%s %s %s %s", icon.Get(icon.Caption), style.Bold("Captions"), caption,
			style.Faint("("+util.Quantify(len(d.Captions), "track", "tracks")+")")),
		"",
		style.Faint(style.Truncate(b.width)(fmt.Sprintf("%s · %s", d.Kind, d.Playlist))),
		"",
		playback,
	}

	if b.playerErr != nil {
		lines = append(lines, "", style.Fg(color.Red)(wrap.String(b.playerErr.Error(), b.width)))
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewError() string {
	var title, reason string
	var err error
	mark := icon.Fail

	if b.catalogErr != nil {
		title, reason, err = "Error", "Could not load the episode list", b.catalogErr
	} else {
		err = b.snapshot.State.Err
		switch b.snapshot.State.Reason() {
		case resolver.NoOutput:
			title, reason, mark = "Unavailable", "This title has no playable stream", icon.Warn
		case resolver.Timeout:
			title, reason = "Timed out", "Resolving took too long"
		case resolver.Malformed:
			title, reason = "Error", "The stream service sent an unexpected response"
		default:
			title, reason = "Error", "The stream service could not be reached"
		}
	}

	lines := []string{
		style.ErrorTitle(title),
		"",
		icon.Get(mark) + " " + reason,
	}

	if b.keymap.retry.Enabled() {
		lines = append(lines, style.Faint(icon.Get(icon.Retry)+" press r to try again"))
	}

	if err != nil {
		errorStyle := lipgloss.NewStyle().Foreground(style.ErrorColor)
		lines = append(lines, "", wrap.String(errorStyle.Render(err.Error()), b.width))
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
