package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/reel-cli/reel/history"
	"github.com/reel-cli/reel/log"
	"github.com/reel-cli/reel/resolution"
)

type (
	snapshotMsg      resolution.Snapshot
	catalogLoadedMsg struct{}
	catalogFailedMsg struct{ err error }
	playerStartedMsg struct{}
	playerExitedMsg  struct{}
	playerFailedMsg  struct{ err error }
)

func (b *statefulBubble) waitForSnapshot() tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(<-b.snapshots)
	}
}

func (b *statefulBubble) loadCatalog() tea.Cmd {
	return func() tea.Msg {
		if err := b.navigator.Load(context.Background()); err != nil {
			log.Error(err)
			return catalogFailedMsg{err: err}
		}
		return catalogLoadedMsg{}
	}
}

func (b *statefulBubble) play() tea.Cmd {
	media, ok := b.media().Get()
	if !ok {
		return nil
	}

	return func() tea.Msg {
		if err := b.player.Play(media); err != nil {
			log.Error(err)
			return playerFailedMsg{err: err}
		}
		return playerStartedMsg{}
	}
}

// reselect pushes the current selection to a running player.
func (b *statefulBubble) reselect() tea.Cmd {
	media, ok := b.media().Get()
	if !ok || !b.playing {
		return nil
	}

	return func() tea.Msg {
		if err := b.player.Select(media); err != nil {
			log.Warn(err)
			return playerFailedMsg{err: err}
		}
		return nil
	}
}

func (b *statefulBubble) waitForPlayerExit() tea.Cmd {
	done := b.player.Wait()
	return func() tea.Msg {
		<-done
		return playerExitedMsg{}
	}
}

func (b *statefulBubble) saveHistory() {
	state := b.snapshot.State
	entry := &history.Entry{
		Source:  state.Source,
		ShowID:  b.options.ShowID,
		Title:   b.title(),
		Quality: b.snapshot.Selection.Quality.String(),
	}
	if track, ok := b.snapshot.Selection.Caption.Get(); ok {
		entry.Caption = track.Language
	}

	if err := history.Save(entry, time.Now()); err != nil {
		log.Warnf("saving history: %v", err)
	}
}

// onSnapshot applies an engine notification unless a newer one was already seen.
func (b *statefulBubble) onSnapshot(s resolution.Snapshot) tea.Cmd {
	if s.Version <= b.snapshot.Version {
		return nil
	}

	previous := b.snapshot
	b.snapshot = s
	b.keymap.retry.SetEnabled(s.State.CanRetry())
	b.refreshPickers()

	if b.state.follows() {
		b.follow()
	}

	if b.navigator != nil {
		b.refreshEpisodes()
	}

	becameReady := s.State.Phase == resolution.Ready &&
		(previous.State.Phase != resolution.Ready || previous.State.Source != s.State.Source)
	if !becameReady {
		return nil
	}

	b.saveHistory()
	if b.playing {
		return b.play()
	}
	return nil
}
