package tui

import (
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/reel-cli/reel/navigation"
	"github.com/reel-cli/reel/resolution"
	"github.com/reel-cli/reel/selection"
	"github.com/samber/mo"
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
	case snapshotMsg:
		return b, tea.Batch(b.onSnapshot(resolution.Snapshot(msg)), b.waitForSnapshot())
	case catalogLoadedMsg:
		b.catalogErr = nil
		b.keymap.retry.SetEnabled(b.snapshot.State.CanRetry())
		b.refreshSeasons()
		if b.state == errorState {
			b.follow()
		}
		return b, nil
	case catalogFailedMsg:
		b.catalogErr = msg.err
		b.keymap.retry.SetEnabled(true)
		b.statesHistory.Clear()
		b.setState(errorState)
		return b, nil
	case playerStartedMsg:
		b.playing = true
		b.playerErr = nil
		return b, b.waitForPlayerExit()
	case playerExitedMsg:
		b.playing = b.player.IsRunning()
		return b, nil
	case playerFailedMsg:
		b.playerErr = msg.err
		return b, nil
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit) {
			return b, tea.Quit
		}

		if bubblesKey.Matches(msg, b.keymap.back) && !b.filtering() && b.statesHistory.Len() > 0 {
			b.previousState()
			return b, nil
		}
	}

	switch b.state {
	case loadingState:
		return b.updateLoading(msg)
	case readyState:
		return b.updateReady(msg)
	case errorState:
		return b.updateError(msg)
	case qualityState:
		return b.updateQuality(msg)
	case captionState:
		return b.updateCaption(msg)
	case seasonsState:
		return b.updateSeasons(msg)
	case episodesState:
		return b.updateEpisodes(msg)
	}

	return b, nil
}

// filtering reports whether the visible list is consuming keys for its filter.
func (b *statefulBubble) filtering() bool {
	if l := b.activeList(); l != nil {
		return l.FilterState() == list.Filtering
	}
	return false
}

func (b *statefulBubble) activeList() *list.Model {
	switch b.state {
	case qualityState:
		return &b.qualityC
	case captionState:
		return &b.captionC
	case seasonsState:
		return &b.seasonsC
	case episodesState:
		return &b.episodesC
	default:
		return nil
	}
}

// openEpisodes shows the episodes of the visible season.
func (b *statefulBubble) openEpisodes() {
	if b.navigator == nil || len(b.navigator.Seasons()) == 0 {
		return
	}
	b.refreshEpisodes()
	b.newState(episodesState)
}

func (b *statefulBubble) updateLoading(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.quit):
			return b, tea.Quit
		case bubblesKey.Matches(msg, b.keymap.episodes):
			b.openEpisodes()
			return b, nil
		}
	}

	var cmd tea.Cmd
	b.spinnerC, cmd = b.spinnerC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updateReady(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		b.spinnerC, cmd = b.spinnerC.Update(msg)
		return b, cmd
	}

	switch {
	case bubblesKey.Matches(keyMsg, b.keymap.quit):
		return b, tea.Quit
	case bubblesKey.Matches(keyMsg, b.keymap.play):
		return b, b.play()
	case bubblesKey.Matches(keyMsg, b.keymap.quality):
		b.newState(qualityState)
	case bubblesKey.Matches(keyMsg, b.keymap.caption):
		b.newState(captionState)
	case bubblesKey.Matches(keyMsg, b.keymap.episodes):
		b.openEpisodes()
	case bubblesKey.Matches(keyMsg, b.keymap.next):
		if b.navigator.Next() {
			return b, b.track()
		}
	case bubblesKey.Matches(keyMsg, b.keymap.previous):
		if b.navigator.Previous() {
			return b, b.track()
		}
	}

	return b, nil
}

func (b *statefulBubble) updateError(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return b, nil
	}

	switch {
	case bubblesKey.Matches(keyMsg, b.keymap.quit):
		return b, tea.Quit
	case bubblesKey.Matches(keyMsg, b.keymap.retry):
		if b.catalogErr != nil {
			b.catalogErr = nil
			b.setState(loadingState)
			return b, b.loadCatalog()
		}
		if b.engine.Retry() {
			return b, b.track()
		}
	case bubblesKey.Matches(keyMsg, b.keymap.episodes):
		if b.catalogErr == nil {
			b.openEpisodes()
		}
	}

	return b, nil
}

// updatePicker forwards msg to l and calls onConfirm with the chosen item.
func (b *statefulBubble) updatePicker(l *list.Model, msg tea.Msg, onConfirm func(item *listItem) tea.Cmd) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && l.FilterState() != list.Filtering {
		if bubblesKey.Matches(msg, b.keymap.confirm) {
			item, ok := l.SelectedItem().(*listItem)
			if !ok {
				return b, nil
			}
			return b, onConfirm(item)
		}
	}

	var cmd tea.Cmd
	*l, cmd = l.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updateQuality(msg tea.Msg) (tea.Model, tea.Cmd) {
	return b.updatePicker(&b.qualityC, msg, func(item *listItem) tea.Cmd {
		quality, ok := item.internal.(selection.Quality)
		if !ok {
			return nil
		}
		if err := b.engine.SetQuality(quality); err != nil {
			return nil
		}
		b.previousState()
		return b.reselect()
	})
}

func (b *statefulBubble) updateCaption(msg tea.Msg) (tea.Model, tea.Cmd) {
	return b.updatePicker(&b.captionC, msg, func(item *listItem) tea.Cmd {
		choice, ok := item.internal.(captionChoice)
		if !ok {
			return nil
		}

		id := mo.None[string]()
		if track, ok := choice.track.Get(); ok {
			id = mo.Some(track.ID)
		}

		if !b.engine.SetCaption(id) {
			return nil
		}
		b.previousState()
		return b.reselect()
	})
}

func (b *statefulBubble) updateSeasons(msg tea.Msg) (tea.Model, tea.Cmd) {
	return b.updatePicker(&b.seasonsC, msg, func(item *listItem) tea.Cmd {
		season, ok := item.internal.(*navigation.Season)
		if !ok || !b.navigator.SelectSeason(season.ID) {
			return nil
		}
		b.refreshEpisodes()
		b.episodesC.ResetSelected()
		b.previousState()
		return nil
	})
}

func (b *statefulBubble) updateEpisodes(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && b.episodesC.FilterState() != list.Filtering {
		if bubblesKey.Matches(msg, b.keymap.seasons) {
			b.newState(seasonsState)
			return b, nil
		}
	}

	return b.updatePicker(&b.episodesC, msg, func(item *listItem) tea.Cmd {
		episode, ok := item.internal.(*navigation.Episode)
		if !ok {
			return nil
		}
		b.episodesC.ResetFilter()
		if b.navigator.SelectEpisode(episode.ID) {
			return b.track()
		}
		return nil
	})
}
