package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/reel-cli/reel/navigation"
	"github.com/reel-cli/reel/player"
	"github.com/reel-cli/reel/resolution"
	"github.com/reel-cli/reel/selection"
	"github.com/reel-cli/reel/stream"
	"github.com/reel-cli/reel/style"
	"github.com/reel-cli/reel/util"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

type statefulBubble struct {
	state         state
	statesHistory util.Stack[state]

	keymap *statefulKeymap

	spinnerC  spinner.Model
	qualityC  list.Model
	captionC  list.Model
	seasonsC  list.Model
	episodesC list.Model
	helpC     help.Model

	engine    *resolution.Engine
	navigator *navigation.Navigator
	player    player.Player

	// snapshots holds at most the newest undelivered engine snapshot
	snapshots   chan resolution.Snapshot
	unsubscribe func()
	snapshot    resolution.Snapshot

	catalogErr error
	playerErr  error
	playing    bool

	width, height int

	options *Options
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

// newState moves to s, remembering where to go back to.
func (b *statefulBubble) newState(s state) {
	if b.state == s {
		return
	}

	b.statesHistory.Push(b.state)
	b.setState(s)
}

func (b *statefulBubble) previousState() {
	if b.statesHistory.Len() > 0 {
		b.setState(b.statesHistory.Pop())
	}
}

// follow returns to the view of the current engine phase, dropping picker history.
func (b *statefulBubble) follow() {
	b.statesHistory.Clear()
	b.setState(stateFor(b.snapshot.State.Phase))
}

// track returns to the engine driven views and catches up with the engine right away.
func (b *statefulBubble) track() tea.Cmd {
	b.follow()
	return b.onSnapshot(b.engine.Snapshot())
}

func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()
	xx, yy := listExtraPaddingStyle.GetFrameSize()

	listWidth := width - xx
	listHeight := height - yy

	for _, l := range []*list.Model{&b.qualityC, &b.captionC, &b.seasonsC, &b.episodesC} {
		l.SetSize(listWidth, listHeight)
		l.Help.Width = listWidth
	}

	b.width = width - x
	b.height = height - y
	b.helpC.Width = listWidth
}

// listen receives engine notifications. It never blocks the engine:
// an older pending snapshot is replaced by a newer one.
func (b *statefulBubble) listen(s resolution.Snapshot) {
	for {
		select {
		case b.snapshots <- s:
			return
		default:
		}

		select {
		case pending := <-b.snapshots:
			if pending.Version > s.Version {
				s = pending
			}
		default:
		}
	}
}

func (b *statefulBubble) title() string {
	if b.navigator != nil {
		if episode, ok := b.navigator.Episode().Get(); ok {
			return episode.Title
		}
	}
	if b.options.Title != "" {
		return b.options.Title
	}
	return b.snapshot.State.Source.String()
}

func (b *statefulBubble) media() mo.Option[player.Media] {
	state := b.snapshot.State
	if state.Phase != resolution.Ready || state.Descriptor == nil {
		return mo.None[player.Media]()
	}
	return mo.Some(player.NewMedia(b.title(), state.Descriptor, b.snapshot.Selection))
}

// refreshPickers rebuilds the quality and caption lists from the current selection.
func (b *statefulBubble) refreshPickers() {
	sel := b.snapshot.Selection

	b.qualityC.SetItems(lo.Map(selection.Qualities(), func(q selection.Quality, _ int) list.Item {
		return &listItem{internal: q, marked: q == sel.Quality}
	}))

	selected, hasCaption := sel.Caption.Get()
	items := []list.Item{&listItem{internal: captionChoice{track: mo.None[stream.CaptionTrack]()}, marked: !hasCaption}}
	for _, track := range sel.Captions() {
		items = append(items, &listItem{
			internal: captionChoice{track: mo.Some(track)},
			marked:   hasCaption && track.ID == selected.ID,
		})
	}
	b.captionC.SetItems(items)
}

func (b *statefulBubble) refreshSeasons() {
	if b.navigator == nil {
		return
	}

	b.seasonsC.SetItems(lo.Map(b.navigator.Seasons(), func(s *navigation.Season, _ int) list.Item {
		return &listItem{internal: s}
	}))
	b.refreshEpisodes()
}

func (b *statefulBubble) refreshEpisodes() {
	season, ok := b.navigator.Season().Get()
	if !ok {
		b.episodesC.SetItems(nil)
		return
	}

	current := b.navigator.Episode().OrEmpty()
	b.episodesC.Title = season.Name
	b.episodesC.SetItems(lo.Map(season.Episodes, func(e *navigation.Episode, _ int) list.Item {
		return &listItem{internal: e, marked: e == current}
	}))
}

func newBubble(options *Options) *statefulBubble {
	bubble := statefulBubble{
		statesHistory: util.Stack[state]{},
		keymap:        newStatefulKeymap(),
		engine:        options.Engine,
		navigator:     options.Navigator,
		player:        options.Player,
		snapshots:     make(chan resolution.Snapshot, 1),
		options:       options,
	}

	bubble.keymap.enableNavigation(options.Navigator != nil)
	bubble.snapshot = options.Engine.Snapshot()
	bubble.unsubscribe = options.Engine.Subscribe(bubble.listen)

	makeList := func(title string, titleStyle lipgloss.Style) list.Model {
		delegate := list.NewDefaultDelegate()
		delegate.Styles.SelectedTitle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(style.AccentColor).
			Foreground(style.AccentColor).
			Padding(0, 0, 0, 1)
		delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(lipgloss.Color("7"))
		delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

		listC := list.New([]list.Item{}, delegate, 0, 0)
		listC.KeyMap = bubble.keymap.forList()
		listC.AdditionalShortHelpKeys = bubble.keymap.ShortHelp
		listC.AdditionalFullHelpKeys = func() []key.Binding {
			return bubble.keymap.FullHelp()[0]
		}
		listC.Title = title
		listC.Styles.Title = titleStyle
		listC.SetShowHelp(true)
		listC.SetFilteringEnabled(true)
		return listC
	}

	tag := func(bg lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(style.Base).Background(bg).Padding(0, 1)
	}

	bubble.qualityC = makeList("Quality", tag(style.QualityTag))
	bubble.qualityC.SetStatusBarItemName("quality", "qualities")
	bubble.qualityC.SetFilteringEnabled(false)

	bubble.captionC = makeList("Captions", tag(style.CaptionTag))
	bubble.captionC.SetStatusBarItemName("track", "tracks")

	bubble.seasonsC = makeList("Seasons", tag(style.SeasonTag))
	bubble.seasonsC.SetStatusBarItemName("season", "seasons")

	bubble.episodesC = makeList("Episodes", tag(style.EpisodeTag))
	bubble.episodesC.SetStatusBarItemName("episode", "episodes")

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(style.AccentColor)

	bubble.helpC = help.New()

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	bubble.setState(stateFor(bubble.snapshot.State.Phase))
	bubble.refreshPickers()

	return &bubble
}
