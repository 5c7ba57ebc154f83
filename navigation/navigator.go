package navigation

import (
	"context"
	"sort"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/reel-cli/reel/stream"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Requester receives every episode the user selects.
type Requester interface {
	Request(id stream.SourceID)
}

// Navigator tracks the visible season and the selected episode of one show.
type Navigator struct {
	catalog   Catalog
	requester Requester
	showID    string

	mu      sync.Mutex
	seasons []*Season
	season  int
	episode mo.Option[*Episode]
	loadErr error
}

func NewNavigator(catalog Catalog, requester Requester, showID string) *Navigator {
	return &Navigator{
		catalog:   catalog,
		requester: requester,
		showID:    showID,
		episode:   mo.None[*Episode](),
	}
}

// Load fetches the catalog and selects the first episode of the first season.
// On failure the previous seasons are kept and Load can be called again.
func (n *Navigator) Load(ctx context.Context) error {
	seasons, err := n.catalog.Seasons(ctx, n.showID)
	if err == nil && len(lo.FlatMap(seasons, func(s *Season, _ int) []*Episode { return s.Episodes })) == 0 {
		err = ErrEmptyCatalog
	}

	n.mu.Lock()
	if err != nil {
		n.loadErr = err
		n.mu.Unlock()
		return err
	}

	n.loadErr = nil
	n.seasons = seasons
	n.season = 0
	n.episode = mo.None[*Episode]()

	first, index, _ := n.firstEpisode()
	n.season = index
	n.episode = mo.Some(first)
	n.mu.Unlock()

	n.requester.Request(first.ID)
	return nil
}

// firstEpisode finds the first season that has episodes.
func (n *Navigator) firstEpisode() (*Episode, int, bool) {
	for i, s := range n.seasons {
		if len(s.Episodes) > 0 {
			return s.Episodes[0], i, true
		}
	}
	return nil, 0, false
}

// Err returns the last load failure, if any.
func (n *Navigator) Err() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.loadErr
}

func (n *Navigator) Seasons() []*Season {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.seasons
}

// Season returns the season whose episodes are visible.
func (n *Navigator) Season() mo.Option[*Season] {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.season < 0 || n.season >= len(n.seasons) {
		return mo.None[*Season]()
	}
	return mo.Some(n.seasons[n.season])
}

// Episode returns the selected episode.
func (n *Navigator) Episode() mo.Option[*Episode] {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.episode
}

// SelectSeason switches the visible season. It doesn't request anything.
func (n *Navigator) SelectSeason(id string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	_, index, ok := lo.FindIndexOf(n.seasons, func(s *Season) bool {
		return s.ID == id
	})
	if !ok {
		return false
	}

	n.season = index
	return true
}

// SelectEpisode selects and requests the episode with the given id from any season.
func (n *Navigator) SelectEpisode(id stream.SourceID) bool {
	n.mu.Lock()
	for i, s := range n.seasons {
		if e, ok := lo.Find(s.Episodes, func(e *Episode) bool { return e.ID == id }); ok {
			n.season = i
			n.episode = mo.Some(e)
			n.mu.Unlock()

			n.requester.Request(e.ID)
			return true
		}
	}
	n.mu.Unlock()
	return false
}

// flat lists every episode in playback order. Must be called with the lock held.
func (n *Navigator) flat() []*Episode {
	return lo.FlatMap(n.seasons, func(s *Season, _ int) []*Episode {
		return s.Episodes
	})
}

func (n *Navigator) step(delta int) bool {
	n.mu.Lock()
	current, ok := n.episode.Get()
	if !ok {
		n.mu.Unlock()
		return false
	}

	episodes := n.flat()
	_, index, _ := lo.FindIndexOf(episodes, func(e *Episode) bool { return e == current })
	target := index + delta
	if target < 0 || target >= len(episodes) {
		n.mu.Unlock()
		return false
	}
	id := episodes[target].ID
	n.mu.Unlock()

	return n.SelectEpisode(id)
}

// Next selects the following episode, crossing into the next season if needed.
func (n *Navigator) Next() bool {
	return n.step(1)
}

// Previous selects the preceding episode, crossing into the previous season if needed.
func (n *Navigator) Previous() bool {
	return n.step(-1)
}

// Find returns the episodes whose titles fuzzily match query, best first.
func (n *Navigator) Find(query string) []*Episode {
	n.mu.Lock()
	episodes := n.flat()
	n.mu.Unlock()

	if query == "" {
		return episodes
	}

	titles := lo.Map(episodes, func(e *Episode, _ int) string { return e.Title })
	ranks := fuzzy.RankFindNormalizedFold(query, titles)
	sort.Stable(ranks)

	return lo.Map(ranks, func(r fuzzy.Rank, _ int) *Episode {
		return episodes[r.OriginalIndex]
	})
}
