package navigation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/reel-cli/reel/stream"
	. "github.com/smartystreets/goconvey/convey"
)

const catalogBody = `[
	{"id": "s1", "name": "Season 1", "episodes": [
		{"id": "s1e1", "title": "01 Pilot", "duration": "45m"},
		{"id": "s1e2", "title": "02 The Heist", "duration": "44m"}
	]},
	{"id": "s2", "name": "Season 2", "episodes": [
		{"id": "s2e1", "title": "01 Homecoming", "duration": "42m"},
		{"id": "s2e2", "title": "02 Aftermath", "duration": "43m"}
	]}
]`

type recorder struct {
	mu  sync.Mutex
	ids []stream.SourceID
}

func (r *recorder) Request(id stream.SourceID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, id)
}

func (r *recorder) last() stream.SourceID {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.ids) == 0 {
		return ""
	}
	return r.ids[len(r.ids)-1]
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ids)
}

func testSeasons() []*Season {
	var seasons []*Season
	if err := json.Unmarshal([]byte(catalogBody), &seasons); err != nil {
		panic(err)
	}
	return seasons
}

type staticCatalog struct {
	seasons []*Season
	err     error
}

func (s *staticCatalog) Seasons(context.Context, string) ([]*Season, error) {
	return s.seasons, s.err
}

func TestHTTPCatalog(t *testing.T) {
	Convey("Given a catalog endpoint", t, func() {
		var path string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path = r.URL.Path
			if r.URL.Path == "/tvshow/missing" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			switch r.URL.Path {
			case "/tvshow/numbered":
				_, _ = w.Write([]byte(`[
					{"id": 1, "name": "Season 1", "episodes": [{"id": "s1e1", "title": "01 Almost True", "duration": "45m"}]},
					{"id": 2, "name": "Season 2", "episodes": [{"id": "s2e1", "title": "01 Episode 1", "duration": "42m"}]}
				]`))
			case "/tvshow/sparse":
				_, _ = w.Write([]byte(`[null, {"id": "s1", "name": "Season 1", "episodes": [null, {"id": "s1e1", "title": "01 Pilot"}]}]`))
			case "/tvshow/odd":
				_, _ = w.Write([]byte(`[{"id": true, "name": "Season 1"}]`))
			default:
				_, _ = w.Write([]byte(catalogBody))
			}
		}))
		defer server.Close()

		catalog := NewHTTPCatalog(server.URL+"/tvshow/", server.Client())

		Convey("Seasons are decoded in order", func() {
			seasons, err := catalog.Seasons(context.Background(), "show-1")
			So(err, ShouldBeNil)
			So(path, ShouldEqual, "/tvshow/show-1")
			So(seasons, ShouldHaveLength, 2)
			So(seasons[1].Episodes[0].ID, ShouldEqual, stream.SourceID("s2e1"))
			So(seasons[0].Episodes[0].String(), ShouldEqual, "01 Pilot (45m)")
		})

		Convey("Numeric season ids are read as strings", func() {
			seasons, err := catalog.Seasons(context.Background(), "numbered")
			So(err, ShouldBeNil)
			So(seasons, ShouldHaveLength, 2)
			So(seasons[0].ID, ShouldEqual, "1")
			So(seasons[1].ID, ShouldEqual, "2")
			So(seasons[1].Episodes[0].ID, ShouldEqual, stream.SourceID("s2e1"))

			requests := &recorder{}
			nav := NewNavigator(catalog, requests, "numbered")
			So(nav.Load(context.Background()), ShouldBeNil)
			So(requests.last(), ShouldEqual, stream.SourceID("s1e1"))
			So(nav.SelectSeason("2"), ShouldBeTrue)
		})

		Convey("Null seasons and episodes are dropped", func() {
			seasons, err := catalog.Seasons(context.Background(), "sparse")
			So(err, ShouldBeNil)
			So(seasons, ShouldHaveLength, 1)
			So(seasons[0].Episodes, ShouldHaveLength, 1)

			requests := &recorder{}
			nav := NewNavigator(catalog, requests, "sparse")
			So(nav.Load(context.Background()), ShouldBeNil)
			So(requests.last(), ShouldEqual, stream.SourceID("s1e1"))
		})

		Convey("Other season id types are rejected", func() {
			_, err := catalog.Seasons(context.Background(), "odd")
			So(err, ShouldNotBeNil)
		})

		Convey("A failing status is an error", func() {
			_, err := catalog.Seasons(context.Background(), "missing")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestNavigator(t *testing.T) {
	Convey("Given a loaded navigator", t, func() {
		seasons := testSeasons()
		requests := &recorder{}
		nav := NewNavigator(&staticCatalog{seasons: seasons}, requests, "show-1")
		So(nav.Load(context.Background()), ShouldBeNil)

		Convey("The first episode of the first season is requested", func() {
			So(requests.last(), ShouldEqual, stream.SourceID("s1e1"))
			So(nav.Season().MustGet().ID, ShouldEqual, "s1")
			So(nav.Episode().MustGet().ID, ShouldEqual, stream.SourceID("s1e1"))
		})

		Convey("Switching seasons requests nothing", func() {
			So(nav.SelectSeason("s2"), ShouldBeTrue)
			So(nav.Season().MustGet().Name, ShouldEqual, "Season 2")
			So(nav.Episode().MustGet().ID, ShouldEqual, stream.SourceID("s1e1"))
			So(requests.count(), ShouldEqual, 1)
			So(nav.SelectSeason("s9"), ShouldBeFalse)
		})

		Convey("Selecting an episode requests it", func() {
			So(nav.SelectEpisode("s2e2"), ShouldBeTrue)
			So(requests.last(), ShouldEqual, stream.SourceID("s2e2"))
			So(nav.Season().MustGet().ID, ShouldEqual, "s2")
			So(nav.SelectEpisode("nope"), ShouldBeFalse)
		})

		Convey("Next and Previous cross season boundaries", func() {
			So(nav.Next(), ShouldBeTrue)
			So(nav.Next(), ShouldBeTrue)
			So(requests.last(), ShouldEqual, stream.SourceID("s2e1"))
			So(nav.Season().MustGet().ID, ShouldEqual, "s2")

			So(nav.Previous(), ShouldBeTrue)
			So(requests.last(), ShouldEqual, stream.SourceID("s1e2"))

			So(nav.Previous(), ShouldBeTrue)
			So(nav.Previous(), ShouldBeFalse)
		})

		Convey("Find matches titles fuzzily", func() {
			found := nav.Find("heist")
			So(found, ShouldNotBeEmpty)
			So(found[0].ID, ShouldEqual, stream.SourceID("s1e2"))
			So(nav.Find(""), ShouldHaveLength, 4)
			So(nav.Find("zzzz"), ShouldBeEmpty)
		})
	})

	Convey("Given a failing catalog", t, func() {
		catalog := &staticCatalog{err: errors.New("offline")}
		requests := &recorder{}
		nav := NewNavigator(catalog, requests, "show-1")

		Convey("Load reports the error and can be retried", func() {
			So(nav.Load(context.Background()), ShouldNotBeNil)
			So(nav.Err(), ShouldNotBeNil)
			So(requests.count(), ShouldEqual, 0)
			So(nav.Next(), ShouldBeFalse)

			catalog.err = nil
			catalog.seasons = testSeasons()

			So(nav.Load(context.Background()), ShouldBeNil)
			So(nav.Err(), ShouldBeNil)
			So(requests.last(), ShouldEqual, stream.SourceID("s1e1"))
		})

		Convey("A show without episodes is an error", func() {
			catalog.err = nil
			catalog.seasons = []*Season{{ID: "s1", Name: "Season 1"}}
			So(errors.Is(nav.Load(context.Background()), ErrEmptyCatalog), ShouldBeTrue)
		})
	})
}
