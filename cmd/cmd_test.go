package cmd

import (
	"errors"
	"testing"
	"time"

	"github.com/reel-cli/reel/cache"
	"github.com/reel-cli/reel/config"
	"github.com/reel-cli/reel/filesystem"
	"github.com/reel-cli/reel/history"
	"github.com/reel-cli/reel/key"
	"github.com/reel-cli/reel/navigation"
	"github.com/reel-cli/reel/resolution"
	"github.com/reel-cli/reel/resolver"
	"github.com/reel-cli/reel/selection"
	"github.com/reel-cli/reel/stream"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestParseValue(t *testing.T) {
	Convey("Values are parsed by the type of the default", t, func() {
		v, err := parseValue(key.CacheTTL, []string{"90"})
		So(err, ShouldBeNil)
		So(v, ShouldEqual, 90)

		v, err = parseValue(key.HistorySave, []string{"false"})
		So(err, ShouldBeNil)
		So(v, ShouldEqual, false)

		v, err = parseValue(key.CaptionsLanguage, []string{"es"})
		So(err, ShouldBeNil)
		So(v, ShouldEqual, "es")
	})

	Convey("Durations must be positive", t, func() {
		_, err := parseValue(key.ResolverTimeout, []string{"0"})
		So(err, ShouldNotBeNil)

		_, err = parseValue(key.CacheTTL, []string{"soon"})
		So(err, ShouldNotBeNil)
	})

	Convey("Only known players are accepted", t, func() {
		_, err := parseValue(key.Player, []string{"vlc"})
		So(err, ShouldNotBeNil)

		v, err := parseValue(key.Player, []string{"iina"})
		So(err, ShouldBeNil)
		So(v, ShouldEqual, "iina")
	})

	Convey("Unknown keys suggest the closest one", t, func() {
		_, err := parseValue("cache.tll", []string{"1"})
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, key.CacheTTL)
	})
}

func TestSelectFields(t *testing.T) {
	Convey("Without names every field is returned in key order", t, func() {
		fields, err := selectFields(nil)
		So(err, ShouldBeNil)
		So(len(fields), ShouldEqual, len(config.Default))

		for i := 1; i < len(fields); i++ {
			So(fields[i-1].Key, ShouldBeLessThan, fields[i].Key)
		}
	})

	Convey("Named fields are validated", t, func() {
		fields, err := selectFields([]string{key.Player, key.CacheTTL})
		So(err, ShouldBeNil)
		So(fields[0].Key, ShouldEqual, key.CacheTTL)
		So(fields[1].Key, ShouldEqual, key.Player)

		_, err = selectFields([]string{"player.nmae"})
		So(err, ShouldNotBeNil)
	})
}

func TestListCache(t *testing.T) {
	Convey("Given cached entries of different ages", t, func() {
		now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		entry := func(id string, age time.Duration) *cache.Entry {
			return &cache.Entry{
				Source:     stream.SourceID(id),
				Descriptor: &stream.Descriptor{ID: "s-" + id, Kind: stream.KindHLS, Playlist: "https://cdn/" + id + ".m3u8"},
				CapturedAt: now.Add(-age),
			}
		}
		entries := []*cache.Entry{
			entry("old", 10*time.Minute),
			entry("new", 30*time.Second),
			entry("edge", 2*time.Minute),
		}

		Convey("They are listed newest first with freshness", func() {
			listing := listCache(entries, now, 2*time.Minute, false)
			So(listing, ShouldHaveLength, 3)
			So(listing[0].Source, ShouldEqual, "new")
			So(listing[0].Fresh, ShouldBeTrue)
			So(listing[1].Source, ShouldEqual, "edge")
			So(listing[1].Fresh, ShouldBeFalse)
			So(listing[2].Source, ShouldEqual, "old")
		})

		Convey("Stale entries can be hidden", func() {
			listing := listCache(entries, now, 2*time.Minute, true)
			So(listing, ShouldHaveLength, 1)
			So(listing[0].Stream, ShouldEqual, "s-new")
		})
	})
}

func TestResolveOutput(t *testing.T) {
	Convey("A ready snapshot carries the stream and selection", t, func() {
		track := stream.CaptionTrack{ID: "c1", Language: "en", URL: "https://cdn/en.vtt"}
		out := newResolveOutput(resolution.Snapshot{
			Version: 3,
			State: resolution.State{
				Phase:      resolution.Ready,
				Source:     "m1",
				Descriptor: &stream.Descriptor{ID: "s1", Captions: []stream.CaptionTrack{track}},
			},
			Selection: selection.State{Quality: selection.Q720, Caption: mo.Some(track)},
		})

		So(out.Source, ShouldEqual, stream.SourceID("m1"))
		So(out.Stream.ID, ShouldEqual, "s1")
		So(out.Quality, ShouldEqual, selection.Q720)
		So(out.Caption, ShouldEqual, "c1")
		So(out.Error, ShouldBeEmpty)
	})

	Convey("A failed snapshot carries the reason", t, func() {
		out := newResolveOutput(resolution.Snapshot{
			State: resolution.State{
				Phase:  resolution.Failed,
				Source: "m1",
				Err:    &resolver.Error{Kind: resolver.NoOutput, Source: "m1", Err: errors.New("no output")},
			},
			Selection: selection.Zero(),
		})

		So(out.Stream, ShouldBeNil)
		So(out.Reason, ShouldEqual, resolver.NoOutput.String())
		So(out.Retryable, ShouldBeFalse)
		So(out.Error, ShouldNotBeEmpty)
	})
}

func TestEpisodeOptions(t *testing.T) {
	Convey("Episodes of every season are offered in order", t, func() {
		options := episodeOptions([]*navigation.Season{
			{ID: "1", Name: "Season 1", Episodes: []*navigation.Episode{
				{ID: "e1", Title: "Pilot", Duration: "42m"},
				{ID: "e2", Title: "Second"},
			}},
			{ID: "2", Name: "Season 2"},
			{ID: "3", Name: "Season 3", Episodes: []*navigation.Episode{
				{ID: "e3", Title: "Return"},
			}},
		})

		So(options, ShouldHaveLength, 3)
		So(options[0].label, ShouldEqual, "Season 1 / Pilot (42m)")
		So(options[1].label, ShouldEqual, "Season 1 / Second")
		So(options[2].episode.ID, ShouldEqual, stream.SourceID("e3"))
	})
}

func TestEnvVariables(t *testing.T) {
	Convey("Every key is exposed under the app prefix", t, func() {
		names := envVariables()
		So(names, ShouldContain, "REEL_CACHE_TTL")
		So(names, ShouldContain, "REEL_RESOLVER_ENDPOINT")
		So(names, ShouldContain, "REEL_CONFIG_PATH")
	})
}

func TestLastTarget(t *testing.T) {
	Convey("Given watch history", t, func() {
		viper.Set(key.HistorySave, true)
		defer viper.Set(key.HistorySave, nil)

		entries, err := history.List()
		So(err, ShouldBeNil)
		for _, e := range entries {
			So(history.Remove(e), ShouldBeNil)
		}

		Convey("Empty history has nothing to continue", func() {
			_, err := lastTarget()
			So(err, ShouldEqual, errNoHistory)
		})

		Convey("A show resumes the show", func() {
			at := time.Now()
			So(history.Save(&history.Entry{Source: "m1", Title: "Movie"}, at.Add(-time.Hour)), ShouldBeNil)
			So(history.Save(&history.Entry{Source: "e2", ShowID: "tv1", Title: "Second"}, at), ShouldBeNil)

			target, err := lastTarget()
			So(err, ShouldBeNil)
			So(target.showID, ShouldEqual, "tv1")
			So(target.source, ShouldBeEmpty)
		})

		Convey("A movie resumes the source", func() {
			So(history.Save(&history.Entry{Source: "m1", Title: "Movie"}, time.Now()), ShouldBeNil)

			target, err := lastTarget()
			So(err, ShouldBeNil)
			So(target.source, ShouldEqual, stream.SourceID("m1"))
			So(target.title, ShouldEqual, "Movie")
		})
	})
}
