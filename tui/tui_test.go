package tui

import (
	"context"
	"testing"

	"github.com/reel-cli/reel/player"
	"github.com/reel-cli/reel/resolution"
	"github.com/reel-cli/reel/resolver"
	"github.com/reel-cli/reel/stream"
	. "github.com/smartystreets/goconvey/convey"
)

func newTestBubble(res resolver.Resolver) *statefulBubble {
	engine := resolution.New(resolution.Options{Resolver: res})
	return newBubble(&Options{
		Source: "m1",
		Title:  "Movie",
		Engine: engine,
		Player: player.NewMPV(),
	})
}

func TestBubble(t *testing.T) {
	Convey("Given a bubble over an idle engine", t, func() {
		b := newTestBubble(resolver.Func(func(context.Context, stream.SourceID) (*stream.Descriptor, error) {
			return nil, &resolver.Error{Kind: resolver.NoOutput, Source: "m1", Err: resolver.ErrNoOutput}
		}))
		defer b.unsubscribe()
		defer b.engine.Close()

		So(b.state, ShouldEqual, loadingState)

		Convey("A newer snapshot is applied", func() {
			s := b.engine.Snapshot()
			s.Version = b.snapshot.Version + 2
			s.State = resolution.State{Phase: resolution.Failed, Source: "m1", Err: resolver.NewTimeout("m1")}

			b.onSnapshot(s)
			So(b.state, ShouldEqual, errorState)
			So(b.keymap.retry.Enabled(), ShouldBeTrue)

			Convey("And an older one is ignored", func() {
				old := s
				old.Version--
				old.State = resolution.State{Phase: resolution.Resolving, Source: "m1"}

				b.onSnapshot(old)
				So(b.state, ShouldEqual, errorState)
				So(b.snapshot.Version, ShouldEqual, s.Version)
			})
		})

		Convey("NoOutput hides the retry action", func() {
			b.engine.Request("m1")
			state, err := b.engine.Settled(context.Background())
			So(err, ShouldBeNil)
			So(state.Reason(), ShouldEqual, resolver.NoOutput)

			b.onSnapshot(b.engine.Snapshot())
			So(b.state, ShouldEqual, errorState)
			So(b.keymap.retry.Enabled(), ShouldBeFalse)
			So(b.View(), ShouldContainSubstring, "no playable stream")
			So(b.View(), ShouldNotContainSubstring, "try again")
		})

		Convey("Pickers don't follow the engine", func() {
			b.newState(qualityState)

			s := b.engine.Snapshot()
			s.Version = b.snapshot.Version + 1
			s.State = resolution.State{Phase: resolution.Resolving, Source: "m2"}
			b.onSnapshot(s)

			So(b.state, ShouldEqual, qualityState)
			b.previousState()
			So(b.state, ShouldEqual, loadingState)
		})
	})
}

func TestListen(t *testing.T) {
	Convey("Given undelivered snapshots", t, func() {
		b := &statefulBubble{snapshots: make(chan resolution.Snapshot, 1)}

		b.listen(resolution.Snapshot{Version: 3})
		b.listen(resolution.Snapshot{Version: 5})
		b.listen(resolution.Snapshot{Version: 4})

		Convey("Only the newest is kept", func() {
			So((<-b.snapshots).Version, ShouldEqual, 5)
			So(b.snapshots, ShouldBeEmpty)
		})
	})
}
