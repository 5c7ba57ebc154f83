package stream

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestDescriptor(t *testing.T) {
	Convey("Given a descriptor with captions", t, func() {
		d := &Descriptor{
			ID:       "primary",
			Kind:     KindHLS,
			Playlist: "https://cdn.example.com/master.m3u8",
			Headers:  map[string]string{"Referer": "https://example.com/"},
			Captions: []CaptionTrack{
				{ID: "1", Language: "es", URL: "https://subs.example.com/1"},
				{ID: "2", Language: "en", URL: "https://subs.example.com/2"},
				{ID: "3", Language: "en", URL: "https://subs.example.com/3"},
			},
		}

		Convey("Caption finds a track by id", func() {
			So(d.Caption("3").MustGet().URL, ShouldEqual, "https://subs.example.com/3")
			So(d.Caption("9").IsAbsent(), ShouldBeTrue)
		})

		Convey("CaptionFor returns the first matching language", func() {
			So(d.CaptionFor("en").MustGet().ID, ShouldEqual, "2")
			So(d.CaptionFor("fr").IsAbsent(), ShouldBeTrue)
			So(d.CaptionFor("").IsAbsent(), ShouldBeTrue)
		})

		Convey("Clone is independent from the original", func() {
			c := d.Clone()
			c.Headers["Referer"] = "changed"
			c.Captions[0].Language = "de"

			So(d.Headers["Referer"], ShouldEqual, "https://example.com/")
			So(d.Captions[0].Language, ShouldEqual, "es")
		})

		Convey("A nil descriptor has no captions", func() {
			var empty *Descriptor
			So(empty.Caption("1").IsAbsent(), ShouldBeTrue)
			So(empty.Clone(), ShouldBeNil)
		})
	})
}
