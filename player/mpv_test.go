package player

import (
	"testing"

	"github.com/reel-cli/reel/selection"
	"github.com/reel-cli/reel/stream"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

func testMedia() Media {
	d := &stream.Descriptor{
		ID:       "primary",
		Kind:     stream.KindHLS,
		Playlist: "https://cdn.example.com/master.m3u8",
		Headers: map[string]string{
			"Referer": "https://example.com/",
			"Origin":  "https://example.com",
			"Cookie":  "a=1,b=2",
		},
		Captions: []stream.CaptionTrack{
			{ID: "1", Language: "es", URL: "https://subs.example.com/1.vtt"},
			{ID: "2", Language: "en", URL: "https://subs.example.com/2.vtt"},
		},
	}
	return NewMedia("Pilot\n", d, selection.Derive(d, "en"))
}

func TestArgs(t *testing.T) {
	Convey("Given media with headers and captions", t, func() {
		media := testMedia()

		Convey("The target comes last", func() {
			args, err := Args(media, "/tmp/reel.sock")
			So(err, ShouldBeNil)
			So(args[len(args)-1], ShouldEqual, "https://cdn.example.com/master.m3u8")
			So(args, ShouldContain, "--input-ipc-server=/tmp/reel.sock")
			So(args, ShouldContain, "--force-media-title=Pilot")
		})

		Convey("Headers are sorted and commas escaped", func() {
			args, _ := Args(media, "")
			So(args, ShouldContain, "--http-header-fields=Cookie: a=1%2Cb=2,Origin: https://example.com,Referer: https://example.com/")
		})

		Convey("Every caption is attached and the selected one is chosen", func() {
			args, _ := Args(media, "")
			So(args, ShouldContain, "--sub-file=https://subs.example.com/1.vtt")
			So(args, ShouldContain, "--sub-file=https://subs.example.com/2.vtt")
			So(args, ShouldContain, "--sid=2")
		})

		Convey("No caption disables subtitles", func() {
			media.Caption = mo.None[stream.CaptionTrack]()
			args, _ := Args(media, "")
			So(args, ShouldContain, "--sid=no")
		})

		Convey("Auto quality adds no bitrate cap", func() {
			args, _ := Args(media, "")
			for _, arg := range args {
				So(arg, ShouldNotStartWith, "--hls-bitrate")
			}
		})

		Convey("A fixed quality caps the bitrate", func() {
			media.Quality = selection.Q720
			args, _ := Args(media, "")
			So(args, ShouldContain, "--hls-bitrate=2800000")
		})

		Convey("Flag-like or non-http targets are rejected", func() {
			media.URL = "--script=evil.lua"
			_, err := Args(media, "")
			So(err, ShouldNotBeNil)

			media.URL = "file:///etc/passwd"
			_, err = Args(media, "")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestIINAArgs(t *testing.T) {
	Convey("Given media for IINA", t, func() {
		args, err := iinaArgs(testMedia())
		So(err, ShouldBeNil)
		So(args[:3], ShouldResemble, []string{"-a", "IINA", "--args"})
		So(args, ShouldContain, "--mpv-sid=2")
		So(args[len(args)-1], ShouldEqual, "https://cdn.example.com/master.m3u8")
	})
}

func TestNew(t *testing.T) {
	Convey("Players are looked up by name", t, func() {
		p, err := New("mpv")
		So(err, ShouldBeNil)
		So(p.IsRunning(), ShouldBeFalse)

		_, err = New("vlc")
		So(err, ShouldNotBeNil)
	})
}
