package resolver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/reel-cli/reel/stream"
	. "github.com/smartystreets/goconvey/convey"
)

const validBody = `{
	"sourceId": "rgshows",
	"stream": {
		"id": "primary",
		"type": "hls",
		"playlist": "https://cdn.example.com/master.m3u8",
		"headers": {"referer": "https://example.com/"},
		"flags": [],
		"captions": [
			{"id": "1", "language": "en", "url": "https://subs.example.com/1"},
			{"id": "2", "language": "es", "url": "https://subs.example.com/2"}
		]
	}
}`

func serve(status int, body string) (*httptest.Server, *string) {
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.EscapedPath()
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	return server, &path
}

func TestHTTP(t *testing.T) {
	Convey("Given an HTTP resolver", t, func() {
		ctx := context.Background()

		Convey("A valid response yields a descriptor", func() {
			server, path := serve(http.StatusOK, validBody)
			defer server.Close()

			d, err := NewHTTP(server.URL+"/stream/", server.Client()).Resolve(ctx, "tt 1/2")
			So(err, ShouldBeNil)
			So(*path, ShouldEqual, "/stream/tt%201%2F2")
			So(d.ID, ShouldEqual, "primary")
			So(d.Kind, ShouldEqual, stream.KindHLS)
			So(d.Headers["referer"], ShouldEqual, "https://example.com/")
			So(d.Captions, ShouldHaveLength, 2)
			So(d.Captions[1].Language, ShouldEqual, "es")
		})

		Convey("no_output is reported regardless of status", func() {
			for _, status := range []int{http.StatusOK, http.StatusNotFound} {
				server, _ := serve(status, `{"error": "no_output"}`)
				_, err := NewHTTP(server.URL+"/", server.Client()).Resolve(ctx, "x")
				server.Close()

				So(KindOf(err), ShouldEqual, NoOutput)
				So(Retryable(err), ShouldBeFalse)
				So(errors.Is(err, ErrNoOutput), ShouldBeTrue)
			}
		})

		Convey("A non-2xx status is a network failure", func() {
			server, _ := serve(http.StatusBadGateway, `bad gateway`)
			defer server.Close()

			_, err := NewHTTP(server.URL+"/", server.Client()).Resolve(ctx, "x")
			So(KindOf(err), ShouldEqual, Network)
			So(Retryable(err), ShouldBeTrue)

			var e *Error
			So(errors.As(err, &e), ShouldBeTrue)
			So(e.Source, ShouldEqual, stream.SourceID("x"))
		})

		Convey("An unreachable endpoint is a network failure", func() {
			server, _ := serve(http.StatusOK, validBody)
			endpoint := server.URL + "/"
			server.Close()

			_, err := NewHTTP(endpoint, http.DefaultClient).Resolve(ctx, "x")
			So(KindOf(err), ShouldEqual, Network)
		})

		Convey("Malformed responses are classified", func() {
			bodies := []string{
				`not json`,
				`{"sourceId": "a"}`,
				`{"stream": {"id": "p", "type": "", "playlist": "https://a/b.m3u8"}}`,
				`{"stream": {"id": "p", "type": "hls", "playlist": "ftp://a/b.m3u8"}}`,
				`{"stream": {"id": "p", "type": "hls", "playlist": "https://a/b.m3u8", "captions": [{"id": "", "language": "en", "url": "https://s"}]}}`,
				`{"stream": {"id": "p", "type": "hls", "playlist": "https://a/b.m3u8", "captions": [{"id": "1", "language": "en", "url": ""}]}}`,
			}

			for _, body := range bodies {
				server, _ := serve(http.StatusOK, body)
				_, err := NewHTTP(server.URL+"/", server.Client()).Resolve(ctx, "x")
				server.Close()

				So(KindOf(err), ShouldEqual, Malformed)
				So(Retryable(err), ShouldBeTrue)
			}
		})

		Convey("Unknown kinds and missing captions are accepted", func() {
			server, _ := serve(http.StatusOK, `{"stream": {"id": "p", "type": "dash", "playlist": "http://a/b.mpd"}}`)
			defer server.Close()

			d, err := NewHTTP(server.URL+"/", server.Client()).Resolve(ctx, "x")
			So(err, ShouldBeNil)
			So(d.Kind, ShouldEqual, stream.Kind("dash"))
			So(d.Captions, ShouldNotBeNil)
			So(d.Captions, ShouldBeEmpty)
		})

		Convey("An expired context is a timeout", func() {
			release := make(chan struct{})
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-release:
				case <-r.Context().Done():
				}
			}))
			defer server.Close()
			defer close(release)

			ctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
			defer cancel()

			_, err := NewHTTP(server.URL+"/", server.Client()).Resolve(ctx, "x")
			So(KindOf(err), ShouldEqual, Timeout)
			So(errors.Is(err, ErrTimeout), ShouldBeTrue)
		})
	})
}

func TestKind(t *testing.T) {
	Convey("Given foreign and nil errors", t, func() {
		So(KindOf(nil), ShouldEqual, Kind(0))
		So(Retryable(nil), ShouldBeFalse)
		So(KindOf(errors.New("boom")), ShouldEqual, Network)
		So(NewTimeout("x").Kind.String(), ShouldEqual, "timeout")
		So(NewTimeout("x").Error(), ShouldContainSubstring, "resolve x: timeout")
	})
}
