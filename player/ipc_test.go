//go:build !windows

package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/reel-cli/reel/selection"
	"github.com/reel-cli/reel/stream"
	"github.com/samber/lo"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeMPV answers every IPC command with success and records what it was sent.
type fakeMPV struct {
	listener net.Listener
	mu       sync.Mutex
	commands []string
}

func newFakeMPV(path string) (*fakeMPV, error) {
	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}

	f := &fakeMPV{listener: listener}
	go f.serve()
	return f, nil
}

func (f *fakeMPV) serve() {
	for {
		conn, err := f.listener.Accept()
		if err != nil {
			return
		}

		scanner := bufio.NewScanner(conn)
		if scanner.Scan() {
			var command ipcCommand
			if json.Unmarshal(scanner.Bytes(), &command) == nil {
				f.record(command.Command)
			}
			_, _ = conn.Write([]byte(`{"data":1234,"error":"success"}` + "\n"))
		}
		_ = conn.Close()
	}
}

func (f *fakeMPV) record(command []any) {
	parts := lo.Map(command, func(part any, _ int) string { return fmt.Sprint(part) })

	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = append(f.commands, strings.Join(parts, " "))
}

// setProperty returns the recorded set_property commands in order.
func (f *fakeMPV) setProperty() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return lo.Filter(f.commands, func(c string, _ int) bool { return strings.HasPrefix(c, "set_property ") })
}

func TestSelect(t *testing.T) {
	Convey("Given a running mpv instance", t, func() {
		dir, err := os.MkdirTemp("", "reel")
		So(err, ShouldBeNil)
		defer os.RemoveAll(dir)

		socket := filepath.Join(dir, "mpv.sock")
		fake, err := newFakeMPV(socket)
		So(err, ShouldBeNil)
		defer fake.listener.Close()

		mpv := &MPV{socketPath: socket, exited: make(chan struct{})}
		So(mpv.IsRunning(), ShouldBeTrue)

		media := testMedia()

		Convey("A fixed quality caps the bitrate and auto lifts the cap", func() {
			media.Quality = selection.Q720
			So(mpv.Select(media), ShouldBeNil)

			media.Quality = selection.Auto
			So(mpv.Select(media), ShouldBeNil)

			So(fake.setProperty(), ShouldResemble, []string{
				"set_property sid 2",
				"set_property hls-bitrate 2800000",
				"set_property sid 2",
				"set_property hls-bitrate max",
			})
		})

		Convey("No caption turns subtitles off", func() {
			media.Caption = mo.None[stream.CaptionTrack]()
			So(mpv.Select(media), ShouldBeNil)
			So(fake.setProperty(), ShouldResemble, []string{
				"set_property sid no",
				"set_property hls-bitrate max",
			})
		})
	})

	Convey("Select is a no-op without a running instance", t, func() {
		So(NewMPV().Select(testMedia()), ShouldBeNil)
	})
}
