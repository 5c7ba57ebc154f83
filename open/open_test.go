package open

import (
	"testing"

	"github.com/reel-cli/reel/constant"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCommand(t *testing.T) {
	Convey("Each platform uses its own handler", t, func() {
		cmd, err := Command(constant.Linux, "/tmp/reel")
		So(err, ShouldBeNil)
		So(cmd.Args, ShouldResemble, []string{"xdg-open", "/tmp/reel"})

		cmd, err = Command(constant.Darwin, "/tmp/reel")
		So(err, ShouldBeNil)
		So(cmd.Args, ShouldResemble, []string{"open", "/tmp/reel"})

		cmd, err = Command(constant.Windows, "C:\\reel")
		So(err, ShouldBeNil)
		So(cmd.Args[1:], ShouldResemble, []string{"url.dll,FileProtocolHandler", "C:\\reel"})
	})

	Convey("Unknown platforms are rejected", t, func() {
		_, err := Command("plan9", "/tmp/reel")
		So(err, ShouldNotBeNil)
	})
}
