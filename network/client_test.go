package network

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/reel-cli/reel/constant"
	"github.com/reel-cli/reel/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestClient(t *testing.T) {
	Convey("Given a server echoing the user agent", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(r.Header.Get("User-Agent")))
		}))
		defer server.Close()

		Convey("The shared client has no overall timeout", func() {
			So(Client.Timeout, ShouldEqual, 0)
		})

		Convey("The default user agent is applied", func() {
			resp, err := Client.Get(server.URL)
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			buf := make([]byte, len(constant.UserAgent))
			n, _ := resp.Body.Read(buf)
			So(string(buf[:n]), ShouldStartWith, "Mozilla/5.0")
		})

		Convey("A caller supplied user agent is kept", func() {
			req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
			req.Header.Set("User-Agent", "custom")
			resp, err := Client.Do(req)
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			buf := make([]byte, 16)
			n, _ := resp.Body.Read(buf)
			So(string(buf[:n]), ShouldEqual, "custom")
		})

		Convey("The impersonating client passes plain http through", func() {
			resp, err := Impersonating.Get(server.URL)
			So(err, ShouldBeNil)
			So(resp.Body.Close(), ShouldBeNil)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
		})
	})
}

func TestDefault(t *testing.T) {
	Convey("Given the impersonation switch", t, func() {
		defer viper.Set(key.NetworkImpersonateTLS, false)

		Convey("Off selects the shared client", func() {
			viper.Set(key.NetworkImpersonateTLS, false)
			So(Default(), ShouldPointTo, Client)
		})

		Convey("On selects the impersonating client", func() {
			viper.Set(key.NetworkImpersonateTLS, true)
			So(Default(), ShouldPointTo, Impersonating)
		})
	})
}
