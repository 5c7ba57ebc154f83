// Package network provides the HTTP clients shared by the resolver and the catalog.
package network

import (
	"net/http"
	"time"

	"github.com/reel-cli/reel/constant"
	"github.com/reel-cli/reel/key"
	"github.com/spf13/viper"
)

// Client is the shared HTTP client. It carries no overall timeout:
// callers bound each request with a context.
var Client = &http.Client{
	Transport: &userAgent{next: newTransport()},
}

// newTransport initializes a tuned http.Transport with pool and timeout parameters.
func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 16
	t.IdleConnTimeout = 30 * time.Second
	t.ExpectContinueTimeout = 5 * time.Second
	return t
}

// Default returns the client selected by configuration.
func Default() *http.Client {
	if viper.GetBool(key.NetworkImpersonateTLS) {
		return Impersonating
	}
	return Client
}

// userAgent sets the application user agent unless the request already has one.
type userAgent struct {
	next http.RoundTripper
}

func (u *userAgent) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return u.next.RoundTrip(req)
	}

	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", constant.UserAgent)
	return u.next.RoundTrip(req)
}
