package robinhood

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

// rewriteTransport redirects every request to the test server while keeping
// the original host in the Host header, so handlers can still tell the api
// generation apart from the nummus generation.
type rewriteTransport struct {
	base   http.RoundTripper
	target *url.URL
}

func (t rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Host = req.URL.Host
	req.URL.Scheme = t.target.Scheme
	req.URL.Host = t.target.Host
	return t.base.RoundTrip(req)
}

// newTestSession builds a session whose requests all land on handler.
func newTestSession(t *testing.T, handler http.Handler) *Session {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	target, err := url.Parse(srv.URL)
	require.NoError(t, err)

	client := resty.New().SetTransport(rewriteTransport{
		base:   http.DefaultTransport,
		target: target,
	})
	return NewSession(WithBaseClient(client))
}
