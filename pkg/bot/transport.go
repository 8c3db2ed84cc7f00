package bot

import (
	"net/http"

	"golang.org/x/time/rate"
)

// limitedTransport throttles outbound API calls so the lookup cogs can't
// hammer third-party services.
type limitedTransport struct {
	limiter *rate.Limiter
	base    http.RoundTripper
}

func newLimitedTransport(perSecond float64) *limitedTransport {
	if perSecond <= 0 {
		perSecond = 2.0
	}
	return &limitedTransport{
		limiter: rate.NewLimiter(rate.Limit(perSecond), int(perSecond)+1),
		base:    http.DefaultTransport,
	}
}

func (t *limitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}
