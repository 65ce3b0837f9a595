package adaptors

import (
	"context"
	"io"
	"net/http"
	"time"

	"dead_link_checker/internal/pkg/errors"
	"dead_link_checker/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

const maxBodyDrain = 1 << 20

type WebClient struct {
	client    *http.Client
	userAgent string
	log       *log.Logger
}

func NewWebClient(timeout time.Duration, userAgent string, log *log.Logger) *WebClient {
	rTripper := promhttp.InstrumentRoundTripperDuration(
		metrics.HTTPClientRequestDuration,
		promhttp.InstrumentRoundTripperCounter(metrics.HTTPClientRequestsTotal, http.DefaultTransport))

	return &WebClient{
		client: &http.Client{
			Timeout:   timeout,
			Transport: rTripper,
		},
		userAgent: userAgent,
		log:       log,
	}
}

// Do sends one request, following redirects, and returns the final status code.
// The body is drained up to a fixed cap so keep-alive connections can be reused.
func (w *WebClient) Do(ctx context.Context, url string, method string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		w.log.WithError(err).Debug(`failed to create request`)
		return 0, errors.Wrap(err, `failed to create request`)
	}

	if w.userAgent != "" {
		req.Header.Set("User-Agent", w.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := w.client.Do(req)
	if err != nil {
		metrics.HTTPClientErrorsTotal.WithLabelValues(method).Inc()
		w.log.WithError(err).WithField(`url`, url).Debug(`request failed`)
		return 0, errors.Wrap(err, `request failed`)
	}
	defer resp.Body.Close()

	if method != http.MethodHead {
		_, _ = io.CopyN(io.Discard, resp.Body, maxBodyDrain)
	}

	return resp.StatusCode, nil
}
