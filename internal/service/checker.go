package service

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"dead_link_checker/internal/domain/adaptors"
	"dead_link_checker/internal/domain/models"
	"dead_link_checker/internal/pkg/errors"
	"dead_link_checker/internal/pkg/metrics"
	"dead_link_checker/internal/pkg/worker_pool"

	log "github.com/sirupsen/logrus"
)

// Checker probes external links. Every distinct URL is requested once per run;
// all references to it share that probe's verdict.
type Checker struct {
	webClient adaptors.WebClient
	visited   *VisitedSet
	pool      *worker_pool.WorkerPool[models.QueuedLink]
	timeout   time.Duration
	log       *log.Logger
}

// NewChecker creates a checker with the given number of concurrent probes.
// One worker completes each probe before starting the next.
func NewChecker(webClient adaptors.WebClient, visited *VisitedSet, workers int, timeout time.Duration, log *log.Logger) *Checker {
	return &Checker{
		webClient: webClient,
		visited:   visited,
		pool:      worker_pool.NewWorkerPool[models.QueuedLink](workers, log),
		timeout:   timeout,
		log:       log,
	}
}

// Run consumes links until in is closed and drained, then returns one verdict per received link.
func (c *Checker) Run(ctx context.Context, in <-chan models.QueuedLink) ([]models.Verdict, error) {
	var mu sync.Mutex
	var received []models.QueuedLink

	err := c.pool.Run(ctx, in, func(ctx context.Context, workerID int, queued models.QueuedLink) {
		mu.Lock()
		received = append(received, queued)
		mu.Unlock()

		link := queued.Link
		if !c.visited.Claim(link.URL) {
			metrics.DedupHitsTotal.Inc()
			c.log.WithFields(log.Fields{`url`: link.URL, `path`: link.SourcePath}).Debug(`already visited`)
			return
		}

		statusCode, err := c.probe(ctx, link.URL)
		c.visited.Record(link.URL, statusCode, err)

		verdict := externalVerdict(queued, ProbeResult{StatusCode: statusCode, Err: err})
		metrics.ExternalProbesTotal.WithLabelValues(string(verdict.Kind)).Inc()

		entry := c.log.WithFields(log.Fields{`url`: link.URL, `path`: link.SourcePath, `status`: statusCode, `worker`: workerID})
		if verdict.Kind == models.VerdictDeadExternal {
			entry.WithField(`reason`, verdict.Reason).Error(`cannot find external link`)
		} else {
			entry.Debug(`external link alive`)
		}
	})
	if err != nil {
		return nil, errors.Errorf(`external checker stopped: %v: %w`, err, errors.ErrScanInterrupted)
	}

	verdicts := make([]models.Verdict, 0, len(received))
	for _, queued := range received {
		res, ok := c.visited.Result(queued.Link.URL)
		if !ok {
			res = ProbeResult{Err: errors.New(`no probe result recorded`)}
		}
		verdicts = append(verdicts, externalVerdict(queued, res))
	}
	return verdicts, nil
}

func (c *Checker) probe(ctx context.Context, rawURL string) (int, error) {
	probeCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	return c.webClient.Do(probeCtx, rawURL, http.MethodGet)
}

// externalVerdict maps a probe result onto a verdict: 200..399 is alive, anything else is dead.
func externalVerdict(queued models.QueuedLink, res ProbeResult) models.Verdict {
	verdict := models.Verdict{Seq: queued.Seq, Link: queued.Link, StatusCode: res.StatusCode}

	switch {
	case res.Err != nil:
		verdict.Kind = models.VerdictDeadExternal
		verdict.StatusCode = 0
		verdict.Reason = transportReason(res.Err)
	case res.StatusCode >= 200 && res.StatusCode <= 399:
		verdict.Kind = models.VerdictAlive
	default:
		verdict.Kind = models.VerdictDeadExternal
		verdict.Reason = http.StatusText(res.StatusCode)
	}
	return verdict
}

// transportReason keeps the cause of a failed request without call-site details.
func transportReason(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err.Error()
	}
	return err.Error()
}
