package service

import (
	"context"
	"os"
	"time"

	"dead_link_checker/internal/application/config"
	"dead_link_checker/internal/domain/adaptors"
	"dead_link_checker/internal/domain/models"
	"dead_link_checker/internal/pkg/errors"
	"dead_link_checker/internal/pkg/metrics"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type ScanOptions struct {
	Rules        config.Rules
	Walker       WalkerOptions
	Workers      int
	QueueSize    int
	ProbeTimeout time.Duration
	KeepAlive    bool
}

// ScanOptionsFromConfig maps the application configuration onto scan options.
func ScanOptionsFromConfig(cfg *config.AppConfig) ScanOptions {
	return ScanOptions{
		Rules: cfg.Rules,
		Walker: WalkerOptions{
			Extensions:         cfg.Scan.Extensions,
			IgnoredDirectories: cfg.Scan.IgnoredDirectories,
		},
		Workers:      cfg.Workers,
		QueueSize:    cfg.QueueSize,
		ProbeTimeout: cfg.ProbeTimeout,
		KeepAlive:    cfg.Report.KeepAlive,
	}
}

// Scanner runs the link checking pipeline: a producer walks, extracts, classifies and
// resolves internal links while the external checker drains a bounded channel concurrently.
type Scanner struct {
	log       *log.Logger
	webClient adaptors.WebClient
	opts      ScanOptions
}

func NewScanner(log *log.Logger, webClient adaptors.WebClient, opts ScanOptions) *Scanner {
	if opts.QueueSize < 1 {
		opts.QueueSize = 100
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = 10 * time.Second
	}
	return &Scanner{
		log:       log,
		webClient: webClient,
		opts:      opts,
	}
}

// Scan checks every document under root. Only setup failures and cancellation return an error;
// an interrupted run never yields a partial report.
func (s *Scanner) Scan(ctx context.Context, root string) (*models.Report, error) {
	if err := CheckRoot(root); err != nil {
		return nil, err
	}

	runLog := s.log.WithFields(log.Fields{`run_id`: uuid.NewString(), `root`: root})
	runLog.Info(`scan started`)

	visited := NewVisitedSet()
	walker := NewWalker(s.opts.Walker, s.log)
	resolver := NewResolver(root)
	checker := NewChecker(s.webClient, visited, s.opts.Workers, s.opts.ProbeTimeout, s.log)

	externalCh := make(chan models.QueuedLink, s.opts.QueueSize)
	g, gctx := errgroup.WithContext(ctx)

	var local []models.Verdict
	documents := 0
	g.Go(func() error {
		defer close(externalCh)

		seq := 0
		for path := range walker.Documents(root) {
			if gctx.Err() != nil {
				return errors.Errorf(`walk stopped at %q: %w`, path, errors.ErrScanInterrupted)
			}

			content, err := os.ReadFile(path)
			if err != nil {
				metrics.DocumentsSkippedTotal.Inc()
				runLog.WithError(err).WithField(`path`, path).Warn(`skipping unreadable document`)
				continue
			}
			documents++
			metrics.DocumentsScannedTotal.Inc()
			runLog.WithField(`path`, path).Debug(`checking document`)

			for _, link := range ExtractLinks(content, path) {
				seq++
				decision := Classify(link, s.opts.Rules)
				metrics.LinksClassifiedTotal.WithLabelValues(string(decision.Route)).Inc()

				if decision.Route == RouteExternal {
					select {
					case externalCh <- models.QueuedLink{Seq: seq, Link: link}:
					case <-gctx.Done():
						return errors.Errorf(`walk stopped at %q: %w`, path, errors.ErrScanInterrupted)
					}
					continue
				}

				verdict := s.localVerdict(link, decision, resolver)
				verdict.Seq = seq
				if verdict.IsDead() {
					runLog.WithFields(log.Fields{`url`: link.URL, `path`: link.SourcePath, `reason`: verdict.Reason}).Error(`cannot find internal link`)
				}
				local = append(local, verdict)
			}
		}
		return nil
	})

	var external []models.Verdict
	g.Go(func() error {
		verdicts, err := checker.Run(gctx, externalCh)
		external = verdicts
		return err
	})

	if err := g.Wait(); err != nil {
		runLog.WithError(err).Error(`scan aborted`)
		return nil, err
	}

	verdicts := append(local, external...)
	report := models.NewReport(root, documents, verdicts, visited.URLs(), s.opts.KeepAlive)
	runLog.WithFields(log.Fields{
		`documents`:     report.Summary.Documents,
		`links`:         report.Summary.Links,
		`dead_internal`: report.Summary.DeadInternal,
		`dead_external`: report.Summary.DeadExternal,
		`visited`:       len(report.Visited),
	}).Info(`scan finished`)

	return report, nil
}

// localVerdict settles every route that does not need the network.
func (s *Scanner) localVerdict(link models.LinkReference, decision Decision, resolver *Resolver) models.Verdict {
	switch decision.Route {
	case RouteInternal:
		return resolver.Resolve(link)
	case RouteForbidden:
		return models.Verdict{Kind: models.VerdictDeadInternal, Link: link, Reason: decision.Reason}
	case RouteShouldBeRelative:
		s.log.WithFields(log.Fields{`url`: link.URL, `path`: link.SourcePath}).Info(`link should be relative`)
		return models.Verdict{Kind: models.VerdictShouldBeRelative, Link: link}
	default:
		s.log.WithFields(log.Fields{`url`: link.URL, `reason`: decision.Reason}).Debug(`ignoring link`)
		return models.Verdict{Kind: models.VerdictIgnored, Link: link, Reason: decision.Reason}
	}
}
