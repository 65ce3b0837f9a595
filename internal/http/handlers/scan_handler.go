package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"dead_link_checker/internal/domain/models"
	"dead_link_checker/internal/http/middleware"
	"dead_link_checker/internal/pkg/errors"
	"dead_link_checker/internal/report"

	log "github.com/sirupsen/logrus"
)

type Scanner interface {
	Scan(ctx context.Context, root string) (*models.Report, error)
}

type ScanHandler struct {
	scanner     Scanner
	baseDir     string
	scanTimeout time.Duration
	log         *log.Logger
}

type ScanRequest struct {
	Root string `json:"root"`
}

// Validate rejects empty roots and roots that leave baseDir. It returns the path to scan.
func (r *ScanRequest) Validate(baseDir string) (string, error) {
	if strings.TrimSpace(r.Root) == "" {
		return "", errors.New("root is empty")
	}
	if filepath.IsAbs(r.Root) {
		return "", errors.New("root must be relative to the scan base directory")
	}

	path := filepath.Join(baseDir, filepath.FromSlash(r.Root))
	rel, err := filepath.Rel(baseDir, path)
	if err != nil {
		return "", errors.Wrap(err, `failed to resolve root`)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.New("root escapes the scan base directory")
	}

	return path, nil
}

// NewScanHandler creates the scan handler. A positive scanTimeout bounds every scan.
func NewScanHandler(scanner Scanner, baseDir string, scanTimeout time.Duration, log *log.Logger) *ScanHandler {
	return &ScanHandler{
		scanner:     scanner,
		baseDir:     baseDir,
		scanTimeout: scanTimeout,
		log:         log,
	}
}

func (h *ScanHandler) Handle(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.RequestIDFromContext(r.Context())
	h.log.WithField(`request_id`, requestID).Debug(`scan handler called`)

	var request ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		sendError(w, h.log, `failed to decode request body`, err, http.StatusBadRequest)
		return
	}

	root, err := request.Validate(h.baseDir)
	if err != nil {
		sendError(w, h.log, `failed to validate request body`, err, http.StatusBadRequest)
		return
	}

	h.log.WithFields(log.Fields{`request_id`: requestID, `root`: root}).Info(`scan requested`)
	ctx := r.Context()
	if h.scanTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.scanTimeout)
		defer cancel()
	}

	result, err := h.scanner.Scan(ctx, root)
	switch {
	case errors.Is(err, errors.ErrInvalidRoot):
		sendError(w, h.log, `invalid scan root`, err, http.StatusBadRequest)
		return
	case errors.Is(err, errors.ErrScanInterrupted):
		sendError(w, h.log, `scan interrupted`, err, http.StatusServiceUnavailable)
		return
	case err != nil:
		sendError(w, h.log, `failed to scan`, err, http.StatusInternalServerError)
		return
	}

	body, err := report.Encode(result, report.FormatJSON)
	if err != nil {
		sendError(w, h.log, `failed to encode response`, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set(`Content-Type`, `application/json`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.log.WithError(err).Error(`failed to write response`)
	}
}
