package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"dead_link_checker/internal/domain/models"
	"dead_link_checker/internal/pkg/errors"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockScanner struct {
	mock.Mock
}

func (m *MockScanner) Scan(ctx context.Context, root string) (*models.Report, error) {
	args := m.Called(ctx, root)
	report, _ := args.Get(0).(*models.Report)
	return report, args.Error(1)
}

func quietLogger() *log.Logger {
	logger := log.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestScanRequest_Validate(t *testing.T) {
	base := filepath.Join("srv", "docs")
	tests := []struct {
		name    string
		root    string
		want    string
		wantErr bool
	}{
		{name: "nested", root: "guides", want: filepath.Join(base, "guides")},
		{name: "base itself", root: ".", want: base},
		{name: "cleaned inside", root: "a/../b", want: filepath.Join(base, "b")},
		{name: "empty", root: " ", wantErr: true},
		{name: "absolute", root: "/etc", wantErr: true},
		{name: "escapes", root: "../secrets", wantErr: true},
		{name: "escapes after clean", root: "a/../../x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := ScanRequest{Root: tt.root}
			got, err := req.Validate(base)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScanHandler_Handle(t *testing.T) {
	base := t.TempDir()
	report := models.NewReport(filepath.Join(base, "docs"), 1, []models.Verdict{
		{Seq: 1, Kind: models.VerdictDeadExternal, StatusCode: 404, Reason: "Not Found",
			Link: models.LinkReference{URL: "https://gone.example/", SourcePath: "docs/a.md"}},
	}, []string{"https://gone.example/"}, false)

	tests := []struct {
		name       string
		body       string
		scanReport *models.Report
		scanErr    error
		expectScan bool
		wantCode   int
		wantBody   string
	}{
		{
			name:       "report",
			body:       `{"root":"docs"}`,
			scanReport: report,
			expectScan: true,
			wantCode:   http.StatusOK,
			wantBody:   `"dead_external": [`,
		},
		{
			name:     "malformed body",
			body:     `{"root":`,
			wantCode: http.StatusBadRequest,
			wantBody: `failed to decode request body`,
		},
		{
			name:     "escaping root",
			body:     `{"root":"../etc"}`,
			wantCode: http.StatusBadRequest,
			wantBody: `failed to validate request body`,
		},
		{
			name:       "missing root",
			body:       `{"root":"docs"}`,
			scanErr:    errors.Errorf(`stat: %w`, errors.ErrInvalidRoot),
			expectScan: true,
			wantCode:   http.StatusBadRequest,
			wantBody:   `invalid scan root`,
		},
		{
			name:       "interrupted",
			body:       `{"root":"docs"}`,
			scanErr:    errors.Errorf(`stopped: %w`, errors.ErrScanInterrupted),
			expectScan: true,
			wantCode:   http.StatusServiceUnavailable,
			wantBody:   `scan interrupted`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scanner := new(MockScanner)
			if tt.expectScan {
				scanner.On("Scan", mock.Anything, filepath.Join(base, "docs")).Return(tt.scanReport, tt.scanErr).Once()
			}

			handler := NewScanHandler(scanner, base, 0, quietLogger())
			req := httptest.NewRequest(http.MethodPost, "/scan", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			handler.Handle(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			if tt.wantCode != http.StatusOK {
				var resp ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, tt.wantCode, resp.Code)
			}
			scanner.AssertExpectations(t)
		})
	}
}

func TestScanHandler_ScanDeadline(t *testing.T) {
	base := t.TempDir()
	scanner := new(MockScanner)
	scanner.On("Scan", mock.Anything, filepath.Join(base, "docs")).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			<-ctx.Done()
		}).
		Return(nil, errors.Errorf(`stopped: %w`, errors.ErrScanInterrupted)).Once()

	handler := NewScanHandler(scanner, base, 20*time.Millisecond, quietLogger())
	rec := httptest.NewRecorder()
	handler.Handle(rec, httptest.NewRequest(http.MethodPost, "/scan", strings.NewReader(`{"root":"docs"}`)))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	scanner.AssertExpectations(t)
}

func TestReadyHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	NewReadyHandler().Handle(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}
