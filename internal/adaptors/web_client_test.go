package adaptors

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
)

// RoundTripFunc lets us mock http.RoundTripper easily.
type RoundTripFunc func(req *http.Request) (*http.Response, error)

func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func TestWebClient_Do(t *testing.T) {
	logger := log.New()
	ctx := context.Background()
	const testURL = "http://example.com"

	cases := []struct {
		name     string
		setup    func() *WebClient
		wantCode int
		wantErr  bool
	}{
		{
			name: "success",
			setup: func() *WebClient {
				return &WebClient{
					client: &http.Client{
						Timeout: 1 * time.Second,
						Transport: RoundTripFunc(func(req *http.Request) (*http.Response, error) {
							return &http.Response{
								StatusCode: 200,
								Body:       io.NopCloser(strings.NewReader("OK")),
								Header:     make(http.Header),
							}, nil
						}),
					},
					log: logger,
				}
			},
			wantCode: 200,
		},
		{
			name: "not found is not a transport error",
			setup: func() *WebClient {
				return &WebClient{
					client: &http.Client{
						Timeout: 1 * time.Second,
						Transport: RoundTripFunc(func(req *http.Request) (*http.Response, error) {
							return &http.Response{
								StatusCode: 404,
								Body:       io.NopCloser(strings.NewReader("")),
								Header:     make(http.Header),
							}, nil
						}),
					},
					log: logger,
				}
			},
			wantCode: 404,
		},
		{
			name: "network error",
			setup: func() *WebClient {
				return &WebClient{
					client: &http.Client{
						Timeout: 1 * time.Second,
						Transport: RoundTripFunc(func(req *http.Request) (*http.Response, error) {
							return nil, errors.New("network failure")
						}),
					},
					log: logger,
				}
			},
			wantCode: 0,
			wantErr:  true,
		},
		{
			name: "body read error does not hide the status",
			setup: func() *WebClient {
				return &WebClient{
					client: &http.Client{
						Timeout: 1 * time.Second,
						Transport: RoundTripFunc(func(req *http.Request) (*http.Response, error) {
							return &http.Response{
								StatusCode: 200,
								Body:       errReadCloser{},
								Header:     make(http.Header),
							}, nil
						}),
					},
					log: logger,
				}
			},
			wantCode: 200,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wc := tc.setup()
			code, err := wc.Do(ctx, testURL, http.MethodGet)

			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if code != tc.wantCode {
				t.Errorf("code = %d; want %d", code, tc.wantCode)
			}
		})
	}
}

func TestWebClient_InvalidURL(t *testing.T) {
	wc := NewWebClient(time.Second, "", log.New())

	code, err := wc.Do(context.Background(), "http://[::1", http.MethodGet)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if code != 0 {
		t.Errorf("code = %d; want 0", code)
	}
}

func TestWebClient_FollowsRedirectsAndSetsUserAgent(t *testing.T) {
	var gotUA string
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	wc := NewWebClient(2*time.Second, "dead-link-checker-test", log.New())
	code, err := wc.Do(context.Background(), srv.URL+"/old", http.MethodGet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != http.StatusOK {
		t.Errorf("code = %d; want 200", code)
	}
	if gotUA != "dead-link-checker-test" {
		t.Errorf("user agent = %q", gotUA)
	}
}

func TestWebClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	wc := NewWebClient(50*time.Millisecond, "", log.New())
	if _, err := wc.Do(context.Background(), srv.URL, http.MethodGet); err == nil {
		t.Fatal("expected timeout error, got nil")
	}
}

// errReadCloser is an io.ReadCloser that always errors on Read.
type errReadCloser struct{}

func (e errReadCloser) Read(p []byte) (int, error) {
	return 0, errors.New("read failed")
}
func (e errReadCloser) Close() error {
	return nil
}
