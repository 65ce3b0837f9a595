package service

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockWebClient is a mock implementation of the WebClient interface
type MockWebClient struct {
	mock.Mock
}

func (m *MockWebClient) Do(ctx context.Context, url string, method string) (int, error) {
	args := m.Called(ctx, url, method)
	return args.Int(0), args.Error(1)
}

func quietLogger() *log.Logger {
	logger := log.New()
	logger.SetOutput(io.Discard)
	return logger
}

// writeTree creates files below root. Keys are slash separated relative paths.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}
