package service

import (
	"os"
	"path/filepath"
	"testing"

	"dead_link_checker/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalker_FiltersAndSorts(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"sub/d.md":               "",
		"b.markdown":             "",
		"a.md":                   "",
		"c.txt":                  "",
		"archive/e.md":           "",
		"node_modules/pkg/f.md":  "",
		"notes-legacy.md":        "",
		"sub/nested/z.md":        "",
		"sub/nested/readme.MD":   "",
		"docs/embedded-hal/g.md": "",
	})

	walker := NewWalker(WalkerOptions{
		Extensions:         []string{"md", ".markdown"},
		IgnoredDirectories: []string{"archive", "node_modules", "legacy", "embedded"},
	}, quietLogger())

	var got []string
	for path := range walker.Documents(root) {
		rel, err := filepath.Rel(root, path)
		require.NoError(t, err)
		got = append(got, filepath.ToSlash(rel))
	}

	assert.Equal(t, []string{"a.md", "b.markdown", "sub/d.md", "sub/nested/z.md"}, got)
}

func TestWalker_DocumentPathsIncludeRoot(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.md": ""})

	walker := NewWalker(WalkerOptions{Extensions: []string{"md"}}, quietLogger())

	var got []string
	for path := range walker.Documents(root) {
		got = append(got, path)
	}
	assert.Equal(t, []string{filepath.Join(root, "a.md")}, got)
}

func TestWalker_StopsWhenConsumerStops(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.md": "", "b.md": "", "c.md": ""})

	walker := NewWalker(WalkerOptions{Extensions: []string{"md"}}, quietLogger())

	count := 0
	for range walker.Documents(root) {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestWalker_YieldsBrokenSymlinkForCallerToSkip(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.md": ""})
	if err := os.Symlink(filepath.Join(root, "nowhere.md"), filepath.Join(root, "broken.md")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	walker := NewWalker(WalkerOptions{Extensions: []string{"md"}}, quietLogger())

	var got []string
	for path := range walker.Documents(root) {
		got = append(got, filepath.Base(path))
	}
	assert.Equal(t, []string{"a.md", "broken.md"}, got)
}

func TestCheckRoot(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"file.md": ""})

	assert.NoError(t, CheckRoot(root))

	err := CheckRoot(filepath.Join(root, "missing"))
	assert.True(t, errors.Is(err, errors.ErrInvalidRoot), "got %v", err)

	err = CheckRoot(filepath.Join(root, "file.md"))
	assert.True(t, errors.Is(err, errors.ErrInvalidRoot), "got %v", err)
}
