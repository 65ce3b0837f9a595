package service

import (
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"dead_link_checker/internal/pkg/errors"

	log "github.com/sirupsen/logrus"
)

// WalkerOptions is the static filter configuration of a Walker.
type WalkerOptions struct {
	Extensions         []string
	IgnoredDirectories []string
}

type Walker struct {
	opts WalkerOptions
	log  *log.Logger
}

func NewWalker(opts WalkerOptions, log *log.Logger) *Walker {
	exts := make([]string, 0, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		exts = append(exts, "."+strings.TrimPrefix(ext, "."))
	}
	opts.Extensions = exts

	return &Walker{opts: opts, log: log}
}

// CheckRoot fails when root cannot be used as a scan root.
func CheckRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return errors.Errorf(`root %q: %v: %w`, root, err, errors.ErrInvalidRoot)
	}
	if !info.IsDir() {
		return errors.Errorf(`root %q is not a directory: %w`, root, errors.ErrInvalidRoot)
	}
	if _, err := os.ReadDir(root); err != nil {
		return errors.Errorf(`root %q: %v: %w`, root, err, errors.ErrInvalidRoot)
	}
	return nil
}

// Documents lazily yields the paths of candidate documents under root in lexical order.
// Entries that cannot be read are logged and skipped.
func (w *Walker) Documents(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				w.log.WithError(err).WithField(`path`, path).Warn(`skipping unreadable entry`)
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if w.isIgnored(root, path) {
				w.log.WithField(`path`, path).Debug(`ignoring path`)
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if d.IsDir() || !w.hasExtension(d.Name()) {
				return nil
			}

			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func (w *Walker) hasExtension(name string) bool {
	for _, ext := range w.opts.Extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// isIgnored matches ignored directory names anywhere in the path below root.
func (w *Walker) isIgnored(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, dir := range w.opts.IgnoredDirectories {
		if dir != "" && strings.Contains(rel, dir) {
			return true
		}
	}
	return false
}
