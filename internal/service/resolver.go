package service

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"dead_link_checker/internal/domain/models"
)

// Resolver checks internal links against the local filesystem.
// Relative links resolve against the directory of the document that contains them;
// links starting with "/" resolve against the scan root.
type Resolver struct {
	root string
}

func NewResolver(root string) *Resolver {
	return &Resolver{root: root}
}

func (r *Resolver) Resolve(link models.LinkReference) models.Verdict {
	target, err := r.targetPath(link)
	if err != nil {
		return deadInternal(link, err.Error())
	}

	canonical, err := filepath.EvalSymlinks(target)
	if err != nil {
		return deadInternal(link, err.Error())
	}
	if _, err := os.Stat(canonical); err != nil {
		return deadInternal(link, err.Error())
	}

	return models.Verdict{Kind: models.VerdictAlive, Link: link}
}

// targetPath drops the fragment and query of the link and decodes percent escapes.
func (r *Resolver) targetPath(link models.LinkReference) (string, error) {
	raw := link.URL
	if i := strings.IndexAny(raw, "#?"); i >= 0 {
		raw = raw[:i]
	}

	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return "", err
	}

	if strings.HasPrefix(decoded, "/") {
		return filepath.Join(r.root, filepath.FromSlash(decoded)), nil
	}
	return filepath.Join(filepath.Dir(link.SourcePath), filepath.FromSlash(decoded)), nil
}

func deadInternal(link models.LinkReference, reason string) models.Verdict {
	return models.Verdict{Kind: models.VerdictDeadInternal, Link: link, Reason: reason}
}
