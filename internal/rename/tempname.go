// pattern: Imperative Shell

package rename

import (
	"crypto/rand"
	"encoding/base32"
	"os"
	"path/filepath"
	"strings"

	"casemv/internal/pathseg"
)

const (
	tempPrefix      = "casemv-"
	maxTempAttempts = 8
)

var tokenEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewToken returns a random filesystem-safe lowercase token.
func NewToken() string {
	b := make([]byte, 10)
	_, _ = rand.Read(b)
	return strings.ToLower(tokenEncoding.EncodeToString(b))
}

// pathExists reports whether anything is at p. Errors other than
// not-exist count as existing.
func pathExists(p string) bool {
	_, err := os.Lstat(p)
	return err == nil || !os.IsNotExist(err)
}

// tempName picks a relay name next to oldSeg that is free on disk and
// differs from both endpoint names regardless of case. It returns the
// root-relative relay path.
func (o *Orchestrator) tempName(root string, oldSeg, newSeg pathseg.Segments) (string, error) {
	for i := 0; i < maxTempAttempts; i++ {
		name := tempPrefix + o.token()
		base := name + oldSeg.Extension
		if strings.EqualFold(base, oldSeg.Base()) || strings.EqualFold(base, newSeg.Base()) {
			continue
		}

		rel := oldSeg.Sibling(name)
		if o.exists(filepath.Join(filepath.FromSlash(root), filepath.FromSlash(rel))) {
			o.logger.Debug("temporary name taken, retrying", "path", rel)
			continue
		}
		return rel, nil
	}
	return "", ErrNoTempName
}
