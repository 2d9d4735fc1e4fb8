// pattern: Functional Core

// Package pathseg splits repository paths into directory, base name and
// extension relative to a git working tree root.
package pathseg

import (
	"path/filepath"
	"strings"
)

// Segments is a path decomposed relative to a git root.
type Segments struct {
	Directory string // root-relative, no leading slash
	FileName  string // last segment without Extension
	Extension string // includes the leading dot, or empty
}

// Base returns the final path segment.
func (s Segments) Base() string {
	return s.FileName + s.Extension
}

// RelPath rebuilds the root-relative path.
func (s Segments) RelPath() string {
	return s.join(s.Base())
}

// Sibling returns the root-relative path of name+Extension in the same directory.
func (s Segments) Sibling(name string) string {
	return s.join(name + s.Extension)
}

func (s Segments) join(base string) string {
	if s.Directory == "" {
		return base
	}
	return s.Directory + "/" + base
}

// Segment decomposes path relative to gitRoot. The root prefix is matched
// case-insensitively; a path outside gitRoot is kept whole, minus any
// leading slash.
func Segment(path, gitRoot string) Segments {
	rel := Relative(path, gitRoot)
	if rel == "" {
		return Segments{}
	}

	dir, last := "", rel
	if i := strings.LastIndex(rel, "/"); i >= 0 {
		dir, last = rel[:i], rel[i+1:]
	}

	name, ext := splitExtension(last)
	return Segments{Directory: dir, FileName: name, Extension: ext}
}

// Relative strips gitRoot from path, ignoring case and leading slashes.
func Relative(path, gitRoot string) string {
	p := strings.TrimLeft(path, "/")
	root := strings.Trim(gitRoot, "/")

	if root != "" && len(p) >= len(root) && strings.EqualFold(p[:len(root)], root) {
		if len(p) == len(root) {
			return ""
		}
		if p[len(root)] == '/' {
			p = p[len(root):]
		}
	}
	return strings.Trim(p, "/")
}

// splitExtension splits a base name into name and extension. Names without
// a dot, dotfiles and single-character names have no extension.
func splitExtension(base string) (string, string) {
	if len(base) <= 1 {
		return base, ""
	}
	i := strings.LastIndex(base, ".")
	if i <= 0 {
		return base, ""
	}
	return base[:i], base[i:]
}

// NormalizeHostPath converts a host-reported path to forward slashes and
// drops the leading slash of URI-style drive paths such as "/c:/src".
// Backslashes in drive paths are separators on every platform.
func NormalizeHostPath(p string) string {
	p = filepath.ToSlash(p)
	if len(p) >= 3 && p[0] == '/' && p[2] == ':' && isDriveLetter(p[1]) {
		p = p[1:]
	}
	if len(p) >= 2 && p[1] == ':' && isDriveLetter(p[0]) {
		p = strings.ReplaceAll(p, `\`, "/")
	}
	return p
}

func isDriveLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
