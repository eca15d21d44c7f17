// Package pathsafe normalizes guest-supplied paths so they can be joined
// onto a confinement root without ever escaping it.
//
// The normalizer is fail-closed: every path component must be positively
// classified as a root marker, a volume prefix, or a plain name. Root markers
// and volume prefixes are discarded, plain names are kept, and anything else
// (".." anywhere, a leading ".", or any component that cannot be classified)
// rejects the whole path.
package pathsafe

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsafePath marks a path that could escape the confinement root.
var ErrUnsafePath = errors.New("path escapes confinement root")

// Normalize turns an arbitrary guest path into a canonical relative path.
// Absolute paths become relative to the confinement root, consecutive
// separators collapse, and interior "." components are elided. The result is
// guaranteed to be relative and free of traversal components; the all-root
// path normalizes to "".
func Normalize(p string) (string, error) {
	rest := p
	if len(rest) >= 2 && rest[1] == ':' && isDriveLetter(rest[0]) {
		// volume prefix, discarded like a root marker
		rest = rest[2:]
	}

	var out []string
	for i, seg := range strings.Split(rest, "/") {
		switch {
		case seg == "":
			// root marker or empty segment from doubled separators
		case seg == "." && i > 0:
			// interior current-dir marker, produces no component
		case isName(seg):
			out = append(out, seg)
		default:
			return "", fmt.Errorf("%w: component %q in %q", ErrUnsafePath, seg, p)
		}
	}

	return strings.Join(out, "/"), nil
}

// Split breaks a normalized path into its components. The empty path has no
// components.
func Split(normalized string) []string {
	if normalized == "" {
		return nil
	}
	return strings.Split(normalized, "/")
}

// HasPrefix reports whether prefix is a component-wise prefix of p. Both
// arguments must already be normalized, so "data" is never a prefix of
// "database".
func HasPrefix(p, prefix string) bool {
	pc, fc := Split(p), Split(prefix)
	if len(fc) > len(pc) {
		return false
	}
	for i := range fc {
		if pc[i] != fc[i] {
			return false
		}
	}
	return true
}

// TrimPrefix returns the components of p after prefix. It must only be
// called when HasPrefix(p, prefix) holds.
func TrimPrefix(p, prefix string) []string {
	return Split(p)[len(Split(prefix)):]
}

func isName(seg string) bool {
	return seg != "" && seg != "." && seg != ".."
}

func isDriveLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
