// Package storagepath normalizes arbitrary, possibly non-ASCII filenames and
// folder segments into keys that satisfy the object store's strict naming
// rules, and validates full storage paths before any network call is made.
package storagepath

import (
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

const (
	maxFilenameBytes = 255

	fallbackFilename = "file"
	fallbackSegment  = "folder"
)

// filenameForbidden is the fixed character set the store rejects in object
// keys. Kept verbatim; do not widen or narrow without checking the store.
const filenameForbidden = `%!*'();:@&=+$,/?#[]`

// stripToASCII decomposes combining marks (so "é" becomes "e" plus a mark)
// and drops every byte outside the ASCII range, marks included.
func stripToASCII(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if r <= unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SanitizeFilename converts a display filename into an ASCII-safe object key
// component. The result never exceeds 255 bytes and is never empty. The
// function is idempotent: applying it to its own output is a no-op.
func SanitizeFilename(name string) string {
	s := stripToASCII(name)

	var b strings.Builder
	b.Grow(len(s))
	prevSep := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r) || r == '_':
			// Whitespace runs and repeated underscores collapse into one.
			if !prevSep {
				b.WriteByte('_')
				prevSep = true
			}
		case strings.ContainsRune(filenameForbidden, r):
			// dropped
		default:
			b.WriteRune(r)
			prevSep = false
		}
	}

	out := strings.Trim(b.String(), "_.")
	if len(out) > maxFilenameBytes {
		// Everything left is single-byte ASCII, so a byte cut is safe.
		out = strings.Trim(out[:maxFilenameBytes], "_.")
	}
	if out == "" {
		return fallbackFilename
	}
	return out
}

// SanitizeSegment converts a folder segment (group or user identifier) into
// a key-safe form. Segments are expected to stay alphanumeric/UUID-like, so
// anything outside [A-Za-z0-9._-] is dropped and whitespace becomes hyphens.
func SanitizeSegment(segment string) string {
	s := stripToASCII(segment)

	var b strings.Builder
	b.Grow(len(s))
	prevSep := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r) || r == '-':
			if !prevSep {
				b.WriteByte('-')
				prevSep = true
			}
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_':
			b.WriteRune(r)
			prevSep = false
		default:
			// dropped
		}
	}

	out := strings.Trim(b.String(), "-.")
	if len(out) > maxFilenameBytes {
		out = strings.Trim(out[:maxFilenameBytes], "-.")
	}
	if out == "" {
		return fallbackSegment
	}
	return out
}

// GenerateSafeFilename sanitizes name and appends a timestamp plus a short
// random suffix before the extension, for destinations that must not
// overwrite by upsert.
func GenerateSafeFilename(name string) string {
	safe := SanitizeFilename(name)
	ext := path.Ext(safe)
	base := strings.TrimSuffix(safe, ext)
	if base == "" {
		base = fallbackFilename
	}

	suffix := fmt.Sprintf("_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
	if over := len(base) + len(suffix) + len(ext) - maxFilenameBytes; over > 0 && over < len(base) {
		base = base[:len(base)-over]
	}
	return base + suffix + ext
}
