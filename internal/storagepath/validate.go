package storagepath

import (
	"fmt"
	"regexp"
	"strings"
)

const maxPathLength = 1024

var segmentPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ValidationError reports why a storage path was rejected, naming the first
// offending segment and its index. Index is -1 for whole-path failures.
type ValidationError struct {
	Path    string
	Segment string
	Index   int
	Reason  string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid storage path: %s", e.Reason)
	}
	return fmt.Sprintf("invalid storage path: segment %d (%q) %s", e.Index, e.Segment, e.Reason)
}

// Validate reports whether path satisfies the store's key naming rules.
// A nil return means valid; otherwise the error is a *ValidationError.
func Validate(path string) error {
	if path == "" {
		return &ValidationError{Path: path, Index: -1, Reason: "path is empty"}
	}
	if len(path) > maxPathLength {
		return &ValidationError{Path: path, Index: -1, Reason: fmt.Sprintf("path exceeds %d characters", maxPathLength)}
	}
	for i, seg := range strings.Split(path, "/") {
		if seg == "" {
			return &ValidationError{Path: path, Segment: seg, Index: i, Reason: "is empty"}
		}
		if !segmentPattern.MatchString(seg) {
			return &ValidationError{Path: path, Segment: seg, Index: i, Reason: "contains characters outside [A-Za-z0-9._-]"}
		}
	}
	return nil
}

// NeedsFix reports whether path fails validation and would have to be
// repaired before upload.
func NeedsFix(path string) bool {
	return Validate(path) != nil
}

// FixPath repairs an invalid three-segment path (group/owner/file) by
// sanitizing each segment independently. It fails loudly when the path does
// not have exactly three segments or is still invalid after repair; a silent
// best-effort patch here could change which object a caller writes to.
func FixPath(path string) (string, error) {
	segments := strings.Split(path, "/")
	if len(segments) != 3 {
		return "", fmt.Errorf("storagepath.FixPath: expected 3 segments (group/owner/file), got %d", len(segments))
	}

	fixed := strings.Join([]string{
		SanitizeSegment(segments[0]),
		SanitizeSegment(segments[1]),
		SanitizeFilename(segments[2]),
	}, "/")

	if err := Validate(fixed); err != nil {
		return "", fmt.Errorf("storagepath.FixPath: path still invalid after repair: %w", err)
	}
	return fixed, nil
}

// OwnerSegment extracts the segment identifying the owning principal from
// the original, unsanitized destination path: the middle segment for the
// three-segment group shape (group/owner/file), the first segment for the
// personal shape (owner/.../file). Ownership must always be derived from the
// path as the caller supplied it, never from a sanitized copy.
func OwnerSegment(path string) (string, bool) {
	segments := strings.Split(path, "/")
	switch {
	case len(segments) == 3:
		return segments[1], true
	case len(segments) >= 2:
		return segments[0], true
	default:
		return "", false
	}
}
