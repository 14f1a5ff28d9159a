// Package bytesource acquires file bytes from a caller-supplied source URI.
// No single read method is reliable for every handle shape callers pass in,
// so an ordered list of strategies is tried until one yields a non-empty
// read. A zero-byte read is an escalation signal, not a transient fault.
package bytesource

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
)

// Result is the tagged outcome of a single acquisition strategy.
type Result struct {
	OK     bool
	Bytes  []byte
	Reason string
}

func succeeded(b []byte) Result   { return Result{OK: true, Bytes: b} }
func failed(reason string) Result { return Result{Reason: reason} }
func failedErr(err error) Result  { return Result{Reason: err.Error()} }

// Source is a single byte-acquisition strategy.
type Source interface {
	Name() string
	Applies(uri string) bool
	Fetch(ctx context.Context, uri string) Result
}

// ErrNoSource is returned when every applicable strategy is exhausted.
var ErrNoSource = errors.New("no byte source produced a non-empty read")

// Resolver tries sources in a fixed preference order and short-circuits on
// the first non-empty read.
type Resolver struct {
	sources []Source
}

// NewResolver creates a Resolver over the given ordered sources.
func NewResolver(sources ...Source) *Resolver {
	return &Resolver{sources: sources}
}

// Default returns the standard strategy order: direct file read, multipart
// spool, data-URI base64 decode.
func Default() *Resolver {
	return NewResolver(FileSource{}, MultipartSource{}, DataURISource{})
}

// Fetch acquires bytes for uri, starting from the first strategy. It returns
// the bytes and the index of the strategy that produced them.
func (r *Resolver) Fetch(ctx context.Context, uri string) ([]byte, int, error) {
	return r.FetchFrom(ctx, uri, 0)
}

// FetchFrom behaves like Fetch but skips strategies before start, letting
// callers escalate past a strategy whose bytes the store rejected as empty.
func (r *Resolver) FetchFrom(ctx context.Context, uri string, start int) ([]byte, int, error) {
	if start < 0 {
		start = 0
	}

	lastReason := "no source applies to uri"
	for i := start; i < len(r.sources); i++ {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		src := r.sources[i]
		if !src.Applies(uri) {
			continue
		}

		res := src.Fetch(ctx, uri)
		if res.OK && len(res.Bytes) > 0 {
			return res.Bytes, i, nil
		}
		reason := res.Reason
		if res.OK {
			reason = "zero bytes read"
		}
		lastReason = fmt.Sprintf("%s: %s", src.Name(), reason)
		log.Printf("bytesource.Resolver: %s", lastReason)
	}

	return nil, 0, fmt.Errorf("%w (%s)", ErrNoSource, lastReason)
}

// localPath strips the file scheme so plain paths and file:// URIs are
// handled the same way.
func localPath(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}

// isLocalURI reports whether uri refers to a local file handle.
func isLocalURI(uri string) bool {
	return strings.HasPrefix(uri, "file://") || !strings.Contains(uri, ":")
}
