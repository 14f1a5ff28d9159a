package service

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"studylink/internal/bytesource"
	"studylink/internal/config"
	"studylink/internal/domain"
	"studylink/internal/port"
	"studylink/internal/storagepath"
)

// UploadInput is the DTO for upload pipeline requests. DestinationPath uses
// one of two shapes: group/owner/file for group-shared files, or
// owner/.../file for personal resources.
type UploadInput struct {
	SourceURI       string
	Filename        string
	ContentType     string
	DeclaredSize    int64
	Bucket          string
	DestinationPath string
	Upsert          bool

	// Progress, when set, receives coarse advisory progress fractions.
	// It never gates correctness.
	Progress func(stage string, fraction float64)
}

// UploadService moves bytes from a source URI to durable object storage.
type UploadService interface {
	Upload(ctx context.Context, input UploadInput) (*domain.UploadResult, error)
}

type uploadService struct {
	storage  port.ObjectStorage
	auth     port.AuthProvider
	resolver *bytesource.Resolver
	cfg      *config.UploadConfig

	sleep func(ctx context.Context, d time.Duration) error
}

// NewUploadService creates a new UploadService implementation.
func NewUploadService(
	storage port.ObjectStorage,
	authProvider port.AuthProvider,
	resolver *bytesource.Resolver,
	cfg *config.UploadConfig,
) UploadService {
	return &uploadService{
		storage:  storage,
		auth:     authProvider,
		resolver: resolver,
		cfg:      cfg,
		sleep:    sleepCtx,
	}
}

// Upload runs the full pipeline. Expected failures come back as one of the
// domain upload errors with classification detail logged here; callers own
// the user-facing framing.
func (s *uploadService) Upload(ctx context.Context, input UploadInput) (*domain.UploadResult, error) {
	report := func(stage string, fraction float64) {
		if input.Progress != nil {
			input.Progress(stage, fraction)
		}
	}

	principal, err := s.auth.GetUser(ctx)
	if err != nil {
		log.Printf("uploadService.Upload: auth check failed: %v", err)
		return nil, domain.ErrAuthRequired
	}
	report("authorized", 0.1)

	maxBytes := s.cfg.MaxFileSizeMB * 1024 * 1024
	if input.DeclaredSize > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	data, sourceIdx, err := s.resolver.Fetch(ctx, input.SourceURI)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Printf("uploadService.Upload: byte acquisition failed: %v", err)
		return nil, domain.ErrUnreadableSource
	}
	report("read", 0.4)

	if int64(len(data)) > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	path := input.DestinationPath
	if storagepath.NeedsFix(path) {
		fixed, fixErr := storagepath.FixPath(path)
		if fixErr != nil {
			log.Printf("uploadService.Upload: unfixable path %q: %v", path, fixErr)
			return nil, domain.ErrInvalidPath
		}
		log.Printf("uploadService.Upload: repaired path %q -> %q", path, fixed)
		path = fixed
	}

	// Ownership is always judged on the original path as the caller sent
	// it. Deriving it from the repaired path would let a hostile filename
	// launder the owner segment through sanitization.
	owner, ok := storagepath.OwnerSegment(input.DestinationPath)
	if !ok || owner != principal.ID {
		log.Printf("uploadService.Upload: owner segment %q does not match principal %q", owner, principal.ID)
		return nil, domain.ErrOwnershipMismatch
	}

	bucket := input.Bucket
	if bucket == "" {
		bucket = s.cfg.Bucket
	}
	contentType := input.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	maxAttempts := s.cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		out, upErr := s.storage.Upload(ctx, port.UploadInput{
			Bucket:       bucket,
			Path:         path,
			Body:         bytes.NewReader(data),
			ContentType:  contentType,
			CacheControl: "max-age=3600",
			Upsert:       input.Upsert,
			Size:         int64(len(data)),
		})
		if upErr == nil {
			report("stored", 0.9)
			result := &domain.UploadResult{
				StoredPath: out.Path,
				PublicURL:  s.resolveURL(ctx, bucket, out.Path),
			}
			report("done", 1.0)
			return result, nil
		}
		lastErr = upErr

		var policyErr *port.PolicyError
		if errors.As(upErr, &policyErr) {
			// Terminal: retrying an authorization rejection cannot
			// succeed without an external change.
			log.Printf("uploadService.Upload: policy violation on %s/%s: %v", bucket, path, upErr)
			return nil, domain.ErrPolicyViolation
		}

		if isEmptyPayload(upErr) {
			// The store saw zero bytes: the acquisition strategy is
			// suspect, not the network. Escalate to the next one.
			if nb, idx, fErr := s.resolver.FetchFrom(ctx, input.SourceURI, sourceIdx+1); fErr == nil {
				log.Printf("uploadService.Upload: empty payload, switched byte source %d -> %d", sourceIdx, idx)
				data, sourceIdx = nb, idx
			}
		}

		if attempt < maxAttempts {
			delay := s.backoffDelay(attempt)
			log.Printf("uploadService.Upload: attempt %d/%d failed, retrying in %s: %v", attempt, maxAttempts, delay, upErr)
			report("retrying", 0.4+0.4*float64(attempt)/float64(maxAttempts))
			if sleepErr := s.sleep(ctx, delay); sleepErr != nil {
				return nil, sleepErr
			}
		}
	}

	log.Printf("uploadService.Upload: exhausted %d attempts for %s/%s: %v", maxAttempts, bucket, path, lastErr)
	return nil, domain.ErrUploadExhausted
}

// backoffDelay returns min(base * 2^(attempt-1), cap).
func (s *uploadService) backoffDelay(attempt int) time.Duration {
	base := s.cfg.BackoffBase
	if base <= 0 {
		base = 500 * time.Millisecond
	}
	ceiling := s.cfg.BackoffCap
	if ceiling <= 0 {
		ceiling = 5 * time.Second
	}

	delay := base
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= ceiling {
			return ceiling
		}
	}
	if delay > ceiling {
		return ceiling
	}
	return delay
}

// resolveURL produces the externally resolvable URL for a stored object:
// a plain public URL for public buckets, a signed URL otherwise. Best-effort;
// a malformed URL is treated as absent rather than failing the upload.
func (s *uploadService) resolveURL(ctx context.Context, bucket, path string) string {
	var (
		rawURL string
		err    error
	)
	if s.cfg.IsPublicBucket(bucket) {
		rawURL, err = s.storage.GetPublicURL(ctx, bucket, path)
	} else {
		rawURL, err = s.storage.CreateSignedURL(ctx, bucket, path, s.cfg.SignedURLExpiry)
	}
	if err != nil {
		log.Printf("uploadService.resolveURL: %s/%s: %v", bucket, path, err)
		return ""
	}

	u, parseErr := url.Parse(rawURL)
	if parseErr != nil || (u.Scheme != "http" && u.Scheme != "https") {
		log.Printf("uploadService.resolveURL: malformed url for %s/%s, treating as absent", bucket, path)
		return ""
	}
	return rawURL
}

func isEmptyPayload(err error) bool {
	var emptyErr *port.EmptyPayloadError
	if errors.As(err, &emptyErr) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "empty payload")
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
