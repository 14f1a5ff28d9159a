package s3

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"studylink/internal/config"
	"studylink/internal/port"
)

type s3Client struct {
	client    *s3.Client
	presigner *s3.PresignClient
	uploader  *manager.Uploader
	region    string
	endpoint  string
}

// NewS3Client creates a new S3-backed ObjectStorage implementation.
func NewS3Client(cfg *config.S3Config) (port.ObjectStorage, error) {
	var opts []func(*awsconfig.LoadOptions) error
	opts = append(opts, awsconfig.WithRegion(cfg.Region))

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	client := s3.NewFromConfig(awsCfg, s3Opts...)
	return &s3Client{
		client:    client,
		presigner: s3.NewPresignClient(client),
		uploader:  manager.NewUploader(client),
		region:    cfg.Region,
		endpoint:  cfg.Endpoint,
	}, nil
}

func (c *s3Client) Upload(ctx context.Context, input port.UploadInput) (*port.UploadOutput, error) {
	if input.Size == 0 {
		return nil, &port.EmptyPayloadError{Bucket: input.Bucket, Path: input.Path}
	}

	putInput := &s3.PutObjectInput{
		Bucket:      aws.String(input.Bucket),
		Key:         aws.String(input.Path),
		Body:        input.Body,
		ContentType: aws.String(input.ContentType),
	}
	if input.CacheControl != "" {
		putInput.CacheControl = aws.String(input.CacheControl)
	}
	if !input.Upsert {
		// Conditional write: fail instead of silently replacing an object.
		putInput.IfNoneMatch = aws.String("*")
	}

	result, err := c.uploader.Upload(ctx, putInput)
	if err != nil {
		return nil, classifyUploadError(input.Bucket, input.Path, err)
	}

	etag := ""
	if result.ETag != nil {
		etag = strings.Trim(*result.ETag, `"`)
	}

	return &port.UploadOutput{
		Path: input.Path,
		ID:   etag,
	}, nil
}

// classifyUploadError separates authorization rejections, which are terminal,
// from transient faults the pipeline may retry.
func classifyUploadError(bucket, path string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied", "AllAccessDisabled", "InvalidAccessKeyId", "AccountProblem":
			return &port.PolicyError{Bucket: bucket, Path: path, Err: err}
		}
	}
	return fmt.Errorf("s3 upload: %w", err)
}

func (c *s3Client) GetPublicURL(_ context.Context, bucket, path string) (string, error) {
	if c.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(c.endpoint, "/"), bucket, path), nil
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, c.region, path), nil
}

func (c *s3Client) CreateSignedURL(ctx context.Context, bucket, path string, expiresIn time.Duration) (string, error) {
	result, err := c.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(path),
	}, s3.WithPresignExpires(expiresIn))
	if err != nil {
		return "", fmt.Errorf("s3 presign: %w", err)
	}
	return result.URL, nil
}

func (c *s3Client) ListBuckets(ctx context.Context) ([]string, error) {
	result, err := c.client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, fmt.Errorf("s3 list buckets: %w", err)
	}
	names := make([]string, 0, len(result.Buckets))
	for _, b := range result.Buckets {
		if b.Name != nil {
			names = append(names, *b.Name)
		}
	}
	return names, nil
}

func (c *s3Client) Remove(ctx context.Context, bucket string, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	objects := make([]types.ObjectIdentifier, 0, len(paths))
	for _, p := range paths {
		objects = append(objects, types.ObjectIdentifier{Key: aws.String(p)})
	}
	_, err := c.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(bucket),
		Delete: &types.Delete{Objects: objects, Quiet: aws.Bool(true)},
	})
	if err != nil {
		return fmt.Errorf("s3 remove: %w", err)
	}
	return nil
}
