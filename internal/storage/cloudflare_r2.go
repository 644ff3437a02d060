package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"feedback_backend/internal/logger"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// ObjectStorage keeps each collection as the object <key>.json in a bucket.
// It serves both AWS S3 and Cloudflare R2, which is S3-compatible.
type ObjectStorage struct {
	name     string
	client   *s3.S3
	uploader *s3manager.Uploader
	bucket   string
}

// NewCloudflareR2Storage creates a new Cloudflare R2 storage instance
func NewCloudflareR2Storage(cfg Config) (*ObjectStorage, error) {
	// R2 endpoint format: https://<account_id>.r2.cloudflarestorage.com
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required for Cloudflare R2")
	}

	awsConfig := &aws.Config{
		Region:           aws.String("auto"),
		Endpoint:         aws.String(cfg.Endpoint),
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
		S3ForcePathStyle: aws.Bool(true),
	}
	return newObjectStorage("cloudflare_r2", cfg, awsConfig)
}

// NewS3Storage creates a storage instance for AWS S3 or a custom S3 endpoint.
func NewS3Storage(cfg Config) (*ObjectStorage, error) {
	if cfg.Region == "" {
		return nil, fmt.Errorf("region is required for S3")
	}

	awsConfig := &aws.Config{Region: aws.String(cfg.Region)}
	if cfg.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}
	return newObjectStorage("s3", cfg, awsConfig)
}

func newObjectStorage(name string, cfg Config, awsConfig *aws.Config) (*ObjectStorage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket is required for %s", name)
	}
	if cfg.Timeout > 0 {
		awsConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s session: %w", name, err)
	}

	return &ObjectStorage{
		name:     name,
		client:   s3.New(sess),
		uploader: s3manager.NewUploader(sess),
		bucket:   cfg.Bucket,
	}, nil
}

func (s *ObjectStorage) Name() string { return s.name }

func objectKey(key string) string { return key + ".json" }

// Get downloads the collection object. A missing object is ErrNotFound.
func (s *ObjectStorage) Get(ctx context.Context, key string) (body []byte, err error) {
	start := time.Now()
	defer func() { logger.StoreLog(s.name, "get", key, time.Since(start), ignoreNotFound(err)) }()

	result, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey(key)),
	})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, ErrNotFound
		}
		return nil, unavailable(s.name, key, err)
	}
	defer result.Body.Close()

	body, err = io.ReadAll(result.Body)
	if err != nil {
		return nil, unavailable(s.name, key, err)
	}
	return body, nil
}

// Put uploads the whole collection object.
func (s *ObjectStorage) Put(ctx context.Context, key string, body []byte) (err error) {
	start := time.Now()
	defer func() { logger.StoreLog(s.name, "put", key, time.Since(start), err) }()

	_, err = s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey(key)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return writeFailed(s.name, key, err)
	}
	return nil
}

// Ping checks that the bucket is reachable with the configured credentials.
func (s *ObjectStorage) Ping(ctx context.Context) error {
	_, err := s.client.HeadBucketWithContext(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		return fmt.Errorf("%s: %w: %w", s.name, ErrUnavailable, err)
	}
	return nil
}

func isNoSuchKey(err error) bool {
	var aerr awserr.Error
	if !errors.As(err, &aerr) {
		return false
	}
	switch aerr.Code() {
	case s3.ErrCodeNoSuchKey, "NotFound":
		return true
	}
	return false
}
