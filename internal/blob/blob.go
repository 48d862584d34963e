// Package blob wraps S3-compatible object storage as a get/put
// byte-blob store with container-level namespacing.
package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	appconfig "hospital-sim-reporting/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"
)

// ErrNotFound is returned by Get when the object or its container
// does not exist.
var ErrNotFound = errors.New("blob: object not found")

// Store is the minimal object-store surface the services need.
// Satisfied by S3Store in production and by fakes in tests.
type Store interface {
	EnsureContainer(ctx context.Context, name string) error
	Get(ctx context.Context, container, key string) ([]byte, error)
	Put(ctx context.Context, container, key string, data []byte) error
}

type S3Store struct {
	client *s3.Client
	logger *zap.Logger
}

// NewS3Store builds an S3-backed store from the process AWS config.
// A non-empty endpoint switches to path-style addressing for
// S3-compatible servers such as MinIO or localstack.
func NewS3Store(ctx context.Context, cfg appconfig.BlobConfig, logger *zap.Logger) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	opts := s3.Options{
		Region:      cfg.Region,
		Credentials: awsCfg.Credentials,
		HTTPClient:  awsCfg.HTTPClient,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}

	return &S3Store{client: s3.New(opts), logger: logger}, nil
}

// EnsureContainer creates the bucket if it does not exist
func (s *S3Store) EnsureContainer(ctx context.Context, name string) error {
	_, err := s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(name),
	})
	if err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		var exists *types.BucketAlreadyExists
		if errors.As(err, &owned) || errors.As(err, &exists) {
			return nil
		}
		return fmt.Errorf("create container %s: %w", name, err)
	}
	s.logger.Info("container created", zap.String("container", name))
	return nil
}

// Get downloads an object in full
func (s *S3Store) Get(ctx context.Context, container, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(container),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		var noBucket *types.NoSuchBucket
		if errors.As(err, &noKey) || errors.As(err, &noBucket) {
			return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, container, key)
		}
		return nil, fmt.Errorf("get object %s/%s: %w", container, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read object %s/%s: %w", container, key, err)
	}
	return data, nil
}

// Put uploads an object, overwriting any existing one
func (s *S3Store) Put(ctx context.Context, container, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(container),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("put object %s/%s: %w", container, key, err)
	}
	return nil
}
