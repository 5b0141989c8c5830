package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config holds S3/MinIO client configuration.
type S3Config struct {
	Endpoint        string // "localhost:9000" for MinIO
	Bucket          string // "clausewise"
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
}

// S3Store keeps each identity's entries as JSON objects under
// users/<identity>/<escaped key>.
type S3Store struct {
	minioClient *minio.Client
	bucket      string
}

// NewS3 creates a new S3/MinIO-backed store.
func NewS3(config S3Config) (*S3Store, error) {
	if config.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if config.Bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}

	minioClient, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKeyID, config.SecretAccessKey, ""),
		Secure: config.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &S3Store{
		minioClient: minioClient,
		bucket:      config.Bucket,
	}, nil
}

// EnsureBucket creates the bucket if it doesn't exist.
func (s *S3Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.minioClient.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if exists {
		return nil
	}

	if err := s.minioClient.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// objectName escapes the key so snapshot URLs stay within one path segment.
func (s *S3Store) objectName(identity, key string) string {
	return path.Join("users", url.PathEscape(identity), url.PathEscape(key))
}

// Get returns the stored value for the identity's key.
func (s *S3Store) Get(ctx context.Context, identity, key string) ([]byte, bool, error) {
	object, err := s.minioClient.GetObject(ctx, s.bucket, s.objectName(identity, key), minio.GetObjectOptions{})
	if err != nil {
		return nil, false, fmt.Errorf("failed to get object: %w", err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read object: %w", err)
	}
	return data, true, nil
}

// Put writes the value for the identity's key, replacing any prior value.
func (s *S3Store) Put(ctx context.Context, identity, key string, value []byte) error {
	_, err := s.minioClient.PutObject(ctx, s.bucket, s.objectName(identity, key),
		bytes.NewReader(value), int64(len(value)), minio.PutObjectOptions{
			ContentType: "application/json",
		})
	if err != nil {
		return fmt.Errorf("failed to put object: %w", err)
	}
	return nil
}
