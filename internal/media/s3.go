package media

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds configuration for S3-compatible object storage.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string // optional, for Spaces/R2-style providers
	AccessKeyID     string
	SecretAccessKey string
}

// S3Storage stores media in an S3-compatible bucket and serves it through
// the bucket's public URLs.
type S3Storage struct {
	client *s3.Client
	cfg    S3Config
}

// NewS3Storage connects to the configured bucket.
func NewS3Storage(ctx context.Context, cfg S3Config) (*S3Storage, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	var client *s3.Client
	if cfg.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	return &S3Storage{client: client, cfg: cfg}, nil
}

// Put uploads the object and returns its public URL.
func (s *S3Storage) Put(ctx context.Context, key string, data io.Reader, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        data,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("uploading media to s3: %w", err)
	}
	return s.publicURL(key), nil
}

// Delete removes the object.
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("deleting media from s3: %w", err)
	}
	return nil
}

func (s *S3Storage) publicURL(key string) string {
	if s.cfg.Endpoint != "" {
		host := strings.TrimPrefix(s.cfg.Endpoint, "https://")
		return fmt.Sprintf("https://%s.%s/%s", s.cfg.Bucket, host, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
}
