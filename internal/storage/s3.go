package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Bucket implements Signer and Uploader against one S3 bucket.
type S3Bucket struct {
	client   *s3.Client
	presign  *s3.PresignClient
	bucket   string
	urlTTL   time.Duration
}

// NewS3Bucket creates an S3Bucket. urlTTL bounds the validity window of
// presigned URLs.
func NewS3Bucket(cfg aws.Config, bucket string, urlTTL time.Duration) *S3Bucket {
	client := s3.NewFromConfig(cfg)
	return &S3Bucket{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  bucket,
		urlTTL:  urlTTL,
	}
}

func (b *S3Bucket) SignedURL(ctx context.Context, path string) (string, error) {
	req, err := b.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(path),
	}, s3.WithPresignExpires(b.urlTTL))
	if err != nil {
		return "", fmt.Errorf("presign %s/%s: %w", b.bucket, path, err)
	}
	return req.URL, nil
}

func (b *S3Bucket) Upload(ctx context.Context, path string, body io.Reader, contentType string) error {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(path),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", b.bucket, path, err)
	}
	return nil
}

var _ Signer = (*S3Bucket)(nil)
var _ Uploader = (*S3Bucket)(nil)
