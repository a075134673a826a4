package repositories

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/craftfolio/server/internal/config"
)

// MediaStore stores media attachments in an S3-compatible bucket
// (Cloudflare R2 or plain S3) and hands back URL references.
type MediaStore struct {
	client        *s3.Client
	uploader      *manager.Uploader
	bucket        string
	publicBaseURL string
}

// NewMediaStore initializes the store using static credentials and, for R2,
// a custom account endpoint.
func NewMediaStore(cfg config.StorageConfig) *MediaStore {
	awsCfg := aws.Config{
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Region:      cfg.Region,
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.AccountID != "" {
			o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID))
			o.UsePathStyle = true
		}
	})

	log.Println("Successfully initialized media storage client")

	return &MediaStore{
		client:        client,
		uploader:      manager.NewUploader(client),
		bucket:        cfg.BucketName,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}
}

// Upload streams one media file into the bucket and returns its public URL.
func (s *MediaStore) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}
	if s.publicBaseURL != "" {
		return fmt.Sprintf("%s/%s", s.publicBaseURL, key), nil
	}
	return key, nil
}

// IsObjectKey reports whether a stored media reference is an object key in
// the bucket rather than an absolute URL.
func IsObjectKey(ref string) bool {
	return !strings.HasPrefix(ref, "http://") && !strings.HasPrefix(ref, "https://")
}

// ResolveURL turns a stored media reference into something a browser can
// fetch. Absolute URLs pass through untouched; object keys are presigned,
// which is the fallback for buckets without a public base URL.
func (s *MediaStore) ResolveURL(ctx context.Context, ref string) (string, error) {
	if !IsObjectKey(ref) {
		return ref, nil
	}
	return s.PresignGetURL(ctx, ref, 15*time.Minute)
}

// PresignGetURL creates a presigned URL for downloading an object, for
// buckets without a public base URL.
func (s *MediaStore) PresignGetURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	presigner := s3.NewPresignClient(s.client)
	req, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// ObjectExists checks if a given object key exists in the bucket.
func (s *MediaStore) ObjectExists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *s3types.NotFound
		if ok := errors.As(err, &nsk); ok {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
