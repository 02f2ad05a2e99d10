// utils/archive.go
package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ClaimArchiver stores a JSON snapshot of a completed goal's claim (goal,
// verification result, transaction reference). Archiving is best-effort —
// callers log failures and move on, goal state never depends on it.
type ClaimArchiver interface {
	ArchiveClaim(ctx context.Context, key string, payload any) error
}

// S3Archiver writes claim snapshots to an S3-compatible bucket (R2 in
// production).
type S3Archiver struct {
	client *s3.Client
	bucket string
}

// NewS3ArchiverFromEnv builds the archiver from ARCHIVE_* environment
// variables. Returns nil (no error) when ARCHIVE_BUCKET is unset so callers
// can fall back to the no-op archiver.
func NewS3ArchiverFromEnv() (*S3Archiver, error) {
	bucket := os.Getenv("ARCHIVE_BUCKET")
	if bucket == "" {
		return nil, nil
	}
	accountID := os.Getenv("ARCHIVE_ACCOUNT_ID")
	accessKeyID := os.Getenv("ARCHIVE_ACCESS_KEY_ID")
	accessKeySecret := os.Getenv("ARCHIVE_ACCESS_KEY_SECRET")

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion("auto"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKeyID, accessKeySecret, "",
		)),
		config.WithEndpointResolver(aws.EndpointResolverFunc(
			func(service, region string) (aws.Endpoint, error) {
				return aws.Endpoint{
					URL: fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID),
				}, nil
			}),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load archive config: %w", err)
	}

	return &S3Archiver{client: s3.NewFromConfig(cfg), bucket: bucket}, nil
}

func (a *S3Archiver) ArchiveClaim(ctx context.Context, key string, payload any) error {
	body, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode claim snapshot: %w", err)
	}

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload claim snapshot: %w", err)
	}
	return nil
}

// NoopArchiver is used when no archive bucket is configured.
type NoopArchiver struct{}

func (NoopArchiver) ArchiveClaim(context.Context, string, any) error { return nil }
