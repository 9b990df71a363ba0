package proof

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// s3Uploader implements Uploader on AWS S3.
type s3Uploader struct {
	client *s3.Client
	bucket string
	logger zerolog.Logger
}

// NewS3Uploader creates an S3-backed proof uploader.
func NewS3Uploader(ctx context.Context, bucket, region string, logger zerolog.Logger) (Uploader, error) {
	logger = logger.With().Str("component", "s3-proof-uploader").Logger()

	// Load AWS configuration
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(cfg)

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("S3 proof uploader initialised")

	return &s3Uploader{
		client: client,
		bucket: bucket,
		logger: logger,
	}, nil
}

// Upload writes the proof artifact to S3 and returns the object key.
func (u *s3Uploader) Upload(ctx context.Context, key, contentType string, body []byte) (string, error) {
	u.logger.Info().
		Str("bucket", u.bucket).
		Str("key", key).
		Int("size", len(body)).
		Msg("uploading payment proof to S3")

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		u.logger.Error().
			Err(err).
			Str("bucket", u.bucket).
			Str("key", key).
			Msg("failed to upload payment proof to S3")
		return "", fmt.Errorf("failed to upload payment proof (bucket=%s, key=%s): %w", u.bucket, key, err)
	}

	u.logger.Info().
		Str("bucket", u.bucket).
		Str("key", key).
		Msg("payment proof uploaded successfully")

	return key, nil
}
