package storage

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/spec-kit/goldennest/internal/config"
)

// ErrNotConfigured is returned when no bucket is configured.
var ErrNotConfigured = errors.New("object storage not configured")

// PresignedUpload is a short-lived URL the browser PUTs the file to.
type PresignedUpload struct {
	URL       string
	ExpiresAt time.Time
}

// Provider signs uploads and removes objects for the image gallery.
type Provider interface {
	PresignPut(ctx context.Context, key, contentType string, expire time.Duration) (PresignedUpload, error)
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

type s3Provider struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	bucket        string
	publicBase    string
}

// NewS3Provider builds a provider from config. Static credentials are used when
// both keys are set, otherwise the default AWS chain applies.
func NewS3Provider(ctx context.Context, cfg config.StorageConfig) (Provider, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.ForcePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &s3Provider{
		client:        client,
		presignClient: s3.NewPresignClient(client),
		bucket:        cfg.Bucket,
		publicBase:    PublicBase(cfg),
	}, nil
}

func (s *s3Provider) PresignPut(ctx context.Context, key, contentType string, expire time.Duration) (PresignedUpload, error) {
	req, err := s.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(o *s3.PresignOptions) {
		o.Expires = expire
	})
	if err != nil {
		return PresignedUpload{}, err
	}
	return PresignedUpload{URL: req.URL, ExpiresAt: time.Now().Add(expire).UTC()}, nil
}

func (s *s3Provider) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

func (s *s3Provider) PublicURL(key string) string {
	return JoinURL(s.publicBase, key)
}

// PublicBase derives the base URL objects are served from. An explicit
// S3_PUBLIC_BASE_URL wins; custom endpoints use path style; AWS uses the
// virtual-hosted bucket URL.
func PublicBase(cfg config.StorageConfig) string {
	if cfg.PublicBaseURL != "" {
		return strings.TrimRight(cfg.PublicBaseURL, "/")
	}
	if cfg.Endpoint != "" {
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return "https://" + cfg.Bucket + ".s3." + cfg.Region + ".amazonaws.com"
}

// JoinURL appends key to base with exactly one slash between them.
func JoinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
