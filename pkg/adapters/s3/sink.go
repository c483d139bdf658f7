// Package s3 publishes generated artifacts to S3-compatible object storage
// (AWS S3 or MinIO). Targets are written as s3://bucket/key.
package s3

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"sync"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ForestMars/DrZONST/pkg/core"
)

// Scheme is the URL scheme of object storage targets.
const Scheme = "s3"

// DefaultContentType is sent with every artifact.
const DefaultContentType = "text/plain; charset=utf-8"

// Config holds explicit construction parameters. Empty credentials fall
// back to the default AWS credentials chain.
type Config struct {
	Region          string
	Endpoint        string // optional; custom endpoint such as MinIO
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	PathStyle       bool
	ContentType     string
	Logger          *slog.Logger
}

// Environment variables read by ConfigFromEnv:
//   DRZONST_S3_REGION=<region> (default us-east-1)
//   DRZONST_S3_ENDPOINT=<url> (optional, for MinIO)
//   DRZONST_S3_PATH_STYLE=true|false (default false)
//   AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY / AWS_SESSION_TOKEN (optional)

// ConfigFromEnv builds a Config from the process environment.
func ConfigFromEnv() Config {
	return Config{
		Region:    os.Getenv("DRZONST_S3_REGION"),
		Endpoint:  os.Getenv("DRZONST_S3_ENDPOINT"),
		PathStyle: strings.EqualFold(os.Getenv("DRZONST_S3_PATH_STYLE"), "true"),
	}
}

// Sink writes artifacts with PutObject.
type Sink struct {
	client      *s3.Client
	contentType string
	logger      *slog.Logger

	mu     sync.RWMutex
	writes int
	last   string
}

// New creates a Sink from cfg.
func New(ctx context.Context, cfg Config) (*Sink, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewFromClient(client, cfg.ContentType, cfg.Logger), nil
}

// NewFromClient wraps an existing client.
func NewFromClient(client *s3.Client, contentType string, logger *slog.Logger) *Sink {
	if contentType == "" {
		contentType = DefaultContentType
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Sink{client: client, contentType: contentType, logger: logger}
}

// IsTarget reports whether target addresses object storage.
func IsTarget(target string) bool {
	return strings.HasPrefix(strings.ToLower(target), Scheme+"://")
}

// ParseTarget splits s3://bucket/key into its bucket and key.
func ParseTarget(target string) (bucket, key string, err error) {
	u, err := url.Parse(target)
	if err != nil {
		return "", "", fmt.Errorf("%w: %s: %v", core.ErrUnsupportedTarget, target, err)
	}
	if !strings.EqualFold(u.Scheme, Scheme) {
		return "", "", fmt.Errorf("%w: %s", core.ErrUnsupportedTarget, target)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return "", "", fmt.Errorf("%w: %s needs a bucket and a key", core.ErrUnsupportedTarget, target)
	}
	return u.Host, key, nil
}

// Write uploads data to target, replacing any existing object.
func (s *Sink) Write(ctx context.Context, target string, data []byte) error {
	bucket, key, err := ParseTarget(target)
	if err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(s.contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}

	s.mu.Lock()
	s.writes++
	s.last = target
	s.mu.Unlock()

	s.logger.Debug("artifact uploaded", "bucket", bucket, "key", key, "bytes", len(data))
	return nil
}

// SinkState exposes internal state for observability.
type SinkState struct {
	Writes     int    `json:"writes"`
	LastTarget string `json:"last_target,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Sink) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SinkState{Writes: s.writes, LastTarget: s.last}
}

// ComponentType implements introspection.Component.
func (s *Sink) ComponentType() string {
	return "s3-sink"
}

var _ core.Sink = (*Sink)(nil)
