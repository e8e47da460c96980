package s3

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	s3aws "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/dmitrymomot/lazyacme/core/certstore"
)

// S3Client defines the S3 operations used by Mirror.
type S3Client interface {
	PutObject(ctx context.Context, params *s3aws.PutObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.PutObjectOutput, error)
}

// Config holds the certificate mirror settings. The mirror is disabled when
// Bucket is empty.
type Config struct {
	Bucket         string `env:"S3_BUCKET"`
	Region         string `env:"S3_REGION" envDefault:"us-east-1"`
	AccessKeyID    string `env:"S3_ACCESS_KEY_ID"`
	SecretKey      string `env:"S3_SECRET_KEY"`
	Endpoint       string `env:"S3_ENDPOINT"`         // For S3-compatible services like MinIO
	ForcePathStyle bool   `env:"S3_FORCE_PATH_STYLE"` // Required for MinIO
	Prefix         string `env:"S3_PREFIX" envDefault:"certificates"`
}

// Enabled reports whether a bucket is configured.
func (c Config) Enabled() bool {
	return strings.TrimSpace(c.Bucket) != ""
}

// Mirror copies issued certificate files to an S3 bucket as
// <prefix>/<domain>/<file name>. Private keys are stored with
// server-side encryption.
type Mirror struct {
	client        S3Client
	bucket        string
	prefix        string
	uploadTimeout time.Duration
}

// Option configures a Mirror.
type Option func(*options)

type options struct {
	httpClient      *http.Client
	s3Client        S3Client
	s3ConfigOptions []func(*config.LoadOptions) error
	uploadTimeout   time.Duration
}

// WithS3Client sets a pre-configured client. Used by tests.
func WithS3Client(client S3Client) Option {
	return func(o *options) {
		o.s3Client = client
	}
}

// WithHTTPClient sets a custom HTTP client for S3 requests.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithS3ConfigOption adds a custom AWS config option.
func WithS3ConfigOption(option func(*config.LoadOptions) error) Option {
	return func(o *options) {
		o.s3ConfigOptions = append(o.s3ConfigOptions, option)
	}
}

// WithUploadTimeout bounds each upload. Zero relies on the caller's context.
func WithUploadTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.uploadTimeout = timeout
	}
}

// New creates a Mirror. Static credentials are used when both keys are set,
// otherwise the default AWS credential chain applies.
func New(ctx context.Context, cfg Config, opts ...Option) (*Mirror, error) {
	if !cfg.Enabled() || cfg.Region == "" {
		return nil, ErrInvalidConfig
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	client := o.s3Client
	if client == nil {
		awsOptions := []func(*config.LoadOptions) error{
			config.WithRegion(cfg.Region),
		}
		if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
			awsOptions = append(awsOptions,
				config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
					cfg.AccessKeyID,
					cfg.SecretKey,
					"",
				)),
			)
		}
		if o.httpClient != nil {
			awsOptions = append(awsOptions, config.WithHTTPClient(o.httpClient))
		}
		awsOptions = append(awsOptions, o.s3ConfigOptions...)

		awsConfig, err := config.LoadDefaultConfig(ctx, awsOptions...)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}

		client = s3aws.NewFromConfig(awsConfig, func(so *s3aws.Options) {
			if cfg.Endpoint != "" {
				so.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			so.UsePathStyle = cfg.ForcePathStyle
		})
	}

	return &Mirror{
		client:        client,
		bucket:        cfg.Bucket,
		prefix:        strings.Trim(cfg.Prefix, "/"),
		uploadTimeout: o.uploadTimeout,
	}, nil
}

// Mirror uploads the certificate and key of domain. It stops at the first
// failed upload.
func (m *Mirror) Mirror(ctx context.Context, domain string, files certstore.Files) error {
	domain = strings.TrimSpace(domain)
	if domain == "" || strings.Contains(domain, "..") || strings.ContainsAny(domain, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, domain)
	}

	uploads := []struct {
		path    string
		private bool
	}{
		{path: files.Cert},
		{path: files.Key, private: true},
	}

	for _, u := range uploads {
		if err := m.upload(ctx, domain, u.path, u.private); err != nil {
			return err
		}
	}
	return nil
}

// Key returns the object key a local file for domain is stored under.
func (m *Mirror) Key(domain, localPath string) string {
	return path.Join(m.prefix, domain, filepath.Base(localPath))
}

func (m *Mirror) upload(ctx context.Context, domain, localPath string, private bool) error {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToReadFile, err)
	}

	if m.uploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.uploadTimeout)
		defer cancel()
	}

	input := &s3aws.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(m.Key(domain, localPath)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/x-pem-file"),
	}
	if private {
		input.ServerSideEncryption = types.ServerSideEncryptionAes256
	}

	if _, err := m.client.PutObject(ctx, input); err != nil {
		return classifyS3Error(err, "upload "+filepath.Base(localPath))
	}
	return nil
}
