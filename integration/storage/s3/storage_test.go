package s3_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	s3aws "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/lazyacme/core/certstore"
	"github.com/dmitrymomot/lazyacme/integration/storage/s3"
)

type putCall struct {
	bucket string
	key    string
	body   string
	sse    types.ServerSideEncryption
}

type mockClient struct {
	mu    sync.Mutex
	calls []putCall
	err   error
}

func (m *mockClient) PutObject(ctx context.Context, params *s3aws.PutObjectInput, _ ...func(*s3aws.Options)) (*s3aws.PutObjectOutput, error) {
	if m.err != nil {
		return nil, m.err
	}

	body, _ := io.ReadAll(params.Body)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, putCall{
		bucket: *params.Bucket,
		key:    *params.Key,
		body:   string(body),
		sse:    params.ServerSideEncryption,
	})
	return &s3aws.PutObjectOutput{}, nil
}

func writePair(t *testing.T) certstore.Files {
	t.Helper()

	dir := t.TempDir()
	files := certstore.Files{
		Cert:     filepath.Join(dir, "_.example.com.crt"),
		Key:      filepath.Join(dir, "_.example.com.key"),
		Wildcard: true,
	}
	require.NoError(t, os.WriteFile(files.Cert, []byte("CERT"), 0o600))
	require.NoError(t, os.WriteFile(files.Key, []byte("KEY"), 0o600))
	return files
}

func TestNewValidation(t *testing.T) {
	t.Parallel()

	_, err := s3.New(context.Background(), s3.Config{Region: "us-east-1"})
	assert.ErrorIs(t, err, s3.ErrInvalidConfig)

	_, err = s3.New(context.Background(), s3.Config{Bucket: "b"})
	assert.ErrorIs(t, err, s3.ErrInvalidConfig)

	assert.False(t, s3.Config{Bucket: "  "}.Enabled())
	assert.True(t, s3.Config{Bucket: "certs"}.Enabled())
}

func TestMirror(t *testing.T) {
	t.Parallel()

	client := &mockClient{}
	m, err := s3.New(context.Background(),
		s3.Config{Bucket: "certs", Region: "us-east-1", Prefix: "/lazyacme/"},
		s3.WithS3Client(client),
	)
	require.NoError(t, err)

	files := writePair(t)
	require.NoError(t, m.Mirror(context.Background(), "example.com", files))

	require.Len(t, client.calls, 2)
	assert.Equal(t, putCall{bucket: "certs", key: "lazyacme/example.com/_.example.com.crt", body: "CERT"}, client.calls[0])
	assert.Equal(t, "lazyacme/example.com/_.example.com.key", client.calls[1].key)
	assert.Equal(t, "KEY", client.calls[1].body)
	assert.Equal(t, types.ServerSideEncryptionAes256, client.calls[1].sse)
}

func TestMirrorErrors(t *testing.T) {
	t.Parallel()

	files := writePair(t)

	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "access denied", err: &smithy.GenericAPIError{Code: "AccessDenied"}, want: s3.ErrAccessDenied},
		{name: "slow down", err: &smithy.GenericAPIError{Code: "SlowDown"}, want: s3.ErrServiceUnavailable},
		{name: "no such bucket", err: &types.NoSuchBucket{}, want: s3.ErrBucketNotFound},
		{name: "timeout", err: context.DeadlineExceeded, want: s3.ErrOperationTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := s3.New(context.Background(),
				s3.Config{Bucket: "certs", Region: "us-east-1"},
				s3.WithS3Client(&mockClient{err: tt.err}),
			)
			require.NoError(t, err)

			err = m.Mirror(context.Background(), "example.com", files)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("unknown api error keeps original", func(t *testing.T) {
		apiErr := &smithy.GenericAPIError{Code: "Weird"}
		m, err := s3.New(context.Background(),
			s3.Config{Bucket: "certs", Region: "us-east-1"},
			s3.WithS3Client(&mockClient{err: apiErr}),
		)
		require.NoError(t, err)

		err = m.Mirror(context.Background(), "example.com", files)
		var got smithy.APIError
		assert.True(t, errors.As(err, &got))
		assert.Contains(t, err.Error(), "code: Weird")
	})

	t.Run("missing local file", func(t *testing.T) {
		m, err := s3.New(context.Background(),
			s3.Config{Bucket: "certs", Region: "us-east-1"},
			s3.WithS3Client(&mockClient{}),
		)
		require.NoError(t, err)

		err = m.Mirror(context.Background(), "example.com", certstore.Files{Cert: "/nonexistent.crt"})
		assert.ErrorIs(t, err, s3.ErrFailedToReadFile)
	})

	t.Run("invalid domain", func(t *testing.T) {
		m, err := s3.New(context.Background(),
			s3.Config{Bucket: "certs", Region: "us-east-1"},
			s3.WithS3Client(&mockClient{}),
		)
		require.NoError(t, err)

		assert.ErrorIs(t, m.Mirror(context.Background(), "../x", files), s3.ErrInvalidKey)
	})
}
