package imagestore

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
	status  int
}

func (b *fakeBucket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if b.status != 0 {
		w.WriteHeader(b.status)
		_, _ = io.WriteString(w, "<Error><Code>AccessDenied</Code></Error>")
		return
	}
	data, _ := io.ReadAll(r.Body)
	b.mu.Lock()
	b.objects[r.URL.Path] = data
	b.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}

func newTestS3Store(t *testing.T, endpoint string) *S3Store {
	t.Helper()
	s, err := NewS3Store(context.Background(), S3Options{
		Endpoint:  endpoint,
		Region:    "us-east-1",
		Bucket:    "visionaq",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		URLTTL:    10 * time.Minute,
	})
	require.NoError(t, err)
	return s
}

func TestS3Store_PutUploadsAndReturnsPresignedGet(t *testing.T) {
	bucket := &fakeBucket{objects: map[string][]byte{}}
	srv := httptest.NewServer(bucket)
	defer srv.Close()

	s := newTestS3Store(t, srv.URL)
	ref, err := s.Put(context.Background(), "sky.jpg", []byte("jpeg-bytes"))
	require.NoError(t, err)

	u, err := url.Parse(ref)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, srv.URL+"/visionaq/images/"), ref)
	assert.Equal(t, "600", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))

	bucket.mu.Lock()
	defer bucket.mu.Unlock()
	require.Len(t, bucket.objects, 1)
	for path, data := range bucket.objects {
		assert.Equal(t, u.Path, path, "GET reference points at the uploaded object")
		assert.Equal(t, []byte("jpeg-bytes"), data)
	}
}

func TestS3Store_UploadRejected(t *testing.T) {
	srv := httptest.NewServer(&fakeBucket{objects: map[string][]byte{}, status: http.StatusForbidden})
	defer srv.Close()

	s := newTestS3Store(t, srv.URL)
	_, err := s.Put(context.Background(), "sky.jpg", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upload image")
}

func TestS3Store_PresignErrors(t *testing.T) {
	s := newTestS3Store(t, "http://127.0.0.1:1")

	origPut, origGet := presignPutObject, presignGetObject
	t.Cleanup(func() { presignPutObject, presignGetObject = origPut, origGet })

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("boom")
	}
	_, err := s.Put(context.Background(), "sky.jpg", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "presign put")
}

func TestNewS3Store_Config(t *testing.T) {
	origLoad, origNew := loadDefaultAWSConfig, newS3ClientFromConfig
	t.Cleanup(func() { loadDefaultAWSConfig, newS3ClientFromConfig = origLoad, origNew })

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "eu-west-1", lo.Region)
		assert.NotNil(t, lo.Credentials)
		return aws.Config{Region: lo.Region}, nil
	}

	var captured s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&captured)
		}
		return s3.NewFromConfig(cfg, optFns...)
	}

	_, err := NewS3Store(context.Background(), S3Options{
		Endpoint: "http://minio:9000", Region: "eu-west-1", Bucket: "b",
		AccessKey: "ak", SecretKey: "sk",
	})
	require.NoError(t, err)
	require.NotNil(t, captured.BaseEndpoint)
	assert.Equal(t, "http://minio:9000", *captured.BaseEndpoint)
	assert.True(t, captured.UsePathStyle)

	_, err = NewS3Store(context.Background(), S3Options{Region: "eu-west-1"})
	require.Error(t, err)

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}
	_, err = NewS3Store(context.Background(), S3Options{Bucket: "b"})
	require.ErrorContains(t, err, "load aws config")
}
