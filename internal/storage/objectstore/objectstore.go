package objectstore

import (
	"context"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
)

type Options struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	Region        string
	UseSSL        bool
	PublicBaseURL string // optional, e.g. a CDN in front of the bucket
}

type bucketClient interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucket, key string, opts minio.RemoveObjectOptions) error
}

type Store struct {
	c       bucketClient
	bucket  string
	region  string
	baseURL string
}

func New(o Options) (*Store, error) {
	if o.Bucket == "" {
		return nil, errors.New("objectstore: bucket is required")
	}
	c, err := minio.New(o.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(o.AccessKey, o.SecretKey, ""),
		Secure: o.UseSSL,
		Region: o.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, "minio client")
	}

	base := strings.TrimRight(o.PublicBaseURL, "/")
	if base == "" {
		base = c.EndpointURL().String() + "/" + o.Bucket
	}
	return newWithClient(c, o.Bucket, o.Region, base), nil
}

func newWithClient(c bucketClient, bucket, region, baseURL string) *Store {
	return &Store{c: c, bucket: bucket, region: region, baseURL: baseURL}
}

// EnsureBucket creates the bucket if it does not exist yet.
func (s *Store) EnsureBucket(ctx context.Context) error {
	ok, err := s.c.BucketExists(ctx, s.bucket)
	if err != nil {
		return errors.Wrap(err, "bucket exists")
	}
	if ok {
		return nil
	}
	if err := s.c.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
		return errors.Wrap(err, "make bucket")
	}
	return nil
}

// Put uploads r under key and returns the object's URL.
func (s *Store) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.c.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", errors.Wrap(err, "put object")
	}
	return s.URL(key), nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return errors.Wrap(s.c.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}), "remove object")
}

func (s *Store) URL(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return s.baseURL + "/" + strings.Join(parts, "/")
}

// SafeName reduces an uploaded file name to a key-friendly base name.
func SafeName(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), ".")
	if out == "" {
		return "file"
	}
	return out
}
