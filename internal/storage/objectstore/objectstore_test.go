package objectstore

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/require"
)

type fakeBucket struct {
	exists  bool
	made    []string
	objects map[string]string
	types   map[string]string
	putErr  error
}

func (f *fakeBucket) BucketExists(ctx context.Context, bucket string) (bool, error) {
	return f.exists, nil
}

func (f *fakeBucket) MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error {
	f.made = append(f.made, bucket)
	f.exists = true
	return nil
}

func (f *fakeBucket) PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.putErr != nil {
		return minio.UploadInfo{}, f.putErr
	}
	b, _ := io.ReadAll(r)
	f.objects[key] = string(b)
	f.types[key] = opts.ContentType
	return minio.UploadInfo{Bucket: bucket, Key: key, Size: int64(len(b))}, nil
}

func (f *fakeBucket) RemoveObject(ctx context.Context, bucket, key string, opts minio.RemoveObjectOptions) error {
	delete(f.objects, key)
	return nil
}

func newFake() *fakeBucket {
	return &fakeBucket{objects: map[string]string{}, types: map[string]string{}}
}

func TestStore_EnsureBucket(t *testing.T) {
	fb := newFake()
	s := newWithClient(fb, "uploads", "us-east-1", "http://minio:9000/uploads")

	require.NoError(t, s.EnsureBucket(context.Background()))
	require.NoError(t, s.EnsureBucket(context.Background()))
	require.Equal(t, []string{"uploads"}, fb.made)
}

func TestStore_PutAndDelete(t *testing.T) {
	fb := newFake()
	s := newWithClient(fb, "uploads", "", "https://cdn.example.com/uploads")
	ctx := context.Background()

	u, err := s.Put(ctx, "orders/WD-1/brief v2.pdf", strings.NewReader("%PDF"), 4, "application/pdf")
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com/uploads/orders/WD-1/brief%20v2.pdf", u)
	require.Equal(t, "%PDF", fb.objects["orders/WD-1/brief v2.pdf"])

	_, err = s.Put(ctx, "x", strings.NewReader("x"), 1, "")
	require.NoError(t, err)
	require.Equal(t, "application/octet-stream", fb.types["x"])

	require.NoError(t, s.Delete(ctx, "x"))
	require.NotContains(t, fb.objects, "x")
}

func TestStore_PutError(t *testing.T) {
	fb := newFake()
	fb.putErr = errors.New("disk full")
	s := newWithClient(fb, "uploads", "", "http://minio")

	_, err := s.Put(context.Background(), "k", strings.NewReader(""), 0, "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "put object")
}

func TestNew(t *testing.T) {
	_, err := New(Options{Endpoint: "localhost:9000"})
	require.Error(t, err)

	s, err := New(Options{Endpoint: "localhost:9000", Bucket: "uploads", AccessKey: "a", SecretKey: "b"})
	require.NoError(t, err)
	require.Equal(t, "http://localhost:9000/uploads/k", s.URL("k"))
}

func TestSafeName(t *testing.T) {
	require.Equal(t, "essay_draft.docx", SafeName("essay draft.docx"))
	require.Equal(t, "passwd", SafeName("../../etc/passwd"))
	require.Equal(t, "notes.txt", SafeName(`C:\Users\me\notes.txt`))
	require.Equal(t, "file", SafeName(".."))
	require.Equal(t, "file", SafeName("Привет"))
}
