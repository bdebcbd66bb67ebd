package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/anonto42/socialgraph/backend/internal/apperrors"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\x0D\x0A\x1A\x0A\x00\x00\x00\x0DIHDR")

func TestCheckImage(t *testing.T) {
	ct, ext, err := CheckImage(pngHeader)
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)
	assert.Equal(t, ".png", ext)

	_, _, err = CheckImage([]byte("plain text, not an image"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidImage)

	_, _, err = CheckImage(nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidImage)

	big := append(bytes.Clone(pngHeader), make([]byte, MaxImageSize)...)
	_, _, err = CheckImage(big)
	assert.ErrorIs(t, err, apperrors.ErrInvalidImage)
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), ".png")
	assert.Regexp(t, regexp.MustCompile(`^posts/2024/5/1/[0-9a-f-]{36}\.png$`), key)
	assert.NotEqual(t, key, ObjectKey(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), ".png"))
}

func TestDiskStore_Save(t *testing.T) {
	dir := t.TempDir()
	s := NewDiskStore(dir, "http://localhost:8080/")

	url, err := s.Save(context.Background(), "image.png", "image/png", pngHeader)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "http://localhost:8080/uploads/posts/"), url)

	key := strings.TrimPrefix(url, "http://localhost:8080/uploads/")
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(key)))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)
}

func TestDiskStore_SaveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDiskStore(t.TempDir(), "").Save(ctx, "image.png", "image/png", pngHeader)
	assert.ErrorIs(t, err, apperrors.ErrStorage)
	assert.Equal(t, apperrors.KindStorage, apperrors.KindOf(err))
}

type fakeS3 struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.in = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestS3Store_Save(t *testing.T) {
	client := &fakeS3{}
	s := newS3Store(client, "images", "https://cdn.example.com/images/")

	url, err := s.Save(context.Background(), "image.png", "image/png", pngHeader)
	require.NoError(t, err)

	require.NotNil(t, client.in)
	assert.Equal(t, "images", *client.in.Bucket)
	assert.Equal(t, "image/png", *client.in.ContentType)
	assert.Equal(t, "https://cdn.example.com/images/"+*client.in.Key, url)
	assert.Equal(t, pngHeader, client.body)
}

func TestS3Store_SaveError(t *testing.T) {
	s := newS3Store(&fakeS3{err: errors.New("access denied")}, "images", "https://cdn.example.com")

	_, err := s.Save(context.Background(), "image.png", "image/png", pngHeader)
	assert.ErrorIs(t, err, apperrors.ErrStorage)
}

func TestGridFSStore_OpenInvalidID(t *testing.T) {
	s := &GridFSStore{}
	_, _, err := s.Open(context.Background(), "not-an-object-id")
	assert.ErrorIs(t, err, ErrMediaNotFound)
}
