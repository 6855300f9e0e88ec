package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	puts      []*s3.PutObjectInput
	body      []byte
	deletes   []*s3.DeleteObjectInput
	putErr    error
	deleteErr error
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.puts = append(f.puts, in)
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObjectWithContext(_ aws.Context, in *s3.DeleteObjectInput, _ ...request.Option) (*s3.DeleteObjectOutput, error) {
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	f.deletes = append(f.deletes, in)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Store_Put(t *testing.T) {
	fake := &fakeS3{}
	store := NewS3Store(fake, Config{Bucket: "assets", PublicURL: "https://cdn.example.com/"})

	url, err := store.Put(context.Background(), "campaigns/c1/hero image.png", "image/png", []byte("png"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/campaigns/c1/hero%20image.png", url)

	require.Len(t, fake.puts, 1)
	assert.Equal(t, "assets", aws.StringValue(fake.puts[0].Bucket))
	assert.Equal(t, "image/png", aws.StringValue(fake.puts[0].ContentType))
	assert.Equal(t, int64(3), aws.Int64Value(fake.puts[0].ContentLength))
	assert.Equal(t, "png", string(fake.body))
}

func TestS3Store_PutError(t *testing.T) {
	fake := &fakeS3{putErr: errors.New("AccessDenied")}
	store := NewS3Store(fake, Config{Bucket: "assets", Region: "eu-west-1"})

	url, err := store.Put(context.Background(), "k.png", "image/png", []byte("x"))
	assert.Empty(t, url)
	assert.ErrorContains(t, err, "AccessDenied")
}

func TestS3Store_Delete(t *testing.T) {
	fake := &fakeS3{}
	store := NewS3Store(fake, Config{Bucket: "assets"})
	require.NoError(t, store.Delete(context.Background(), "k.png"))
	assert.Equal(t, "k.png", aws.StringValue(fake.deletes[0].Key))

	fake.deleteErr = awserr.New(s3.ErrCodeNoSuchKey, "gone", nil)
	assert.ErrorIs(t, store.Delete(context.Background(), "k.png"), ErrObjectNotFound)

	fake.deleteErr = errors.New("timeout")
	err := store.Delete(context.Background(), "k.png")
	assert.ErrorContains(t, err, "timeout")
	assert.NotErrorIs(t, err, ErrObjectNotFound)
}

func TestPublicBase(t *testing.T) {
	assert.Equal(t, "https://assets.s3.eu-west-1.amazonaws.com/a.png",
		NewS3Store(&fakeS3{}, Config{Bucket: "assets", Region: "eu-west-1"}).URL("a.png"))
	assert.Equal(t, "http://minio:9000/assets/a.png",
		NewS3Store(&fakeS3{}, Config{Bucket: "assets", Endpoint: "http://minio:9000/"}).URL("a.png"))
}

func TestNewS3Client(t *testing.T) {
	client, err := NewS3Client(Config{Region: "us-east-1", Endpoint: "http://localhost:9000", AccessKey: "a", SecretKey: "b", ForcePathStyle: true})
	require.NoError(t, err)
	assert.True(t, aws.BoolValue(client.Config.S3ForcePathStyle))
	assert.Equal(t, "http://localhost:9000", aws.StringValue(client.Config.Endpoint))
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore("http://localhost:8080/assets/")

	url, err := m.Put(ctx, "a/b.gif", "image/gif", []byte("gif"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/assets/a/b.gif", url)

	data, ok := m.Get("a/b.gif")
	require.True(t, ok)
	assert.Equal(t, "gif", string(data))

	require.NoError(t, m.Delete(ctx, "a/b.gif"))
	assert.ErrorIs(t, m.Delete(ctx, "a/b.gif"), ErrObjectNotFound)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = m.Put(cancelled, "x", "", nil)
	assert.ErrorIs(t, err, context.Canceled)
}
