package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catalystcloud/separate-billing-go/internal/shared/types"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	if params.Body != nil {
		f.body, _ = io.ReadAll(params.Body)
	}
	return &s3.PutObjectOutput{}, f.err
}

func TestUploadFile(t *testing.T) {
	// Given
	path := filepath.Join(t.TempDir(), "acme_20210315_103000.csv")
	require.NoError(t, os.WriteFile(path, []byte("resource_name,cost\n"), 0o644))
	putter := &fakePutter{}
	repo := &S3RepositoryImpl{client: putter, prefix: "/billing/reports/"}

	// When
	location, err := repo.UploadFile(context.Background(), "finance", path)

	// Then
	require.NoError(t, err)
	assert.Equal(t, "s3://finance/billing/reports/acme_20210315_103000.csv", location)
	assert.Equal(t, "finance", aws.ToString(putter.input.Bucket))
	assert.Equal(t, "billing/reports/acme_20210315_103000.csv", aws.ToString(putter.input.Key))
	assert.Contains(t, aws.ToString(putter.input.ContentType), "csv")
	assert.Equal(t, "resource_name,cost\n", string(putter.body))
}

func TestUploadFile_Errors(t *testing.T) {
	repo := &S3RepositoryImpl{client: &fakePutter{err: errors.New("access denied")}}

	_, err := repo.UploadFile(context.Background(), "", "x.csv")
	assert.ErrorIs(t, err, types.ErrMissingBucket)

	_, err = repo.UploadFile(context.Background(), "finance", filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "r.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
	_, err = repo.UploadFile(context.Background(), "finance", path)
	assert.ErrorContains(t, err, "access denied")
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "r.pdf", ObjectKey("", "/tmp/out/r.pdf"))
	assert.Equal(t, "a/b/r.pdf", ObjectKey("a/b/", "/tmp/out/r.pdf"))
}

func TestNewS3Repository_StaticCredentials(t *testing.T) {
	repo, err := NewS3Repository(context.Background(), types.S3Config{
		Endpoint:  "https://object-storage.example",
		AccessKey: "ak",
		SecretKey: "sk",
		Prefix:    "billing",
	})

	require.NoError(t, err)
	impl, ok := repo.(*S3RepositoryImpl)
	require.True(t, ok)
	assert.Equal(t, "billing", impl.prefix)
}
