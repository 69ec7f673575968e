package storage

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/catalystcloud/separate-billing-go/internal/domain/repository"
	"github.com/catalystcloud/separate-billing-go/internal/shared/types"
)

// objectPutter is the subset of the S3 client used for uploads.
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3RepositoryImpl implementa o StorageRepository sobre um endpoint compatível com S3.
type S3RepositoryImpl struct {
	client objectPutter
	prefix string
}

// NewS3Repository builds an S3 client for the configured endpoint. Static
// keys are used when present, otherwise the default AWS credential chain.
func NewS3Repository(ctx context.Context, cfg types.S3Config) (repository.StorageRepository, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load object storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3RepositoryImpl{client: client, prefix: cfg.Prefix}, nil
}

// UploadFile puts the file under the configured key prefix and returns its
// s3:// location.
func (r *S3RepositoryImpl) UploadFile(ctx context.Context, bucket, localPath string) (string, error) {
	if bucket == "" {
		return "", types.ErrMissingBucket
	}

	file, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("error opening %s: %w", localPath, err)
	}
	defer file.Close()

	key := ObjectKey(r.prefix, localPath)
	input := &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   file,
	}
	if contentType := contentTypeFor(localPath); contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := r.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("error uploading %s to bucket %s: %w", key, bucket, err)
	}

	zerolog.Ctx(ctx).Debug().Str("bucket", bucket).Str("key", key).Msg("report uploaded")
	return fmt.Sprintf("s3://%s/%s", bucket, key), nil
}

// contentTypeFor resolves the MIME type of an exported report. CSV is not
// in Go's builtin table and may be missing from the system one.
func contentTypeFor(localPath string) string {
	ext := strings.ToLower(filepath.Ext(localPath))
	if ext == ".csv" {
		return "text/csv; charset=utf-8"
	}
	return mime.TypeByExtension(ext)
}

// ObjectKey joins the key prefix with the file's base name.
func ObjectKey(prefix, localPath string) string {
	name := filepath.Base(localPath)
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}
