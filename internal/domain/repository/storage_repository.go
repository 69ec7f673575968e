package repository

import "context"

// StorageRepository uploads exported reports to object storage.
type StorageRepository interface {
	UploadFile(ctx context.Context, bucket, localPath string) (string, error)
}
