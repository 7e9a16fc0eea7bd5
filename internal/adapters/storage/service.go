// Package storage provides S3-compatible object storage for registry data
// files: the raw permit exports the importer archives and the API can load.
package storage

import (
	"context"
	"io"
)

// StorageService defines the object storage operations the registry needs.
type StorageService interface {
	// DownloadFile streams an object. The caller closes the reader.
	DownloadFile(ctx context.Context, bucket, fileKey string) (io.ReadCloser, error)

	// UploadFile stores reader under folder/fileName and returns the key.
	// A size of -1 streams an object of unknown length.
	UploadFile(ctx context.Context, bucket, folder, fileName, contentType string, reader io.Reader, size int64) (string, error)

	// EnsureBucketExists creates the bucket if it doesn't exist.
	EnsureBucketExists(ctx context.Context, bucket string) error

	// ValidateContentType checks the content type is a registry format.
	ValidateContentType(contentType string) error

	// ValidateFileSize checks if the file size is within limits.
	ValidateFileSize(sizeBytes int64) error
}

// Config defines the configuration interface for storage.
type Config interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOMaxFileSize() int64
	IsMinIOEnabled() bool
}
