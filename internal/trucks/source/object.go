package source

import (
	"context"
	"fmt"
	"io"
)

// Downloader fetches an object; *storage.MinIOService implements it.
type Downloader interface {
	DownloadFile(ctx context.Context, bucket, fileKey string) (io.ReadCloser, error)
}

// Object loads an export kept in object storage. The format follows the
// key's extension.
type Object struct {
	store  Downloader
	bucket string
	key    string
}

func NewObject(store Downloader, bucket, key string) *Object {
	return &Object{store: store, bucket: bucket, key: key}
}

func (s *Object) Name() string { return fmt.Sprintf("minio:%s/%s", s.bucket, s.key) }

func (s *Object) Load(ctx context.Context) (Batch, error) {
	rc, err := s.store.DownloadFile(ctx, s.bucket, s.key)
	if err != nil {
		return Batch{}, err
	}
	defer rc.Close()

	return Parse(FormatFor(s.key), rc)
}
