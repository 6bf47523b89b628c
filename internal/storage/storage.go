package storage

import "context"

// Service reads objects from remote object storage.
type Service interface {
	Download(ctx context.Context, bucket, key string) ([]byte, error)
}
