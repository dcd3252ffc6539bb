package repository

import "context"

// CacheRepository stores serialized tax comparisons keyed by an input digest.
type CacheRepository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
}
