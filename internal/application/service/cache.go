package service

import "context"

const (
	CacheKeyPosts    = "posts:all"
	CacheKeyProfiles = "profiles:all"
)

// Cache stores serialized listings. A miss is reported as nil bytes and a nil error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}
