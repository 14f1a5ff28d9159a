package port

import "context"

// KeyValueStore abstracts the persistent string key/value storage the cache
// manager sits on. All values are JSON-serialized strings; the store itself
// knows nothing about TTLs or the size index.
type KeyValueStore interface {
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
	GetAllKeys(ctx context.Context) ([]string, error)
	MultiRemove(ctx context.Context, keys []string) error
}
