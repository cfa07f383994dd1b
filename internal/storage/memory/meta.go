package memory

import "context"

// GetMeta reads a singleton key. Returns "", nil if unset.
func (t *tx) GetMeta(ctx context.Context, key string) (string, error) {
	return t.store.meta[key], nil
}

// SetMeta upserts a singleton key.
func (t *tx) SetMeta(ctx context.Context, key, value string) error {
	t.store.meta[key] = value
	return nil
}
