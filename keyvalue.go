package gofetch

import (
	"context"
	"fmt"
)

// KeyValueStoreClient mirrors Apify's key-value store surface. GoFetch has no
// key-value store backend, so every operation fails with ErrNotSupported.
// Failing loudly beats a silent no-op that loses data for callers porting
// from Apify.
type KeyValueStoreClient struct {
	storeID string
}

// GetRecord is not supported by GoFetch.
func (k *KeyValueStoreClient) GetRecord(ctx context.Context, key string) (any, error) {
	return nil, fmt.Errorf("key-value store records: %w", ErrNotSupported)
}

// SetRecord is not supported by GoFetch.
func (k *KeyValueStoreClient) SetRecord(ctx context.Context, key string, value any) error {
	return fmt.Errorf("key-value store records: %w", ErrNotSupported)
}

// DeleteRecord is not supported by GoFetch.
func (k *KeyValueStoreClient) DeleteRecord(ctx context.Context, key string) error {
	return fmt.Errorf("key-value store records: %w", ErrNotSupported)
}

// Delete is not supported by GoFetch.
func (k *KeyValueStoreClient) Delete(ctx context.Context) error {
	return fmt.Errorf("key-value stores: %w", ErrNotSupported)
}
