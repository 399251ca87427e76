// Package kvstore is the device-local key-value cache. Values are opaque
// bytes; GetJSON and SetJSON cover the common case of JSON documents.
package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
)

// Store is a persistent string-keyed byte store. Get returns
// common.ErrorNotFound for a missing key; Delete of a missing key is not
// an error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

// GetJSON decodes the value at key into dst.
func GetJSON(ctx context.Context, s Store, key string, dst any) error {
	b, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// SetJSON stores v encoded as JSON.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, b)
}
