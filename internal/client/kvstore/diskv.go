package kvstore

import (
	"context"
	"encoding/base64"
	"errors"
	"io/fs"
	"sort"
	"strings"

	"github.com/dmitrijs2005/mindbalance/internal/common"
	"github.com/peterbourgon/diskv/v3"
)

// DiskvStore keeps one file per key under a base directory. File names are
// the base64url form of the key, so any key maps to a flat, valid name.
type DiskvStore struct {
	d *diskv.Diskv
}

func keyToPath(key string) *diskv.PathKey {
	return &diskv.PathKey{FileName: base64.RawURLEncoding.EncodeToString([]byte(key))}
}

func pathToKey(pk *diskv.PathKey) string {
	b, err := base64.RawURLEncoding.DecodeString(pk.FileName)
	if err != nil {
		return ""
	}
	return string(b)
}

func NewDiskvStore(basePath string) *DiskvStore {
	return &DiskvStore{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPath,
		InverseTransform:  pathToKey,
		CacheSizeMax:      1024 * 1024,
	})}
}

func (s *DiskvStore) Get(_ context.Context, key string) ([]byte, error) {
	b, err := s.d.Read(key)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, common.ErrorNotFound
	}
	return b, err
}

func (s *DiskvStore) Set(_ context.Context, key string, value []byte) error {
	return s.d.Write(key, value)
}

func (s *DiskvStore) Delete(_ context.Context, key string) error {
	err := s.d.Erase(key)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (s *DiskvStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	for k := range s.d.Keys(ctx.Done()) {
		if k != "" && strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *DiskvStore) Close() error { return nil }
