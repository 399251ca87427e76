package kvstore

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/mindbalance/internal/client/config"
	"github.com/dmitrijs2005/mindbalance/internal/filex"
)

// Open creates the configured backend under dataDir.
func Open(ctx context.Context, dataDir, backend string) (Store, error) {
	dir, err := filex.EnsureDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	switch backend {
	case config.BackendSQLite, "":
		return OpenSQLite(ctx, filepath.Join(dir, "mindbalance.db"))
	case config.BackendDiskv:
		return NewDiskvStore(filepath.Join(dir, "kv")), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}
