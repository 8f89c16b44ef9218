package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"project-provisioner/pkg/domain/errors"
)

const scopesBucket = "scopes"

// BoltStore keeps completion state in a BoltDB file, one JSON value per
// scope. It implements the same Store contract as FileStore and is selected
// with --store bolt.
type BoltStore struct {
	db *bbolt.DB
}

// NewBoltStore opens (or creates) a BoltDB-backed store at dbPath.
func NewBoltStore(dbPath string) (*BoltStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.New(errors.CodeIoError, "checkpoint", fmt.Sprintf("failed to create directory %s", dir), err)
	}

	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		return nil, errors.New(errors.CodeIoError, "checkpoint",
			fmt.Sprintf("failed to open state database %s (is another runner using it?)", dbPath), err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(scopesBucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.New(errors.CodeIoError, "checkpoint", "failed to create scopes bucket", err)
	}

	return &BoltStore{db: db}, nil
}

// Load reads every scope record. An empty database yields an empty state.
func (b *BoltStore) Load() (*State, error) {
	state := NewState()
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(scopesBucket))
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(k, v []byte) error {
			var sc ScopeState
			if err := json.Unmarshal(v, &sc); err != nil {
				return fmt.Errorf("scope %q: %w", string(k), err)
			}
			state.Scopes[string(k)] = &sc
			return nil
		})
	})
	if err != nil {
		return nil, errors.New(errors.CodeInvalidState, "checkpoint", "failed to load state", err)
	}
	return state, nil
}

// Save rewrites every scope record in a single transaction. Bolt's
// transactional write gives the same old-or-new guarantee as the file
// store's rename.
func (b *BoltStore) Save(state *State) error {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(scopesBucket))
		for scope, sc := range state.Scopes {
			data, err := json.Marshal(sc)
			if err != nil {
				return fmt.Errorf("scope %q: %w", scope, err)
			}
			if err := bucket.Put([]byte(scope), data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.New(errors.CodeIoError, "checkpoint", "failed to save state", err)
	}
	return nil
}

// Close releases the underlying database file.
func (b *BoltStore) Close() error {
	return b.db.Close()
}
