package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Schema versions:
// 1 - runs keyed by run/<uuidv7>, JSON encoded
const CurrentSchemaVersion = 1

const schemaKey = "meta/schema"

// ErrSchemaTooNew is returned when the store was written by a newer build.
var ErrSchemaTooNew = errors.New("history schema is newer than this build")

// Schema records the layout version of a history store.
type Schema struct {
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Schema returns the stored schema, or nil if none was written.
func (s *Store) Schema() (*Schema, error) {
	var schema *Schema

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(schemaKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			schema = &Schema{}
			return json.Unmarshal(val, schema)
		})
	})
	if err != nil {
		return nil, err
	}
	return schema, nil
}

// ensureSchema stamps a fresh store and rejects one from a newer build.
func (s *Store) ensureSchema() error {
	schema, err := s.Schema()
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}
	if schema != nil {
		if schema.Version > CurrentSchemaVersion {
			return fmt.Errorf("%w: version %d, supported %d", ErrSchemaTooNew, schema.Version, CurrentSchemaVersion)
		}
		if schema.Version == CurrentSchemaVersion {
			return nil
		}
	}

	data, err := json.Marshal(&Schema{Version: CurrentSchemaVersion, UpdatedAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(schemaKey), data)
	})
}
