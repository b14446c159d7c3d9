// Package history persists completed sweeps in a Badger key-value store
// so earlier runs can be listed, inspected, and pruned.
//
// Runs are keyed by a time-ordered UUID (version 7), so a reverse prefix
// scan yields newest-first order without a secondary index.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/jamesainslie/shardsweep/pkg/shardsweep/calc"
	"github.com/jamesainslie/shardsweep/pkg/shardsweep/logging"
)

var (
	// ErrNotFound is returned when no run matches an ID.
	ErrNotFound = errors.New("run not found")

	// ErrAmbiguousID is returned when an ID prefix matches more than one run.
	ErrAmbiguousID = errors.New("run id prefix is ambiguous")
)

const runPrefix = "run/"

// Run is one recorded sweep.
type Run struct {
	ID        string       `json:"id"`
	CreatedAt time.Time    `json:"created_at"`
	Input     calc.Input   `json:"input"`
	MaxError  float64      `json:"max_error,omitempty"`
	Results   calc.Results `json:"results"`
	PlotPath  string       `json:"plot_path,omitempty"`
}

// Best returns the highest-throughput result within the run's error target.
func (r *Run) Best() (calc.Result, bool) {
	return r.Results.BestWithin(r.MaxError)
}

func (r *Run) encode() ([]byte, error) {
	return json.Marshal(r)
}

func (r *Run) decode(data []byte) error {
	return json.Unmarshal(data, r)
}

// Store wraps Badger for run history.
type Store struct {
	db        *badger.DB
	retention time.Duration
}

// Open opens or creates a history store at path. Runs recorded with a
// positive retention expire after that duration.
func Open(path string, retention time.Duration) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	return open(opts, retention)
}

// OpenInMemory opens a store that is discarded on Close.
func OpenInMemory(retention time.Duration) (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	return open(opts, retention)
}

func open(opts badger.Options, retention time.Duration) (*Store, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}

	s := &Store{db: db, retention: retention}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the store.
func (s *Store) Close() error {
	return s.db.Close()
}

// NewRun builds a run for the given sweep. ID and CreatedAt are assigned
// when the run is recorded.
func NewRun(in calc.Input, results calc.Results, maxError float64, plotPath string) *Run {
	return &Run{
		Input:    in,
		MaxError: maxError,
		Results:  results,
		PlotPath: plotPath,
	}
}

// Record stores a run, assigning an ID and timestamp if they are unset.
func (s *Store) Record(run *Run) error {
	if run.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("generate run id: %w", err)
		}
		run.ID = id.String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	value, err := run.encode()
	if err != nil {
		return fmt.Errorf("encode run: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(runKey(run.ID), value)
		if s.retention > 0 {
			e = e.WithTTL(s.retention)
		}
		return txn.SetEntry(e)
	})
	if err != nil {
		return err
	}

	logging.Get("history").Debug("run recorded", "id", run.ID, "shards", len(run.Results))
	return nil
}

// Get returns the run with the given ID. A unique ID prefix also matches.
func (s *Store) Get(id string) (*Run, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}

	var run Run
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(runKey(id))
		if err == nil {
			return item.Value(run.decode)
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		prefix := runKey(id)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		var match *badger.Item
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if match != nil {
				return fmt.Errorf("%w: %s", ErrAmbiguousID, id)
			}
			match = it.Item()
		}
		if match == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return match.Value(run.decode)
	})
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// List returns up to limit runs, newest first. A limit of zero or less
// returns every run.
func (s *Store) List(limit int) ([]Run, error) {
	runs := []Run{}

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration seeks to the last key at or before the target.
		for it.Seek([]byte(runPrefix + "\xff")); it.ValidForPrefix([]byte(runPrefix)); it.Next() {
			var run Run
			if err := it.Item().Value(run.decode); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			runs = append(runs, run)
			if limit > 0 && len(runs) >= limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return runs, nil
}

// Prune deletes runs created before cutoff and returns how many were removed.
func (s *Store) Prune(cutoff time.Time) (int, error) {
	return s.deleteWhere(func(r *Run) bool {
		return r.CreatedAt.Before(cutoff)
	})
}

// Clear deletes every run and returns how many were removed.
func (s *Store) Clear() (int, error) {
	return s.deleteWhere(func(*Run) bool { return true })
}

func (s *Store) deleteWhere(match func(*Run) bool) (int, error) {
	var keys [][]byte

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(runPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var run Run
			if err := it.Item().Value(run.decode); err != nil {
				return err
			}
			if match(&run) {
				keys = append(keys, it.Item().KeyCopy(nil))
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, k := range keys {
		if err := wb.Delete(k); err != nil {
			return 0, err
		}
	}
	if err := wb.Flush(); err != nil {
		return 0, err
	}

	if len(keys) > 0 {
		logging.Get("history").Info("runs deleted", "count", len(keys))
	}
	return len(keys), nil
}

func runKey(id string) []byte {
	return []byte(runPrefix + id)
}
