package attack

import (
	"errors"
	"log"
	"sort"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrRunNotFound is returned when a stored run id does not exist.
var ErrRunNotFound = errors.New("attack: run not found")

var runPrefix = []byte("run:")

// Store persists run results in BadgerDB, msgpack-encoded under
// "run:<id>".
type Store struct {
	db *badger.DB
}

// StoreOptions configures the result store.
type StoreOptions struct {
	// Dir is the directory for the database files. Required unless
	// InMemory is set.
	Dir string

	// InMemory runs the database without disk persistence. Used in
	// tests.
	InMemory bool
}

// OpenStore opens the result store.
func OpenStore(opts StoreOptions) (*Store, error) {
	if !opts.InMemory && opts.Dir == "" {
		return nil, errors.New("attack: StoreOptions.Dir is required for on-disk mode")
	}
	dbOpts := badger.DefaultOptions(opts.Dir).WithLogger(quietLogger{})
	if opts.InMemory {
		dbOpts = dbOpts.WithInMemory(true)
	}
	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Save writes one run result.
func (s *Store) Save(r *RunResult) error {
	data, err := msgpack.Marshal(r)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(runKey(r.ID), data)
	})
}

// Get loads a run by id.
func (s *Store) Get(id string) (*RunResult, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(runKey(id))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	var r RunResult
	if err := msgpack.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// List returns all stored runs, newest first.
func (s *Store) List() ([]*RunResult, error) {
	var out []*RunResult
	err := s.db.View(func(txn *badger.Txn) error {
		iterOpts := badger.DefaultIteratorOptions
		iterOpts.Prefix = runPrefix
		it := txn.NewIterator(iterOpts)
		defer it.Close()

		for it.Seek(runPrefix); it.ValidForPrefix(runPrefix); it.Next() {
			data, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			var r RunResult
			if err := msgpack.Unmarshal(data, &r); err != nil {
				return err
			}
			out = append(out, &r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Delete removes a stored run. Deleting a missing run is not an
// error.
func (s *Store) Delete(id string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(runKey(id))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func runKey(id string) []byte {
	return append(append([]byte{}, runPrefix...), id...)
}

// quietLogger suppresses badger's debug and info chatter.
type quietLogger struct{}

func (quietLogger) Errorf(f string, v ...interface{})   { log.Printf("[badger] ERROR: "+f, v...) }
func (quietLogger) Warningf(f string, v ...interface{}) { log.Printf("[badger] WARN: "+f, v...) }
func (quietLogger) Infof(string, ...interface{})        {}
func (quietLogger) Debugf(string, ...interface{})       {}
