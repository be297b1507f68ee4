// Package badger keeps graph documents in an embedded BadgerDB, one key per
// snapshot name.
package badger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/abstract-base-method/memgraph"
	"github.com/charmbracelet/log"
	"github.com/dgraph-io/badger/v4"
)

const keyPrefix = "graph:"

type Config struct {
	// Path is the directory for BadgerDB files. Ignored when InMemory is true.
	Path string

	// InMemory keeps everything in RAM, mostly for tests.
	InMemory bool

	// SyncWrites flushes every write to disk before returning.
	SyncWrites bool

	// Logger receives BadgerDB's own log lines. Nil silences them.
	Logger *log.Logger
}

// badgerLogger adapts a charmbracelet logger to badger.Logger.
type badgerLogger struct {
	logger *log.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Errorf(strings.TrimSpace(format), args...)
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warnf(strings.TrimSpace(format), args...)
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Infof(strings.TrimSpace(format), args...)
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debugf(strings.TrimSpace(format), args...)
}

type SnapshotStore struct {
	db *badger.DB
}

var _ memgraph.SnapshotStore = (*SnapshotStore)(nil)

func Open(cfg Config) (*SnapshotStore, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent database")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return &SnapshotStore{db: db}, nil
}

func (s *SnapshotStore) Close() error {
	return s.db.Close()
}

func (s *SnapshotStore) Save(ctx context.Context, name string, graph memgraph.Persister) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := graph.Save(&buf); err != nil {
		return err
	}

	key := nameToKey(name)
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, buf.Bytes())
	})
	if err != nil {
		return fmt.Errorf("store snapshot %s: %w", key, err)
	}
	log.Debug("stored snapshot", "key", string(key), "bytes", buf.Len())
	return nil
}

func (s *SnapshotStore) Load(ctx context.Context, name string, graph memgraph.Persister) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := nameToKey(name)

	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("%s: %w", key, memgraph.ErrSnapshotNotFound)
	}
	if err != nil {
		return fmt.Errorf("retrieve snapshot %s: %w", key, err)
	}

	log.Debug("retrieved snapshot", "key", string(key), "bytes", len(raw))
	return graph.Load(bytes.NewReader(raw))
}

func (s *SnapshotStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := nameToKey(name)
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			return err
		}
		return txn.Delete(key)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("%s: %w", key, memgraph.ErrSnapshotNotFound)
	}
	return err
}

func (s *SnapshotStore) List(ctx context.Context) ([]string, error) {
	names := make([]string, 0)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			names = append(names, strings.TrimPrefix(string(it.Item().Key()), keyPrefix))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

func nameToKey(name string) []byte {
	if strings.HasPrefix(name, keyPrefix) {
		return []byte(name)
	}
	return []byte(keyPrefix + name)
}
