package redis

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abstract-base-method/memgraph"
	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "graph:"

// NewSnapshotStore connects to redis and keeps one graph document per key.
func NewSnapshotStore(options *redis.Options) (*SnapshotStore, error) {
	if options == nil {
		return nil, errors.New("redis options are required")
	}
	return &SnapshotStore{
		redis: redis.NewClient(options),
	}, nil
}

type SnapshotStore struct {
	redis *redis.Client
}

var _ memgraph.SnapshotStore = (*SnapshotStore)(nil)

func (r *SnapshotStore) Ping(ctx context.Context) error {
	return r.redis.Ping(ctx).Err()
}

func (r *SnapshotStore) Close() error {
	return r.redis.Close()
}

func (r *SnapshotStore) Save(ctx context.Context, name string, graph memgraph.Persister) (err error) {
	key := nameToKey(name)

	var buf bytes.Buffer
	if err = graph.Save(&buf); err != nil {
		return err
	}

	count, err := r.redis.Exists(ctx, key).Result()
	if err != nil {
		return err
	}
	if err = r.redis.Set(ctx, key, buf.Bytes(), 0).Err(); err != nil {
		return fmt.Errorf("store snapshot %s: %w", key, err)
	}

	if count == 1 {
		log.Debug("updated snapshot", "key", key, "bytes", buf.Len())
	} else {
		log.Debug("created snapshot", "key", key, "bytes", buf.Len())
	}
	return nil
}

func (r *SnapshotStore) Load(ctx context.Context, name string, graph memgraph.Persister) (err error) {
	key := nameToKey(name)

	raw, err := r.redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return fmt.Errorf("%s: %w", key, memgraph.ErrSnapshotNotFound)
	}
	if err != nil {
		return fmt.Errorf("retrieve snapshot %s: %w", key, err)
	}

	log.Debug("retrieved snapshot", "key", key, "bytes", len(raw))
	return graph.Load(bytes.NewReader(raw))
}

func (r *SnapshotStore) Delete(ctx context.Context, name string) (err error) {
	key := nameToKey(name)
	deleted, err := r.redis.Del(ctx, key).Result()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return fmt.Errorf("%s: %w", key, memgraph.ErrSnapshotNotFound)
	}
	log.Debug("deleted snapshot", "key", key)
	return nil
}

func (r *SnapshotStore) List(ctx context.Context) (names []string, err error) {
	names = make([]string, 0)
	iter := r.redis.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		names = append(names, keyToName(iter.Val()))
	}
	if err = iter.Err(); err != nil {
		return nil, err
	}
	return names, nil
}

func nameToKey(name string) (key string) {
	if strings.HasPrefix(name, keyPrefix) {
		key = name
	} else {
		key = keyPrefix + name
	}
	return key
}

func keyToName(key string) (name string) {
	return strings.TrimPrefix(key, keyPrefix)
}
