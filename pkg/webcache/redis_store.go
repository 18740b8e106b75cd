package webcache

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

const partitionSetKey = "webcache:partitions"

// RedisStore shares cache partitions between gateway instances. Each
// entry lives under "webcache:<partition>:<key>", a per-partition set
// tracks member keys so Drop can reclaim a whole generation.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(addr, password string, db int) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

func entryKey(partition, key string) string {
	return "webcache:" + partition + ":" + key
}

func memberSetKey(partition string) string {
	return "webcache:keys:" + partition
}

func (r *RedisStore) Get(ctx context.Context, partition, key string) (*Entry, error) {
	data, err := r.client.Get(ctx, entryKey(partition, key)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	e := &Entry{}
	if err := json.Unmarshal([]byte(data), e); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *RedisStore) Put(ctx context.Context, partition, key string, e *Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, entryKey(partition, key), data, 0)
	pipe.SAdd(ctx, memberSetKey(partition), key)
	pipe.SAdd(ctx, partitionSetKey, partition)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *RedisStore) Partitions(ctx context.Context) ([]string, error) {
	return r.client.SMembers(ctx, partitionSetKey).Result()
}

func (r *RedisStore) Drop(ctx context.Context, partition string) error {
	keys, err := r.client.SMembers(ctx, memberSetKey(partition)).Result()
	if err != nil {
		return err
	}
	pipe := r.client.TxPipeline()
	for _, key := range keys {
		pipe.Del(ctx, entryKey(partition, key))
	}
	pipe.Del(ctx, memberSetKey(partition))
	pipe.SRem(ctx, partitionSetKey, partition)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
