package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"triz/internal/triz"
)

const redisKeyPrefix = "triz:session:"

// RedisStore implements Store on Redis, for deployments where multiple
// server instances share session state.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore connects to Redis at the given URL
// (redis://[user:pass@]host:port/db). A non-zero ttl expires idle
// sessions server-side; Cleanup still works for age-based sweeps below
// the ttl.
func NewRedisStore(ctx context.Context, url string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("session: parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: ping redis: %v", triz.ErrPersistence, err)
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

func redisKey(id string) string { return redisKeyPrefix + id }

func (s *RedisStore) Load(ctx context.Context, id string) (*Session, error) {
	data, err := s.client.Get(ctx, redisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", triz.ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load %s: %v", triz.ErrPersistence, id, err)
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", triz.ErrPersistence, id, err)
	}
	return &sess, nil
}

func (s *RedisStore) Save(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("%w: marshal %s: %v", triz.ErrPersistence, sess.ID, err)
	}
	if err := s.client.Set(ctx, redisKey(sess.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: save %s: %v", triz.ErrPersistence, sess.ID, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, redisKey(id)).Result()
	if err != nil {
		return fmt.Errorf("%w: delete %s: %v", triz.ErrPersistence, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", triz.ErrSessionNotFound, id)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]*Session, error) {
	var out []*Session
	iter := s.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		id := strings.TrimPrefix(iter.Val(), redisKeyPrefix)
		sess, err := s.Load(ctx, id)
		if err != nil {
			// Expired between SCAN and GET.
			if errors.Is(err, triz.ErrSessionNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, sess)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("%w: list: %v", triz.ErrPersistence, err)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (s *RedisStore) Cleanup(ctx context.Context, maxAge time.Duration) (int, error) {
	all, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	cutoff := time.Now().UTC().Add(-maxAge)
	removed := 0
	for _, sess := range all {
		if sess.UpdatedAt.After(cutoff) {
			continue
		}
		if err := s.Delete(ctx, sess.ID); err != nil {
			if errors.Is(err, triz.ErrSessionNotFound) {
				continue
			}
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func (s *RedisStore) Close() error { return s.client.Close() }
