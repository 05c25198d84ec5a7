package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/frahmantamala/navguard/internal/session"
	goredis "github.com/redis/go-redis/v9"
)

const defaultPrefix = "navguard:session"

type Store struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
}

// NewStore returns a Redis-backed grant set store. A zero ttl keeps entries
// until they are deleted.
func NewStore(client *goredis.Client, ttl time.Duration) *Store {
	return &Store{client: client, prefix: defaultPrefix, ttl: ttl}
}

func (s *Store) key(sessionID string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, sessionID, session.StorageKey)
}

func (s *Store) Load(ctx context.Context, sessionID string) ([]byte, error) {
	raw, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, session.ErrNotFound
		}
		return nil, err
	}
	return raw, nil
}

func (s *Store) Save(ctx context.Context, sessionID string, raw []byte) error {
	return s.client.Set(ctx, s.key(sessionID), raw, s.ttl).Err()
}

func (s *Store) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.key(sessionID)).Err()
}
