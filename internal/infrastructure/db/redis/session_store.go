package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// maxTxAttempts bounds optimistic retries when another request of the same
// visitor changes the session between WATCH and EXEC.
const maxTxAttempts = 5

var errSessionContention = errors.New("session busy")

// SessionStore keeps flash-session records in Redis with a per-key TTL.
// Key format: sess:<session_id>
type SessionStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client, now: time.Now}
}

type sessionData struct {
	Notices   []string  `json:"notices,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *SessionStore) AppendNotice(ctx context.Context, id, notice string, expiresAt time.Time) error {
	return s.update(ctx, id, func(data *sessionData, _ bool) bool {
		data.Notices = append(data.Notices, notice)
		data.ExpiresAt = expiresAt.UTC()
		return true
	})
}

func (s *SessionStore) TakeNotices(ctx context.Context, id string) ([]string, error) {
	var taken []string
	err := s.update(ctx, id, func(data *sessionData, found bool) bool {
		taken = data.Notices
		if !found || len(data.Notices) == 0 {
			return false
		}
		data.Notices = nil
		return true
	})
	if err != nil {
		return nil, err
	}
	return taken, nil
}

// update runs fn against the current record inside a WATCH/MULTI transaction.
// fn reports whether the record must be written back.
func (s *SessionStore) update(ctx context.Context, id string, fn func(data *sessionData, found bool) bool) error {
	key := s.key(id)

	txf := func(tx *redis.Tx) error {
		var data sessionData
		found := true
		raw, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
			found = false
		case err != nil:
			return fmt.Errorf("session load: %w", err)
		default:
			if err := json.Unmarshal(raw, &data); err != nil {
				return fmt.Errorf("session decode: %w", err)
			}
		}

		if !fn(&data, found) {
			return nil
		}

		ttl := data.ExpiresAt.Sub(s.now())
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if ttl <= 0 {
				pipe.Del(ctx, key)
				return nil
			}
			encoded, err := json.Marshal(data)
			if err != nil {
				return fmt.Errorf("session encode: %w", err)
			}
			pipe.Set(ctx, key, encoded, ttl)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return fmt.Errorf("session %s: %w", id, errSessionContention)
}

func (s *SessionStore) key(id string) string {
	return "sess:" + id
}
