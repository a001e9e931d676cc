package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SessionStore keeps flash-session records in the session table. Notices are
// appended and taken with single statements so the row lock serialises
// concurrent requests of one visitor.
type SessionStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db, now: time.Now}
}

const appendNoticeSQL = `INSERT INTO session (sid, sess, expire)
	VALUES ($1, jsonb_build_object('notices', jsonb_build_array($2::text)), $3)
	ON CONFLICT (sid) DO UPDATE SET
		sess = CASE WHEN session.expire > $4
			THEN jsonb_set(session.sess, '{notices}',
				COALESCE(session.sess->'notices', '[]'::jsonb) || to_jsonb($2::text))
			ELSE EXCLUDED.sess END,
		expire = EXCLUDED.expire`

func (s *SessionStore) AppendNotice(ctx context.Context, id, notice string, expiresAt time.Time) error {
	if _, err := s.db.ExecContext(ctx, appendNoticeSQL, id, notice, expiresAt.UTC(), s.now().UTC()); err != nil {
		return fmt.Errorf("session append: %w", err)
	}
	return nil
}

const takeNoticesSQL = `WITH taken AS (
		SELECT sid, sess->'notices' AS notices FROM session
		WHERE sid = $1 AND expire > $2
		FOR UPDATE
	)
	UPDATE session SET sess = session.sess - 'notices'
	FROM taken WHERE session.sid = taken.sid
	RETURNING taken.notices`

func (s *SessionStore) TakeNotices(ctx context.Context, id string) ([]string, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, takeNoticesSQL, id, s.now().UTC()).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("session take: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var notices []string
	if err := json.Unmarshal(raw, &notices); err != nil {
		return nil, fmt.Errorf("session decode: %w", err)
	}
	return notices, nil
}

// PurgeExpired removes records past their expiry and reports how many went.
func (s *SessionStore) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE expire <= $1`, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("session purge: %w", err)
	}
	return res.RowsAffected()
}
