package ports

import (
	"context"
	"time"
)

// SessionStore persists the flash notices of a visitor session. Both
// operations are atomic per session id so concurrent requests from one
// visitor neither lose nor duplicate a notice.
type SessionStore interface {
	// AppendNotice adds notice to the session, creating or reviving it, and
	// moves its expiry to expiresAt.
	AppendNotice(ctx context.Context, id, notice string, expiresAt time.Time) error
	// TakeNotices returns the queued notices and clears them. Unknown or
	// expired sessions yield no notices and no error.
	TakeNotices(ctx context.Context, id string) ([]string, error)
}
