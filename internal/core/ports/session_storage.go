package ports

import "context"

// Keys of the two persisted session entries.
const (
	SessionKeyUser   = "user"
	SessionKeySecret = "rawPassword"
)

// SessionStorage persists session-scoped string entries across restarts.
// Get reports ok=false for a missing key.
type SessionStorage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	// Clear wipes every entry.
	Clear(ctx context.Context) error
}
