// Package progress persists per-session progress and the bounded
// recent-sessions list across runs.
package progress

import (
	"context"

	"github.com/alexanderramin/coai/internal/domain"
)

// Store tracks which coaching sessions have been started and completed.
type Store interface {
	// MarkStarted records a session start. The first start timestamp
	// wins; later starts only refresh the recent-sessions ordering.
	// meta may be nil, in which case the session does not enter the
	// recent list (there is nothing to display for it).
	MarkStarted(ctx context.Context, key domain.SessionKey, meta *domain.SessionMeta) error

	// MarkCompleted records a session completion, implying started.
	MarkCompleted(ctx context.Context, key domain.SessionKey) error

	// Get returns the progress for one session; zero-value progress
	// when the session has never been touched.
	Get(ctx context.Context, key domain.SessionKey) (domain.SessionProgress, error)

	// Recent returns up to RecentSessionsLimit sessions, most recently
	// started first, de-duplicated by topic+session.
	Recent(ctx context.Context) ([]domain.RecentSession, error)
}
