package domain

import "time"

// SessionProgress tracks whether one coaching session has been started
// and completed. StartedAt is first-write-wins: repeated starts keep the
// original timestamp.
type SessionProgress struct {
	Started     bool
	Completed   bool
	StartedAt   *time.Time
	CompletedAt *time.Time
}

// SessionMeta carries display titles recorded alongside progress so the
// recent-sessions list can render without a catalog lookup.
type SessionMeta struct {
	SessionTitle string
	TopicTitle   string
}

// RecentSession is one entry in the bounded recent-sessions list,
// most-recent-first and de-duplicated by topic+session.
type RecentSession struct {
	TopicID      string
	SessionID    string
	SessionTitle string
	TopicTitle   string
	StartedAt    time.Time
}

// RecentSessionsLimit bounds the recent-sessions list.
const RecentSessionsLimit = 5
