package progress

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/coai/internal/db"
	"github.com/alexanderramin/coai/internal/domain"
)

// SQLiteStore implements Store using a SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore creates a progress store over an opened database.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

func (s *SQLiteStore) MarkStarted(ctx context.Context, key domain.SessionKey, meta *domain.SessionMeta) error {
	now := s.now().UTC().Format(time.RFC3339)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if err := upsertStarted(ctx, tx, key, now); err != nil {
		return err
	}
	if meta != nil && meta.SessionTitle != "" {
		if err := upsertRecent(ctx, tx, key, meta, now); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func upsertStarted(ctx context.Context, conn db.DBTX, key domain.SessionKey, now string) error {
	query := `INSERT INTO session_progress (topic_id, session_id, started, started_at)
		VALUES (?, ?, 1, ?)
		ON CONFLICT (topic_id, session_id) DO UPDATE SET
			started = 1,
			started_at = COALESCE(session_progress.started_at, excluded.started_at)`
	if _, err := conn.ExecContext(ctx, query, key.TopicID, key.SessionID, now); err != nil {
		return fmt.Errorf("upserting progress for %s: %w", key, err)
	}
	return nil
}

// upsertRecent records the session in the recent list, keeping the
// first start timestamp and trimming the list to its cap.
func upsertRecent(ctx context.Context, conn db.DBTX, key domain.SessionKey, meta *domain.SessionMeta, now string) error {
	var startedAt string
	row := conn.QueryRowContext(ctx,
		`SELECT started_at FROM session_progress WHERE topic_id = ? AND session_id = ?`,
		key.TopicID, key.SessionID)
	if err := row.Scan(&startedAt); err != nil {
		return fmt.Errorf("reading started_at for %s: %w", key, err)
	}

	query := `INSERT INTO recent_sessions (id, topic_id, session_id, session_title, topic_title, started_at, recent_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (topic_id, session_id) DO UPDATE SET
			session_title = excluded.session_title,
			topic_title = excluded.topic_title,
			recent_at = excluded.recent_at`
	if _, err := conn.ExecContext(ctx, query,
		uuid.NewString(), key.TopicID, key.SessionID,
		meta.SessionTitle, meta.TopicTitle, startedAt, now); err != nil {
		return fmt.Errorf("upserting recent session %s: %w", key, err)
	}

	query = `DELETE FROM recent_sessions WHERE id NOT IN (
		SELECT id FROM recent_sessions ORDER BY recent_at DESC, id LIMIT ?)`
	if _, err := conn.ExecContext(ctx, query, domain.RecentSessionsLimit); err != nil {
		return fmt.Errorf("trimming recent sessions: %w", err)
	}
	return nil
}

func (s *SQLiteStore) MarkCompleted(ctx context.Context, key domain.SessionKey) error {
	now := s.now().UTC().Format(time.RFC3339)

	query := `INSERT INTO session_progress (topic_id, session_id, started, completed, started_at, completed_at)
		VALUES (?, ?, 1, 1, ?, ?)
		ON CONFLICT (topic_id, session_id) DO UPDATE SET
			started = 1,
			completed = 1,
			started_at = COALESCE(session_progress.started_at, excluded.started_at),
			completed_at = excluded.completed_at`
	if _, err := s.db.ExecContext(ctx, query, key.TopicID, key.SessionID, now, now); err != nil {
		return fmt.Errorf("marking %s completed: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, key domain.SessionKey) (domain.SessionProgress, error) {
	query := `SELECT started, completed, started_at, completed_at
		FROM session_progress WHERE topic_id = ? AND session_id = ?`
	row := s.db.QueryRowContext(ctx, query, key.TopicID, key.SessionID)

	var p domain.SessionProgress
	var startedAt, completedAt sql.NullString
	err := row.Scan(&p.Started, &p.Completed, &startedAt, &completedAt)
	if err == sql.ErrNoRows {
		return domain.SessionProgress{}, nil
	}
	if err != nil {
		return domain.SessionProgress{}, fmt.Errorf("scanning progress for %s: %w", key, err)
	}

	if p.StartedAt, err = parseTimePtr(startedAt); err != nil {
		return domain.SessionProgress{}, fmt.Errorf("parsing started_at for %s: %w", key, err)
	}
	if p.CompletedAt, err = parseTimePtr(completedAt); err != nil {
		return domain.SessionProgress{}, fmt.Errorf("parsing completed_at for %s: %w", key, err)
	}
	return p, nil
}

func (s *SQLiteStore) Recent(ctx context.Context) ([]domain.RecentSession, error) {
	query := `SELECT topic_id, session_id, session_title, topic_title, started_at
		FROM recent_sessions ORDER BY recent_at DESC, id LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, domain.RecentSessionsLimit)
	if err != nil {
		return nil, fmt.Errorf("querying recent sessions: %w", err)
	}
	defer rows.Close()

	var out []domain.RecentSession
	for rows.Next() {
		var r domain.RecentSession
		var startedAt string
		if err := rows.Scan(&r.TopicID, &r.SessionID, &r.SessionTitle, &r.TopicTitle, &startedAt); err != nil {
			return nil, fmt.Errorf("scanning recent session: %w", err)
		}
		if r.StartedAt, err = time.Parse(time.RFC3339, startedAt); err != nil {
			return nil, fmt.Errorf("parsing recent started_at: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func parseTimePtr(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
