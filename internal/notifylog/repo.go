package notifylog

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Entry is one persisted send attempt.
type Entry struct {
	ID         string    `json:"id"`
	ScheduleID string    `json:"schedule_id"`
	Student    string    `json:"student"`
	Window     string    `json:"window"`
	Status     int       `json:"status"`
	Result     string    `json:"result"`
	Message    string    `json:"message"`
	SentAt     time.Time `json:"sent_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// Repository persists the notification send history in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// EnsureSchema creates the send-history table on a fresh database.
// Idempotent; both binaries call it at startup.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS notification_log (
		id           TEXT PRIMARY KEY,
		schedule_id  TEXT NOT NULL,
		student      TEXT NOT NULL,
		window_label TEXT NOT NULL,
		status       INTEGER NOT NULL DEFAULT 0,
		result       TEXT NOT NULL,
		message      TEXT NOT NULL DEFAULT '',
		sent_at      TIMESTAMPTZ NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_notification_log_schedule ON notification_log(schedule_id);
	CREATE INDEX IF NOT EXISTS idx_notification_log_sent_at  ON notification_log(sent_at);
	`
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

// Insert writes one send attempt.
func (r *Repository) Insert(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.SentAt.IsZero() {
		e.SentAt = time.Now().UTC()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO notification_log (id, schedule_id, student, window_label, status, result, message, sent_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at
	`, e.ID, e.ScheduleID, e.Student, e.Window, e.Status, e.Result, e.Message, e.SentAt)
	if err := row.Scan(&e.CreatedAt); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// ListRecent returns the newest entries first.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, schedule_id, student, window_label, status, result, message, sent_at, created_at
		FROM notification_log
		ORDER BY sent_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.ScheduleID, &e.Student, &e.Window, &e.Status, &e.Result, &e.Message, &e.SentAt, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
