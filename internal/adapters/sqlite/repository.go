package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/taxdesk/schedule-generator/internal/domain"
)

type Repository struct {
	db *sql.DB
}

// New opens the SQLite database and creates the drafts table if missing.
// The schema is small enough that migrations would be overkill here.
func New(dsn string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dsn+"?_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS drafts (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			schedule   TEXT NOT NULL,
			title      TEXT NOT NULL,
			payload    BLOB NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create drafts table: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error { return r.db.Close() }

// ── Drafts ────────────────────────────────────────────────────────────────────

// SaveDraft inserts a new draft when d.ID is zero, otherwise overwrites the
// stored payload and title of the existing row.
func (r *Repository) SaveDraft(ctx context.Context, d *domain.Draft) error {
	now := time.Now()
	d.UpdatedAt = now
	if d.ID == 0 {
		d.CreatedAt = now
		res, err := r.db.ExecContext(ctx, `
			INSERT INTO drafts (schedule, title, payload, created_at, updated_at)
			VALUES (?,?,?,?,?)`,
			string(d.Schedule), d.Title, d.Payload, d.CreatedAt, d.UpdatedAt,
		)
		if err != nil {
			return err
		}
		id, _ := res.LastInsertId()
		d.ID = id
		return nil
	}
	_, err := r.db.ExecContext(ctx, `
		UPDATE drafts SET title=?, payload=?, updated_at=? WHERE id=?`,
		d.Title, d.Payload, d.UpdatedAt, d.ID,
	)
	return err
}

func (r *Repository) GetDraft(ctx context.Context, id int64) (*domain.Draft, error) {
	d := &domain.Draft{}
	var schedule string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, schedule, title, payload, created_at, updated_at
		FROM drafts WHERE id=?`, id).Scan(
		&d.ID, &schedule, &d.Title, &d.Payload, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	d.Schedule = domain.ScheduleType(schedule)
	return d, nil
}

// ListDrafts returns drafts for one schedule, newest first. Payloads are
// omitted; load an individual draft to get its contents.
func (r *Repository) ListDrafts(ctx context.Context, schedule domain.ScheduleType) ([]domain.Draft, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, schedule, title, created_at, updated_at
		FROM drafts WHERE schedule=? ORDER BY updated_at DESC`, string(schedule))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []domain.Draft
	for rows.Next() {
		var d domain.Draft
		var sched string
		if err := rows.Scan(&d.ID, &sched, &d.Title, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		d.Schedule = domain.ScheduleType(sched)
		list = append(list, d)
	}
	return list, rows.Err()
}

func (r *Repository) DeleteDraft(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM drafts WHERE id=?`, id)
	return err
}
