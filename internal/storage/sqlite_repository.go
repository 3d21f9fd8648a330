package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteTimeLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) DB() *sql.DB {
	return r.db
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) CreateTask(ctx context.Context, in Task) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, title, category, status, start_time, end_time, due_date, scheduled_at, notes, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.Title, in.Category, in.Status, in.StartTime, in.EndTime, in.DueDate,
		nullTime(in.ScheduledAt), in.Notes, mustTime(in.CreatedAt), nullTime(in.CompletedAt),
	)
	return err
}

func (r *SQLiteRepository) GetTask(ctx context.Context, id string) (Task, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, category, status, start_time, end_time, due_date, scheduled_at, notes, created_at, completed_at
		FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, err
	}
	return task, nil
}

func (r *SQLiteRepository) UpdateTask(ctx context.Context, in Task) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET title = ?, category = ?, status = ?, start_time = ?, end_time = ?, due_date = ?, scheduled_at = ?, notes = ?, completed_at = ?
		WHERE id = ?`,
		in.Title, in.Category, in.Status, in.StartTime, in.EndTime, in.DueDate,
		nullTime(in.ScheduledAt), in.Notes, nullTime(in.CompletedAt), in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteTask(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListTasks(ctx context.Context, filter TaskListFilter) ([]Task, error) {
	query := `SELECT id, title, category, status, start_time, end_time, due_date, scheduled_at, notes, created_at, completed_at FROM tasks`
	where := ""
	args := make([]any, 0, 4)
	if filter.Status != "" {
		where = ` WHERE status = ?`
		args = append(args, filter.Status)
	}
	if filter.Date != "" {
		if where == "" {
			where = ` WHERE`
		} else {
			where += ` AND`
		}
		where += ` (due_date = ? OR substr(scheduled_at, 1, 10) = ?)`
		args = append(args, filter.Date, filter.Date)
	}
	query += where
	query += ` ORDER BY start_time, created_at`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Task, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateEvent(ctx context.Context, in Event) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO events (id, title, start_at, end_at, all_day, recurrence_type, recurrence_n, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.Title, mustTime(in.StartAt), nullTime(in.EndAt), boolInt(in.AllDay),
		in.RecurrenceType, in.RecurrenceN, mustTime(in.CreatedAt),
	)
	return err
}

func (r *SQLiteRepository) GetEvent(ctx context.Context, id string) (Event, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, start_at, end_at, all_day, recurrence_type, recurrence_n, created_at
		FROM events WHERE id = ?`, id)
	item, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Event{}, ErrNotFound
		}
		return Event{}, err
	}
	return item, nil
}

func (r *SQLiteRepository) UpdateEvent(ctx context.Context, in Event) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE events
		SET title = ?, start_at = ?, end_at = ?, all_day = ?, recurrence_type = ?, recurrence_n = ?
		WHERE id = ?`,
		in.Title, mustTime(in.StartAt), nullTime(in.EndAt), boolInt(in.AllDay),
		in.RecurrenceType, in.RecurrenceN, in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteEvent(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListEvents(ctx context.Context, filter EventListFilter) ([]Event, error) {
	// Recurring events are listed regardless of the window; expansion
	// decides which occurrences land inside it.
	query := `SELECT id, title, start_at, end_at, all_day, recurrence_type, recurrence_n, created_at FROM events`
	where := ""
	args := make([]any, 0, 4)
	if filter.From != nil {
		where = ` WHERE (recurrence_type != '' OR start_at >= ?)`
		args = append(args, mustTime(*filter.From))
	}
	if filter.Until != nil {
		if where == "" {
			where = ` WHERE`
		} else {
			where += ` AND`
		}
		where += ` (recurrence_type != '' OR start_at < ?)`
		args = append(args, mustTime(*filter.Until))
	}
	query += where
	query += ` ORDER BY start_at`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Event, 0)
	for rows.Next() {
		item, scanErr := scanEvent(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateTemplate(ctx context.Context, in Template) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO templates (id, title, category, duration, position, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		in.ID, in.Title, in.Category, in.Duration, in.Position, mustTime(in.CreatedAt),
	)
	return err
}

func (r *SQLiteRepository) GetTemplate(ctx context.Context, id string) (Template, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, category, duration, position, created_at
		FROM templates WHERE id = ?`, id)
	item, err := scanTemplate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Template{}, ErrNotFound
		}
		return Template{}, err
	}
	return item, nil
}

func (r *SQLiteRepository) UpdateTemplate(ctx context.Context, in Template) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE templates
		SET title = ?, category = ?, duration = ?, position = ?
		WHERE id = ?`,
		in.Title, in.Category, in.Duration, in.Position, in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteTemplate(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM templates WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListTemplates(ctx context.Context, filter TemplateListFilter) ([]Template, error) {
	query := `SELECT id, title, category, duration, position, created_at FROM templates ORDER BY position, created_at`
	args := make([]any, 0, 2)
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Template, 0)
	for rows.Next() {
		item, scanErr := scanTemplate(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func nullTime(v *time.Time) any {
	if v == nil {
		return nil
	}
	return v.UTC().Format(sqliteTimeLayout)
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseNullableTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	tm, err := time.Parse(sqliteTimeLayout, v.String)
	if err != nil {
		return nil, err
	}
	return &tm, nil
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
	}
	if offset > 0 {
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (Task, error) {
	var out Task
	var scheduled sql.NullString
	var created string
	var completed sql.NullString
	if err := s.Scan(&out.ID, &out.Title, &out.Category, &out.Status, &out.StartTime, &out.EndTime, &out.DueDate, &scheduled, &out.Notes, &created, &completed); err != nil {
		return Task{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Task{}, err
	}
	scheduledAt, err := parseNullableTime(scheduled)
	if err != nil {
		return Task{}, err
	}
	completedAt, err := parseNullableTime(completed)
	if err != nil {
		return Task{}, err
	}
	out.CreatedAt = createdAt
	out.ScheduledAt = scheduledAt
	out.CompletedAt = completedAt
	return out, nil
}

func scanEvent(s scanner) (Event, error) {
	var out Event
	var start string
	var end sql.NullString
	var allDay int
	var created string
	if err := s.Scan(&out.ID, &out.Title, &start, &end, &allDay, &out.RecurrenceType, &out.RecurrenceN, &created); err != nil {
		return Event{}, err
	}
	startAt, err := parseRequiredTime(start)
	if err != nil {
		return Event{}, err
	}
	endAt, err := parseNullableTime(end)
	if err != nil {
		return Event{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Event{}, err
	}
	out.StartAt = startAt
	out.EndAt = endAt
	out.AllDay = allDay == 1
	out.CreatedAt = createdAt
	return out, nil
}

func scanTemplate(s scanner) (Template, error) {
	var out Template
	var created string
	if err := s.Scan(&out.ID, &out.Title, &out.Category, &out.Duration, &out.Position, &created); err != nil {
		return Template{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Template{}, err
	}
	out.CreatedAt = createdAt
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
