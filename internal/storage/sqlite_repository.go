package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
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

func (r *SQLiteRepository) CreateSection(ctx context.Context, in Section) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sections (id, title, accent_color, bucket, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		in.ID, in.Title, in.AccentColor, boolInt(in.Bucket), mustTime(in.CreatedAt),
	)
	return err
}

func (r *SQLiteRepository) GetSection(ctx context.Context, id string) (Section, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, accent_color, bucket, created_at
		FROM sections WHERE id = ?`, id)
	section, err := scanSection(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Section{}, ErrNotFound
		}
		return Section{}, err
	}
	return section, nil
}

func (r *SQLiteRepository) UpdateSection(ctx context.Context, in Section) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sections
		SET title = ?, accent_color = ?, bucket = ?
		WHERE id = ?`,
		in.Title, in.AccentColor, boolInt(in.Bucket), in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteSection(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sections WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListSections(ctx context.Context) ([]Section, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, accent_color, bucket, created_at
		FROM sections ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Section, 0)
	for rows.Next() {
		section, scanErr := scanSection(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, section)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateItem(ctx context.Context, in Item) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO items (id, section_id, title, notes, due_at, start_at, completed, prev_section_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.SectionID, in.Title, in.Notes,
		mustTime(in.DueAt), nullTime(in.StartAt), boolInt(in.Completed), in.PrevSectionID, mustTime(in.CreatedAt),
	)
	return err
}

func (r *SQLiteRepository) GetItem(ctx context.Context, id string) (Item, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, section_id, title, notes, due_at, start_at, completed, prev_section_id, created_at
		FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Item{}, ErrNotFound
		}
		return Item{}, err
	}
	return item, nil
}

func (r *SQLiteRepository) UpdateItem(ctx context.Context, in Item) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE items
		SET section_id = ?, title = ?, notes = ?, due_at = ?, start_at = ?, completed = ?, prev_section_id = ?
		WHERE id = ?`,
		in.SectionID, in.Title, in.Notes, mustTime(in.DueAt), nullTime(in.StartAt),
		boolInt(in.Completed), in.PrevSectionID, in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteItem(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListItems(ctx context.Context, filter ItemListFilter) ([]Item, error) {
	query := `SELECT id, section_id, title, notes, due_at, start_at, completed, prev_section_id, created_at FROM items`
	clauses := make([]string, 0, 2)
	args := make([]any, 0, 4)
	if filter.SectionID != "" {
		clauses = append(clauses, "section_id = ?")
		args = append(args, filter.SectionID)
	}
	if filter.Completed != nil {
		clauses = append(clauses, "completed = ?")
		args = append(args, boolInt(*filter.Completed))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY created_at ASC, id ASC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Item, 0)
	for rows.Next() {
		item, scanErr := scanItem(rows)
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

func scanSection(s scanner) (Section, error) {
	var out Section
	var bucket int
	var created string
	if err := s.Scan(&out.ID, &out.Title, &out.AccentColor, &bucket, &created); err != nil {
		return Section{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Section{}, err
	}
	out.Bucket = bucket == 1
	out.CreatedAt = createdAt
	return out, nil
}

func scanItem(s scanner) (Item, error) {
	var out Item
	var due string
	var start sql.NullString
	var completed int
	var created string
	if err := s.Scan(&out.ID, &out.SectionID, &out.Title, &out.Notes, &due, &start, &completed, &out.PrevSectionID, &created); err != nil {
		return Item{}, err
	}
	dueAt, err := parseRequiredTime(due)
	if err != nil {
		return Item{}, err
	}
	startAt, err := parseNullableTime(start)
	if err != nil {
		return Item{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Item{}, err
	}
	out.DueAt = dueAt
	out.StartAt = startAt
	out.Completed = completed == 1
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
