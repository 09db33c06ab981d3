package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"courseeditor/internal/models"
	"courseeditor/internal/qerrors"

	_ "modernc.org/sqlite"
)

type sqliteRepository struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteRepository opens (or creates) the database file at dbPath.
func NewSQLiteRepository(dbPath string) (Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	r := &sqliteRepository{db: db, dbPath: dbPath}
	if err := r.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return r, nil
}

func (r *sqliteRepository) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS courses (
		course_id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		body TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS selected_courses (
		session_id TEXT PRIMARY KEY,
		body TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`
	_, err := r.db.Exec(schema)
	return err
}

func (r *sqliteRepository) SaveCourses(ctx context.Context, courses []*models.Course) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM courses`); err != nil {
		return fmt.Errorf("clearing courses: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO courses (course_id, position, body) VALUES (?, ?, ?)
		ON CONFLICT(course_id) DO UPDATE SET body = excluded.body`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, c := range courses {
		body, err := json.Marshal(c)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, c.CourseID, i, string(body)); err != nil {
			return fmt.Errorf("saving course %s: %w", c.CourseID, err)
		}
	}

	return tx.Commit()
}

func (r *sqliteRepository) ListCourses(ctx context.Context) ([]*models.Course, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT body FROM courses ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := make([]*models.Course, 0)
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}

		var c models.Course
		if err := json.Unmarshal([]byte(body), &c); err != nil {
			return nil, err
		}
		courses = append(courses, &c)
	}

	return courses, rows.Err()
}

func (r *sqliteRepository) GetCourse(ctx context.Context, courseID string) (*models.Course, error) {
	var body string
	err := r.db.QueryRowContext(ctx, `SELECT body FROM courses WHERE course_id = ?`, courseID).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, qerrors.CourseNotFoundError
	}
	if err != nil {
		return nil, err
	}

	var c models.Course
	if err := json.Unmarshal([]byte(body), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *sqliteRepository) SaveSelected(ctx context.Context, sessionID string, course *models.Course) error {
	body, err := json.Marshal(course)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO selected_courses (session_id, body, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		sessionID, string(body), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("saving selected course: %w", err)
	}
	return nil
}

func (r *sqliteRepository) GetSelected(ctx context.Context, sessionID string) (*models.Course, error) {
	var body string
	err := r.db.QueryRowContext(ctx, `SELECT body FROM selected_courses WHERE session_id = ?`, sessionID).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, qerrors.NoSelectionError
	}
	if err != nil {
		return nil, err
	}

	var c models.Course
	if err := json.Unmarshal([]byte(body), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *sqliteRepository) Close() error {
	return r.db.Close()
}
