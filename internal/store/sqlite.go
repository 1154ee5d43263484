package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/amishk599/autoapply/internal/model"
)

// dateLayout is the text form of date_applied. Microsecond precision keeps
// rows written in the same second ordered.
const dateLayout = "2006-01-02 15:04:05.000000"

// SQLiteStore records submitted applications in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures the
// job_application table exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS job_application (
		title        TEXT NOT NULL,
		company      TEXT NOT NULL,
		salary       TEXT,
		date_applied TEXT NOT NULL,
		link         TEXT NOT NULL,
		method       TEXT NOT NULL
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating job_application table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Append stores one application record.
func (s *SQLiteStore) Append(ctx context.Context, r model.ApplicationRecord) error {
	var salary sql.NullString
	if r.Salary != nil {
		salary = sql.NullString{String: *r.Salary, Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO job_application (title, company, salary, date_applied, link, method) VALUES (?, ?, ?, ?, ?, ?)",
		r.JobTitle, r.CompanyTitle, salary, r.AppliedAt.Format(dateLayout), r.WebLink, string(r.Method),
	)
	if err != nil {
		return fmt.Errorf("recording application to %s: %w", r.CompanyTitle, err)
	}
	return nil
}

// List returns stored applications, most recent first. A limit of zero or
// less returns every row.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]model.ApplicationRecord, error) {
	query := "SELECT title, company, salary, date_applied, link, method FROM job_application ORDER BY date_applied DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing applications: %w", err)
	}
	defer rows.Close()

	var records []model.ApplicationRecord
	for rows.Next() {
		var (
			r       model.ApplicationRecord
			salary  sql.NullString
			applied string
			method  string
		)
		if err := rows.Scan(&r.JobTitle, &r.CompanyTitle, &salary, &applied, &r.WebLink, &method); err != nil {
			return nil, fmt.Errorf("scanning application row: %w", err)
		}
		if salary.Valid {
			v := salary.String
			r.Salary = &v
		}
		r.AppliedAt, err = time.ParseInLocation("2006-01-02 15:04:05.999999999", applied, time.Local)
		if err != nil {
			return nil, fmt.Errorf("parsing date_applied %q: %w", applied, err)
		}
		r.Method = model.Method(method)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating application rows: %w", err)
	}
	return records, nil
}

// Count returns the number of stored applications.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM job_application").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting applications: %w", err)
	}
	return count, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
