// Package journal records scoped users provisioned inside shared database
// instances. In reuse mode users outlive the test process that created them
// until that process deletes them again; a crashed run leaves them behind.
// The journal lets an operator list those leftovers.
//
// The journal is a SQLite file that may be written by several test processes
// at once. Every operation opens a short-lived connection, so no handle needs
// to be carried across the controller lifecycle.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"time"

	"github.com/giantswarm/adbenv/internal/fileutil"

	// Register the pure-Go SQLite driver (no CGO required).
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS scoped_users (
	database_name TEXT    NOT NULL,
	username      TEXT    NOT NULL,
	profile       TEXT    NOT NULL,
	created_at    INTEGER NOT NULL,
	deleted_at    INTEGER,
	PRIMARY KEY (database_name, username)
)`

// Entry is one provisioned scoped user.
type Entry struct {
	Database  string
	Username  string
	Profile   string
	CreatedAt time.Time
}

// Journal is a handle on the journal file at a path.
type Journal struct {
	path string
	now  func() time.Time
}

// New returns a Journal stored at path. No I/O happens until the first call.
func New(path string) *Journal {
	return &Journal{path: path, now: time.Now}
}

// Path returns the journal file location.
func (j *Journal) Path() string {
	return j.path
}

// open opens a single-connection session and makes sure the schema exists.
// WAL and a generous busy timeout let concurrent test processes share the file.
func (j *Journal) open(ctx context.Context) (*sql.DB, error) {
	if err := fileutil.EnsureDirForFile(j.path); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf(
		"file:%s?_pragma=busy_timeout(30000)&_pragma=journal_mode(WAL)",
		j.path,
	)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", j.path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create journal schema: %w", err)
	}
	return db, nil
}

// RecordCreated marks a user as provisioned. Recording the same user again
// revives it and resets its creation time.
func (j *Journal) RecordCreated(ctx context.Context, e Entry) error {
	db, err := j.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // short-lived session

	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = j.now()
	}

	const stmt = `
		INSERT INTO scoped_users (database_name, username, profile, created_at, deleted_at)
		VALUES (?, ?, ?, ?, NULL)
		ON CONFLICT (database_name, username) DO UPDATE SET
			profile = excluded.profile,
			created_at = excluded.created_at,
			deleted_at = NULL
	`
	if _, err := db.ExecContext(ctx, stmt, e.Database, e.Username, e.Profile, createdAt.UnixMilli()); err != nil {
		return fmt.Errorf("record created user %s: %w", e.Username, err)
	}
	return nil
}

// RecordDeleted marks a user as removed. Unknown users are ignored.
func (j *Journal) RecordDeleted(ctx context.Context, database, username string) error {
	db, err := j.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // short-lived session

	const stmt = `
		UPDATE scoped_users SET deleted_at = ?
		WHERE database_name = ? AND username = ? AND deleted_at IS NULL
	`
	if _, err := db.ExecContext(ctx, stmt, j.now().UnixMilli(), database, username); err != nil {
		return fmt.Errorf("record deleted user %s: %w", username, err)
	}
	return nil
}

// Pending lists users that were created and never deleted, oldest first.
// An empty database name lists users of every database. A journal file that
// does not exist is an error wrapping [fs.ErrNotExist]; it is never created.
func (j *Journal) Pending(ctx context.Context, database string) ([]Entry, error) {
	exists, err := fileutil.RegularFileExists(j.path)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("journal %s: %w", j.path, fs.ErrNotExist)
	}

	db, err := j.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close() //nolint:errcheck // short-lived session

	const query = `
		SELECT database_name, username, profile, created_at FROM scoped_users
		WHERE deleted_at IS NULL AND (? = '' OR database_name = ?)
		ORDER BY created_at, database_name, username
	`
	rows, err := db.QueryContext(ctx, query, database, database)
	if err != nil {
		return nil, fmt.Errorf("query pending users: %w", err)
	}
	defer rows.Close() //nolint:errcheck // rows.Err() below catches read errors

	var entries []Entry
	for rows.Next() {
		var (
			e         Entry
			createdAt int64
		)
		if err := rows.Scan(&e.Database, &e.Username, &e.Profile, &createdAt); err != nil {
			return nil, fmt.Errorf("scan pending user: %w", err)
		}
		e.CreatedAt = time.UnixMilli(createdAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending users: %w", err)
	}
	return entries, nil
}
