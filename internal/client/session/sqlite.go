package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/client/migrations"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// SQLiteProvider stores the session in a single-row table of a local SQLite
// database.
type SQLiteProvider struct {
	db *sql.DB
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded client schema.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return gooseUpContext(ctx, db, ".")
}

// OpenSQLiteProvider opens (or creates) the database at dsn and migrates it.
func OpenSQLiteProvider(ctx context.Context, dsn string) (*SQLiteProvider, error) {
	if path := dbFilePath(dsn); path != "" {
		if _, err := filex.EnsureParentDir(path); err != nil {
			return nil, fmt.Errorf("prepare session directory: %w", err)
		}
		// the file holds a bearer token
		if err := filex.EnsurePrivateFile(path); err != nil {
			return nil, fmt.Errorf("prepare session file: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open session database: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate session database: %w", err)
	}

	return &SQLiteProvider{db: db}, nil
}

func (p *SQLiteProvider) Load(ctx context.Context) (*Session, error) {
	var s Session
	err := p.db.QueryRowContext(ctx,
		`SELECT user_id, user_name, user_email, token FROM session WHERE id = 1`).
		Scan(&s.User.ID, &s.User.Name, &s.User.Email, &s.Token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return &s, nil
}

func (p *SQLiteProvider) Save(ctx context.Context, s *Session) error {
	return dbx.WithTx(ctx, p.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO session (id, user_id, user_name, user_email, token, saved_at)
			VALUES (1, ?, ?, ?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(id) DO UPDATE SET
				user_id = excluded.user_id,
				user_name = excluded.user_name,
				user_email = excluded.user_email,
				token = excluded.token,
				saved_at = excluded.saved_at
		`, s.User.ID, s.User.Name, s.User.Email, s.Token)
		if err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		return nil
	})
}

func (p *SQLiteProvider) Clear(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, `DELETE FROM session`); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (p *SQLiteProvider) Close() error {
	return p.db.Close()
}

// dbFilePath extracts the file path from a SQLite DSN such as
// "session.db" or "file:/var/lib/tk/session.db?_pragma=busy_timeout(5000)".
// In-memory databases yield "".
func dbFilePath(dsn string) string {
	if strings.Contains(dsn, "mode=memory") {
		return ""
	}
	p := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	if p == ":memory:" {
		return ""
	}
	return p
}
