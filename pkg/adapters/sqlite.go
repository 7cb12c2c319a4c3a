package adapters

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/petrijr/miniapp/pkg/api"
)

// sqliteMagic is the fixed 16-byte header of every SQLite 3 database file.
const sqliteMagic = "SQLite format 3\x00"

// SQLiteAdapter stores records in a single-table SQLite database file:
//
//	CREATE TABLE records (position INTEGER PRIMARY KEY, payload TEXT NOT NULL)
//
// Each payload is the JSON encoding of one record, so any JSON-encodable
// record type works. Because SQLite needs a real file, streams are spooled
// through a temporary directory that is removed before the call returns.
type SQLiteAdapter[T any] struct {
	format string
}

var _ api.FormatAdapter[struct{}] = (*SQLiteAdapter[struct{}])(nil)

// SQLite returns a SQLite adapter bound to format "db".
func SQLite[T any](opts ...Option) *SQLiteAdapter[T] {
	return &SQLiteAdapter[T]{format: buildOptions("db", opts).format}
}

func (a *SQLiteAdapter[T]) Format() string { return a.format }

func (a *SQLiteAdapter[T]) Read(r io.Reader) ([]T, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(data, []byte(sqliteMagic)) {
		return nil, &api.DecodeError{Format: a.format, Err: errors.New("not a SQLite database")}
	}

	var out []T
	err = withTempDB(data, func(db *sql.DB) error {
		rows, err := db.Query(`SELECT payload FROM records ORDER BY position`)
		if err != nil {
			return &api.DecodeError{Format: a.format, Err: err}
		}
		defer rows.Close()

		out = make([]T, 0)
		for rows.Next() {
			var payload string
			if err := rows.Scan(&payload); err != nil {
				return &api.DecodeError{Format: a.format, Err: err}
			}
			var item T
			if err := json.Unmarshal([]byte(payload), &item); err != nil {
				return &api.DecodeError{Format: a.format, Err: fmt.Errorf("record %d: %w", len(out), err)}
			}
			out = append(out, item)
		}
		if err := rows.Err(); err != nil {
			return &api.DecodeError{Format: a.format, Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (a *SQLiteAdapter[T]) Write(items []T, w io.Writer) error {
	payloads := make([]string, len(items))
	for i, item := range items {
		b, err := json.Marshal(item)
		if err != nil {
			return &api.EncodeError{Format: a.format, Err: fmt.Errorf("record %d: %w", i, err)}
		}
		payloads[i] = string(b)
	}

	dir, err := os.MkdirTemp("", "miniapp-sqlite-*")
	if err != nil {
		return &api.IOError{Op: "mkdir", Path: os.TempDir(), Err: err}
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "export.db")
	if err := populate(path, payloads); err != nil {
		return &api.EncodeError{Format: a.format, Err: err}
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return &api.IOError{Op: "read", Path: path, Err: err}
	}
	return writeAll(w, b)
}

// Validate checks for the SQLite file header.
func (a *SQLiteAdapter[T]) Validate(r io.Reader) bool {
	head := make([]byte, len(sqliteMagic))
	if _, err := io.ReadFull(r, head); err != nil {
		return false
	}
	return string(head) == sqliteMagic
}

// populate creates a fresh database at path holding payloads in order.
func populate(path string, payloads []string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec(`
		CREATE TABLE records (
			position INTEGER PRIMARY KEY,
			payload TEXT NOT NULL
		);`,
	); err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO records (position, payload) VALUES (?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	for i, p := range payloads {
		if _, err := stmt.Exec(i, p); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return err
		}
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	// Close before the caller reads the file so everything is flushed.
	return db.Close()
}

// withTempDB spools data into a temporary database file and opens it for fn.
func withTempDB(data []byte, fn func(db *sql.DB) error) error {
	dir, err := os.MkdirTemp("", "miniapp-sqlite-*")
	if err != nil {
		return &api.IOError{Op: "mkdir", Path: os.TempDir(), Err: err}
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "import.db")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return &api.IOError{Op: "write", Path: path, Err: err}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return &api.IOError{Op: "open", Path: path, Err: err}
	}
	defer db.Close()

	return fn(db)
}
