// Package buildcache stores rendered units keyed by the digest of the
// tree document they were generated from.
package buildcache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS units (
	digest     TEXT NOT NULL,
	class      TEXT NOT NULL,
	body       TEXT NOT NULL,
	build_id   TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	PRIMARY KEY (digest, class)
)`

// Cache is an open build cache database.
type Cache struct {
	db   *sql.DB
	path string
}

// Open opens the cache at path, creating the database and its parent
// directory when missing.
func Open(ctx context.Context, path string) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "create cache dir")
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open cache %s", path)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "init cache %s", path)
	}

	return &Cache{db: db, path: path}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

// Digest returns the hex SHA-256 of a tree document followed by the
// settings the generated units depend on. Each setting is NUL-separated.
func Digest(source []byte, settings ...string) string {
	h := sha256.New()
	h.Write(source)
	for _, s := range settings {
		h.Write([]byte{0})
		h.Write([]byte(s))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Put replaces the units stored under digest and returns the build id
// recorded with them.
func (c *Cache) Put(ctx context.Context, digest string, units map[string]string) (buildID string, err error) {
	buildID = uuid.NewString()

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return "", errors.Wrap(err, "begin")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM units WHERE digest = ?`, digest); err != nil {
		return "", errors.Wrap(err, "drop stale units")
	}

	now := time.Now().Unix()
	for class, body := range units {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO units (digest, class, body, build_id, created_at) VALUES (?, ?, ?, ?, ?)`,
			digest, class, body, buildID, now)
		if err != nil {
			return "", errors.Wrap(err, "store %s", class)
		}
	}

	if err = tx.Commit(); err != nil {
		return "", errors.Wrap(err, "commit")
	}

	tlog.V("cache").Printw("stored", "digest", digest, "units", len(units), "build", buildID)

	return buildID, nil
}

// Get returns the units stored under digest. The bool is false on a miss.
func (c *Cache) Get(ctx context.Context, digest string) (map[string]string, bool, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT class, body FROM units WHERE digest = ?`, digest)
	if err != nil {
		return nil, false, errors.Wrap(err, "query %s", digest)
	}
	defer rows.Close()

	units := make(map[string]string)
	for rows.Next() {
		var class, body string
		if err := rows.Scan(&class, &body); err != nil {
			return nil, false, errors.Wrap(err, "scan")
		}
		units[class] = body
	}
	if err := rows.Err(); err != nil {
		return nil, false, errors.Wrap(err, "rows")
	}

	if len(units) == 0 {
		return nil, false, nil
	}
	return units, true, nil
}

// BuildID returns the build that produced the units under digest.
func (c *Cache) BuildID(ctx context.Context, digest string) (string, error) {
	var id string
	err := c.db.QueryRowContext(ctx, `SELECT build_id FROM units WHERE digest = ? LIMIT 1`, digest).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "build id %s", digest)
	}
	return id, nil
}
