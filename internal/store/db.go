package store

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"todo-list/internal/config"
)

// DSN builds a modernc sqlite DSN for the file at path. Every pooled
// connection gets the busy timeout so concurrent writers queue on the file
// lock rather than failing with SQLITE_BUSY.
func DSN(cfg config.DatabaseConfig) string {
	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", cfg.BusyTimeout.Milliseconds()))
	q.Add("_pragma", "journal_mode(WAL)")
	return "file:" + uriPathEscaper.Replace(cfg.Path) + "?" + q.Encode()
}

// SQLite decodes %HH in a file: URI path, so only the characters that would
// end the path early, and the escape character itself, are encoded.
var uriPathEscaper = strings.NewReplacer("%", "%25", "?", "%3F", "#", "%23")

// Open returns the connection pool for the file-backed store. The file is
// created if it does not exist.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Path, err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Path, err)
	}
	return db, nil
}
