package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// sqlitePragmas ride along on every DSN. Foreign keys back the
// class/user/request relations, and the busy timeout keeps concurrent
// request submissions from failing fast with SQLITE_BUSY.
const sqlitePragmas = "_foreign_keys=1&_busy_timeout=5000"

func openSQLite(cfg Config) (*gorm.DB, error) {
	dsn := cfg.DSN

	if dsn == "" {
		path := strings.TrimSpace(cfg.Path)
		switch {
		case path == "", strings.EqualFold(path, ":memory:"):
			dsn = "file::memory:?cache=shared&" + sqlitePragmas
		default:
			if err := ensureDir(path); err != nil {
				return nil, err
			}
			dsn = fmt.Sprintf("file:%s?%s&_journal_mode=WAL", filepath.ToSlash(path), sqlitePragmas)
		}
	}

	return gorm.Open(sqlite.Open(dsn), gormConfig())
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
