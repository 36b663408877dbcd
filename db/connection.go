package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// ErrNoExport is returned when reading a database that was never exported
var ErrNoExport = errors.New("export database does not exist")

// openWriter opens the export database for a single writer. The file is
// created if missing.
func openWriter(ctx context.Context, path string) (*sql.DB, error) {
	return open(ctx, path, "_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)")
}

// openReader opens an existing export read only. It never creates the file.
func openReader(ctx context.Context, path string) (*sql.DB, error) {
	if _, err := os.Stat(path); errors.Is(err, iofs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNoExport, path)
	}
	return open(ctx, path, "_pragma=query_only(1)")
}

func open(ctx context.Context, path, pragmas string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("%s?_pragma=busy_timeout(5000)&%s", path, pragmas))
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer at a time
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to %s: %w", path, err)
	}

	log.WithFields(log.Fields{
		"database": path,
		"pragmas":  pragmas,
	}).Debug("Opened export database")

	return db, nil
}
