package sqliteseed

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// AssetInput defines the arguments for creating a sqlite resource.
type AssetInput struct {
	Path string `seed:"path"`
}

// CreateSqlite is the 'create' handler for the asset. It returns a live
// *sql.DB handle that will be shared across outputs.
func CreateSqlite(ctx context.Context, input *AssetInput) (*sql.DB, error) {
	db, err := sql.Open("sqlite", input.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", input.Path, err)
	}

	// SQLite allows a single writer; one pooled connection avoids busy
	// errors and keeps ':memory:' databases on one connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database %s: %w", input.Path, err)
	}
	return db, nil
}

// DestroySqlite is the 'destroy' handler for the asset.
func DestroySqlite(db *sql.DB) error {
	return db.Close()
}
