package sqliteseed

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/vk/seedforge/internal/ctxlog"
	"github.com/vk/seedforge/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the sqlite_table sink.
type Input struct {
	Records     any    `seed:"records"`
	Table       string `seed:"table"`
	CreateTable bool   `seed:"create_table"`
}

// Deps declares the resources injected into the sink handler.
type Deps struct {
	DB *sql.DB `seed:"db"`
}

// DeliverSqliteTable is the handler for the 'sqlite_table' sink's deliver
// event. It inserts every record as one row, within a single transaction.
func DeliverSqliteTable(ctx context.Context, deps *Deps, input *Input) error {
	logger := ctxlog.FromContext(ctx).With("sink", "sqlite_table", "table", input.Table)
	logger.Debug("Handler started")
	defer logger.Debug("Handler finished")

	rows := asRows(input.Records)
	if len(rows) == 0 {
		logger.Warn("No records to insert.")
		return nil
	}

	cols, err := columns(rows)
	if err != nil {
		return err
	}

	if input.CreateTable {
		ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quoteIdent(input.Table), quotedList(cols))
		if _, err := deps.DB.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("creating table %s: %w", input.Table, err)
		}
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(cols)), ",")
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quoteIdent(input.Table), quotedList(cols), placeholders)

	tx, err := deps.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	prepared, err := tx.PrepareContext(ctx, stmt)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer prepared.Close()

	for i, row := range rows {
		record, ok := row.(map[string]any)
		if !ok {
			return fmt.Errorf("record %d is not an object, got %T", i, row)
		}
		vals, err := rowValues(record, cols)
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		if _, err := prepared.ExecContext(ctx, vals...); err != nil {
			return fmt.Errorf("inserting record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	logger.Info("🗃️ Records inserted.", "count", len(rows))
	return nil
}

// asRows normalizes the records value to a slice. A dataset without a count
// produces a single record, which becomes a one-row slice.
func asRows(records any) []any {
	switch v := records.(type) {
	case nil:
		return nil
	case []any:
		return v
	default:
		return []any{v}
	}
}

// columns returns the sorted union of keys across all records, so rows with
// missing fields still line up.
func columns(rows []any) ([]string, error) {
	set := make(map[string]struct{})
	for i, row := range rows {
		record, ok := row.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("record %d is not an object, got %T", i, row)
		}
		for k := range record {
			set[k] = struct{}{}
		}
	}

	cols := make([]string, 0, len(set))
	for k := range set {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols, nil
}

// rowValues maps a record onto the column order. A missing key becomes NULL;
// non-scalar cells are stored as JSON text.
func rowValues(record map[string]any, cols []string) ([]any, error) {
	vals := make([]any, len(cols))
	for i, col := range cols {
		v, ok := record[col]
		if !ok {
			continue
		}
		cell, err := cellValue(v)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col, err)
		}
		vals[i] = cell
	}
	return vals, nil
}

func cellValue(v any) (any, error) {
	switch v.(type) {
	case nil, string, int64, float64, bool:
		return v, nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encoding non-scalar cell: %w", err)
		}
		return string(b), nil
	}
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func quotedList(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quoteIdent(c)
	}
	return strings.Join(quoted, ", ")
}

// Register registers the asset handlers, asset interface and sink handler
// with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterAssetHandler("CreateSqlite", &registry.RegisteredAsset{
		NewInput: func() any { return new(AssetInput) },
		CreateFn: CreateSqlite,
	})
	r.RegisterAssetHandler("DestroySqlite", &registry.RegisteredAsset{
		DestroyFn: DestroySqlite,
	})
	r.RegisterAssetInterface("sqlite", reflect.TypeOf((*sql.DB)(nil)))

	r.RegisterSink("DeliverSqliteTable", &registry.RegisteredSink{
		NewInput: func() any { return new(Input) },
		NewDeps:  func() any { return new(Deps) },
		Fn:       DeliverSqliteTable,
	})
}
