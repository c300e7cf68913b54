package cmdutil

import (
	"fmt"
	"log/slog"

	"github.com/lepinkainen/springer-meta/internal/datastore"
)

// WriteToStore creates table in store and upserts one row per item.
func WriteToStore[T any](store datastore.Store, items []T, schema, table, description string, toMap func(T) map[string]any) error {
	if err := store.Connect(); err != nil {
		return fmt.Errorf("failed to connect to datastore: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.CreateTable(schema); err != nil {
		return fmt.Errorf("failed to create %s table: %w", table, err)
	}

	rows := make([]map[string]any, 0, len(items))
	for _, item := range items {
		rows = append(rows, toMap(item))
	}

	if err := store.BatchInsert(table, rows); err != nil {
		return fmt.Errorf("failed to insert %s: %w", description, err)
	}

	slog.Info("Wrote rows to datastore", "table", table, "count", len(rows), "what", description)
	return nil
}

// WriteToDatastore writes items to a local SQLite file. An empty dbPath is a no-op.
func WriteToDatastore[T any](dbPath string, items []T, schema, table, description string, toMap func(T) map[string]any) error {
	if dbPath == "" {
		return nil
	}
	return WriteToStore(datastore.NewSQLiteStore(dbPath), items, schema, table, description, toMap)
}
