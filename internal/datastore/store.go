package datastore

// Store is a destination for batch lookup rows.
type Store interface {
	// Connect establishes a connection to the data store
	Connect() error

	// CreateTable creates a new table with the given schema if it doesn't exist
	CreateTable(schema string) error

	// BatchInsert writes rows into table, replacing rows with the same primary key
	BatchInsert(table string, records []map[string]any) error

	// Close closes the connection to the data store
	Close() error
}
