package sqlite

// Config holds SQLite repository configuration derived from storage.Config.
type Config struct {
	// DSN is a SQLite connection string or file path, e.g.:
	//   "file:trusted.db?cache=shared"
	//   "trusted.db" (interpreted by the driver)
	DSN string

	// Table is the destination table, e.g. "trusted_sales". Dotted names
	// such as "main.trusted_sales" are quoted per segment.
	Table string

	// Columns is the ordered list of destination columns.
	Columns []string
}
