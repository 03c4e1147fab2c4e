package ddl

// ColumnDef describes one column of a mirror table.
//
// Fields:
//   - Name: column name, unquoted; Build quotes it through the Dialect
//   - SQLType: backend type from a MapType, e.g. TEXT, REAL, DOUBLE PRECISION
//   - Nullable: whether NULL is allowed
//   - PrimaryKey: whether the column is part of the primary key
//   - Default: raw default expression, e.g. CURRENT_TIMESTAMP
type ColumnDef struct {
	Name       string
	SQLType    string
	Nullable   bool
	PrimaryKey bool
	Default    string
}

// TableDef holds the table name (FQN) and its ordered columns. The FQN may be
// dotted ("public.trusted_sales"); each segment is quoted separately.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}
