package ddl

import "testing"

// TestMapType verifies that MapType normalizes contract types into the
// expected Postgres SQL types and defaults to TEXT.
func TestMapType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		kind string
		want string
	}{
		{name: "int", kind: "int", want: "BIGINT"},
		{name: "int mixed case", kind: " InTeGeR ", want: "BIGINT"},
		{name: "float", kind: "float", want: "DOUBLE PRECISION"},
		{name: "number", kind: "number", want: "DOUBLE PRECISION"},
		{name: "bool", kind: "BOOLEAN", want: "BOOLEAN"},
		{name: "date", kind: "date", want: "TIMESTAMP"},
		{name: "string", kind: "string", want: "TEXT"},
		{name: "empty", kind: "", want: "TEXT"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := MapType(tt.kind); got != tt.want {
				t.Fatalf("MapType(%q) = %q, want %q", tt.kind, got, tt.want)
			}
		})
	}
}
