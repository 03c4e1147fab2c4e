package ddl

import (
	"context"
	"strings"
	"testing"

	"datatrust/internal/schema"
	"datatrust/internal/storage"
)

// TestFromSpecMissingTable verifies FromSpec fails without a table name.
func TestFromSpecMissingTable(t *testing.T) {
	t.Parallel()

	_, err := FromSpec(storage.TableSpec{Columns: []string{"a"}})
	if err == nil || !strings.Contains(err.Error(), "sqlite ddl: missing table") {
		t.Fatalf("FromSpec() error = %v, want sqlite ddl: missing table", err)
	}
}

// TestFromSpecContractTypes verifies column order follows Columns and types
// come from the contract, with TEXT for undeclared columns.
func TestFromSpecContractTypes(t *testing.T) {
	t.Parallel()

	spec := storage.TableSpec{
		Kind:    "sqlite",
		Table:   "trusted_inventory",
		Columns: []string{"product_id", "stock", "warehouse"},
		Contract: schema.Contract{Fields: []schema.Field{
			{Name: "stock", Type: "float", Required: true},
			{Name: "product_id", Type: "string", Required: true},
		}},
	}

	td, err := FromSpec(spec)
	if err != nil {
		t.Fatalf("FromSpec() error = %v", err)
	}
	want := []struct{ name, typ string }{
		{"product_id", "TEXT"},
		{"stock", "REAL"},
		{"warehouse", "TEXT"},
	}
	if len(td.Columns) != len(want) {
		t.Fatalf("columns = %+v", td.Columns)
	}
	for i, w := range want {
		c := td.Columns[i]
		if c.Name != w.name || c.SQLType != w.typ || !c.Nullable {
			t.Fatalf("column %d = %+v, want %s %s nullable", i, c, w.name, w.typ)
		}
	}
}

// TestFromSpecEnsureTable runs inference and bootstrap together against the
// recording repository from bootstrap_test.go.
func TestFromSpecEnsureTable(t *testing.T) {
	t.Parallel()

	td, err := FromSpec(storage.TableSpec{
		Table:    "trusted_regions",
		Columns:  []string{"region_id", "region_name"},
		Contract: schema.Contract{Fields: []schema.Field{{Name: "region_id", Type: "string"}}},
	})
	if err != nil {
		t.Fatalf("FromSpec() error = %v", err)
	}
	var repo fakeRepository
	if err := EnsureTable(context.Background(), &repo, td); err != nil {
		t.Fatalf("EnsureTable() error = %v", err)
	}
	if !strings.Contains(repo.lastSQL, `"trusted_regions"`) || !strings.Contains(repo.lastSQL, `"region_name" TEXT`) {
		t.Fatalf("unexpected SQL:\n%s", repo.lastSQL)
	}
}
