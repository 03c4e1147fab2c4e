package schema

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func inventoryContract() Contract {
	return Contract{
		Name: "Inventory",
		Fields: []Field{
			{Name: "product_id", Type: "string", Required: true},
			{Name: "stock", Type: "float", Required: true},
			{Name: "warehouse", Type: "string"},
		},
	}
}

func TestCheck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		columns []string
		missing []string
	}{
		{name: "all_present", columns: []string{"product_id", "stock"}},
		{name: "extra_columns_ok", columns: []string{"stock", "bin", "product_id"}},
		{name: "optional_missing_ok", columns: []string{"product_id", "stock"}},
		{name: "stock_missing", columns: []string{"product_id", "stock level"}, missing: []string{"stock"}},
		{name: "both_missing", columns: []string{"sku", "qty"}, missing: []string{"product_id", "stock"}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := inventoryContract().Check(tc.columns)
			if len(tc.missing) == 0 {
				if err != nil {
					t.Fatalf("Check(%v) = %v, want nil", tc.columns, err)
				}
				return
			}
			var mce *MissingColumnsError
			if !errors.As(err, &mce) {
				t.Fatalf("Check(%v) = %v, want *MissingColumnsError", tc.columns, err)
			}
			if !reflect.DeepEqual(mce.Missing, tc.missing) {
				t.Fatalf("Missing = %v, want %v", mce.Missing, tc.missing)
			}
			if !reflect.DeepEqual(mce.Columns, tc.columns) {
				t.Fatalf("Columns = %v, want %v", mce.Columns, tc.columns)
			}
		})
	}
}

func TestMissingColumnsError_NamesActualColumns(t *testing.T) {
	t.Parallel()

	err := inventoryContract().Check([]string{"product id", "qty"})
	if err == nil {
		t.Fatal("Check = nil, want error")
	}
	msg := err.Error()
	for _, want := range []string{"Inventory schema invalid", "'product id'", "'qty'", "product_id, stock"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q does not contain %q", msg, want)
		}
	}
}

func TestRequiredColumnsAndField(t *testing.T) {
	t.Parallel()

	c := inventoryContract()
	if got := c.RequiredColumns(); !reflect.DeepEqual(got, []string{"product_id", "stock"}) {
		t.Fatalf("RequiredColumns = %v", got)
	}
	if f, ok := c.Field("stock"); !ok || f.Type != "float" {
		t.Fatalf("Field(stock) = %+v, %v", f, ok)
	}
	if _, ok := c.Field("nope"); ok {
		t.Fatal("Field(nope) found, want not found")
	}
}
