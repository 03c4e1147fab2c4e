package table

import (
	"reflect"
	"strings"
	"testing"

	"datatrust/pkg/records"
)

func TestRename(t *testing.T) {
	t.Parallel()

	tb := New("customers", []string{"Customer ID", "Customer Name", "Segment"})
	tb.Rows = []records.Record{
		{"Customer ID": "C1", "Customer Name": "Ann", "Segment": "Consumer"},
		{"Customer ID": nil, "Customer Name": "Bob", "Segment": nil},
	}

	err := tb.Rename(map[string]string{
		"Customer ID":   "customer_id",
		"Customer Name": "customer_name",
		"Region":        "region", // absent: ignored
	})
	if err != nil {
		t.Fatalf("Rename: %v", err)
	}

	if want := []string{"customer_id", "customer_name", "Segment"}; !reflect.DeepEqual(tb.Columns, want) {
		t.Fatalf("Columns = %v, want %v", tb.Columns, want)
	}
	want := []records.Record{
		{"customer_id": "C1", "customer_name": "Ann", "Segment": "Consumer"},
		{"customer_id": nil, "customer_name": "Bob", "Segment": nil},
	}
	if !reflect.DeepEqual(tb.Rows, want) {
		t.Fatalf("Rows = %#v, want %#v", tb.Rows, want)
	}
}

func TestRename_Swap(t *testing.T) {
	t.Parallel()

	tb := New("x", []string{"a", "b"})
	tb.Rows = []records.Record{{"a": "1", "b": "2"}}
	if err := tb.Rename(map[string]string{"a": "b", "b": "a"}); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if got := tb.Rows[0]; got["a"] != "2" || got["b"] != "1" {
		t.Fatalf("row after swap = %#v", got)
	}
}

func TestRename_Collision(t *testing.T) {
	t.Parallel()

	tb := New("inventory", []string{"product id", "product_id"})
	err := tb.Rename(map[string]string{"product id": "product_id"})
	if err == nil || !strings.Contains(err.Error(), `"product_id"`) {
		t.Fatalf("Rename err = %v, want collision on product_id", err)
	}
}
