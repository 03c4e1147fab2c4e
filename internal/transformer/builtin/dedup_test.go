package builtin

import (
	"reflect"
	"testing"

	"datatrust/pkg/records"
)

func mk(id string, revenue any, fields map[string]any) records.Record {
	r := records.Record{
		"order_id": id,
		"revenue":  revenue,
	}
	for k, v := range fields {
		r[k] = v
	}
	return r
}

// TestDeDupKeepFirst also covers the empty policy, which keeps the first
// occurrence.
func TestDeDupKeepFirst(t *testing.T) {
	t.Parallel()

	for _, policy := range []string{"keep-first", ""} {
		in := []records.Record{
			mk("A", 1.0, map[string]any{"region": "N"}),
			mk("A", 1.0, map[string]any{"region": "S"}),
			mk("B", 1.0, map[string]any{"region": "E"}),
		}
		d := DeDup{Keys: []string{"order_id", "revenue"}, Policy: policy}
		got := d.Apply(in)
		want := []records.Record{
			mk("A", 1.0, map[string]any{"region": "N"}),
			mk("B", 1.0, map[string]any{"region": "E"}),
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("policy %q: got %#v want %#v", policy, got, want)
		}
	}
}

/*
TestDeDupKeepLast verifies that the surviving row is the last occurrence but
that it is emitted at its own position, after rows that appeared before it.
*/
func TestDeDupKeepLast(t *testing.T) {
	t.Parallel()

	in := []records.Record{
		mk("A", 1.0, map[string]any{"region": "N"}),
		mk("B", 1.0, map[string]any{"region": "E"}),
		mk("A", 1.0, map[string]any{"region": "S"}),
	}
	d := DeDup{Keys: []string{"order_id", "revenue"}, Policy: "keep-last"}
	got := d.Apply(in)
	want := []records.Record{
		mk("B", 1.0, map[string]any{"region": "E"}),
		mk("A", 1.0, map[string]any{"region": "S"}),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("keep-last: got %#v want %#v", got, want)
	}
}

func TestDeDupMostComplete(t *testing.T) {
	t.Parallel()

	in := []records.Record{
		mk("A", 1.0, map[string]any{"region": ""}),
		mk("A", 1.0, map[string]any{"region": "S", "note": "x"}),
		mk("B", 1.0, map[string]any{"region": "E"}),
	}
	d := DeDup{Keys: []string{"order_id", "revenue"}, Policy: "most-complete"}
	got := d.Apply(in)
	want := []records.Record{
		mk("A", 1.0, map[string]any{"region": "S", "note": "x"}),
		mk("B", 1.0, map[string]any{"region": "E"}),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("most-complete: got %#v want %#v", got, want)
	}
}

/*
TestDeDupNullKeys verifies that rows whose key is null collapse together and
that values differing only in type-free rendering (2 vs 2.0) are equal.
*/
func TestDeDupNullKeys(t *testing.T) {
	t.Parallel()

	in := []records.Record{
		{"product_id": nil, "stock": 1.0},
		{"product_id": "P1", "stock": 2.0},
		{"product_id": nil, "stock": 3.0},
		{"product_id": "P1", "stock": 4.0},
	}
	got := DeDup{Keys: []string{"product_id"}, Policy: "keep-first"}.Apply(in)
	want := []records.Record{
		{"product_id": nil, "stock": 1.0},
		{"product_id": "P1", "stock": 2.0},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v want %#v", got, want)
	}

	in = []records.Record{{"q": 2.0}, {"q": int64(2)}}
	if got := (DeDup{Keys: []string{"q"}}).Apply(in); len(got) != 1 {
		t.Fatalf("2.0 and 2 should collapse, got %#v", got)
	}
}

func TestDeDupMissingKeyPassthrough(t *testing.T) {
	t.Parallel()

	in := []records.Record{
		{"other": "x"},
		{"id": "1"},
		{"id": "1"},
	}
	got := DeDup{Keys: []string{"id"}}.Apply(in)
	want := []records.Record{{"id": "1"}, {"other": "x"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v want %#v", got, want)
	}
}

func BenchmarkDeDup_KeepLast(b *testing.B) {
	in := make([]records.Record, 10000)
	for i := range in {
		in[i] = records.Record{"order_id": string(rune('a' + i%26)), "revenue": float64(i % 100)}
	}
	d := DeDup{Keys: []string{"order_id", "revenue"}, Policy: "keep-last"}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = d.Apply(in)
	}
}
