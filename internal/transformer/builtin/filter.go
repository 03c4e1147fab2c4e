package builtin

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"

	"datatrust/pkg/records"
)

// Rule is one comparison a record must satisfy to pass a Filter.
//
// Value is compared against the field after coercion: numbers against
// numeric fields, and the string "now" (or a date string) against date
// fields. A null field fails the rule unless KeepNull is set.
type Rule struct {
	Field    string `json:"field"`
	Op       string `json:"op"`
	Value    any    `json:"value"`
	KeepNull bool   `json:"keep_null"`
}

// Ops lists the comparison operators a Rule accepts.
var Ops = []string{">", ">=", "<", "<=", "==", "!="}

// Validate reports a malformed rule.
func (r Rule) Validate() error {
	if strings.TrimSpace(r.Field) == "" {
		return fmt.Errorf("rule: field is required")
	}
	for _, op := range Ops {
		if r.Op == op {
			if r.Value == nil {
				return fmt.Errorf("rule %s %s: value is required", r.Field, r.Op)
			}
			return nil
		}
	}
	return fmt.Errorf("rule %s: unknown op %q", r.Field, r.Op)
}

// Filter keeps records that satisfy every rule. Values that cannot be compared
// with the rule value (a string against a number, say) fail the rule.
type Filter struct {
	Rules []Rule

	// Now supplies the instant "now" resolves to. Defaults to time.Now.
	Now func() time.Time
}

func (f Filter) Apply(in []records.Record) []records.Record {
	if len(f.Rules) == 0 {
		return in
	}
	now := time.Now
	if f.Now != nil {
		now = f.Now
	}
	at := now()

	out := in[:0]
	for _, r := range in {
		keep := true
		for _, rule := range f.Rules {
			if !rule.match(r, at) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, r)
		}
	}
	return out
}

func (r Rule) match(rec records.Record, now time.Time) bool {
	if rec.IsNull(r.Field) {
		return r.KeepNull
	}
	cmp, ok := compare(rec[r.Field], r.Value, now)
	if !ok {
		return false
	}
	switch r.Op {
	case ">":
		return cmp > 0
	case ">=":
		return cmp >= 0
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	case "==":
		return cmp == 0
	case "!=":
		return cmp != 0
	}
	return false
}

// compare orders v against the rule value want. ok is false when the two
// cannot be compared.
func compare(v, want any, now time.Time) (int, bool) {
	switch x := v.(type) {
	case time.Time:
		var w time.Time
		switch y := want.(type) {
		case time.Time:
			w = y
		case string:
			if strings.EqualFold(y, "now") {
				w = now
			} else if t, ok := ParseDate(y, ""); ok {
				w = t
			} else {
				return 0, false
			}
		default:
			return 0, false
		}
		return x.Compare(w), true
	case string:
		if s, ok := want.(string); ok {
			return strings.Compare(x, s), true
		}
		return 0, false
	case bool:
		w, err := cast.ToBoolE(want)
		if err != nil {
			return 0, false
		}
		switch {
		case x == w:
			return 0, true
		case !x:
			return -1, true
		default:
			return 1, true
		}
	default:
		a, err := cast.ToFloat64E(x)
		if err != nil {
			return 0, false
		}
		if _, isStr := want.(string); isStr {
			return 0, false
		}
		b, err := cast.ToFloat64E(want)
		if err != nil {
			return 0, false
		}
		switch {
		case a < b:
			return -1, true
		case a > b:
			return 1, true
		default:
			return 0, true
		}
	}
}
