package builtin

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"

	"datatrust/pkg/records"
)

// DateLayouts are tried in order when Coerce parses a date without an
// explicit Layout. Ambiguous day/month forms read month first. Dates without
// a zone are read in the local zone.
var DateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"1/2/2006 15:04",
	"1/2/06",
	"01-02-2006",
	"1-2-2006",
	"20060102",
	"2006.01.02",
	"2006-01-02 15:04:05.999999999",
	"02-Jan-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
}

// Coerce converts fields to typed values. A value that cannot be converted
// becomes null, so later steps can filter or keep it explicitly.
type Coerce struct {
	Types  map[string]string // field -> one of: float, int, bool, date, string
	Layout string            // optional date layout tried before DateLayouts
}

func (c Coerce) Apply(in []records.Record) []records.Record {
	if len(c.Types) == 0 {
		return in
	}
	for _, r := range in {
		for field, typ := range c.Types {
			v, ok := r[field]
			if !ok || v == nil {
				continue
			}
			r[field] = c.convert(v, typ)
		}
	}
	return in
}

// convert returns v as typ, or nil when v does not parse.
func (c Coerce) convert(v any, typ string) any {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		v = s
	}
	switch typ {
	case "float", "number":
		f, err := cast.ToFloat64E(v)
		if err != nil || math.IsNaN(f) {
			return nil
		}
		return f
	case "int", "integer":
		if s, ok := v.(string); ok {
			i, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil
			}
			return i
		}
		i, err := cast.ToInt64E(v)
		if err != nil {
			return nil
		}
		return i
	case "bool", "boolean":
		b, err := cast.ToBoolE(v)
		if err != nil {
			return nil
		}
		return b
	case "date", "datetime":
		switch t := v.(type) {
		case time.Time:
			return t
		case string:
			if ts, ok := ParseDate(t, c.Layout); ok {
				return ts
			}
		}
		return nil
	default:
		if s, ok := v.(string); ok {
			return s
		}
		return records.Format(v)
	}
}

// ParseDate parses s with layout (when set), then DateLayouts, then the
// layouts cast knows (RFC 1123, RFC 822, ANSIC and friends).
func ParseDate(s, layout string) (time.Time, bool) {
	if layout != "" {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	for _, l := range DateLayouts {
		if t, err := time.ParseInLocation(l, s, time.Local); err == nil {
			return t, true
		}
	}
	if t, err := cast.ToTimeInDefaultLocationE(s, time.Local); err == nil {
		return t, true
	}
	return time.Time{}, false
}
