package builtin

import (
	"strings"

	"datatrust/pkg/records"
)

// Normalize trims string values and folds no-break spaces (including the
// "Â " left behind when UTF-8 text was read as Latin-1) into plain spaces.
// Fields limits the pass to the named columns; empty means every column.
// With EmptyAsNull, values that trim to "" become null.
type Normalize struct {
	Fields      []string
	EmptyAsNull bool
}

var nbsp = strings.NewReplacer("\u00c2\u00a0", " ", "\u00a0", " ")

func (n Normalize) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		if len(n.Fields) == 0 {
			for k, v := range r {
				r[k] = n.clean(v)
			}
			continue
		}
		for _, k := range n.Fields {
			if v, ok := r[k]; ok {
				r[k] = n.clean(v)
			}
		}
	}
	return in
}

func (n Normalize) clean(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	s = strings.TrimSpace(nbsp.Replace(s))
	if s == "" && n.EmptyAsNull {
		return nil
	}
	return s
}
