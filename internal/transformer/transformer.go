// Package transformer composes the per-dataset transform steps. Each step
// takes the full row set and returns the rows that survive it; filters may
// reuse the input slice.
package transformer

import "datatrust/pkg/records"

type Transformer interface {
	Apply([]records.Record) []records.Record
}

// Step is a Transformer labelled with the config kind it was built from, so
// callers can report how many rows each step removed.
type Step struct {
	Kind string
	Transformer
}

// Steps is an ordered list of labelled transformers.
type Steps []Step
