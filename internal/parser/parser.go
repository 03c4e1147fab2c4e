// Package parser defines the contract between raw input bytes and the
// in-memory table a pipeline works on.
package parser

import (
	"io"

	"datatrust/internal/table"
)

// Parser reads a whole raw file into a table named name.
type Parser interface {
	Parse(r io.Reader, name string) (*table.Table, error)
}
