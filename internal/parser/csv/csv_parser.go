// Package csv reads raw delimited files into tables and writes trusted tables
// back out. Input is decoded from its configured encoding (Latin-1 by
// default) before encoding/csv sees it; values matching the NA token set load
// as null.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"datatrust/internal/config"
	"datatrust/internal/table"
	"datatrust/pkg/records"
)

// DefaultNAValues are the raw strings read as null, matching the defaults of
// common dataframe readers.
var DefaultNAValues = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

// Options configures the CSV parser. The zero value reads comma-separated
// Latin-1 with the default NA tokens and headers used verbatim.
type Options struct {
	// Comma is the field delimiter. When zero, ',' is used.
	Comma rune

	// Encoding of the input bytes; see DecodeReader.
	Encoding string

	// TrimHeaders trims surrounding whitespace from header names.
	TrimHeaders bool

	// LowerHeaders lowercases header names (after trimming).
	LowerHeaders bool

	// NAValues extends DefaultNAValues, or replaces them when
	// NoDefaultNA is set.
	NAValues    []string
	NoDefaultNA bool

	// StrictQuotes disables lazy quote handling in encoding/csv.
	StrictQuotes bool
}

// FromConfig builds Options from a dataset's parser options and source
// encoding.
func FromConfig(p config.Parser, src config.Source) Options {
	return Options{
		Comma:        p.Options.Rune("comma", ','),
		Encoding:     src.Encoding,
		TrimHeaders:  p.Options.Bool("trim_headers", false),
		LowerHeaders: p.Options.String("header_case", "") == "lower",
		NAValues:     p.Options.StringSlice("na_values"),
		NoDefaultNA:  !p.Options.Bool("keep_default_na", true),
		StrictQuotes: p.Options.Bool("strict_quotes", false),
	}
}

// Parser parses CSV input according to Options. It is safe to reuse across
// inputs but not for concurrent use.
type Parser struct {
	opt Options
	na  map[string]struct{}
}

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser {
	na := make(map[string]struct{}, len(DefaultNAValues)+len(opt.NAValues))
	if !opt.NoDefaultNA {
		for _, s := range DefaultNAValues {
			na[s] = struct{}{}
		}
	}
	for _, s := range opt.NAValues {
		na[s] = struct{}{}
	}
	// An empty field never carries a value.
	na[""] = struct{}{}
	return &Parser{opt: opt, na: na}
}

// ErrNoHeader is returned for input without a header row.
var ErrNoHeader = errors.New("csv: no header row")

// Parse reads all of r. The first record is the header. Short rows are padded
// with nulls; a row wider than the header is an error, as is any other
// malformed CSV, since a half-read file must not produce a trusted output.
func (p *Parser) Parse(r io.Reader, name string) (*table.Table, error) {
	dr, err := DecodeReader(r, p.opt.Encoding)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(dr)
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	cr.LazyQuotes = !p.opt.StrictQuotes
	// Width is checked against the header below.
	cr.FieldsPerRecord = -1

	h, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	headers := normalizeHeaders(h, p.opt)
	t := table.New(name, headers)

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse: %w", err)
		}
		if len(row) > len(headers) {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: expected %d fields, saw %d", line, len(headers), len(row))
		}

		rec := make(records.Record, len(headers))
		for i, col := range headers {
			if i < len(row) {
				rec[col] = p.value(row[i])
			} else {
				rec[col] = nil
			}
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

// value converts a raw field to nil when it is an NA token.
func (p *Parser) value(s string) any {
	if _, ok := p.na[s]; ok {
		return nil
	}
	return s
}

// normalizeHeaders strips a BOM from the first cell, applies the optional
// trim/lowercase, and renames repeated names to "name.1", "name.2", ...
func normalizeHeaders(h []string, opt Options) []string {
	res := make([]string, len(h))
	copy(res, h)
	StripHeaderBOM(res)

	used := make(map[string]bool, len(res))
	counts := make(map[string]int)
	for i, col := range res {
		if opt.TrimHeaders {
			col = strings.TrimSpace(col)
		}
		if opt.LowerHeaders {
			col = strings.ToLower(col)
		}
		if col == "" {
			col = "Unnamed: " + strconv.Itoa(i)
		}
		base := col
		for used[col] {
			counts[base]++
			col = base + "." + strconv.Itoa(counts[base])
		}
		used[col] = true
		res[i] = col
	}
	return res
}
