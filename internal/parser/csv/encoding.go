package csv

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// lookupEncoding maps a config encoding name to an x/text encoding. An empty
// name means def.
func lookupEncoding(name, def string) (encoding.Encoding, error) {
	if strings.TrimSpace(name) == "" {
		name = def
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "latin1", "latin-1", "iso-8859-1", "iso8859-1":
		return charmap.ISO8859_1, nil
	case "utf-8", "utf8":
		return unicode.UTF8BOM, nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
}

// DecodeReader wraps r so that bytes in the named encoding come out as UTF-8.
// Latin-1 is the default since every byte sequence is valid Latin-1.
func DecodeReader(r io.Reader, name string) (io.Reader, error) {
	enc, err := lookupEncoding(name, "latin1")
	if err != nil {
		return nil, err
	}
	return enc.NewDecoder().Reader(r), nil
}

// EncodeWriter wraps w so that UTF-8 text written to it is stored in the
// named encoding. Runes outside Latin-1 become '\x1a' instead of failing the
// write. UTF-8 output carries no BOM.
func EncodeWriter(w io.Writer, name string) (io.Writer, error) {
	enc, err := lookupEncoding(name, "utf-8")
	if err != nil {
		return nil, err
	}
	if enc == unicode.UTF8BOM {
		return w, nil
	}
	return encoding.ReplaceUnsupported(enc.NewEncoder()).Writer(w), nil
}
