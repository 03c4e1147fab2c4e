package csv

import "strings"

const (
	utf8BOM = "\uFEFF"
	// latin1BOM is a UTF-8 BOM that went through a Latin-1 decoder.
	latin1BOM = "ï»¿"
)

// StripHeaderBOM removes a byte order mark from the first header cell if
// present, whether it was decoded as UTF-8 or as Latin-1.
func StripHeaderBOM(headers []string) []string {
	if len(headers) == 0 {
		return headers
	}
	h := strings.TrimPrefix(headers[0], utf8BOM)
	headers[0] = strings.TrimPrefix(h, latin1BOM)
	return headers
}
