package csvio

import (
	"bytes"
	"strings"

	"github.com/celect/celect/internal/celecterr"
	"github.com/celect/celect/internal/value"
)

// InferSchema treats the first line as the header, and uses up to
// sampleRows data rows to widen each column's type along
// Int64 <= Float64 <= Utf8, Bool <= Utf8, with NULL absorbing into
// whatever the column is currently inferred as. Returns the inferred
// schema and the byte offset where data rows begin.
func InferSchema(data []byte, sampleRows int) (value.Schema, int, error) {
	headerEnd := bytes.IndexByte(data, '\n')
	if headerEnd == -1 {
		headerEnd = len(data)
	}
	headerLine := trimCR(data[:headerEnd])
	names := splitFields(headerLine, ',')
	if len(names) == 0 || (len(names) == 1 && len(names[0]) == 0) {
		return value.Schema{}, 0, celecterr.New(celecterr.Schema, "empty header line")
	}

	dataStart := headerEnd + 1
	if dataStart > len(data) {
		dataStart = len(data)
	}

	types := make([]value.Type, len(names))
	for i := range types {
		types[i] = value.Null
	}

	pos := dataStart
	for sampled := 0; sampled < sampleRows && pos < len(data); sampled++ {
		lineEnd := bytes.IndexByte(data[pos:], '\n')
		var line []byte
		if lineEnd == -1 {
			line = data[pos:]
			pos = len(data)
		} else {
			line = data[pos : pos+lineEnd]
			pos += lineEnd + 1
		}
		line = trimCR(line)
		if len(line) == 0 {
			continue
		}
		fields := splitFields(line, ',')
		for i := 0; i < len(types) && i < len(fields); i++ {
			types[i] = value.Widen(types[i], tokenType(fields[i]))
		}
	}

	fields := make([]value.Field, len(names))
	for i, n := range names {
		t := types[i]
		if t == value.Null {
			// Every sampled value in this column was empty/absent; default
			// to Utf8 so the column still has a concrete storage type.
			t = value.Utf8
		}
		fields[i] = value.Field{Name: strings.TrimSpace(string(n)), Type: t}
	}
	return value.Schema{Fields: fields}, dataStart, nil
}

// tokenType classifies a single raw CSV token: empty is NULL, then
// Int64, Float64, Bool in that order, else Utf8.
func tokenType(tok []byte) value.Type {
	if len(tok) == 0 {
		return value.Null
	}
	s := string(tok)
	if isInt64Token(s) {
		return value.Int64
	}
	if isFloat64Token(s) {
		return value.Float64
	}
	lower := strings.ToLower(s)
	if lower == "true" || lower == "false" {
		return value.Bool
	}
	return value.Utf8
}

// isInt64Token reports whether s matches -?\d+ exactly: no leading '+',
// no leading/trailing whitespace, no empty digit run.
func isInt64Token(s string) bool {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	if i == len(s) {
		return false
	}
	for ; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// isFloat64Token reports whether s matches -?\d+(\.\d+)? exactly: no
// scientific notation, no leading or trailing dot, no NaN/Inf.
func isFloat64Token(s string) bool {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	intStart := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == intStart {
		return false
	}
	if i == len(s) {
		return true
	}
	if s[i] != '.' {
		return false
	}
	i++
	fracStart := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i == len(s) && i > fracStart
}

func trimCR(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == '\r' {
		return b[:len(b)-1]
	}
	return b
}

// splitFields is a simple quote-aware comma splitter used for the header
// line, type-inference sampling, and by scanChunk (scan.go) to split each
// line once the bitmap scan has located the line boundaries.
func splitFields(line []byte, sep byte) [][]byte {
	var out [][]byte
	start := 0
	inQuote := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"':
			inQuote = !inQuote
		case sep:
			if !inQuote {
				out = append(out, unquoteField(line[start:i]))
				start = i + 1
			}
		}
	}
	out = append(out, unquoteField(line[start:]))
	return out
}

func unquoteField(tok []byte) []byte {
	if len(tok) >= 2 && tok[0] == '"' && tok[len(tok)-1] == '"' {
		inner := tok[1 : len(tok)-1]
		return bytes.ReplaceAll(inner, []byte(`""`), []byte(`"`))
	}
	return tok
}
