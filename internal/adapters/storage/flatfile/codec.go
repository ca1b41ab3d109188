// Package flatfile stores the catalog as delimited text, one record per line:
//
//	title,author,identifier,available
//
// Commas inside title and author are written as `\,` and backslashes as
// `\\`. Any other backslash is read back literally. The availability
// field is the literal `true` or `false`. Lines that do not split into
// exactly four fields are skipped with a diagnostic; they never abort a load.
package flatfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jsamuelsen/library-catalog/internal/domain"
	"github.com/jsamuelsen/library-catalog/internal/ports"
)

const (
	separator     = ','
	escape        = '\\'
	fieldsPerLine = 4
)

var escaper = strings.NewReplacer(`\`, `\\`, `,`, `\,`)

// Encode writes one line per record to w.
func Encode(w io.Writer, records []domain.Record) error {
	bw := bufio.NewWriter(w)

	for _, r := range records {
		if _, err := bw.WriteString(EncodeLine(r)); err != nil {
			return err
		}

		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// EncodeLine renders a record without the trailing newline.
func EncodeLine(r domain.Record) string {
	var sb strings.Builder

	sb.WriteString(escapeField(r.Title()))
	sb.WriteByte(separator)
	sb.WriteString(escapeField(r.Author()))
	sb.WriteByte(separator)
	sb.WriteString(r.Identifier())
	sb.WriteByte(separator)
	sb.WriteString(strconv.FormatBool(r.Available()))

	return sb.String()
}

// Decode reads records from r. Malformed lines are returned as skipped
// entries; the only error is a failure to read from r. Lines have no
// length limit.
func Decode(r io.Reader) ([]domain.Record, []ports.SkippedEntry, error) {
	br := bufio.NewReader(r)

	var (
		records []domain.Record
		skipped []ports.SkippedEntry
		lineNo  int
	)

	for {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, nil, err
		}

		if line == "" && err != nil {
			break
		}

		lineNo++
		line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")

		rec, decodeErr := DecodeLine(line)
		if decodeErr != nil {
			skipped = append(skipped, ports.SkippedEntry{Line: lineNo, Text: line, Reason: decodeErr.Error()})
		} else {
			records = append(records, rec)
		}

		if err != nil {
			break
		}
	}

	return records, skipped, nil
}

// DecodeLine parses a single line. Restored records are trusted and are
// not re-validated.
func DecodeLine(line string) (domain.Record, error) {
	fields := splitUnescaped(line)
	if len(fields) != fieldsPerLine {
		return domain.Record{}, fmt.Errorf("expected %d fields, got %d", fieldsPerLine, len(fields))
	}

	return domain.NewRecord(
		unescapeField(fields[0]),
		unescapeField(fields[1]),
		fields[2],
		parseAvailable(fields[3]),
	), nil
}

// splitUnescaped splits on commas that are not escaped. Escape sequences
// are left in place for unescapeField.
func splitUnescaped(line string) []string {
	var (
		fields []string
		start  int
	)

	for i := 0; i < len(line); i++ {
		switch line[i] {
		case escape:
			if i+1 < len(line) && (line[i+1] == separator || line[i+1] == escape) {
				i++
			}
		case separator:
			fields = append(fields, line[start:i])
			start = i + 1
		}
	}

	return append(fields, line[start:])
}

func escapeField(s string) string {
	return escaper.Replace(s)
}

// unescapeField reverses escapeField. A backslash that starts no known
// sequence is kept as is.
func unescapeField(s string) string {
	if !strings.ContainsRune(s, escape) {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] == escape && i+1 < len(s) && (s[i+1] == separator || s[i+1] == escape) {
			i++
		}

		sb.WriteByte(s[i])
	}

	return sb.String()
}

// parseAvailable treats "true" in any case as true and everything else as false.
func parseAvailable(s string) bool {
	return strings.EqualFold(s, "true")
}
