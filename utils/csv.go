package utils

import "strings"

// BuildCsvLine joins fields into one CSV line. A field containing a comma or
// a double quote is wrapped in double quotes with inner quotes doubled. This
// escaping rule is a stable external contract consumed by spreadsheet tools
// and must not change.
func BuildCsvLine(fields []string) string {
	escaped := make([]string, len(fields))
	for i, field := range fields {
		if strings.ContainsAny(field, ",\"") {
			escaped[i] = "\"" + strings.ReplaceAll(field, "\"", "\"\"") + "\""
		} else {
			escaped[i] = field
		}
	}
	return strings.Join(escaped, ",")
}
