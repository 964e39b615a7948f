package feed

import "strings"

// ParseCSV parses pasted comma- or tab-separated feed text into raw rows.
// The first line supplies headers. Quoting is limited to stripping a
// leading/trailing quote per field, matching what PWB+ copy-paste produces;
// fields never contain embedded separators.
func ParseCSV(text string) []map[string]string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) < 2 {
		return nil
	}
	headers := splitFields(lines[0])
	out := make([]map[string]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		vals := splitFields(line)
		rec := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(vals) {
				rec[h] = vals[i]
			} else {
				rec[h] = ""
			}
		}
		out = append(out, rec)
	}
	return out
}

func splitFields(line string) []string {
	// Split on every separator, keeping empty fields so columns stay aligned.
	var out []string
	var cur strings.Builder
	for _, r := range line {
		if r == ',' || r == '\t' {
			out = append(out, cleanField(cur.String()))
			cur.Reset()
			continue
		}
		cur.WriteRune(r)
	}
	out = append(out, cleanField(cur.String()))
	return out
}

func cleanField(f string) string {
	f = strings.TrimSpace(f)
	f = strings.TrimPrefix(f, `"`)
	return strings.TrimSuffix(f, `"`)
}
