package output

import (
	"encoding/json"
	"sort"
	"unicode/utf8"
)

const maxCellWidth = 80

// jsonRows flattens the top level of a decoded json payload into sorted
// key/value pairs with compact JSON values.
func jsonRows(payload any) [][2]string {
	m, ok := payload.(map[string]any)
	if !ok {
		return [][2]string{{"value", compact(payload)}}
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([][2]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, [2]string{k, compact(m[k])})
	}
	return rows
}

func compact(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return "?"
	}
	return truncate(string(data), maxCellWidth)
}

func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-3]) + "..."
}
