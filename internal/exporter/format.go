package exporter

import (
	"strconv"
)

// formatFloat formats a float64 value for CSV output with exactly 2 decimal places
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// formatInt formats an int64 value for CSV output
func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// formatBool formats a boolean value for CSV output
func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// formatCell renders one table cell as text
func formatCell(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return formatInt(int64(x))
	case int64:
		return formatInt(x)
	case float64:
		return formatFloat(x)
	case bool:
		return formatBool(x)
	default:
		return ""
	}
}
