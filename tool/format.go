package tool

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// FormatResult converts a tool result into the text recorded in memory.
//
//	string          -> verbatim
//	integral float  -> without decimals ("12", not "12.000000")
//	other numbers   -> shortest representation
//	structs, maps   -> JSON
//	nil             -> ""
func FormatResult(v any) string {
	switch r := v.(type) {
	case nil:
		return ""
	case string:
		return r
	case []byte:
		return string(r)
	case fmt.Stringer:
		return r.String()
	case error:
		return r.Error()
	case bool:
		return strconv.FormatBool(r)
	case int:
		return strconv.Itoa(r)
	case int64:
		return strconv.FormatInt(r, 10)
	case float32:
		return formatFloat(float64(r), 32)
	case float64:
		return formatFloat(r, 64)
	}

	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

func formatFloat(f float64, bitSize int) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', 0, bitSize)
	}
	return strconv.FormatFloat(f, 'g', -1, bitSize)
}
