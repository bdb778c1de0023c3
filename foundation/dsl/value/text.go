// File: text.go
// Title: Text Rendering of Values
// Description: ToText renders any value as the text a cell would contain.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package value

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// ToText renders v as text. nil is empty, booleans are lower case, numbers
// use their shortest form and containers are rendered as JSON.
func ToText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float64:
		return FormatFloat(t)
	case float32:
		return FormatFloat(float64(t))
	case json.Number:
		return t.String()
	case Cell:
		return ToText(t.OrNil())
	case []any, Tuple, *Set, *Dict, map[string]any:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}

// FormatFloat renders f without exponent for moderate magnitudes.
func FormatFloat(f float64) string {
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) || math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
