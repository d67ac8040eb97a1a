// Package jsonutil handles loosely-typed JSON coming from the browser form,
// where fields occasionally arrive as numbers or booleans instead of strings.
package jsonutil

import (
	"encoding/json"
	"fmt"
)

// FlexibleString converts a json.RawMessage to a string regardless of the
// JSON type the client serialized. Returns empty string for null/absent.
func FlexibleString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var strVal string
	if err := json.Unmarshal(raw, &strVal); err == nil {
		return strVal
	}

	var numVal float64
	if err := json.Unmarshal(raw, &numVal); err == nil {
		if numVal == float64(int64(numVal)) {
			return fmt.Sprintf("%d", int64(numVal))
		}
		return fmt.Sprintf("%g", numVal)
	}

	var boolVal bool
	if err := json.Unmarshal(raw, &boolVal); err == nil {
		return fmt.Sprintf("%t", boolVal)
	}

	return string(raw)
}

// FirstNonEmpty returns the first raw value that decodes to a non-empty string.
// Used where the form has shipped the same field under more than one name.
func FirstNonEmpty(raws ...json.RawMessage) string {
	for _, raw := range raws {
		if s := FlexibleString(raw); s != "" {
			return s
		}
	}
	return ""
}
