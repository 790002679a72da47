package model

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// CanonicalizeExtensionValue renders an extension value as a string so it can
// be stored in Field.Metadata. Lists and maps are encoded as JSON.
func CanonicalizeExtensionValue(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, v != ""
	case bool:
		return strconv.FormatBool(v), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case fmt.Stringer:
		s := v.String()
		return s, s != ""
	case []any, map[string]any:
		encoded, err := json.Marshal(v)
		if err != nil {
			return "", false
		}
		return string(encoded), true
	default:
		return fmt.Sprint(v), true
	}
}
