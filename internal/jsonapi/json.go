package jsonapi

import "encoding/json"

// IsJSONString reports whether s is syntactically valid JSON.
// The empty string is not.
func IsJSONString(s string) bool {
	return json.Valid([]byte(s))
}
