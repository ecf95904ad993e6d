package utils

import "encoding/json"

func ToJSString(val string) string {
	if val == "" {
		return `""`
	}
	// JSON marshal handles escaping
	b, _ := json.Marshal(val)
	return string(b)
}
