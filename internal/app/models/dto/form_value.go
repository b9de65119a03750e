package dto

import (
	"bytes"
	"encoding/json"
	"strings"
)

// FormValue is a loosely typed input field. It binds from form posts as a plain string
// and from JSON as either a string, a number, a boolean or null, so that clients may
// send {"weight": 62.5} or {"weight": "62.5"} interchangeably.
type FormValue string

// UnmarshalJSON accepts any JSON scalar
func (v *FormValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = FormValue(s)
		return nil
	}
	// numbers and booleans keep their literal text
	*v = FormValue(data)
	return nil
}

// String returns the trimmed value
func (v FormValue) String() string {
	return strings.TrimSpace(string(v))
}

// Blank reports whether the value is empty after trimming
func (v FormValue) Blank() bool {
	return v.String() == ""
}

// Ptr returns nil for blank values and a pointer to the trimmed value otherwise
func (v FormValue) Ptr() *string {
	if v.Blank() {
		return nil
	}
	s := v.String()
	return &s
}
