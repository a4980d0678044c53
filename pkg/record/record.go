// Package record normalizes ServiceNow Table API records.
//
// Depending on sysparm_display_value, the Table API returns each field
// either as a bare scalar or as a {"value": ..., "display_value": ...}
// pair. Everything downstream reads fields through this package so both
// shapes look identical.
package record

import (
	"bytes"
	"encoding/json"
	"strconv"
)

const (
	displayKey = "display_value"
	valueKey   = "value"
)

// ExtractDisplay returns the human readable side of a raw field as decoded
// by encoding/json into an interface{}. The boolean is false when there is
// nothing to show.
func ExtractDisplay(field any) (string, bool) {
	switch f := field.(type) {
	case nil:
		return "", false
	case map[string]any:
		if d, ok := f[displayKey]; ok {
			return scalar(d)
		}
	}
	return scalar(field)
}

// ExtractValue returns the machine code side of a raw field.
func ExtractValue(field any) (string, bool) {
	switch f := field.(type) {
	case nil:
		return "", false
	case map[string]any:
		if _, ok := f[displayKey]; ok {
			return scalar(f[valueKey])
		}
	}
	return scalar(field)
}

// scalar renders a decoded JSON value as a string, leaving strings
// untouched and anything else in its JSON text form.
func scalar(v any) (string, bool) {
	switch s := v.(type) {
	case nil:
		return "", false
	case string:
		return s, true
	case bool:
		return strconv.FormatBool(s), true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case json.Number:
		return s.String(), true
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", false
	}
	return string(b), true
}

// Field is a single record field in either representation.
type Field struct {
	display    string
	value      string
	hasDisplay bool
	hasValue   bool
}

// Scalar builds a Field from a plain string, as the API returns it when
// display values are not requested.
func Scalar(s string) Field {
	return Field{display: s, value: s, hasDisplay: true, hasValue: true}
}

// Pair builds a Field from a value/display pair.
func Pair(value, display string) Field {
	return Field{display: display, value: value, hasDisplay: true, hasValue: true}
}

// UnmarshalJSON accepts any JSON value and never rejects a well formed one.
func (f *Field) UnmarshalJSON(b []byte) error {
	*f = Field{}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil
	}

	f.display, f.hasDisplay = ExtractDisplay(raw)
	f.value, f.hasValue = ExtractValue(raw)
	return nil
}

// MarshalJSON writes the field back in pair form.
func (f Field) MarshalJSON() ([]byte, error) {
	out := map[string]any{valueKey: nil, displayKey: nil}
	if f.hasValue {
		out[valueKey] = f.value
	}
	if f.hasDisplay {
		out[displayKey] = f.display
	}
	return json.Marshal(out)
}

// Display returns the human readable side of the field.
func (f Field) Display() (string, bool) { return f.display, f.hasDisplay }

// Value returns the code side of the field.
func (f Field) Value() (string, bool) { return f.value, f.hasValue }

// Record is one row of a Table API response.
type Record map[string]Field

// Display returns the display side of the named field; absent fields are
// reported the same way as null ones.
func (r Record) Display(name string) (string, bool) {
	f, ok := r[name]
	if !ok {
		return "", false
	}
	return f.Display()
}

// Value returns the code side of the named field.
func (r Record) Value(name string) (string, bool) {
	f, ok := r[name]
	if !ok {
		return "", false
	}
	return f.Value()
}

// DisplayOr returns the display side of the named field or def when it is
// absent or null.
func (r Record) DisplayOr(name, def string) string {
	if s, ok := r.Display(name); ok {
		return s
	}
	return def
}

// ValueOr returns the code side of the named field or def.
func (r Record) ValueOr(name, def string) string {
	if s, ok := r.Value(name); ok {
		return s
	}
	return def
}

// ID returns the record's sys_id.
func (r Record) ID() string {
	return r.ValueOr("sys_id", "")
}
