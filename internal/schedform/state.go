package schedform

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// State is the mutable value store for one active form screen. It always
// holds exactly one entry per schema field; reads and writes of unknown
// field names panic. A State is owned by a single screen and is not safe
// for concurrent use; the app is event-driven, one operation at a time.
type State struct {
	schema *Schema
	values map[string]string // Flag fields stored as "true"/"false"
	errors map[string]string
}

// NewState returns a State populated with every schema default.
func NewState(schema *Schema) *State {
	values := make(map[string]string, len(schema.Fields))
	for _, f := range schema.Fields {
		values[f.Name] = f.Default
	}
	return &State{
		schema: schema,
		values: values,
		errors: make(map[string]string),
	}
}

func (st *State) Schema() *Schema { return st.schema }

// Get returns the current raw value of a field. Never fails: an unset field
// reads as its schema default.
func (st *State) Get(name string) string {
	st.schema.mustLookup(name)
	return st.values[name]
}

// GetFlag reads a Flag field as a boolean.
func (st *State) GetFlag(name string) bool {
	if f := st.schema.mustLookup(name); f.Kind != Flag {
		panic(fmt.Sprintf("schedform: field %q is not a flag", name))
	}
	return st.values[name] == "true"
}

// Set replaces the value of exactly one field and clears that field's
// existing validation error, if any. No other field is touched and no
// revalidation runs; full validation happens only on submit.
//
// The SSN field gets its formatter applied before storage.
func (st *State) Set(name, value string) {
	f := st.schema.mustLookup(name)
	if f.Name == "ssn" {
		value = FormatSSN(value)
	}
	st.values[name] = value
	delete(st.errors, name)
}

// SetFlag writes a Flag field.
func (st *State) SetFlag(name string, v bool) {
	if f := st.schema.mustLookup(name); f.Kind != Flag {
		panic(fmt.Sprintf("schedform: field %q is not a flag", name))
	}
	if v {
		st.values[name] = "true"
	} else {
		st.values[name] = "false"
	}
	delete(st.errors, name)
}

// Err returns the current validation message for a field, or "".
func (st *State) Err(name string) string {
	st.schema.mustLookup(name)
	return st.errors[name]
}

// Errors returns a copy of the current error map.
func (st *State) Errors() map[string]string {
	out := make(map[string]string, len(st.errors))
	for k, v := range st.errors {
		out[k] = v
	}
	return out
}

// SetErrors replaces the whole error map, typically with a Validate result.
func (st *State) SetErrors(errs map[string]string) {
	st.errors = make(map[string]string, len(errs))
	for k, v := range errs {
		st.schema.mustLookup(k)
		st.errors[k] = v
	}
}

// HasErrors reports whether any field currently carries an error.
func (st *State) HasErrors() bool { return len(st.errors) > 0 }

// FormatSSN strips non-digit characters, caps at nine digits, and re-inserts
// the DDD-DD-DDDD separators. Idempotent: formatting its own output changes
// nothing.
func FormatSSN(s string) string {
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if len(d) > 9 {
		d = d[:9]
	}
	switch {
	case len(d) <= 3:
		return d
	case len(d) <= 5:
		return d[:3] + "-" + d[3:]
	default:
		return d[:3] + "-" + d[3:5] + "-" + d[5:]
	}
}

// Payload serializes the full form state as one flat JSON object in schema
// order: one entry per field, strings as-is, Flag fields as booleans. No
// numeric coercion happens here; amounts ship as the raw text the user
// typed.
func (st *State) Payload() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range st.schema.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if f.Kind == Flag {
			if st.values[f.Name] == "true" {
				buf.WriteString("true")
			} else {
				buf.WriteString("false")
			}
			continue
		}
		val, err := json.Marshal(st.values[f.Name])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// LoadPayload restores a state snapshot produced by Payload. Values replay
// through Set/SetFlag so the SSN formatter and error clearing apply. Keys
// not present in the schema are ignored; fields missing from the snapshot
// keep their current value.
func (st *State) LoadPayload(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode draft payload: %w", err)
	}
	for _, f := range st.schema.Fields {
		msg, ok := raw[f.Name]
		if !ok {
			continue
		}
		if f.Kind == Flag {
			var b bool
			if err := json.Unmarshal(msg, &b); err != nil {
				return fmt.Errorf("field %q: %w", f.Name, err)
			}
			st.SetFlag(f.Name, b)
			continue
		}
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			return fmt.Errorf("field %q: %w", f.Name, err)
		}
		st.Set(f.Name, s)
	}
	return nil
}
