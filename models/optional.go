// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// OptionalString is a nullable string field of a partial update that also
// remembers whether the key was present in the request.
//
// Decoding rules:
//   - key missing           → Set == false (leave the field untouched);
//   - null, "" or blank     → Set == true, Value == nil (clear the field);
//   - any other string      → Set == true, Value points at the trimmed string.
type OptionalString struct {
	Set   bool
	Value *string
}

// SetString returns an OptionalString that sets the field to s.
// An empty s clears the field, mirroring the JSON decoding rules.
func SetString(s string) OptionalString {
	s = strings.TrimSpace(s)
	if s == "" {
		return OptionalString{Set: true}
	}
	return OptionalString{Set: true, Value: &s}
}

// ClearString returns an OptionalString that clears the field.
func ClearString() OptionalString {
	return OptionalString{Set: true}
}

// IsZero reports whether the field was absent. Used by the omitzero tag.
func (o OptionalString) IsZero() bool {
	return !o.Set
}

// UnmarshalJSON implements [json.Unmarshaler].
func (o *OptionalString) UnmarshalJSON(b []byte) error {
	o.Set = true
	o.Value = nil

	if string(b) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	s = strings.TrimSpace(s)
	if s != "" {
		o.Value = &s
	}
	return nil
}

// MarshalJSON implements [json.Marshaler].
func (o OptionalString) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}

// OptionalInt is the integer counterpart of [OptionalString].
// Besides JSON numbers it accepts numeric strings, because HTML forms submit
// every input as text; "" and null clear the field.
type OptionalInt struct {
	Set   bool
	Value *int
}

// SetInt returns an OptionalInt that sets the field to i.
func SetInt(i int) OptionalInt {
	return OptionalInt{Set: true, Value: &i}
}

// ClearInt returns an OptionalInt that clears the field.
func ClearInt() OptionalInt {
	return OptionalInt{Set: true}
}

// IsZero reports whether the field was absent.
func (o OptionalInt) IsZero() bool {
	return !o.Set
}

// UnmarshalJSON implements [json.Unmarshaler].
func (o *OptionalInt) UnmarshalJSON(b []byte) error {
	o.Set = true
	o.Value = nil

	if string(b) == "null" {
		return nil
	}

	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case float64:
		if v != float64(int(v)) {
			return fmt.Errorf("value %v is not an integer", v)
		}
		i := int(v)
		o.Value = &i
	case string:
		v = strings.TrimSpace(v)
		if v == "" {
			return nil
		}
		i, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("value %q is not an integer: %w", v, err)
		}
		o.Value = &i
	default:
		return fmt.Errorf("unsupported integer value %s", string(b))
	}

	return nil
}

// MarshalJSON implements [json.Marshaler].
func (o OptionalInt) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}

// apply writes the optional value into dst when the key was present.
func (o OptionalString) apply(dst **string) {
	if o.Set {
		*dst = cloneString(o.Value)
	}
}

func (o OptionalInt) apply(dst **int) {
	if o.Set {
		*dst = cloneInt(o.Value)
	}
}
