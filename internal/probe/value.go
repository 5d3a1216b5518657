// Package probe walks the nested value trees that make up a tool call's
// arguments: ordered mappings, sequences, and scalars decoded from a
// policy author's YAML or JSON.
package probe

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// OrderedMap is a mapping from string keys to values that preserves
// insertion order, the way a YAML or JSON object is written on the page.
// Plain Go maps don't preserve key order, so every decoder in
// internal/config builds one of these instead of a map[string]any.
type OrderedMap struct {
	keys   []string
	values map[string]any
}

// NewOrderedMap returns an empty ordered map.
func NewOrderedMap() *OrderedMap {
	return &OrderedMap{values: make(map[string]any)}
}

// Set appends key if new, or overwrites the value of an existing key
// in place (its position in Keys is unchanged).
func (m *OrderedMap) Set(key string, value any) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value for key and whether it was present.
func (m *OrderedMap) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in insertion order. Callers must not mutate
// the returned slice.
func (m *OrderedMap) Keys() []string {
	return m.keys
}

// Len returns the number of keys.
func (m *OrderedMap) Len() int {
	return len(m.keys)
}

// MarshalJSON renders m as a JSON object with keys in insertion
// order. Without this, encoding/json sees only OrderedMap's
// unexported fields and marshals it as "{}", silently dropping every
// argument a tool call carried.
func (m *OrderedMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')
		valBytes, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(valBytes)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object into m, preserving key order.
// It walks the token stream directly rather than delegating to
// encoding/json's map decoding, which would discard order the same
// way MarshalJSON exists to stop losing it on the way out.
func (m *OrderedMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	val, err := decodeJSONValue(dec, tok)
	if err != nil {
		return err
	}
	om, ok := val.(*OrderedMap)
	if !ok {
		return fmt.Errorf("probe: OrderedMap.UnmarshalJSON: expected a JSON object, got %T", val)
	}
	*m = *om
	return nil
}

// DecodeJSON parses data into frenum's value tree: *OrderedMap for
// objects (preserving key order, unlike map[string]any), []any for
// arrays, and scalars otherwise. It walks the token stream directly
// rather than unmarshaling into map[string]any, since the standard
// decoder discards object key order.
func DecodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeJSONValue(dec, tok)
}

func decodeJSONValue(dec *json.Decoder, tok json.Token) (any, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeJSONObject(dec)
		case '[':
			return decodeJSONArray(dec)
		}
		return nil, fmt.Errorf("probe: unexpected delimiter %q", t)
	case json.Number:
		f, err := strconv.ParseFloat(t.String(), 64)
		if err != nil {
			return nil, fmt.Errorf("probe: parse number %q: %w", t.String(), err)
		}
		return f, nil
	default:
		return tok, nil
	}
}

func decodeJSONObject(dec *json.Decoder) (any, error) {
	m := NewOrderedMap()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("probe: object key is not a string: %v", keyTok)
		}
		valTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		val, err := decodeJSONValue(dec, valTok)
		if err != nil {
			return nil, err
		}
		m.Set(key, val)
	}
	if _, err := dec.Token(); err != nil { // consume closing '}'
		return nil, err
	}
	return m, nil
}

func decodeJSONArray(dec *json.Decoder) (any, error) {
	out := []any{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		v, err := decodeJSONValue(dec, tok)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if _, err := dec.Token(); err != nil { // consume closing ']'
		return nil, err
	}
	return out, nil
}
