package workbook

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Record is a flat JSON object that remembers the order its keys were first seen in.
// Scalars decode to string, json.Number, bool or nil. Nested objects and arrays are kept
// as compact json.RawMessage.
type Record struct {
	keys   []string
	values map[string]interface{}
}

func NewRecord() *Record {
	return &Record{values: make(map[string]interface{})}
}

// Set stores value under key. A new key is appended, an existing one keeps its position.
func (r *Record) Set(key string, value interface{}) *Record {
	if r.values == nil {
		r.values = make(map[string]interface{})
	}
	if _, exists := r.values[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
	return r
}

func (r Record) Get(key string) (interface{}, bool) {
	value, ok := r.values[key]
	return value, ok
}

func (r Record) Keys() []string {
	return append([]string(nil), r.keys...)
}

func (r Record) Len() int {
	return len(r.keys)
}

func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("workbook: decoding record: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("workbook: record must be a JSON object")
	}

	r.keys = nil
	r.values = make(map[string]interface{})
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("workbook: decoding record key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("workbook: unexpected token %v in record", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("workbook: decoding value of %q: %w", key, err)
		}
		value, err := decodeValue(raw)
		if err != nil {
			return fmt.Errorf("workbook: decoding value of %q: %w", key, err)
		}
		r.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("workbook: decoding record end: %w", err)
	}
	return nil
}

func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		encodedKey, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(encodedKey)
		buf.WriteByte(':')
		encodedValue, err := json.Marshal(r.values[key])
		if err != nil {
			return nil, fmt.Errorf("workbook: encoding value of %q: %w", key, err)
		}
		buf.Write(encodedValue)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func decodeValue(raw json.RawMessage) (interface{}, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		var compacted bytes.Buffer
		if err := json.Compact(&compacted, trimmed); err != nil {
			return nil, err
		}
		return json.RawMessage(compacted.Bytes()), nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var value interface{}
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}
	return value, nil
}
