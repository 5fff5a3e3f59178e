package user

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

var (
	ErrUpdateNotObject = errors.New("update body must be a JSON object")
	ErrTrailingData    = errors.New("unexpected data after the JSON object")
)

// ParseUpdate decodes a PUT body. Integral numbers come back as int64 so a
// rewritten user_id keeps matching integer lookups.
func ParseUpdate(raw []byte) (Update, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, ErrTrailingData
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, ErrUpdateNotObject
	}

	return Update(normalizeNumbers(obj).(map[string]any)), nil
}

func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, _ := t.Float64()
		return f
	case map[string]any:
		for k, val := range t {
			t[k] = normalizeNumbers(val)
		}
		return t
	case []any:
		for i, val := range t {
			t[i] = normalizeNumbers(val)
		}
		return t
	default:
		return v
	}
}
