package valutatrade

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// orderedObject builds a JSON object whose properties keep their insertion order,
// so that persisted documents diff cleanly. Its zero value is an empty object.
type orderedObject struct {
	keys   []string
	values []json.RawMessage
	err    error
}

// Append adds a property. The value is marshaled with json.Marshal; the first
// failure is kept and reported by MarshalJSON.
func (o *orderedObject) Append(key string, value any) *orderedObject {
	if o.err != nil {
		return o
	}
	raw, err := json.Marshal(value)
	if err != nil {
		o.err = fmt.Errorf("property %q: %w", key, err)
		return o
	}
	o.keys = append(o.keys, key)
	o.values = append(o.values, raw)
	return o
}

// Len returns the number of properties.
func (o *orderedObject) Len() int { return len(o.keys) }

func (o *orderedObject) MarshalJSON() ([]byte, error) {
	if o.err != nil {
		return nil, o.err
	}
	var b bytes.Buffer
	b.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		k, _ := json.Marshal(key)
		b.Write(k)
		b.WriteByte(':')
		b.Write(o.values[i])
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}
