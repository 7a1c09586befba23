package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// Pair is one key/value entry of a Record.
type Pair struct {
	Key   string
	Value Value
}

// P is a shorthand for Pair.
// Example: NewRecord(P("name", Text("Ana")), P("age", Int(30)))
func P(key string, v Value) Pair {
	return Pair{Key: key, Value: v}
}

// Record is an insertion-ordered mapping of column name to Value.
// It is used for column/value maps, credentials and result rows alike;
// the order drives column and placeholder order in generated statements.
type Record []Pair

// NewRecord builds a Record from pairs. A repeated key overwrites the
// earlier value in place.
func NewRecord(pairs ...Pair) Record {
	var r Record
	for _, p := range pairs {
		r = r.With(p.Key, p.Value)
	}
	return r
}

// FromMap converts a native map. Go maps have no order, so keys are sorted.
func FromMap(m map[string]any) (Record, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	r := make(Record, 0, len(keys))
	for _, k := range keys {
		v, err := Of(m[k])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		r = append(r, Pair{Key: k, Value: v})
	}
	return r, nil
}

// Len returns the number of entries.
func (r Record) Len() int {
	return len(r)
}

// Get returns the value stored under key.
func (r Record) Get(key string) (Value, bool) {
	for _, p := range r {
		if p.Key == key {
			return p.Value, true
		}
	}
	return nil, false
}

// Has reports whether key is present.
func (r Record) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// Keys returns the keys in order.
func (r Record) Keys() []string {
	keys := make([]string, len(r))
	for i, p := range r {
		keys[i] = p.Key
	}
	return keys
}

// With returns a copy of r with key set to v. An existing key keeps its
// position; a new key is appended.
func (r Record) With(key string, v Value) Record {
	out := make(Record, len(r), len(r)+1)
	copy(out, r)
	for i := range out {
		if out[i].Key == key {
			out[i].Value = v
			return out
		}
	}
	return append(out, Pair{Key: key, Value: v})
}

// Without returns a copy of r with key removed.
func (r Record) Without(key string) Record {
	out := make(Record, 0, len(r))
	for _, p := range r {
		if p.Key != key {
			out = append(out, p)
		}
	}
	return out
}

// Equal reports whether both records hold the same keys, in the same order,
// with equal values.
func (r Record) Equal(other Record) bool {
	if len(r) != len(other) {
		return false
	}
	for i := range r {
		if r[i].Key != other[i].Key || !Equal(r[i].Value, other[i].Value) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes r as a JSON object preserving key order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(p.Key)
		if err != nil {
			return nil, fmt.Errorf("marshal key %q: %w", p.Key, err)
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')

		valBytes, err := json.Marshal(Native(p.Value))
		if err != nil {
			return nil, fmt.Errorf("marshal value for key %q: %w", p.Key, err)
		}
		buf.Write(valBytes)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a flat JSON object preserving key order.
// Nested objects and arrays are rejected: columns hold scalars only.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("record must be a JSON object")
	}

	out := Record{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected object key %v", keyTok)
		}

		valTok, err := dec.Token()
		if err != nil {
			return err
		}
		if _, nested := valTok.(json.Delim); nested {
			return fmt.Errorf("key %q: nested values are not supported", key)
		}
		v, err := Of(valTok)
		if err != nil {
			return fmt.Errorf("key %q: %w", key, err)
		}
		out = out.With(key, v)
	}

	// Consume the closing brace and make sure nothing trails it.
	if _, err := dec.Token(); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("unexpected data after record")
	}

	*r = out
	return nil
}
