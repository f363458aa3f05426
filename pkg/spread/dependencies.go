package spread

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
)

// Dependencies is an insertion-ordered mapping from a name (package name or
// spread reference) to a version requirement.
//
// The zero value is an empty, ready-to-use mapping.
type Dependencies struct {
	keys   []string
	values map[string]string
}

// NewDependencies builds Dependencies from alternating name, version pairs.
// It panics on an odd number of arguments.
func NewDependencies(pairs ...string) Dependencies {
	if len(pairs)%2 != 0 {
		panic("spread: NewDependencies needs name/version pairs")
	}
	var d Dependencies
	for i := 0; i < len(pairs); i += 2 {
		d.Set(pairs[i], pairs[i+1])
	}
	return d
}

// Len returns the number of entries.
func (d Dependencies) Len() int { return len(d.keys) }

// Get returns the requirement for name.
func (d Dependencies) Get(name string) (string, bool) {
	v, ok := d.values[name]
	return v, ok
}

// Set inserts or replaces name. Replacing keeps the original position.
func (d *Dependencies) Set(name, req string) {
	if d.values == nil {
		d.values = make(map[string]string)
	}
	if _, exists := d.values[name]; !exists {
		d.keys = append(d.keys, name)
	}
	d.values[name] = req
}

// Delete removes name if present.
func (d *Dependencies) Delete(name string) {
	if _, ok := d.values[name]; !ok {
		return
	}
	delete(d.values, name)
	for i, k := range d.keys {
		if k == name {
			d.keys = append(d.keys[:i:i], d.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the names in declaration order.
func (d Dependencies) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// All iterates name, requirement pairs in declaration order.
func (d Dependencies) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, k := range d.keys {
			if !yield(k, d.values[k]) {
				return
			}
		}
	}
}

// Clone returns an independent copy.
func (d Dependencies) Clone() Dependencies {
	var c Dependencies
	for k, v := range d.All() {
		c.Set(k, v)
	}
	return c
}

// Map returns an unordered copy.
func (d Dependencies) Map() map[string]string {
	out := make(map[string]string, len(d.keys))
	for k, v := range d.All() {
		out[k] = v
	}
	return out
}

// IsZero reports whether d has no entries. It lets encoding/json's
// omitzero drop empty maps.
func (d Dependencies) IsZero() bool { return len(d.keys) == 0 }

// MarshalJSON writes the entries as a JSON object in declaration order.
func (d Dependencies) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(d.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object of string values, keeping key order.
// A JSON null leaves d empty. Duplicate keys keep their first position and
// last value, matching how JavaScript object literals behave.
func (d *Dependencies) UnmarshalJSON(data []byte) error {
	*d = Dependencies{}
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("dependencies: expected object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("dependencies: expected string key, got %v", tok)
		}
		var val string
		if err := dec.Decode(&val); err != nil {
			return fmt.Errorf("dependencies: value for %q: %w", key, err)
		}
		d.Set(key, val)
	}

	_, err = dec.Token()
	return err
}
