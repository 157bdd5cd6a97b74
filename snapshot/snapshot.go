// Package snapshot stores a generator state as a small JSON document:
//
//	{
//		"a": "0x1b517aa6",
//		"b": "0x0d3d55a3",
//		"c": "0x44d68d47",
//		"d": "0x7a484bc9"
//	}
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/fysac/ranctx/jsf"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var keys = []string{"a", "b", "c", "d"}

var (
	ErrMissingWord  = errors.New("state word missing")
	ErrDuplicateKey = errors.New("duplicate key in state")
)

func ToJSON(s jsf.State) ([]byte, error) {
	// Use orderedmap so the words always come out as a, b, c, d.
	m := orderedmap.New[string, string]()
	for i, w := range words(&s) {
		m.Set(keys[i], fmt.Sprintf("0x%08x", *w))
	}

	b, err := m.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err = json.Indent(&buf, b, "", "\t"); err != nil {
		return nil, err
	}
	buf.WriteString("\n")
	return buf.Bytes(), nil
}

// FromJSON accepts hex (0x prefixed) or decimal words.
func FromJSON(b []byte) (jsf.State, error) {
	var s jsf.State

	m := orderedmap.New[string, string]()
	if err := m.UnmarshalJSON(b); err != nil {
		return s, err
	}
	if err := checkKeys(b, m); err != nil {
		return s, err
	}

	for i, w := range words(&s) {
		v, present := m.Get(keys[i])
		if !present {
			return s, fmt.Errorf("%w: %v", ErrMissingWord, keys[i])
		}
		n, err := strconv.ParseUint(v, 0, 32)
		if err != nil {
			return s, fmt.Errorf("state word %v: %w", keys[i], err)
		}
		*w = uint32(n)
	}
	return s, nil
}

func words(s *jsf.State) []*uint32 {
	return []*uint32{&s.A, &s.B, &s.C, &s.D}
}

// checkKeys rejects unknown keys and repeated ones. UnmarshalJSON keeps only the
// last value of a repeated key, so repeats are counted with a token walk of b.
func checkKeys(b []byte, m *orderedmap.OrderedMap[string, string]) error {
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		if !known(pair.Key) {
			return fmt.Errorf("unknown key in state: %v", pair.Key)
		}
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	if _, err := dec.Token(); err != nil {
		return err
	}
	seen := make(map[string]bool, len(keys))
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		if seen[key] {
			return fmt.Errorf("%w: %v", ErrDuplicateKey, key)
		}
		seen[key] = true
		// Skip the value.
		if _, err := dec.Token(); err != nil {
			return err
		}
	}
	return nil
}

func known(key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
