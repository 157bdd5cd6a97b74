package snapshot

import (
	"testing"

	"github.com/fysac/ranctx/jsf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedZeroJSON = "{\n\t\"a\": \"0x1b517aa6\",\n\t\"b\": \"0x0d3d55a3\",\n\t\"c\": \"0x44d68d47\",\n\t\"d\": \"0x7a484bc9\"\n}\n"

func TestToJSON(t *testing.T) {
	b, err := ToJSON(jsf.Init(0).State())
	require.NoError(t, err)
	assert.Equal(t, seedZeroJSON, string(b))
}

func TestFromJSON(t *testing.T) {
	s, err := FromJSON([]byte(seedZeroJSON))
	require.NoError(t, err)
	assert.Equal(t, jsf.Init(0).State(), s)

	// Key order and number base don't matter on the way in.
	s, err = FromJSON([]byte(`{"d": "4", "c": "0x3", "b": "2", "a": "0x00000001"}`))
	require.NoError(t, err)
	assert.Equal(t, jsf.State{A: 1, B: 2, C: 3, D: 4}, s)
}

func TestFromJSONErrors(t *testing.T) {
	tests := map[string]string{
		"not json":      `a=1`,
		"missing word":  `{"a": "1", "b": "2", "c": "3"}`,
		"unknown key":   `{"a": "1", "b": "2", "c": "3", "d": "4", "e": "5"}`,
		"out of range":  `{"a": "0x100000000", "b": "2", "c": "3", "d": "4"}`,
		"negative":      `{"a": "-1", "b": "2", "c": "3", "d": "4"}`,
		"garbage value": `{"a": "one", "b": "2", "c": "3", "d": "4"}`,
		"duplicate key": `{"a": "1", "a": "9", "b": "2", "c": "3", "d": "4"}`,
	}
	for name, in := range tests {
		_, err := FromJSON([]byte(in))
		assert.Error(t, err, name)
	}

	_, err := FromJSON([]byte(`{"a": "1", "b": "2", "d": "4"}`))
	assert.ErrorIs(t, err, ErrMissingWord)

	// The repeated key must not win even when it comes last.
	_, err = FromJSON([]byte(`{"a": "1", "b": "2", "c": "3", "d": "4", "a": "9"}`))
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestResume(t *testing.T) {
	x := jsf.Init(0x20131224)
	for i := 0; i < 17; i++ {
		x.Next()
	}
	b, err := ToJSON(x.State())
	require.NoError(t, err)

	s, err := FromJSON(b)
	require.NoError(t, err)
	y := jsf.FromState(s)
	for i := 0; i < 100; i++ {
		require.Equal(t, x.Next(), y.Next())
	}
}

func FuzzFromJSON(f *testing.F) {
	f.Add([]byte(seedZeroJSON))
	f.Add([]byte(`{"a": "1"}`))
	f.Fuzz(func(t *testing.T, b []byte) {
		s, err := FromJSON(b)
		if err != nil {
			return
		}
		out, err := ToJSON(s)
		if err != nil {
			t.Fatalf("to json: %v", err)
		}
		again, err := FromJSON(out)
		if err != nil || again != s {
			t.Fatalf("state did not survive a round trip: %v", err)
		}
	})
}
