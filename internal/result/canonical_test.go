package result

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalSortsKeys(t *testing.T) {
	out, err := MarshalCanonical(map[string]any{
		"zebra": 1,
		"apple": 2,
		"mango": 3,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"apple":2,"mango":3,"zebra":1}`, string(out))
}

func TestMarshalCanonicalUTF16KeyOrder(t *testing.T) {
	// UTF-16 code unit ordering: uppercase before lowercase.
	out, err := MarshalCanonical(map[string]any{
		"a": 1, "A": 2, "AA": 3, "aa": 4,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"A":2,"AA":3,"a":1,"aa":4}`, string(out))
}

func TestMarshalCanonicalNoHTMLEscape(t *testing.T) {
	out, err := MarshalCanonical(map[string]any{"q": "a<b&c>d"})
	require.NoError(t, err)
	assert.Equal(t, `{"q":"a<b&c>d"}`, string(out))
}

func TestMarshalCanonicalNumbers(t *testing.T) {
	out, err := MarshalCanonical(map[string]any{
		"int":   int64(42),
		"float": 0.75,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"float":0.75,"int":42}`, string(out))
}

func TestMarshalCanonicalNull(t *testing.T) {
	out, err := MarshalCanonical(map[string]any{"missing": nil})
	require.NoError(t, err)
	assert.Equal(t, `{"missing":null}`, string(out))
}

func TestMarshalCanonicalResultEnvelope(t *testing.T) {
	// omitempty applies before canonicalization: absent trust fields
	// never appear in canonical output.
	out, err := MarshalCanonical(OK(map[string]any{"id": int64(1)}))
	require.NoError(t, err)
	assert.Equal(t, `{"data":{"id":1},"success":true}`, string(out))
}

func TestMarshalCanonicalStable(t *testing.T) {
	v := map[string]any{"b": []any{1, "two", true}, "a": map[string]any{"x": nil}}
	first, err := MarshalCanonical(v)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := MarshalCanonical(v)
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again))
	}
}
