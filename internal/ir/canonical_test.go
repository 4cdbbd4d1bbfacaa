package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalSortedKeys(t *testing.T) {
	obj := IRObject{
		"type":      IRString("loop"),
		"body":      IRObject{"z": IRInt(1), "a": IRBool(true)},
		"condition": IRString("c1"),
	}

	data, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"body":{"a":true,"z":1},"condition":"c1","type":"loop"}`, string(data))
}

func TestMarshalCanonicalArrays(t *testing.T) {
	arr := IRArray{
		IRArray{IRString("0"), IRString("v"), IRString("hold")},
		IRArray{},
	}

	data, err := MarshalCanonical(arr)
	require.NoError(t, err)
	assert.Equal(t, `[["0","v","hold"],[]]`, string(data))
}

func TestMarshalCanonicalNoHTMLEscape(t *testing.T) {
	data, err := MarshalCanonical(IRString("<a & b>"))
	require.NoError(t, err)
	assert.Equal(t, `"<a & b>"`, string(data))
}

func TestMarshalCanonicalU2028NotEscaped(t *testing.T) {
	data, err := MarshalCanonical(IRString("a b c"))
	require.NoError(t, err)
	assert.Equal(t, "\"a b c\"", string(data))
}

func TestMarshalCanonicalControlCharacters(t *testing.T) {
	data, err := MarshalCanonical(IRString("q\"b\\n\nt\t\x01"))
	require.NoError(t, err)
	assert.Equal(t, `"q\"b\\n\nt\t\u0001"`, string(data))
}

func TestMarshalCanonicalPreservesStringContent(t *testing.T) {
	// "e" + combining acute accent must not be composed to U+00E9
	for _, s := range []string{"e\u0301", "\u00e9"} {
		data, err := MarshalCanonical(IRObject{s: IRString(s)})
		require.NoError(t, err)
		assert.Equal(t, "{\""+s+"\":\""+s+"\"}", string(data))

		back, err := UnmarshalIRObject(data)
		require.NoError(t, err)
		assert.Equal(t, IRObject{s: IRString(s)}, back)
	}
}

func TestMarshalCanonicalRejectsNil(t *testing.T) {
	_, err := MarshalCanonical(IRObject{"body": nil})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"body"`)
}

func TestMarshalCanonicalIdempotent(t *testing.T) {
	obj := IRObject{"entries": IRArray{IRInt(-4), IRBool(false)}, "name": IRString("x")}

	first, err := MarshalCanonical(obj)
	require.NoError(t, err)

	decoded, err := UnmarshalIRObject(first)
	require.NoError(t, err)

	second, err := MarshalCanonical(decoded)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
