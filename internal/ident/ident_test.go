package ident

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical_SortsKeys(t *testing.T) {
	data, err := MarshalCanonical(map[string]string{
		"source": "gcd.c",
		"expect": "16",
		"input":  "",
	})
	require.NoError(t, err)
	assert.Equal(t, `{"expect":"16","input":"","source":"gcd.c"}`, string(data))
}

func TestMarshalCanonical_Empty(t *testing.T) {
	data, err := MarshalCanonical(map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
}

func TestMarshalCanonical_NoHTMLEscaping(t *testing.T) {
	data, err := MarshalCanonical(map[string]string{"name": "a<b && c>d"})
	require.NoError(t, err)
	assert.Equal(t, `{"name":"a<b && c>d"}`, string(data))
}

func TestMarshalCanonical_NFC(t *testing.T) {
	// "é" as e + combining acute accent normalizes to the precomposed form,
	// in keys and values alike.
	decomposed, err := MarshalCanonical(map[string]string{"e\u0301": "e\u0301"})
	require.NoError(t, err)
	precomposed, err := MarshalCanonical(map[string]string{"\u00e9": "\u00e9"})
	require.NoError(t, err)
	assert.Equal(t, precomposed, decomposed)
}

func TestMarshalCanonical_LineSeparators(t *testing.T) {
	data, err := MarshalCanonical(map[string]string{"s": "a\u2028b\u2029c"})
	require.NoError(t, err)
	assert.Equal(t, "{\"s\":\"a\u2028b\u2029c\"}", string(data))

	// A literal backslash followed by "u2028" stays escaped.
	data, err = MarshalCanonical(map[string]string{"s": `x\u2028`})
	require.NoError(t, err)
	assert.Equal(t, `{"s":"x\\u2028"}`, string(data))
}

func TestSortedKeys_UTF16Order(t *testing.T) {
	// U+FF61 sorts before U+1F600 in UTF-8 byte order but after it in
	// UTF-16, where the emoji is a surrogate pair starting 0xD83D.
	keys := sortedKeys(map[string]string{"\U0001F600": "1", "\uff61": "2", "a": "3"})
	assert.Equal(t, []string{"a", "\U0001F600", "\uff61"}, keys)
}

func TestCaseID_Deterministic(t *testing.T) {
	spec := CaseSpec{Name: "factorial", Source: "factorial.c", Expect: []byte("120")}

	id1, err := CaseID(spec)
	require.NoError(t, err)
	id2, err := CaseID(spec)
	require.NoError(t, err)

	assert.Equal(t, id1, id2)
	assert.Len(t, id1, 64)
}

func TestCaseID_DistinguishesFields(t *testing.T) {
	base := CaseSpec{Name: "io", Source: "io.c", Input: "io.c.in", Expect: []byte("5")}
	baseID, err := CaseID(base)
	require.NoError(t, err)

	variants := []CaseSpec{
		{Name: "io2", Source: "io.c", Input: "io.c.in", Expect: []byte("5")},
		{Name: "io", Source: "io2.c", Input: "io.c.in", Expect: []byte("5")},
		{Name: "io", Source: "io.c", Input: "", Expect: []byte("5")},
		{Name: "io", Source: "io.c", Input: "io.c.in", Expect: []byte("5\n")},
	}
	for _, v := range variants {
		id, err := CaseID(v)
		require.NoError(t, err)
		assert.NotEqual(t, baseID, id, "%+v", v)
	}
}

func TestCaseID_InvalidUTF8Expect(t *testing.T) {
	a, err := CaseID(CaseSpec{Name: "bin", Source: "bin.c", Expect: []byte{0xff}})
	require.NoError(t, err)
	b, err := CaseID(CaseSpec{Name: "bin", Source: "bin.c", Expect: []byte{0xfe}})
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
