package seed

import (
	"bytes"
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromHex(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expect   string
		hasError bool
	}{
		{
			name:   "prefixed",
			input:  "0x2a",
			expect: "0x000000000000000000000000000000000000000000000000000000000000002a",
		},
		{
			name:   "bare",
			input:  "2a",
			expect: "0x000000000000000000000000000000000000000000000000000000000000002a",
		},
		{
			name:   "odd nibble count",
			input:  "0xabc",
			expect: "0x0000000000000000000000000000000000000000000000000000000000000abc",
		},
		{
			name:   "full width",
			input:  "0x" + "ff00000000000000000000000000000000000000000000000000000000000001",
			expect: "0xff00000000000000000000000000000000000000000000000000000000000001",
		},
		{
			name:     "empty",
			input:    "",
			hasError: true,
		},
		{
			name:     "too long",
			input:    "0x01ff00000000000000000000000000000000000000000000000000000000000001",
			hasError: true,
		},
		{
			name:     "not hex",
			input:    "0xzz",
			hasError: true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			actual, err := FromHex(testCase.input)
			if testCase.hasError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.expect, actual.String())
		})
	}
}

func TestFromUint64(t *testing.T) {
	s := FromUint64(12345)
	assert.Equal(t, "0x0000000000000000000000000000000000000000000000000000000000003039", s.String())
	assert.Equal(t, uint64(12345), s.Mod(1<<63))
	assert.False(t, s.IsZero())
	assert.True(t, Seed{}.IsZero())
}

func TestFromBytes(t *testing.T) {
	data := bytes.Repeat([]byte{0x5a}, Size)
	s, err := FromBytes(data)
	require.NoError(t, err)
	assert.Equal(t, data, s.Bytes())

	_, err = FromBytes(data[:31])
	assert.Error(t, err)
}

func TestSeed_Mod(t *testing.T) {
	testCases := []struct {
		name string
		seed Seed
		n    uint64
	}{
		{name: "small value", seed: FromUint64(12345), n: 10},
		{name: "one", seed: FromUint64(987654321), n: 1},
		{name: "max uint64 modulus", seed: mustHex(t, "0xfffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffe"), n: 1<<64 - 1},
		{name: "large modulus", seed: mustHex(t, "0x8000000000000000000000000000000000000000000000000000000000000000"), n: 1<<63 + 11},
		{name: "all bits set", seed: mustHex(t, "0xffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"), n: 6},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			value := new(big.Int).SetBytes(testCase.seed.Bytes())
			expect := new(big.Int).Mod(value, new(big.Int).SetUint64(testCase.n)).Uint64()
			assert.Equal(t, expect, testCase.seed.Mod(testCase.n))
		})
	}
}

func TestSeed_Text(t *testing.T) {
	original := FromUint64(77)
	data, err := json.Marshal(original)
	require.NoError(t, err)
	assert.Equal(t, `"`+original.String()+`"`, string(data))

	var decoded Seed
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, original, decoded)
}

func TestRandom(t *testing.T) {
	source := bytes.NewReader(bytes.Repeat([]byte{7}, Size))
	s, err := Random(source)
	require.NoError(t, err)
	assert.Equal(t, bytes.Repeat([]byte{7}, Size), s.Bytes())

	_, err = Random(bytes.NewReader([]byte{1, 2, 3}))
	assert.Error(t, err)
}

func mustHex(t *testing.T, text string) Seed {
	t.Helper()
	s, err := FromHex(text)
	require.NoError(t, err)
	return s
}
