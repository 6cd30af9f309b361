package wei

import (
	"errors"
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_Integers(t *testing.T) {
	p := NewParser()

	for _, in := range []string{
		"0",
		"7",
		"123456789",
		"1000000000000000000", // 1 ETH in wei
		"115792089237316195423570985008687907853269984665640564039457584007913129639935",
	} {
		got, err := p.Parse(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, in, got.String(), "input %q", in)
	}

	got, err := p.Parse("+5")
	require.NoError(t, err)
	assert.Equal(t, "5", got.String())
}

func TestParser_SignIsNotApplied(t *testing.T) {
	p := NewParser()

	// The original parser tolerates a leading sign but builds the value from
	// the digit magnitude only.
	got, err := p.Parse("-42")
	require.NoError(t, err)
	assert.Equal(t, "42", got.String())
}

func TestParser_DecimalsAndExponents(t *testing.T) {
	p := NewParser()

	cases := map[string]string{
		"1.50e2":   "150",
		"150e-1":   "15",
		"0.000":    "0",
		"12e18":    "12000000000000000000",
		"1.5e1":    "15",
		".5e1":     "5",
		"2.5E3":    "2500",
		"1e+2":     "100",
		"4.20e2":   "420",
		"0.001e3":  "1",
		"7e0":      "7",
		"123.000":  "123",
		"9.87e20":  "987000000000000000000",
		"1e60":     "1" + zeros(60), // beyond the pow10 cache bound
		"5.5e61":   "55" + zeros(60),
		"1000e-3":  "1",
		"12300e-2": "123",
	}

	for in, want := range cases {
		got, err := p.Parse(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, got.String(), "input %q", in)
	}
}

func TestParser_NonIntegral(t *testing.T) {
	p := NewParser()

	for _, in := range []string{"1.5", "1.23e1", "0.1", "999e-1", "1.000001e3"} {
		_, err := p.Parse(in)
		require.Error(t, err, "input %q", in)
		assert.True(t, errors.Is(err, ErrNonIntegral), "input %q: got %v", in, err)
	}
}

func TestParser_InvalidInput(t *testing.T) {
	p := NewParser()

	for _, in := range []string{
		"", "abc", "12.3.4", "1 2", "1e", "1e2.5", "1e--2",
		"--1", "1-1", "0x10", ".", "e5", "+e5", "1_000",
	} {
		_, err := p.Parse(in)
		require.Error(t, err, "input %q", in)
		assert.True(t, errors.Is(err, ErrInvalidCharacter), "input %q: got %v", in, err)
	}
}

func TestParser_NoResidueBetweenCalls(t *testing.T) {
	p := NewParser()

	first, err := p.Parse("987654321")
	require.NoError(t, err)

	_, err = p.Parse("1.5")
	require.Error(t, err)

	second, err := p.Parse("987654321")
	require.NoError(t, err)
	assert.Zero(t, first.Cmp(second))

	got, err := p.Parse("1")
	require.NoError(t, err)
	assert.Equal(t, "1", got.String())
}

// TestParser_DecimalOracle cross-checks integral inputs against
// shopspring/decimal as an independent implementation.
func TestParser_DecimalOracle(t *testing.T) {
	p := NewParser()

	inputs := []string{
		"0", "17", "1.50e2", "150e-1", "12e18", "3.14e2",
		"123456789123456789", "0.5e1", "42000e-3", "9e27",
	}

	for _, in := range inputs {
		want, err := decimal.NewFromString(in)
		require.NoError(t, err, "oracle rejected %q", in)
		require.True(t, want.IsInteger(), "oracle says %q is not integral", in)

		got, err := p.Parse(in)
		require.NoError(t, err, "input %q", in)
		assert.Zero(t, got.Cmp(want.BigInt()), "input %q: got %s want %s", in, got, want)
	}
}

func TestParser_ResultIsCallerOwned(t *testing.T) {
	p := NewParser()

	a, err := p.Parse("100")
	require.NoError(t, err)
	b, err := p.Parse("200")
	require.NoError(t, err)

	a.Add(a, big.NewInt(1))
	assert.Equal(t, "101", a.String())
	assert.Equal(t, "200", b.String())
}

func zeros(n int) string {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = '0'
	}
	return string(buf)
}
