package wei

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
)

// ---------------------------------------------------------------------------
// Wei value parser — exact decimal/scientific-notation strings to big.Int
// ---------------------------------------------------------------------------

// pow10CacheSize bounds the precomputed powers-of-ten table. Shifts at or
// beyond the bound are computed on demand.
const pow10CacheSize = 60

var (
	// ErrInvalidCharacter reports a token outside the accepted value grammar.
	ErrInvalidCharacter = errors.New("wei: invalid character in value")

	// ErrNonIntegral reports a value with a nonzero fractional Wei amount.
	ErrNonIntegral = errors.New("wei: value is not a whole number of wei")
)

var ten = big.NewInt(10)

// Parser converts numeric strings (integer, decimal, or scientific notation)
// into exact arbitrary-precision Wei integers. A Parser is reusable across
// many calls and keeps no per-call state between invocations. It is not safe
// for concurrent use.
type Parser struct {
	pow10 [pow10CacheSize]*big.Int

	// Scratch values reused between calls.
	mantissa big.Int
	digit    big.Int
	rem      big.Int
}

// NewParser creates a parser with the powers-of-ten cache precomputed.
func NewParser() *Parser {
	p := &Parser{}
	p.pow10[0] = big.NewInt(1)
	for i := 1; i < pow10CacheSize; i++ {
		p.pow10[i] = new(big.Int).Mul(p.pow10[i-1], ten)
	}
	return p
}

// Parse converts s into an exact Wei integer.
//
// Accepted grammar: an optional leading sign, a run of digits with at most
// one decimal point, and an optional e/E followed by a signed integer
// exponent. The result is the exact mathematical value; a value that is not
// integral after applying the exponent fails with ErrNonIntegral rather than
// being rounded. A leading sign is tolerated but the result is the digit
// magnitude.
func (p *Parser) Parse(s string) (*big.Int, error) {
	mantissaEnd := len(s)
	expStart := -1
	for i := 0; i < len(s); i++ {
		if s[i] == 'e' || s[i] == 'E' {
			mantissaEnd = i
			expStart = i + 1
			break
		}
	}

	p.mantissa.SetInt64(0)
	var decimalPlaces int64
	dotSeen := false
	hasDigits := false

	for i := 0; i < mantissaEnd; i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			hasDigits = true
			p.digit.SetInt64(int64(c - '0'))
			p.mantissa.Mul(&p.mantissa, ten)
			p.mantissa.Add(&p.mantissa, &p.digit)
			if dotSeen {
				decimalPlaces++
			}
		case c == '.' && !dotSeen:
			dotSeen = true
		case (c == '+' || c == '-') && i == 0:
			// Sign at the beginning is allowed but not applied.
		default:
			return nil, fmt.Errorf("%w: %q at offset %d", ErrInvalidCharacter, c, i)
		}
	}

	if !hasDigits {
		return nil, fmt.Errorf("%w: no digits in %q", ErrInvalidCharacter, s)
	}

	var exponent int64
	if expStart >= 0 {
		v, err := strconv.ParseInt(s[expStart:], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad exponent %q", ErrInvalidCharacter, s[expStart:])
		}
		exponent = v
	}

	finalShift := exponent - decimalPlaces
	out := new(big.Int)

	switch {
	case finalShift > 0:
		out.Mul(&p.mantissa, p.powerOfTen(finalShift))
	case finalShift < 0:
		out.QuoRem(&p.mantissa, p.powerOfTen(-finalShift), &p.rem)
		if p.rem.Sign() != 0 {
			return nil, fmt.Errorf("%w: %q", ErrNonIntegral, s)
		}
	default:
		out.Set(&p.mantissa)
	}

	return out, nil
}

// powerOfTen returns 10^n for n >= 0, served from the cache when possible.
func (p *Parser) powerOfTen(n int64) *big.Int {
	if n < pow10CacheSize {
		return p.pow10[n]
	}
	return new(big.Int).Exp(ten, big.NewInt(n), nil)
}
