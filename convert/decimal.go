// --------------------------------------------------------------------------------
// Author: Thomas F McGeehan V
//
// This file is part of a software project developed by Thomas F McGeehan V.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//
// For more information about the MIT License, please visit:
// https://opensource.org/licenses/MIT
//
// Acknowledgment appreciated but not required.
// --------------------------------------------------------------------------------

package convert

import (
	"fmt"
	"math/big"
)

// ParseUnscaled decodes a fixed-point decimal transported as a digit
// string (optionally signed, optionally containing one decimal point) into
// its exact unscaled integer magnitude at the declared scale. No floating
// point is involved, so "123.4" at scale 2 decodes to 12340 exactly.
func ParseUnscaled(text []byte, precision, scale int) (*big.Int, error) {
	s := trimSpace(text)
	if len(s) == 0 {
		return nil, fmt.Errorf("empty decimal text")
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	if len(s) == 0 {
		return nil, fmt.Errorf("decimal text %q has no digits", text)
	}

	// Collect digits, dropping the single permitted decimal point and
	// counting the fractional digits that follow it.
	digits := make([]byte, 0, len(s))
	fracDigits := -1
	for _, c := range s {
		switch {
		case c == '.':
			if fracDigits >= 0 {
				return nil, fmt.Errorf("decimal text %q has multiple decimal points", text)
			}
			fracDigits = 0
		case c >= '0' && c <= '9':
			digits = append(digits, c)
			if fracDigits >= 0 {
				fracDigits++
			}
		default:
			return nil, fmt.Errorf("decimal text %q contains non-digit byte %q", text, c)
		}
	}
	if fracDigits < 0 {
		fracDigits = 0
	}
	if len(digits) == 0 {
		return nil, fmt.Errorf("decimal text %q has no digits", text)
	}
	if fracDigits > scale {
		return nil, fmt.Errorf("decimal text %q has %d fractional digits, column scale is %d",
			text, fracDigits, scale)
	}

	// Pad to the declared scale so the unscaled magnitude is exact.
	for i := fracDigits; i < scale; i++ {
		digits = append(digits, '0')
	}

	n, ok := new(big.Int).SetString(string(digits), 10)
	if !ok {
		return nil, fmt.Errorf("decimal text %q did not parse", text)
	}
	if n.Cmp(pow10(precision)) >= 0 {
		return nil, fmt.Errorf("decimal text %q exceeds declared precision %d", text, precision)
	}
	if neg {
		n.Neg(n)
	}
	return n, nil
}

// Powers of ten up to the widest supported precision, precomputed so
// concurrent transfers can share them.
var pow10Table [40]*big.Int

func init() {
	v := big.NewInt(1)
	for i := range pow10Table {
		pow10Table[i] = new(big.Int).Set(v)
		v.Mul(v, big.NewInt(10))
	}
}

func pow10(n int) *big.Int {
	if n < 0 || n >= len(pow10Table) {
		return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
	}
	return pow10Table[n]
}

func trimSpace(b []byte) []byte {
	for len(b) > 0 && (b[0] == ' ' || b[0] == '\t') {
		b = b[1:]
	}
	for len(b) > 0 && (b[len(b)-1] == ' ' || b[len(b)-1] == '\t' || b[len(b)-1] == 0) {
		b = b[:len(b)-1]
	}
	return b
}
