package expr

import (
	"errors"
	"math"
)

var (
	ErrDivisionByZero   = errors.New("division by zero")
	ErrOverflow         = errors.New("integer overflow")
	ErrNegativeExponent = errors.New("negative exponent")
)

func add(a, b int) (int, error) {
	if (b > 0 && a > math.MaxInt-b) || (b < 0 && a < math.MinInt-b) {
		return 0, ErrOverflow
	}
	return a + b, nil
}

func sub(a, b int) (int, error) {
	if (b < 0 && a > math.MaxInt+b) || (b > 0 && a < math.MinInt+b) {
		return 0, ErrOverflow
	}
	return a - b, nil
}

func mul(a, b int) (int, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	if (a == -1 && b == math.MinInt) || (b == -1 && a == math.MinInt) {
		return 0, ErrOverflow
	}
	c := a * b
	if c/b != a {
		return 0, ErrOverflow
	}
	return c, nil
}

func neg(a int) (int, error) {
	if a == math.MinInt {
		return 0, ErrOverflow
	}
	return -a, nil
}

// floorDiv rounds the quotient toward negative infinity: -7 / 2 == -4.
func floorDiv(a, b int) (int, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	if a == math.MinInt && b == -1 {
		return 0, ErrOverflow
	}
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q, nil
}

// floorMod takes the sign of the divisor: -7 % 3 == 2, 7 % -3 == -2.
func floorMod(a, b int) (int, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	if b == -1 {
		return 0, nil
	}
	r := a % b
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}
	return r, nil
}

func pow(base, exp int) (int, error) {
	if exp < 0 {
		return 0, ErrNegativeExponent
	}
	result := 1
	for exp > 0 {
		var err error
		if exp&1 == 1 {
			if result, err = mul(result, base); err != nil {
				return 0, err
			}
		}
		exp >>= 1
		if exp > 0 {
			if base, err = mul(base, base); err != nil {
				return 0, err
			}
		}
	}
	return result, nil
}

func abs(a int) (int, error) {
	if a < 0 {
		return neg(a)
	}
	return a, nil
}

func sign(a int) int {
	switch {
	case a > 0:
		return 1
	case a < 0:
		return -1
	default:
		return 0
	}
}

func truth(b bool) int {
	if b {
		return 1
	}
	return 0
}
