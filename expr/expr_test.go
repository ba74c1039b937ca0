package expr

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile_Eval(t *testing.T) {
	tests := []struct {
		src  string
		x    int
		want int
	}{
		{"x * x", 3, 9},
		{"x+1", 41, 42},
		{"2 + 3 * x", 4, 14},
		{"(2 + 3) * x", 4, 20},
		{"x - 10 - 5", 0, -15},
		{"-x", 5, -5},
		{"--x", 5, 5},
		{"-x ** 2", 3, -9},
		{"2 ** 3 ** 2", 0, 512},
		{"x ** 0", 7, 1},
		{"x / 2", 7, 3},
		{"x / 2", -7, -4},
		{"x % 3", -7, 2},
		{"x % -3", 7, -2},
		{"x % 3", 9, 0},
		{"x > 2", 3, 1},
		{"x > 2", 2, 0},
		{"x == 2 || x == 3", 3, 1},
		{"x > 0 && x < 10", 12, 0},
		{"!x", 0, 1},
		{"x % 2 == 0 ? x / 2 : 3 * x + 1", 6, 3},
		{"x % 2 == 0 ? x / 2 : 3 * x + 1", 7, 22},
		{"abs(x)", -4, 4},
		{"sign(x) * 10", -4, -10},
		{"pow(x, 3)", 2, 8},
		{"min(x, 10, 3)", 5, 3},
		{"max(x, 1)", -5, 1},
		{"1_000 + x", 1, 1001},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			prog, err := Compile(tt.src)
			require.NoError(t, err)
			got, err := prog.Eval(tt.x)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompile_LambdaSpellings(t *testing.T) {
	sources := []string{
		"x * x",
		"n -> n * n",
		"|n| n * n",
		"->(n) { n * n }",
		"-> n { n * n }",
		"lambda { |n| n * n }",
		"proc { |v| v * v }",
		"{ |x| x * x }",
		"  lambda{|x|x*x}  ",
	}

	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			prog, err := Compile(src)
			require.NoError(t, err)
			got, err := prog.Eval(-6)
			require.NoError(t, err)
			assert.Equal(t, 36, got)
		})
	}
}

func TestCompile_Param(t *testing.T) {
	assert := assert.New(t)

	prog := MustCompile("->(value) { value + 1 }")
	assert.Equal("value", prog.Param)
	assert.Equal("->(value) { value + 1 }", prog.Source)

	prog = MustCompile("x + 1")
	assert.Equal("x", prog.Param)
}

func TestCompile_SyntaxErrors(t *testing.T) {
	tests := []struct {
		src string
		pos int
	}{
		{"", 0},
		{"x +", 3},
		{"x $ 2", 2},
		{"y * 2", 0},
		{"(x + 1", 6},
		{"x + 1)", 5},
		{"->(n) { n * 2", 13},
		{"lambda { n * 2 }", 9},
		{"foo(x)", 0},
		{"abs(x, 1)", 0},
		{"pow(x)", 0},
		{"x ? 1", 5},
		{"99999999999999999999", 0},
		{"system(\"rm\")", 7},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := Compile(tt.src)
			require.Error(t, err)

			var syntaxErr *SyntaxError
			require.True(t, errors.As(err, &syntaxErr), "got %T: %v", err, err)
			assert.Equal(t, tt.pos, syntaxErr.Pos, syntaxErr.Error())
		})
	}
}

func TestEval_Errors(t *testing.T) {
	tests := []struct {
		src  string
		x    int
		want error
	}{
		{"10 / x", 0, ErrDivisionByZero},
		{"10 % x", 0, ErrDivisionByZero},
		{"x * x", math.MaxInt, ErrOverflow},
		{"x + 1", math.MaxInt, ErrOverflow},
		{"x - 1", math.MinInt, ErrOverflow},
		{"-x", math.MinInt, ErrOverflow},
		{"abs(x)", math.MinInt, ErrOverflow},
		{"x / -1", math.MinInt, ErrOverflow},
		{"2 ** x", 64, ErrOverflow},
		{"2 ** x", -1, ErrNegativeExponent},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			prog, err := Compile(tt.src)
			require.NoError(t, err)
			_, err = prog.Eval(tt.x)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestEval_ShortCircuit(t *testing.T) {
	assert := assert.New(t)

	// the right-hand side would divide by zero
	prog := MustCompile("x == 0 || 10 / x > 1")
	got, err := prog.Eval(0)
	assert.NoError(err)
	assert.Equal(1, got)

	prog = MustCompile("x != 0 && 10 / x > 1")
	got, err = prog.Eval(0)
	assert.NoError(err)
	assert.Equal(0, got)

	prog = MustCompile("x == 0 ? 0 : 10 / x")
	got, err = prog.Eval(0)
	assert.NoError(err)
	assert.Equal(0, got)
}

func TestArith_Boundaries(t *testing.T) {
	assert := assert.New(t)

	v, err := pow(-2, 63)
	assert.NoError(err)
	assert.Equal(math.MinInt, v)

	v, err = mul(math.MinInt, 1)
	assert.NoError(err)
	assert.Equal(math.MinInt, v)

	v, err = floorMod(math.MinInt, -1)
	assert.NoError(err)
	assert.Equal(0, v)

	v, err = sub(-1, math.MaxInt)
	assert.NoError(err)
	assert.Equal(math.MinInt, v)
}

func TestRegistry(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	r := NewRegistry()
	require.NoError(r.Register("square", "x * x"))
	require.NoError(r.Register("Double", "|n| n * 2"))

	assert.Equal([]string{"double", "square"}, r.Names())

	prog, err := r.Compile("square")
	require.NoError(err)
	got, err := prog.Eval(7)
	require.NoError(err)
	assert.Equal(49, got)

	prog, err = r.Compile("square(x + 1) + double(x)")
	require.NoError(err)
	got, err = prog.Eval(2)
	require.NoError(err)
	assert.Equal(13, got)

	_, err = r.Compile("square(x, 1)")
	assert.Error(err)

	_, ok := r.Lookup("cube")
	assert.False(ok)
}

func TestRegistry_RegisterErrors(t *testing.T) {
	assert := assert.New(t)

	r := NewRegistry()
	assert.Error(r.Register("abs", "x"), "builtin names are reserved")
	assert.Error(r.Register("not a name", "x"))
	assert.Error(r.Register("", "x"))

	err := r.Register("broken", "x +")
	var syntaxErr *SyntaxError
	assert.True(errors.As(err, &syntaxErr))

	assert.NoError(r.Register("inc", "x + 1"))
	assert.Error(r.Register("twice", "inc(inc(x))"), "named transforms cannot call each other")
}

func TestRegistry_RegisterUpperCaseSource(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	r := NewRegistry()
	require.NoError(r.Register("Square", "X * X"))
	require.NoError(r.Register("clamp", "LAMBDA { |N| MAX(0, MIN(N, 10)) }"))

	prog, err := r.Compile("square")
	require.NoError(err)
	got, err := prog.Eval(-3)
	require.NoError(err)
	assert.Equal(9, got)

	prog, err = r.Compile("clamp")
	require.NoError(err)
	got, err = prog.Eval(12)
	require.NoError(err)
	assert.Equal(10, got)
}
