// Package expr compiles small integer transforms such as "x * x" or
// "->(n) { n % 3 }" into an expression tree that can be evaluated safely.
//
// Only a fixed grammar is accepted: integer literals, a single parameter,
// arithmetic and comparison operators, the conditional operator and a few
// builtin functions (abs, sign, pow, min, max). Arithmetic is checked; any
// overflow or division by zero is reported as an error instead of wrapping or
// panicking.
package expr

import (
	"fmt"
	"sort"
	"strings"
)

// SyntaxError reports a malformed expression. Pos is a byte offset into the
// source.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at column %d: %s", e.Pos+1, e.Msg)
}

// Program is a compiled transform.
type Program struct {
	Source string
	Param  string
	root   node
}

// Eval applies the program to x.
func (p *Program) Eval(x int) (int, error) {
	return p.root.eval(x)
}

// Compile parses src using only the builtin functions.
func Compile(src string) (*Program, error) {
	return compile(src, nil)
}

// MustCompile is like Compile but panics on error. Intended for tests and
// package level tables.
func MustCompile(src string) *Program {
	prog, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return prog
}

func compile(src string, named map[string]*Program) (*Program, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, &SyntaxError{Pos: 0, Msg: "empty expression"}
	}

	tokens, err := lex(src)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens, param: "x", named: named}
	root, err := p.parseProgram()
	if err != nil {
		return nil, err
	}
	return &Program{Source: src, Param: p.param, root: root}, nil
}

// Registry holds named transforms. Named transforms may be used on their own
// ("square") or called from other expressions ("square(x + 1)").
type Registry struct {
	named map[string]*Program
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{named: make(map[string]*Program)}
}

// Register compiles src and stores it under name. The body of a named
// transform may only use builtins, never other named transforms. Both name
// and src are lower-cased, like interactive input.
func (r *Registry) Register(name, src string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if !validName(name) {
		return fmt.Errorf("invalid transform name %q", name)
	}
	if _, ok := builtins[name]; ok {
		return fmt.Errorf("transform name %q shadows a builtin function", name)
	}
	prog, err := Compile(strings.ToLower(src))
	if err != nil {
		return fmt.Errorf("failed to compile transform %q: %w", name, err)
	}
	r.named[name] = prog
	return nil
}

// Lookup returns the transform registered under name.
func (r *Registry) Lookup(name string) (*Program, bool) {
	prog, ok := r.named[name]
	return prog, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.named))
	for name := range r.named {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Compile parses src. A source that is exactly a registered name resolves to
// that transform.
func (r *Registry) Compile(src string) (*Program, error) {
	if prog, ok := r.named[strings.TrimSpace(src)]; ok {
		return prog, nil
	}
	return compile(src, r.named)
}

func validName(name string) bool {
	if name == "" || !isIdentStart(rune(name[0])) {
		return false
	}
	for _, c := range name {
		if !isIdentPart(c) {
			return false
		}
	}
	return true
}
