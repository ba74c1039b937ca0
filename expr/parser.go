package expr

import (
	"fmt"
	"slices"
)

// parser is a recursive-descent parser over a token slice. Precedence, from
// loosest to tightest: ?:, ||, &&, comparisons, + -, * / %, unary, **.
type parser struct {
	tokens []token
	i      int
	param  string
	named  map[string]*Program
}

func (p *parser) peek() token {
	return p.tokens[p.i]
}

func (p *parser) peekAt(offset int) token {
	if p.i+offset >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.i+offset]
}

func (p *parser) next() token {
	t := p.tokens[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) accept(kind tokenKind) bool {
	if p.peek().kind == kind {
		p.next()
		return true
	}
	return false
}

func (p *parser) expect(kind tokenKind) (token, error) {
	t := p.peek()
	if t.kind != kind {
		return t, p.errorf(t, "expected %s, found %s", kind, describe(t))
	}
	return p.next(), nil
}

func (p *parser) errorf(t token, format string, args ...any) error {
	return &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf(format, args...)}
}

func describe(t token) string {
	switch t.kind {
	case tokInt, tokIdent:
		return fmt.Sprintf("%q", t.text)
	default:
		return t.kind.String()
	}
}

// parseProgram reads the optional lambda header, the body and the closing
// brace when the header opened one.
func (p *parser) parseProgram() (node, error) {
	braced, err := p.parseHeader()
	if err != nil {
		return nil, err
	}

	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if braced {
		if _, err := p.expect(tokRBrace); err != nil {
			return nil, err
		}
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, p.errorf(t, "unexpected %s after expression", describe(t))
	}
	return body, nil
}

// parseHeader consumes one of the accepted lambda spellings and records the
// parameter name:
//
//	x -> body
//	|x| body
//	->(x) { body }     -> x { body }
//	lambda { |x| body }   proc { |x| body }   { |x| body }
//
// A bare body keeps the default parameter x. It reports whether a closing
// brace must follow the body.
func (p *parser) parseHeader() (bool, error) {
	t := p.peek()
	switch {
	case t.kind == tokIdent && (t.text == "lambda" || t.text == "proc") && p.peekAt(1).kind == tokLBrace:
		p.next()
		p.next()
		return true, p.parseBlockParam()

	case t.kind == tokLBrace:
		p.next()
		return true, p.parseBlockParam()

	case t.kind == tokArrow:
		p.next()
		if p.accept(tokLParen) {
			name, err := p.expect(tokIdent)
			if err != nil {
				return false, err
			}
			if _, err := p.expect(tokRParen); err != nil {
				return false, err
			}
			p.param = name.text
		} else {
			name, err := p.expect(tokIdent)
			if err != nil {
				return false, err
			}
			p.param = name.text
		}
		if _, err := p.expect(tokLBrace); err != nil {
			return false, err
		}
		return true, nil

	case t.kind == tokPipe:
		return false, p.parsePipeParam()

	case t.kind == tokIdent && p.peekAt(1).kind == tokArrow:
		p.next()
		p.next()
		p.param = t.text
		return false, nil
	}
	return false, nil
}

func (p *parser) parseBlockParam() error {
	if p.peek().kind != tokPipe {
		return p.errorf(p.peek(), "expected |param| at start of block, found %s", describe(p.peek()))
	}
	return p.parsePipeParam()
}

func (p *parser) parsePipeParam() error {
	if _, err := p.expect(tokPipe); err != nil {
		return err
	}
	name, err := p.expect(tokIdent)
	if err != nil {
		return err
	}
	if _, err := p.expect(tokPipe); err != nil {
		return err
	}
	p.param = name.text
	return nil
}

func (p *parser) parseExpr() (node, error) {
	return p.parseConditional()
}

func (p *parser) parseConditional() (node, error) {
	cond, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.accept(tokQuestion) {
		return cond, nil
	}
	then, err := p.parseConditional()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokColon); err != nil {
		return nil, err
	}
	otherwise, err := p.parseConditional()
	if err != nil {
		return nil, err
	}
	return conditional{cond: cond, then: then, otherwise: otherwise}, nil
}

// parseLeftAssoc parses operand (op operand)* for the given operator set.
func (p *parser) parseLeftAssoc(operand func() (node, error), ops ...tokenKind) (node, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek().kind
		if !slices.Contains(ops, op) {
			return left, nil
		}
		p.next()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = binary{op: op, left: left, right: right}
	}
}

func (p *parser) parseOr() (node, error) {
	return p.parseLeftAssoc(p.parseAnd, tokOr)
}

func (p *parser) parseAnd() (node, error) {
	return p.parseLeftAssoc(p.parseComparison, tokAnd)
}

func (p *parser) parseComparison() (node, error) {
	return p.parseLeftAssoc(p.parseAdditive, tokEq, tokNe, tokLt, tokLe, tokGt, tokGe)
}

func (p *parser) parseAdditive() (node, error) {
	return p.parseLeftAssoc(p.parseMultiplicative, tokPlus, tokMinus)
}

func (p *parser) parseMultiplicative() (node, error) {
	return p.parseLeftAssoc(p.parseUnary, tokStar, tokSlash, tokPercent)
}

func (p *parser) parseUnary() (node, error) {
	switch op := p.peek().kind; op {
	case tokMinus, tokPlus, tokNot:
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return unary{op: op, operand: operand}, nil
	}
	return p.parsePower()
}

// parsePower binds tighter than unary minus, so -x ** 2 is -(x ** 2), and is
// right associative: 2 ** 3 ** 2 is 2 ** 9.
func (p *parser) parsePower() (node, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if !p.accept(tokPow) {
		return base, nil
	}
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return binary{op: tokPow, left: base, right: exp}, nil
}

func (p *parser) parsePrimary() (node, error) {
	t := p.next()
	switch t.kind {
	case tokInt:
		return literal{value: t.num}, nil
	case tokLParen:
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		return inner, nil
	case tokIdent:
		if p.peek().kind == tokLParen {
			return p.parseCall(t)
		}
		if t.text == p.param {
			return variable{}, nil
		}
		return nil, p.errorf(t, "unknown identifier %q", t.text)
	}
	return nil, p.errorf(t, "unexpected %s", describe(t))
}

func (p *parser) parseCall(name token) (node, error) {
	p.next() // (
	var args []node
	if p.peek().kind != tokRParen {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.accept(tokComma) {
				break
			}
		}
	}
	if _, err := p.expect(tokRParen); err != nil {
		return nil, err
	}

	if prog, ok := p.named[name.text]; ok {
		if len(args) != 1 {
			return nil, p.errorf(name, "%s takes 1 argument, got %d", name.text, len(args))
		}
		return named{prog: prog, arg: args[0]}, nil
	}

	fn, ok := builtins[name.text]
	if !ok {
		return nil, p.errorf(name, "unknown function %q", name.text)
	}
	if len(args) < fn.minArgs || (fn.maxArgs >= 0 && len(args) > fn.maxArgs) {
		return nil, p.errorf(name, "%s: wrong number of arguments (%d)", fn.name, len(args))
	}
	return call{fn: fn, args: args}, nil
}
