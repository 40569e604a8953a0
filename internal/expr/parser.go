package expr

import "fmt"

// maxDepth bounds recursion so hostile input cannot exhaust the stack.
const maxDepth = 256

type parser struct {
	toks  []token
	pos   int
	depth int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(kind tokenKind) (token, error) {
	t := p.next()
	if t.kind != kind {
		return t, unexpected(t, "expected "+kind.String())
	}
	return t, nil
}

func unexpected(t token, hint string) error {
	msg := "unexpected " + t.String()
	if hint != "" {
		msg += ", " + hint
	}
	return &SyntaxError{Pos: t.pos, Msg: msg}
}

func (p *parser) parse() (node, error) {
	if p.peek().kind == tokEOF {
		return nil, &SyntaxError{Pos: 0, Msg: "empty expression"}
	}
	n, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		if t.kind == tokRParen {
			return nil, &SyntaxError{Pos: t.pos, Msg: "unbalanced ')'"}
		}
		return nil, unexpected(t, "expected operator")
	}
	return n, nil
}

// expr := term (('+' | '-') term)*
func (p *parser) parseExpr() (node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek().kind
		if op != tokPlus && op != tokMinus {
			return left, nil
		}
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right}
	}
}

// term := unary (('*' | '/') unary)*
func (p *parser) parseTerm() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek().kind
		if op != tokStar && op != tokSlash {
			return left, nil
		}
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right}
	}
}

// unary := ('+' | '-') unary | power
func (p *parser) parseUnary() (node, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxDepth {
		return nil, &SyntaxError{Pos: p.peek().pos, Msg: "expression nested too deeply"}
	}

	switch p.peek().kind {
	case tokPlus:
		p.next()
		return p.parseUnary()
	case tokMinus:
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &negNode{operand: operand}, nil
	}
	return p.parsePower()
}

// power := primary ('**' unary)?
func (p *parser) parsePower() (node, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind == tokDot {
		return nil, attributeAccess(p, base.String())
	}
	if p.peek().kind != tokPow {
		return base, nil
	}
	p.next()
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &binaryNode{op: tokPow, left: base, right: exp}, nil
}

func (p *parser) parsePrimary() (node, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return &numberNode{v: t.num}, nil
	case tokIdent:
		return p.parseName(t)
	case tokLParen:
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if c := p.peek(); c.kind != tokRParen {
			if c.kind == tokEOF {
				return nil, &SyntaxError{Pos: t.pos, Msg: "unbalanced '('"}
			}
			return nil, unexpected(c, "expected ')'")
		}
		p.next()
		return inner, nil
	}
	return nil, unexpected(t, "expected number, x, function call or '('")
}

func (p *parser) parseName(t token) (node, error) {
	switch {
	case t.text == "x":
		return varNode{}, nil
	case t.text == Namespace:
		if p.peek().kind != tokDot {
			return nil, &SandboxError{Pos: t.pos, Name: t.text}
		}
		p.next()
		member := p.next()
		if member.kind != tokIdent {
			return nil, unexpected(member, "expected a name after '"+Namespace+".'")
		}
		if v, ok := constants[member.text]; ok {
			return &constNode{name: member.text, v: v}, nil
		}
		if fn, ok := builtins[member.text]; ok {
			return p.parseCall(fn, member)
		}
		return nil, &SandboxError{Pos: member.pos, Name: Namespace + "." + member.text}
	}
	if fn, ok := builtins[t.text]; ok {
		return p.parseCall(fn, t)
	}
	return nil, &SandboxError{Pos: t.pos, Name: t.text}
}

// call := fname '(' expr ')'
func (p *parser) parseCall(fn *builtin, name token) (node, error) {
	if p.peek().kind != tokLParen {
		return nil, &SyntaxError{Pos: name.pos, Msg: fmt.Sprintf("function %s must be called with one argument", fn.name)}
	}
	open := p.next()
	arg, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	switch c := p.peek(); c.kind {
	case tokRParen:
		p.next()
	case tokComma:
		return nil, &SyntaxError{Pos: c.pos, Msg: fmt.Sprintf("function %s takes exactly one argument", fn.name)}
	case tokEOF:
		return nil, &SyntaxError{Pos: open.pos, Msg: "unbalanced '('"}
	default:
		return nil, unexpected(c, "expected ')'")
	}
	return &callNode{fn: fn, arg: arg}, nil
}

func attributeAccess(p *parser, owner string) error {
	dot := p.next()
	name := owner + "."
	if t := p.peek(); t.kind == tokIdent {
		name += t.text
	}
	return &SandboxError{Pos: dot.pos, Name: name}
}
