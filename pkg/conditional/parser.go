package conditional

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse compiles an expression of the form `<operand> <op> <operand>` where
// an operand is a `{field}` reference, a quoted string, a number, or a bare
// HH:MM time. The operator is one of < > <= >= == !=.
func Parse(expr string) (Comparison, error) {
	p := &parser{input: strings.TrimSpace(expr)}

	left, err := p.operand()
	if err != nil {
		return Comparison{}, err
	}
	op, err := p.operator()
	if err != nil {
		return Comparison{}, err
	}
	right, err := p.operand()
	if err != nil {
		return Comparison{}, err
	}
	p.skipSpace()
	if p.pos < len(p.input) {
		return Comparison{}, fmt.Errorf("conditional: trailing input %q in %q", p.input[p.pos:], expr)
	}

	return Comparison{Left: left, Op: op, Right: right}, nil
}

type parser struct {
	input string
	pos   int
}

func (p *parser) skipSpace() {
	for p.pos < len(p.input) {
		switch p.input[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) operand() (Operand, error) {
	p.skipSpace()
	switch ch := p.peek(); {
	case ch == 0:
		return Operand{}, fmt.Errorf("conditional: missing operand in %q", p.input)
	case ch == '{':
		return p.fieldRef()
	case ch == '"' || ch == '\'':
		return p.stringLiteral(ch)
	default:
		return p.bareLiteral()
	}
}

func (p *parser) fieldRef() (Operand, error) {
	start := p.pos + 1
	end := strings.IndexByte(p.input[start:], '}')
	if end < 0 {
		return Operand{}, fmt.Errorf("conditional: unterminated field reference in %q", p.input)
	}
	name := strings.TrimSpace(p.input[start : start+end])
	if name == "" {
		return Operand{}, fmt.Errorf("conditional: empty field reference in %q", p.input)
	}
	p.pos = start + end + 1
	return FieldOperand(name), nil
}

func (p *parser) stringLiteral(quote byte) (Operand, error) {
	p.pos++
	var b strings.Builder
	escaped := false
	for p.pos < len(p.input) {
		ch := p.input[p.pos]
		p.pos++
		if escaped {
			b.WriteByte(ch)
			escaped = false
			continue
		}
		if ch == '\\' {
			escaped = true
			continue
		}
		if ch == quote {
			return StringOperand(b.String()), nil
		}
		b.WriteByte(ch)
	}
	return Operand{}, fmt.Errorf("conditional: unterminated string literal in %q", p.input)
}

// bareLiteral consumes an unquoted token: a number or an HH:MM time string.
// Anything else is a parse error, which keeps typos from silently comparing
// as text.
func (p *parser) bareLiteral() (Operand, error) {
	start := p.pos
	for p.pos < len(p.input) {
		ch := p.input[p.pos]
		if ch == ' ' || ch == '\t' || ch == '<' || ch == '>' || ch == '=' || ch == '!' {
			break
		}
		p.pos++
	}
	raw := p.input[start:p.pos]
	if raw == "" {
		return Operand{}, fmt.Errorf("conditional: missing operand in %q", p.input)
	}

	if value, err := strconv.ParseFloat(raw, 64); err == nil {
		return NumberOperand(value), nil
	}
	if _, ok := parseClock(raw); ok {
		return StringOperand(raw), nil
	}
	return Operand{}, fmt.Errorf("conditional: unrecognised literal %q in %q", raw, p.input)
}

func (p *parser) operator() (Op, error) {
	p.skipSpace()
	rest := p.input[p.pos:]
	for _, op := range []Op{OpLE, OpGE, OpEQ, OpNE, OpLT, OpGT} {
		if strings.HasPrefix(rest, string(op)) {
			p.pos += len(op)
			return op, nil
		}
	}
	return "", fmt.Errorf("conditional: missing operator in %q", p.input)
}
