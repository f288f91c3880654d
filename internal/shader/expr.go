package shader

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrDomain marks an evaluation-time math failure: division by zero, the
// square root of a negative number, or a non-finite result. The evaluator
// recovers from it per pixel by falling back to the source sample.
var ErrDomain = errors.New("math domain error")

// Bindings holds the per-pixel variable values available to a compiled
// expression. All values are float64; integer-valued variables ($x, $y,
// $w, $h, $r, $g, $b) are bound to their exact integer values.
type Bindings struct {
	X, Y    float64 // output pixel coordinate
	U, V    float64 // normalized coordinate, x/width and y/height
	W, H    float64 // output dimensions
	R, G, B float64 // source sample at (x, y), 0-255
}

// Variable slots, indexed by varNode.
const (
	varX = iota
	varY
	varU
	varV
	varW
	varH
	varR
	varG
	varB
	numVars
)

var varNames = map[string]int{
	"x": varX, "y": varY,
	"u": varU, "v": varV,
	"w": varW, "h": varH,
	"r": varR, "g": varG, "b": varB,
}

func (b *Bindings) get(slot int) float64 {
	switch slot {
	case varX:
		return b.X
	case varY:
		return b.Y
	case varU:
		return b.U
	case varV:
		return b.V
	case varW:
		return b.W
	case varH:
		return b.H
	case varR:
		return b.R
	case varG:
		return b.G
	default:
		return b.B
	}
}

// funcDef describes one entry of the fixed, enumerated function set.
// Expressions cannot reach anything outside this table.
type funcDef struct {
	name  string
	arity int
	call  func(args []float64) (float64, error)
}

var funcs = map[string]*funcDef{
	"sqrt": {"sqrt", 1, func(a []float64) (float64, error) {
		if a[0] < 0 {
			return 0, fmt.Errorf("sqrt of negative value %g: %w", a[0], ErrDomain)
		}
		return math.Sqrt(a[0]), nil
	}},
	"min": {"min", 2, func(a []float64) (float64, error) {
		return math.Min(a[0], a[1]), nil
	}},
	"max": {"max", 2, func(a []float64) (float64, error) {
		return math.Max(a[0], a[1]), nil
	}},
	"abs": {"abs", 1, func(a []float64) (float64, error) {
		return math.Abs(a[0]), nil
	}},
	"sin": {"sin", 1, func(a []float64) (float64, error) {
		return math.Sin(a[0]), nil
	}},
	"cos": {"cos", 1, func(a []float64) (float64, error) {
		return math.Cos(a[0]), nil
	}},
	"tan": {"tan", 1, func(a []float64) (float64, error) {
		return math.Tan(a[0]), nil
	}},
	"floor": {"floor", 1, func(a []float64) (float64, error) {
		return math.Floor(a[0]), nil
	}},
	"ceil": {"ceil", 1, func(a []float64) (float64, error) {
		return math.Ceil(a[0]), nil
	}},
	"pow": {"pow", 2, func(a []float64) (float64, error) {
		return math.Pow(a[0], a[1]), nil
	}},
	"clamp": {"clamp", 3, func(a []float64) (float64, error) {
		return math.Min(math.Max(a[0], a[1]), a[2]), nil
	}},
}

// exprNode is one node of a compiled expression tree.
type exprNode interface {
	eval(b *Bindings) (float64, error)
}

type numNode float64

func (n numNode) eval(*Bindings) (float64, error) { return float64(n), nil }

type varNode int

func (n varNode) eval(b *Bindings) (float64, error) { return b.get(int(n)), nil }

type negNode struct {
	operand exprNode
}

func (n negNode) eval(b *Bindings) (float64, error) {
	v, err := n.operand.eval(b)
	return -v, err
}

type binNode struct {
	op   byte // one of + - * / ^
	l, r exprNode
}

func (n binNode) eval(b *Bindings) (float64, error) {
	l, err := n.l.eval(b)
	if err != nil {
		return 0, err
	}
	r, err := n.r.eval(b)
	if err != nil {
		return 0, err
	}
	switch n.op {
	case '+':
		return l + r, nil
	case '-':
		return l - r, nil
	case '*':
		return l * r, nil
	case '/':
		if r == 0 {
			return 0, fmt.Errorf("division by zero: %w", ErrDomain)
		}
		return l / r, nil
	default: // '^'
		return math.Pow(l, r), nil
	}
}

type callNode struct {
	fn   *funcDef
	args []exprNode
}

func (n callNode) eval(b *Bindings) (float64, error) {
	vals := make([]float64, len(n.args))
	for i, a := range n.args {
		v, err := a.eval(b)
		if err != nil {
			return 0, err
		}
		vals[i] = v
	}
	return n.fn.call(vals)
}

// Program is a compiled channel expression, reusable across pixels and
// safe for concurrent evaluation (Bindings carry all mutable state).
type Program struct {
	root exprNode
	src  string
}

// Source returns the normalized expression text the program was compiled from.
func (p *Program) Source() string { return p.src }

// Eval computes the expression under the given bindings. A non-finite
// result is reported as ErrDomain so the caller can apply its fallback.
func (p *Program) Eval(b *Bindings) (float64, error) {
	v, err := p.root.eval(b)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite result: %w", ErrDomain)
	}
	return v, nil
}

// Compile parses a channel expression into a Program. Expressions are
// lower-cased and trimmed before parsing, so variable and function names
// are case-insensitive. Compile rejects empty input; callers treat an
// empty expression as "copy the source channel" without compiling.
func Compile(expr string) (*Program, error) {
	src := strings.ToLower(strings.TrimSpace(expr))
	if src == "" {
		return nil, errors.New("empty expression")
	}
	p := &parser{input: src}
	p.next()
	root, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, fmt.Errorf("unexpected %q at offset %d", p.tok.text, p.tok.pos)
	}
	return &Program{root: root, src: src}, nil
}

// --- lexer ---

type tokKind int

const (
	tokEOF tokKind = iota
	tokNumber
	tokVariable // $x, $u, ...
	tokIdent    // function name
	tokOp       // + - * / ^
	tokLParen
	tokRParen
	tokComma
)

type token struct {
	kind tokKind
	text string
	val  float64
	pos  int
}

type parser struct {
	input string
	pos   int
	tok   token
	err   error
}

func (p *parser) next() {
	if p.err != nil {
		return
	}
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t' || p.input[p.pos] == '\n' || p.input[p.pos] == '\r') {
		p.pos++
	}
	start := p.pos
	if p.pos >= len(p.input) {
		p.tok = token{kind: tokEOF, pos: start}
		return
	}
	c := p.input[p.pos]
	switch {
	case c >= '0' && c <= '9' || c == '.':
		for p.pos < len(p.input) && (isDigit(p.input[p.pos]) || p.input[p.pos] == '.') {
			p.pos++
		}
		text := p.input[start:p.pos]
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			p.err = fmt.Errorf("bad number %q at offset %d", text, start)
			return
		}
		p.tok = token{kind: tokNumber, text: text, val: v, pos: start}
	case c == '$':
		p.pos++
		vs := p.pos
		for p.pos < len(p.input) && isAlpha(p.input[p.pos]) {
			p.pos++
		}
		name := p.input[vs:p.pos]
		if _, ok := varNames[name]; !ok {
			p.err = fmt.Errorf("unknown variable $%s at offset %d", name, start)
			return
		}
		p.tok = token{kind: tokVariable, text: name, pos: start}
	case isAlpha(c):
		for p.pos < len(p.input) && isAlpha(p.input[p.pos]) {
			p.pos++
		}
		p.tok = token{kind: tokIdent, text: p.input[start:p.pos], pos: start}
	case c == '+' || c == '-' || c == '*' || c == '/' || c == '^':
		// "**" is accepted as an alternate spelling of "^".
		if c == '*' && p.pos+1 < len(p.input) && p.input[p.pos+1] == '*' {
			p.pos += 2
			p.tok = token{kind: tokOp, text: "^", pos: start}
			return
		}
		p.pos++
		p.tok = token{kind: tokOp, text: string(c), pos: start}
	case c == '(':
		p.pos++
		p.tok = token{kind: tokLParen, text: "(", pos: start}
	case c == ')':
		p.pos++
		p.tok = token{kind: tokRParen, text: ")", pos: start}
	case c == ',':
		p.pos++
		p.tok = token{kind: tokComma, text: ",", pos: start}
	default:
		p.err = fmt.Errorf("unexpected character %q at offset %d", c, start)
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isAlpha(c byte) bool { return c >= 'a' && c <= 'z' || c == '_' }

// --- recursive descent ---

// parseExpr := term (('+' | '-') term)*
func (p *parser) parseExpr() (exprNode, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokOp && (p.tok.text == "+" || p.tok.text == "-") {
		op := p.tok.text[0]
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = binNode{op: op, l: left, r: right}
	}
	return left, p.err
}

// parseTerm := unary (('*' | '/') unary)*
func (p *parser) parseTerm() (exprNode, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokOp && (p.tok.text == "*" || p.tok.text == "/") {
		op := p.tok.text[0]
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = binNode{op: op, l: left, r: right}
	}
	return left, p.err
}

// parseUnary := '-' unary | power
func (p *parser) parseUnary() (exprNode, error) {
	if p.tok.kind == tokOp && p.tok.text == "-" {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return negNode{operand: operand}, nil
	}
	return p.parsePower()
}

// parsePower := atom ('^' unary)?   (right associative)
func (p *parser) parsePower() (exprNode, error) {
	base, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if p.tok.kind == tokOp && p.tok.text == "^" {
		p.next()
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return binNode{op: '^', l: base, r: exp}, nil
	}
	return base, p.err
}

// parseAtom := number | variable | ident '(' args ')' | '(' expr ')'
func (p *parser) parseAtom() (exprNode, error) {
	if p.err != nil {
		return nil, p.err
	}
	switch p.tok.kind {
	case tokNumber:
		n := numNode(p.tok.val)
		p.next()
		return n, p.err
	case tokVariable:
		n := varNode(varNames[p.tok.text])
		p.next()
		return n, p.err
	case tokIdent:
		name := p.tok.text
		fn, ok := funcs[name]
		if !ok {
			return nil, fmt.Errorf("unknown function %q at offset %d", name, p.tok.pos)
		}
		p.next()
		if p.tok.kind != tokLParen {
			return nil, fmt.Errorf("expected '(' after %q at offset %d", name, p.tok.pos)
		}
		p.next()
		args := make([]exprNode, 0, fn.arity)
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.tok.kind == tokComma {
				p.next()
				continue
			}
			break
		}
		if p.tok.kind != tokRParen {
			return nil, fmt.Errorf("expected ')' in call to %q at offset %d", name, p.tok.pos)
		}
		p.next()
		if len(args) != fn.arity {
			return nil, fmt.Errorf("%s takes %d argument(s), got %d", name, fn.arity, len(args))
		}
		return callNode{fn: fn, args: args}, p.err
	case tokLParen:
		p.next()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.tok.kind != tokRParen {
			return nil, fmt.Errorf("missing ')' at offset %d", p.tok.pos)
		}
		p.next()
		return inner, p.err
	case tokEOF:
		if p.err != nil {
			return nil, p.err
		}
		return nil, errors.New("unexpected end of expression")
	default:
		return nil, fmt.Errorf("unexpected %q at offset %d", p.tok.text, p.tok.pos)
	}
}
