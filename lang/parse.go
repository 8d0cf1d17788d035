package lang

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ardnew/hermes/log"
)

// ParseReader parses a template from an io.Reader.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) ([]Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	return Parse(ctx, string(data), opts...)
}

// Parse parses a template into its top-level items.
//
// The parse is atomic: any malformed input fails the whole call with an
// error matching [ErrSyntax] and no nodes are returned.
func Parse(ctx context.Context, input string, opts ...Option) ([]Node, error) {
	o := makeOptions(opts...)

	p := &parser{
		input:    []byte(input),
		pos:      0,
		line:     1,
		col:      1,
		maxDepth: o.maxDepth,
		logger:   o.logger,
	}

	nodes, err := p.parseInput()
	if err != nil {
		p.logger.TraceContext(ctx, "parse failed", slog.Any("error", err))

		return nil, err
	}

	p.logger.TraceContext(ctx, "parse complete",
		slog.Int("item_count", len(nodes)))

	return nodes, nil
}

// parser holds the parser state.
type parser struct {
	input    []byte
	pos      int
	line     int
	col      int
	depth    int
	maxDepth int
	logger   log.Logger
}

// parseInput parses: ws* (Item (ws* '+' ws* Item)*)? ws* EOF.
func (p *parser) parseInput() ([]Node, error) {
	nodes := make([]Node, 0)

	p.skipWhitespace()

	if p.eof() {
		return nodes, nil
	}

	for {
		item, err := p.parseItem()
		if err != nil {
			return nil, err
		}

		nodes = append(nodes, item)

		p.skipWhitespace()

		if p.eof() {
			break
		}

		if !p.expect('+') {
			return nil, p.fail(p.position(), "unexpected character", "+")
		}

		p.skipWhitespace()

		if p.eof() {
			return nil, p.fail(p.position(), "trailing separator", "item")
		}
	}

	return nodes, nil
}

// parseItem parses: Marker | String | Bare.
func (p *parser) parseItem() (Node, error) {
	pos := p.position()

	switch r := p.peek(); {
	case p.atMarker():
		return p.parseMarker()

	case r == '"':
		return p.parseString()

	case r == '+':
		return Node{}, p.fail(pos, "empty item", "item")

	case r == '{', r == '}':
		return Node{}, p.fail(pos, "unbalanced "+string(r), "${")

	default:
		return p.parseBare()
	}
}

// parseBare parses a run of plain text up to the next separator, quote,
// brace, or marker. The trimmed run is a literal when it spells one.
func (p *parser) parseBare() (Node, error) {
	pos := p.position()
	start := p.pos

	for !p.eof() && !p.atMarker() && !strings.ContainsRune(`+"{}`, p.peek()) {
		p.advance()
	}

	text := strings.TrimSpace(string(p.input[start:p.pos]))

	switch {
	case isNumberLiteral(text):
		return Node{Type: NodeNumber, Text: text, Pos: pos}, nil

	case text == "true", text == "false":
		return Node{Type: NodeBoolean, Text: text, Pos: pos}, nil

	default:
		return Node{Type: NodeText, Text: text, Pos: pos}, nil
	}
}

// parseMarker parses: '${' ws* Expr ws* '}'.
func (p *parser) parseMarker() (Node, error) {
	pos := p.position()

	if err := p.enter(pos); err != nil {
		return Node{}, err
	}
	defer p.leave()

	p.advance() // '$'
	p.advance() // '{'

	p.skipWhitespace()

	expr, err := p.parseExpr()
	if err != nil {
		return Node{}, err
	}

	p.skipWhitespace()

	if p.eof() {
		return Node{}, p.fail(pos, "unterminated marker", "}")
	}

	if !p.expect('}') {
		return Node{}, p.fail(p.position(), "unexpected character", "}")
	}

	return expr, nil
}

// parseExpr parses: Marker | Call | Ident | Number | Boolean | String.
func (p *parser) parseExpr() (Node, error) {
	pos := p.position()

	switch r := p.peek(); {
	case p.eof():
		return Node{}, p.fail(pos, "unexpected end of input", "expression")

	case p.atMarker():
		return p.parseMarker()

	case r == '"':
		return p.parseString()

	case r == '-', isDigit(r):
		return p.parseNumber()

	case isIdentifierStart(r):
		name := p.parseIdentifier()

		p.skipWhitespace()

		if p.peek() == '(' {
			return p.parseCall(name, pos)
		}

		if name == "true" || name == "false" {
			return Node{Type: NodeBoolean, Text: name, Pos: pos}, nil
		}

		return Node{Type: NodeVariable, Name: name, Pos: pos}, nil

	default:
		return Node{}, p.fail(pos, "unexpected character", "expression")
	}
}

// parseCall parses: '(' ws* (Expr (ws* ',' ws* Expr)*)? ws* ')'.
// The identifier has already been consumed.
func (p *parser) parseCall(name string, pos Position) (Node, error) {
	if err := p.enter(pos); err != nil {
		return Node{}, err
	}
	defer p.leave()

	p.advance() // '('
	p.skipWhitespace()

	call := Node{Type: NodeCall, Name: name, Args: make([]Node, 0), Pos: pos}

	if p.expect(')') {
		return call, nil
	}

	for {
		arg, err := p.parseExpr()
		if err != nil {
			return Node{}, err
		}

		call.Args = append(call.Args, arg)

		p.skipWhitespace()

		switch {
		case p.expect(','):
			p.skipWhitespace()

		case p.expect(')'):
			return call, nil

		case p.eof():
			return Node{}, p.fail(pos, "unterminated argument list", ")")

		default:
			return Node{}, p.fail(p.position(), "unexpected character", ",|)")
		}
	}
}

// parseNumber parses: '-'? Digit+ ('.' Digit+)?.
func (p *parser) parseNumber() (Node, error) {
	pos := p.position()
	start := p.pos

	p.expect('-')

	if !p.digits() {
		return Node{}, p.fail(p.position(), "invalid number literal", "digit")
	}

	if p.expect('.') && !p.digits() {
		return Node{}, p.fail(p.position(), "invalid number literal", "digit")
	}

	if isIdentifierContinue(p.peek()) || p.peek() == '.' {
		return Node{}, p.fail(p.position(), "invalid number literal", "}")
	}

	return Node{
		Type: NodeNumber,
		Text: string(p.input[start:p.pos]),
		Pos:  pos,
	}, nil
}

// parseString parses: '"' [^"]* '"'. No escapes are recognized.
func (p *parser) parseString() (Node, error) {
	pos := p.position()

	p.advance() // opening quote

	start := p.pos

	for !p.eof() && p.peek() != '"' {
		p.advance()
	}

	if p.eof() {
		return Node{}, p.fail(pos, "unterminated string", `"`)
	}

	text := string(p.input[start:p.pos])

	p.advance() // closing quote

	return Node{Type: NodeString, Text: text, Pos: pos}, nil
}

// parseIdentifier consumes IdStart IdContinue*.
func (p *parser) parseIdentifier() string {
	start := p.pos

	p.advance()

	for isIdentifierContinue(p.peek()) {
		p.advance()
	}

	return string(p.input[start:p.pos])
}

func (p *parser) digits() bool {
	start := p.pos

	for isDigit(p.peek()) {
		p.advance()
	}

	return p.pos > start
}

func (p *parser) enter(pos Position) error {
	p.depth++

	if p.depth > p.maxDepth {
		return ErrSyntax.WithPosition(pos).
			Wrap(errors.New("nesting too deep")).
			With(slog.Int("max_depth", p.maxDepth))
	}

	return nil
}

func (p *parser) leave() { p.depth-- }

func (p *parser) fail(pos Position, reason, expected string) *Error {
	err := ErrSyntax.WithPosition(pos).Wrap(errors.New(reason))

	if expected != "" {
		err = err.With(slog.String("expected", expected))
	}

	p.logger.Trace("syntax error",
		slog.String("reason", reason),
		slog.Int("offset", pos.Offset))

	return err
}

// Helper methods

func (p *parser) atMarker() bool {
	return p.peek() == '$' && p.peekN(2) == "${"
}

func (p *parser) peek() rune {
	if p.eof() {
		return 0
	}

	r, _ := utf8.DecodeRune(p.input[p.pos:])

	return r
}

func (p *parser) peekN(n int) string {
	if p.pos+n > len(p.input) {
		return string(p.input[p.pos:])
	}

	return string(p.input[p.pos : p.pos+n])
}

func (p *parser) advance() {
	if p.eof() {
		return
	}

	r, size := utf8.DecodeRune(p.input[p.pos:])

	p.pos += size
	if r == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
}

func (p *parser) expect(ch rune) bool {
	if !p.eof() && p.peek() == ch {
		p.advance()

		return true
	}

	return false
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) position() Position {
	return Position{
		Offset: p.pos,
		Line:   p.line,
		Column: p.col,
	}
}

func (p *parser) skipWhitespace() {
	for !p.eof() && unicode.IsSpace(p.peek()) {
		p.advance()
	}
}

// Character classification

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentifierStart(r rune) bool {
	return unicode.In(r,
		unicode.L,  // Letter
		unicode.Nl, // Letter, Number
		unicode.Other_ID_Start,
	) || r == '_'
}

func isIdentifierContinue(r rune) bool {
	return isIdentifierStart(r) || unicode.In(r,
		unicode.Mn, // Mark, Nonspacing
		unicode.Mc, // Mark, Spacing Combining
		unicode.Nd, // Number, Decimal Digit
		unicode.Pc, // Punctuation, Connector
		unicode.Other_ID_Continue,
	)
}

// isNumberLiteral reports whether s is exactly '-'? Digit+ ('.' Digit+)?.
func isNumberLiteral(s string) bool {
	s = strings.TrimPrefix(s, "-")

	whole, frac, dotted := strings.Cut(s, ".")

	return allDigits(whole) && (!dotted || allDigits(frac))
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if !isDigit(r) {
			return false
		}
	}

	return true
}
