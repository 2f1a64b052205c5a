package ded

import (
	"fmt"
	"strings"
)

const hexDigits = "0123456789abcdef"

type Position struct {
	Offset int
	Line   int
	Column int
}

func startPosition() Position {
	return Position{Offset: 0, Line: 1, Column: 1}
}

// ParseError describes a failed sub-parse. Outer errors add context to the
// error they wrap.
type ParseError struct {
	Description string
	Position    Position
	Inner       *ParseError
}

func newParseError(desc string, pos Position) *ParseError {
	return &ParseError{Description: desc, Position: pos}
}

func wrapParseError(desc string, pos Position, inner *ParseError) *ParseError {
	return &ParseError{Description: desc, Position: pos, Inner: inner}
}

func (e *ParseError) Error() string {
	var chain []*ParseError
	for cur := e; cur != nil; cur = cur.Inner {
		chain = append(chain, cur)
	}

	parts := make([]string, 0, len(chain))
	for i := len(chain) - 1; i >= 0; i-- {
		c := chain[i]
		parts = append(parts, fmt.Sprintf("at line %d, column %d (offset %d): %s",
			c.Position.Line, c.Position.Column, c.Position.Offset, c.Description))
	}
	return "parse error: " + strings.Join(parts, "; ")
}

func (e *ParseError) Unwrap() error {
	if e.Inner == nil {
		return nil
	}
	return e.Inner
}

// root returns the innermost error of the chain.
func (e *ParseError) root() *ParseError {
	cur := e
	for cur.Inner != nil {
		cur = cur.Inner
	}
	return cur
}

// Parser reads transforms from an edited listing.
type Parser struct {
	input []rune
	pos   Position
}

type parseFunc[T any] func(*Parser) (T, *ParseError)

func NewParser(input string) *Parser {
	return &Parser{input: []rune(input), pos: startPosition()}
}

func (p *Parser) reset(input string) {
	p.input = []rune(input)
	p.pos = startPosition()
}

func (p *Parser) Position() Position { return p.pos }

func (p *Parser) rest() string { return string(p.input[p.pos.Offset:]) }

func (p *Parser) peek() (rune, bool) {
	if p.pos.Offset >= len(p.input) {
		return 0, false
	}
	return p.input[p.pos.Offset], true
}

func (p *Parser) next() (rune, bool) {
	c, ok := p.peek()
	if !ok {
		return 0, false
	}

	p.pos.Offset++
	if c == '\n' {
		p.pos.Line++
		p.pos.Column = 1
	} else {
		p.pos.Column++
	}
	return c, true
}

func (p *Parser) satisfy(pred func(rune) bool) (rune, *ParseError) {
	pos := p.pos
	c, ok := p.next()
	if !ok {
		return 0, newParseError("unexpected end of input", pos)
	}
	if !pred(c) {
		return 0, newParseError(fmt.Sprintf("unexpected character %q", c), pos)
	}
	return c, nil
}

func (p *Parser) oneOf(set string) (rune, *ParseError) {
	pos := p.pos
	c, err := p.satisfy(func(c rune) bool { return strings.ContainsRune(set, c) })
	if err != nil {
		return 0, wrapParseError(fmt.Sprintf("expected one of %q", set), pos, err)
	}
	return c, nil
}

func (p *Parser) char(want rune) (rune, *ParseError) {
	pos := p.pos
	c, err := p.satisfy(func(c rune) bool { return c == want })
	if err != nil {
		return 0, wrapParseError(fmt.Sprintf("expected character %q", want), pos, err)
	}
	return c, nil
}

func (p *Parser) hexDigit() (rune, *ParseError) {
	pos := p.pos
	c, err := p.oneOf(hexDigits)
	if err != nil {
		return 0, wrapParseError("expected hex digit", pos, err)
	}
	return c, nil
}

func (p *Parser) eof() (struct{}, *ParseError) {
	if p.pos.Offset < len(p.input) {
		return struct{}{}, newParseError("expected end of input", p.pos)
	}
	return struct{}{}, nil
}

func (p *Parser) newline() (struct{}, *ParseError) {
	pos := p.pos
	if _, ok := attempt(p, (*Parser).crlf); ok {
		return struct{}{}, nil
	}
	if _, err := p.char('\n'); err != nil {
		return struct{}{}, wrapParseError("expected newline", pos, err)
	}
	return struct{}{}, nil
}

func (p *Parser) crlf() (struct{}, *ParseError) {
	if _, err := p.char('\r'); err != nil {
		return struct{}{}, err
	}
	_, err := p.char('\n')
	return struct{}{}, err
}

func (p *Parser) lineEnding() (struct{}, *ParseError) {
	pos := p.pos
	if _, err := either(p, (*Parser).eof, (*Parser).newline); err != nil {
		return struct{}{}, wrapParseError("expected end of input or newline", pos, err)
	}
	return struct{}{}, nil
}

// attempt runs f and rewinds the cursor if it fails.
func attempt[T any](p *Parser, f parseFunc[T]) (T, bool) {
	saved := p.pos
	v, err := f(p)
	if err != nil {
		p.pos = saved
		var zero T
		return zero, false
	}
	return v, true
}

// lookahead runs f and always rewinds the cursor.
func lookahead[T any](p *Parser, f parseFunc[T]) bool {
	saved := p.pos
	_, err := f(p)
	p.pos = saved
	return err == nil
}

func many0[T any](p *Parser, f parseFunc[T]) []T {
	var result []T
	for {
		before := p.pos.Offset
		v, ok := attempt(p, f)
		if !ok {
			return result
		}
		result = append(result, v)
		if p.pos.Offset == before {
			return result
		}
	}
}

func many1[T any](p *Parser, f parseFunc[T]) ([]T, *ParseError) {
	first, err := f(p)
	if err != nil {
		return nil, err
	}
	return append([]T{first}, many0(p, f)...), nil
}

func skipMany0[T any](p *Parser, f parseFunc[T]) {
	many0(p, f)
}

func skipMany1[T any](p *Parser, f parseFunc[T]) *ParseError {
	_, err := many1(p, f)
	return err
}

// either tries a and falls back to b from the same position.
func either[T any](p *Parser, a, b parseFunc[T]) (T, *ParseError) {
	if v, ok := attempt(p, a); ok {
		return v, nil
	}
	return b(p)
}

// takeUntil consumes characters up to the point where stop would succeed.
// What stop matches is left in the input.
func takeUntil[T any](p *Parser, stop parseFunc[T]) string {
	var b strings.Builder
	for {
		c, ok := p.peek()
		if !ok || lookahead(p, stop) {
			return b.String()
		}
		b.WriteRune(c)
		p.next()
	}
}

func (p *Parser) comment() (struct{}, *ParseError) {
	if _, err := p.char('#'); err != nil {
		return struct{}{}, err
	}
	takeUntil(p, (*Parser).lineEnding)
	return p.lineEnding()
}

func (p *Parser) space() (struct{}, *ParseError) {
	return struct{}{}, skipMany1(p, func(p *Parser) (rune, *ParseError) { return p.oneOf(" \t\r\n") })
}

func (p *Parser) blanks() (struct{}, *ParseError) {
	return struct{}{}, skipMany1(p, func(p *Parser) (rune, *ParseError) { return p.oneOf(" \t") })
}

func (p *Parser) whitespace() (struct{}, *ParseError) {
	return either(p, (*Parser).comment, (*Parser).space)
}

func (p *Parser) skipWhitespace() {
	skipMany0(p, (*Parser).whitespace)
}

func (p *Parser) fragment() (string, *ParseError) {
	pos := p.pos
	digits, err := many1(p, (*Parser).hexDigit)
	if err != nil {
		return "", wrapParseError("expected hex identifier", pos, err)
	}
	return string(digits), nil
}

func (p *Parser) transform() (Transform, *ParseError) {
	p.skipWhitespace()

	fragment, err := p.fragment()
	if err != nil {
		return Transform{}, err
	}

	if _, ok := attempt(p, (*Parser).blanks); !ok {
		pos := p.pos
		if _, err := p.lineEnding(); err != nil {
			return Transform{}, wrapParseError("expected pattern", pos, err)
		}
		return NewRemove(fragment), nil
	}

	pattern := strings.TrimSpace(takeUntil(p, (*Parser).lineEnding))
	if _, err := p.lineEnding(); err != nil {
		return Transform{}, err
	}

	if pattern == "" {
		return NewRemove(fragment), nil
	}
	return NewRename(fragment, pattern), nil
}

// Parse reads the whole input. Any content that is not a transform, a
// comment or whitespace fails the parse.
func (p *Parser) Parse() ([]Transform, error) {
	transforms := many0(p, (*Parser).transform)
	p.skipWhitespace()

	if _, err := p.eof(); err != nil {
		pos := p.pos
		_, inner := p.transform()
		if inner == nil {
			inner = err
		}
		return nil, wrapParseError("expected end of input", pos, inner)
	}
	return transforms, nil
}

func ParseTransforms(input string) ([]Transform, error) {
	return NewParser(input).Parse()
}
