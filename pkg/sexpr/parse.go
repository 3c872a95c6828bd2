package sexpr

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSyntax is wrapped by every parse error.
var ErrSyntax = errors.New("s-expression syntax error")

// Parse reads exactly one datum from s.
func Parse(s string) (Value, error) {
	r := &reader{src: s}

	v, err := r.datum()
	if err != nil {
		return Value{}, err
	}

	r.skipSpace()

	if !r.eof() {
		return Value{}, r.errorf("unexpected trailing input %q", r.rest(16))
	}

	return v, nil
}

// ParseAll reads every datum in s.
func ParseAll(s string) ([]Value, error) {
	r := &reader{src: s}

	var values []Value

	for {
		r.skipSpace()

		if r.eof() {
			return values, nil
		}

		v, err := r.datum()
		if err != nil {
			return nil, err
		}

		values = append(values, v)
	}
}

type reader struct {
	src string
	pos int
}

func (r *reader) eof() bool {
	return r.pos >= len(r.src)
}

func (r *reader) peek() byte {
	return r.src[r.pos]
}

func (r *reader) rest(n int) string {
	end := min(r.pos+n, len(r.src))

	return r.src[r.pos:end]
}

func (r *reader) errorf(format string, args ...any) error {
	return fmt.Errorf("%w at offset %d: %s", ErrSyntax, r.pos, fmt.Sprintf(format, args...))
}

func (r *reader) skipSpace() {
	for !r.eof() {
		c := r.peek()

		switch {
		case c == ';':
			for !r.eof() && r.peek() != '\n' {
				r.pos++
			}
		case isSpace(c):
			r.pos++
		default:
			return
		}
	}
}

func (r *reader) datum() (Value, error) {
	r.skipSpace()

	if r.eof() {
		return Value{}, r.errorf("unexpected end of input")
	}

	switch c := r.peek(); {
	case c == '\'':
		r.pos++
		return r.datum()
	case c == '(' || c == '[':
		return r.list()
	case c == ')' || c == ']':
		return Value{}, r.errorf("unexpected %q", c)
	case c == '"':
		return r.str()
	case c == '#':
		return r.hashForm()
	default:
		return r.atom()
	}
}

func closerFor(open byte) byte {
	if open == '[' {
		return ']'
	}

	return ')'
}

func (r *reader) list() (Value, error) {
	closer := closerFor(r.peek())
	r.pos++

	list := Value{Kind: KindList}

	for {
		r.skipSpace()

		if r.eof() {
			return Value{}, r.errorf("unterminated list, expected %q", closer)
		}

		if r.peek() == closer {
			r.pos++
			return list, nil
		}

		if r.isDot() {
			return r.dottedTail(list, closer)
		}

		item, err := r.datum()
		if err != nil {
			return Value{}, err
		}

		list.Items = append(list.Items, item)
	}
}

func (r *reader) isDot() bool {
	if r.peek() != '.' {
		return false
	}

	next := r.pos + 1

	return next >= len(r.src) || isDelimiter(r.src[next])
}

// dottedTail finishes (a b . tail). A proper-list tail is spliced so that
// (k . (x y)) reads the same as (k x y).
func (r *reader) dottedTail(list Value, closer byte) (Value, error) {
	if len(list.Items) == 0 {
		return Value{}, r.errorf("dot without a preceding element")
	}

	r.pos++

	tail, err := r.datum()
	if err != nil {
		return Value{}, err
	}

	r.skipSpace()

	if r.eof() || r.peek() != closer {
		return Value{}, r.errorf("expected %q after dotted tail", closer)
	}

	r.pos++

	if tail.Kind == KindList {
		list.Items = append(list.Items, tail.Items...)
		list.Tail = tail.Tail

		return list, nil
	}

	list.Tail = &tail

	return list, nil
}

func (r *reader) str() (Value, error) {
	r.pos++

	var b strings.Builder

	for !r.eof() {
		c := r.peek()
		r.pos++

		switch c {
		case '"':
			return String(b.String()), nil
		case '\\':
			if r.eof() {
				return Value{}, r.errorf("unterminated string escape")
			}

			esc := r.peek()
			r.pos++

			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(esc)
			}
		default:
			b.WriteByte(c)
		}
	}

	return Value{}, r.errorf("unterminated string")
}

func (r *reader) hashForm() (Value, error) {
	switch {
	case strings.HasPrefix(r.src[r.pos:], "#hash("):
		r.pos += len("#hash")
		return r.list()
	case strings.HasPrefix(r.src[r.pos:], "#("):
		r.pos++
		return r.list()
	}

	tok := r.token()

	switch tok {
	case "#t", "#true":
		return Bool(true), nil
	case "#f", "#false":
		return Bool(false), nil
	default:
		return Value{}, r.errorf("unsupported reader syntax %q", tok)
	}
}

func (r *reader) atom() (Value, error) {
	tok := r.token()
	if tok == "" {
		return Value{}, r.errorf("unexpected %q", r.peek())
	}

	if isNumber(tok) {
		return Number(tok), nil
	}

	return Symbol(tok), nil
}

func (r *reader) token() string {
	start := r.pos
	for !r.eof() && !isDelimiter(r.peek()) {
		r.pos++
	}

	return r.src[start:r.pos]
}

func isDelimiter(c byte) bool {
	switch c {
	case '(', ')', '[', ']', '"', ';', '\'':
		return true
	default:
		return isSpace(c)
	}
}

// isSpace classifies ASCII whitespace only; bytes of multibyte runes are
// symbol constituents.
func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	default:
		return false
	}
}

func isNumber(tok string) bool {
	digits := strings.TrimLeft(tok, "+-")
	if digits == "" || len(tok)-len(digits) > 1 {
		return false
	}

	seenDot := false

	for _, c := range digits {
		switch {
		case c == '.' && !seenDot:
			seenDot = true
		case c >= '0' && c <= '9':
		default:
			return false
		}
	}

	return digits != "."
}
