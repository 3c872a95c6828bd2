// Package sexpr reads the subset of Racket S-expressions printed by the
// solver: lists, dotted pairs, symbols, numbers, strings, booleans and
// hash literals.
package sexpr

import (
	"strconv"
	"strings"
)

// Kind tags the variant held by a Value.
type Kind int

// Value kinds.
const (
	KindList Kind = iota
	KindSymbol
	KindNumber
	KindString
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindList:
		return "list"
	case KindSymbol:
		return "symbol"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Value is a parsed datum. Lists keep their elements in Items; an improper
// list additionally carries its final cdr in Tail.
type Value struct {
	Kind  Kind
	Items []Value
	Tail  *Value
	Atom  string
	Bool  bool
}

// List builds a proper list.
func List(items ...Value) Value {
	return Value{Kind: KindList, Items: items}
}

// Symbol builds a symbol atom.
func Symbol(name string) Value {
	return Value{Kind: KindSymbol, Atom: name}
}

// Number builds a number atom from its textual form.
func Number(text string) Value {
	return Value{Kind: KindNumber, Atom: text}
}

// String builds a string atom.
func String(s string) Value {
	return Value{Kind: KindString, Atom: s}
}

// Bool builds a boolean.
func Bool(b bool) Value {
	return Value{Kind: KindBool, Bool: b}
}

// IsList reports whether v is a proper list.
func (v Value) IsList() bool {
	return v.Kind == KindList && v.Tail == nil
}

// IsAtom reports whether v is not a list.
func (v Value) IsAtom() bool {
	return v.Kind != KindList
}

// Lookup treats v as an association list and returns the cdr of the first
// entry whose car is the symbol key.
func (v Value) Lookup(key string) (Value, bool) {
	if v.Kind != KindList {
		return Value{}, false
	}

	for _, entry := range v.Items {
		if entry.Kind != KindList || len(entry.Items) == 0 {
			continue
		}

		head := entry.Items[0]
		if head.Kind != KindSymbol || head.Atom != key {
			continue
		}

		if entry.Tail != nil && len(entry.Items) == 1 {
			return *entry.Tail, true
		}

		return Value{Kind: KindList, Items: entry.Items[1:], Tail: entry.Tail}, true
	}

	return Value{}, false
}

// Int returns the numeric value of an integer atom.
func (v Value) Int() (int64, bool) {
	if v.Kind != KindNumber {
		return 0, false
	}

	n, err := strconv.ParseInt(v.Atom, 10, 64)

	return n, err == nil
}

func (v Value) String() string {
	var b strings.Builder

	v.write(&b)

	return b.String()
}

func (v Value) write(b *strings.Builder) {
	switch v.Kind {
	case KindList:
		b.WriteByte('(')

		for i, item := range v.Items {
			if i > 0 {
				b.WriteByte(' ')
			}

			item.write(b)
		}

		if v.Tail != nil {
			b.WriteString(" . ")
			v.Tail.write(b)
		}

		b.WriteByte(')')
	case KindString:
		b.WriteString(strconv.Quote(v.Atom))
	case KindBool:
		if v.Bool {
			b.WriteString("#t")
		} else {
			b.WriteString("#f")
		}
	default:
		b.WriteString(v.Atom)
	}
}
