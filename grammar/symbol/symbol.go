package symbol

import (
	"fmt"
	"strconv"
)

type symbolKind string

const (
	symbolKindNil         = symbolKind("")
	symbolKindNonTerminal = symbolKind("non-terminal")
	symbolKindTerminal    = symbolKind("terminal")
)

func (t symbolKind) String() string {
	return string(t)
}

// Symbol is an atom of a production. A terminal symbol matches one input symbol by literal equality,
// and a non-terminal symbol is expanded by rules having the same name on their LHS.
//
// Symbol is comparable; two symbols are equal when both their kinds and texts are equal.
type Symbol struct {
	kind symbolKind
	text string
}

// SymbolNil is the zero value and represents no symbol.
var SymbolNil = Symbol{}

func NewTerminal(value string) Symbol {
	return Symbol{
		kind: symbolKindTerminal,
		text: value,
	}
}

func NewNonTerminal(name string) Symbol {
	return Symbol{
		kind: symbolKindNonTerminal,
		text: name,
	}
}

func (s Symbol) String() string {
	switch s.kind {
	case symbolKindTerminal:
		return quote(s.text)
	case symbolKindNonTerminal:
		return s.text
	}
	return "<nil>"
}

// GoString is used by %#v and prints the kind explicitly.
func (s Symbol) GoString() string {
	return fmt.Sprintf("%v(%v)", s.kind, strconv.Quote(s.text))
}

// Text returns a terminal value or a non-terminal name.
func (s Symbol) Text() string {
	return s.text
}

func (s Symbol) IsNil() bool {
	return s.kind == symbolKindNil
}

func (s Symbol) IsTerminal() bool {
	return s.kind == symbolKindTerminal
}

func (s Symbol) IsNonTerminal() bool {
	return s.kind == symbolKindNonTerminal
}

// quote encloses a terminal value in single quotes, the same notation as the grammar description
// language uses.
func quote(text string) string {
	b := make([]byte, 0, len(text)+2)
	b = append(b, '\'')
	for _, c := range text {
		switch c {
		case '\'':
			b = append(b, `\'`...)
		case '\\':
			b = append(b, `\\`...)
		default:
			b = append(b, string(c)...)
		}
	}
	b = append(b, '\'')
	return string(b)
}
