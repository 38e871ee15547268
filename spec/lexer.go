package spec

import (
	"fmt"
	"io"
	"strings"
	"sync"

	verr "github.com/nihei9/earley/error"
	mlcompiler "github.com/nihei9/maleeni/compiler"
	mldriver "github.com/nihei9/maleeni/driver"
	mlspec "github.com/nihei9/maleeni/spec"
)

type tokenKind string

const (
	tokenKindID            = tokenKind("id")
	tokenKindStringLiteral = tokenKind("string")
	tokenKindColon         = tokenKind(":")
	tokenKindOr            = tokenKind("|")
	tokenKindSemicolon     = tokenKind(";")
	tokenKindEOF           = tokenKind("eof")
	tokenKindInvalid       = tokenKind("invalid")
)

type Position struct {
	Row int
	Col int
}

func newPosition(row, col int) Position {
	return Position{
		Row: row,
		Col: col,
	}
}

type token struct {
	kind tokenKind
	text string
	pos  Position
}

func newSymbolToken(kind tokenKind, pos Position) *token {
	return &token{
		kind: kind,
		pos:  pos,
	}
}

func newIDToken(text string, pos Position) *token {
	return &token{
		kind: tokenKindID,
		text: text,
		pos:  pos,
	}
}

func newStringLiteralToken(text string, pos Position) *token {
	return &token{
		kind: tokenKindStringLiteral,
		text: text,
		pos:  pos,
	}
}

func newEOFToken(pos Position) *token {
	return &token{
		kind: tokenKindEOF,
		pos:  pos,
	}
}

func newInvalidToken(text string, pos Position) *token {
	return &token{
		kind: tokenKindInvalid,
		text: text,
		pos:  pos,
	}
}

const lexModeStringLiteral = mlspec.LexModeName("string_literal")

var lexSpec = &mlspec.LexSpec{
	Name: "earley_grammar",
	Entries: []*mlspec.LexEntry{
		{Kind: "white_space", Pattern: `[\u{0009}\u{0020}]+`},
		{Kind: "newline", Pattern: `\u{000A}|\u{000D}\u{000A}|\u{000D}`},
		{Kind: "line_comment", Pattern: `//[^\u{000A}\u{000D}]*`},
		{Kind: "identifier", Pattern: `[A-Za-z_][0-9A-Za-z_]*`},
		{Kind: "colon", Pattern: `:`},
		{Kind: "or", Pattern: `\|`},
		{Kind: "semicolon", Pattern: `;`},
		{Kind: "string_literal_open", Pattern: `'`, Push: lexModeStringLiteral},
		{Modes: []mlspec.LexModeName{lexModeStringLiteral}, Kind: "char_seq", Pattern: `[^\\']+`},
		{Modes: []mlspec.LexModeName{lexModeStringLiteral}, Kind: "escaped_quot", Pattern: `\\'`},
		{Modes: []mlspec.LexModeName{lexModeStringLiteral}, Kind: "escaped_back_slash", Pattern: `\\\\`},
		{Modes: []mlspec.LexModeName{lexModeStringLiteral}, Kind: "escape_symbol", Pattern: `\\`},
		{Modes: []mlspec.LexModeName{lexModeStringLiteral}, Kind: "string_literal_close", Pattern: `'`, Pop: true},
	},
}

var (
	compileLexSpecOnce sync.Once
	compiledLexSpec    *mlspec.CompiledLexSpec
	compileLexSpecErr  error
)

func compileLexSpec() (*mlspec.CompiledLexSpec, error) {
	compileLexSpecOnce.Do(func() {
		s, err, cErrs := mlcompiler.Compile(lexSpec, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
		if err != nil {
			if len(cErrs) > 0 {
				var b strings.Builder
				fmt.Fprintf(&b, "%v: %v", cErrs[0].Kind, cErrs[0].Cause)
				for _, cerr := range cErrs[1:] {
					fmt.Fprintf(&b, "\n%v: %v", cerr.Kind, cerr.Cause)
				}
				compileLexSpecErr = fmt.Errorf("cannot compile the lexical specification of the grammar language:\n%v", b.String())
				return
			}
			compileLexSpecErr = err
			return
		}
		compiledLexSpec = s
	})
	return compiledLexSpec, compileLexSpecErr
}

type lexer struct {
	s *mlspec.CompiledLexSpec
	d *mldriver.Lexer
}

func newLexer(src io.Reader) (*lexer, error) {
	s, err := compileLexSpec()
	if err != nil {
		return nil, err
	}
	d, err := mldriver.NewLexer(mldriver.NewLexSpec(s), src)
	if err != nil {
		return nil, err
	}
	return &lexer{
		s: s,
		d: d,
	}, nil
}

func (l *lexer) next() (*token, error) {
	return l.lexAndSkipWSs()
}

func (l *lexer) kindName(tok *mldriver.Token) string {
	return string(l.s.KindNames[tok.KindID])
}

func (l *lexer) lexAndSkipWSs() (*token, error) {
	var tok *mldriver.Token
	for {
		var err error
		tok, err = l.d.Next()
		if err != nil {
			return nil, err
		}
		if tok.Invalid {
			return newInvalidToken(string(tok.Lexeme), newPosition(tok.Row+1, tok.Col+1)), nil
		}
		if tok.EOF {
			return newEOFToken(newPosition(tok.Row+1, tok.Col+1)), nil
		}
		switch l.kindName(tok) {
		case "white_space", "newline", "line_comment":
			continue
		}

		break
	}

	pos := newPosition(tok.Row+1, tok.Col+1)
	switch l.kindName(tok) {
	case "identifier":
		return newIDToken(string(tok.Lexeme), pos), nil
	case "string_literal_open":
		var b strings.Builder
		for {
			tok, err := l.d.Next()
			if err != nil {
				return nil, err
			}
			if tok.EOF {
				return nil, &verr.SpecError{
					Cause: synErrUnclosedString,
					Row:   pos.Row,
					Col:   pos.Col,
				}
			}
			if tok.Invalid {
				return newInvalidToken(string(tok.Lexeme), newPosition(tok.Row+1, tok.Col+1)), nil
			}
			switch l.kindName(tok) {
			case "char_seq":
				b.Write(tok.Lexeme)
			case "escaped_quot":
				// Remove '\' character.
				b.WriteString(`'`)
			case "escaped_back_slash":
				// Remove '\' character.
				b.WriteString(`\`)
			case "escape_symbol":
				return nil, &verr.SpecError{
					Cause: synErrIncompletedEscSeq,
					Row:   tok.Row + 1,
					Col:   tok.Col + 1,
				}
			case "string_literal_close":
				str := b.String()
				if str == "" {
					return nil, &verr.SpecError{
						Cause: synErrEmptyString,
						Row:   pos.Row,
						Col:   pos.Col,
					}
				}
				return newStringLiteralToken(str, pos), nil
			}
		}
	case "colon":
		return newSymbolToken(tokenKindColon, pos), nil
	case "or":
		return newSymbolToken(tokenKindOr, pos), nil
	case "semicolon":
		return newSymbolToken(tokenKindSemicolon, pos), nil
	default:
		return newInvalidToken(string(tok.Lexeme), pos), nil
	}
}
