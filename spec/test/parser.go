package test

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"

	"github.com/nihei9/earley/earley"
	"github.com/nihei9/earley/grammar"
	"github.com/nihei9/earley/grammar/symbol"
	mlcompiler "github.com/nihei9/maleeni/compiler"
	mldriver "github.com/nihei9/maleeni/driver"
	mlspec "github.com/nihei9/maleeni/spec"
)

// TestCase consists of a description, an input, and the trees the input is expected to have in the order
// a parser enumerates them. No tree means the input must be rejected.
type TestCase struct {
	Description string
	Source      []byte
	Output      []*Tree
}

// ParseTestCase reads a test case consisting of three parts separated by `---` lines. The last part lists
// trees as S-expressions, such as `(S (T (S 'i')) '+' (T (S 'i')))`, and may be blank.
func ParseTestCase(r io.Reader) (*TestCase, error) {
	parts, err := splitIntoParts(r)
	if err != nil {
		return nil, err
	}
	if len(parts) != 3 {
		return nil, fmt.Errorf("too many or too few part delimiters: a test case consists of just three parts: %v parts found", len(parts))
	}

	tp := &treeParser{
		lineOffset: parts[0].lineCount + parts[1].lineCount + 2,
	}
	trees, err := tp.parseTrees(bytes.NewReader(parts[2].buf))
	if err != nil {
		return nil, err
	}

	return &TestCase{
		Description: string(parts[0].buf),
		Source:      parts[1].buf,
		Output:      trees,
	}, nil
}

type testCasePart struct {
	buf       []byte
	lineCount int
}

func splitIntoParts(r io.Reader) ([]*testCasePart, error) {
	var bufs []*testCasePart
	s := bufio.NewScanner(r)
	for {
		buf, lineCount, err := readPart(s)
		if err != nil {
			return nil, err
		}
		if buf == nil {
			break
		}
		bufs = append(bufs, &testCasePart{
			buf:       buf,
			lineCount: lineCount,
		})
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return bufs, nil
}

var reDelim = regexp.MustCompile(`^\s*---+\s*$`)

func readPart(s *bufio.Scanner) ([]byte, int, error) {
	if !s.Scan() {
		return nil, 0, s.Err()
	}
	buf := &bytes.Buffer{}
	line := s.Bytes()
	if reDelim.Match(line) {
		// (*bytes.Buffer).Bytes() returns nil when nothing has been written.
		return []byte{}, 0, nil
	}
	buf.Write(line)
	lineCount := 1
	for s.Scan() {
		line := s.Bytes()
		if reDelim.Match(line) {
			return buf.Bytes(), lineCount, nil
		}
		buf.WriteString("\n")
		buf.Write(line)
		lineCount++
	}
	if err := s.Err(); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), lineCount, nil
}

const lexModeString = mlspec.LexModeName("string")

var treeLexSpec = &mlspec.LexSpec{
	Name: "tree",
	Entries: []*mlspec.LexEntry{
		{Kind: "white_space", Pattern: `[\u{0009}\u{0020}]+`},
		{Kind: "newline", Pattern: `\u{000A}|\u{000D}\u{000A}|\u{000D}`},
		{Kind: "l_paren", Pattern: `\(`},
		{Kind: "r_paren", Pattern: `\)`},
		{Kind: "identifier", Pattern: `[A-Za-z_][0-9A-Za-z_]*`},
		{Kind: "string_open", Pattern: `'`, Push: lexModeString},
		{Modes: []mlspec.LexModeName{lexModeString}, Kind: "char_seq", Pattern: `[^\\']+`},
		{Modes: []mlspec.LexModeName{lexModeString}, Kind: "escaped_quot", Pattern: `\\'`},
		{Modes: []mlspec.LexModeName{lexModeString}, Kind: "escaped_back_slash", Pattern: `\\\\`},
		{Modes: []mlspec.LexModeName{lexModeString}, Kind: "escape_symbol", Pattern: `\\`},
		{Modes: []mlspec.LexModeName{lexModeString}, Kind: "string_close", Pattern: `'`, Pop: true},
	},
}

// The trees of a test case are parsed with the Earley parser itself. The terminals are token kinds.
//
//	trees    → trees tree | ε
//	tree     → '(' id children ')' | string
//	children → children tree | ε
var treeGrammarRules = []*grammar.Rule{
	grammar.NewRule("trees", symbol.NewNonTerminal("trees"), symbol.NewNonTerminal("tree")),
	grammar.NewRule("trees"),
	grammar.NewRule("tree", symbol.NewTerminal(tokKindLParen), symbol.NewTerminal(tokKindID), symbol.NewNonTerminal("children"), symbol.NewTerminal(tokKindRParen)),
	grammar.NewRule("tree", symbol.NewTerminal(tokKindString)),
	grammar.NewRule("children", symbol.NewNonTerminal("children"), symbol.NewNonTerminal("tree")),
	grammar.NewRule("children"),
}

const (
	tokKindLParen = "("
	tokKindRParen = ")"
	tokKindID     = "id"
	tokKindString = "string"
)

var (
	setUpTreeParserOnce sync.Once
	treeLexCompiled     *mlspec.CompiledLexSpec
	treeGrammar         *grammar.Grammar
	setUpTreeParserErr  error
)

func setUpTreeParser() error {
	setUpTreeParserOnce.Do(func() {
		s, err, cErrs := mlcompiler.Compile(treeLexSpec, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
		if err != nil {
			if len(cErrs) > 0 {
				setUpTreeParserErr = fmt.Errorf("cannot compile the lexical specification of trees: %v: %v", cErrs[0].Kind, cErrs[0].Cause)
				return
			}
			setUpTreeParserErr = err
			return
		}
		treeLexCompiled = s
		treeGrammar, setUpTreeParserErr = grammar.NewGrammar(treeGrammarRules, grammar.Strict())
	})
	return setUpTreeParserErr
}

type treeToken struct {
	kind string
	text string
	row  int
	col  int
}

type treeParser struct {
	lineOffset int
	toks       []*treeToken
	eof        *treeToken
}

func (tp *treeParser) parseTrees(src io.Reader) ([]*Tree, error) {
	err := setUpTreeParser()
	if err != nil {
		return nil, err
	}
	err = tp.lex(src)
	if err != nil {
		return nil, err
	}

	input := make([]string, len(tp.toks))
	for i, tok := range tp.toks {
		input[i] = tok.kind
	}
	res, err := earley.Parse(treeGrammar, input)
	if err != nil {
		return nil, err
	}
	if res.ParseCount() == 0 {
		return nil, tp.syntaxError(res.Chart)
	}

	var trees []*Tree
	for _, t := range tp.genList(res.Tree(0)) {
		trees = append(trees, t.Fill())
	}
	return trees, nil
}

func (tp *treeParser) lex(src io.Reader) error {
	d, err := mldriver.NewLexer(mldriver.NewLexSpec(treeLexCompiled), src)
	if err != nil {
		return err
	}
	kindName := func(tok *mldriver.Token) string {
		return string(treeLexCompiled.KindNames[tok.KindID])
	}
	for {
		tok, err := d.Next()
		if err != nil {
			return err
		}
		if tok.EOF {
			tp.eof = &treeToken{
				row: tok.Row,
				col: tok.Col,
			}
			return nil
		}
		if tok.Invalid {
			return fmt.Errorf("%v:%v: invalid token: '%v'", tp.lineOffset+tok.Row+1, tok.Col+1, string(tok.Lexeme))
		}
		switch kindName(tok) {
		case "white_space", "newline":
			continue
		case "l_paren":
			tp.toks = append(tp.toks, &treeToken{kind: tokKindLParen, text: "(", row: tok.Row, col: tok.Col})
		case "r_paren":
			tp.toks = append(tp.toks, &treeToken{kind: tokKindRParen, text: ")", row: tok.Row, col: tok.Col})
		case "identifier":
			tp.toks = append(tp.toks, &treeToken{kind: tokKindID, text: string(tok.Lexeme), row: tok.Row, col: tok.Col})
		case "string_open":
			str, err := tp.lexString(d, kindName, tok)
			if err != nil {
				return err
			}
			tp.toks = append(tp.toks, str)
		}
	}
}

func (tp *treeParser) lexString(d *mldriver.Lexer, kindName func(*mldriver.Token) string, open *mldriver.Token) (*treeToken, error) {
	var b strings.Builder
	for {
		tok, err := d.Next()
		if err != nil {
			return nil, err
		}
		if tok.EOF {
			return nil, fmt.Errorf("%v:%v: unclosed string", tp.lineOffset+open.Row+1, open.Col+1)
		}
		switch kindName(tok) {
		case "char_seq":
			b.Write(tok.Lexeme)
		case "escaped_quot":
			b.WriteString(`'`)
		case "escaped_back_slash":
			b.WriteString(`\`)
		case "escape_symbol":
			return nil, fmt.Errorf("%v:%v: incomplete escape sequence", tp.lineOffset+tok.Row+1, tok.Col+1)
		case "string_close":
			if b.Len() == 0 {
				return nil, fmt.Errorf("%v:%v: a terminal must not be empty", tp.lineOffset+open.Row+1, open.Col+1)
			}
			return &treeToken{
				kind: tokKindString,
				text: b.String(),
				row:  open.Row,
				col:  open.Col,
			}, nil
		}
	}
}

// syntaxError reports the first token the chart couldn't go beyond.
func (tp *treeParser) syntaxError(chart *earley.Chart) error {
	pos := 0
	for i := chart.Len() - 1; i >= 0; i-- {
		if chart.Cell(i).Len() > 0 {
			pos = i
			break
		}
	}

	var expected []string
	known := map[string]struct{}{}
	for _, s := range chart.Cell(pos).States() {
		next := s.Next()
		if !next.IsTerminal() {
			continue
		}
		if _, ok := known[next.Text()]; ok {
			continue
		}
		known[next.Text()] = struct{}{}
		expected = append(expected, next.Text())
	}

	var b strings.Builder
	if pos < len(tp.toks) {
		tok := tp.toks[pos]
		fmt.Fprintf(&b, "%v:%v: unexpected token: '%v'", tp.lineOffset+tok.row+1, tok.col+1, tok.text)
	} else {
		fmt.Fprintf(&b, "%v:%v: unexpected token: <eof>", tp.lineOffset+tp.eof.row+1, tp.eof.col+1)
	}
	if len(expected) > 0 {
		fmt.Fprintf(&b, ": expected: %v", strings.Join(expected, ", "))
	}
	return errors.New(b.String())
}

// genList flattens a left-recursive list such as `trees → trees tree | ε`.
func (tp *treeParser) genList(node *earley.Node) []*Tree {
	if len(node.Children) == 0 {
		return nil
	}
	return append(tp.genList(node.Children[0]), tp.genTree(node.Children[1]))
}

func (tp *treeParser) genTree(node *earley.Node) *Tree {
	if len(node.Children) == 1 {
		return NewTerminalTree(tp.toks[node.Children[0].Pos].text)
	}
	kind := tp.toks[node.Children[1].Pos].text
	return NewNonTerminalTree(kind, tp.genList(node.Children[2])...)
}
