package earley

import "testing"

func TestSplit(t *testing.T) {
	tests := []struct {
		caption string
		split   func(string) []string
		src     string
		input   []string
	}{
		{
			caption: "SplitRunes makes each character a symbol",
			split:   SplitRunes,
			src:     "i+あ",
			input:   []string{"i", "+", "あ"},
		},
		{
			caption: "SplitRunes keeps white spaces",
			split:   SplitRunes,
			src:     "a b",
			input:   []string{"a", " ", "b"},
		},
		{
			caption: "SplitRunes makes nothing of an empty string",
			split:   SplitRunes,
			src:     "",
			input:   []string{},
		},
		{
			caption: "SplitRunes makes each byte of invalid UTF-8 a symbol",
			split:   SplitRunes,
			src:     "a\xffb\xe3\x81",
			input:   []string{"a", "\xff", "b", "\xe3", "\x81"},
		},
		{
			caption: "SplitFields makes each word a symbol",
			split:   SplitFields,
			src:     "  let x\t= 1\n",
			input:   []string{"let", "x", "=", "1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			input := tt.split(tt.src)
			if len(input) != len(tt.input) {
				t.Fatalf("unexpected length; want: %v, got: %v (%q)", len(tt.input), len(input), input)
			}
			for i, sym := range input {
				if sym != tt.input[i] {
					t.Fatalf("unexpected symbol; want: %q, got: %q", tt.input[i], sym)
				}
			}
		})
	}
}

func TestSplitRunes_InvalidByteMatchesTerminal(t *testing.T) {
	g := newTestGrammar(t,
		rule("S", t_("a"), t_("\xff")),
	)
	res, err := Parse(g, SplitRunes("a\xff"))
	if err != nil {
		t.Fatal(err)
	}
	if res.ParseCount() != 1 {
		t.Fatalf("unexpected parse count; want: 1, got: %v", res.ParseCount())
	}
}
