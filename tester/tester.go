package tester

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nihei9/earley/earley"
	"github.com/nihei9/earley/grammar"
	tspec "github.com/nihei9/earley/spec/test"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("earley.tester")

type TestResult struct {
	TestCasePath string
	Error        error
	Diffs        []*tspec.TreeDiff
}

func (r *TestResult) String() string {
	if r.Error != nil {
		const indent1 = "    "
		const indent2 = indent1 + indent1

		msgLines := strings.Split(r.Error.Error(), "\n")
		msg := fmt.Sprintf("Failed %v:\n%v%v", r.TestCasePath, indent1, strings.Join(msgLines, "\n"+indent1))
		if len(r.Diffs) == 0 {
			return msg
		}
		var diffLines []string
		for _, diff := range r.Diffs {
			diffLines = append(diffLines, diff.Message)
			diffLines = append(diffLines, fmt.Sprintf("%vexpected path: %v", indent1, diff.ExpectedPath))
			diffLines = append(diffLines, fmt.Sprintf("%vactual path:   %v", indent1, diff.ActualPath))
		}
		return fmt.Sprintf("%v\n%v%v", msg, indent2, strings.Join(diffLines, "\n"+indent2))
	}
	return fmt.Sprintf("Passed %v", r.TestCasePath)
}

type TestCaseWithMetadata struct {
	TestCase *tspec.TestCase
	FilePath string
	Error    error
}

// ListTestCases reads a test case file or every test case file under a directory.
func ListTestCases(testPath string) []*TestCaseWithMetadata {
	fi, err := os.Stat(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	if !fi.IsDir() {
		c, err := parseTestCase(testPath)
		return []*TestCaseWithMetadata{
			{
				TestCase: c,
				FilePath: testPath,
				Error:    err,
			},
		}
	}

	es, err := os.ReadDir(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	var cases []*TestCaseWithMetadata
	for _, e := range es {
		cs := ListTestCases(filepath.Join(testPath, e.Name()))
		cases = append(cases, cs...)
	}
	return cases
}

func parseTestCase(testCasePath string) (*tspec.TestCase, error) {
	f, err := os.Open(testCasePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return tspec.ParseTestCase(f)
}

// Tester parses the source of each test case and compares the trees with the expected ones in order.
// Split turns a source into input symbols; it defaults to earley.SplitRunes.
type Tester struct {
	Grammar *grammar.Grammar
	Split   func(string) []string
	Options []earley.ParserOption
	Cases   []*TestCaseWithMetadata
}

func (t *Tester) Run() []*TestResult {
	split := t.Split
	if split == nil {
		split = earley.SplitRunes
	}
	p, err := earley.NewParser(t.Grammar, t.Options...)
	if err != nil {
		var rs []*TestResult
		for _, c := range t.Cases {
			rs = append(rs, &TestResult{
				TestCasePath: c.FilePath,
				Error:        err,
			})
		}
		return rs
	}

	var rs []*TestResult
	for _, c := range t.Cases {
		r := runTest(p, split, c)
		log.Debugf("%v", r)
		rs = append(rs, r)
	}
	return rs
}

func runTest(p *earley.Parser, split func(string) []string, c *TestCaseWithMetadata) *TestResult {
	if c.Error != nil {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        c.Error,
		}
	}

	res, err := p.Parse(split(string(c.TestCase.Source)))
	if err != nil {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        err,
		}
	}

	expected := c.TestCase.Output
	if res.ParseCount() != len(expected) {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        fmt.Errorf("unexpected parse count: expected %v but got %v", len(expected), res.ParseCount()),
		}
	}

	var diffs []*tspec.TreeDiff
	res.EachTree(func(i int, tree *earley.Node) bool {
		diffs = tspec.DiffTree(expected[i], tspec.ConvertNode(tree).Fill())
		return len(diffs) == 0
	})
	if len(diffs) > 0 {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        fmt.Errorf("output mismatch"),
			Diffs:        diffs,
		}
	}
	return &TestResult{
		TestCasePath: c.FilePath,
	}
}
