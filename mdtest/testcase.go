// Package mdtest extracts compiler test cases from Markdown documents.
// A test case is a heading of the form "Test: <name>" followed by one
// input code fence (lilt-expr or lilt-program) and one or more assertion
// fences (ast, wat, parse-error).
package mdtest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// InputType identifies the input code fence of a test case.
type InputType string

const (
	InputExpr    InputType = "lilt-expr"
	InputProgram InputType = "lilt-program"
)

// WantKind identifies an assertion code fence.
type WantKind string

const (
	WantAST        WantKind = "ast"
	WantWAT        WantKind = "wat"
	WantParseError WantKind = "parse-error"
)

// Want is a single assertion in a test case.
type Want struct {
	Kind    WantKind
	Content string
}

// Case is a complete test case extracted from Markdown.
type Case struct {
	Name      string
	Input     string
	InputType InputType
	Wants     []Want
}

// Extract parses a Markdown document and collects all test cases.
func Extract(markdownContent string) ([]Case, error) {
	md := goldmark.New()
	source := []byte(markdownContent)
	doc := md.Parser().Parse(text.NewReader(source))

	var cases []Case
	var current *Case

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			headingText := headingText(n, source)
			if !strings.HasPrefix(headingText, "Test: ") {
				return ast.WalkContinue, nil
			}
			if current != nil {
				if err := validateCase(current); err != nil {
					return ast.WalkStop, err
				}
				cases = append(cases, *current)
			}
			current = &Case{Name: strings.TrimPrefix(headingText, "Test: ")}

		case *ast.FencedCodeBlock:
			language := string(n.Language(source))
			content := fenceContent(n, source)
			line := lineNumber(n, source)

			if current == nil {
				if language != "" {
					return ast.WalkStop, fmt.Errorf("line %d: %s fence found outside of test case", line, language)
				}
				return ast.WalkContinue, nil
			}

			switch {
			case isInputFence(language):
				if current.Input != "" {
					return ast.WalkStop, fmt.Errorf("line %d: multiple input fences in test %q", line, current.Name)
				}
				current.Input = strings.TrimRight(content, "\n")
				current.InputType = InputType(language)
			case isWantFence(language):
				current.Wants = append(current.Wants, Want{
					Kind:    WantKind(language),
					Content: strings.TrimRight(content, "\n"),
				})
			default:
				return ast.WalkStop, fmt.Errorf("line %d: unknown fence language %q in test %q", line, language, current.Name)
			}
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	if current != nil {
		if err := validateCase(current); err != nil {
			return nil, err
		}
		cases = append(cases, *current)
	}
	return cases, nil
}

func isInputFence(language string) bool {
	return language == string(InputExpr) || language == string(InputProgram)
}

func isWantFence(language string) bool {
	return language == string(WantAST) || language == string(WantWAT) || language == string(WantParseError)
}

func validateCase(c *Case) error {
	if c.Input == "" {
		return fmt.Errorf("test %q has no input fence", c.Name)
	}
	if len(c.Wants) == 0 {
		return fmt.Errorf("test %q has no assertion fences", c.Name)
	}
	return nil
}

func headingText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := n.(*ast.Text); ok {
				buf.Write(t.Segment.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func fenceContent(codeBlock *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	for i := 0; i < codeBlock.Lines().Len(); i++ {
		line := codeBlock.Lines().At(i)
		buf.Write(line.Value(source))
	}
	return buf.String()
}

func lineNumber(node ast.Node, source []byte) int {
	if node.Lines().Len() == 0 {
		return 1
	}
	start := node.Lines().At(0).Start
	line := 1
	for i := 0; i < start && i < len(source); i++ {
		if source[i] == '\n' {
			line++
		}
	}
	return line
}
