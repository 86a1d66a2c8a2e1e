package main

import (
	"testing"

	"github.com/nalgeon/be"
)

func lex(t *testing.T, src string) []Token {
	t.Helper()
	toks, err := NewLexer([]byte(src)).Lex()
	be.Err(t, err, nil)
	return toks
}

func parseExprText(t *testing.T, src string) Expr {
	t.Helper()
	expr, err := ParseExpr(lex(t, src))
	be.Err(t, err, nil)
	return expr
}

func parseProgramText(t *testing.T, src string) *Program {
	t.Helper()
	prog, err := Parse(lex(t, src))
	be.Err(t, err, nil)
	return prog
}

func compileText(t *testing.T, src, exportName string) string {
	t.Helper()
	prog := parseProgramText(t, src)
	be.Err(t, Resolve(prog), nil)
	return EmitText(prog, exportName)
}
