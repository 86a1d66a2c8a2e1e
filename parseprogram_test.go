package main

import (
	"errors"
	"testing"

	"github.com/nalgeon/be"
)

func TestParseEmptyProgram(t *testing.T) {
	prog := parseProgramText(t, "")
	be.Equal(t, prog.Sexpr(), "(program)")
}

func TestParseDecls(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"let x = 1", `(program (let "x" (int 1)))`},
		{"let x: int = 1", `(program (let "x" int (int 1)))`},
		{"let a = 1 let b = 2", `(program (let "a" (int 1)) (let "b" (int 2)))`},
		{"let t: int -> int -> int = f", `(program (let "t" (-> int (-> int int)) (ident "f")))`},
		{"let p = (1, 2, 3)", `(program (let "p" (tuple (int 1) (int 2) (int 3))))`},
	}

	for _, test := range tests {
		prog := parseProgramText(t, test.input)
		be.Equal(t, prog.Sexpr(), test.expected)
	}
}

func TestParseImports(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{
			`import "std/io" (print)`,
			`(program (import "std/io" "print"))`,
		},
		{
			`import "std/io" (print, println as say)`,
			`(program (import "std/io" "print" ("println" as "say")))`,
		},
		{
			`import "std/io" (print) import "std/math" (abs) let x = 1`,
			`(program (import "std/io" "print") (import "std/math" "abs") (let "x" (int 1)))`,
		},
	}

	for _, test := range tests {
		prog := parseProgramText(t, test.input)
		be.Equal(t, prog.Sexpr(), test.expected)
	}
}

func TestParseImportAfterDeclRejected(t *testing.T) {
	// Imports must precede declarations.
	_, err := Parse(lex(t, `let x = 1 import "std/io" (print)`))
	be.Err(t, err)
}

func TestParseTrailingJunkRejected(t *testing.T) {
	_, err := Parse(lex(t, "let x = 1 junk"))
	be.Err(t, err)

	var perr *ParseError
	be.True(t, errors.As(err, &perr))
	be.Equal(t, perr.Row, 1)
	be.Equal(t, perr.Col, 11)
	be.Equal(t, perr.Unexpected, `"junk"`)
	be.Equal(t, perr.Expected, "declaration")
}

func TestParseDeclMissingName(t *testing.T) {
	_, err := Parse(lex(t, "let = 1"))
	be.Err(t, err)

	var perr *ParseError
	be.True(t, errors.As(err, &perr))
	be.Equal(t, perr.Row, 1)
	be.Equal(t, perr.Col, 5)
	be.Equal(t, perr.Expected, "identifier")
}

func TestParseBlockBodies(t *testing.T) {
	prog := parseProgramText(t, "let f = fn () int { let t: int = 1 t * 2 }")
	fn := prog.Decls[0].Expr.(*FuncExpr)
	block := fn.Body.(*Block)

	be.Equal(t, len(block.Bodies), 2)
	_, isDecl := block.Bodies[0].(*Decl)
	be.True(t, isDecl)
	_, isExpr := block.Bodies[1].(Expr)
	be.True(t, isExpr)
}

func TestParseBlockReturnVoid(t *testing.T) {
	tests := []struct {
		input      string
		returnVoid bool
	}{
		{"let f = fn () void { }", true},
		{"let f = fn () void { let t: int = 1 }", true},
		{"let f = fn () int { 1 }", false},
		{"let f = fn () int { let t: int = 1 t }", false},
	}

	for _, test := range tests {
		prog := parseProgramText(t, test.input)
		fn := prog.Decls[0].Expr.(*FuncExpr)
		block := fn.Body.(*Block)
		be.Equal(t, block.ReturnVoid, test.returnVoid)
	}
}

func TestParseUnterminatedBlock(t *testing.T) {
	_, err := Parse(lex(t, "let f = fn () int { 1"))
	be.Err(t, err)

	var perr *ParseError
	be.True(t, errors.As(err, &perr))
	be.Equal(t, perr.Unexpected, "end of token stream")
	be.Equal(t, perr.Expected, `"}"`)
}

func TestParseProgramNodePositions(t *testing.T) {
	prog := parseProgramText(t, "let a = 1\nlet b = 2")

	row, col := prog.Decls[0].Pos()
	be.Equal(t, row, 1)
	be.Equal(t, col, 1)

	row, col = prog.Decls[1].Pos()
	be.Equal(t, row, 2)
	be.Equal(t, col, 1)

	row, col = prog.Decls[1].Expr.Pos()
	be.Equal(t, row, 2)
	be.Equal(t, col, 9)
}
