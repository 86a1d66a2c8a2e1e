package main

import (
	"errors"
	"testing"

	"github.com/nalgeon/be"
)

func parseTypeText(t *testing.T, src string) Type {
	t.Helper()
	prog := parseProgramText(t, "let x: "+src+" = 1")
	return prog.Decls[0].Typ
}

func TestParseSimpleTypes(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"int", "int"},
		{"float", "float"},
		{"string", "string"},
		{"boolean", "boolean"},
		{"char", "char"},
		{"void", "void"},
	}

	for _, test := range tests {
		typ := parseTypeText(t, test.input)
		be.Equal(t, typ.Sexpr(), test.expected)
	}
}

func TestParseCompoundTypes(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"[int]", "(list int)"},
		{"[[char]]", "(list (list char))"},
		{"()", "(tuple)"},
		{"(int)", "(tuple int)"},
		{"(int, float)", "(tuple int float)"},
		{"(int, (float, char))", "(tuple int (tuple float char))"},
		{"[int -> int]", "(list (-> int int))"},
	}

	for _, test := range tests {
		typ := parseTypeText(t, test.input)
		be.Equal(t, typ.Sexpr(), test.expected)
	}
}

func TestParseFunctionTypeRightAssociative(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"int -> int", "(-> int int)"},
		{"int -> int -> int", "(-> int (-> int int))"},
		{"int -> float -> char -> void", "(-> int (-> float (-> char void)))"},
		{"(int, int) -> boolean", "(-> (tuple int int) boolean)"},
		{"[int] -> int", "(-> (list int) int)"},
	}

	for _, test := range tests {
		typ := parseTypeText(t, test.input)
		be.Equal(t, typ.Sexpr(), test.expected)
	}
}

func TestParseUnknownTypeName(t *testing.T) {
	_, err := Parse(lex(t, "let x: foo = 1"))
	be.Err(t, err)

	var perr *ParseError
	be.True(t, errors.As(err, &perr))
	be.Equal(t, perr.Row, 1)
	be.Equal(t, perr.Col, 8)
	be.Equal(t, perr.Unexpected, `unknown type "foo"`)
}

func TestParseUnknownTypeNameNested(t *testing.T) {
	_, err := Parse(lex(t, "let x: [foo] = 1"))
	be.Err(t, err)

	var perr *ParseError
	be.True(t, errors.As(err, &perr))
	be.Equal(t, perr.Col, 9)
}
