package main

import (
	"errors"
	"fmt"
)

// CheckError is a name-resolution or type error at a source location.
type CheckError struct {
	Row int
	Col int
	Msg string
}

func (e *CheckError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Row, e.Col, e.Msg)
}

type typeEnv struct {
	parent *typeEnv
	names  map[string]Type
}

func newTypeEnv(parent *typeEnv) *typeEnv {
	return &typeEnv{parent: parent, names: map[string]Type{}}
}

func (e *typeEnv) define(name string, t Type) {
	e.names[name] = t
}

func (e *typeEnv) lookup(name string) (Type, bool) {
	for env := e; env != nil; env = env.parent {
		if t, ok := env.names[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// Resolve attaches resolved types to expression nodes and fills in
// missing declaration annotations from initializers. It is a shallow
// pass: it resolves exactly what the emitter reads (alias detection and
// global type selection), not a full checker.
func Resolve(prog *Program) error {
	r := &resolver{}
	env := newTypeEnv(nil)
	for _, imp := range prog.Imports {
		for _, el := range imp.Elems {
			name := el.Name.Name
			if el.As != nil {
				name = el.As.Name
			}
			// Imported names have no local type information.
			env.define(name, nil)
		}
	}
	for _, d := range prog.Decls {
		r.decl(d, env)
	}
	return errors.Join(r.errs...)
}

type resolver struct {
	errs []error
}

func (r *resolver) errorf(n Node, format string, args ...any) {
	row, col := n.Pos()
	r.errs = append(r.errs, &CheckError{Row: row, Col: col, Msg: fmt.Sprintf(format, args...)})
}

func (r *resolver) decl(d *Decl, env *typeEnv) {
	t := r.expr(d.Expr, env)
	if d.Typ == nil {
		d.Typ = t
	}
	env.define(d.Name.Name, d.Typ)
}

func (r *resolver) expr(e Expr, env *typeEnv) Type {
	switch e := e.(type) {
	case *LitExpr:
		switch e.Lit.(type) {
		case *IntLit:
			e.Typ = &IntType{}
		case *FloatLit:
			e.Typ = &FloatType{}
		case *StrLit:
			e.Typ = &StrType{}
		case *BoolLit:
			e.Typ = &BoolType{}
		case *CharLit:
			e.Typ = &CharType{}
		}
		return e.Typ

	case *IdentExpr:
		t, ok := env.lookup(e.Ident.Name)
		if !ok {
			r.errorf(e, "undefined: %s", e.Ident.Name)
			return nil
		}
		e.Typ = t
		return t

	case *UnaryExpr:
		rt := r.expr(e.Right, env)
		if e.Op == "!" {
			e.Typ = &BoolType{}
		} else {
			e.Typ = rt
		}
		return e.Typ

	case *BinaryExpr:
		lt := r.expr(e.Left, env)
		r.expr(e.Right, env)
		switch e.Op {
		case "==", "!=", "<", "<=", ">", ">=", "&&", "||":
			e.Typ = &BoolType{}
		default:
			e.Typ = lt
		}
		return e.Typ

	case *TupleExpr:
		var items []Type
		for _, item := range e.Items {
			items = append(items, r.expr(item, env))
		}
		// A 1-element tuple is indistinguishable from a parenthesized
		// expression; it keeps the inner type.
		if len(items) == 1 {
			e.Typ = items[0]
		} else {
			e.Typ = &TupleType{Items: items}
		}
		return e.Typ

	case *ListExpr:
		var elem Type
		for i, el := range e.Elems {
			t := r.expr(el, env)
			if i == 0 {
				elem = t
			}
		}
		e.Typ = &ListType{Elem: elem}
		return e.Typ

	case *FuncExpr:
		fenv := newTypeEnv(env)
		for _, p := range e.Params {
			fenv.define(p.Name.Name, p.Typ)
		}
		switch body := e.Body.(type) {
		case *Block:
			r.block(body, fenv)
		case Expr:
			r.expr(body, fenv)
		}
		e.Typ = &FuncType{Param: paramTupleType(e.Params), Return: e.ReturnType}
		return e.Typ

	case *CallExpr:
		ft := r.expr(e.Func, env)
		r.expr(e.Args, env)
		if fn, ok := ft.(*FuncType); ok {
			e.Typ = fn.Return
		}
		return e.Typ
	}
	return nil
}

func (r *resolver) block(b *Block, env *typeEnv) {
	benv := newTypeEnv(env)
	for _, item := range b.Bodies {
		switch item := item.(type) {
		case *Decl:
			r.decl(item, benv)
		case Expr:
			r.expr(item, benv)
		}
	}
}

// paramTupleType is the parameter side of a function literal's type: the
// sole parameter's type for arity 1, a tuple otherwise.
func paramTupleType(params []*Param) Type {
	if len(params) == 1 {
		return params[0].Typ
	}
	items := make([]Type, 0, len(params))
	for _, p := range params {
		items = append(items, p.Typ)
	}
	return &TupleType{Items: items}
}
