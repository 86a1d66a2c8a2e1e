package main

import (
	"strconv"
	"strings"
)

// Emit lowers a resolved program to WebAssembly text fragments. Joined
// with single spaces the fragments form a syntactically valid module:
//
//	(module
//	  <globals and functions, in source order>
//	  <synthesized start function, if any deferred initializers exist>
//	  (export "<exportName>" (func $<name>))
//	)
//
// Constructs the emitter cannot lower yet (string data, compound values,
// non-identifier callees) produce no output for that sub-tree.
func Emit(prog *Program, exportName string) []string {
	e := &emitter{scope: NewScope()}
	e.push("(module")
	for _, d := range prog.Decls {
		e.emitDecl(d)
	}
	e.emitStart()
	e.emitExport(exportName)
	e.closeParen()
	return e.frags
}

// EmitText is Emit joined with single-space separators.
func EmitText(prog *Program, exportName string) string {
	return strings.Join(Emit(prog, exportName), " ")
}

type emitter struct {
	frags []string
	scope *Scope
}

func (e *emitter) push(frag string) {
	e.frags = append(e.frags, frag)
}

// closeParen attaches a closing parenthesis to the latest fragment.
func (e *emitter) closeParen() {
	e.frags[len(e.frags)-1] += ")"
}

// emitDecl dispatches a top-level declaration: function definitions,
// function-typed aliases (no emission), or global variables.
func (e *emitter) emitDecl(d *Decl) {
	if fn, ok := d.Expr.(*FuncExpr); ok {
		e.emitFunc(d, fn)
		return
	}
	if id, ok := d.Expr.(*IdentExpr); ok {
		if _, isFn := id.Typ.(*FuncType); isFn {
			e.scope.PushAlias(d.Name.Name, id.Ident.Name)
			return
		}
	}
	e.emitGlobal(d)
}

func (e *emitter) emitFunc(d *Decl, fn *FuncExpr) {
	watName := e.scope.PushName(d.Name.Name)
	e.push("(func $" + watName)
	e.scope.EnterFunc()
	defer e.scope.LeaveFunc()
	for _, p := range fn.Params {
		pn := e.scope.PushName(p.Name.Name)
		if wt := watType(p.Typ); wt != "" {
			e.push("(param $" + pn + " " + wt + ")")
		}
	}
	if wt := watType(fn.ReturnType); wt != "" {
		e.push("(result " + wt + ")")
	}
	switch body := fn.Body.(type) {
	case *Block:
		e.emitBlock(body, false)
	case Expr:
		e.emitExpr(body)
	}
	e.push("(return)")
	e.closeParen()
}

// emitGlobal emits a constant global for literal initializers, or a
// zero-initialized mutable global plus a deferred initializer otherwise.
// String globals are reserved and produce nothing.
func (e *emitter) emitGlobal(d *Decl) {
	wt := watType(d.Typ)
	if wt == "" {
		return
	}
	if _, isStr := d.Typ.(*StrType); isStr {
		return
	}
	if lit, ok := constLit(d.Expr); ok {
		watName := e.scope.PushName(d.Name.Name)
		e.push("(global $" + watName + " " + wt + " " + lit + ")")
		return
	}
	watName := e.scope.PushName(d.Name.Name)
	e.push("(global $" + watName + " (mut " + wt + ") (" + wt + ".const 0))")
	e.scope.PushInitializer(watName, d.Expr)
}

// constLit returns the constant-value text for literal initializers.
func constLit(expr Expr) (string, bool) {
	lit, ok := expr.(*LitExpr)
	if !ok {
		return "", false
	}
	switch l := lit.Lit.(type) {
	case *IntLit:
		return "(i32.const " + l.Rep + ")", true
	case *FloatLit:
		return "(f64.const " + l.Rep + ")", true
	case *BoolLit:
		return "(i32.const " + boolConst(l.Value) + ")", true
	case *CharLit:
		return "(i32.const " + strconv.Itoa(int(l.Value)) + ")", true
	}
	return "", false
}

func boolConst(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

// emitStart synthesizes the start function iff at least one deferred
// initializer exists. The $/start symbol cannot collide with user names:
// module-scope names never contain "/".
func (e *emitter) emitStart() {
	inits := e.scope.Initializers()
	if len(inits) == 0 {
		return
	}
	e.push("(func $/start")
	for _, init := range inits {
		e.emitExpr(init.Expr)
		e.push("(set_global $" + init.Name + ")")
	}
	e.closeParen()
	e.push("(start $/start)")
}

func (e *emitter) emitExport(exportName string) {
	watName, ok := e.scope.GlobalWATName(exportName)
	if !ok {
		watName = exportName
	}
	e.push("(export \"" + exportName + "\" (func $" + watName + "))")
}

// emitBlock lowers a block body in two passes: all local declarations
// first (WebAssembly requires locals before any instruction), then the
// bodies in source order.
func (e *emitter) emitBlock(b *Block, nested bool) {
	if nested {
		e.scope.EnterBlock()
		defer e.scope.LeaveBlock()
	}
	for _, item := range b.Bodies {
		d, ok := item.(*Decl)
		if !ok || !declLowered(d) {
			continue
		}
		name := e.scope.PushName(d.Name.Name)
		e.push("(local $" + name + " " + watType(d.Typ) + ")")
	}
	for _, item := range b.Bodies {
		switch item := item.(type) {
		case *Decl:
			if isFuncAlias(item) {
				e.scope.PushAlias(item.Name.Name, item.Expr.(*IdentExpr).Ident.Name)
				continue
			}
			if !declLowered(item) {
				continue
			}
			name, ok := e.scope.LocalWATName(item.Name.Name)
			if !ok {
				continue
			}
			e.emitExpr(item.Expr)
			e.push("(set_local $" + name + ")")
		case Expr:
			e.emitExpr(item)
		}
	}
}

// isFuncAlias reports whether a declaration binds a function-typed
// identifier: no storage, the name becomes an alias.
func isFuncAlias(d *Decl) bool {
	id, ok := d.Expr.(*IdentExpr)
	if !ok {
		return false
	}
	_, isFn := id.Typ.(*FuncType)
	return isFn
}

// declLowered reports whether a block declaration gets a local slot.
// Aliases, nested function literals, string values, and compound types
// are not lowered.
func declLowered(d *Decl) bool {
	if isFuncAlias(d) {
		return false
	}
	if _, ok := d.Expr.(*FuncExpr); ok {
		return false
	}
	if _, ok := d.Typ.(*StrType); ok {
		return false
	}
	return watType(d.Typ) != ""
}

// emitExpr lowers an expression in stack-machine post-order.
func (e *emitter) emitExpr(expr Expr) {
	switch expr := expr.(type) {
	case *LitExpr:
		switch l := expr.Lit.(type) {
		case *IntLit:
			e.push("(i32.const " + l.Rep + ")")
		case *FloatLit:
			e.push("(f64.const " + l.Rep + ")")
		case *BoolLit:
			e.push("(i32.const " + boolConst(l.Value) + ")")
		case *CharLit:
			e.push("(i32.const " + strconv.Itoa(int(l.Value)) + ")")
		case *StrLit:
			// String data layout in linear memory is reserved.
		}

	case *IdentExpr:
		if name, ok := e.scope.LocalWATName(expr.Ident.Name); ok {
			e.push("(get_local $" + name + ")")
			return
		}
		name, ok := e.scope.GlobalWATName(expr.Ident.Name)
		if !ok {
			name = expr.Ident.Name
		}
		e.push("(get_global $" + name + ")")

	case *CallExpr:
		callee, ok := expr.Func.(*IdentExpr)
		if !ok {
			// Only direct calls lower; anything else is skipped.
			return
		}
		if tuple, ok := expr.Args.(*TupleExpr); ok {
			for _, arg := range tuple.Items {
				e.emitExpr(arg)
			}
		} else {
			e.emitExpr(expr.Args)
		}
		name, ok := e.scope.GlobalWATName(callee.Ident.Name)
		if !ok {
			name = callee.Ident.Name
		}
		e.push("(call $" + name + ")")

	case *UnaryExpr:
		wt := operandWATType(expr.Right)
		switch expr.Op {
		case "+":
			e.emitExpr(expr.Right)
		case "-":
			if wt == "f64" {
				e.emitExpr(expr.Right)
				e.push("(f64.neg)")
			} else {
				e.push("(i32.const 0)")
				e.emitExpr(expr.Right)
				e.push("(i32.sub)")
			}
		case "!":
			e.emitExpr(expr.Right)
			e.push("(i32.eqz)")
		}

	case *BinaryExpr:
		instr := binaryInstr(expr.Op, operandWATType(expr.Left))
		if instr == "" {
			return
		}
		e.emitExpr(expr.Left)
		e.emitExpr(expr.Right)
		e.push("(" + instr + ")")

	case *TupleExpr:
		// A 1-tuple is a parenthesized expression; wider tuples flatten
		// item by item, matching argument lowering.
		for _, item := range expr.Items {
			e.emitExpr(item)
		}

	case *ListExpr, *FuncExpr:
		// No flat lowering for compound values yet.
	}
}

// operandWATType picks the instruction family for an operand from its
// resolved type, defaulting to i32.
func operandWATType(e Expr) string {
	if wt := watType(e.Type()); wt != "" {
		return wt
	}
	return "i32"
}

// watType lowers a source type to its assembly type. Strings lower to a
// linear-memory offset, booleans and chars to i32. Compound types have no
// flat lowering in this core and produce the empty string, as does void.
func watType(t Type) string {
	switch t.(type) {
	case *IntType, *StrType, *BoolType, *CharType:
		return "i32"
	case *FloatType:
		return "f64"
	}
	return ""
}

// binaryInstr maps a binary operator to the instruction for the operand
// family; empty when no lowering exists (e.g. bitwise float ops).
func binaryInstr(op, wt string) string {
	if wt == "f64" {
		switch op {
		case "+":
			return "f64.add"
		case "-":
			return "f64.sub"
		case "*":
			return "f64.mul"
		case "/":
			return "f64.div"
		case "==":
			return "f64.eq"
		case "!=":
			return "f64.ne"
		case "<":
			return "f64.lt"
		case "<=":
			return "f64.le"
		case ">":
			return "f64.gt"
		case ">=":
			return "f64.ge"
		}
		return ""
	}
	switch op {
	case "+":
		return "i32.add"
	case "-":
		return "i32.sub"
	case "*":
		return "i32.mul"
	case "/":
		return "i32.div_s"
	case "%":
		return "i32.rem_s"
	case "&", "&&":
		return "i32.and"
	case "|", "||":
		return "i32.or"
	case "^":
		return "i32.xor"
	case "==":
		return "i32.eq"
	case "!=":
		return "i32.ne"
	case "<":
		return "i32.lt_s"
	case "<=":
		return "i32.le_s"
	case ">":
		return "i32.gt_s"
	case ">=":
		return "i32.ge_s"
	}
	return ""
}
