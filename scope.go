package main

import "strconv"

// DeferredInit is a global whose initializer is not a compile-time
// constant; its expression is lowered into the synthesized start
// function.
type DeferredInit struct {
	Name string // assembly name
	Expr Expr
}

// Scope holds the name-resolution state for one module emission: the
// global name map, stacked local and alias frames, and the scope-ID
// machinery that keeps shadowed block locals unique.
//
// Local and alias frames are always pushed and popped together. The alias
// stack always keeps one bottom frame, which holds module-scope aliases.
type Scope struct {
	globals     map[string]string
	locals      []map[string]string
	aliases     []map[string]string
	scopeIDs    []int
	nextScopeID int
	inits       []DeferredInit
}

func NewScope() *Scope {
	return &Scope{
		globals: map[string]string{},
		aliases: []map[string]string{{}},
	}
}

// EnterFunc opens a fresh local and alias frame and resets the scope-ID
// numbering; function bodies number their nested blocks independently.
func (s *Scope) EnterFunc() {
	s.locals = append(s.locals, map[string]string{})
	s.aliases = append(s.aliases, map[string]string{})
	s.scopeIDs = s.scopeIDs[:0]
	s.nextScopeID = 0
}

func (s *Scope) LeaveFunc() {
	s.locals = s.locals[:len(s.locals)-1]
	s.aliases = s.aliases[:len(s.aliases)-1]
}

// EnterBlock opens frames for a nested block and pushes a new unique
// scope ID.
func (s *Scope) EnterBlock() {
	s.locals = append(s.locals, map[string]string{})
	s.aliases = append(s.aliases, map[string]string{})
	s.nextScopeID++
	s.scopeIDs = append(s.scopeIDs, s.nextScopeID)
}

func (s *Scope) LeaveBlock() {
	s.locals = s.locals[:len(s.locals)-1]
	s.aliases = s.aliases[:len(s.aliases)-1]
	s.scopeIDs = s.scopeIDs[:len(s.scopeIDs)-1]
}

// PushName binds origName in the innermost active frame and returns the
// chosen assembly name: origName at function and module scope,
// origName/scopeID inside nested blocks. User names never contain "/" at
// module scope, so block-scoped names cannot collide with anything else.
func (s *Scope) PushName(origName string) string {
	name := origName
	if len(s.scopeIDs) > 0 {
		name = origName + "/" + strconv.Itoa(s.scopeIDs[len(s.scopeIDs)-1])
	}
	if len(s.locals) > 0 {
		s.locals[len(s.locals)-1][origName] = name
	} else {
		s.globals[origName] = name
	}
	return name
}

// PushAlias records that from resolves transparently to the already-bound
// name to; no storage is allocated for from.
func (s *Scope) PushAlias(from, to string) {
	s.aliases[len(s.aliases)-1][from] = to
}

// PushInitializer appends a deferred global initializer; initializers are
// emitted into the start function in push order.
func (s *Scope) PushInitializer(assemblyName string, expr Expr) {
	s.inits = append(s.inits, DeferredInit{Name: assemblyName, Expr: expr})
}

// Initializers returns the deferred initializers in first-declaration
// order.
func (s *Scope) Initializers() []DeferredInit {
	return s.inits
}

// LocalWATName walks the local frames innermost-first and returns the
// first binding for origName.
func (s *Scope) LocalWATName(origName string) (string, bool) {
	for i := len(s.locals) - 1; i >= 0; i-- {
		if name, ok := s.locals[i][origName]; ok {
			return name, true
		}
	}
	return "", false
}

// GlobalWATName resolves origName through the alias stack (innermost
// first; the first hit replaces the lookup key), then looks the result up
// in the global name map.
//
// The walk spans every live alias frame, not just the current
// function's; see DESIGN.md.
func (s *Scope) GlobalWATName(origName string) (string, bool) {
	key := origName
	for i := len(s.aliases) - 1; i >= 0; i-- {
		if to, ok := s.aliases[i][key]; ok {
			key = to
			break
		}
	}
	name, ok := s.globals[key]
	return name, ok
}
