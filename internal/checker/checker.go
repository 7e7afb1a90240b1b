// Package checker maintains the per-document type table. Checking a
// document walks its top-level declarations only (bodies are structurally
// absent from the AST) and records a name -> rendered-type mapping. The
// pass builds the table; it does not validate. The error slice it returns
// is structurally present for the analyzer's benefit but is always empty.
package checker

import (
	"strings"
	"sync"

	"github.com/burn-lang/burnls/internal/ast"
)

// Error is a reserved type-error value. No current code path produces one.
type Error struct {
	Message string
	Line    int
	Column  int
	Length  int
}

// Checker holds the type environment for every checked document, keyed by
// document URI. Lookups always name the document they read from.
type Checker struct {
	mu   sync.Mutex
	envs map[string]map[string]string
}

// New returns an empty Checker.
func New() *Checker {
	return &Checker{envs: make(map[string]map[string]string)}
}

// Check builds a fresh type environment for the document from its
// top-level declarations and stores it under uri, replacing any previous
// environment wholesale.
func (c *Checker) Check(nodes []ast.Node, uri string) []Error {
	env := make(map[string]string)

	for _, node := range nodes {
		switch n := node.(type) {
		case *ast.VariableDeclaration:
			env[n.Name] = renderOrAny(n.Type)
		case *ast.FunctionDeclaration:
			env[n.Name] = functionTypeString(n)
		case *ast.StructDeclaration:
			env[n.Name] = "struct " + n.Name
		}
	}

	c.mu.Lock()
	c.envs[uri] = env
	c.mu.Unlock()

	return nil
}

// Drop removes the environment for a document. Called when the document is
// closed or when a re-parse fails, so an environment only ever exists for
// a document that currently has an AST.
func (c *Checker) Drop(uri string) {
	c.mu.Lock()
	delete(c.envs, uri)
	c.mu.Unlock()
}

// TypeOf resolves a name against the named document's environment, falling
// back to the built-in global registry.
func (c *Checker) TypeOf(uri, name string) (string, bool) {
	c.mu.Lock()
	env, ok := c.envs[uri]
	if ok {
		if t, found := env[name]; found {
			c.mu.Unlock()
			return t, true
		}
	}
	c.mu.Unlock()

	t, found := builtinGlobals[name]
	return t, found
}

// Environment returns a copy of the document's environment. The copy is
// safe to iterate without holding any checker lock.
func (c *Checker) Environment(uri string) map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()

	env, ok := c.envs[uri]
	if !ok {
		return nil
	}
	out := make(map[string]string, len(env))
	for k, v := range env {
		out[k] = v
	}
	return out
}

// MemberType resolves a member against the fixed dispatch table for the
// owner type. Owners rendered as "struct X" resolve every member to "any":
// struct field types are not tracked. Unknown owners resolve nothing.
func (c *Checker) MemberType(ownerType, memberName string) (string, bool) {
	if table, ok := memberTables[ownerType]; ok {
		t, found := table[memberName]
		return t, found
	}
	if strings.HasPrefix(ownerType, "struct ") {
		return "any", true
	}
	return "", false
}

func renderOrAny(t ast.Type) string {
	if t == nil {
		return "any"
	}
	return t.String()
}

// functionTypeString synthesizes the stored type for a function
// declaration, e.g. fn(Number, Number)->Number.
func functionTypeString(fn *ast.FunctionDeclaration) string {
	paramTypes := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		paramTypes[i] = renderOrAny(p.Type)
	}

	returnType := "void"
	if fn.ReturnType != nil {
		returnType = fn.ReturnType.String()
	}

	return "fn(" + strings.Join(paramTypes, ", ") + ")->" + returnType
}

// builtinGlobals is the fixed registry of always-visible global names.
var builtinGlobals = map[string]string{
	"String":  "type",
	"Number":  "type",
	"Boolean": "type",
	"Array":   "type",
	"Object":  "type",
	"Date":    "class",
	"Http":    "namespace",
	"Time":    "namespace",
}

// memberTables maps a built-in owner type to its property and method
// signatures.
var memberTables = map[string]map[string]string{
	"String": {
		"length":      "number",
		"toUpperCase": "fn()->String",
		"toLowerCase": "fn()->String",
		"substring":   "fn(number, number)->String",
	},
	"Array": {
		"length": "number",
		"push":   "fn(any)->number",
		"pop":    "fn()->any",
		"join":   "fn(String)->String",
	},
	"Date": {
		"getTime":     "fn()->number",
		"getDay":      "fn()->number",
		"getMonth":    "fn()->number",
		"getFullYear": "fn()->number",
	},
	"Http": {
		"get":  "fn(String)->HttpResponse",
		"post": "fn(String, Object)->HttpResponse",
	},
	"Time": {
		"now":   "fn()->number",
		"sleep": "fn(number)->void",
	},
}
