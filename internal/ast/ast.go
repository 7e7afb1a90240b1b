// Package ast defines the Burn syntax tree: top-level nodes, expressions,
// and type annotations. Every node carries the 1-based source line and the
// byte column it was scanned at; positions belong to the parse snapshot
// that produced them and are not revalidated after edits.
package ast

import "strings"

// Node is a top-level statement or declaration.
type Node interface {
	Pos() (line, column int)
	node()
}

// Expression is a parsed expression value.
type Expression interface {
	ExprPos() (line, column int)
	expr()
}

// Type is a type annotation.
type Type interface {
	// String renders the canonical textual form of the type. The rendered
	// form is what the checker stores in a document's type environment.
	String() string
	typ()
}

// Parameter is a single name[:type] entry in a function header.
type Parameter struct {
	Name string
	Type Type // nil when the parameter carries no annotation
}

// StructField is a field inside a struct or class declaration.
type StructField struct {
	Name        string
	Type        Type
	Initializer Expression
}

// ObjectProperty is a key/value pair inside an object literal.
type ObjectProperty struct {
	Key   string
	Value Expression
}

// Top-level nodes.

type VariableDeclaration struct {
	Name        string
	Initializer Expression // nil when absent or unparseable
	Type        Type       // nil means inferred "any"
	IsMutable   bool
	Line        int
	Column      int
}

type FunctionDeclaration struct {
	Name       string
	Params     []Parameter
	ReturnType Type // nil means void
	Body       []Node
	Line       int
	Column     int
}

type StructDeclaration struct {
	Name   string
	Fields []StructField
	Line   int
	Column int
}

type ClassDeclaration struct {
	Name       string
	Methods    []Node
	Properties []StructField
	Line       int
	Column     int
}

type ImportDeclaration struct {
	Path          string
	ImportedItems []string
	Line          int
	Column        int
}

type ExpressionStatement struct {
	Expression Expression
	Line       int
	Column     int
}

type ReturnStatement struct {
	Expression Expression
	Line       int
	Column     int
}

type IfStatement struct {
	Condition  Expression
	ThenBranch []Node
	ElseBranch []Node
	Line       int
	Column     int
}

type WhileStatement struct {
	Condition Expression
	Body      []Node
	Line      int
	Column    int
}

type ForStatement struct {
	Initializer Node
	Condition   Expression
	Increment   Expression
	Body        []Node
	Line        int
	Column      int
}

type ForInStatement struct {
	Variable string
	Iterable Expression
	Body     []Node
	Line     int
	Column   int
}

type Block struct {
	Statements []Node
	Line       int
	Column     int
}

func (n *VariableDeclaration) Pos() (int, int) { return n.Line, n.Column }
func (n *FunctionDeclaration) Pos() (int, int) { return n.Line, n.Column }
func (n *StructDeclaration) Pos() (int, int)   { return n.Line, n.Column }
func (n *ClassDeclaration) Pos() (int, int)    { return n.Line, n.Column }
func (n *ImportDeclaration) Pos() (int, int)   { return n.Line, n.Column }
func (n *ExpressionStatement) Pos() (int, int) { return n.Line, n.Column }
func (n *ReturnStatement) Pos() (int, int)     { return n.Line, n.Column }
func (n *IfStatement) Pos() (int, int)         { return n.Line, n.Column }
func (n *WhileStatement) Pos() (int, int)      { return n.Line, n.Column }
func (n *ForStatement) Pos() (int, int)        { return n.Line, n.Column }
func (n *ForInStatement) Pos() (int, int)      { return n.Line, n.Column }
func (n *Block) Pos() (int, int)               { return n.Line, n.Column }

func (*VariableDeclaration) node() {}
func (*FunctionDeclaration) node() {}
func (*StructDeclaration) node()   {}
func (*ClassDeclaration) node()    {}
func (*ImportDeclaration) node()   {}
func (*ExpressionStatement) node() {}
func (*ReturnStatement) node()     {}
func (*IfStatement) node()         {}
func (*WhileStatement) node()      {}
func (*ForStatement) node()        {}
func (*ForInStatement) node()      {}
func (*Block) node()               {}

// Expressions.

type Literal struct {
	Value  LiteralValue
	Line   int
	Column int
}

type Variable struct {
	Name   string
	Line   int
	Column int
}

type BinaryOperation struct {
	Operator string
	Left     Expression
	Right    Expression
	Line     int
	Column   int
}

type UnaryOperation struct {
	Operator string
	Operand  Expression
	Line     int
	Column   int
}

type Call struct {
	Callee    Expression
	Arguments []Expression
	Line      int
	Column    int
}

type PropertyAccess struct {
	Object   Expression
	Property string
	Line     int
	Column   int
}

type ArrayAccess struct {
	Array  Expression
	Index  Expression
	Line   int
	Column int
}

type Assignment struct {
	Target Expression
	Value  Expression
	Line   int
	Column int
}

type ArrayLiteral struct {
	Elements []Expression
	Line     int
	Column   int
}

type ObjectLiteral struct {
	Properties []ObjectProperty
	Line       int
	Column     int
}

type Lambda struct {
	Params     []Parameter
	Body       []Node
	ReturnType Type
	Line       int
	Column     int
}

func (e *Literal) ExprPos() (int, int)         { return e.Line, e.Column }
func (e *Variable) ExprPos() (int, int)        { return e.Line, e.Column }
func (e *BinaryOperation) ExprPos() (int, int) { return e.Line, e.Column }
func (e *UnaryOperation) ExprPos() (int, int)  { return e.Line, e.Column }
func (e *Call) ExprPos() (int, int)            { return e.Line, e.Column }
func (e *PropertyAccess) ExprPos() (int, int)  { return e.Line, e.Column }
func (e *ArrayAccess) ExprPos() (int, int)     { return e.Line, e.Column }
func (e *Assignment) ExprPos() (int, int)      { return e.Line, e.Column }
func (e *ArrayLiteral) ExprPos() (int, int)    { return e.Line, e.Column }
func (e *ObjectLiteral) ExprPos() (int, int)   { return e.Line, e.Column }
func (e *Lambda) ExprPos() (int, int)          { return e.Line, e.Column }

func (*Literal) expr()         {}
func (*Variable) expr()        {}
func (*BinaryOperation) expr() {}
func (*UnaryOperation) expr()  {}
func (*Call) expr()            {}
func (*PropertyAccess) expr()  {}
func (*ArrayAccess) expr()     {}
func (*Assignment) expr()      {}
func (*ArrayLiteral) expr()    {}
func (*ObjectLiteral) expr()   {}
func (*Lambda) expr()          {}

// LiteralValue is the value carried by a Literal expression.
type LiteralValue interface{ literal() }

type StringValue struct{ Value string }
type NumberValue struct{ Value float64 }
type IntegerValue struct{ Value int64 }
type BooleanValue struct{ Value bool }
type NullValue struct{}

func (StringValue) literal()  {}
func (NumberValue) literal()  {}
func (IntegerValue) literal() {}
func (BooleanValue) literal() {}
func (NullValue) literal()    {}

// Types.

type BasicType struct{ Name string }

type ArrayType struct{ Elem Type }

type FunctionType struct {
	Params []Type
	Return Type
}

type OptionalType struct{ Inner Type }

type UnionType struct{ Members []Type }

func (t *BasicType) String() string { return t.Name }

func (t *ArrayType) String() string { return t.Elem.String() + "[]" }

func (t *FunctionType) String() string {
	params := make([]string, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.String()
	}
	return "fn(" + strings.Join(params, ", ") + ") -> " + t.Return.String()
}

func (t *OptionalType) String() string { return t.Inner.String() + "?" }

func (t *UnionType) String() string {
	members := make([]string, len(t.Members))
	for i, m := range t.Members {
		members[i] = m.String()
	}
	return strings.Join(members, " | ")
}

func (*BasicType) typ()    {}
func (*ArrayType) typ()    {}
func (*FunctionType) typ() {}
func (*OptionalType) typ() {}
func (*UnionType) typ()    {}
