// Package parser turns Burn source text into a flat list of top-level AST
// nodes. Parsing is line-granular: each physical line is tried against a
// fixed production order and the first match wins. Function and struct
// bodies are never parsed: header lines produce declarations with empty
// bodies and the following lines are re-processed as their own top-level
// statements. This is load-bearing behavior, not a shortcut to fix: the
// type table and definition lookup only ever see top-level nodes.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/burn-lang/burnls/internal/ast"
)

// ParseError describes a single statement or expression that failed to
// parse. Line is 1-based; Column is a byte offset within the trimmed line.
type ParseError struct {
	Message string
	Line    int
	Column  int
}

func (e ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Column, e.Message)
}

var (
	fnDeclPattern     = regexp.MustCompile(`fn\s+([a-zA-Z_][a-zA-Z0-9_]*)\s*\((.*?)\)(?:\s*:\s*([a-zA-Z_][a-zA-Z0-9_]*))?\s*\{`)
	structDeclPattern = regexp.MustCompile(`struct\s+([a-zA-Z_][a-zA-Z0-9_]*)\s*\{`)
	importPattern     = regexp.MustCompile(`import\s+(?:\{(.*?)\}\s+from\s+)?"(.+?)"`)
)

// Parse scans the source one line at a time and collects every top-level
// node and every error. A single bad line does not stop the scan, but any
// error at all discards the tree: nodes is nil whenever errs is non-empty.
func Parse(source string) (nodes []ast.Node, errs []ParseError) {
	lines := strings.Split(source, "\n")

	for idx, line := range lines {
		lineNum := idx + 1
		trimmed := strings.TrimSpace(line)

		if trimmed == "" || strings.HasPrefix(trimmed, "//") {
			continue
		}

		if decl := parseVariableDeclaration(trimmed, lineNum); decl != nil {
			nodes = append(nodes, decl)
			continue
		}
		if decl := parseFunctionDeclaration(trimmed, lineNum); decl != nil {
			nodes = append(nodes, decl)
			continue
		}
		if decl := parseStructDeclaration(trimmed, lineNum); decl != nil {
			nodes = append(nodes, decl)
			continue
		}
		if decl := parseImportDeclaration(trimmed, lineNum); decl != nil {
			nodes = append(nodes, decl)
			continue
		}

		// Lines that open with closing punctuation are block plumbing left
		// behind by the unparsed bodies; they are not statements.
		if strings.HasPrefix(trimmed, "}") || strings.HasPrefix(trimmed, ")") || strings.HasPrefix(trimmed, "]") {
			continue
		}

		expr, err := parseExpression(trimmed, lineNum, 0)
		if err == nil {
			nodes = append(nodes, &ast.ExpressionStatement{
				Expression: expr,
				Line:       lineNum,
				Column:     0,
			})
			continue
		}
		if isOnlyBraces(trimmed) {
			continue
		}
		errs = append(errs, *err)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return nodes, nil
}

func isOnlyBraces(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) && r != '{' && r != '}' {
			return false
		}
	}
	return true
}

// parseVariableDeclaration matches
//
//	("var"|"let"|"const") NAME [":" TYPE] ["=" EXPR] [";"]
//
// Both "name: Type" and "name : Type" annotation spellings are accepted.
// A broken initializer is dropped silently; the declaration still counts.
func parseVariableDeclaration(line string, lineNum int) ast.Node {
	parts := strings.Fields(line)
	if len(parts) < 2 {
		return nil
	}

	keyword := parts[0]
	if keyword != "var" && keyword != "let" && keyword != "const" {
		return nil
	}

	nameTok := strings.TrimSuffix(parts[1], ";")
	colonAttached := strings.HasSuffix(nameTok, ":")
	name := strings.TrimSuffix(nameTok, ":")
	if !isValidIdentifier(name) {
		return nil
	}

	var dataType ast.Type
	rest := parts[2:]

	switch {
	case colonAttached:
		if len(rest) == 0 {
			return nil
		}
		dataType = &ast.BasicType{Name: strings.TrimSuffix(rest[0], ";")}
		rest = rest[1:]
	case len(rest) > 0 && rest[0] == ":":
		if len(rest) < 2 {
			return nil
		}
		dataType = &ast.BasicType{Name: strings.TrimSuffix(rest[1], ";")}
		rest = rest[2:]
	}

	var initializer ast.Expression
	if len(rest) > 0 && rest[0] == "=" {
		valueStr := strings.TrimSuffix(strings.Join(rest[1:], " "), ";")
		eq := strings.Index(line, "=")
		if eq < 0 {
			eq = -1
		}
		expr, err := parseExpression(valueStr, lineNum, eq+1)
		if err == nil {
			initializer = expr
		}
	}

	return &ast.VariableDeclaration{
		Name:        name,
		Initializer: initializer,
		Type:        dataType,
		IsMutable:   keyword != "const",
		Line:        lineNum,
		Column:      0,
	}
}

// parseFunctionDeclaration matches a full signature on a single line up to
// the opening brace. The body is left empty on purpose; see the package
// comment.
func parseFunctionDeclaration(line string, lineNum int) ast.Node {
	if !strings.HasPrefix(line, "fn ") {
		return nil
	}

	m := fnDeclPattern.FindStringSubmatch(line)
	if m == nil {
		return nil
	}

	var returnType ast.Type
	if m[3] != "" {
		returnType = &ast.BasicType{Name: m[3]}
	}

	return &ast.FunctionDeclaration{
		Name:       m[1],
		Params:     parseParameters(m[2]),
		ReturnType: returnType,
		Line:       lineNum,
		Column:     strings.Index(line, "fn") + 1,
	}
}

func parseParameters(paramsStr string) []ast.Parameter {
	var params []ast.Parameter

	for _, param := range strings.Split(paramsStr, ",") {
		param = strings.TrimSpace(param)
		if param == "" {
			continue
		}

		pieces := strings.SplitN(param, ":", 2)
		p := ast.Parameter{Name: strings.TrimSpace(pieces[0])}
		if len(pieces) > 1 {
			p.Type = &ast.BasicType{Name: strings.TrimSpace(pieces[1])}
		}
		params = append(params, p)
	}

	return params
}

func parseStructDeclaration(line string, lineNum int) ast.Node {
	if !strings.HasPrefix(line, "struct ") {
		return nil
	}

	m := structDeclPattern.FindStringSubmatch(line)
	if m == nil {
		return nil
	}

	return &ast.StructDeclaration{
		Name:   m[1],
		Line:   lineNum,
		Column: strings.Index(line, "struct") + 1,
	}
}

func parseImportDeclaration(line string, lineNum int) ast.Node {
	if !strings.HasPrefix(line, "import ") {
		return nil
	}

	m := importPattern.FindStringSubmatch(line)
	if m == nil {
		return nil
	}

	var items []string
	if m[1] != "" {
		for _, item := range strings.Split(m[1], ",") {
			items = append(items, strings.TrimSpace(item))
		}
	}

	return &ast.ImportDeclaration{
		Path:          m[2],
		ImportedItems: items,
		Line:          lineNum,
		Column:        strings.Index(line, "import") + 1,
	}
}

// parseExpression tries the productions in fixed priority order: literal,
// property access, call, identifier. columnOffset accumulates across
// nested calls so errors inside an argument still point at the right
// source column.
func parseExpression(exprStr string, lineNum, columnOffset int) (ast.Expression, *ParseError) {
	trimmed := strings.TrimSpace(exprStr)
	if trimmed == "" {
		return nil, &ParseError{Message: "empty expression", Line: lineNum, Column: columnOffset}
	}

	if value := parseLiteral(trimmed); value != nil {
		return &ast.Literal{Value: value, Line: lineNum, Column: columnOffset}, nil
	}

	// Property access only claims the text when everything after the first
	// dot is a single bare token; "a.b()" falls through so the call
	// production can take it.
	if dotIdx := strings.Index(trimmed, "."); dotIdx >= 0 {
		property := strings.TrimSpace(trimmed[dotIdx+1:])
		if !strings.ContainsAny(property, " .(") {
			objectStr := strings.TrimSpace(trimmed[:dotIdx])
			if object, err := parseExpression(objectStr, lineNum, columnOffset); err == nil {
				return &ast.PropertyAccess{
					Object:   object,
					Property: property,
					Line:     lineNum,
					Column:   columnOffset + dotIdx + 1,
				}, nil
			}
		}
	}

	if parenIdx := strings.Index(trimmed, "("); parenIdx >= 0 {
		endParen := findMatchingParen(trimmed, parenIdx)
		if endParen < 0 {
			return nil, &ParseError{
				Message: "unmatched parenthesis in function call",
				Line:    lineNum,
				Column:  columnOffset + parenIdx,
			}
		}
		argsStr := trimmed[parenIdx+1 : endParen]

		callee, err := parseExpression(strings.TrimSpace(trimmed[:parenIdx]), lineNum, columnOffset)
		if err != nil {
			return nil, err
		}

		// Arguments split on every comma, not just top-level ones: a nested
		// call with its own commas mis-splits here. Unparseable fragments
		// are dropped rather than reported.
		var arguments []ast.Expression
		for _, argStr := range strings.Split(argsStr, ",") {
			argIdx := strings.Index(argsStr, argStr)
			if argIdx < 0 {
				argIdx = 0
			}
			argOffset := columnOffset + parenIdx + 1 + argIdx
			if arg, err := parseExpression(argStr, lineNum, argOffset); err == nil {
				arguments = append(arguments, arg)
			}
		}

		return &ast.Call{
			Callee:    callee,
			Arguments: arguments,
			Line:      lineNum,
			Column:    columnOffset,
		}, nil
	}

	if isValidIdentifier(trimmed) {
		return &ast.Variable{Name: trimmed, Line: lineNum, Column: columnOffset}, nil
	}

	return nil, &ParseError{
		Message: fmt.Sprintf("failed to parse expression: %s", trimmed),
		Line:    lineNum,
		Column:  columnOffset,
	}
}

func parseLiteral(text string) ast.LiteralValue {
	if len(text) >= 2 {
		if (text[0] == '"' && text[len(text)-1] == '"') ||
			(text[0] == '\'' && text[len(text)-1] == '\'') {
			return ast.StringValue{Value: text[1 : len(text)-1]}
		}
	}

	switch text {
	case "true":
		return ast.BooleanValue{Value: true}
	case "false":
		return ast.BooleanValue{Value: false}
	case "null":
		return ast.NullValue{}
	}

	if intVal, err := strconv.ParseInt(text, 10, 64); err == nil {
		return ast.IntegerValue{Value: intVal}
	}
	if floatVal, err := strconv.ParseFloat(text, 64); err == nil {
		return ast.NumberValue{Value: floatVal}
	}

	return nil
}

func findMatchingParen(text string, openIdx int) int {
	depth := 0
	for i := openIdx; i < len(text); i++ {
		switch text[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func isValidIdentifier(text string) bool {
	if text == "" {
		return false
	}

	for i, r := range text {
		if i == 0 {
			if !unicode.IsLetter(r) && r != '_' {
				return false
			}
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}

	return true
}
