// Package analyzer owns the set of open documents and orchestrates
// analysis: it is the single mutation point for document state. Parsing
// and type checking are pure functions over a document snapshot; the
// analyzer decides when they run and aggregates their errors.
package analyzer

import (
	"sync"

	"github.com/burn-lang/burnls/internal/ast"
	"github.com/burn-lang/burnls/internal/checker"
	"github.com/burn-lang/burnls/internal/logger"
	"github.com/burn-lang/burnls/internal/parser"
	"github.com/burn-lang/burnls/internal/textutil"
)

// ErrorKind classifies an analysis error.
type ErrorKind int

const (
	ParseError ErrorKind = iota
	TypeError
	SemanticError
)

func (k ErrorKind) String() string {
	switch k {
	case ParseError:
		return "parse"
	case TypeError:
		return "type"
	case SemanticError:
		return "semantic"
	}
	return "unknown"
}

// Error is a single analysis finding. Line is 1-based, Column is a byte
// column, Length is the highlight span in bytes.
type Error struct {
	Message string
	Kind    ErrorKind
	Line    int
	Column  int
	Length  int
}

// Document is an open document snapshot. AST is nil whenever the last
// parse produced any error; no partial trees are retained.
type Document struct {
	URI     string
	Content string
	AST     []ast.Node
}

// DefinitionLocation points at a declaration. Line is 1-based.
type DefinitionLocation struct {
	URI    string
	Line   int
	Column int
}

// SymbolKind classifies a document symbol.
type SymbolKind int

const (
	SymbolFunction SymbolKind = iota
	SymbolVariable
	SymbolStruct
	SymbolClass
	SymbolMethod
	SymbolProperty
)

// DocumentSymbol is one entry in a document's flat outline.
type DocumentSymbol struct {
	Name   string
	Kind   SymbolKind
	Line   int
	Column int
}

// DefinitionSource resolves a name in files that are not currently open,
// for example from a persisted workspace index.
type DefinitionSource interface {
	LookupSymbol(name string) (uri string, line, column int, ok bool)
}

// Analyzer is the document store and orchestrator. Each logical map sits
// under its own lock and no operation ever holds two locks at once.
type Analyzer struct {
	mu        sync.Mutex
	documents map[string]*Document

	checker *checker.Checker

	rootMu        sync.Mutex
	workspaceRoot string

	defsMu sync.Mutex
	defs   DefinitionSource
}

// New returns an Analyzer that records type environments in the given
// checker.
func New(c *checker.Checker) *Analyzer {
	return &Analyzer{
		documents: make(map[string]*Document),
		checker:   c,
	}
}

// SetWorkspaceRoot records the workspace root path.
func (a *Analyzer) SetWorkspaceRoot(path string) {
	a.rootMu.Lock()
	a.workspaceRoot = path
	a.rootMu.Unlock()
}

// WorkspaceRoot returns the recorded workspace root, if any.
func (a *Analyzer) WorkspaceRoot() string {
	a.rootMu.Lock()
	defer a.rootMu.Unlock()
	return a.workspaceRoot
}

// SetDefinitionSource installs a fallback source for definition lookups.
func (a *Analyzer) SetDefinitionSource(src DefinitionSource) {
	a.defsMu.Lock()
	a.defs = src
	a.defsMu.Unlock()
}

func (a *Analyzer) definitionSource() DefinitionSource {
	a.defsMu.Lock()
	defer a.defsMu.Unlock()
	return a.defs
}

// Open parses content and stores the document, replacing any previous
// entry wholesale. A parse with any error stores the document without an
// AST and drops any stale type environment for it.
func (a *Analyzer) Open(uri, content string) {
	logger.Info("opening document: %s", uri)

	nodes, errs := parser.Parse(content)
	if len(errs) > 0 {
		for _, err := range errs {
			logger.Debug("parse error in %s: %v", uri, err)
		}
		nodes = nil
		a.checker.Drop(uri)
	}

	doc := &Document{URI: uri, Content: content, AST: nodes}

	a.mu.Lock()
	a.documents[uri] = doc
	a.mu.Unlock()
}

// Close removes the document and its type environment. The caller is
// responsible for clearing any diagnostics it previously published.
func (a *Analyzer) Close(uri string) {
	logger.Info("closing document: %s", uri)

	a.mu.Lock()
	delete(a.documents, uri)
	a.mu.Unlock()

	a.checker.Drop(uri)
}

// Document returns a snapshot of an open document.
func (a *Analyzer) Document(uri string) (*Document, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	doc, ok := a.documents[uri]
	if !ok {
		return nil, false
	}
	snapshot := *doc
	return &snapshot, true
}

// Analyze runs analysis for one document. With an AST present it runs the
// type-table pass; without one it re-parses the stored text from scratch
// purely to regenerate the parse-error list (the AST is never retained on
// this branch). An unknown uri yields an empty result.
func (a *Analyzer) Analyze(uri string) []Error {
	doc, ok := a.Document(uri)
	if !ok {
		logger.Error("document not found for analysis: %s", uri)
		return nil
	}

	var errors []Error

	if doc.AST != nil {
		for _, err := range a.checker.Check(doc.AST, uri) {
			errors = append(errors, Error{
				Message: err.Message,
				Kind:    TypeError,
				Line:    err.Line,
				Column:  err.Column,
				Length:  err.Length,
			})
		}
		return errors
	}

	_, parseErrs := parser.Parse(doc.Content)
	for _, err := range parseErrs {
		errors = append(errors, Error{
			Message: err.Message,
			Kind:    ParseError,
			Line:    err.Line,
			Column:  err.Column,
			Length:  1,
		})
	}
	return errors
}

// AnalyzeAll analyzes every open document. Iteration order over documents
// is unspecified.
func (a *Analyzer) AnalyzeAll() map[string][]Error {
	a.mu.Lock()
	uris := make([]string, 0, len(a.documents))
	for uri := range a.documents {
		uris = append(uris, uri)
	}
	a.mu.Unlock()

	results := make(map[string][]Error, len(uris))
	for _, uri := range uris {
		results[uri] = a.Analyze(uri)
	}
	return results
}

// FindDefinition resolves the word at the position in the named document,
// then scans the top-level nodes of every open document for a matching
// declaration. Bodies are never populated, so only top-level names across
// the open set can be found; when the open set has no match, the fallback
// definition source is consulted.
func (a *Analyzer) FindDefinition(uri string, line, character int) *DefinitionLocation {
	doc, ok := a.Document(uri)
	if !ok {
		logger.Error("document not found for definition: %s", uri)
		return nil
	}

	offset, err := textutil.PositionToOffset(doc.Content, line, character)
	if err != nil {
		logger.Debug("definition position invalid in %s: %v", uri, err)
		return nil
	}
	start, end, ok := textutil.WordAt(doc.Content, offset)
	if !ok {
		return nil
	}
	word := doc.Content[start:end]

	a.mu.Lock()
	snapshot := make([]*Document, 0, len(a.documents))
	for _, d := range a.documents {
		snapshot = append(snapshot, d)
	}
	a.mu.Unlock()

	for _, d := range snapshot {
		for _, node := range d.AST {
			name, _, found := declarationName(node)
			if found && name == word {
				nodeLine, nodeCol := node.Pos()
				return &DefinitionLocation{URI: d.URI, Line: nodeLine, Column: nodeCol}
			}
		}
	}

	if src := a.definitionSource(); src != nil {
		if defURI, defLine, defCol, found := src.LookupSymbol(word); found {
			return &DefinitionLocation{URI: defURI, Line: defLine, Column: defCol}
		}
	}

	return nil
}

// DocumentSymbols returns a flat list of the document's top-level
// declarations. Class methods and properties are not emitted: only the
// top-level node list is walked.
func (a *Analyzer) DocumentSymbols(uri string) []DocumentSymbol {
	doc, ok := a.Document(uri)
	if !ok {
		logger.Error("document not found for symbols: %s", uri)
		return nil
	}

	var symbols []DocumentSymbol
	for _, node := range doc.AST {
		name, kind, found := declarationName(node)
		if !found {
			continue
		}
		line, col := node.Pos()
		symbols = append(symbols, DocumentSymbol{Name: name, Kind: kind, Line: line, Column: col})
	}
	return symbols
}

func declarationName(node ast.Node) (string, SymbolKind, bool) {
	switch n := node.(type) {
	case *ast.FunctionDeclaration:
		return n.Name, SymbolFunction, true
	case *ast.VariableDeclaration:
		return n.Name, SymbolVariable, true
	case *ast.StructDeclaration:
		return n.Name, SymbolStruct, true
	case *ast.ClassDeclaration:
		return n.Name, SymbolClass, true
	}
	return "", 0, false
}
