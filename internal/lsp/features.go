package lsp

import (
	"encoding/json"

	"github.com/burn-lang/burnls/internal/analyzer"
	"github.com/burn-lang/burnls/internal/checker"
	"github.com/burn-lang/burnls/internal/hover"
	"github.com/burn-lang/burnls/internal/textutil"
)

// handleHover handles textDocument/hover request.
func (s *Server) handleHover(req Request) *Response {
	var params HoverParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, ErrCodeInvalidParams, "Invalid params", err.Error())
	}

	uri := params.TextDocument.URI
	doc, ok := s.analyzer.Document(uri)
	if !ok {
		return s.successResponse(req.ID, nil)
	}

	offset, err := textutil.PositionToOffset(doc.Content, params.Position.Line, params.Position.Character)
	if err != nil {
		s.logger.Printf("Hover position invalid: %v", err)
		return s.successResponse(req.ID, nil)
	}

	result := hover.Resolve(s.checker, uri, doc.Content, offset)
	if result == nil {
		return s.successResponse(req.ID, nil)
	}

	h := &Hover{
		Contents: MarkupContent{
			Kind:  MarkupKindMarkdown,
			Value: result.Markup,
		},
	}
	if result.HasRange {
		if r, ok := offsetRange(doc.Content, result.StartOffset, result.EndOffset); ok {
			h.Range = &r
		}
	}

	return s.successResponse(req.ID, h)
}

// handleCompletion handles textDocument/completion request.
func (s *Server) handleCompletion(req Request) *Response {
	var params CompletionParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, ErrCodeInvalidParams, "Invalid params", err.Error())
	}

	uri := params.TextDocument.URI
	doc, ok := s.analyzer.Document(uri)
	if !ok {
		return s.successResponse(req.ID, []CompletionItem{})
	}

	offset, err := textutil.PositionToOffset(doc.Content, params.Position.Line, params.Position.Character)
	if err != nil {
		s.logger.Printf("Completion position invalid: %v", err)
		return s.successResponse(req.ID, []CompletionItem{})
	}

	items := make([]CompletionItem, 0)
	for _, item := range s.checker.Completions(uri, doc.Content, offset) {
		items = append(items, CompletionItem{
			Label:  item.Label,
			Kind:   completionKind(item.Kind),
			Detail: item.Detail,
		})
	}

	return s.successResponse(req.ID, items)
}

func completionKind(kind checker.CompletionKind) CompletionItemKind {
	switch kind {
	case checker.CompletionKeyword:
		return CompletionItemKindKeyword
	case checker.CompletionClass:
		return CompletionItemKindClass
	case checker.CompletionFunction:
		return CompletionItemKindFunction
	case checker.CompletionVariable:
		return CompletionItemKindVariable
	case checker.CompletionProperty:
		return CompletionItemKindProperty
	case checker.CompletionMethod:
		return CompletionItemKindMethod
	}
	return CompletionItemKindText
}

// handleDefinition handles textDocument/definition request.
func (s *Server) handleDefinition(req Request) *Response {
	var params DefinitionParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, ErrCodeInvalidParams, "Invalid params", err.Error())
	}

	loc := s.analyzer.FindDefinition(params.TextDocument.URI, params.Position.Line, params.Position.Character)
	if loc == nil {
		return s.successResponse(req.ID, nil)
	}

	pos := declPosition(loc.Line, loc.Column)
	return s.successResponse(req.ID, &Location{
		URI:   loc.URI,
		Range: Range{Start: pos, End: pos},
	})
}

// handleDocumentSymbol handles textDocument/documentSymbol request.
func (s *Server) handleDocumentSymbol(req Request) *Response {
	var params DocumentSymbolParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, ErrCodeInvalidParams, "Invalid params", err.Error())
	}

	uri := params.TextDocument.URI
	if _, ok := s.analyzer.Document(uri); !ok {
		return s.successResponse(req.ID, []SymbolInformation{})
	}

	symbols := make([]SymbolInformation, 0)
	for _, sym := range s.analyzer.DocumentSymbols(uri) {
		pos := declPosition(sym.Line, sym.Column)
		symbols = append(symbols, SymbolInformation{
			Name: sym.Name,
			Kind: symbolKind(sym.Kind),
			Location: Location{
				URI:   uri,
				Range: Range{Start: pos, End: pos},
			},
		})
	}

	return s.successResponse(req.ID, symbols)
}

func symbolKind(kind analyzer.SymbolKind) SymbolKind {
	switch kind {
	case analyzer.SymbolFunction:
		return SymbolKindFunction
	case analyzer.SymbolVariable:
		return SymbolKindVariable
	case analyzer.SymbolStruct:
		return SymbolKindStruct
	case analyzer.SymbolClass:
		return SymbolKindClass
	case analyzer.SymbolMethod:
		return SymbolKindMethod
	case analyzer.SymbolProperty:
		return SymbolKindProperty
	}
	return SymbolKindFile
}

func symbolKindName(kind analyzer.SymbolKind) string {
	switch kind {
	case analyzer.SymbolFunction:
		return "function"
	case analyzer.SymbolVariable:
		return "variable"
	case analyzer.SymbolStruct:
		return "struct"
	case analyzer.SymbolClass:
		return "class"
	case analyzer.SymbolMethod:
		return "method"
	case analyzer.SymbolProperty:
		return "property"
	}
	return "symbol"
}

// declPosition converts the analyzer's 1-based line and column into a
// protocol position. Variable declarations carry column 0, which already
// is a valid 0-based character.
func declPosition(line, column int) Position {
	l := line - 1
	if l < 0 {
		l = 0
	}
	c := column - 1
	if c < 0 {
		c = 0
	}
	return Position{Line: l, Character: c}
}

// offsetRange converts a byte span into a protocol range.
func offsetRange(text string, start, end int) (Range, bool) {
	startLine, startChar, err := textutil.OffsetToPosition(text, start)
	if err != nil {
		return Range{}, false
	}
	endLine, endChar, err := textutil.OffsetToPosition(text, end)
	if err != nil {
		return Range{}, false
	}
	return Range{
		Start: Position{Line: startLine, Character: startChar},
		End:   Position{Line: endLine, Character: endChar},
	}, true
}
