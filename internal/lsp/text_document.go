package lsp

import (
	"encoding/json"

	"github.com/burn-lang/burnls/internal/index"
)

// handleDidOpen handles textDocument/didOpen notification.
func (s *Server) handleDidOpen(req Request) *Response {
	var params DidOpenTextDocumentParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		s.logger.Printf("Error parsing didOpen params: %v", err)
		return nil // Notifications don't get error responses
	}

	uri := params.TextDocument.URI
	s.analyzer.Open(uri, params.TextDocument.Text)
	s.logger.Printf("Document opened: %s (lang=%s, version=%d)",
		uri, params.TextDocument.LanguageID, params.TextDocument.Version)

	// Diagnostics go out immediately on open (no debounce for initial load)
	go s.computeAndPublishDiagnosticsImmediate(uri)

	return nil // Notification - no response
}

// handleDidChange handles textDocument/didChange notification.
func (s *Server) handleDidChange(req Request) *Response {
	var params DidChangeTextDocumentParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		s.logger.Printf("Error parsing didChange params: %v", err)
		return nil
	}

	uri := params.TextDocument.URI
	if _, ok := s.analyzer.Document(uri); !ok {
		s.logger.Printf("Document not found for change: %s", uri)
		return nil
	}

	// With TextDocumentSyncKindFull the last change carries the full text
	if len(params.ContentChanges) > 0 {
		text := params.ContentChanges[len(params.ContentChanges)-1].Text
		s.analyzer.Open(uri, text)
	}

	s.logger.Printf("Document changed: %s (version=%d)", uri, params.TextDocument.Version)

	// Debounced so rapid typing does not flood the analyzer
	s.debounceDiagnostics(uri)

	return nil
}

// handleDidClose handles textDocument/didClose notification.
func (s *Server) handleDidClose(req Request) *Response {
	var params DidCloseTextDocumentParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		s.logger.Printf("Error parsing didClose params: %v", err)
		return nil
	}

	uri := params.TextDocument.URI
	s.analyzer.Close(uri)
	s.logger.Printf("Document closed: %s", uri)

	// Clear diagnostics for closed document
	_ = s.publishDiagnostics(uri, []Diagnostic{})

	return nil
}

// handleDidSave handles textDocument/didSave notification.
func (s *Server) handleDidSave(req Request) *Response {
	var params DidSaveTextDocumentParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		s.logger.Printf("Error parsing didSave params: %v", err)
		return nil
	}

	uri := params.TextDocument.URI
	s.logger.Printf("Document saved: %s", uri)

	// Re-compute diagnostics immediately on save (no debounce)
	go s.computeAndPublishDiagnosticsImmediate(uri)

	// A save is the point where the on-disk index can be refreshed from the
	// in-memory document.
	if db := s.getIndex(); db != nil {
		go s.reindexDocument(db, uri)
	}

	return nil
}

func (s *Server) reindexDocument(db *index.DB, uri string) {
	symbols := make([]index.Symbol, 0)
	for _, sym := range s.analyzer.DocumentSymbols(uri) {
		symbols = append(symbols, index.Symbol{
			Name:   sym.Name,
			Kind:   symbolKindName(sym.Kind),
			URI:    uri,
			Line:   sym.Line,
			Column: sym.Column,
		})
	}
	if err := db.ReplaceFileSymbols(uri, symbols); err != nil {
		s.logger.Printf("Error reindexing %s: %v", uri, err)
	}
}
