package lsp

import (
	"path/filepath"
	"strings"

	"github.com/burn-lang/burnls/internal/analyzer"
)

// computeDiagnostics runs analysis for a document and converts the
// findings to protocol diagnostics.
func (s *Server) computeDiagnostics(uri string) []Diagnostic {
	diagnostics := make([]Diagnostic, 0)
	for _, err := range s.analyzer.Analyze(uri) {
		diagnostics = append(diagnostics, analysisErrorToDiagnostic(err))
	}
	return diagnostics
}

// analysisErrorToDiagnostic converts one analysis finding. The analyzer's
// lines are 1-based and the protocol's are 0-based.
func analysisErrorToDiagnostic(err analyzer.Error) Diagnostic {
	line := err.Line - 1
	if line < 0 {
		line = 0
	}
	startChar := err.Column
	if startChar < 0 {
		startChar = 0
	}
	length := err.Length
	if length < 1 {
		length = 1
	}

	severity := DiagnosticSeverityError
	if err.Kind == analyzer.SemanticError {
		severity = DiagnosticSeverityWarning
	}

	return Diagnostic{
		Range: Range{
			Start: Position{Line: line, Character: startChar},
			End:   Position{Line: line, Character: startChar + length},
		},
		Severity: severity,
		Code:     err.Kind.String(),
		Source:   "burnls",
		Message:  err.Message,
	}
}

// URI/Path conversion utilities

// uriToPath converts a file:// URI to a file path.
func uriToPath(uri string) string {
	path := strings.TrimPrefix(uri, "file:///")
	path = strings.TrimPrefix(path, "file://")
	// Handle Windows drive letters
	if len(path) >= 3 && path[1] == ':' {
		// Already a Windows path
		return filepath.FromSlash(path)
	}
	if len(path) >= 2 && path[0] != '/' && path[1] == ':' {
		// Windows path without leading slash
		return filepath.FromSlash(path)
	}
	// Unix path - add leading slash if missing
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return filepath.FromSlash(path)
}

// pathToURI converts a file path to a file:// URI.
func pathToURI(path string) string {
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	absPath = filepath.ToSlash(absPath)
	// Ensure proper file URI format
	if !strings.HasPrefix(absPath, "/") {
		// Windows path
		return "file:///" + absPath
	}
	return "file://" + absPath
}
