package lsp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/burn-lang/burnls/internal/analyzer"
)

// TestReadMessage tests the LSP message reading.
func TestReadMessage(t *testing.T) {
	content := `{"jsonrpc":"2.0","id":1,"method":"initialize"}`
	input := fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(content), content)

	server := NewServerWithIO(strings.NewReader(input), &bytes.Buffer{})

	msg, err := server.readMessage()
	if err != nil {
		t.Fatalf("readMessage failed: %v", err)
	}

	var req Request
	if err := json.Unmarshal(msg, &req); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if req.Method != "initialize" {
		t.Errorf("expected method 'initialize', got '%s'", req.Method)
	}
	if req.ID != float64(1) { // JSON numbers are float64
		t.Errorf("expected id 1, got %v", req.ID)
	}
}

// TestWriteMessage tests the LSP message writing.
func TestWriteMessage(t *testing.T) {
	var output bytes.Buffer
	server := NewServerWithIO(strings.NewReader(""), &output)

	resp := &Response{
		JSONRPC: "2.0",
		ID:      1,
		Result:  map[string]string{"test": "value"},
	}

	if err := server.writeMessage(resp); err != nil {
		t.Fatalf("writeMessage failed: %v", err)
	}

	result := output.String()
	if !strings.HasPrefix(result, "Content-Length:") {
		t.Error("expected Content-Length header")
	}
	if !strings.Contains(result, `"test":"value"`) {
		t.Error("expected result in output")
	}
}

// TestInitialize tests the initialize request handling.
func TestInitialize(t *testing.T) {
	params := InitializeParams{
		ProcessID: 1234,
		RootURI:   "file:///test/project",
	}

	paramsJSON, _ := json.Marshal(params)
	req := Request{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "initialize",
		Params:  paramsJSON,
	}

	server := NewServerWithIO(strings.NewReader(""), &bytes.Buffer{})
	resp := server.handleInitialize(req)

	if resp.Error != nil {
		t.Fatalf("initialize returned error: %v", resp.Error)
	}

	result, ok := resp.Result.(InitializeResult)
	if !ok {
		t.Fatalf("expected InitializeResult, got %T", resp.Result)
	}

	if result.ServerInfo.Name != "burnls" {
		t.Errorf("expected server name 'burnls', got '%s'", result.ServerInfo.Name)
	}
	if !result.Capabilities.HoverProvider {
		t.Error("expected HoverProvider to be true")
	}
	if result.Capabilities.CompletionProvider == nil ||
		len(result.Capabilities.CompletionProvider.TriggerCharacters) == 0 ||
		result.Capabilities.CompletionProvider.TriggerCharacters[0] != "." {
		t.Error("expected completion triggered on '.'")
	}
	if result.Capabilities.TextDocumentSync.Change != TextDocumentSyncKindFull {
		t.Error("expected full document sync")
	}
}

// TestDocumentLifecycle tests document open/change/close.
func TestDocumentLifecycle(t *testing.T) {
	server := NewServerWithIO(strings.NewReader(""), &bytes.Buffer{})
	server.initialized = true

	uri := "file:///test/main.bn"

	openParams := DidOpenTextDocumentParams{
		TextDocument: TextDocumentItem{
			URI:        uri,
			LanguageID: "burn",
			Version:    1,
			Text:       `var greeting: String = "hello"`,
		},
	}
	openJSON, _ := json.Marshal(openParams)
	server.handleDidOpen(Request{Params: openJSON})

	doc, ok := server.analyzer.Document(uri)
	if !ok {
		t.Fatal("document should be open")
	}
	if !strings.Contains(doc.Content, "greeting") {
		t.Errorf("unexpected content: %q", doc.Content)
	}
	if doc.AST == nil {
		t.Error("expected a parsed tree for valid source")
	}

	changeParams := DidChangeTextDocumentParams{
		TextDocument: VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: TextDocumentIdentifier{URI: uri},
			Version:                2,
		},
		ContentChanges: []TextDocumentContentChangeEvent{
			{Text: "var count: Number = 1"},
		},
	}
	changeJSON, _ := json.Marshal(changeParams)
	server.handleDidChange(Request{Params: changeJSON})

	doc, _ = server.analyzer.Document(uri)
	if !strings.Contains(doc.Content, "count") {
		t.Error("expected content to be replaced wholesale")
	}

	closeParams := DidCloseTextDocumentParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
	}
	closeJSON, _ := json.Marshal(closeParams)
	server.handleDidClose(Request{Params: closeJSON})

	if _, ok := server.analyzer.Document(uri); ok {
		t.Error("document should be closed")
	}
}

// TestMethodDispatch tests that methods are correctly dispatched.
func TestMethodDispatch(t *testing.T) {
	server := NewServerWithIO(strings.NewReader(""), &bytes.Buffer{})

	// Before initialization, most methods should fail
	resp := server.handleMessage([]byte(`{"jsonrpc":"2.0","id":1,"method":"textDocument/hover"}`))
	if resp.Error == nil || resp.Error.Code != ErrCodeServerNotInitialized {
		t.Error("expected ServerNotInitialized error before initialization")
	}

	server.handleMessage([]byte(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"processId":1,"rootUri":""}}`))
	server.handleMessage([]byte(`{"jsonrpc":"2.0","method":"initialized"}`))

	resp = server.handleMessage([]byte(`{"jsonrpc":"2.0","id":2,"method":"textDocument/hover","params":{"textDocument":{"uri":"file:///missing.bn"},"position":{"line":0,"character":0}}}`))
	if resp.Error != nil {
		t.Errorf("expected no error after initialization, got: %v", resp.Error)
	}

	resp = server.handleMessage([]byte(`{"jsonrpc":"2.0","id":3,"method":"unknown/method"}`))
	if resp.Error == nil || resp.Error.Code != ErrCodeMethodNotFound {
		t.Error("expected MethodNotFound error for unknown method")
	}
}

func openDocument(t *testing.T, server *Server, uri, text string) {
	t.Helper()
	params := DidOpenTextDocumentParams{
		TextDocument: TextDocumentItem{URI: uri, LanguageID: "burn", Version: 1, Text: text},
	}
	paramsJSON, _ := json.Marshal(params)
	server.handleDidOpen(Request{Params: paramsJSON})
	// The type table fills in during analysis
	server.analyzer.Analyze(uri)
}

// TestHoverRequest resolves a declared variable through the full handler.
func TestHoverRequest(t *testing.T) {
	server := NewServerWithIO(strings.NewReader(""), &bytes.Buffer{})
	server.initialized = true

	uri := "file:///test/main.bn"
	openDocument(t, server, uri, `var name: String = "burn"`)

	params := HoverParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
		Position:     Position{Line: 0, Character: 5},
	}
	paramsJSON, _ := json.Marshal(params)
	resp := server.handleHover(Request{ID: 1, Params: paramsJSON})

	if resp.Error != nil {
		t.Fatalf("hover returned error: %v", resp.Error)
	}
	h, ok := resp.Result.(*Hover)
	if !ok {
		t.Fatalf("expected *Hover, got %T", resp.Result)
	}
	if !strings.Contains(h.Contents.Value, "String") {
		t.Errorf("hover should mention the declared type, got %q", h.Contents.Value)
	}
	if h.Range == nil {
		t.Error("expected a highlight range for a declared name")
	}
}

// TestCompletionRequest asks for members after a dot.
func TestCompletionRequest(t *testing.T) {
	server := NewServerWithIO(strings.NewReader(""), &bytes.Buffer{})
	server.initialized = true

	uri := "file:///test/main.bn"
	text := "var s: String = \"hi\"\ns."
	openDocument(t, server, uri, text)

	params := CompletionParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
		Position:     Position{Line: 1, Character: 2},
	}
	paramsJSON, _ := json.Marshal(params)
	resp := server.handleCompletion(Request{ID: 1, Params: paramsJSON})

	if resp.Error != nil {
		t.Fatalf("completion returned error: %v", resp.Error)
	}
	items, ok := resp.Result.([]CompletionItem)
	if !ok {
		t.Fatalf("expected []CompletionItem, got %T", resp.Result)
	}

	var sawUpper bool
	for _, item := range items {
		if item.Label == "toUpperCase" {
			sawUpper = true
			if item.Kind != CompletionItemKindMethod {
				t.Errorf("toUpperCase should be a method, got kind %d", item.Kind)
			}
		}
	}
	if !sawUpper {
		t.Error("expected String members after 's.'")
	}
}

// TestDefinitionAcrossDocuments finds a struct declared in another open file.
func TestDefinitionAcrossDocuments(t *testing.T) {
	server := NewServerWithIO(strings.NewReader(""), &bytes.Buffer{})
	server.initialized = true

	defURI := "file:///test/types.bn"
	useURI := "file:///test/main.bn"
	openDocument(t, server, defURI, "struct Point {\n")
	openDocument(t, server, useURI, "var p: Point = origin\n")

	params := DefinitionParams{
		TextDocument: TextDocumentIdentifier{URI: useURI},
		Position:     Position{Line: 0, Character: 8}, // inside "Point"
	}
	paramsJSON, _ := json.Marshal(params)
	resp := server.handleDefinition(Request{ID: 1, Params: paramsJSON})

	if resp.Error != nil {
		t.Fatalf("definition returned error: %v", resp.Error)
	}
	loc, ok := resp.Result.(*Location)
	if !ok {
		t.Fatalf("expected *Location, got %T", resp.Result)
	}
	if loc.URI != defURI {
		t.Errorf("expected definition in %s, got %s", defURI, loc.URI)
	}
	if loc.Range.Start.Line != 0 {
		t.Errorf("expected 0-based line 0, got %d", loc.Range.Start.Line)
	}
}

// TestDocumentSymbolRequest lists top-level declarations.
func TestDocumentSymbolRequest(t *testing.T) {
	server := NewServerWithIO(strings.NewReader(""), &bytes.Buffer{})
	server.initialized = true

	uri := "file:///test/main.bn"
	openDocument(t, server, uri, "struct Point {\nfn distance(a: Point, b: Point): Number {\nvar origin = zero\n")

	params := DocumentSymbolParams{TextDocument: TextDocumentIdentifier{URI: uri}}
	paramsJSON, _ := json.Marshal(params)
	resp := server.handleDocumentSymbol(Request{ID: 1, Params: paramsJSON})

	if resp.Error != nil {
		t.Fatalf("documentSymbol returned error: %v", resp.Error)
	}
	symbols, ok := resp.Result.([]SymbolInformation)
	if !ok {
		t.Fatalf("expected []SymbolInformation, got %T", resp.Result)
	}
	if len(symbols) != 3 {
		t.Fatalf("expected 3 symbols, got %d", len(symbols))
	}
	kinds := map[string]SymbolKind{}
	for _, sym := range symbols {
		kinds[sym.Name] = sym.Kind
	}
	if kinds["Point"] != SymbolKindStruct {
		t.Errorf("Point should be a struct symbol, got %d", kinds["Point"])
	}
	if kinds["distance"] != SymbolKindFunction {
		t.Errorf("distance should be a function symbol, got %d", kinds["distance"])
	}
	if kinds["origin"] != SymbolKindVariable {
		t.Errorf("origin should be a variable symbol, got %d", kinds["origin"])
	}
}

// TestComputeDiagnostics converts parse errors into protocol diagnostics.
func TestComputeDiagnostics(t *testing.T) {
	server := NewServerWithIO(strings.NewReader(""), &bytes.Buffer{})
	server.initialized = true

	uri := "file:///test/broken.bn"
	openDocument(t, server, uri, "var x = 1\n!!!\n")

	diags := server.computeDiagnostics(uri)
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
	d := diags[0]
	if d.Severity != DiagnosticSeverityError {
		t.Errorf("parse errors should be errors, got severity %d", d.Severity)
	}
	if d.Source != "burnls" {
		t.Errorf("expected source 'burnls', got %q", d.Source)
	}
	if d.Range.Start.Line != 1 {
		t.Errorf("expected 0-based line 1, got %d", d.Range.Start.Line)
	}
}

func TestAnalysisErrorToDiagnostic(t *testing.T) {
	d := analysisErrorToDiagnostic(analyzer.Error{
		Message: "something odd",
		Kind:    analyzer.SemanticError,
		Line:    3,
		Column:  4,
		Length:  5,
	})
	if d.Severity != DiagnosticSeverityWarning {
		t.Errorf("semantic findings should be warnings, got %d", d.Severity)
	}
	if d.Range.Start.Line != 2 || d.Range.Start.Character != 4 {
		t.Errorf("unexpected start %+v", d.Range.Start)
	}
	if d.Range.End.Character != 9 {
		t.Errorf("unexpected end character %d", d.Range.End.Character)
	}
}

func TestURIPathRoundTrip(t *testing.T) {
	path := uriToPath("file:///project/src/main.bn")
	if path != "/project/src/main.bn" {
		t.Errorf("uriToPath: got %q", path)
	}
	uri := pathToURI("/project/src/main.bn")
	if uri != "file:///project/src/main.bn" {
		t.Errorf("pathToURI: got %q", uri)
	}
}
