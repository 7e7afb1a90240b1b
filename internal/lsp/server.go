package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/burn-lang/burnls/internal/analyzer"
	"github.com/burn-lang/burnls/internal/checker"
	"github.com/burn-lang/burnls/internal/config"
	"github.com/burn-lang/burnls/internal/index"
)

// Server is the LSP server for the Burn language.
type Server struct {
	// I/O
	reader *bufio.Reader
	writer io.Writer
	mu     sync.Mutex // protects writes

	// State
	initialized bool
	shutdown    bool
	rootURI     string

	// Analysis
	checker  *checker.Checker
	analyzer *analyzer.Analyzer

	// Workspace
	cfg     *config.Config
	indexMu sync.Mutex
	indexDB *index.DB

	// Logging
	logger *log.Logger

	// Performance: debouncing
	debounceTimers map[string]*time.Timer
	debounceMu     sync.Mutex
	debounceDelay  time.Duration
}

// DefaultDebounceDelay is the default delay for debouncing diagnostics.
const DefaultDebounceDelay = 300 * time.Millisecond

// NewServerWithIO creates an LSP server over the given transport. Callers
// own the logging destination; use SetLogger to attach one.
func NewServerWithIO(reader io.Reader, writer io.Writer) *Server {
	return newServer(bufio.NewReader(reader), writer, log.New(io.Discard, "", 0))
}

func newServer(reader *bufio.Reader, writer io.Writer, logger *log.Logger) *Server {
	c := checker.New()
	return &Server{
		reader:         reader,
		writer:         writer,
		checker:        c,
		analyzer:       analyzer.New(c),
		cfg:            config.Default(),
		logger:         logger,
		debounceTimers: make(map[string]*time.Timer),
		debounceDelay:  DefaultDebounceDelay,
	}
}

// Run starts the LSP server main loop.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Println("LSP server starting")
	defer s.closeIndex()

	for {
		select {
		case <-ctx.Done():
			s.logger.Println("Context cancelled, shutting down")
			return ctx.Err()
		default:
		}

		msg, err := s.readMessage()
		if err != nil {
			if err == io.EOF {
				s.logger.Println("EOF received, shutting down")
				return nil
			}
			s.logger.Printf("Read error: %v", err)
			continue
		}

		resp := s.handleMessage(msg)
		if resp != nil {
			if err := s.writeMessage(resp); err != nil {
				s.logger.Printf("Write error: %v", err)
				return err
			}
		}

		if s.shutdown {
			s.logger.Println("Shutdown requested")
			return nil
		}
	}
}

// readMessage reads an LSP message from the input.
// LSP uses Content-Length headers followed by the JSON payload.
func (s *Server) readMessage() ([]byte, error) {
	var contentLength int
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			// Empty line marks end of headers
			break
		}

		if strings.HasPrefix(line, "Content-Length:") {
			value := strings.TrimSpace(strings.TrimPrefix(line, "Content-Length:"))
			contentLength, err = strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("invalid Content-Length: %w", err)
			}
		}
		// Ignore other headers (like Content-Type)
	}

	if contentLength == 0 {
		return nil, fmt.Errorf("missing Content-Length header")
	}

	content := make([]byte, contentLength)
	_, err := io.ReadFull(s.reader, content)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}

	s.logger.Printf("Received: %s", string(content))
	return content, nil
}

// writeMessage writes an LSP message to the output.
func (s *Server) writeMessage(msg any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}

	s.logger.Printf("Sending: %s", string(content))

	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(content))
	if _, err := s.writer.Write([]byte(header)); err != nil {
		return err
	}
	if _, err := s.writer.Write(content); err != nil {
		return err
	}

	return nil
}

// handleMessage processes an incoming message and returns a response (if any).
func (s *Server) handleMessage(msg []byte) *Response {
	var req Request
	if err := json.Unmarshal(msg, &req); err != nil {
		return s.errorResponse(nil, ErrCodeParseError, "Parse error", err.Error())
	}

	s.logger.Printf("Handling method: %s", req.Method)

	if !s.initialized && req.Method != "initialize" && req.Method != "initialized" && req.Method != "exit" {
		return s.errorResponse(req.ID, ErrCodeServerNotInitialized, "Server not initialized", nil)
	}

	switch req.Method {
	// Lifecycle
	case "initialize":
		return s.handleInitialize(req)
	case "initialized":
		return s.handleInitialized(req)
	case "shutdown":
		return s.handleShutdown(req)
	case "exit":
		return s.handleExit(req)

	// Document sync
	case "textDocument/didOpen":
		return s.handleDidOpen(req)
	case "textDocument/didChange":
		return s.handleDidChange(req)
	case "textDocument/didClose":
		return s.handleDidClose(req)
	case "textDocument/didSave":
		return s.handleDidSave(req)

	// Features
	case "textDocument/hover":
		return s.handleHover(req)
	case "textDocument/completion":
		return s.handleCompletion(req)
	case "textDocument/definition":
		return s.handleDefinition(req)
	case "textDocument/documentSymbol":
		return s.handleDocumentSymbol(req)

	// Notifications (no response)
	case "$/cancelRequest":
		return nil // Ignored for now
	case "$/setTrace":
		return nil // Ignored

	default:
		s.logger.Printf("Unknown method: %s", req.Method)
		return s.errorResponse(req.ID, ErrCodeMethodNotFound, "Method not found", req.Method)
	}
}

// Helper functions

func (s *Server) successResponse(id any, result any) *Response {
	return &Response{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	}
}

func (s *Server) errorResponse(id any, code int, message string, data any) *Response {
	return &Response{
		JSONRPC: "2.0",
		ID:      id,
		Error: &RPCError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// publishDiagnostics sends diagnostics for a document.
func (s *Server) publishDiagnostics(uri string, diagnostics []Diagnostic) error {
	if diagnostics == nil {
		diagnostics = []Diagnostic{}
	}
	params := PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	}

	// Send as notification (no ID)
	notification := map[string]any{
		"jsonrpc": "2.0",
		"method":  "textDocument/publishDiagnostics",
		"params":  params,
	}

	return s.writeMessage(notification)
}

// SetLogger sets the logger for the server.
func (s *Server) SetLogger(w io.Writer) {
	if w == nil {
		s.logger = log.New(io.Discard, "", 0)
	} else {
		s.logger = log.New(w, "[LSP] ", log.LstdFlags|log.Lshortfile)
	}
}

// SetDebounceDelay sets the debounce delay for diagnostics.
func (s *Server) SetDebounceDelay(delay time.Duration) {
	s.debounceDelay = delay
}

func (s *Server) setIndex(db *index.DB) {
	s.indexMu.Lock()
	s.indexDB = db
	s.indexMu.Unlock()
}

func (s *Server) getIndex() *index.DB {
	s.indexMu.Lock()
	defer s.indexMu.Unlock()
	return s.indexDB
}

func (s *Server) closeIndex() {
	s.indexMu.Lock()
	defer s.indexMu.Unlock()
	if s.indexDB != nil {
		if err := s.indexDB.Close(); err != nil {
			s.logger.Printf("Error closing index: %v", err)
		}
		s.indexDB = nil
	}
}

// debounceDiagnostics schedules diagnostics computation with debouncing.
func (s *Server) debounceDiagnostics(uri string) {
	s.debounceMu.Lock()
	defer s.debounceMu.Unlock()

	// Cancel existing timer for this URI
	if timer, exists := s.debounceTimers[uri]; exists {
		timer.Stop()
	}

	s.debounceTimers[uri] = time.AfterFunc(s.debounceDelay, func() {
		s.computeAndPublishDiagnosticsImmediate(uri)
	})
}

// computeAndPublishDiagnosticsImmediate computes and publishes diagnostics immediately.
func (s *Server) computeAndPublishDiagnosticsImmediate(uri string) {
	if _, ok := s.analyzer.Document(uri); !ok {
		return
	}

	diagnostics := s.computeDiagnostics(uri)

	if err := s.publishDiagnostics(uri, diagnostics); err != nil {
		s.logger.Printf("Error publishing diagnostics: %v", err)
	}
}
