package lsp

import (
	"encoding/json"
	"path/filepath"

	"github.com/burn-lang/burnls/internal/config"
	"github.com/burn-lang/burnls/internal/index"
	"github.com/burn-lang/burnls/internal/workspace"
)

// handleInitialize handles the initialize request.
func (s *Server) handleInitialize(req Request) *Response {
	var params InitializeParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, ErrCodeInvalidParams, "Invalid params", err.Error())
	}

	s.logger.Printf("Initialize: rootURI=%s, processId=%d", params.RootURI, params.ProcessID)

	s.rootURI = params.RootURI
	if s.rootURI == "" && len(params.WorkspaceFolders) > 0 {
		s.rootURI = params.WorkspaceFolders[0].URI
	}

	if s.rootURI != "" {
		root := uriToPath(s.rootURI)
		s.analyzer.SetWorkspaceRoot(root)

		cfg, err := config.Load(root)
		if err != nil {
			s.logger.Printf("Config load failed, using defaults: %v", err)
			cfg = config.Default()
		}
		s.cfg = cfg
	}

	result := InitializeResult{
		Capabilities: ServerCapabilities{
			TextDocumentSync: &TextDocumentSyncOptions{
				OpenClose: true,
				Change:    TextDocumentSyncKindFull,
				Save: &SaveOptions{
					IncludeText: false,
				},
			},
			HoverProvider: true,
			CompletionProvider: &CompletionOptions{
				TriggerCharacters: []string{"."},
			},
			DefinitionProvider:     true,
			DocumentSymbolProvider: true,
		},
		ServerInfo: &ServerInfo{
			Name:    "burnls",
			Version: "0.1.0",
		},
	}

	return s.successResponse(req.ID, result)
}

// handleInitialized handles the initialized notification. The workspace
// index opens and seeds here rather than in initialize so the client's
// first requests are not blocked behind a scan.
func (s *Server) handleInitialized(req Request) *Response {
	s.initialized = true
	s.logger.Println("Server initialized")

	root := s.analyzer.WorkspaceRoot()
	if root != "" && s.cfg.IndexEnabled() {
		go s.openAndSeedIndex(root)
	}

	// Notification - no response
	return nil
}

func (s *Server) openAndSeedIndex(root string) {
	dbPath := s.cfg.Index.Path
	if !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(root, dbPath)
	}

	db, err := index.Open(dbPath)
	if err != nil {
		s.logger.Printf("Index unavailable: %v", err)
		return
	}
	s.setIndex(db)
	s.analyzer.SetDefinitionSource(db)

	summary, err := workspace.Scan(root, s.cfg, db)
	if err != nil {
		s.logger.Printf("Workspace scan failed: %v", err)
		return
	}
	s.logger.Printf("Workspace scan %s: %d files, %d symbols",
		summary.ScanID, summary.FileCount, summary.SymbolCount)
}

// handleShutdown handles the shutdown request.
func (s *Server) handleShutdown(req Request) *Response {
	s.logger.Println("Shutdown requested")
	s.shutdown = true
	return s.successResponse(req.ID, nil)
}

// handleExit handles the exit notification.
func (s *Server) handleExit(req Request) *Response {
	s.logger.Println("Exit requested")
	// The server loop will check s.shutdown and exit
	s.shutdown = true
	return nil
}
