// Package workspace walks a workspace root for source files and seeds the
// symbol index with their top-level declarations.
package workspace

import (
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/burn-lang/burnls/internal/ast"
	"github.com/burn-lang/burnls/internal/config"
	"github.com/burn-lang/burnls/internal/index"
	"github.com/burn-lang/burnls/internal/logger"
	"github.com/burn-lang/burnls/internal/parser"
)

// Summary is the result of one workspace scan.
type Summary struct {
	ScanID      string
	Root        string
	FileCount   int
	SymbolCount int
	Skipped     int
	Duration    time.Duration
}

func matchesIgnore(rel string, globs []string) bool {
	normalized := filepath.ToSlash(rel)
	for _, g := range globs {
		if g == "" {
			continue
		}
		ok, err := doublestar.Match(g, normalized)
		if err == nil && ok {
			return true
		}
	}
	return false
}

// ListSourceFiles walks root and returns the relative paths of files with
// a configured source extension, skipping ignored subtrees.
func ListSourceFiles(root string, cfg *config.Config) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if matchesIgnore(rel, cfg.IgnoreGlobs) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}
		if cfg.IsSourceFile(path) {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// Scan parses every source file under root and replaces each file's
// symbols in the index. Files that fail to parse are skipped: they
// contribute no symbols until they parse again, and their previous
// entries are cleared.
func Scan(root string, cfg *config.Config, db *index.DB) (Summary, error) {
	started := time.Now()

	rootPath, err := filepath.Abs(root)
	if err != nil {
		return Summary{}, err
	}

	files, err := ListSourceFiles(rootPath, cfg)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{Root: rootPath, FileCount: len(files)}
	for _, rel := range files {
		full := filepath.Join(rootPath, rel)
		data, err := os.ReadFile(full)
		if err != nil {
			logger.Error("failed to read %s: %v", full, err)
			summary.Skipped++
			continue
		}
		uri := PathToURI(full)

		nodes, parseErrs := parser.Parse(string(data))
		if len(parseErrs) > 0 {
			logger.Debug("skipping %s: %d parse errors", rel, len(parseErrs))
			summary.Skipped++
			if err := db.ReplaceFileSymbols(uri, nil); err != nil {
				logger.Error("failed to clear symbols for %s: %v", uri, err)
			}
			continue
		}

		symbols := fileSymbols(uri, nodes)
		if err := db.ReplaceFileSymbols(uri, symbols); err != nil {
			logger.Error("failed to index %s: %v", uri, err)
			summary.Skipped++
			continue
		}
		summary.SymbolCount += len(symbols)
	}

	scanID, err := db.RecordScan(rootPath, summary.FileCount, summary.SymbolCount, started)
	if err != nil {
		return Summary{}, err
	}
	summary.ScanID = scanID
	summary.Duration = time.Since(started)

	logger.Info("workspace scan %s: %d files, %d symbols, %d skipped in %s",
		scanID, summary.FileCount, summary.SymbolCount, summary.Skipped, summary.Duration)
	return summary, nil
}

func fileSymbols(uri string, nodes []ast.Node) []index.Symbol {
	var symbols []index.Symbol
	for _, node := range nodes {
		var name, kind string
		switch n := node.(type) {
		case *ast.FunctionDeclaration:
			name, kind = n.Name, "function"
		case *ast.VariableDeclaration:
			name, kind = n.Name, "variable"
		case *ast.StructDeclaration:
			name, kind = n.Name, "struct"
		case *ast.ClassDeclaration:
			name, kind = n.Name, "class"
		default:
			continue
		}
		line, col := node.Pos()
		symbols = append(symbols, index.Symbol{
			Name:   name,
			Kind:   kind,
			URI:    uri,
			Line:   line,
			Column: col,
		})
	}
	return symbols
}

// PathToURI converts a filesystem path to a file:// URI.
func PathToURI(path string) string {
	path = filepath.ToSlash(path)
	if len(path) > 0 && path[0] != '/' {
		path = "/" + path
	}
	return "file://" + path
}
