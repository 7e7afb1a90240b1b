package index

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), ".burnls", "index.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestReplaceAndLookupSymbols(t *testing.T) {
	db := openTestDB(t)

	uri := "file:///project/geometry.bn"
	symbols := []Symbol{
		{Name: "Point", Kind: "struct", URI: uri, Line: 1, Column: 1},
		{Name: "distance", Kind: "function", URI: uri, Line: 5, Column: 1},
	}
	if err := db.ReplaceFileSymbols(uri, symbols); err != nil {
		t.Fatalf("ReplaceFileSymbols: %v", err)
	}

	gotURI, line, col, ok := db.LookupSymbol("Point")
	if !ok {
		t.Fatal("Point not found")
	}
	if gotURI != uri || line != 1 || col != 1 {
		t.Errorf("got %s:%d:%d", gotURI, line, col)
	}

	if _, _, _, ok := db.LookupSymbol("missing"); ok {
		t.Error("missing symbol should not be found")
	}
}

func TestReplaceFileSymbolsIsWholesale(t *testing.T) {
	db := openTestDB(t)

	uri := "file:///project/main.bn"
	if err := db.ReplaceFileSymbols(uri, []Symbol{
		{Name: "old", Kind: "function", URI: uri, Line: 1, Column: 1},
	}); err != nil {
		t.Fatal(err)
	}
	if err := db.ReplaceFileSymbols(uri, []Symbol{
		{Name: "renamed", Kind: "function", URI: uri, Line: 1, Column: 1},
	}); err != nil {
		t.Fatal(err)
	}

	if _, _, _, ok := db.LookupSymbol("old"); ok {
		t.Error("stale symbol survived replacement")
	}
	if _, _, _, ok := db.LookupSymbol("renamed"); !ok {
		t.Error("replacement symbol missing")
	}
}

func TestRecordAndReadScan(t *testing.T) {
	db := openTestDB(t)

	started := time.Now().Add(-time.Second)
	scanID, err := db.RecordScan("/project", 3, 12, started)
	if err != nil {
		t.Fatalf("RecordScan: %v", err)
	}
	if scanID == "" {
		t.Fatal("empty scan id")
	}

	rec, err := db.LastScan()
	if err != nil {
		t.Fatalf("LastScan: %v", err)
	}
	if rec == nil {
		t.Fatal("no scan record")
	}
	if rec.ScanID != scanID || rec.Root != "/project" || rec.FileCount != 3 || rec.SymbolCount != 12 {
		t.Errorf("unexpected record: %+v", rec)
	}
}

func TestLastScanEmpty(t *testing.T) {
	db := openTestDB(t)

	rec, err := db.LastScan()
	if err != nil {
		t.Fatalf("LastScan: %v", err)
	}
	if rec != nil {
		t.Errorf("expected nil record, got %+v", rec)
	}
}

func TestReopenPreservesData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.db")

	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	uri := "file:///project/a.bn"
	if err := db.ReplaceFileSymbols(uri, []Symbol{
		{Name: "keep", Kind: "variable", URI: uri, Line: 2, Column: 1},
	}); err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	db2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db2.Close()

	if _, _, _, ok := db2.LookupSymbol("keep"); !ok {
		t.Error("symbol lost across reopen")
	}
}
