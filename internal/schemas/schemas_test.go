package schemas

import "testing"

func TestCompileBurnlsSchema(t *testing.T) {
	schema, err := Compile(Burnls)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if schema == nil {
		t.Fatal("nil schema")
	}
}

func TestCompileUnknownSchema(t *testing.T) {
	if _, err := Compile("nonexistent"); err == nil {
		t.Error("expected error for unregistered schema")
	}
}

func TestSchemaValidation(t *testing.T) {
	schema, err := Compile(Burnls)
	if err != nil {
		t.Fatal(err)
	}

	valid := map[string]any{
		"sourceExtensions": []any{".bn"},
		"index":            map[string]any{"enabled": true},
	}
	if err := schema.Validate(valid); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	invalid := map[string]any{
		"sourceExtensions": []any{"bn"},
	}
	if err := schema.Validate(invalid); err == nil {
		t.Error("extension without leading dot should be rejected")
	}
}
