package checker

import (
	"testing"

	"github.com/burn-lang/burnls/internal/parser"
)

const docURI = "file:///test/main.bn"

func checkSource(t *testing.T, c *Checker, uri, source string) {
	t.Helper()
	nodes, errs := parser.Parse(source)
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	if errors := c.Check(nodes, uri); len(errors) != 0 {
		t.Fatalf("check must never report errors, got %v", errors)
	}
}

func TestCheckRecordsDeclarations(t *testing.T) {
	c := New()
	checkSource(t, c, docURI, `var name: String = "x"
var loose = 1
fn distance(a: Point, b: Point): Number {
fn run() {
struct Point {
`)

	cases := map[string]string{
		"name":     "String",
		"loose":    "any",
		"distance": "fn(Point, Point)->Number",
		"run":      "fn()->void",
		"Point":    "struct Point",
	}
	for name, want := range cases {
		got, ok := c.TypeOf(docURI, name)
		if !ok {
			t.Errorf("%s not recorded", name)
			continue
		}
		if got != want {
			t.Errorf("TypeOf(%s) = %q, want %q", name, got, want)
		}
	}
}

func TestCheckReplacesEnvironmentWholesale(t *testing.T) {
	c := New()
	checkSource(t, c, docURI, "var old = 1\n")
	checkSource(t, c, docURI, "var fresh = 2\n")

	if _, ok := c.TypeOf(docURI, "old"); ok {
		t.Error("stale entry survived re-check")
	}
	if _, ok := c.TypeOf(docURI, "fresh"); !ok {
		t.Error("fresh entry missing")
	}
}

func TestEnvironmentsAreKeyedByDocument(t *testing.T) {
	c := New()
	checkSource(t, c, "file:///a.bn", "var alpha = 1\n")
	checkSource(t, c, "file:///b.bn", "var beta = 2\n")

	if _, ok := c.TypeOf("file:///a.bn", "beta"); ok {
		t.Error("lookup leaked across documents")
	}
	if _, ok := c.TypeOf("file:///b.bn", "beta"); !ok {
		t.Error("beta missing in its own document")
	}
}

func TestDropRemovesEnvironment(t *testing.T) {
	c := New()
	checkSource(t, c, docURI, "var x = 1\n")
	c.Drop(docURI)

	if _, ok := c.TypeOf(docURI, "x"); ok {
		t.Error("dropped environment still resolves")
	}
}

func TestBuiltinGlobals(t *testing.T) {
	c := New()

	cases := map[string]string{
		"String": "type",
		"Number": "type",
		"Date":   "class",
		"Http":   "namespace",
		"Time":   "namespace",
	}
	for name, want := range cases {
		got, ok := c.TypeOf(docURI, name)
		if !ok {
			t.Errorf("builtin %s not found", name)
			continue
		}
		if got != want {
			t.Errorf("TypeOf(%s) = %q, want %q", name, got, want)
		}
	}
}

func TestMemberTables(t *testing.T) {
	c := New()

	cases := []struct {
		owner  string
		member string
		want   string
	}{
		{"String", "length", "number"},
		{"String", "toUpperCase", "fn()->String"},
		{"String", "substring", "fn(number, number)->String"},
		{"Array", "push", "fn(any)->number"},
		{"Array", "join", "fn(String)->String"},
		{"Date", "getFullYear", "fn()->number"},
		{"Http", "get", "fn(String)->HttpResponse"},
		{"Time", "sleep", "fn(number)->void"},
	}
	for _, tc := range cases {
		got, ok := c.MemberType(tc.owner, tc.member)
		if !ok {
			t.Errorf("MemberType(%s, %s) not found", tc.owner, tc.member)
			continue
		}
		if got != tc.want {
			t.Errorf("MemberType(%s, %s) = %q, want %q", tc.owner, tc.member, got, tc.want)
		}
	}

	if _, ok := c.MemberType("String", "nonsense"); ok {
		t.Error("unknown member should not resolve")
	}
	if _, ok := c.MemberType("Mystery", "length"); ok {
		t.Error("unknown owner should not resolve")
	}
}

func TestStructMembersAreAny(t *testing.T) {
	c := New()

	got, ok := c.MemberType("struct Point", "anything")
	if !ok {
		t.Fatal("struct members always resolve")
	}
	if got != "any" {
		t.Errorf("got %q, want any", got)
	}
}

func TestCompletionsAfterDot(t *testing.T) {
	c := New()
	checkSource(t, c, docURI, `var s: String = "x"
`)

	text := "var s: String = \"x\"\ns."
	items := c.Completions(docURI, text, len(text))

	labels := map[string]CompletionKind{}
	for _, item := range items {
		labels[item.Label] = item.Kind
	}
	if kind, ok := labels["toUpperCase"]; !ok || kind != CompletionMethod {
		t.Error("expected toUpperCase method for String receiver")
	}
	if kind, ok := labels["length"]; !ok || kind != CompletionProperty {
		t.Error("expected length property for String receiver")
	}
	if _, ok := labels["push"]; ok {
		t.Error("Array members should not appear for a String receiver")
	}
}

func TestCompletionsAfterDotUnknownReceiver(t *testing.T) {
	c := New()

	text := "mystery."
	items := c.Completions(docURI, text, len(text))

	labels := map[string]bool{}
	for _, item := range items {
		labels[item.Label] = true
	}
	for _, want := range []string{"length", "name", "toString", "valueOf"} {
		if !labels[want] {
			t.Errorf("default member %s missing", want)
		}
	}
}

func TestGeneralCompletions(t *testing.T) {
	c := New()
	checkSource(t, c, docURI, "var total: Number = 1\n")

	items := c.Completions(docURI, "", 0)

	labels := map[string]CompletionItem{}
	for _, item := range items {
		labels[item.Label] = item
	}
	if item, ok := labels["fn"]; !ok || item.Kind != CompletionKeyword {
		t.Error("expected fn keyword")
	}
	if item, ok := labels["String"]; !ok || item.Kind != CompletionClass {
		t.Error("expected String type name")
	}
	if item, ok := labels["print"]; !ok || item.Kind != CompletionFunction {
		t.Error("expected print builtin")
	}
	if item, ok := labels["total"]; !ok || item.Kind != CompletionVariable || item.Detail != "Number" {
		t.Error("expected declared variable with its type as detail")
	}
}
