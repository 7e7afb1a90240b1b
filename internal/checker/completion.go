package checker

// CompletionKind classifies a completion candidate. The transport maps
// these onto its own wire-level kinds.
type CompletionKind int

const (
	CompletionKeyword CompletionKind = iota
	CompletionClass
	CompletionFunction
	CompletionVariable
	CompletionProperty
	CompletionMethod
)

// CompletionItem is a single completion candidate.
type CompletionItem struct {
	Label  string
	Kind   CompletionKind
	Detail string
}

// Completions returns candidates for the cursor at the given byte offset.
// When the character immediately before the cursor is a dot, the preceding
// identifier is resolved through the type table and that type's fixed
// member list is returned (a small default list when the type is unknown).
// Otherwise the result is the keyword, type-name, and built-in function
// lists plus every name in the document's environment.
func (c *Checker) Completions(uri, text string, offset int) []CompletionItem {
	if offset > len(text) {
		offset = len(text)
	}

	if offset > 0 && text[offset-1] == '.' {
		objectEnd := offset - 1
		objectStart := 0
		for i := objectEnd - 1; i >= 0; i-- {
			b := text[i]
			if !(b == '_' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9') {
				objectStart = i + 1
				break
			}
		}
		objectName := text[objectStart:objectEnd]

		if objectType, ok := c.TypeOf(uri, objectName); ok {
			var items []CompletionItem
			switch objectType {
			case "String":
				items = append(items, stringMembers...)
			case "Array":
				items = append(items, arrayMembers...)
			case "Date":
				items = append(items, dateMembers...)
			case "Http":
				items = append(items, httpMembers...)
			case "Time":
				items = append(items, timeMembers...)
			}
			return items
		}

		return append([]CompletionItem(nil), defaultMembers...)
	}

	var items []CompletionItem
	for _, kw := range keywordCompletions {
		items = append(items, CompletionItem{Label: kw, Kind: CompletionKeyword})
	}
	for _, typ := range typeCompletions {
		items = append(items, CompletionItem{Label: typ, Kind: CompletionClass})
	}
	items = append(items, builtinFunctionCompletions...)

	for name, typ := range c.Environment(uri) {
		items = append(items, CompletionItem{Label: name, Kind: CompletionVariable, Detail: typ})
	}

	return items
}

var keywordCompletions = []string{
	"fn", "return", "if", "else", "while", "for", "in", "var", "const", "let", "import",
	"struct", "type", "true", "false", "null", "class", "break", "continue", "switch", "case",
	"default",
}

var typeCompletions = []string{
	"String", "Number", "Boolean", "Array", "Object", "Date", "Function", "any", "void",
}

var builtinFunctionCompletions = []CompletionItem{
	{Label: "print", Kind: CompletionFunction, Detail: "fn(any)->void"},
	{Label: "println", Kind: CompletionFunction, Detail: "fn(any)->void"},
	{Label: "len", Kind: CompletionFunction, Detail: "fn(collection)->Number"},
	{Label: "typeof", Kind: CompletionFunction, Detail: "fn(any)->String"},
	{Label: "parseInt", Kind: CompletionFunction, Detail: "fn(String)->Number"},
	{Label: "parseFloat", Kind: CompletionFunction, Detail: "fn(String)->Number"},
}

var stringMembers = []CompletionItem{
	{Label: "length", Kind: CompletionProperty, Detail: "number"},
	{Label: "toUpperCase", Kind: CompletionMethod, Detail: "fn()->String"},
	{Label: "toLowerCase", Kind: CompletionMethod, Detail: "fn()->String"},
	{Label: "substring", Kind: CompletionMethod, Detail: "fn(number, number)->String"},
	{Label: "indexOf", Kind: CompletionMethod, Detail: "fn(String)->number"},
	{Label: "split", Kind: CompletionMethod, Detail: "fn(String)->Array"},
}

var arrayMembers = []CompletionItem{
	{Label: "length", Kind: CompletionProperty, Detail: "number"},
	{Label: "push", Kind: CompletionMethod, Detail: "fn(any)->number"},
	{Label: "pop", Kind: CompletionMethod, Detail: "fn()->any"},
	{Label: "shift", Kind: CompletionMethod, Detail: "fn()->any"},
	{Label: "unshift", Kind: CompletionMethod, Detail: "fn(any)->number"},
	{Label: "join", Kind: CompletionMethod, Detail: "fn(String)->String"},
	{Label: "map", Kind: CompletionMethod, Detail: "fn(fn(any)->any)->Array"},
	{Label: "filter", Kind: CompletionMethod, Detail: "fn(fn(any)->Boolean)->Array"},
}

var dateMembers = []CompletionItem{
	{Label: "getTime", Kind: CompletionMethod, Detail: "fn()->number"},
	{Label: "getDay", Kind: CompletionMethod, Detail: "fn()->number"},
	{Label: "getMonth", Kind: CompletionMethod, Detail: "fn()->number"},
	{Label: "getFullYear", Kind: CompletionMethod, Detail: "fn()->number"},
	{Label: "getHours", Kind: CompletionMethod, Detail: "fn()->number"},
	{Label: "getMinutes", Kind: CompletionMethod, Detail: "fn()->number"},
	{Label: "getSeconds", Kind: CompletionMethod, Detail: "fn()->number"},
}

var httpMembers = []CompletionItem{
	{Label: "get", Kind: CompletionMethod, Detail: "fn(String)->HttpResponse"},
	{Label: "post", Kind: CompletionMethod, Detail: "fn(String, Object)->HttpResponse"},
	{Label: "put", Kind: CompletionMethod, Detail: "fn(String, Object)->HttpResponse"},
	{Label: "delete", Kind: CompletionMethod, Detail: "fn(String)->HttpResponse"},
}

var timeMembers = []CompletionItem{
	{Label: "now", Kind: CompletionMethod, Detail: "fn()->number"},
	{Label: "sleep", Kind: CompletionMethod, Detail: "fn(number)->void"},
}

var defaultMembers = []CompletionItem{
	{Label: "length", Kind: CompletionProperty, Detail: "property"},
	{Label: "name", Kind: CompletionProperty, Detail: "property"},
	{Label: "toString", Kind: CompletionMethod, Detail: "fn()->String"},
	{Label: "valueOf", Kind: CompletionMethod, Detail: "fn()->any"},
}
