// Package hover resolves hover queries against document text and the type
// table. It is a read-only consumer: it never mutates analyzer or checker
// state.
package hover

import (
	"fmt"
	"strings"

	"github.com/burn-lang/burnls/internal/checker"
)

// Result is a resolved hover: markdown content plus, when HasRange is set,
// the byte span of the token the content describes.
type Result struct {
	Markup      string
	StartOffset int
	EndOffset   int
	HasRange    bool
}

// Resolve answers a hover at the given byte offset. The dot-access probe
// runs first: a cursor sitting on the property of an `object.property`
// pattern resolves the object's type and then the member's signature.
// Otherwise the word under the cursor is tried against declared names, the
// keyword glossary, and the built-in function glossary, in that order.
func Resolve(c *checker.Checker, uri, text string, offset int) *Result {
	if offset > len(text) {
		offset = len(text)
	}

	if objectName, propertyName, ok := dotAccessAt(text, offset); ok {
		if objectType, found := c.TypeOf(uri, objectName); found {
			if info, found := c.MemberType(objectType, propertyName); found {
				return &Result{
					Markup: fmt.Sprintf("**%s**: %s", propertyName, info),
				}
			}
		}
	}

	start, end, ok := wordRangeAt(text, offset)
	if !ok {
		return nil
	}
	word := text[start:end]

	if varType, found := c.TypeOf(uri, word); found {
		return &Result{
			Markup:      fmt.Sprintf("**%s**: %s", word, varType),
			StartOffset: start,
			EndOffset:   end,
			HasRange:    true,
		}
	}

	if info, found := keywordGlossary[word]; found {
		return &Result{
			Markup:      fmt.Sprintf("**%s**: %s", word, info),
			StartOffset: start,
			EndOffset:   end,
			HasRange:    true,
		}
	}

	if info, found := builtinGlossary[word]; found {
		return &Result{
			Markup:      info,
			StartOffset: start,
			EndOffset:   end,
			HasRange:    true,
		}
	}

	return nil
}

// dotAccessAt reports the object and property around an `object.property`
// pattern at the cursor. The object is the identifier run ending at the
// nearest dot before the cursor; the property extends forward from the dot
// to the first non-identifier character at or after the cursor.
func dotAccessAt(text string, offset int) (objectName, propertyName string, ok bool) {
	before := text[:offset]

	dotIdx := strings.LastIndexByte(before, '.')
	if dotIdx < 0 {
		return "", "", false
	}

	objectStart := 0
	for i := dotIdx - 1; i >= 0; i-- {
		if !isWordByte(before[i]) {
			objectStart = i + 1
			break
		}
	}
	objectName = strings.TrimSpace(before[objectStart:dotIdx])

	afterDot := dotIdx + 1
	propertyEnd := len(text)
	for i := offset; i < len(text); i++ {
		if !isWordByte(text[i]) {
			propertyEnd = afterDot + (i - offset)
			break
		}
	}
	if propertyEnd > len(text) {
		propertyEnd = len(text)
	}
	if propertyEnd < afterDot {
		return "", "", false
	}
	propertyName = strings.TrimSpace(text[afterDot:propertyEnd])

	if objectName == "" || propertyName == "" {
		return "", "", false
	}
	return objectName, propertyName, true
}

func wordRangeAt(text string, offset int) (start, end int, ok bool) {
	if offset >= len(text) {
		return 0, 0, false
	}

	start = 0
	for i := offset - 1; i >= 0; i-- {
		if !isWordByte(text[i]) {
			start = i + 1
			break
		}
	}

	end = len(text)
	for i := offset; i < len(text); i++ {
		if !isWordByte(text[i]) {
			end = i
			break
		}
	}

	if end <= start {
		return 0, 0, false
	}
	return start, end, true
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

var keywordGlossary = map[string]string{
	"fn":     "Function declaration keyword",
	"return": "Return statement keyword",
	"if":     "Conditional statement keyword",
	"else":   "Conditional statement keyword",
	"while":  "Loop keyword",
	"for":    "Loop keyword",
	"in":     "Loop/iterator keyword",
	"var":    "Variable declaration keyword",
	"const":  "Constant declaration keyword",
	"let":    "Block scoped variable declaration keyword",
	"import": "Module import keyword",
	"struct": "Structure definition keyword",
	"type":   "Type alias declaration keyword",
	"true":   "Boolean literal",
	"false":  "Boolean literal",
	"null":   "Null literal",
	"class":  "Class definition keyword",
}

var builtinGlossary = map[string]string{
	"print":      "```burn\nfn print(value: any) -> void\n```\n\nPrints a value to the console.",
	"println":    "```burn\nfn println(value: any) -> void\n```\n\nPrints a value to the console with a newline.",
	"len":        "```burn\nfn len(collection: any) -> number\n```\n\nReturns the length of an array, string, or collection.",
	"typeof":     "```burn\nfn typeof(value: any) -> string\n```\n\nReturns the type of a value as a string.",
	"parseInt":   "```burn\nfn parseInt(str: string) -> number\n```\n\nParses a string into an integer number.",
	"parseFloat": "```burn\nfn parseFloat(str: string) -> number\n```\n\nParses a string into a floating-point number.",
}
