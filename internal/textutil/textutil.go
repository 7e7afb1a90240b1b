// Package textutil converts between the editor's line/character positions
// and byte offsets into document text, and extracts identifier words around
// a cursor. All scanning is line-oriented over the raw text.
package textutil

import (
	"fmt"
	"strings"
)

// PositionToOffset converts a 0-based line/character pair into a byte
// offset. The character component is clamped to the line length.
func PositionToOffset(text string, line, character int) (int, error) {
	lines := strings.Split(text, "\n")
	if line < 0 || line >= len(lines) {
		return 0, fmt.Errorf("line %d out of range (document has %d lines)", line, len(lines))
	}

	offset := 0
	for i := 0; i < line; i++ {
		offset += len(lines[i]) + 1
	}

	column := character
	if column > len(lines[line]) {
		column = len(lines[line])
	}
	if column < 0 {
		column = 0
	}
	return offset + column, nil
}

// OffsetToPosition converts a byte offset back into a 0-based
// line/character pair.
func OffsetToPosition(text string, offset int) (line, character int, err error) {
	if offset < 0 || offset > len(text) {
		return 0, 0, fmt.Errorf("offset %d out of range (document has %d bytes)", offset, len(text))
	}

	for i := 0; i < offset; i++ {
		if text[i] == '\n' {
			line++
			character = 0
		} else {
			character++
		}
	}
	return line, character, nil
}

// WordAt returns the start and end offsets of the identifier word touching
// the given offset: the longest run of alphanumeric or underscore bytes.
// ok is false when the offset is past the end of the text or no word
// touches it.
func WordAt(text string, offset int) (start, end int, ok bool) {
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
