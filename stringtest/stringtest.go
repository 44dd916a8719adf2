// Package stringtest builds readable multi-line fixtures for tests.
package stringtest

import "strings"

// Input dedents a raw string literal so fixtures can be indented with the
// surrounding test code.
//
// One leading newline and one trailing whitespace-only line are removed.
// The indentation shared by all non-blank lines is stripped, and
// whitespace-only lines become empty.
//
// Example:
//
//	doc := stringtest.Input(`
//		interview:
//		  comments: []
//	`) // -> "interview:\n  comments: []"
func Input(s string) string {
	lines := strings.Split(s, "\n")

	if lines[0] == "" {
		lines = lines[1:]
	}

	if n := len(lines); n > 0 && strings.TrimSpace(lines[n-1]) == "" {
		lines = lines[:n-1]
	}

	indent := -1

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""

			continue
		}

		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}

	for i, line := range lines {
		if line != "" {
			lines[i] = line[indent:]
		}
	}

	return strings.Join(lines, "\n")
}

// JoinLF joins multiple strings with LF line endings.
// Use this to construct expected test output with explicit line endings.
//
// Example:
//
//	want := stringtest.JoinLF(
//		"line1",
//		"line2",
//		"line3",
//	) // -> "line1\nline2\nline3"
func JoinLF(ss ...string) string {
	return strings.Join(ss, "\n")
}
