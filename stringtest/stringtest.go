// Package stringtest builds multi-line strings for table-driven tests.
package stringtest

import "strings"

// Input dedents a raw string literal so test inputs can be indented along
// with the surrounding code.
//
// One leading and one trailing newline are dropped, the longest indent shared
// by all non-blank lines is removed, and whitespace-only lines become empty.
//
// Example:
//
//	in := stringtest.Input(`
//	    [
//	      {$limit: 1}
//	    ]`) // -> "[\n  {$limit: 1}\n]"
func Input(s string) string {
	s = strings.TrimPrefix(s, "\n")
	s = strings.TrimSuffix(s, "\n")

	lines := strings.Split(s, "\n")
	indent := -1

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}

	for i, line := range lines {
		switch {
		case strings.TrimSpace(line) == "":
			lines[i] = ""
		case indent > 0:
			lines[i] = line[indent:]
		}
	}

	return strings.Join(lines, "\n")
}

// JoinLF joins lines with LF line endings.
//
// Example:
//
//	want := stringtest.JoinLF(
//		"{",
//		"  age: -1",
//		"}",
//	) // -> "{\n  age: -1\n}"
func JoinLF(ss ...string) string {
	return strings.Join(ss, "\n")
}

// JoinCRLF joins lines with CRLF line endings, for inputs written on Windows.
func JoinCRLF(ss ...string) string {
	return strings.Join(ss, "\r\n")
}
