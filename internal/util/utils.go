package util

import (
	"bytes"
	"fmt"
	"strings"

	"lox/internal/diag"
)

// ContextLines renders the source around a diagnostic span: up to two
// lines of context, the offending line marked in the margin, and a
// caret under the column the span starts at. Line numbers are printed
// one-based. Used for log output; the console prints diagnostics in
// their bare form.
func ContextLines(src string, span diag.Span) string {
	lines := strings.Split(src, "\n")
	errorLine := span.Start.Line
	if errorLine < 0 || errorLine >= len(lines) {
		return ""
	}

	var result bytes.Buffer

	start := errorLine - 2
	if start < 0 {
		start = 0
	}
	for i := start; i < errorLine; i++ {
		result.WriteString(fmt.Sprintf("     %3d | %s\n", i+1, lines[i]))
	}

	content := lines[errorLine]
	margin := fmt.Sprintf("  >  %3d | ", errorLine+1)
	result.WriteString(fmt.Sprintf("%s%s\n", margin, content))

	column := span.Start.Column
	if column > len(content) {
		column = len(content)
	}
	result.WriteString(replaceVisibleWithSpaces(margin + content[:column]))
	result.WriteString("^")

	return result.String()
}

// replaceVisibleWithSpaces replaces all non-tab characters with spaces
// while preserving tabs for correct caret alignment.
func replaceVisibleWithSpaces(s string) string {
	var buf bytes.Buffer
	for _, c := range s {
		if c == '\t' {
			buf.WriteRune('\t')
		} else {
			buf.WriteRune(' ')
		}
	}
	return buf.String()
}
