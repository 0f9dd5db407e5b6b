package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"lox"
	"lox/internal/diag"
)

const PROMPT = "> "

// Console is the reporter behind the CLI: messages and diagnostics
// print as they arrive instead of being collected, in the forms
// "Message: <text>" and "Diagnostic: [<line>:<col> <line>:<col>] <text>".
// Diagnostics are retained so the caller can inspect them afterwards.
type Console struct {
	Out         io.Writer
	Diagnostics []diag.Diagnostic
}

func (c *Console) AddDiagnostic(start, end diag.FileLocation, message string) {
	c.Diagnostics = append(c.Diagnostics, diag.Diagnostic{
		Start:    start,
		End:      end,
		Severity: diag.SeverityError,
		Message:  message,
	})
	fmt.Fprintf(c.Out, "Diagnostic: [%d:%d %d:%d] %s\n",
		start.Line, start.Column, end.Line, end.Column, message)
}

func (c *Console) AddMessage(message string) {
	fmt.Fprintf(c.Out, "Message: %s\n", message)
}

func (c *Console) HasDiagnostics() bool {
	return len(c.Diagnostics) > 0
}

func (c *Console) Reset() {
	c.Diagnostics = c.Diagnostics[:0]
}

// Start runs the interactive prompt. Every line is executed as a
// complete program in a fresh environment; a blank line or the end of
// input finishes the session.
func Start(in io.Reader, out io.Writer) {
	console := &Console{Out: out}
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, PROMPT)
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			break
		}

		console.Reset()
		lox.Run(console, line)
	}
	fmt.Fprintln(out, "done")
}
