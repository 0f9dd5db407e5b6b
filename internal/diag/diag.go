package diag

import "fmt"

// FileLocation is a zero-based (line, column) position in source text.
type FileLocation struct {
	Line   int
	Column int
}

func (l FileLocation) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// Before reports strict document order.
func (l FileLocation) Before(o FileLocation) bool {
	if l.Line != o.Line {
		return l.Line < o.Line
	}
	return l.Column < o.Column
}

// Span is a [Start, End) range of source text. End points one column past
// the final rune.
type Span struct {
	Start FileLocation
	End   FileLocation
}

func (s Span) String() string {
	return s.Start.String() + "-" + s.End.String()
}

// Contains reports whether pos falls within the span. The check is
// inclusive at both ends so a cursor sitting just after the final rune
// still matches.
func (s Span) Contains(pos FileLocation) bool {
	return !pos.Before(s.Start) && !s.End.Before(pos)
}

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Diagnostic is one reported problem and the source range it refers to.
type Diagnostic struct {
	Start    FileLocation
	End      FileLocation
	Severity Severity
	Message  string
}

// Reporter receives the messages and diagnostics produced by the pipeline
// stages. Entry operations never fail any other way: all lexical, syntax,
// resolution, and runtime problems arrive here.
type Reporter interface {
	AddDiagnostic(start, end FileLocation, message string)
	AddMessage(message string)
	HasDiagnostics() bool
}

// Sink is the collecting Reporter used by the entry operations and tests.
type Sink struct {
	Diagnostics []Diagnostic
	Messages    []string
}

func NewSink() *Sink {
	return &Sink{}
}

func (s *Sink) AddDiagnostic(start, end FileLocation, message string) {
	s.Diagnostics = append(s.Diagnostics, Diagnostic{
		Start:    start,
		End:      end,
		Severity: SeverityError,
		Message:  message,
	})
}

func (s *Sink) AddMessage(message string) {
	s.Messages = append(s.Messages, message)
}

func (s *Sink) HasDiagnostics() bool {
	return len(s.Diagnostics) > 0
}

// HasMessage reports whether an exactly matching message was recorded.
func (s *Sink) HasMessage(message string) bool {
	for _, m := range s.Messages {
		if m == message {
			return true
		}
	}
	return false
}

// HasDiagnostic reports whether a diagnostic with the same range and
// message was recorded.
func (s *Sink) HasDiagnostic(start, end FileLocation, message string) bool {
	for _, d := range s.Diagnostics {
		if d.Start == start && d.End == end && d.Message == message {
			return true
		}
	}
	return false
}

func (s *Sink) Reset() {
	s.Diagnostics = s.Diagnostics[:0]
	s.Messages = s.Messages[:0]
}

// WithOffset wraps r so diagnostics produced for an excerpt are reported
// in the coordinates of the surrounding document. Lines shift by the
// excerpt's start line; columns shift only for positions on the excerpt's
// first line.
func WithOffset(r Reporter, offset FileLocation) Reporter {
	return &offsetReporter{inner: r, offset: offset}
}

type offsetReporter struct {
	inner  Reporter
	offset FileLocation
}

func (o *offsetReporter) AddDiagnostic(start, end FileLocation, message string) {
	o.inner.AddDiagnostic(o.bias(start), o.bias(end), message)
}

func (o *offsetReporter) AddMessage(message string) {
	o.inner.AddMessage(message)
}

func (o *offsetReporter) HasDiagnostics() bool {
	return o.inner.HasDiagnostics()
}

func (o *offsetReporter) bias(pos FileLocation) FileLocation {
	biased := FileLocation{Line: pos.Line + o.offset.Line, Column: pos.Column}
	if pos.Line == 0 {
		biased.Column += o.offset.Column
	}
	return biased
}
