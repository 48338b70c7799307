// Package diag implements the folder's append-only diagnostics channel.
//
// It is grounded on the accumulation idiom of the teacher's symbol resolver
// (symbol.TypeResolver collecting a []error across a tree walk), generalized
// to carry a severity per message and to reduce the accumulated errors with
// go.uber.org/multierr rather than returning a bare slice.
package diag

import (
	"fmt"

	"go.uber.org/multierr"
)

// Severity classifies a diagnostic. Err diagnostics indicate the folder
// gave up and returned the operation unfolded; Warning diagnostics (called
// "en" - enabled warning - in the specification, e.g. integer overflow)
// accompany a still-produced Constant result; Info is purely informational
// (e.g. 0**0).
type Severity int

const (
	Warning Severity = iota
	Err
	Info
)

func (s Severity) String() string {
	switch s {
	case Err:
		return "error"
	case Info:
		return "info"
	default:
		return "warning"
	}
}

// Message is one recorded diagnostic.
type Message struct {
	Severity Severity
	Text     string
}

func (m Message) Error() string { return m.Text }

// Messages is an append-only diagnostics sink. The zero value is ready to
// use.
type Messages struct {
	items []Message
}

// Say appends a formatted diagnostic at the given severity. Format strings
// are plain fmt verbs passed to fmt.Sprintf, which handles the
// specification's %d/%s placeholders natively; %jd is not a fmt verb, so
// callers use %d in its place.
func (m *Messages) Say(sev Severity, format string, args ...any) {
	m.items = append(m.items, Message{Severity: sev, Text: fmt.Sprintf(format, args...)})
}

// Items returns every recorded diagnostic in discovery order.
func (m *Messages) Items() []Message {
	return m.items
}

// HasErrors reports whether any Err-severity diagnostic was recorded.
func (m *Messages) HasErrors() bool {
	for _, it := range m.items {
		if it.Severity == Err {
			return true
		}
	}
	return false
}

// Err reduces every Err-severity diagnostic into a single multierr error,
// or nil if there were none.
func (m *Messages) Err() error {
	var err error
	for _, it := range m.items {
		if it.Severity == Err {
			err = multierr.Append(err, it)
		}
	}
	return err
}

// Reset discards every recorded diagnostic.
func (m *Messages) Reset() { m.items = m.items[:0] }
