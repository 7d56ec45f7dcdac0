package reply

import (
	"fmt"
	"strings"
)

const (
	DefaultFormat      = "了解。「%s」。こちらはデモの応答です。"
	DefaultPlaceholder = "……"
)

// Source turns a submitted line into the complete reply. Implementations
// return the whole string at once and must not fail.
type Source interface {
	Reply(input string) string
}

// Func adapts a plain function to Source.
type Func func(input string) string

func (f Func) Reply(input string) string { return f(input) }

// Echo answers with a templated echo of the trimmed input.
type Echo struct {
	Format      string // must contain one %s
	Placeholder string // used for blank input
}

// NewEcho fills empty fields with the defaults.
func NewEcho(format, placeholder string) Echo {
	if format == "" {
		format = DefaultFormat
	}
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	return Echo{Format: format, Placeholder: placeholder}
}

func (e Echo) Reply(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return e.Placeholder
	}
	return fmt.Sprintf(e.Format, trimmed)
}
