package console

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// escape sequences first: ESC itself is also in the control range
var sanitize = regexp.MustCompile(`\x1B\[[0-9;]*[a-zA-Z]|[\x00-\x08\x0B-\x1F\x7F]`)

// Sanitize removes control characters and ANSI escape sequences from model
// output and normalises it to NFC so it is safe to print to a terminal.
func Sanitize(s string) string {
	cleaned := norm.NFC.String(sanitize.ReplaceAllString(s, ""))

	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || unicode.IsPrint(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, cleaned)
}

// Printer writes the demo/chat transcript lines.
type Printer struct {
	w io.Writer
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) User(turn int, text string) {
	fmt.Fprintf(p.w, "\n[Turn %d] User: %s\n", turn, Sanitize(text))
}

func (p *Printer) Bot(turn int, text string) {
	fmt.Fprintf(p.w, "[Turn %d] Bot: %s\n", turn, Sanitize(text))
}

func (p *Printer) Error(err error) {
	fmt.Fprintf(p.w, "Error during invocation: %v\n", err)
}

func (p *Printer) Line(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}
