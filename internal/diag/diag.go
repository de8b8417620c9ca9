// Package diag formats conversion diagnostics with source context: a
// file:line:column header, the offending source line, and a caret pointing
// at the column, in the style of a compiler error message.
package diag

import (
	"fmt"
	"strings"

	"github.com/martinbrook/bp2bst/internal/lexer"
)

// SourceError pairs a diagnostic message with the position and source text
// it refers to.
type SourceError struct {
	Message string
	Source  string
	File    string
	Pos     lexer.Position
}

// New creates a SourceError.
func New(pos lexer.Position, message, source, file string) *SourceError {
	return &SourceError{Pos: pos, Message: message, Source: source, File: file}
}

func (e *SourceError) Error() string {
	return e.Format()
}

// Format renders the error with a header, the source line at e.Pos.Line,
// and a caret under e.Pos.Column.
func (e *SourceError) Format() string {
	var sb strings.Builder

	if e.File != "" {
		sb.WriteString(fmt.Sprintf("error in %s:%d:%d\n", e.File, e.Pos.Line, e.Pos.Column))
	} else {
		sb.WriteString(fmt.Sprintf("error at line %d:%d\n", e.Pos.Line, e.Pos.Column))
	}

	if line := e.sourceLine(e.Pos.Line); line != "" {
		gutter := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(gutter)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(gutter)+e.Pos.Column-1))
		sb.WriteString("^\n")
	}

	sb.WriteString(e.Message)
	return sb.String()
}

// sourceLine extracts a 1-indexed line from e.Source, or "" if out of range.
func (e *SourceError) sourceLine(lineNum int) string {
	if e.Source == "" {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// FormatAll renders a batch of diagnostics, numbering them when there is
// more than one.
func FormatAll(errs []*SourceError) string {
	messages := make([]string, len(errs))
	for i, e := range errs {
		messages[i] = e.Format()
	}
	return FormatMessages(messages)
}

// FormatMessages batches already-rendered diagnostic messages under the same
// numbered header FormatAll uses, for callers that only have the flattened
// strings a ConversionResult carries rather than *SourceError values.
func FormatMessages(messages []string) string {
	if len(messages) == 0 {
		return ""
	}
	if len(messages) == 1 {
		return messages[0]
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("conversion failed with %d error(s):\n\n", len(messages)))
	for i, m := range messages {
		sb.WriteString(fmt.Sprintf("[%d/%d] ", i+1, len(messages)))
		sb.WriteString(m)
		if i < len(messages)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}
