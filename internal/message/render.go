package message

import (
	"strings"
	"unicode/utf8"

	"github.com/thomas-vilte/commithelper/internal/config"
	"github.com/thomas-vilte/commithelper/internal/models"
)

// Render produces the canonical text of msg: header, then the body, issues
// and breaking sections when present.
func Render(msg models.Message, cfg *config.Config) string {
	var b strings.Builder
	b.WriteString(Header(msg, cfg))

	if msg.HasBody() {
		b.WriteString("\n\n")
		b.WriteString(Wrap(msg.Body, cfg.BodyWrap))
	}

	issues := SplitTickets(msg.IssuesClosed, cfg)
	if len(issues) > 0 {
		b.WriteString("\n\n")
		b.WriteString(renderIssues(issues, cfg))
	}

	if msg.IsBreaking() {
		if len(issues) > 0 {
			b.WriteString("\n")
		} else {
			b.WriteString("\n\n")
		}
		b.WriteString(cfg.BreakingPrefix)
		b.WriteString("\n")
		b.WriteString(Wrap(msg.Breaking, cfg.BodyWrap))
	}

	return b.String()
}

// Header renders the first line of the message.
func Header(msg models.Message, cfg *config.Config) string {
	var b strings.Builder
	b.WriteString(cfg.TypePrefix)
	b.WriteString(msg.Type)
	b.WriteString(cfg.TypeSuffix)
	if msg.HasScope() {
		b.WriteString("(")
		b.WriteString(msg.Scope)
		b.WriteString(")")
	}
	b.WriteString(headerSeparator)
	b.WriteString(msg.Subject)
	return b.String()
}

// Wrap greedily packs the whitespace separated words of text into lines of
// at most width runes. A word longer than width is kept whole on its own line.
// A word starting with the comment prefix never opens a line after the first:
// the words before it are carried down with it, or it overflows the line when
// nothing can be carried.
func Wrap(text string, width int) string {
	var (
		lines   [][]string
		current []string
	)
	for _, word := range strings.Fields(text) {
		switch {
		case len(current) == 0:
		case lineWidth(current)+1+utf8.RuneCountInString(word) <= width:
		case strings.HasPrefix(word, commentPrefix):
			if cut := carryFrom(current); cut > 0 {
				lines = append(lines, current[:cut])
				current = append([]string(nil), current[cut:]...)
			}
		default:
			lines = append(lines, current)
			current = nil
		}
		current = append(current, word)
	}
	if len(current) > 0 {
		lines = append(lines, current)
	}

	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = strings.Join(line, " ")
	}
	return strings.Join(out, "\n")
}

// carryFrom returns the index of the last word that may start a line, or 0
// when only the first word can.
func carryFrom(words []string) int {
	for i := len(words) - 1; i > 0; i-- {
		if !strings.HasPrefix(words[i], commentPrefix) {
			return i
		}
	}
	return 0
}

func lineWidth(words []string) int {
	n := len(words) - 1
	for _, word := range words {
		n += utf8.RuneCountInString(word)
	}
	return n
}

func renderIssues(issues []string, cfg *config.Config) string {
	first := cfg.TicketPrefix + " " + issues[0]

	var b strings.Builder
	b.WriteString(first)
	lineLength := utf8.RuneCountInString(first)

	for _, issue := range issues[1:] {
		next := cfg.TicketSeparator + " " + issue
		nextLength := utf8.RuneCountInString(next)
		if lineLength+nextLength > cfg.BodyWrap {
			line := cfg.TicketPrefix + " " + issue
			b.WriteString("\n")
			b.WriteString(line)
			lineLength = utf8.RuneCountInString(line)
			continue
		}
		b.WriteString(next)
		lineLength += nextLength
	}
	return b.String()
}
