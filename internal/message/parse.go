package message

import (
	"slices"
	"strings"

	"github.com/thomas-vilte/commithelper/internal/config"
	"github.com/thomas-vilte/commithelper/internal/errors"
	"github.com/thomas-vilte/commithelper/internal/models"
)

const (
	commentPrefix = "#"
	// scissors is the line git places above the diff of a verbose commit;
	// nothing below it belongs to the message.
	scissors = "# ------------------------ >8 ------------------------"
)

type lineKind int

const (
	kindText lineKind = iota
	kindComment
	kindTicket
	kindBreaking
)

type marker struct {
	prefix string
	kind   lineKind
}

// Parse reads a commit message back into its fields. The first non-empty,
// non-comment line must be a header; the remaining lines are classified by
// their leading marker.
func Parse(text string, cfg *config.Config) (models.Message, error) {
	lines := messageLines(text, cfg)
	if len(lines) == 0 {
		return models.Message{}, errors.ErrEmptyMessage
	}

	typ, scope, subject, ok := scanHeader(lines[0], cfg)
	if !ok {
		return models.Message{}, errors.ErrInvalidHeader.
			WithDetail("expected '%s' or '%s', got '%s'", headerShape(cfg, false), headerShape(cfg, true), lines[0])
	}

	var (
		body, breaking []string
		issues         []string
		inBreaking     bool
	)
	markers := lineMarkers(cfg)
	for _, line := range lines[1:] {
		kind, rest := classify(line, markers)
		switch kind {
		case kindComment:
			continue
		case kindTicket:
			issues = append(issues, SplitTickets(rest, cfg)...)
		case kindBreaking:
			inBreaking = true
			if rest = strings.TrimSpace(rest); rest != "" {
				breaking = append(breaking, rest)
			}
		default:
			if inBreaking {
				breaking = append(breaking, line)
			} else {
				body = append(body, line)
			}
		}
	}

	return models.Message{
		Type:         typ,
		Scope:        scope,
		Subject:      subject,
		Body:         strings.TrimSpace(strings.Join(body, "\n")),
		Breaking:     strings.TrimSpace(strings.Join(breaking, "\n")),
		IssuesClosed: JoinTickets(issues, cfg),
	}, nil
}

// messageLines splits text into its non-empty lines, dropping the comment
// block git may place before the header and everything below the scissors line.
func messageLines(text string, cfg *config.Config) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == scissors {
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if len(lines) == 0 && isLeadingComment(line, cfg) {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func isLeadingComment(line string, cfg *config.Config) bool {
	if !strings.HasPrefix(line, commentPrefix) {
		return false
	}
	return cfg.TypePrefix == "" || !strings.HasPrefix(line, cfg.TypePrefix)
}

// headerSeparator ends the type/scope part of the header. It is fixed and
// does not follow the subjectSeparator setting.
const headerSeparator = ": "

// scanHeader matches
//
//	TypePrefix TYPE TypeSuffix [ "(" SCOPE ")" ] ": " SUBJECT
//
// with every configured string taken literally. TYPE and SCOPE are non-empty
// and contain no parentheses; TYPE ends at the first parenthesis or the first
// suffix+separator, whichever comes first.
func scanHeader(line string, cfg *config.Config) (typ, scope, subject string, ok bool) {
	rest, ok := strings.CutPrefix(line, cfg.TypePrefix)
	if !ok {
		return "", "", "", false
	}

	sep := headerSeparator
	paren := strings.IndexAny(rest, "()")
	plain := strings.Index(rest, cfg.TypeSuffix+sep)

	if paren >= 0 && (plain < 0 || paren < plain) {
		if rest[paren] != '(' {
			return "", "", "", false
		}
		typ, ok = strings.CutSuffix(rest[:paren], cfg.TypeSuffix)
		if !ok || typ == "" {
			return "", "", "", false
		}

		inner := rest[paren+1:]
		end := strings.IndexAny(inner, "()")
		if end <= 0 || inner[end] != ')' {
			return "", "", "", false
		}
		scope = inner[:end]

		subject, ok = strings.CutPrefix(inner[end+1:], sep)
		if !ok {
			return "", "", "", false
		}
		return typ, scope, subject, true
	}

	if plain <= 0 {
		return "", "", "", false
	}
	return rest[:plain], "", rest[plain+len(cfg.TypeSuffix)+len(sep):], true
}

func headerShape(cfg *config.Config, scoped bool) string {
	scope := ""
	if scoped {
		scope = "(<scope>)"
	}
	return cfg.TypePrefix + "<type>" + cfg.TypeSuffix + scope + headerSeparator + "<subject>"
}

// lineMarkers orders the line markers longest first so a marker that is a
// prefix of another never shadows it.
func lineMarkers(cfg *config.Config) []marker {
	markers := []marker{
		{prefix: commentPrefix, kind: kindComment},
		{prefix: cfg.TicketPrefix, kind: kindTicket},
		{prefix: cfg.BreakingPrefix, kind: kindBreaking},
	}
	markers = slices.DeleteFunc(markers, func(m marker) bool { return m.prefix == "" })
	slices.SortStableFunc(markers, func(a, b marker) int {
		return len(b.prefix) - len(a.prefix)
	})
	return markers
}

func classify(line string, markers []marker) (lineKind, string) {
	for _, m := range markers {
		if rest, ok := strings.CutPrefix(line, m.prefix); ok {
			return m.kind, rest
		}
	}
	return kindText, line
}
