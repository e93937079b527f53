package prompt

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/thomas-vilte/commithelper/internal/config"
	domainErrors "github.com/thomas-vilte/commithelper/internal/errors"
	"github.com/thomas-vilte/commithelper/internal/lint"
	"github.com/thomas-vilte/commithelper/internal/models"
	"github.com/thomas-vilte/commithelper/internal/ui"
)

// Answer keys. Several steps may write the same key; the last one wins.
const (
	KeyType         = "type"
	KeyScope        = "scope"
	KeySubject      = "subject"
	KeyBody         = "body"
	KeyBreaking     = "breaking"
	KeyIssuesClosed = "issuesClosed"
)

// Answers collects step results by key.
type Answers map[string]string

func (a Answers) Message() models.Message {
	return models.Message{
		Type:         a[KeyType],
		Scope:        a[KeyScope],
		Subject:      a[KeySubject],
		Body:         a[KeyBody],
		Breaking:     a[KeyBreaking],
		IssuesClosed: a[KeyIssuesClosed],
	}
}

// Step is one question of the interactive flow. When is evaluated against
// the answers collected so far; a nil When always asks.
type Step struct {
	ID   string
	Key  string
	When func(answers Answers, cfg *config.Config) bool
	Ask  func(s *Session) (string, error)
}

var Steps = []Step{
	{ID: "type", Key: KeyType, Ask: askType},
	{ID: "scope", Key: KeyScope, When: hasScopeChoices, Ask: askScope},
	{ID: "customScope", Key: KeyScope, When: wantsCustomScope, Ask: askCustomScope},
	{ID: "subject", Key: KeySubject, Ask: askSubject},
	{ID: "body", Key: KeyBody, When: notSkipped(config.QuestionBody), Ask: askBody},
	{ID: "breaking", Key: KeyBreaking, When: notSkipped(config.QuestionBreaking), Ask: askBreaking},
	{ID: "breakingType", Key: KeyType, When: needsBreakingType, Ask: askBreakingType},
	{ID: "breakingBody", Key: KeyBody, When: needsBreakingBody, Ask: askBreakingBody},
	{ID: "issuesClosed", Key: KeyIssuesClosed, When: notSkipped(config.QuestionIssuesClosed), Ask: askIssues},
}

func hasScopeChoices(a Answers, cfg *config.Config) bool {
	return len(cfg.ResolveScopes(a[KeyType])) > 0 || cfg.AllowCustomScopes
}

func wantsCustomScope(a Answers, _ *config.Config) bool {
	return a[KeyScope] == CustomScope
}

func notSkipped(q config.Question) func(Answers, *config.Config) bool {
	return func(_ Answers, cfg *config.Config) bool {
		return !cfg.Skips(q)
	}
}

func needsBreakingType(a Answers, cfg *config.Config) bool {
	return a.Message().IsBreaking() &&
		len(cfg.AllowBreakingChanges) > 0 &&
		!cfg.AllowsBreaking(a[KeyType])
}

func needsBreakingBody(a Answers, cfg *config.Config) bool {
	msg := a.Message()
	return msg.IsBreaking() && cfg.BreakingRequiresBody && !msg.HasBody()
}

func askType(s *Session) (string, error) {
	return s.choose("prompt.type", nil, typeChoices(s.cfg.Types))
}

func askScope(s *Session) (string, error) {
	scopes := s.cfg.ResolveScopes(s.answers[KeyType])
	choices := make([]choice, 0, len(scopes)+1)
	for _, scope := range scopes {
		choices = append(choices, choice{value: scope, label: scope})
	}
	if s.cfg.AllowCustomScopes {
		choices = append(choices, choice{
			value: CustomScope,
			label: ui.Dim.Sprint(s.t.GetMessage("prompt.custom_scope_choice", 0, nil)),
		})
	}
	return s.choose("prompt.scope", nil, choices)
}

func askCustomScope(s *Session) (string, error) {
	for {
		s.ask("prompt.custom_scope", nil)
		input, err := s.readLine()
		if err != nil {
			return "", err
		}
		scope := strings.TrimSpace(input)
		if scope != "" && !strings.ContainsAny(scope, "()") {
			return scope, nil
		}
		s.warn("prompt.custom_scope_invalid", nil)
	}
}

func askSubject(s *Session) (string, error) {
	limit := s.cfg.MaxSubjectLength(s.answers[KeyType], s.answers[KeyScope])
	for {
		s.ask("prompt.subject", map[string]interface{}{"Max": limit})
		input, err := s.readLine()
		if err != nil {
			return "", err
		}

		subject := FilterSubject(input, s.cfg.UpperCase)
		length := utf8.RuneCountInString(subject)
		switch {
		case length == 0:
			s.warn("prompt.subject_required", nil)
		case length > limit:
			_, _ = fmt.Fprintln(s.out, ui.Error.Sprintf("(%d) %s", length, subject))
			s.warn("prompt.subject_too_long", map[string]interface{}{"Max": limit, "Length": length})
		default:
			_, _ = fmt.Fprintln(s.out, ui.Success.Sprintf("(%d) %s", length, subject))
			return subject, nil
		}
	}
}

func askBody(s *Session) (string, error) {
	return s.askOptional("prompt.body", nil)
}

func askBreaking(s *Session) (string, error) {
	return s.askOptional("prompt.breaking", map[string]interface{}{"Prefix": s.cfg.BreakingPrefix})
}

func askBreakingType(s *Session) (string, error) {
	choices := make([]choice, 0, len(s.cfg.AllowBreakingChanges))
	for _, name := range s.cfg.AllowBreakingChanges {
		choices = append(choices, choice{value: name, label: name})
	}
	data := map[string]interface{}{"Types": strings.Join(s.cfg.AllowBreakingChanges, ", ")}
	return s.choose("prompt.breaking_type", data, choices)
}

func askBreakingBody(s *Session) (string, error) {
	for {
		body, err := s.askOptional("prompt.breaking_body", nil)
		if err != nil {
			return "", err
		}
		if body != "" {
			return body, nil
		}
		s.warn("prompt.body_required", nil)
	}
}

func askIssues(s *Session) (string, error) {
	data := map[string]interface{}{
		"Prefix":    s.cfg.TicketPrefix,
		"Number":    s.cfg.TicketNumberPrefix,
		"Separator": s.cfg.TicketSeparator,
	}
	for {
		issues, err := s.askOptional("prompt.issues", data)
		if err != nil {
			return "", err
		}

		err = lint.CheckTickets(issues, s.cfg)
		if err == nil {
			return issues, nil
		}
		var appErr *domainErrors.AppError
		if errors.As(err, &appErr) {
			s.warn("prompt.ticket_invalid", map[string]interface{}{"Detail": appErr.Detail})
			continue
		}
		return "", err
	}
}

func (s *Session) askOptional(messageID string, data map[string]interface{}) (string, error) {
	s.ask(messageID, data)
	input, err := s.readLine()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
