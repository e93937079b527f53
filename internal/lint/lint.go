package lint

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/thomas-vilte/commithelper/internal/config"
	"github.com/thomas-vilte/commithelper/internal/errors"
	"github.com/thomas-vilte/commithelper/internal/message"
	"github.com/thomas-vilte/commithelper/internal/models"
)

// Rule checks one aspect of a message. In fix mode a rule may return a
// corrected copy instead of failing.
type Rule struct {
	Name  string
	Check func(msg models.Message, cfg *config.Config, fix bool) (models.Message, error)
}

// Rules are applied in order; the first failure stops the check.
var Rules = []Rule{
	{Name: "type-enum", Check: checkType},
	{Name: "scope-required", Check: checkScopeRequired},
	{Name: "scope-enum", Check: checkScopeAllowed},
	{Name: "subject-case", Check: checkSubjectCase},
	{Name: "body-max-line-length", Check: checkBody},
	{Name: "breaking", Check: checkBreaking},
	{Name: "issues", Check: checkIssues},
}

// Validate runs every rule against msg. Without fix it returns "" when the
// message passes. With fix it returns the rendering of the corrected message.
func Validate(msg models.Message, cfg *config.Config, fix bool) (string, error) {
	for _, rule := range Rules {
		var err error
		msg, err = rule.Check(msg, cfg, fix)
		if err != nil {
			return "", err
		}
	}
	if !fix {
		return "", nil
	}
	return message.Render(msg, cfg), nil
}

func checkType(msg models.Message, cfg *config.Config, _ bool) (models.Message, error) {
	if cfg.HasType(msg.Type) {
		return msg, nil
	}
	allowed := cfg.TypeNames()
	return msg, errors.ErrUnknownType.
		WithDetail("'%s', allowed: %s", msg.Type, strings.Join(allowed, ", ")).
		WithContext("allowed", allowed)
}

func checkScopeRequired(msg models.Message, cfg *config.Config, _ bool) (models.Message, error) {
	allowed := cfg.ResolveScopes(msg.Type)
	if len(allowed) == 0 || msg.HasScope() {
		return msg, nil
	}
	return msg, errors.ErrMissingScope.
		WithDetail("type '%s' requires one of: %s", msg.Type, strings.Join(allowed, ", ")).
		WithContext("allowed", allowed)
}

func checkScopeAllowed(msg models.Message, cfg *config.Config, _ bool) (models.Message, error) {
	if !msg.HasScope() || cfg.AllowCustomScopes {
		return msg, nil
	}
	// No configured scopes means no scope policy.
	allowed := cfg.ResolveScopes(msg.Type)
	if len(allowed) == 0 {
		return msg, nil
	}
	for _, scope := range allowed {
		if scope == msg.Scope {
			return msg, nil
		}
	}
	return msg, errors.ErrInvalidScope.
		WithDetail("'%s', allowed: %s", msg.Scope, strings.Join(allowed, ", ")).
		WithContext("allowed", allowed)
}

func checkSubjectCase(msg models.Message, cfg *config.Config, fix bool) (models.Message, error) {
	first, size := utf8.DecodeRuneInString(msg.Subject)
	if size == 0 {
		return msg, nil
	}

	want := unicode.ToLower(first)
	policy := "lower"
	if cfg.UpperCase {
		want = unicode.ToUpper(first)
		policy = "upper"
	}
	if first == want {
		return msg, nil
	}

	if fix {
		msg.Subject = string(want) + msg.Subject[size:]
		return msg, nil
	}
	return msg, errors.ErrSubjectCasing.
		WithDetail("'%s' must start with a %s case letter", msg.Subject, policy)
}

func checkBody(msg models.Message, cfg *config.Config, fix bool) (models.Message, error) {
	if fix || !msg.HasBody() {
		return msg, nil
	}
	return msg, checkLines("body", msg.Body, cfg.BodyWrap)
}

func checkBreaking(msg models.Message, cfg *config.Config, fix bool) (models.Message, error) {
	if !msg.IsBreaking() {
		return msg, nil
	}
	if !cfg.AllowsBreaking(msg.Type) {
		return msg, errors.ErrBreakingNotAllowed.
			WithDetail("'%s', allowed: %s", msg.Type, strings.Join(cfg.AllowBreakingChanges, ", ")).
			WithContext("allowed", cfg.AllowBreakingChanges)
	}
	if fix {
		return msg, nil
	}
	return msg, checkLines("breaking change", msg.Breaking, cfg.BodyWrap)
}

func checkIssues(msg models.Message, cfg *config.Config, _ bool) (models.Message, error) {
	if !msg.HasIssues() {
		return msg, nil
	}
	return msg, CheckTickets(msg.IssuesClosed, cfg)
}

// CheckTickets verifies that every reference in issues is the ticket number
// prefix followed by decimal digits.
func CheckTickets(issues string, cfg *config.Config) error {
	for _, ticket := range message.SplitTickets(issues, cfg) {
		number, ok := strings.CutPrefix(ticket, cfg.TicketNumberPrefix)
		if !ok || !isDigits(number) {
			return errors.ErrMalformedTicket.
				WithDetail("'%s', expected %s<number>", ticket, cfg.TicketNumberPrefix)
		}
	}
	return nil
}

func checkLines(section, text string, limit int) error {
	for i, line := range strings.Split(text, "\n") {
		if length := utf8.RuneCountInString(line); length > limit {
			return errors.ErrLineTooLong.
				WithDetail("%s line %d has %d characters, limit %d: '%s'", section, i+1, length, limit, line)
		}
	}
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
