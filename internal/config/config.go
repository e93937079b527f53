package config

import (
	"slices"
	"unicode/utf8"
)

type (
	// Config is the commit policy. It is decoded once per invocation and treated as read-only.
	Config struct {
		SubjectLimit     int    `json:"subjectLimit" validate:"gt=0" jsonschema:"description=Maximum length budget of the header line"`
		SubjectSeparator string `json:"subjectSeparator" jsonschema:"description=Accepted for compatibility; the header always uses ': '"`
		TypePrefix       string `json:"typePrefix" jsonschema:"description=Text placed before the type"`
		TypeSuffix       string `json:"typeSuffix" jsonschema:"description=Text placed after the type"`

		Types             []CommitType        `json:"types" validate:"min=1,dive" jsonschema:"description=Allowed commit types in display order"`
		Scopes            []string            `json:"scopes" jsonschema:"description=Allowed scopes"`
		ScopeOverrides    map[string][]string `json:"scopeOverrides" jsonschema:"description=Per type scope lists replacing scopes"`
		AllowCustomScopes bool                `json:"allowCustomScopes" jsonschema:"description=Accept scopes outside the allowed list"`

		BodyWrap int `json:"bodyWrap" validate:"gt=0" jsonschema:"description=Maximum characters per body line"`

		TicketPrefix       string `json:"ticketPrefix" validate:"required" jsonschema:"description=Marker starting an issues closed line"`
		TicketNumberPrefix string `json:"ticketNumberPrefix" jsonschema:"description=Prefix of every ticket reference"`
		TicketSeparator    string `json:"ticketSeparator" validate:"required" jsonschema:"description=Separator between ticket references"`

		BreakingPrefix       string   `json:"breakingPrefix" validate:"required" jsonschema:"description=Marker starting the breaking change section"`
		BreakingRequiresBody bool     `json:"breakingRequiresBody" jsonschema:"description=Ask for a body when a breaking change is declared"`
		AllowBreakingChanges []string `json:"allowBreakingChanges" jsonschema:"description=Types allowed to declare a breaking change"`

		UpperCase     bool       `json:"upperCase" jsonschema:"description=Subject starts with an upper case letter"`
		SkipQuestions []Question `json:"skipQuestions" validate:"dive,oneof=body breaking issuesClosed" jsonschema:"description=Optional questions skipped by the prompt"`
	}

	CommitType struct {
		Name        string `json:"name" validate:"required,excludesall=()" jsonschema:"description=Type name used in the header"`
		Description string `json:"description" jsonschema:"description=Human readable explanation"`
	}

	// Question names an optional prompt question.
	Question string
)

const (
	QuestionBody         Question = "body"
	QuestionBreaking     Question = "breaking"
	QuestionIssuesClosed Question = "issuesClosed"
)

const (
	defaultSubjectLimit   = 100
	defaultBodyWrap       = 72
	defaultTicketPrefix   = "ISSUES CLOSED:"
	defaultBreakingPrefix = "BREAKING CHANGE:"
)

// Defaults returns the policy used when no configuration is provided.
func Defaults() *Config {
	return &Config{
		SubjectLimit:     defaultSubjectLimit,
		SubjectSeparator: ":",
		Types: []CommitType{
			{Name: "feat", Description: "A new feature"},
			{Name: "fix", Description: "A bug fix"},
			{Name: "chore", Description: "Changes internal to the package, e.g. tooling, documentation, examples etc"},
		},
		Scopes:               []string{},
		ScopeOverrides:       map[string][]string{},
		BodyWrap:             defaultBodyWrap,
		TicketPrefix:         defaultTicketPrefix,
		TicketNumberPrefix:   "#",
		TicketSeparator:      ",",
		BreakingPrefix:       defaultBreakingPrefix,
		AllowBreakingChanges: []string{"feat", "fix"},
		SkipQuestions:        []Question{},
	}
}

// ResolveScopes returns the scopes allowed for a type: its override when one
// is configured, the global list otherwise.
func (c *Config) ResolveScopes(commitType string) []string {
	if scopes, ok := c.ScopeOverrides[commitType]; ok {
		return scopes
	}
	return c.Scopes
}

func (c *Config) TypeNames() []string {
	names := make([]string, 0, len(c.Types))
	for _, t := range c.Types {
		names = append(names, t.Name)
	}
	return names
}

func (c *Config) HasType(name string) bool {
	return slices.Contains(c.TypeNames(), name)
}

// AllowsBreaking reports whether a type may declare a breaking change.
// An empty allow list permits every type.
func (c *Config) AllowsBreaking(commitType string) bool {
	return len(c.AllowBreakingChanges) == 0 || slices.Contains(c.AllowBreakingChanges, commitType)
}

func (c *Config) Skips(q Question) bool {
	return slices.Contains(c.SkipQuestions, q)
}

// MaxSubjectLength is the subject budget left once type and scope are placed on the header.
func (c *Config) MaxSubjectLength(commitType, scope string) int {
	scopeLength := utf8.RuneCountInString(scope)
	decoration := 0
	if scopeLength > 0 {
		decoration = 2
	}
	return c.SubjectLimit - utf8.RuneCountInString(commitType) - scopeLength - decoration - 1
}
