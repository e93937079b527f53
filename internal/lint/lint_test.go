package lint

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/commithelper/internal/config"
	"github.com/thomas-vilte/commithelper/internal/errors"
	"github.com/thomas-vilte/commithelper/internal/message"
	"github.com/thomas-vilte/commithelper/internal/models"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		msg         models.Message
		mutate      func(cfg *config.Config)
		expectedErr error
		contains    string
	}{
		{
			name: "valid message passes",
			msg:  models.Message{Type: "feat", Scope: "core", Subject: "add x"},
		},
		{
			name:        "unknown type lists the allowed ones",
			msg:         models.Message{Type: "bogus", Subject: "x"},
			expectedErr: errors.ErrUnknownType,
			contains:    "feat, fix, chore",
		},
		{
			name:        "scope required when scopes are configured",
			msg:         models.Message{Type: "feat", Subject: "x"},
			mutate:      func(cfg *config.Config) { cfg.Scopes = []string{"core", "cli"} },
			expectedErr: errors.ErrMissingScope,
			contains:    "core, cli",
		},
		{
			name:        "scope outside the allowed set",
			msg:         models.Message{Type: "feat", Scope: "db", Subject: "x"},
			mutate:      func(cfg *config.Config) { cfg.Scopes = []string{"core"} },
			expectedErr: errors.ErrInvalidScope,
			contains:    "'db'",
		},
		{
			name: "override replaces the default scopes",
			msg:  models.Message{Type: "chore", Scope: "deps", Subject: "bump"},
			mutate: func(cfg *config.Config) {
				cfg.Scopes = []string{"core"}
				cfg.ScopeOverrides = map[string][]string{"chore": {"deps"}}
			},
		},
		{
			name:   "any scope passes when none is configured",
			msg:    models.Message{Type: "feat", Scope: "core", Subject: "x"},
			mutate: func(cfg *config.Config) { cfg.Scopes = nil },
		},
		{
			name:   "empty override leaves the scope free",
			msg:    models.Message{Type: "chore", Scope: "deps", Subject: "bump"},
			mutate: func(cfg *config.Config) {
				cfg.Scopes = []string{"core"}
				cfg.ScopeOverrides = map[string][]string{"chore": {}}
			},
		},
		{
			name: "custom scopes allowed",
			msg:  models.Message{Type: "feat", Scope: "anything", Subject: "x"},
			mutate: func(cfg *config.Config) {
				cfg.Scopes = []string{"core"}
				cfg.AllowCustomScopes = true
			},
		},
		{
			name:        "subject casing",
			msg:         models.Message{Type: "feat", Scope: "core", Subject: "Add x"},
			expectedErr: errors.ErrSubjectCasing,
			contains:    "'Add x'",
		},
		{
			name:        "upper case policy",
			msg:         models.Message{Type: "feat", Subject: "add x"},
			mutate:      func(cfg *config.Config) { cfg.UpperCase = true },
			expectedErr: errors.ErrSubjectCasing,
		},
		{
			name:   "subject over the prompt budget still passes",
			msg:    models.Message{Type: "feat", Subject: strings.Repeat("a", 96)},
			mutate: func(cfg *config.Config) { cfg.SubjectLimit = 20 },
		},
		{
			name:        "body line over the wrap limit",
			msg:         models.Message{Type: "fix", Subject: "x", Body: "short\n" + strings.Repeat("b", 73)},
			expectedErr: errors.ErrLineTooLong,
			contains:    "body line 2 has 73 characters",
		},
		{
			name:        "breaking change on a type that does not allow it",
			msg:         models.Message{Type: "chore", Subject: "x", Breaking: "drops node 16"},
			expectedErr: errors.ErrBreakingNotAllowed,
			contains:    "feat, fix",
		},
		{
			name:   "breaking change allowed for every type when the list is empty",
			msg:    models.Message{Type: "chore", Subject: "x", Breaking: "drops node 16"},
			mutate: func(cfg *config.Config) { cfg.AllowBreakingChanges = nil },
		},
		{
			name:        "breaking line over the wrap limit",
			msg:         models.Message{Type: "feat", Subject: "x", Breaking: strings.Repeat("c", 80)},
			expectedErr: errors.ErrLineTooLong,
			contains:    "breaking change line 1",
		},
		{
			name:        "malformed ticket",
			msg:         models.Message{Type: "fix", Subject: "x", IssuesClosed: "#12, #abc"},
			expectedErr: errors.ErrMalformedTicket,
			contains:    "'#abc'",
		},
		{
			name:        "ticket without the number prefix",
			msg:         models.Message{Type: "fix", Subject: "x", IssuesClosed: "12"},
			expectedErr: errors.ErrMalformedTicket,
		},
		{
			name:        "rules apply in order",
			msg:         models.Message{Type: "bogus", Subject: "Add x", IssuesClosed: "#abc"},
			expectedErr: errors.ErrUnknownType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			cfg := config.Defaults()
			if tt.mutate != nil {
				tt.mutate(cfg)
			}

			// Act
			out, err := Validate(tt.msg, cfg, false)

			// Assert
			assert.Empty(t, out)
			if tt.expectedErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.expectedErr)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestValidateFix(t *testing.T) {
	cfg := config.Defaults()

	t.Run("should correct the subject casing", func(t *testing.T) {
		// Arrange
		msg := models.Message{Type: "feat", Scope: "core", Subject: "Add x"}

		// Act
		out, err := Validate(msg, cfg, true)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "feat(core): add x", out)
		assert.Equal(t, "Add x", msg.Subject)
	})

	t.Run("should rewrap long lines instead of failing", func(t *testing.T) {
		msg := models.Message{
			Type:     "feat",
			Subject:  "x",
			Body:     strings.Repeat("word ", 30),
			Breaking: strings.Repeat("gone ", 20),
		}

		out, err := Validate(msg, cfg, true)

		require.NoError(t, err)
		for _, line := range strings.Split(out, "\n") {
			assert.LessOrEqual(t, len(line), cfg.BodyWrap)
		}
	})

	t.Run("should keep a long subject untouched", func(t *testing.T) {
		msg := models.Message{Type: "feat", Subject: strings.Repeat("a", 120)}

		out, err := Validate(msg, cfg, true)

		require.NoError(t, err)
		assert.Equal(t, "feat: "+strings.Repeat("a", 120), out)
	})

	t.Run("should still fail on rules it cannot fix", func(t *testing.T) {
		_, err := Validate(models.Message{Type: "fix", Subject: "X", IssuesClosed: "#abc"}, cfg, true)

		assert.ErrorIs(t, err, errors.ErrMalformedTicket)
	})

	t.Run("should be idempotent", func(t *testing.T) {
		messages := []models.Message{
			{Type: "feat", Scope: "core", Subject: "Add x", Body: strings.Repeat("lorem ipsum ", 15)},
			{Type: "fix", Subject: "Ü", IssuesClosed: "#1,#2,#3", Breaking: "Old flag removed"},
		}
		for _, msg := range messages {
			first, err := Validate(msg, cfg, true)
			require.NoError(t, err)

			parsed, err := message.Parse(first, cfg)
			require.NoError(t, err)
			second, err := Validate(parsed, cfg, true)
			require.NoError(t, err)

			assert.Equal(t, first, second)
		}
	})
}

func TestCheckTickets(t *testing.T) {
	cfg := config.Defaults()

	assert.NoError(t, CheckTickets("#1, #22 ,#333", cfg))
	assert.NoError(t, CheckTickets("", cfg))
	assert.ErrorIs(t, CheckTickets("#", cfg), errors.ErrMalformedTicket)
	assert.ErrorIs(t, CheckTickets("#-1", cfg), errors.ErrMalformedTicket)

	cfg.TicketNumberPrefix = "PROJ-"
	cfg.TicketSeparator = ";"
	assert.NoError(t, CheckTickets("PROJ-1; PROJ-2", cfg))
	assert.ErrorIs(t, CheckTickets("PROJ-1, PROJ-2", cfg), errors.ErrMalformedTicket)
}
