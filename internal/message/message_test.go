package message

import (
	"math/rand"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/commithelper/internal/config"
	"github.com/thomas-vilte/commithelper/internal/errors"
	"github.com/thomas-vilte/commithelper/internal/models"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		msg      models.Message
		mutate   func(cfg *config.Config)
		expected string
	}{
		{
			name:     "header only",
			msg:      models.Message{Type: "feat", Scope: "core", Subject: "add x"},
			expected: "feat(core): add x",
		},
		{
			name:     "header without scope",
			msg:      models.Message{Type: "fix", Subject: "handle nil"},
			expected: "fix: handle nil",
		},
		{
			name: "every section",
			msg: models.Message{
				Type:         "feat",
				Scope:        "core",
				Subject:      "add x",
				Body:         "first second   third",
				IssuesClosed: "#1,#2",
				Breaking:     "drops the v1 api",
			},
			expected: "feat(core): add x\n\nfirst second third\n\nISSUES CLOSED: #1, #2\nBREAKING CHANGE:\ndrops the v1 api",
		},
		{
			name:     "breaking without issues",
			msg:      models.Message{Type: "feat", Subject: "x", Breaking: "gone"},
			expected: "feat: x\n\nBREAKING CHANGE:\ngone",
		},
		{
			name:     "whitespace only fields are absent",
			msg:      models.Message{Type: "feat", Subject: "x", Body: "  \n ", IssuesClosed: " , ", Breaking: "\t"},
			expected: "feat: x",
		},
		{
			name:     "issues wrap onto new prefixed lines",
			msg:      models.Message{Type: "fix", Subject: "x", IssuesClosed: "#100, #200, #300"},
			mutate:   func(cfg *config.Config) { cfg.BodyWrap = 20 },
			expected: "fix: x\n\nISSUES CLOSED: #100\nISSUES CLOSED: #200\nISSUES CLOSED: #300",
		},
		{
			name: "custom header punctuation",
			msg:  models.Message{Type: "feat", Scope: "ui", Subject: "add"},
			mutate: func(cfg *config.Config) {
				cfg.TypePrefix = "["
				cfg.TypeSuffix = "]"
				cfg.SubjectSeparator = " -"
			},
			expected: "[feat](ui): add",
		},
		{
			name:     "whitespace only scope is absent",
			msg:      models.Message{Type: "feat", Scope: "  ", Subject: "x"},
			expected: "feat: x",
		},
		{
			name:     "ticket is never wrapped to the start of a body line",
			msg:      models.Message{Type: "fix", Subject: "x", Body: "closes the leak reported in #42 today"},
			mutate:   func(cfg *config.Config) { cfg.BodyWrap = 30 },
			expected: "fix: x\n\ncloses the leak reported\nin #42 today",
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
			got := Render(tt.msg, cfg)

			// Assert
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		width    int
		expected string
	}{
		{name: "fits exactly", text: "aaa bbb ccc", width: 7, expected: "aaa bbb\nccc"},
		{name: "long token stays whole", text: "a verylongword b", width: 5, expected: "a\nverylongword\nb"},
		{name: "newlines are whitespace", text: "one\ntwo\n\nthree", width: 80, expected: "one two three"},
		{name: "measures runes", text: "ñññ ñññ", width: 7, expected: "ñññ ñññ"},
		{name: "empty", text: "   ", width: 10, expected: ""},
		{name: "carries the previous word with a ticket", text: "see issue #42 for details", width: 12, expected: "see\nissue #42\nfor details"},
		{name: "carries a run of tickets", text: "fixes a #1 #2", width: 10, expected: "fixes\na #1 #2"},
		{name: "ticket overflows when nothing can be carried", text: "abcdef #1 b", width: 6, expected: "abcdef #1\nb"},
		{name: "leading ticket stays first", text: "#7 is fixed", width: 3, expected: "#7\nis\nfixed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Wrap(tt.text, tt.width))
		})
	}
}

func TestWrapKeepsLinesWithinWidth(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	letters := []rune("abcdefghijklmnopqrstuvwxyzáé")

	for i := 0; i < 200; i++ {
		width := 5 + rng.Intn(60)
		words := make([]string, 1+rng.Intn(40))
		for j := range words {
			word := make([]rune, 1+rng.Intn(15))
			for k := range word {
				word[k] = letters[rng.Intn(len(letters))]
			}
			words[j] = string(word)
		}
		text := strings.Join(words, strings.Repeat(" ", 1+rng.Intn(3)))

		wrapped := Wrap(text, width)

		for _, line := range strings.Split(wrapped, "\n") {
			if utf8.RuneCountInString(line) > width {
				assert.NotContains(t, line, " ", "over-long line must be a single token (width %d)", width)
			}
		}
		assert.Equal(t, strings.Fields(text), strings.Fields(wrapped))
	}
}

func TestWrapNeverStartsALineWithAComment(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	words := []string{"a", "fix", "leak", "#1", "#42", "#1000", "in", "module"}

	for i := 0; i < 200; i++ {
		width := 3 + rng.Intn(30)
		text := make([]string, 1+rng.Intn(25))
		for j := range text {
			text[j] = words[rng.Intn(len(words))]
		}
		text[0] = "start"

		wrapped := Wrap(strings.Join(text, " "), width)

		for _, line := range strings.Split(wrapped, "\n") {
			assert.False(t, strings.HasPrefix(line, "#"), "line %q of %q (width %d)", line, wrapped, width)
		}
		assert.Equal(t, text, strings.Fields(wrapped))
	}
}

func TestHeaderSeparatorIsFixed(t *testing.T) {
	cfg := config.Defaults()
	cfg.SubjectSeparator = " -"
	msg := models.Message{Type: "feat", Subject: "add x"}

	assert.Equal(t, "feat: add x", Render(msg, cfg))

	got, err := Parse("feat: add x", cfg)
	require.NoError(t, err)
	assert.Equal(t, msg, got)

	_, err = Parse("feat - add x", cfg)
	assert.ErrorIs(t, err, errors.ErrInvalidHeader)
}

func TestParse(t *testing.T) {
	cfg := config.Defaults()

	t.Run("should read every section", func(t *testing.T) {
		// Arrange
		text := "feat(core): add x\n\nfirst line\nsecond line\n\nISSUES CLOSED: #1, #2\nISSUES CLOSED: #3\nBREAKING CHANGE:\ndrops v1\nand v2\n"

		// Act
		msg, err := Parse(text, cfg)

		// Assert
		require.NoError(t, err)
		want := models.Message{
			Type:         "feat",
			Scope:        "core",
			Subject:      "add x",
			Body:         "first line\nsecond line",
			IssuesClosed: "#1, #2, #3",
			Breaking:     "drops v1\nand v2",
		}
		if diff := cmp.Diff(want, msg); diff != "" {
			t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should put every line in the body without markers", func(t *testing.T) {
		msg, err := Parse("fix: x\nline one\n\nline two", cfg)

		require.NoError(t, err)
		assert.Equal(t, "line one\nline two", msg.Body)
		assert.Empty(t, msg.Breaking)
		assert.Empty(t, msg.IssuesClosed)
	})

	t.Run("should handle CRLF line endings", func(t *testing.T) {
		msg, err := Parse("fix(api): x\r\n\r\nbody\r\n", cfg)

		require.NoError(t, err)
		assert.Equal(t, "api", msg.Scope)
		assert.Equal(t, "x", msg.Subject)
		assert.Equal(t, "body", msg.Body)
	})

	t.Run("should skip comments and stop at the scissors line", func(t *testing.T) {
		text := "# Please enter the commit message\n" +
			"fix: x\n" +
			"# comment inside\n" +
			"body\n" +
			scissors + "\n" +
			"diff --git a/file b/file\n"

		msg, err := Parse(text, cfg)

		require.NoError(t, err)
		assert.Equal(t, "fix", msg.Type)
		assert.Equal(t, "body", msg.Body)
	})

	t.Run("should keep text after the breaking marker", func(t *testing.T) {
		msg, err := Parse("feat: x\nBREAKING CHANGE: removes v1\nsee docs", cfg)

		require.NoError(t, err)
		assert.Equal(t, "removes v1\nsee docs", msg.Breaking)
	})

	t.Run("should keep parentheses in the subject", func(t *testing.T) {
		msg, err := Parse("feat: support (x): y", cfg)

		require.NoError(t, err)
		assert.Equal(t, "feat", msg.Type)
		assert.Empty(t, msg.Scope)
		assert.Equal(t, "support (x): y", msg.Subject)
	})

	t.Run("should match the longest marker first", func(t *testing.T) {
		custom := config.Defaults()
		custom.TicketPrefix = "#closes"

		msg, err := Parse("fix: x\n#closes #4\n# note", custom)

		require.NoError(t, err)
		assert.Equal(t, "#4", msg.IssuesClosed)
		assert.Empty(t, msg.Body)
	})

	t.Run("should treat configured strings literally", func(t *testing.T) {
		custom := config.Defaults()
		custom.TypePrefix = "[."
		custom.TypeSuffix = "*]"
		custom.TicketSeparator = "|"

		msg, err := Parse("[.feat*](ui): add\nISSUES CLOSED: #1|#2", custom)

		require.NoError(t, err)
		assert.Equal(t, "feat", msg.Type)
		assert.Equal(t, "ui", msg.Scope)
		assert.Equal(t, "#1| #2", msg.IssuesClosed)
	})

	t.Run("should reject malformed headers", func(t *testing.T) {
		headers := []string{
			"no separator here",
			"feat(): x",
			"(core): x",
			"fe)at: x",
			"feat(core) x",
			"feat(co(re)): x",
			": x",
		}
		for _, header := range headers {
			_, err := Parse(header, cfg)

			require.Error(t, err, header)
			assert.ErrorIs(t, err, errors.ErrInvalidHeader)
			assert.Contains(t, err.Error(), "<type>(<scope>): <subject>")
		}
	})

	t.Run("should reject an empty message", func(t *testing.T) {
		for _, text := range []string{"", "\n\n", "# only a comment\n"} {
			_, err := Parse(text, cfg)

			assert.ErrorIs(t, err, errors.ErrEmptyMessage)
		}
	})
}

func TestRoundTrip(t *testing.T) {
	cfg := config.Defaults()

	messages := []models.Message{
		{Type: "feat", Scope: "core", Subject: "add x"},
		{Type: "fix", Subject: "handle  double spaces", Body: "a   loosely spaced    body"},
		{Type: "feat", Subject: "x", IssuesClosed: "#1,#2 ,  #3", Breaking: "  removes the old flag  "},
		{Type: "chore", Scope: "deps", Subject: "bump", Body: "single", IssuesClosed: "#9"},
	}

	for _, m := range messages {
		t.Run(Header(m, cfg), func(t *testing.T) {
			got, err := Parse(Render(m, cfg), cfg)
			require.NoError(t, err)

			want := m
			want.Body = strings.Join(strings.Fields(m.Body), " ")
			want.Breaking = strings.TrimSpace(m.Breaking)
			want.IssuesClosed = JoinTickets(SplitTickets(m.IssuesClosed, cfg), cfg)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("render is stable across a parse", func(t *testing.T) {
		cfg := config.Defaults()
		cfg.BodyWrap = 20
		m := models.Message{
			Type:         "feat",
			Scope:        "api",
			Subject:      "paginate",
			Body:         "responses now carry a cursor that clients pass back to get the next page",
			IssuesClosed: "#10, #11, #12, #13",
			Breaking:     "the offset parameter is no longer accepted",
		}

		rendered := Render(m, cfg)
		parsed, err := Parse(rendered, cfg)

		require.NoError(t, err)
		assert.Equal(t, rendered, Render(parsed, cfg))
	})
}

func TestTickets(t *testing.T) {
	cfg := config.Defaults()

	assert.Equal(t, []string{"#1", "#2"}, SplitTickets(" #1 ,, #2 ,", cfg))
	assert.Nil(t, SplitTickets("  ", cfg))
	assert.Equal(t, "#1, #2", JoinTickets([]string{"#1", "#2"}, cfg))

	cfg.TicketSeparator = "."
	assert.Equal(t, []string{"#1", "#2"}, SplitTickets("#1.#2", cfg))
}

func TestComments(t *testing.T) {
	text := "fix: x\n# first\nbody\n# second\r\n"

	assert.Equal(t, []string{"# first", "# second"}, CommentLines(text))
	assert.Equal(t, "fix: x\nbody\n", StripComments(text))
}
