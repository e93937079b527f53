package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/thomas-vilte/commithelper/internal/config"
	domainErrors "github.com/thomas-vilte/commithelper/internal/errors"
	"github.com/thomas-vilte/commithelper/internal/i18n"
	"github.com/thomas-vilte/commithelper/internal/models"
	"github.com/thomas-vilte/commithelper/internal/ui"
)

// CustomScope is the scope choice that asks for free input.
const CustomScope = "custom"

// Session holds the state of one interactive run.
type Session struct {
	in      *bufio.Reader
	out     io.Writer
	cfg     *config.Config
	t       *i18n.Translations
	answers Answers
}

func NewSession(in io.Reader, out io.Writer, cfg *config.Config, t *i18n.Translations) *Session {
	return &Session{
		in:      bufio.NewReader(in),
		out:     out,
		cfg:     cfg,
		t:       t,
		answers: Answers{},
	}
}

// Run asks every step whose predicate holds, in order, and returns the
// collected message.
func (s *Session) Run() (models.Message, error) {
	for _, step := range Steps {
		if step.When != nil && !step.When(s.answers, s.cfg) {
			continue
		}
		value, err := step.Ask(s)
		if err != nil {
			return models.Message{}, err
		}
		s.answers[step.Key] = value
	}
	return s.answers.Message(), nil
}

// Answers returns a copy of what has been collected so far.
func (s *Session) Answers() Answers {
	out := make(Answers, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

type choice struct {
	value string
	label string
}

func (s *Session) ask(messageID string, data map[string]interface{}) {
	_, _ = fmt.Fprintf(s.out, "%s %s\n", ui.Accent.Sprint("?"), s.t.GetMessage(messageID, 0, data))
}

func (s *Session) warn(messageID string, data map[string]interface{}) {
	_, _ = fmt.Fprintf(s.out, "%s %s\n", ui.Warning.Sprint(">>"), s.t.GetMessage(messageID, 0, data))
}

func (s *Session) readLine() (string, error) {
	_, _ = fmt.Fprint(s.out, ui.Dim.Sprint("> "))
	line, err := s.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", domainErrors.ErrPromptAborted.WithError(err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// choose lists choices and reads until the input is a list number or a value.
func (s *Session) choose(messageID string, data map[string]interface{}, choices []choice) (string, error) {
	for {
		s.ask(messageID, data)
		for i, c := range choices {
			_, _ = fmt.Fprintf(s.out, "  %s %s\n", ui.Info.Sprintf("%d)", i+1), c.label)
		}

		input, err := s.readLine()
		if err != nil {
			return "", err
		}
		input = strings.TrimSpace(input)

		if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(choices) {
			return choices[n-1].value, nil
		}
		for _, c := range choices {
			if c.value == input {
				return c.value, nil
			}
		}
		s.warn("prompt.invalid_choice", map[string]interface{}{"Input": input})
	}
}

// typeChoices labels each type with its description, names padded to the
// longest one.
func typeChoices(types []config.CommitType) []choice {
	width := 0
	for _, t := range types {
		width = max(width, utf8.RuneCountInString(t.Name))
	}

	choices := make([]choice, 0, len(types))
	for _, t := range types {
		label := t.Name
		if t.Description != "" {
			padding := strings.Repeat(" ", width-utf8.RuneCountInString(t.Name))
			label += ": " + padding + t.Description
		}
		choices = append(choices, choice{value: t.Name, label: label})
	}
	return choices
}

// FilterSubject trims the subject, drops trailing dots and applies the case
// policy to its first letter.
func FilterSubject(subject string, upperCase bool) string {
	subject = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(subject), "."))
	first, size := utf8.DecodeRuneInString(subject)
	if size == 0 {
		return subject
	}
	if upperCase {
		first = unicode.ToUpper(first)
	} else {
		first = unicode.ToLower(first)
	}
	return string(first) + subject[size:]
}
