package prompt_command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/thomas-vilte/commithelper/internal/commands/completion_helper"
	"github.com/thomas-vilte/commithelper/internal/config"
	"github.com/thomas-vilte/commithelper/internal/errors"
	"github.com/thomas-vilte/commithelper/internal/i18n"
	"github.com/thomas-vilte/commithelper/internal/lint"
	"github.com/thomas-vilte/commithelper/internal/logger"
	"github.com/thomas-vilte/commithelper/internal/message"
	"github.com/thomas-vilte/commithelper/internal/prompt"
	"github.com/thomas-vilte/commithelper/internal/ui"
	"github.com/urfave/cli/v3"
)

// editFunc opens the message in an editor and returns the edited text.
type editFunc func(initial, errorMsg string) (string, error)

type PromptCommandFactory struct {
	edit editFunc
}

func NewPromptCommandFactory() *PromptCommandFactory {
	return &PromptCommandFactory{edit: ui.EditMessage}
}

func (f *PromptCommandFactory) CreateCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:        "prompt",
		Aliases:     []string{"p"},
		Usage:       t.GetMessage("prompt_command.usage", 0, nil),
		Description: t.GetMessage("prompt_command.long_usage", 0, nil),
		ArgsUsage:   "[FILE]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "edit",
				Aliases: []string{"e"},
				Usage:   t.GetMessage("prompt_command.flag_edit", 0, nil),
			},
		},
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action:        f.createAction(t),
	}
}

func (f *PromptCommandFactory) createAction(t *i18n.Translations) cli.ActionFunc {
	return func(ctx context.Context, command *cli.Command) error {
		cfg := config.FromContext(ctx)
		log := logger.FromContext(ctx)
		errW := completion_helper.ErrWriter(command)

		session := prompt.NewSession(completion_helper.Reader(command), errW, cfg, t)
		msg, err := session.Run()
		if err != nil {
			log.Debug("prompt aborted", "error", err)
			return err
		}

		text, err := lint.Validate(msg, cfg, true)
		if err != nil {
			return err
		}

		if command.Bool("edit") {
			if text, err = f.editAndCheck(text, cfg, t); err != nil {
				return err
			}
		}

		log.Info("commit message built", "type", msg.Type, "scope", msg.Scope)
		ui.PrintMessage(errW, t.GetMessage("prompt_command.preview", 0, nil), text)

		path := command.Args().First()
		if path == "" {
			_, err := fmt.Fprintln(completion_helper.Writer(command), text)
			return err
		}
		if err := writeMessage(path, text); err != nil {
			return err
		}
		ui.PrintSuccess(errW, t.GetMessage("prompt_command.written", 0, map[string]interface{}{"File": path}))
		return nil
	}
}

// editAndCheck lets the user adjust the rendered message; the result must
// still pass every rule.
func (f *PromptCommandFactory) editAndCheck(text string, cfg *config.Config, t *i18n.Translations) (string, error) {
	edited, err := f.edit(text, t.GetMessage("prompt_command.edit_error", 0, nil))
	if err != nil {
		return "", err
	}

	edited = message.StripComments(edited)
	msg, err := message.Parse(edited, cfg)
	if err != nil {
		return "", err
	}
	if _, err := lint.Validate(msg, cfg, false); err != nil {
		return "", err
	}
	return strings.TrimSpace(edited), nil
}

// writeMessage replaces path with text followed by the comment lines the
// file held before, as git expects from a prepare-commit-msg hook.
func writeMessage(path, text string) error {
	content := text + "\n"

	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		if comments := message.CommentLines(string(existing)); len(comments) > 0 {
			content += "\n" + strings.Join(comments, "\n") + "\n"
		}
	case !os.IsNotExist(err):
		return errors.ErrReadMessage.WithError(err).WithContext("path", path)
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return errors.ErrWriteMessage.WithError(err).WithContext("path", path)
	}
	return nil
}
