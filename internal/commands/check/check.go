package check

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/thomas-vilte/commithelper/internal/commands/completion_helper"
	"github.com/thomas-vilte/commithelper/internal/config"
	"github.com/thomas-vilte/commithelper/internal/errors"
	"github.com/thomas-vilte/commithelper/internal/i18n"
	"github.com/thomas-vilte/commithelper/internal/lint"
	"github.com/thomas-vilte/commithelper/internal/logger"
	"github.com/thomas-vilte/commithelper/internal/message"
	"github.com/thomas-vilte/commithelper/internal/models"
	"github.com/thomas-vilte/commithelper/internal/ui"
	"github.com/urfave/cli/v3"
)

// stdinArg selects standard input explicitly.
const stdinArg = "-"

const shortHashLength = 7

type gitService interface {
	CommitMessages(ctx context.Context, revRange string) ([]models.Commit, error)
}

type CheckCommandFactory struct {
	gitService gitService
}

func NewCheckCommandFactory(gitSvc gitService) *CheckCommandFactory {
	return &CheckCommandFactory{gitService: gitSvc}
}

func (f *CheckCommandFactory) CreateCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:          "check",
		Aliases:       []string{"c"},
		Usage:         t.GetMessage("check.usage", 0, nil),
		Description:   t.GetMessage("check.long_usage", 0, nil),
		ArgsUsage:     "[FILE|-]",
		Flags:         f.createFlags(t),
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action:        f.createAction(t),
	}
}

func (f *CheckCommandFactory) createFlags(t *i18n.Translations) []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "fix",
			Aliases: []string{"f"},
			Usage:   t.GetMessage("check.flag_fix", 0, nil),
		},
		&cli.StringFlag{
			Name:    "range",
			Aliases: []string{"r"},
			Usage:   t.GetMessage("check.flag_range", 0, nil),
		},
	}
}

func (f *CheckCommandFactory) createAction(t *i18n.Translations) cli.ActionFunc {
	return func(ctx context.Context, command *cli.Command) error {
		if revRange := command.String("range"); revRange != "" {
			return f.checkRange(ctx, command, t, revRange)
		}
		return checkFile(ctx, command, t, command.Args().First(), command.Bool("fix"))
	}
}

func checkFile(ctx context.Context, command *cli.Command, t *i18n.Translations, path string, fix bool) error {
	cfg := config.FromContext(ctx)
	log := logger.FromContext(ctx).With("file", describe(path))
	errW := completion_helper.ErrWriter(command)

	text, err := readMessage(command, path)
	if err != nil {
		return err
	}

	log.Debug("checking commit message", "fix", fix, "bytes", len(text))

	msg, err := message.Parse(text, cfg)
	if err == nil {
		var fixed string
		fixed, err = lint.Validate(msg, cfg, fix)
		if err == nil {
			if !fix {
				log.Info("commit message accepted", "type", msg.Type, "scope", msg.Scope)
				ui.PrintSuccess(errW, t.GetMessage("check.passed", 0, nil))
				return nil
			}
			return writeFixed(command, t, path, text, fixed)
		}
	}

	log.Info("commit message rejected", "error", err)
	ui.PrintError(errW, t.GetMessage("check.failed", 0, nil))
	return err
}

// writeFixed replaces the file with the corrected message, keeping the
// comment lines git placed in it. Standard input is answered on stdout.
func writeFixed(command *cli.Command, t *i18n.Translations, path, original, fixed string) error {
	if isStdin(path) {
		_, err := fmt.Fprintln(completion_helper.Writer(command), fixed)
		return err
	}

	content := fixed + "\n"
	if comments := message.CommentLines(original); len(comments) > 0 {
		content += "\n" + strings.Join(comments, "\n") + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return errors.ErrWriteMessage.WithError(err).WithContext("path", path)
	}

	ui.PrintSuccess(completion_helper.ErrWriter(command), t.GetMessage("check.fixed", 0, map[string]interface{}{"File": path}))
	return nil
}

func (f *CheckCommandFactory) checkRange(ctx context.Context, command *cli.Command, t *i18n.Translations, revRange string) error {
	cfg := config.FromContext(ctx)
	log := logger.FromContext(ctx).With("range", revRange)
	errW := completion_helper.ErrWriter(command)

	commits, err := f.gitService.CommitMessages(ctx, revRange)
	if err != nil {
		return err
	}

	rejected := 0
	for _, c := range commits {
		msg, err := message.Parse(c.Message, cfg)
		if err == nil {
			_, err = lint.Validate(msg, cfg, false)
		}
		if err == nil {
			continue
		}

		rejected++
		log.Info("commit message rejected", "commit", c.Hash, "error", err)
		header, _, _ := strings.Cut(c.Message, "\n")
		ui.PrintError(errW, t.GetMessage("check.commit_rejected", 0, map[string]interface{}{
			"Hash":   shortHash(c.Hash),
			"Header": header,
		}))
		ui.FprintAppError(errW, err, t)
	}

	data := map[string]interface{}{"Count": rejected, "Total": len(commits)}
	if rejected > 0 {
		return fmt.Errorf("%s", t.GetMessage("check.range_failed", 0, data))
	}

	ui.PrintSuccess(errW, t.GetMessage("check.range_passed", 0, data))
	return nil
}

func readMessage(command *cli.Command, path string) (string, error) {
	if isStdin(path) {
		data, err := io.ReadAll(completion_helper.Reader(command))
		if err != nil {
			return "", errors.ErrReadMessage.WithError(err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.ErrReadMessage.WithError(err).WithContext("path", path)
	}
	return string(data), nil
}

func isStdin(path string) bool {
	return path == "" || path == stdinArg
}

func describe(path string) string {
	if isStdin(path) {
		return "stdin"
	}
	return path
}

func shortHash(hash string) string {
	if len(hash) > shortHashLength {
		return hash[:shortHashLength]
	}
	return hash
}
