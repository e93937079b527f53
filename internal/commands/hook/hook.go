package hook

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/thomas-vilte/commithelper/internal/commands/completion_helper"
	"github.com/thomas-vilte/commithelper/internal/errors"
	"github.com/thomas-vilte/commithelper/internal/i18n"
	"github.com/thomas-vilte/commithelper/internal/logger"
	"github.com/thomas-vilte/commithelper/internal/ui"
	"github.com/urfave/cli/v3"
)

const (
	hookName = "commit-msg"
	marker   = "# Installed by commithelper"

	script = "#!/bin/sh\n" + marker + "\nexec commithelper check \"$1\"\n"
)

type gitService interface {
	HooksDir(ctx context.Context) (string, error)
}

type HookCommandFactory struct {
	gitService gitService
}

func NewHookCommandFactory(gitSvc gitService) *HookCommandFactory {
	return &HookCommandFactory{gitService: gitSvc}
}

func (h *HookCommandFactory) CreateCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:  "hook",
		Usage: t.GetMessage("hook.usage", 0, nil),
		Commands: []*cli.Command{
			{
				Name:  "install",
				Usage: t.GetMessage("hook.install_usage", 0, nil),
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   t.GetMessage("hook.flag_force", 0, nil),
					},
				},
				ShellComplete: completion_helper.DefaultFlagComplete,
				Action:        h.installAction(t),
			},
			{
				Name:   "uninstall",
				Usage:  t.GetMessage("hook.uninstall_usage", 0, nil),
				Action: h.uninstallAction(t),
			},
		},
	}
}

func (h *HookCommandFactory) installAction(t *i18n.Translations) cli.ActionFunc {
	return func(ctx context.Context, command *cli.Command) error {
		path, err := h.hookPath(ctx)
		if err != nil {
			return err
		}

		existing, err := os.ReadFile(path)
		switch {
		case err == nil:
			if !isOurs(existing) && !command.Bool("force") {
				return errors.ErrHookExists.WithContext("path", path)
			}
		case !os.IsNotExist(err):
			return errors.ErrReadMessage.WithError(err).WithContext("path", path)
		}

		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return errors.ErrGetHooksDir.WithError(err).WithContext("path", path)
		}
		if err := os.WriteFile(path, []byte(script), 0755); err != nil {
			return errors.ErrWriteMessage.WithError(err).WithContext("path", path)
		}
		// WriteFile keeps the mode of an existing file
		if err := os.Chmod(path, 0755); err != nil {
			return errors.ErrWriteMessage.WithError(err).WithContext("path", path)
		}

		logger.FromContext(ctx).Info("hook installed", "hook", path)
		ui.PrintSuccess(completion_helper.ErrWriter(command), t.GetMessage("hook.installed", 0, map[string]interface{}{"Path": path}))
		return nil
	}
}

func (h *HookCommandFactory) uninstallAction(t *i18n.Translations) cli.ActionFunc {
	return func(ctx context.Context, command *cli.Command) error {
		path, err := h.hookPath(ctx)
		if err != nil {
			return err
		}
		errW := completion_helper.ErrWriter(command)
		data := map[string]interface{}{"Path": path}

		existing, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			ui.PrintWarning(errW, t.GetMessage("hook.not_found", 0, data))
			return nil
		}
		if err != nil {
			return errors.ErrReadMessage.WithError(err).WithContext("path", path)
		}
		if !isOurs(existing) {
			ui.PrintWarning(errW, t.GetMessage("hook.not_ours", 0, data))
			return nil
		}

		if err := os.Remove(path); err != nil {
			return errors.ErrWriteMessage.WithError(err).WithContext("path", path)
		}
		logger.FromContext(ctx).Info("hook removed", "hook", path)
		ui.PrintSuccess(errW, t.GetMessage("hook.removed", 0, data))
		return nil
	}
}

func (h *HookCommandFactory) hookPath(ctx context.Context) (string, error) {
	dir, err := h.gitService.HooksDir(ctx)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, hookName), nil
}

func isOurs(content []byte) bool {
	return strings.Contains(string(content), marker)
}
