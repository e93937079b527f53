package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/thomas-vilte/commithelper/internal/commands/completion_helper"
	"github.com/thomas-vilte/commithelper/internal/config"
	"github.com/thomas-vilte/commithelper/internal/errors"
	"github.com/thomas-vilte/commithelper/internal/i18n"
	"github.com/thomas-vilte/commithelper/internal/logger"
	"github.com/thomas-vilte/commithelper/internal/ui"
	"github.com/urfave/cli/v3"
)

type gitService interface {
	IsInRepo(ctx context.Context) bool
	RepoRoot(ctx context.Context) (string, error)
}

type ConfigCommandFactory struct {
	gitService gitService
}

func NewConfigCommandFactory(gitSvc gitService) *ConfigCommandFactory {
	return &ConfigCommandFactory{gitService: gitSvc}
}

func (c *ConfigCommandFactory) CreateCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: t.GetMessage("config.usage", 0, nil),
		Commands: []*cli.Command{
			c.newShowCommand(t),
			c.newSchemaCommand(t),
			c.newInitCommand(t),
		},
	}
}

func (c *ConfigCommandFactory) newShowCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: t.GetMessage("config.show_usage", 0, nil),
		Action: func(ctx context.Context, command *cli.Command) error {
			data, err := json.MarshalIndent(config.FromContext(ctx), "", "  ")
			if err != nil {
				return errors.NewAppError(errors.TypeInternal, "Failed to encode configuration", err)
			}

			ui.PrintInfo(completion_helper.ErrWriter(command), t.GetMessage("config.source", 0, map[string]interface{}{
				"Source": config.SourceFromContext(ctx),
			}))
			_, err = fmt.Fprintln(completion_helper.Writer(command), string(data))
			return err
		},
	}
}

func (c *ConfigCommandFactory) newSchemaCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: t.GetMessage("config.schema_usage", 0, nil),
		Action: func(_ context.Context, command *cli.Command) error {
			data, err := config.SchemaJSON()
			if err != nil {
				return errors.NewAppError(errors.TypeInternal, "Failed to encode schema", err)
			}
			_, err = fmt.Fprintln(completion_helper.Writer(command), string(data))
			return err
		},
	}
}

func (c *ConfigCommandFactory) newInitCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: t.GetMessage("config.init_usage", 0, nil),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   t.GetMessage("config.flag_force", 0, nil),
			},
		},
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action: func(ctx context.Context, command *cli.Command) error {
			dir, err := c.targetDir(ctx)
			if err != nil {
				return err
			}

			path := filepath.Join(dir, config.LocalFile)
			logger.FromContext(ctx).Debug("writing default configuration", "path", path, "force", command.Bool("force"))
			if err := config.SaveConfig(config.Defaults(), path, command.Bool("force")); err != nil {
				return err
			}

			ui.PrintSuccess(completion_helper.ErrWriter(command), t.GetMessage("config.init_done", 0, map[string]interface{}{"Path": path}))
			return nil
		},
	}
}

// targetDir is the repository root, or the working directory outside a repository.
func (c *ConfigCommandFactory) targetDir(ctx context.Context) (string, error) {
	if c.gitService.IsInRepo(ctx) {
		return c.gitService.RepoRoot(ctx)
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", errors.ErrConfigWrite.WithError(err)
	}
	return wd, nil
}
