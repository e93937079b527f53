package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/thomas-vilte/commithelper/internal/cli/registry"
	"github.com/thomas-vilte/commithelper/internal/commands/check"
	"github.com/thomas-vilte/commithelper/internal/commands/completion"
	"github.com/thomas-vilte/commithelper/internal/commands/completion_helper"
	configCommand "github.com/thomas-vilte/commithelper/internal/commands/config"
	"github.com/thomas-vilte/commithelper/internal/commands/hook"
	"github.com/thomas-vilte/commithelper/internal/commands/prompt_command"
	"github.com/thomas-vilte/commithelper/internal/config"
	"github.com/thomas-vilte/commithelper/internal/git"
	"github.com/thomas-vilte/commithelper/internal/i18n"
	"github.com/thomas-vilte/commithelper/internal/logger"
	"github.com/thomas-vilte/commithelper/internal/ui"
	"github.com/thomas-vilte/commithelper/internal/version"
	"github.com/urfave/cli/v3"
)

func main() {
	app, translations, err := initializeApp()
	if err != nil {
		log.Fatalf("Error starting commithelper: %v", err)
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		ui.HandleAppError(err, translations)
		os.Exit(1)
	}
}

func initializeApp() (*cli.Command, *i18n.Translations, error) {
	env, err := config.LoadEnv()
	if err != nil {
		return nil, nil, fmt.Errorf("error reading environment: %w", err)
	}

	lang, _ := config.ResolveLanguage(env.Language)
	translations, err := i18n.NewTranslations(lang, "")
	if err != nil {
		return nil, nil, fmt.Errorf("error loading translations: %w", err)
	}

	gitService := git.NewGitService()

	registerCommand := registry.NewRegistry(translations)
	factories := []struct {
		name    string
		factory registry.CommandFactory
	}{
		{"check", check.NewCheckCommandFactory(gitService)},
		{"prompt", prompt_command.NewPromptCommandFactory()},
		{"config", configCommand.NewConfigCommandFactory(gitService)},
		{"hook", hook.NewHookCommandFactory(gitService)},
	}
	for _, f := range factories {
		if err := registerCommand.Register(f.name, f.factory); err != nil {
			return nil, nil, fmt.Errorf("error registering command '%s': %w", f.name, err)
		}
	}

	commands := registerCommand.CreateCommands()
	commands = append(commands, completion.NewCompletionCommand(translations))

	helpCommand := &cli.Command{
		Name:    "help",
		Aliases: []string{"h"},
		Usage:   translations.GetMessage("help_command_usage", 0, nil),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
	}
	commands = append(commands, helpCommand)

	return &cli.Command{
		Name:                  "commithelper",
		Usage:                 translations.GetMessage("app_usage", 0, nil),
		Version:               version.FullVersion(),
		Description:           translations.GetMessage("app_description", 0, nil),
		Flags:                 globalFlags(env, translations),
		Before:                setup(translations),
		Commands:              commands,
		EnableShellCompletion: true,
	}, translations, nil
}

func globalFlags(env config.Env, t *i18n.Translations) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Value:   env.ConfigPath,
			Usage:   t.GetMessage("flag.config", 0, nil),
		},
		&cli.StringFlag{
			Name:  "lang",
			Value: env.Language,
			Usage: t.GetMessage("flag.lang", 0, nil),
		},
		&cli.BoolFlag{
			Name:  "debug",
			Value: env.Debug,
			Usage: t.GetMessage("flag.debug", 0, nil),
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: t.GetMessage("flag.verbose", 0, nil),
		},
	}
}

// setup loads the configuration once per invocation and attaches it, with
// the logger, to the context every command receives.
func setup(t *i18n.Translations) cli.BeforeFunc {
	return func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
		log := logger.Initialize(cmd.Bool("debug"), cmd.Bool("verbose"))
		ctx = logger.WithLogger(ctx, log)

		lang, ok := config.ResolveLanguage(cmd.String("lang"))
		if !ok {
			ui.PrintWarning(completion_helper.ErrWriter(cmd), t.GetMessage("language_unsupported", 0, map[string]interface{}{"Lang": cmd.String("lang")}))
		}
		if err := t.SetLanguage(lang); err != nil {
			return ctx, err
		}

		path := cmd.String("config")
		if path == "" {
			if wd, err := os.Getwd(); err == nil {
				path = config.Locate(wd)
			}
		}

		cfg, err := config.Load(path)
		if err != nil {
			return ctx, err
		}
		log.Debug("configuration loaded", "source", config.Describe(path))

		ctx = config.WithConfig(ctx, cfg)
		return config.WithSource(ctx, path), nil
	}
}
