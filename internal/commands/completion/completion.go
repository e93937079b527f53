package completion

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/thomas-vilte/commithelper/internal/commands/completion_helper"
	"github.com/thomas-vilte/commithelper/internal/i18n"
	"github.com/thomas-vilte/commithelper/internal/ui"
	"github.com/urfave/cli/v3"
)

const bashCompletionScript = `#! /bin/bash

_commithelper_bash_autocomplete() {
  if [[ "${COMP_WORDS[0]}" != "source" ]]; then
    local cur opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    local cmd_context=("${COMP_WORDS[@]:0:$COMP_CWORD}")
    opts=$( "${cmd_context[@]}" --generate-shell-completion )
    COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
    return 0
  fi
}

complete -o bashdefault -o default -o nospace -F _commithelper_bash_autocomplete commithelper
`

const zshCompletionScript = `#compdef commithelper

_commithelper() {
  local -a opts
  local cmd_context=("${(@)words[1,$CURRENT-1]}")
  opts=("${(@f)$("${cmd_context[@]}" --generate-shell-completion)}")
  _describe 'values' opts
}

compdef _commithelper commithelper
`

const installMarker = "# commithelper shell completion"

const installInfo = `
` + installMarker + `
if command -v commithelper >/dev/null 2>&1; then
	source <(commithelper completion %s)
fi
`

func NewCompletionCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:        "completion",
		Usage:       t.GetMessage("completion.command_usage", 0, nil),
		Description: t.GetMessage("completion.command_description", 0, nil),
		Commands: []*cli.Command{
			{
				Name:  "bash",
				Usage: t.GetMessage("completion.bash_usage", 0, nil),
				Action: func(_ context.Context, cmd *cli.Command) error {
					_, err := fmt.Fprint(completion_helper.Writer(cmd), bashCompletionScript)
					return err
				},
			},
			{
				Name:  "zsh",
				Usage: t.GetMessage("completion.zsh_usage", 0, nil),
				Action: func(_ context.Context, cmd *cli.Command) error {
					_, err := fmt.Fprint(completion_helper.Writer(cmd), zshCompletionScript)
					return err
				},
			},
			{
				Name:  "install",
				Usage: t.GetMessage("completion.install_usage", 0, nil),
				Action: func(_ context.Context, cmd *cli.Command) error {
					return install(cmd, t)
				},
			},
		},
	}
}

func install(cmd *cli.Command, t *i18n.Translations) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("error getting home directory: %w", err)
	}

	shell := os.Getenv("SHELL")
	var configFile, shellName string
	switch {
	case strings.Contains(shell, "zsh"):
		configFile, shellName = filepath.Join(home, ".zshrc"), "zsh"
	case strings.Contains(shell, "bash"):
		configFile, shellName = filepath.Join(home, ".bashrc"), "bash"
	default:
		return fmt.Errorf("%s", t.GetMessage("completion.unsupported_shell", 0, map[string]interface{}{"Shell": shell}))
	}

	w := completion_helper.Writer(cmd)
	current, err := os.ReadFile(configFile)
	if err == nil && strings.Contains(string(current), installMarker) {
		ui.PrintInfo(w, t.GetMessage("completion.already_installed", 0, map[string]interface{}{"File": configFile}))
		return nil
	}

	f, err := os.OpenFile(configFile, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("error opening %s: %w", configFile, err)
	}
	defer func() {
		_ = f.Close()
	}()

	if _, err := fmt.Fprintf(f, installInfo, shellName); err != nil {
		return fmt.Errorf("error writing %s: %w", configFile, err)
	}

	ui.PrintSuccess(w, t.GetMessage("completion.installed", 0, map[string]interface{}{"File": configFile}))
	return nil
}
