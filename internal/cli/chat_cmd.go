package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/alexanderramin/autofin/internal/assistant"
	"github.com/alexanderramin/autofin/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newChatCmd(app *App) *cobra.Command {
	var modeFlag string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start a support conversation",
		Long: `Start an interactive support conversation. On a terminal this opens a
full-screen chat; otherwise lines are read from stdin and replies written
to stdout, one turn per line.

In-chat commands: /clear starts a new unverified session, /quit exits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, app, modeFlag)
		},
	}

	addModeFlag(cmd.Flags(), &modeFlag)
	return cmd
}

func runChat(cmd *cobra.Command, app *App, modeFlag string) error {
	mode, err := parseMode(modeFlag, app.Core.Config.Mode)
	if err != nil {
		return err
	}
	if modeFlag == "" && app.interactive() && app.Core.LLM != nil {
		if mode, err = pickMode(mode); err != nil {
			return err
		}
	}

	a, err := app.Core.NewAssistant(mode)
	if err != nil {
		return err
	}

	if !app.interactive() {
		return runLineChat(cmd.Context(), a, cmd.InOrStdin(), cmd.OutOrStdout())
	}

	p := tea.NewProgram(newChatModel(cmd.Context(), a),
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	_, err = p.Run()
	return err
}

// pickMode asks which agent mode to use. Only offered when a text generator
// is configured, since the other modes depend on it.
func pickMode(def domain.AgentMode) (domain.AgentMode, error) {
	choice := string(def)
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Agent mode").
				Description("How should your questions be routed?").
				Options(
					huh.NewOption("Rule-based: keyword routing, no model calls", string(domain.ModeRule)),
					huh.NewOption("Supervisor: rule-based replies with a model review", string(domain.ModeSupervisor)),
					huh.NewOption("LLM agent: the model picks the tool", string(domain.ModeLLM)),
				).
				Value(&choice),
		),
	).WithTheme(autofinHuhTheme()).WithShowHelp(false)

	if err := form.Run(); err != nil {
		return "", err
	}
	return domain.AgentMode(choice), nil
}

// runLineChat serves a conversation over plain line-oriented streams.
func runLineChat(ctx context.Context, a *assistant.Assistant, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/clear":
			a.Clear()
			fmt.Fprintln(out, "Session cleared.")
			continue
		}
		fmt.Fprintln(out, a.Handle(ctx, line))
		fmt.Fprintln(out)
	}
	return sc.Err()
}
