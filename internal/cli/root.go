package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/strive/internal/cli/formatter"
	"github.com/alexanderramin/strive/internal/domain"
	"github.com/alexanderramin/strive/internal/repository"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the top-level "strive" command. Running it with no
// subcommand starts the goal-creation TUI.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "strive",
		Short: "Guided goal creation: definition, phases, daily schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && !app.IsInteractive() {
				return fmt.Errorf("strive needs an interactive terminal; see 'strive --help' for subcommands")
			}
			return RunTUI(app)
		},
	}

	root.AddCommand(
		newLoginCmd(app),
		newLogoutCmd(app),
		newTranscriptCmd(app),
	)

	return root
}

// RunTUI runs the wizard in the alternate screen until the user quits.
func RunTUI(app *App) error {
	p := tea.NewProgram(newWizardModel(app), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newLoginCmd(app *App) *cobra.Command {
	var tokenFlag string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store the backend API token",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			token := strings.TrimSpace(tokenFlag)
			if token == "" {
				form := huh.NewForm(huh.NewGroup(
					huh.NewInput().
						Title("API token").
						EchoMode(huh.EchoModePassword).
						Value(&token).
						Validate(notEmpty("token")),
				))
				if err := form.Run(); err != nil {
					return err
				}
			}

			if err := app.Credentials.SaveToken(ctx, token); err != nil {
				return err
			}
			fmt.Println("Token saved.")
			return nil
		},
	}

	cmd.Flags().StringVar(&tokenFlag, "token", "", "API token (prompted for when omitted)")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored API token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Credentials.Clear(context.Background()); err != nil {
				return err
			}
			fmt.Println("Token cleared.")
			return nil
		},
	}
}

func newTranscriptCmd(app *App) *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "transcript",
		Short: "Show or clear the saved wizard conversation",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if clear {
				if err := app.Transcript.Clear(ctx); err != nil {
					return err
				}
				fmt.Println("Transcript cleared.")
				return nil
			}

			messages, err := app.Transcript.List(ctx)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return err
			}
			if len(messages) == 0 {
				fmt.Println("No conversation recorded yet.")
				return nil
			}

			for _, m := range messages {
				speaker := "You"
				if m.Role == domain.RoleAssistant {
					speaker = "Coach"
				}
				stamp := formatter.Dim(m.CreatedAt.Local().Format("2006-01-02 15:04"))
				fmt.Printf("%s %s: %s\n", stamp, formatter.Bold(speaker), m.Content)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "Delete the saved conversation")
	return cmd
}
