package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/mafia-engine/internal/application"
	"github.com/bnema/mafia-engine/internal/domain"
)

func newPhaseCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phase",
		Short: "Inspect and move the day/night cycle",
	}

	cmd.AddCommand(
		newPhaseAdvanceCmd(app),
		newPhaseTimeCmd(app),
	)

	return cmd
}

func newPhaseAdvanceCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "advance <key> <day|night>",
		Short: "Move the game to the next day or night (host only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			host, err := app.actor()
			if err != nil {
				return err
			}
			target, err := application.ParsePhase(args[1])
			if err != nil {
				return err
			}
			session, err := app.service.AdvancePhaseManually(cmd.Context(), application.AdvancePhaseCommand{
				Key:         domain.SessionKey(args[0]),
				RequesterID: host,
				Target:      target,
			})
			if err != nil {
				return err
			}
			printf(cmd, "%s is now %s %d", session.Key, session.Phase.Name, session.Phase.Number)
			return nil
		},
	}
}

func newPhaseTimeCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "time <key>",
		Short: "Show the current phase and time left",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := app.service.PhaseStatus(cmd.Context(), domain.SessionKey(args[0]))
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), status)
			}

			printf(cmd, "%s %d", status.Phase, status.Number)
			if status.Remaining > 0 {
				printf(cmd, "ends %s (in %s)", status.EndsAt.Format("2006-01-02 15:04 MST"), status.Remaining.Truncate(time.Second))
			} else {
				printf(cmd, "deadline passed at %s", status.EndsAt.Format("2006-01-02 15:04 MST"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}
