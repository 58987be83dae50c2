package cmd

import (
	"github.com/spf13/cobra"

	rendersession "github.com/bnema/mafia-engine/internal/adapters/render/session"
	"github.com/bnema/mafia-engine/internal/application"
	"github.com/bnema/mafia-engine/internal/domain"
)

func newVoteCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vote",
		Short: "Cast, retract and count lynch votes",
	}

	cmd.AddCommand(
		newVoteCastCmd(app),
		newVoteRetractCmd(app),
		newVoteTallyCmd(app),
	)

	return cmd
}

func newVoteCastCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cast <key> <player>",
		Short: "Vote for a player by id or display name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			voter, err := app.actor()
			if err != nil {
				return err
			}
			key := domain.SessionKey(args[0])
			target, err := app.resolvePlayer(cmd.Context(), key, args[1])
			if err != nil {
				return err
			}

			result, err := app.service.CastVote(cmd.Context(), application.CastVoteCommand{Key: key, VoterID: voter, TargetID: target})
			if err != nil {
				return err
			}
			if result.Hammered {
				printf(cmd, "%s has been hammered", sanitizeForTerminal(result.Session.DisplayName(target)))
			}
			return nil
		},
	}
}

func newVoteRetractCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "retract <key>",
		Short: "Withdraw your current vote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			voter, err := app.actor()
			if err != nil {
				return err
			}
			_, err = app.service.RetractVote(cmd.Context(), application.RetractVoteCommand{Key: domain.SessionKey(args[0]), VoterID: voter})
			return err
		},
	}
}

func newVoteTallyCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tally <key>",
		Short: "Show the vote count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := domain.SessionKey(args[0])
			if asJSON {
				tally, err := app.service.Tally(cmd.Context(), key)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), tally)
			}

			session, err := app.service.GetSession(cmd.Context(), key)
			if err != nil {
				return err
			}
			return app.renderSession(cmd, rendersession.ViewTally, session)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}
