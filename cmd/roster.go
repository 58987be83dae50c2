package cmd

import (
	"github.com/spf13/cobra"

	rendersession "github.com/bnema/mafia-engine/internal/adapters/render/session"
	"github.com/bnema/mafia-engine/internal/application"
	"github.com/bnema/mafia-engine/internal/domain"
)

func newRosterCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Join, leave and show the signup roster",
	}

	cmd.AddCommand(
		newRosterJoinCmd(app),
		newRosterWithdrawCmd(app),
		newRosterShowCmd(app),
	)

	return cmd
}

func newRosterJoinCmd(app *app) *cobra.Command {
	var name string
	var tentative bool

	cmd := &cobra.Command{
		Use:   "join <key>",
		Short: "Join signup as --as (use --tentative for a soft signup)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := app.actor()
			if err != nil {
				return err
			}
			join := application.JoinCommand{Key: domain.SessionKey(args[0]), PlayerID: player, DisplayName: name}

			if tentative {
				if _, err := app.service.JoinTentative(cmd.Context(), join); err != nil {
					return err
				}
				printf(cmd, "Player %d signed up tentatively for %s", player, join.Key)
				return nil
			}

			result, err := app.service.Join(cmd.Context(), join)
			if err != nil {
				return err
			}
			switch {
			case result.NoOp:
				printf(cmd, "Player %d is already signed up for %s", player, join.Key)
			case result.Promoted:
				printf(cmd, "Player %d is now fully signed up for %s", player, join.Key)
			default:
				printf(cmd, "Player %d joined %s", player, join.Key)
			}
			if result.Evicted != nil {
				printf(cmd, "Tentative player %d lost their slot", *result.Evicted)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().BoolVar(&tentative, "tentative", false, "Sign up tentatively")

	return cmd
}

func newRosterWithdrawCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw <key>",
		Short: "Leave signup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := app.actor()
			if err != nil {
				return err
			}
			key := domain.SessionKey(args[0])
			if _, err := app.service.Withdraw(cmd.Context(), application.WithdrawCommand{Key: key, PlayerID: player}); err != nil {
				return err
			}
			printf(cmd, "Player %d left %s", player, key)
			return nil
		},
	}
}

func newRosterShowCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <key>",
		Short: "Show the roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := app.service.GetSession(cmd.Context(), domain.SessionKey(args[0]))
			if err != nil {
				return err
			}
			return app.renderSession(cmd, rendersession.ViewRoster, session)
		},
	}
}
