package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/mafia-engine/internal/application"
	"github.com/bnema/mafia-engine/internal/domain"
)

func newDebugCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "debug",
		Short: "Host-only test tools: synthetic players, kills and role overrides",
	}

	cmd.AddCommand(
		newDebugToggleCmd(app, "on", true),
		newDebugToggleCmd(app, "off", false),
		newDebugAddCmd(app),
		newDebugRemoveCmd(app),
		newDebugVoteCmd(app),
		newDebugStatusCmd(app, "kill", domain.PlayerDead),
		newDebugStatusCmd(app, "revive", domain.PlayerAlive),
		newDebugAssignCmd(app),
	)

	return cmd
}

func newDebugToggleCmd(app *app, use string, enabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <key>",
		Short: fmt.Sprintf("Turn debug mode %s", use),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			host, err := app.actor()
			if err != nil {
				return err
			}
			session, err := app.service.SetDebugMode(cmd.Context(), application.SetDebugModeCommand{
				Key:         domain.SessionKey(args[0]),
				RequesterID: host,
				Enabled:     enabled,
			})
			if err != nil {
				return err
			}
			printf(cmd, "Debug mode %s for %s", use, session.Key)
			return nil
		},
	}
}

func newDebugAddCmd(app *app) *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "add <key> <name>",
		Short: "Add a synthetic player",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			host, err := app.actor()
			if err != nil {
				return err
			}
			player, err := app.service.AddSyntheticPlayer(cmd.Context(), application.AddSyntheticPlayerCommand{
				Key:         domain.SessionKey(args[0]),
				RequesterID: host,
				Name:        args[1],
				Role:        role,
			})
			if err != nil {
				return err
			}
			printf(cmd, "Added synthetic player %s (%d)", sanitizeForTerminal(player.DisplayName), player.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "Role to give the player")

	return cmd
}

func newDebugRemoveCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <key> <name>",
		Short: "Remove a synthetic player",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			host, err := app.actor()
			if err != nil {
				return err
			}
			_, err = app.service.RemoveSyntheticPlayer(cmd.Context(), application.RemoveSyntheticPlayerCommand{
				Key:         domain.SessionKey(args[0]),
				RequesterID: host,
				Name:        args[1],
			})
			if err != nil {
				return err
			}
			printf(cmd, "Removed synthetic player %s", sanitizeForTerminal(args[1]))
			return nil
		},
	}
}

func newDebugVoteCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "vote <key> <synthetic> [target]",
		Short: "Vote as a synthetic player; no target retracts its vote",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			host, err := app.actor()
			if err != nil {
				return err
			}
			vote := application.SyntheticVoteCommand{
				Key:         domain.SessionKey(args[0]),
				RequesterID: host,
				Voter:       args[1],
			}
			if len(args) == 3 {
				vote.Target = args[2]
			}

			result, err := app.service.SyntheticVote(cmd.Context(), vote)
			if err != nil {
				return err
			}
			if result.Hammered {
				printf(cmd, "%s has been hammered", sanitizeForTerminal(result.Session.DisplayName(result.Tally.HammeredID)))
			}
			return nil
		},
	}
}

func newDebugStatusCmd(app *app, use string, status domain.PlayerStatus) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <key> <player>",
		Short: fmt.Sprintf("Mark a player %s", status),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			host, err := app.actor()
			if err != nil {
				return err
			}
			key := domain.SessionKey(args[0])
			player, err := app.resolvePlayer(cmd.Context(), key, args[1])
			if err != nil {
				return err
			}
			session, err := app.service.SetPlayerStatus(cmd.Context(), application.SetPlayerStatusCommand{
				Key:         key,
				RequesterID: host,
				PlayerID:    player,
				Status:      status,
			})
			if err != nil {
				return err
			}
			printf(cmd, "%s is %s", sanitizeForTerminal(session.DisplayName(player)), status)
			return nil
		},
	}
}

func newDebugAssignCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "assign <key> <player> <role>",
		Short: "Override a player's role",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			host, err := app.actor()
			if err != nil {
				return err
			}
			key := domain.SessionKey(args[0])
			player, err := app.resolvePlayer(cmd.Context(), key, args[1])
			if err != nil {
				return err
			}
			session, err := app.service.AssignDebugRole(cmd.Context(), application.AssignDebugRoleCommand{
				Key:         key,
				RequesterID: host,
				PlayerID:    player,
				Role:        args[2],
			})
			if err != nil {
				return err
			}
			printf(cmd, "%s is now %s", sanitizeForTerminal(session.DisplayName(player)), sanitizeForTerminal(args[2]))
			return nil
		},
	}
}
