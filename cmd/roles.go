package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bnema/mafia-engine/internal/application"
	"github.com/bnema/mafia-engine/internal/domain"
)

func newRolesCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roles",
		Short: "Configure factions and deal roles",
	}

	cmd.AddCommand(
		newRolesFactionsCmd(app),
		newRolesSuggestCmd(),
		newRolesStartCmd(app),
	)

	return cmd
}

func newRolesFactionsCmd(app *app) *cobra.Command {
	var mafia, neutral int
	var neutralsTeamed bool

	cmd := &cobra.Command{
		Use:   "factions <key>",
		Short: "Set mafia and neutral counts (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			host, err := app.actor()
			if err != nil {
				return err
			}
			session, err := app.service.SetFactionCounts(cmd.Context(), application.SetFactionCountsCommand{
				Key:            domain.SessionKey(args[0]),
				RequesterID:    host,
				MafiaCount:     mafia,
				NeutralCount:   neutral,
				NeutralsTeamed: neutralsTeamed,
			})
			if err != nil {
				return err
			}
			printf(cmd, "%s: %d mafia, %d neutral, %d town", session.Key, mafia, neutral, session.RosterSize()-mafia-neutral)
			return nil
		},
	}

	cmd.Flags().IntVar(&mafia, "mafia", 0, "Number of mafia players")
	cmd.Flags().IntVar(&neutral, "neutral", 0, "Number of neutral players")
	cmd.Flags().BoolVar(&neutralsTeamed, "neutrals-teamed", false, "Neutral players share a private channel")
	_ = cmd.MarkFlagRequired("mafia")

	return cmd
}

func newRolesSuggestCmd() *cobra.Command {
	var players int
	var density string

	cmd := &cobra.Command{
		Use:         "suggest",
		Short:       "Suggest a mafia count for a player total",
		Annotations: map[string]string{skipWire: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsed, err := domain.ParseRoleDensity(density)
			if err != nil {
				return err
			}
			printf(cmd, "%d", domain.SuggestedMafiaCount(players, parsed))
			return nil
		},
	}

	cmd.Flags().IntVar(&players, "players", 0, "Total number of players")
	cmd.Flags().StringVar(&density, "density", "", "Role density (vanilla|light|heavy)")
	_ = cmd.MarkFlagRequired("players")

	return cmd
}

func newRolesStartCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "start <key>",
		Short: "Deal roles and start Day 1 (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			host, err := app.actor()
			if err != nil {
				return err
			}
			session, err := app.service.AssignRolesAndStart(cmd.Context(), application.AssignRolesCommand{
				Key:         domain.SessionKey(args[0]),
				RequesterID: host,
			})
			if err != nil {
				return err
			}
			printf(cmd, "%s started: %s %d", session.Key, session.Phase.Name, session.Phase.Number)
			return nil
		},
	}
}
