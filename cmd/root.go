package cmd

import (
	"github.com/spf13/cobra"
)

// skipWire marks commands that run without a session store.
const skipWire = "skip-wire"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	app := newApp()

	rootCmd := &cobra.Command{
		Use:           "mafia",
		Short:         "Mafia game engine: run signup, roles, day/night phases and votes",
		Long:          "mafia drives Mafia game sessions from the terminal: open signup, join, configure factions, assign roles, cast votes, and run the phase scheduler or the HTTP server.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if _, ok := cmd.Annotations[skipWire]; ok {
				return nil
			}
			return app.wire(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return app.close()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.Int64Var(&app.actorID, "as", 0, "Player ID acting on the session")
	flags.BoolVar(&app.elevated, "elevated", false, "Act with moderator privileges (force cancel/delete)")
	flags.StringVar(&app.logLevel, "log-level", "warn", "Log level (debug|info|warn|error)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newSessionCmd(app),
		newRosterCmd(app),
		newRolesCmd(app),
		newPhaseCmd(app),
		newVoteCmd(app),
		newDebugCmd(app),
		newTickCmd(app),
		newServeCmd(app),
	)

	return rootCmd
}
