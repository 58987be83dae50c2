package cmd

import (
	"github.com/spf13/cobra"

	rendersession "github.com/bnema/mafia-engine/internal/adapters/render/session"
	"github.com/bnema/mafia-engine/internal/application"
	"github.com/bnema/mafia-engine/internal/domain"
)

func newSessionCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Open, inspect and close game sessions",
	}

	cmd.AddCommand(
		newSessionStartCmd(app),
		newSessionShowCmd(app),
		newSessionListCmd(app),
		newSessionCancelCmd(app),
		newSessionDeleteCmd(app),
	)

	return cmd
}

func newSessionStartCmd(app *app) *cobra.Command {
	var opts application.StartOptions

	cmd := &cobra.Command{
		Use:   "start <key>",
		Short: "Open signup for a new game with --as as host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			host, err := app.actor()
			if err != nil {
				return err
			}
			start, err := application.BuildStartCommand(domain.SessionKey(args[0]), host, opts)
			if err != nil {
				return err
			}

			session, err := app.service.StartSession(cmd.Context(), start)
			if err != nil {
				return err
			}
			printf(cmd, "Opened signup for %s until %s", session.Key, session.Phase.EndsAt.Format("2006-01-02 15:04 MST"))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.GuildID, "guild", "", "Guild or server the session belongs to")
	flags.StringVar(&opts.Preset, "preset", "", "Player cap preset (micro|normal|large|unlimited)")
	flags.IntVar(&opts.MinPlayers, "min", 0, "Minimum players (overrides preset)")
	flags.IntVar(&opts.MaxPlayers, "max", 0, "Maximum players (overrides preset)")
	flags.StringVar(&opts.Signup, "signup", "", "Signup duration, e.g. 30m, 2h, 1d or seconds")
	flags.StringVar(&opts.Day, "day", "", "Day phase duration, e.g. 24h (default from --length)")
	flags.StringVar(&opts.Night, "night", "", "Night phase duration, e.g. 8h (default from --length)")
	flags.BoolVar(&opts.NeutralsTeamed, "neutrals-teamed", false, "Neutral players share a private channel")
	flags.StringVar(&opts.RoleDensity, "density", "", "Role density (vanilla|light|heavy)")
	flags.StringVar(&opts.GameLength, "length", "", "Game length (quick|long|extended)")

	return cmd
}

func newSessionShowCmd(app *app) *cobra.Command {
	var asJSON bool
	var view string

	cmd := &cobra.Command{
		Use:   "show <key>",
		Short: "Show session status, roster or tally",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			selected, err := parseView(view)
			if err != nil {
				return err
			}
			session, err := app.service.GetSession(cmd.Context(), domain.SessionKey(args[0]))
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), summarize(session))
			}
			return app.renderSession(cmd, selected, session)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output summary as JSON")
	cmd.Flags().StringVar(&view, "view", string(rendersession.ViewStatus), "View to render (status|roster|tally)")

	return cmd
}

func newSessionListCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sessions, err := app.service.ListSessions(cmd.Context())
			if err != nil {
				return err
			}

			summaries := make([]sessionSummary, 0, len(sessions))
			for _, session := range sessions {
				summaries = append(summaries, summarize(session))
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), summaries)
			}
			for _, s := range summaries {
				printf(cmd, "%s\t%s %d\t%d players", sanitizeForTerminal(s.Key), s.Phase, s.Number, s.Players)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

func newSessionCancelCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <key>",
		Short: "Cancel a session (host, or --elevated)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			requester, err := app.actor()
			if err != nil {
				return err
			}
			session, err := app.service.CancelSession(cmd.Context(), application.CancelSessionCommand{
				Key:         domain.SessionKey(args[0]),
				RequesterID: requester,
				Elevated:    app.elevated,
			})
			if err != nil {
				return err
			}
			printf(cmd, "Session %s is %s", session.Key, session.Phase.Name)
			return nil
		},
	}
}

func newSessionDeleteCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>",
		Short: "Delete a finished or cancelled session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			requester, err := app.actor()
			if err != nil {
				return err
			}
			err = app.service.DeleteSession(cmd.Context(), application.DeleteSessionCommand{
				Key:         domain.SessionKey(args[0]),
				RequesterID: requester,
				Elevated:    app.elevated,
			})
			if err != nil {
				return err
			}
			printf(cmd, "Deleted session %s", args[0])
			return nil
		},
	}
}
