package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bnema/mafia-engine/internal/application"
)

func newTickCmd(app *app) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "tick",
		Short: "Advance every session whose deadline has passed, once",
		Long:  "tick runs one scheduler pass: signup deadlines extend or cancel, expired days and nights run their end-of-phase hook, and twilight moves to night. Run it from cron when no server is running.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			scheduler := application.NewScheduler(app.service, nil, application.SchedulerConfig{})

			var report application.TickReport
			var err error
			if quiet {
				report, err = scheduler.Tick(cmd.Context())
			} else {
				report, err = runTickSpinner(cmd.Context(), cmd.ErrOrStderr(), scheduler.Tick)
			}
			if err != nil {
				return err
			}

			printf(cmd, "checked %d, due %d, advanced %d, failed %d", report.Checked, report.Due, report.Processed, report.Failed)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Skip the progress spinner")

	return cmd
}
