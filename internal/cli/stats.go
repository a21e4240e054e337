package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show hiring pipeline counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(configFrom(cmd.Context()), nil)
			if err != nil {
				return err
			}
			defer e.close()

			o, err := e.dashboard.Overview(cmd.Context(), operator)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render("Hiring Overview"))
			fmt.Fprintf(out, "%s %d\n", labelStyle.Render("Total applications:"), o.Stats.TotalApplications)
			fmt.Fprintf(out, "%s %d\n", labelStyle.Render("Pending review:"), o.Stats.PendingApplications)
			fmt.Fprintf(out, "%s %d\n", labelStyle.Render("Active jobs:"), o.Stats.ActiveJobs)
			fmt.Fprintf(out, "%s %d\n", labelStyle.Render("Staff accounts:"), o.Stats.TotalUsers)

			if len(o.RecentApplications) == 0 {
				return nil
			}
			fmt.Fprintln(out, titleStyle.Render("Recent Applications"))
			rows := make([][]string, 0, len(o.RecentApplications))
			for _, a := range o.RecentApplications {
				rows = append(rows, []string{
					a.FirstName + " " + a.LastName,
					a.JobTitle,
					string(a.Status),
					a.CreatedAt.Format("Jan 2, 2006"),
				})
			}
			renderTable(out, []string{"Candidate", "Position", "Status", "Applied"}, rows)
			return nil
		},
	}
}
