package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"signaldesk/internal/domain"
	"signaldesk/internal/markethours"
)

func init() {
	HoursCmd.Flags().String("schedule", "", "market hours YAML file (defaults to the built-in schedule)")
	HoursCmd.Flags().String("at", "", "evaluate at this RFC3339 time instead of now")
	RootCmd.AddCommand(HoursCmd)
}

var HoursCmd = &cobra.Command{
	Use:          "hours",
	Short:        "show which assets are open",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("schedule")
		cal, err := markethours.Load(path)
		if err != nil {
			return err
		}

		now, err := parseAt(cmd)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "at %s\n", now.In(cal.Location()).Format("Mon 2006-01-02 15:04 MST"))
		for _, a := range domain.Assets {
			status := "closed"
			if cal.IsOpen(a, now) {
				status = "open"
			}
			fmt.Fprintf(out, "%-14s %s\n", a, status)
		}
		return nil
	},
}
