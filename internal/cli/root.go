// Package cli implements the signalctl command tree.
package cli

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"signaldesk/internal/logging"
)

var RootCmd = &cobra.Command{
	Use:   "signalctl",
	Short: "signaldesk offline tools",

	// SilenceUsage is an option to silence usage when an error occurs.
	SilenceUsage: true,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.Flags().GetBool("debug")
		level := "info"
		if debug {
			level = "debug"
		}
		logging.Setup(level, false)
	},
}

func init() {
	RootCmd.PersistentFlags().Bool("debug", false, "debug flag")
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		log.WithError(err).Error("command failed")
		os.Exit(1)
	}
}
