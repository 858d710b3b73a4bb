package cmd

import (
	"io"
	"os"

	"github.com/mishell-project/mishell/core/logger"
	"github.com/spf13/cobra"
)

var logsCmd = &cobra.Command{
	Use:     "logs",
	Aliases: []string{"log"},
	Short:   "Explore the interaction logs.",
}

// reportCmd summarizes an interaction log.
var reportCmd = &cobra.Command{
	Use:   "report [FILE]",
	Short: "Summarize an interaction log.",
	Long:  `Summarizes commands, sessions and login attempts from a JSON lines interaction log. Without a FILE argument the application log from the config directory is used.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		var source io.ReadCloser
		if len(args) == 1 {
			fd, err := os.Open(args[0])
			if err != nil {
				return err
			}
			source = fd
		} else {
			configuration, err := loadConfig()
			if err != nil {
				return err
			}
			fd, err := configuration.ReadAppLog()
			if err != nil {
				return err
			}
			source = fd
		}
		defer source.Close()

		report := logger.NewReport()
		if err := logger.ReadJSONLinesLog(source, report.Update); err != nil {
			return err
		}

		report.WriteTo(cmd.OutOrStdout())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.AddCommand(reportCmd)
}
