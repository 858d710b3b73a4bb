package cmd

import (
	"errors"
	"io/fs"
	"os"

	"github.com/mishell-project/mishell/core"
	"github.com/mishell-project/mishell/core/config"
	"github.com/mishell-project/mishell/core/logger"
	"github.com/spf13/cobra"
)

var recordPath string

// runCmd starts an interactive shell on the current terminal.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start an interactive shell on the current terminal.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, err := config.Load(cfgPath)
		if errors.Is(err, fs.ErrNotExist) {
			// Local sessions don't need an initialized directory.
			configuration = config.Default()
		} else if err != nil {
			return err
		}

		appLog, err := configuration.OpenAppLog()
		if err != nil {
			return err
		}
		defer appLog.Close()

		sio := core.SessionIO{
			Stdin:  os.Stdin,
			Stdout: cmd.OutOrStdout(),
			Stderr: cmd.ErrOrStderr(),
			IsPTY:  true,
		}

		if recordPath != "" {
			transcript, err := os.Create(recordPath)
			if err != nil {
				return err
			}
			defer transcript.Close()
			sio = core.RecordSession(sio, transcript)
		}

		sessionLog := logger.NewJSONLinesRecorder(appLog).NewSession()
		shell, err := core.NewShell(sio, configuration, sessionLog, core.ShellOptions{
			Env: os.Environ(),
		})
		if err != nil {
			return err
		}
		defer shell.Close()

		return shell.Run()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&recordPath, "record", "", "write a transcript of the session to this file")
}
