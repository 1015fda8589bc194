package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"tubesync/internal/logging"
)

var (
	logsLines  int
	logsExport string
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show or export the activity log",
	RunE:  runLogs,
}

func init() {
	logsCmd.Flags().IntVarP(&logsLines, "lines", "n", 50, "How many trailing lines to show")
	logsCmd.Flags().StringVar(&logsExport, "export", "", "Copy the log file to this path instead of printing")
	rootCmd.AddCommand(logsCmd)
}

func runLogs(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	if logsExport != "" {
		if err := logging.Export(cfg.LogFile, logsExport); err != nil {
			return err
		}
		fmt.Println(successStyle.Render("✓ Log exported to " + logsExport))
		return nil
	}

	lines, err := logging.Tail(cfg.LogFile, logsLines)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		fmt.Println(infoStyle.Render("Log is empty"))
		return nil
	}
	for _, line := range lines {
		fmt.Println(line)
	}
	return nil
}

func newLogHandler(out io.Writer, level slog.Level) *logging.Handler {
	return logging.NewHandler(out, logging.Options{Level: level})
}

func logFileWriter(path string) (*os.File, error) {
	return logging.Open(path)
}
