package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"netra/internal/display"
	"netra/internal/listener"
	"netra/internal/supervisor"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive prompt; missions run in the background one at a time",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := listener.Init(historyPath()); err != nil {
			return fmt.Errorf("failed to init terminal input: %w", err)
		}
		defer listener.Close()

		sup := supervisor.New(loadConfig)
		sup.Start(context.Background())
		done := make(chan struct{})
		go func() {
			defer close(done)
			for result := range sup.Results() {
				listener.AsyncPrintln(fmt.Sprintf("[Mission %s %s]", result.MissionID, result.Status))
				listener.AsyncPrintln(display.FormatMission(result.State))
			}
		}()

		listener.AsyncPrintln(`Ask NETRA (e.g. "Show me floods in Chennai last week"). Type 'exit' or press Ctrl+D to quit.`)
		for {
			input, err := listener.GetInput()
			if err != nil {
				break
			}
			if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
				break
			}
			if input == "" {
				continue
			}
			id := sup.Submit(input)
			listener.AsyncPrintln(fmt.Sprintf("[Mission %s QUEUED] Contacting satellite networks...", id))
		}

		sup.Stop()
		<-done
		fmt.Fprintln(cmd.OutOrStdout(), "Goodbye!")
		return nil
	},
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".netra_history")
}
