package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"netra/internal/display"
	"netra/internal/pipeline"
)

var (
	searchJSON    bool
	searchMetrics bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Run one mission and print the scenes found",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.TrimSpace(strings.Join(args, " "))
		if query == "" {
			return fmt.Errorf("query is empty")
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		st, mm := pipeline.Build(cfg).Run(ctx, query)

		out := cmd.OutOrStdout()
		if searchJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(st)
		}
		fmt.Fprintln(out, display.FormatMission(st))
		if searchMetrics {
			fmt.Fprint(out, display.FormatMissionMetrics(mm))
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "print the mission state as JSON")
	searchCmd.Flags().BoolVar(&searchMetrics, "metrics", false, "print per-stage timings")
}
