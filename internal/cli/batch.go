package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"netra/internal/display"
	"netra/internal/logger"
	"netra/internal/mission"
	"netra/internal/pipeline"
)

var (
	batchParallel int
	batchJSON     bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Run one mission per line of a file",
	Long: `Runs one mission per non-empty line ('#' starts a comment). Missions are
independent and may run concurrently; each one still runs its own stages
strictly in order. Output follows the order of the file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		queries, err := readQueries(f)
		if err != nil {
			return err
		}
		states, err := runBatch(cmd.Context(), queries, batchParallel)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if batchJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(states)
		}
		for _, st := range states {
			fmt.Fprintln(out, display.FormatMission(st))
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().IntVarP(&batchParallel, "parallel", "p", 2, "maximum missions in flight")
	batchCmd.Flags().BoolVar(&batchJSON, "json", false, "print mission states as a JSON array")
}

func readQueries(r io.Reader) ([]string, error) {
	var queries []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		queries = append(queries, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read queries: %w", err)
	}
	return queries, nil
}

// Each mission gets its own config and clients, so nothing is shared
// between goroutines except the result slot it owns.
func runBatch(ctx context.Context, queries []string, parallel int) ([]*mission.State, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if parallel < 1 {
		parallel = 1
	}
	batchID := uuid.New().String()[:8]
	states := make([]*mission.State, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, q := range queries {
		g.Go(func() error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("mission %d: %w", i+1, err)
			}
			logger.Log.Info().Str("batch", batchID).Int("mission", i+1).Str("query", q).Msg("batch mission started")
			st, _ := pipeline.Build(cfg).Run(gctx, q)
			states[i] = st
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return states, nil
}
