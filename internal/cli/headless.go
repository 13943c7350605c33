package cli

import (
	"fmt"
	"io"

	"github.com/gonewx/zombiewash/pkg/simulation"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newHeadlessCommand(opts *globalOptions) *cobra.Command {
	var (
		difficulty string
		duration   float64
		tps        int
		autopilot  bool
	)

	cmd := &cobra.Command{
		Use:   "headless",
		Short: "Run one shop session without a window and print the result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if tps <= 0 {
				return errors.Errorf("--tps must be positive, got %d", tps)
			}
			shopConfig, err := opts.loadShopConfig()
			if err != nil {
				return err
			}
			d, err := resolveDifficulty(difficulty, opts.openSettings())
			if err != nil {
				return err
			}

			shop, err := simulation.NewShop(shopConfig, simulation.Options{Difficulty: d, Autopilot: autopilot})
			if err != nil {
				return errors.Wrap(err, "create shop")
			}
			defer shop.Close()

			logger := log.WithField("run", shop.State().RunID)
			logger.Infof("headless run: %s, difficulty %s, %.0fs at %d tps", shopConfig.ID, d, duration, tps)

			snap := runLoop(cmd.Context(), shop, loopOptions{tps: tps, duration: duration})
			printSummary(cmd.OutOrStdout(), snap)

			logger.WithField("served", snap.Served).WithField("angered", snap.Angered).Info("headless run finished")
			return nil
		},
	}

	cmd.Flags().StringVar(&difficulty, "difficulty", "", "easy, normal or hard (default: saved setting)")
	cmd.Flags().Float64Var(&duration, "duration", 300, "simulated seconds before stopping")
	cmd.Flags().IntVar(&tps, "tps", 60, "simulation ticks per simulated second")
	cmd.Flags().BoolVar(&autopilot, "autopilot", false, "let the scripted clerk play")
	return cmd
}

// printSummary 打印一局结果
func printSummary(w io.Writer, snap simulation.Snapshot) {
	fmt.Fprint(w, simulation.FormatStatus(snap))

	outcome := "timeout"
	switch {
	case snap.Victory:
		outcome = "victory"
	case snap.GameOver:
		outcome = "defeat"
	}
	fmt.Fprintf(w, "result: %s  served %d/%d  angered %d  time %.1fs\n",
		outcome, snap.Served, snap.Spawned, snap.Angered, snap.Time)
}
