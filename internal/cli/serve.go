package cli

import (
	"context"

	"github.com/gonewx/zombiewash/pkg/simulation"
	"github.com/gonewx/zombiewash/pkg/statusapi"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newServeCommand(opts *globalOptions) *cobra.Command {
	var (
		addr       string
		difficulty string
		tps        int
		autopilot  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the shop in real time without a window and expose its state over HTTP",
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
			holder := &simulation.SnapshotHolder{}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			done := make(chan struct{})
			go func() {
				defer close(done)
				snap := runLoop(ctx, shop, loopOptions{tps: tps, realtime: true, holder: holder})
				logger.Infof("simulation stopped at %.1fs (victory=%v, gameOver=%v)", snap.Time, snap.Victory, snap.GameOver)
			}()

			server := statusapi.New(holder, true)
			err = server.Serve(ctx, addr)
			cancel()
			<-done
			return errors.Wrap(err, "status server")
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&difficulty, "difficulty", "", "easy, normal or hard (default: saved setting)")
	cmd.Flags().IntVar(&tps, "tps", 60, "simulation ticks per second")
	cmd.Flags().BoolVar(&autopilot, "autopilot", true, "let the scripted clerk play")
	return cmd
}
