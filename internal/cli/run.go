package cli

import (
	"github.com/gonewx/zombiewash/pkg/app"
	"github.com/gonewx/zombiewash/pkg/simulation"
	"github.com/gonewx/zombiewash/pkg/statusapi"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newRunCommand(opts *globalOptions) *cobra.Command {
	var (
		difficulty string
		autopilot  bool
		statusAddr string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the shop window",
		RunE: func(cmd *cobra.Command, _ []string) error {
			shopConfig, err := opts.loadShopConfig()
			if err != nil {
				return err
			}
			settings := opts.openSettings()
			d, err := resolveDifficulty(difficulty, settings)
			if err != nil {
				return err
			}

			holder := &simulation.SnapshotHolder{}
			a, err := app.NewApp(app.Config{
				Shop:     shopConfig,
				Options:  simulation.Options{Difficulty: d, Autopilot: autopilot},
				Settings: settings,
				Holder:   holder,
				Verbose:  log.IsLevelEnabled(log.DebugLevel),
			})
			if err != nil {
				return errors.Wrap(err, "create app")
			}

			if statusAddr != "" {
				server := statusapi.New(holder, true)
				go func() {
					if err := server.Serve(cmd.Context(), statusAddr); err != nil {
						log.Warnf("[CLI] status server stopped: %v", err)
					}
				}()
			}

			return app.Run(a)
		},
	}

	cmd.Flags().StringVar(&difficulty, "difficulty", "", "easy, normal or hard (default: saved setting)")
	cmd.Flags().BoolVar(&autopilot, "autopilot", false, "let the scripted clerk play")
	cmd.Flags().StringVar(&statusAddr, "status-addr", "", "also serve the status API on this address")
	return cmd
}
