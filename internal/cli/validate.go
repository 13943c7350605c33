package cli

import (
	"fmt"

	"github.com/gonewx/zombiewash/pkg/config"
	"github.com/gonewx/zombiewash/pkg/types"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a shop config file and print its layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadShopConfig(args[0])
			if err != nil {
				return errors.Wrap(err, "validate")
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s: %s\n", cfg.ID, cfg.Name)
			for _, d := range []types.Difficulty{types.DifficultyEasy, types.DifficultyNormal, types.DifficultyHard} {
				waves := cfg.WavesFor(d)
				customers := 0
				for _, wave := range waves {
					customers += wave.ZombiesCount
				}
				fmt.Fprintf(w, "  %-6s %d waves, %d customers\n", d, len(waves), customers)
			}
			fmt.Fprintf(w, "  %d service points, %d spawn points, %d delivery points, %d machines\n",
				len(cfg.ServicePoints), len(cfg.SpawnPoints), len(cfg.DeliveryPoints), len(cfg.WashingMachines))
			return nil
		},
	}
}
