package cli

import (
	"fmt"

	"github.com/gonewx/zombiewash/pkg/game"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newDifficultyCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "difficulty",
		Short: "Show or change the saved difficulty",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get",
			Short: "Print the saved difficulty",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				d := opts.openSettings().Difficulty()
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%d)\n", d, int(d))
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <easy|normal|hard|0|1|2>",
			Short: "Save a new difficulty",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				d, err := game.ParseDifficulty(args[0])
				if err != nil {
					return err
				}
				if err := opts.openSettings().SetDifficulty(d); err != nil {
					return errors.Wrap(err, "save difficulty")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "difficulty set to %s\n", d)
				return nil
			},
		},
	)
	return cmd
}
