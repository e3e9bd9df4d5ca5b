package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/perceptualtools/refbatch/evaluator"
	"github.com/perceptualtools/refbatch/imageio"
)

var compareFlags struct {
	mode string
	out  string
}

var compareCmd = &cobra.Command{
	Use:   "compare REFERENCE TEST",
	Short: "Evaluate a single reference/test pair",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := evaluator.ParseMode(compareFlags.mode)
		if err != nil {
			return err
		}
		res, err := evaluator.Perceptual{}.Evaluate(cmd.Context(), args[0], args[1], mode)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "mean perceptual error: %.6f\n", res.MeanError)
		if compareFlags.out != "" {
			if err := imageio.SavePNG(compareFlags.out, res.ErrorMap); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	compareCmd.Flags().StringVar(&compareFlags.mode, "mode", "LDR", "dynamic-range mode, LDR or HDR")
	compareCmd.Flags().StringVar(&compareFlags.out, "out", "", "write the error map to this path")
	rootCmd.AddCommand(compareCmd)
}
