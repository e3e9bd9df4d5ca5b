package cmd

import (
	"github.com/spf13/cobra"

	"github.com/perceptualtools/refbatch/batch"
	"github.com/perceptualtools/refbatch/evaluator"
)

var runFlags struct {
	refDir  string
	testDir string
	outDir  string
	marker  string
	tag     string
	mode    string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Pair and evaluate every test image against the reference set",
	Long: `Run discovers the images in the reference and test directories, derives a
match key from each test filename, evaluates every reference whose path
contains that key against the test image, and writes one error map per pair
into the output directory, named <key>_<meanError>.png.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := evaluator.ParseMode(runFlags.mode)
		if err != nil {
			return err
		}
		cfg := batch.Config{
			RefDir:  runFlags.refDir,
			TestDir: runFlags.testDir,
			OutDir:  runFlags.outDir,
			Marker:  runFlags.marker,
			Tag:     runFlags.tag,
			Mode:    mode,
		}
		rep, err := batch.Run(cmd.Context(), cfg, evaluator.Perceptual{})
		if err != nil {
			return err
		}
		if !rep.Clean() {
			return errPartialFailure
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runFlags.refDir, "ref-dir", "dump/ref", "reference image directory")
	runCmd.Flags().StringVar(&runFlags.testDir, "test-dir", "dump/test", "test image directory")
	runCmd.Flags().StringVar(&runFlags.outDir, "out-dir", "dump/results", "error map output directory, created if missing")
	runCmd.Flags().StringVar(&runFlags.marker, "marker", "test", "path marker preceding the test filename")
	runCmd.Flags().StringVar(&runFlags.tag, "tag", "GI-1.1", "experiment tag ending the match key")
	runCmd.Flags().StringVar(&runFlags.mode, "mode", "LDR", "dynamic-range mode, LDR or HDR")
	rootCmd.AddCommand(runCmd)
}
