// Package batch is the pairing and evaluation driver: it discovers reference
// and test images, pairs them by match key, runs the perceptual evaluator on
// every pair and writes one error map per pair.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/perceptualtools/refbatch/evaluator"
	"github.com/perceptualtools/refbatch/imageio"
	"github.com/perceptualtools/refbatch/pairing"
)

// Config carries every knob of a batch run. Nothing is read from globals or
// hardcoded paths.
type Config struct {
	RefDir  string
	TestDir string
	OutDir  string

	// Marker and Tag parameterize match-key extraction, see pairing.Extractor.
	Marker string
	Tag    string

	Mode evaluator.Mode
}

// Run executes one batch. A missing input directory aborts the run; per-pair
// evaluation and write failures are recorded in the report and the batch
// continues. The returned report is also logged as an end-of-run summary.
func Run(ctx context.Context, cfg Config, eval evaluator.Evaluator) (*Report, error) {
	refs, err := listImages(cfg.RefDir)
	if err != nil {
		return nil, fmt.Errorf("reference directory: %w", err)
	}
	tests, err := listImages(cfg.TestDir)
	if err != nil {
		return nil, fmt.Errorf("test directory: %w", err)
	}
	if err := imageio.EnsureDir(cfg.OutDir); err != nil {
		return nil, err
	}

	set := pairing.Match(refs, tests, pairing.Extractor{Marker: cfg.Marker, Tag: cfg.Tag})
	rep := NewReport(cfg)
	for _, s := range set.Skips {
		log.Warn().Str("test", s.Test).Msg(s.Reason)
		rep.Skipped = append(rep.Skipped, s)
	}
	for key, n := range set.Ambiguous {
		log.Warn().Str("key", key).Int("references", n).Msg("match key selects multiple references")
		rep.Ambiguous[key] = n
	}

	for _, p := range set.Pairs {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		res, err := eval.Evaluate(ctx, p.Ref, p.Test, cfg.Mode)
		if err != nil {
			log.Error().Err(err).Str("ref", p.Ref).Str("test", p.Test).Msg("evaluation failed")
			rep.Failed = append(rep.Failed, Outcome{Pair: p, Err: err.Error()})
			continue
		}
		out := filepath.Join(cfg.OutDir, OutputName(p.Key, res.MeanError))
		if err := imageio.SavePNG(out, res.ErrorMap); err != nil {
			log.Error().Err(err).Str("output", out).Msg("write failed")
			rep.Failed = append(rep.Failed, Outcome{Pair: p, Err: err.Error()})
			continue
		}
		log.Info().Str("key", p.Key).Float64("meanError", res.MeanError).Str("output", out).Msg("pair evaluated")
		rep.Evaluated = append(rep.Evaluated, Outcome{Pair: p, MeanError: res.MeanError, Output: out})
	}

	rep.LogSummary()
	return rep, nil
}

// OutputName is the deterministic output filename for a pair: the match key
// and the mean error printed with six decimal digits.
func OutputName(key string, meanError float64) string {
	return fmt.Sprintf("%s_%.6f.png", key, meanError)
}

// listImages returns the decodable image files at the top level of dir.
// os.ReadDir yields entries sorted by name, which keeps pair order, and with
// it output, reproducible across runs.
func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !decodable(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}

func decodable(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff", ".webp":
		return true
	}
	return false
}
