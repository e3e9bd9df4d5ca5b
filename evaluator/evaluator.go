// Package evaluator defines the perceptual-evaluation contract of the batch
// driver and its production implementation. The metric itself is owned by an
// external library; this package only depends on its call surface.
package evaluator

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/xswordsx/perceptualdiff"

	"github.com/perceptualtools/refbatch/imageio"
)

// Mode selects the dynamic-range semantics of a comparison. It is chosen by
// the caller, never inferred from file content.
type Mode string

const (
	LDR Mode = "LDR"
	HDR Mode = "HDR"
)

// ParseMode converts a user-supplied string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToUpper(s)) {
	case LDR:
		return LDR, nil
	case HDR:
		return HDR, nil
	}
	return "", fmt.Errorf("unknown dynamic-range mode %q (want LDR or HDR)", s)
}

// Result is the outcome of evaluating one reference/test pair.
type Result struct {
	// ErrorMap visualizes where the pair differs. Never nil on success.
	ErrorMap *image.RGBA

	// MeanError is the evaluator's error sum normalized per pixel.
	MeanError float64

	// Params is the parameter set the evaluation ran with, kept opaque.
	Params perceptualdiff.Parameters
}

// Evaluator compares a reference image against a test image.
type Evaluator interface {
	Evaluate(ctx context.Context, refPath, testPath string, mode Mode) (Result, error)
}

// Perceptual evaluates pairs with Yee's perceptual metric.
type Perceptual struct{}

// Evaluate loads both images and runs the metric with the parameter set
// selected by mode. Mismatched dimensions fail the pair; binary-identical
// inputs yield a zero error map.
func (Perceptual) Evaluate(ctx context.Context, refPath, testPath string, mode Mode) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	params, err := mode.params()
	if err != nil {
		return Result{}, err
	}
	refImg, err := imageio.Load(refPath)
	if err != nil {
		return Result{}, err
	}
	testImg, err := imageio.Load(testPath)
	if err != nil {
		return Result{}, err
	}

	ref := imageio.EnsureRGBA(refImg)
	test := imageio.EnsureRGBA(testImg)
	if ref.Bounds().Size() != test.Bounds().Size() {
		return Result{}, fmt.Errorf("evaluate %s vs %s: dimensions %v and %v do not match",
			refPath, testPath, ref.Bounds().Size(), test.Bounds().Size())
	}

	_, cmp := perceptualdiff.YeeCompare(ref, test, params, nil)
	errorMap := cmp.ImageDifference
	if errorMap == nil {
		errorMap = imageio.ZeroMap(ref.Bounds())
	}
	size := ref.Bounds().Size()
	return Result{
		ErrorMap:  errorMap,
		MeanError: cmp.ErrorSum / float64(size.X*size.Y),
		Params:    params,
	}, nil
}

// params maps a mode onto the metric's parameter set. LDR keeps the
// display-referred defaults; HDR assumes linear-encoded input viewed at a
// higher adaptation luminance.
func (m Mode) params() (perceptualdiff.Parameters, error) {
	p := perceptualdiff.DefaultParameters
	switch m {
	case LDR:
	case HDR:
		p.Gamma = 1.0
		p.Luminance = 250.0
	default:
		return p, fmt.Errorf("unknown dynamic-range mode %q", string(m))
	}
	return p, nil
}
