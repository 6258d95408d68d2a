package pipeline

import (
	"fmt"
	"time"

	"github.com/ironsheep/maprdy-mcp/internal/filter"
	"github.com/ironsheep/maprdy-mcp/internal/logging"
	"github.com/ironsheep/maprdy-mcp/internal/raster"
)

// Stage names one step of the fixed processing order.
type Stage string

// The stages in the order Process runs them.
const (
	StageCaptureMasks      Stage = "capture_masks"
	StageThreshold         Stage = "threshold"
	StageInvert            Stage = "invert"
	StageBlackText         Stage = "black_text"
	StageThickenText       Stage = "thicken_text"
	StageRemoveFerryLines  Stage = "remove_ferry_lines"
	StageWarp              Stage = "warp"
	StageEdgeDetection     Stage = "edge_detection"
	StageThickenCoastlines Stage = "thicken_coastlines"
)

// restoreMasks reports whether a laser-mode invert restores text, roads
// or water from masks taken before thresholding.
func restoreMasks(s Settings) bool {
	return s.LaserMode && s.Invert && (s.BlackText || s.BlackRoads || s.WhiteWater)
}

// Stages returns the stages Process runs for s, in order. Thresholding
// always runs.
func Stages(s Settings) []Stage {
	var out []Stage
	if restoreMasks(s) {
		out = append(out, StageCaptureMasks)
	}
	out = append(out, StageThreshold)
	if s.Invert {
		out = append(out, StageInvert)
	}
	if s.BlackText && !s.Invert {
		out = append(out, StageBlackText)
	}
	if s.ThickenText {
		out = append(out, StageThickenText)
	}
	if s.RemoveFerryLines {
		out = append(out, StageRemoveFerryLines)
	}
	if s.WarpLevel > 0 {
		out = append(out, StageWarp)
	}
	if s.EdgeDetection && !s.LaserMode {
		out = append(out, StageEdgeDetection)
	}
	if s.ThickenCoastlines {
		out = append(out, StageThickenCoastlines)
	}
	return out
}

// masks holds the pre-threshold captures restored after a laser invert.
type masks struct {
	text  *filter.Mask
	roads *filter.Mask
	water *filter.Mask
}

func captureMasks(r *raster.Raster, s Settings) masks {
	var m masks
	if s.BlackText {
		m.text = filter.Capture(r, filter.TextPredicate)
	}
	if s.BlackRoads {
		m.roads = filter.Capture(r, filter.RoadPredicate)
	}
	if s.WhiteWater {
		m.water = filter.Capture(r, filter.WaterPredicate)
	}
	return m
}

func (m masks) restore(r *raster.Raster) {
	if m.text != nil {
		filter.BoxHalo(r, m.text, filter.TextPadding)
	}
	if m.roads != nil {
		m.roads.Paint(r, raster.Black)
	}
	if m.water != nil {
		m.water.Paint(r, raster.White)
	}
}

// Process renders src as line art according to s and returns the result as
// a new raster.
//
// Both inputs are validated before any work starts; a malformed raster or
// out-of-domain settings yield ErrInvalidInput. src is never modified. The
// same inputs always produce byte-identical output.
func Process(src *raster.Raster, s Settings) (*raster.Raster, error) {
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("failed to process: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("failed to process: %w", err)
	}

	start := time.Now()
	r := src.Clone()

	var m masks
	for _, stage := range Stages(s) {
		t := time.Now()
		switch stage {
		case StageCaptureMasks:
			m = captureMasks(r, s)
		case StageThreshold:
			if s.LaserMode {
				filter.LaserThreshold(r)
			} else {
				filter.Threshold(r, s.Threshold, raster.GrayMean)
			}
		case StageInvert:
			filter.Invert(r)
			m.restore(r)
		case StageBlackText:
			filter.BoxHalo(r, filter.Capture(r, filter.BlackPredicate), filter.TextPadding)
		case StageThickenText:
			filter.Dilate(r, s.ThickenAmount)
		case StageRemoveFerryLines:
			n := filter.RemoveDashedLines(r)
			logging.Debug("removed %d dashed components", n)
		case StageWarp:
			filter.Warp(r, s.WarpLevel)
		case StageEdgeDetection:
			filter.EdgeDetect(r)
		case StageThickenCoastlines:
			filter.Dilate(r, float64(s.CoastlineAmount))
		}
		logging.Debug("stage %s on %dx%d took %v", stage, r.Width, r.Height, time.Since(t))
	}

	logging.Debug("processed %dx%d in %v", r.Width, r.Height, time.Since(start))
	return r, nil
}
