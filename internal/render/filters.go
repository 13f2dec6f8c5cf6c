package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"beatcut/internal/effects"
	"beatcut/internal/plan"
)

// enableExpression renders interval membership as a sum of between() terms.
// timeVar is the encoder's clock variable: "t" for timeline-enabled filters,
// "it" inside zoompan expressions.
func enableExpression(intervals []Interval, timeVar string) string {
	terms := make([]string, len(intervals))
	for i, iv := range intervals {
		terms[i] = fmt.Sprintf("between(%s,%s,%s)", timeVar, formatFloat(iv.Start), formatFloat(iv.End))
	}
	return strings.Join(terms, "+")
}

// FilterForExpression translates one structured expression into an ffmpeg
// filter string. Every effect is realized as a single filter stage so that
// chained expressions each consume the previous stage's output.
func FilterForExpression(e Expression, width, height int, fps float64) (string, error) {
	if len(e.Intervals) == 0 {
		return "", fmt.Errorf("expression for %s has no intervals", e.Effect)
	}

	switch e.Effect {
	case effects.Flash, effects.BrightnessPulse:
		enable := enableExpression(e.Intervals, "t")
		return fmt.Sprintf("eq=brightness=%s:enable='%s'",
			formatFloat(e.Params.Intensity), escapeFilterValue(enable)), nil

	case effects.ColorBurst:
		enable := enableExpression(e.Intervals, "t")
		return fmt.Sprintf("eq=saturation=%s:enable='%s'",
			formatFloat(e.Params.Saturation), escapeFilterValue(enable)), nil

	case effects.Glitch:
		enable := enableExpression(e.Intervals, "t")
		shift := e.Params.PixelShift
		return fmt.Sprintf("rgbashift=rh=%d:bh=%d:enable='%s'",
			shift, -shift, escapeFilterValue(enable)), nil

	case effects.ZoomPulse:
		// zoompan evaluates its zoom expression per input frame; membership
		// uses the input timestamp variable.
		membership := enableExpression(e.Intervals, "it")
		zoom := fmt.Sprintf("if(%s,%s,1)", membership, formatFloat(e.Params.ZoomFactor))
		return fmt.Sprintf(
			"zoompan=z='%s':d=1:x='iw/2-(iw/zoom/2)':y='ih/2-(ih/zoom/2)':s=%dx%d:fps=%s",
			escapeFilterValue(zoom), width, height, formatFloat(fps)), nil

	default:
		return "", fmt.Errorf("unknown effect type %q", e.Effect)
	}
}

// FilterChain renders all expressions into a single comma-joined filter chain.
// The comma is the sequential composition operator: each stage reads the
// previous stage's output, which keeps chunked expressions additive instead
// of parallel.
func FilterChain(exprs []Expression, width, height int, fps float64) (string, error) {
	if len(exprs) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(exprs))
	for _, e := range exprs {
		f, err := FilterForExpression(e, width, height, fps)
		if err != nil {
			return "", err
		}
		parts = append(parts, f)
	}
	return strings.Join(parts, ","), nil
}

// FiltersForConform renders the filter stages that realize a conform action.
// Trim needs no filter (the -t output option handles it); Extend clones the
// final frame for the deficit and fades the hold out.
func FiltersForConform(a plan.Action, b plan.Boundary) []string {
	switch a.Kind {
	case plan.ActionExtend:
		filters := []string{
			fmt.Sprintf("tpad=stop_mode=clone:stop_duration=%s", formatFloat(a.FreezeSec)),
		}
		if a.FadeOutSec > 0 {
			start := math.Max(b.DurationSec()-a.FadeOutSec, 0)
			filters = append(filters, fmt.Sprintf("fade=t=out:st=%s:d=%s",
				formatFloat(start), formatFloat(a.FadeOutSec)))
		}
		return filters
	default:
		return nil
	}
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func escapeFilterValue(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, ":", `\:`)
	value = strings.ReplaceAll(value, ",", `\,`)
	value = strings.ReplaceAll(value, "'", `\'`)
	return value
}
