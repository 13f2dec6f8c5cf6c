package effects

// Type identifies one of the closed set of beat-pulse visual effects.
type Type string

const (
	Flash           Type = "flash"
	ColorBurst      Type = "colorBurst"
	ZoomPulse       Type = "zoomPulse"
	BrightnessPulse Type = "brightnessPulse"
	Glitch          Type = "glitch"
)

// DefaultOrder is the rotation order used when the config does not override
// it.
var DefaultOrder = []Type{Flash, ColorBurst, ZoomPulse, BrightnessPulse, Glitch}

// Known reports whether t names a supported effect type.
func Known(t Type) bool {
	_, ok := paramTable[t]
	return ok
}

// Params holds the per-effect trigger tolerance and rendering defaults. Only
// the fields relevant to an effect carry meaning: Intensity for flash and
// brightness pulses, Saturation for color bursts, ZoomFactor for zoom pulses,
// PixelShift for glitches.
type Params struct {
	ToleranceSec float64
	Intensity    float64
	Saturation   float64
	ZoomFactor   float64
	PixelShift   int
}

// paramTable is the single source of per-effect defaults. Both the scheduler
// and the filter expression builder consult it through ParamsFor; no call
// site re-derives these values.
var paramTable = map[Type]Params{
	// Instantaneous effects get tight windows; effects with longer intrinsic
	// motion (zoom) get wider ones.
	Flash:           {ToleranceSec: 0.05, Intensity: 0.35},
	ColorBurst:      {ToleranceSec: 0.08, Saturation: 1.8},
	ZoomPulse:       {ToleranceSec: 0.12, ZoomFactor: 1.08},
	BrightnessPulse: {ToleranceSec: 0.08, Intensity: 0.2},
	Glitch:          {ToleranceSec: 0.06, PixelShift: 6},
}

// ParamsFor returns the effective parameters for an effect, applying the
// test-mode multiplier uniformly to the tolerance window and the intensity
// values. Test mode widens and amplifies for manual verification; it never
// changes which beats trigger.
func ParamsFor(t Type, testMode bool, multiplier float64) Params {
	p, ok := paramTable[t]
	if !ok {
		return Params{}
	}
	if !testMode || multiplier <= 0 {
		return p
	}

	p.ToleranceSec *= multiplier
	p.Intensity *= multiplier
	if p.Saturation > 1 {
		p.Saturation = 1 + (p.Saturation-1)*multiplier
	}
	if p.ZoomFactor > 1 {
		p.ZoomFactor = 1 + (p.ZoomFactor-1)*multiplier
	}
	p.PixelShift = int(float64(p.PixelShift) * multiplier)
	return p
}
