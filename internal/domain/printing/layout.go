package printing

// Layout constants in device logical units
const (
	DefaultFontFace           = "Consolas"
	DefaultFontHeight         = 120
	DefaultFontWeight         = 400 // FW_NORMAL
	DefaultMarginX            = 50
	DefaultOriginY            = 100
	DefaultFallbackLineHeight = 150
	DefaultDocName            = "Ticket"
)

// FontSpec describes the fixed-pitch face used for every line of a job
type FontSpec struct {
	Face   string
	Height int
	Weight int
}

// DefaultFontSpec returns the thermal ticket font
func DefaultFontSpec() FontSpec {
	return FontSpec{
		Face:   DefaultFontFace,
		Height: DefaultFontHeight,
		Weight: DefaultFontWeight,
	}
}

// TextMetrics are the font metrics reported by a device for its active font
type TextMetrics struct {
	Height          int // ascent + descent
	ExternalLeading int
}

// LineMetrics is the per-job vertical layout
type LineMetrics struct {
	LineHeight int
	MarginX    int
	OriginY    int
}

// Layout holds the configurable parts of the page layout
type Layout struct {
	MarginX            int
	OriginY            int
	FallbackLineHeight int
}

// DefaultLayout returns the layout used for thermal tickets
func DefaultLayout() Layout {
	return Layout{
		MarginX:            DefaultMarginX,
		OriginY:            DefaultOriginY,
		FallbackLineHeight: DefaultFallbackLineHeight,
	}
}

// Metrics computes LineMetrics from reported font metrics. A nil tm, or
// metrics adding up to a non-positive pitch, selects the fallback line
// height. The returned LineHeight is always greater than zero.
func (l Layout) Metrics(tm *TextMetrics) (LineMetrics, bool) {
	fallback := l.FallbackLineHeight
	if fallback <= 0 {
		fallback = DefaultFallbackLineHeight
	}
	m := LineMetrics{
		LineHeight: fallback,
		MarginX:    l.MarginX,
		OriginY:    l.OriginY,
	}
	if tm == nil {
		return m, false
	}
	if h := tm.Height + tm.ExternalLeading; h > 0 {
		m.LineHeight = h
		return m, true
	}
	return m, false
}

// LineY returns the vertical offset of the i-th line slot
func (m LineMetrics) LineY(i int) int {
	return m.OriginY + i*m.LineHeight
}
