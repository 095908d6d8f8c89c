package scoring

import (
	"fmt"
	"math"
)

// Size selects one of the trust gauge presets
type Size string

const (
	SizeSmall  Size = "sm"
	SizeMedium Size = "md"
	SizeLarge  Size = "lg"
)

type gaugePreset struct {
	width    int
	stroke   int
	fontSize string
}

var gaugePresets = map[Size]gaugePreset{
	SizeSmall:  {width: 80, stroke: 6, fontSize: "text-lg"},
	SizeMedium: {width: 120, stroke: 8, fontSize: "text-2xl"},
	SizeLarge:  {width: 180, stroke: 10, fontSize: "text-4xl"},
}

// Gauge is the geometry of the circular trust score ring
type Gauge struct {
	Score         int     `json:"score"`
	Size          Size    `json:"size"`
	Width         int     `json:"width"`
	StrokeWidth   int     `json:"stroke_width"`
	FontSize      string  `json:"font_size"`
	Center        float64 `json:"center"`
	Radius        float64 `json:"radius"`
	Circumference float64 `json:"circumference"`
	DashOffset    float64 `json:"dash_offset"`
	Color         string  `json:"color"`
	Label         string  `json:"label"`
	Tone          Tone    `json:"tone"`
}

// NewGauge computes the ring for score at the given size; unknown sizes fall back to medium
func NewGauge(score int, size Size) Gauge {
	p, ok := gaugePresets[size]
	if !ok {
		size = SizeMedium
		p = gaugePresets[size]
	}

	radius := float64(p.width-p.stroke) / 2
	circumference := 2 * math.Pi * radius
	c := Classify(score)

	return Gauge{
		Score:         score,
		Size:          size,
		Width:         p.width,
		StrokeWidth:   p.stroke,
		FontSize:      p.fontSize,
		Center:        float64(p.width) / 2,
		Radius:        radius,
		Circumference: circumference,
		DashOffset:    float64(100-score) / 100 * circumference,
		Color:         c.Color(),
		Label:         c.Label(),
		Tone:          c.Tone(),
	}
}

// DashArray formats the circumference for an SVG stroke-dasharray attribute
func (g Gauge) DashArray() string {
	return fmt.Sprintf("%.2f", g.Circumference)
}

// Offset formats the dash offset for an SVG stroke-dashoffset attribute
func (g Gauge) Offset() string {
	return fmt.Sprintf("%.2f", g.DashOffset)
}

// Bar renders the gauge as a horizontal bar of width cells for terminals
func (g Gauge) Bar(width int, fill, empty rune) string {
	if width <= 0 {
		return ""
	}
	filled := int(math.Round(float64(g.Score) / 100 * float64(width)))
	filled = max(0, min(width, filled))

	out := make([]rune, width)
	for i := range out {
		if i < filled {
			out[i] = fill
		} else {
			out[i] = empty
		}
	}
	return string(out)
}
