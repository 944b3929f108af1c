// Package style holds the per-element drawing style and the defaults new
// elements are created with.
package style

import "slices"

// Color is a CSS-style color string such as "#e3e3e3".
type Color string

// None suppresses a fill or a stroke.
const None Color = ""

const (
	Black   Color = "#000"
	White   Color = "#e3e3e3"
	Red     Color = "#ff0000"
	Green   Color = "#00ff00"
	Blue    Color = "#0000ff"
	Cyan    Color = "#00ffff"
	Yellow  Color = "#ffff00"
	HotPink Color = "#ff69b4"
	Orange  Color = "#ff6224"
)

// IsNone reports whether the color is the "no paint" sentinel.
func (c Color) IsNone() bool {
	return c == None
}

// Style is the drawing configuration attached to one element.
type Style struct {
	FillColor   Color     `json:"fillColor"`
	StrokeColor Color     `json:"strokeColor"`
	StrokeWidth float64   `json:"strokeWidth"`
	Opacity     float64   `json:"opacity"`
	LineDash    []float64 `json:"lineDash,omitempty"`
	Roundness   *float64  `json:"roundness,omitempty"`
}

// Default returns the built-in style.
func Default() Style {
	roundness := 20.0
	return Style{
		FillColor:   White,
		StrokeColor: White,
		StrokeWidth: 5,
		Opacity:     1,
		Roundness:   &roundness,
	}
}

// Clone returns a deep copy so that the result shares no slices or pointers
// with s.
func (s Style) Clone() Style {
	out := s
	out.LineDash = slices.Clone(s.LineDash)
	if s.Roundness != nil {
		r := *s.Roundness
		out.Roundness = &r
	}
	return out
}

// HasFill reports whether the style paints a fill.
func (s Style) HasFill() bool {
	return !s.FillColor.IsNone()
}

// HasStroke reports whether the style paints an outline.
func (s Style) HasStroke() bool {
	return !s.StrokeColor.IsNone() && s.StrokeWidth > 0
}

// RoundnessOr returns the roundness, or def when unset.
func (s Style) RoundnessOr(def float64) float64 {
	if s.Roundness == nil {
		return def
	}
	return *s.Roundness
}

// Patch is a partial style update. Nil fields are left untouched.
type Patch struct {
	FillColor   *Color    `json:"fillColor,omitempty"`
	StrokeColor *Color    `json:"strokeColor,omitempty"`
	StrokeWidth *float64  `json:"strokeWidth,omitempty"`
	Opacity     *float64  `json:"opacity,omitempty"`
	LineDash    []float64 `json:"lineDash,omitempty"`
	Roundness   *float64  `json:"roundness,omitempty"`
}

// Merge returns a copy of s with the patch applied.
func (s Style) Merge(p Patch) Style {
	out := s.Clone()
	if p.FillColor != nil {
		out.FillColor = *p.FillColor
	}
	if p.StrokeColor != nil {
		out.StrokeColor = *p.StrokeColor
	}
	if p.StrokeWidth != nil {
		out.StrokeWidth = *p.StrokeWidth
	}
	if p.Opacity != nil {
		out.Opacity = *p.Opacity
	}
	if p.LineDash != nil {
		out.LineDash = slices.Clone(p.LineDash)
	}
	if p.Roundness != nil {
		r := *p.Roundness
		out.Roundness = &r
	}
	return out
}
