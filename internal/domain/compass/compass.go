// Package compass renders the moon direction dial. Every function is pure:
// the same angle always yields the same output.
package compass

import (
	"math"
	"strconv"
)

// Needle is the rendered orientation of the dial needle.
type Needle struct {
	// Angle is the sanitized angle in degrees clockwise from North.
	Angle float64 `json:"angle"`
	// Rotation is a CSS transform for clients drawing their own needle.
	Rotation string `json:"rotation"`
	Label    string `json:"label"`
}

// Cardinal is a fixed dial label. Cardinals never rotate with the needle.
type Cardinal struct {
	Name string
	X, Y float64
}

// Dial geometry shared by the SVG renderer and the cardinal positions.
const (
	DialSize   = 160.0
	dialCenter = DialSize / 2
	dialInset  = 18.0
)

// Cardinals lists the dial labels clockwise from North.
var Cardinals = [4]Cardinal{
	{Name: "N", X: dialCenter, Y: dialInset},
	{Name: "E", X: DialSize - dialInset, Y: dialCenter},
	{Name: "S", X: dialCenter, Y: DialSize - dialInset},
	{Name: "W", X: dialInset, Y: dialCenter},
}

// Sanitize maps non-finite angles to 0 and keeps every other value as is.
func Sanitize(angle float64) float64 {
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		return 0
	}
	return angle
}

// Label formats the angle with exactly one decimal place.
func Label(angle float64) string {
	return strconv.FormatFloat(Sanitize(angle), 'f', 1, 64) + "°"
}

// Render computes the needle for angle.
func Render(angle float64) Needle {
	a := Sanitize(angle)
	return Needle{
		Angle:    a,
		Rotation: "rotate(" + formatNumber(a) + "deg)",
		Label:    Label(a),
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
