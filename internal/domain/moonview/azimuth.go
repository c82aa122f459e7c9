package moonview

import (
	"math"
	"strconv"
	"strings"
)

// DefaultAngle is used whenever the azimuth is missing or unusable.
const DefaultAngle = 0.0

// ParseAzimuth converts a provider azimuth to degrees. It never fails: absent,
// empty, unparseable and non-finite values all yield DefaultAngle.
func ParseAzimuth(raw string) float64 {
	clean := strings.TrimSpace(raw)
	clean = strings.TrimSpace(strings.TrimSuffix(clean, "°"))
	if clean == "" {
		return DefaultAngle
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return DefaultAngle
	}
	return v
}

// CompassAngle is the needle angle for this result.
func (r AstronomyResult) CompassAngle() float64 {
	return ParseAzimuth(r.MoonAzimuth)
}
