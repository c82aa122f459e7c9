package compass

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderLabels(t *testing.T) {
	cases := map[float64]string{
		45:    "45.0°",
		0:     "0.0°",
		273.5: "273.5°",
		-10:   "-10.0°",
		370.5: "370.5°",
		12.04: "12.0°",
	}
	for angle, want := range cases {
		require.Equal(t, want, Render(angle).Label, "angle=%v", angle)
	}
}

func TestRenderNonFiniteFallsBackToNorth(t *testing.T) {
	for _, angle := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		n := Render(angle)
		require.Equal(t, Needle{Angle: 0, Rotation: "rotate(0deg)", Label: "0.0°"}, n)
	}
}

func TestRenderRotation(t *testing.T) {
	require.Equal(t, "rotate(273.5deg)", Render(273.5).Rotation)
	require.Equal(t, "rotate(-10deg)", Render(-10).Rotation)
	require.Equal(t, "rotate(370.5deg)", Render(370.5).Rotation)
}

func TestSVGIsDeterministic(t *testing.T) {
	require.Equal(t, SVG(123.4), SVG(123.4))
	require.Equal(t, SVG(0), SVG(math.NaN()))
	require.NotEqual(t, SVG(1), SVG(2))
}

func TestSVGKeepsCardinalsFixed(t *testing.T) {
	north := SVG(0)
	east := SVG(90)

	require.Contains(t, east, `transform="rotate(90 80 80)"`)
	require.Contains(t, east, "<title>Moon Direction: 90.0°</title>")
	for _, name := range []string{">N<", ">E<", ">S<", ">W<"} {
		require.Equal(t, 1, strings.Count(east, name))
	}
	cardinals := func(svg string) string {
		return svg[strings.Index(svg, "<text"):strings.Index(svg, `<g class="needle"`)]
	}
	require.Equal(t, cardinals(north), cardinals(east))
}
