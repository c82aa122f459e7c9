package compass

import (
	"fmt"
	"strings"
)

const (
	accentColor = "#4caf50"
	dialColor   = "#111"
)

// SVG draws the dial with the needle rotated to angle. Non-finite angles
// render as North.
func SVG(angle float64) string {
	n := Render(angle)

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" class="compass" width="%[1]s" height="%[1]s" viewBox="0 0 %[1]s %[1]s" role="img">`,
		formatNumber(DialSize))
	fmt.Fprintf(&b, `<title>Moon Direction: %s</title>`, n.Label)
	fmt.Fprintf(&b, `<circle cx="%[1]s" cy="%[1]s" r="%[2]s" fill="%[3]s" stroke="%[4]s" stroke-width="4"/>`,
		formatNumber(dialCenter), formatNumber(dialCenter-2), dialColor, accentColor)
	for _, c := range Cardinals {
		fmt.Fprintf(&b, `<text x="%s" y="%s" fill="%s" font-size="18" font-weight="700" text-anchor="middle" dominant-baseline="central">%s</text>`,
			formatNumber(c.X), formatNumber(c.Y), accentColor, c.Name)
	}
	fmt.Fprintf(&b, `<g class="needle" transform="rotate(%s %s %s)">`,
		formatNumber(n.Angle), formatNumber(dialCenter), formatNumber(dialCenter))
	fmt.Fprintf(&b, `<rect x="%s" y="%s" width="6" height="%s" rx="3" fill="%s"/>`,
		formatNumber(dialCenter-3), formatNumber(dialCenter-56), formatNumber(56), accentColor)
	b.WriteString(`</g>`)
	fmt.Fprintf(&b, `<circle cx="%[1]s" cy="%[1]s" r="5" fill="%[2]s"/>`, formatNumber(dialCenter), accentColor)
	b.WriteString(`</svg>`)
	return b.String()
}
