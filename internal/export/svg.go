// Package export renders archived sweeps for use outside the terminal.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/muonsim/internal/sim"
	"github.com/san-kum/muonsim/internal/viz"
)

// Series colors for SweepToSVG, in column order.
var SeriesColors = [3]string{"#00ff88", "#00a8cc", "#ffcc00"}

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, width, height, width, height)

	dotRadius := scale * 0.4
	for y := 0; y < canvas.Height*4; y++ {
		for x := 0; x < canvas.Width*2; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
				float64(x)*scale+scale/2, float64(y)*scale+scale/2, dotRadius)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// SweepToSVG draws the adjusted, unadjusted and reference columns against
// the zenith angle in degrees. Non-finite values break the line. It returns
// "" when no value is finite.
func SweepToSVG(rows []sim.Row, width, height int) string {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, r := range rows {
		for _, v := range columns(r) {
			if !finite(v) || !finite(r.Angle) {
				continue
			}
			minX, maxX = math.Min(minX, r.Angle), math.Max(maxX, r.Angle)
			minY, maxY = math.Min(minY, v), math.Max(maxY, v)
		}
	}
	if math.IsInf(minX, 1) {
		return ""
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.05
	minY -= rangeY * 0.1
	rangeX *= 1.1
	rangeY *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for col, color := range SeriesColors {
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, color)
		pen := "M"
		for _, r := range rows {
			v := columns(r)[col]
			if !finite(v) || !finite(r.Angle) {
				pen = "M"
				continue
			}
			x := (r.Angle - minX) / rangeX * float64(width)
			y := float64(height) - (v-minY)/rangeY*float64(height)
			fmt.Fprintf(&sb, "%s%.1f,%.1f ", pen, x, y)
			pen = "L"
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func columns(r sim.Row) [3]float64 {
	return [3]float64{r.Adjusted, r.Unadjusted, r.Reference}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
