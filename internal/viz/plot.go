package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/muonsim/internal/report"
	"github.com/san-kum/muonsim/internal/sim"
)

// PlotSweep charts the three probability columns against the sweep index.
// Infinite values are left as gaps. It returns "" when there is nothing
// finite to plot.
func PlotSweep(rows []sim.Row, width, height int) string {
	adj := make([]float64, len(rows))
	unadj := make([]float64, len(rows))
	ref := make([]float64, len(rows))

	finite := false
	for i, r := range rows {
		adj[i], unadj[i], ref[i] = gap(r.Adjusted), gap(r.Unadjusted), gap(r.Reference)
		finite = finite || !math.IsNaN(adj[i]) || !math.IsNaN(unadj[i]) || !math.IsNaN(ref[i])
	}
	if !finite {
		return ""
	}

	caption := fmt.Sprintf("survival probability, %s..%s deg",
		report.FormatFloat(rows[0].Angle), report.FormatFloat(rows[len(rows)-1].Angle))

	return asciigraph.PlotMany([][]float64{adj, unadj, ref},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(3),
		asciigraph.SeriesColors(asciigraph.Green, asciigraph.Blue, asciigraph.Yellow),
		asciigraph.SeriesLegends("adjusted", "unadjusted", "cos^2 reference"),
		asciigraph.Caption(caption),
	)
}

func gap(v float64) float64 {
	if math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}

// SummaryTable renders rows as an aligned table.
func SummaryTable(rows []sim.Row) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(fmt.Sprintf("%4s %10s %12s %12s %12s", "#", "angle", "adjusted", "unadjusted", "reference")))
	b.WriteString("\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "%4d %10s %12s %12s %12s\n", r.Index,
			report.FormatFloat(r.Angle),
			report.FormatFloat(r.Adjusted),
			report.FormatFloat(r.Unadjusted),
			report.FormatFloat(r.Reference))
	}
	return b.String()
}

// MetricsPanel renders metric values sorted by name.
func MetricsPanel(values map[string]float64) string {
	names := make([]string, 0, len(values))
	for k := range values {
		names = append(names, k)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, k := range names {
		b.WriteString(MetricLabel.Render(k))
		b.WriteString(MetricValue.Render(report.FormatFloat(values[k])))
		b.WriteString("\n")
	}
	return b.String()
}
