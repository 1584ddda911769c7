package viz

import (
	"context"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/muonsim/internal/report"
	"github.com/san-kum/muonsim/internal/sim"
)

const (
	canvasWidth  = 40
	canvasHeight = 12
	tableRows    = 8
	graphWidth   = 60
	graphHeight  = 10
)

// RowMsg carries the outcome of one Sweep.Next call.
type RowMsg struct {
	Row sim.Row
	Err error
}

// LiveModel runs a sweep inside a Bubble Tea program, one angle per update.
type LiveModel struct {
	ctx    context.Context
	cancel context.CancelFunc
	sweep  *sim.Sweep
	cfg    sim.Config
	energy float64

	rows   []sim.Row
	result *sim.Result
	err    error

	canvas *Canvas
	scale  float64
	width  int
}

// NewLiveModel wraps a started sweep. cfg must be the config the sweep was
// started with and energy its kinetic energy in MeV.
func NewLiveModel(ctx context.Context, sweep *sim.Sweep, cfg sim.Config, energy float64) LiveModel {
	ctx, cancel := context.WithCancel(ctx)

	// The last angle has the largest ellipse.
	g := cfg.Detector.Geometry(cfg.Zenith(cfg.Steps - 1))
	scale := math.Min(float64(canvasWidth*2-2)/(2*g.A), float64(canvasHeight*4-2)/(2*g.B))

	return LiveModel{
		ctx:    ctx,
		cancel: cancel,
		sweep:  sweep,
		cfg:    cfg,
		energy: energy,
		rows:   make([]sim.Row, 0, cfg.Steps),
		canvas: NewCanvas(canvasWidth, canvasHeight),
		scale:  scale,
		width:  80,
	}
}

func (m LiveModel) Init() tea.Cmd {
	return m.next()
}

func (m LiveModel) next() tea.Cmd {
	ctx, sw := m.ctx, m.sweep
	return func() tea.Msg {
		r, err := sw.Next(ctx)
		return RowMsg{Row: r, Err: err}
	}
}

func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancel()
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case RowMsg:
		if msg.Err != nil {
			m.err = msg.Err
			m.cancel()
			return m, nil
		}
		m.rows = append(m.rows, msg.Row)
		m.drawGeometry(msg.Row.Zenith)

		if m.sweep.Done() {
			m.result = m.sweep.Finish(m.ctx)
			m.cancel()
			return m, nil
		}
		return m, m.next()
	}
	return m, nil
}

func (m *LiveModel) drawGeometry(zenith float64) {
	g := m.cfg.Detector.Geometry(zenith)
	m.canvas.Clear()
	m.canvas.DrawAxes()
	m.canvas.DrawEllipse(g.A, g.B, m.scale)
}

// Done reports whether the sweep finished or failed.
func (m LiveModel) Done() bool { return m.result != nil || m.err != nil }

// Result is the finished sweep, or nil while running or after an error.
func (m LiveModel) Result() *sim.Result { return m.result }

func (m LiveModel) Err() error { return m.err }

func (m LiveModel) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(fmt.Sprintf("muon survival sweep  %s GeV", report.FormatFloat(m.energy/1000))))
	b.WriteString("\n\n")

	status := StatusRunning.Render("running")
	switch {
	case m.err != nil:
		status = StatusError.Render("error: " + m.err.Error())
	case m.result != nil:
		status = StatusDone.Render("done")
	}
	frac := float64(len(m.rows)) / float64(m.cfg.Steps)
	fmt.Fprintf(&b, "%s %d/%d  %s\n\n", ProgressBar(frac, 30), len(m.rows), m.cfg.Steps, status)

	left := Panel.Render(m.geometryView())
	right := Panel.Render(SummaryTable(lastRows(m.rows, tableRows)))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	b.WriteString("\n")

	adj := make([]float64, len(m.rows))
	for i, r := range m.rows {
		adj[i] = r.Adjusted
	}
	b.WriteString(MetricLabel.Render("adjusted"))
	b.WriteString(Sparkline(adj))
	b.WriteString("\n")

	if m.result != nil {
		b.WriteString(Separator(m.width))
		b.WriteString("\n")
		if graph := PlotSweep(m.result.Rows, graphWidth, graphHeight); graph != "" {
			b.WriteString(graph)
			b.WriteString("\n\n")
		}
		b.WriteString(MetricsPanel(m.result.Metrics))
	}

	b.WriteString(KeyHint.Render("q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m LiveModel) geometryView() string {
	if len(m.rows) == 0 {
		return m.canvas.String()
	}
	last := m.rows[len(m.rows)-1]
	g := m.cfg.Detector.Geometry(last.Zenith)
	h, _ := g.Center()
	return fmt.Sprintf("%s%s\n%s\n%s",
		m.canvas.String(),
		Subtle.Render("zenith "+report.FormatFloat(last.Angle)+" deg"),
		Subtle.Render(fmt.Sprintf("a=%s b=%s cm", report.FormatFloat(g.A), report.FormatFloat(g.B))),
		Subtle.Render("center x="+report.FormatFloat(h)+" cm"),
	)
}

func lastRows(rows []sim.Row, n int) []sim.Row {
	if len(rows) <= n {
		return rows
	}
	return rows[len(rows)-n:]
}

var _ tea.Model = LiveModel{}
