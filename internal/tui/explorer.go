package tui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/boscoh/modeldrop/internal/dynamo"
	"github.com/boscoh/modeldrop/internal/models"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

var modelInfo = map[string]string{
	"growth":   "exponential vs logistic growth",
	"spring":   "harmonic oscillator",
	"ecology":  "predator-prey cycles",
	"epi":      "SIR epidemic",
	"goodwin":  "business cycle",
	"keen":     "debt-driven macro",
	"turchin":  "demographic-state cycles",
	"elite":    "elite demographic cycles",
	"fathers":  "generational violence",
	"property": "rent vs buy",
}

type screen int

const (
	screenMenu screen = iota
	screenParams
	screenPlots
)

type explorer struct {
	screen screen
	cursor int
	names  []string

	model   *dynamo.Model
	descs   []dynamo.ParamDescriptor
	editing bool
	editBuf string

	plotCursor int
	runErr     error

	width  int
	height int
}

func NewExplorer() *explorer {
	return &explorer{
		screen: screenMenu,
		names:  models.Names(),
		width:  80,
		height: 24,
	}
}

func (e explorer) Init() tea.Cmd { return nil }

func (e explorer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return e.handleKey(msg)
	case tea.WindowSizeMsg:
		e.width = msg.Width
		e.height = msg.Height
		return e, nil
	}
	return e, nil
}

func (e explorer) handleKey(msg tea.KeyMsg) (explorer, tea.Cmd) {
	switch e.screen {
	case screenMenu:
		return e.menuKey(msg)
	case screenParams:
		return e.paramsKey(msg)
	case screenPlots:
		return e.plotsKey(msg)
	}
	return e, nil
}

func (e explorer) menuKey(msg tea.KeyMsg) (explorer, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return e, tea.Quit
	case "up", "k":
		if e.cursor > 0 {
			e.cursor--
		}
	case "down", "j":
		if e.cursor < len(e.names)-1 {
			e.cursor++
		}
	case "enter", " ":
		m, err := models.Lookup(e.names[e.cursor])
		if err != nil {
			return e, nil
		}
		e.model = m
		e.runErr = m.Run()
		if e.runErr == nil {
			e.descs, e.runErr = m.DescribeParams()
		}
		e.plotCursor = 0
		e.screen = screenPlots
		return e, tea.ClearScreen
	}
	return e, nil
}

func (e explorer) paramsKey(msg tea.KeyMsg) (explorer, tea.Cmd) {
	if e.editing {
		switch msg.String() {
		case "enter":
			var val float64
			fmt.Sscanf(e.editBuf, "%f", &val)
			e.setParam(e.descs[e.cursor].Key, val)
			e.editing = false
			e.editBuf = ""
		case "escape":
			e.editing = false
			e.editBuf = ""
		case "backspace":
			if len(e.editBuf) > 0 {
				e.editBuf = e.editBuf[:len(e.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == 'e' {
					e.editBuf += string(c)
				}
			}
		}
		return e, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return e, tea.Quit
	case "escape":
		e.screen = screenPlots
		return e, tea.ClearScreen
	case "up", "k":
		if e.cursor > 0 {
			e.cursor--
		}
	case "down", "j":
		if e.cursor < len(e.descs)-1 {
			e.cursor++
		}
	case "enter":
		e.editing = true
		e.editBuf = fmt.Sprintf("%g", e.descs[e.cursor].Value)
	case "left", "h":
		e.nudge(-1)
	case "right", "l":
		e.nudge(1)
	case "r", "s":
		e.rerun()
		e.screen = screenPlots
		return e, tea.ClearScreen
	}
	return e, nil
}

func (e explorer) plotsKey(msg tea.KeyMsg) (explorer, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return e, tea.Quit
	case "escape", "b":
		e.screen = screenMenu
		e.cursor = 0
		return e, tea.ClearScreen
	case "p", "c":
		e.screen = screenParams
		e.cursor = 0
		return e, tea.ClearScreen
	case "left", "h":
		if e.plotCursor > 0 {
			e.plotCursor--
			return e, tea.ClearScreen
		}
	case "right", "l", "tab":
		if e.model != nil && e.plotCursor < len(e.model.Plots)-1 {
			e.plotCursor++
			return e, tea.ClearScreen
		}
	case "r":
		e.rerun()
		return e, tea.ClearScreen
	}
	return e, nil
}

// nudge moves the selected parameter one slider step: a fortieth of its
// range, or a 12% ratio step for log-scaled parameters.
func (e *explorer) nudge(dir float64) {
	d := e.descs[e.cursor]
	val := d.Value
	if d.IsLog {
		if dir > 0 {
			val *= 1.12
		} else {
			val /= 1.12
		}
	} else {
		val += dir * (d.Max - d.Min) / 40
	}
	if val < d.Min {
		val = d.Min
	}
	if val > d.Max {
		val = d.Max
	}
	e.setParam(d.Key, val)
}

func (e *explorer) setParam(key string, val float64) {
	if e.model == nil {
		return
	}
	if err := e.model.SetParam(key, val); err != nil {
		e.runErr = err
		return
	}
	for i := range e.descs {
		if e.descs[i].Key == key {
			e.descs[i].Value = val
		}
	}
}

func (e *explorer) rerun() {
	if e.model == nil {
		return
	}
	e.runErr = e.model.Run()
	if e.runErr == nil {
		e.descs, e.runErr = e.model.DescribeParams()
	}
}

func (e explorer) View() string {
	switch e.screen {
	case screenMenu:
		return e.viewMenu()
	case screenParams:
		return e.viewParams()
	case screenPlots:
		return e.viewPlots()
	}
	return ""
}

func (e explorer) viewMenu() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("         " + cyan.Render("m o d e l d r o p") + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("\n")

	for i, name := range e.names {
		desc := modelInfo[name]
		if i == e.cursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-12s", name)) + dim.Render(desc) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-12s", name)) + dimmer.Render(desc) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select   enter run   q quit") + "\n")

	return b.String()
}

func (e explorer) viewParams() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("      " + cyan.Render(e.model.Name) + "  " + dim.Render("parameters") + "\n")
	b.WriteString(dimmer.Render("      "+strings.Repeat("─", 40)) + "\n\n")

	for i, d := range e.descs {
		val := fmt.Sprintf("%10.4g", d.Value)
		if e.editing && i == e.cursor {
			val = fmt.Sprintf("%10s", e.editBuf+"▋")
		}
		bar := sliderBar(d, 16)
		if i == e.cursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-20s", d.Key)) + magenta.Render(val) + "  " + cyan.Render(bar) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-20s", d.Key)) + dim.Render(val) + "  " + dimmer.Render(bar) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select  ←→ adjust  enter edit  r run  esc plots  q quit") + "\n")

	return b.String()
}

func sliderBar(d dynamo.ParamDescriptor, width int) string {
	span := d.Max - d.Min
	if span <= 0 {
		return strings.Repeat("─", width)
	}
	pos := int((d.Value - d.Min) / span * float64(width-1))
	if pos < 0 {
		pos = 0
	}
	if pos > width-1 {
		pos = width - 1
	}
	return strings.Repeat("─", pos) + "●" + strings.Repeat("─", width-1-pos)
}

func (e explorer) viewPlots() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("   " + cyan.Render(e.model.Name))
	if e.model.Truncated() {
		b.WriteString("  " + yellow.Render("⚠ diverged, run truncated"))
	}
	b.WriteString("\n")

	if e.runErr != nil {
		b.WriteString("\n   " + red.Render(e.runErr.Error()) + "\n")
		b.WriteString("\n" + dim.Render("   p params  b back  q quit") + "\n")
		return b.String()
	}

	if len(e.model.Plots) == 0 {
		b.WriteString("\n   " + dim.Render("no plots declared") + "\n")
		return b.String()
	}

	plot := e.model.Plots[e.plotCursor]
	b.WriteString("   " + white.Render(plot.Title) +
		dim.Render(fmt.Sprintf("  (%d/%d)", e.plotCursor+1, len(e.model.Plots))) + "\n\n")

	width := e.width - 14
	if width < 40 {
		width = 40
	}
	height := e.height - 12
	if height < 8 {
		height = 8
	}

	if plot.Fn != "" {
		b.WriteString(e.renderFnPlot(plot, width, height))
	} else {
		b.WriteString(e.renderVarPlot(plot, width, height))
	}

	if plot.Markdown != "" {
		b.WriteString("\n   " + dim.Render(wrap(plot.Markdown, width)) + "\n")
	}

	b.WriteString("\n" + dim.Render("   ←→ plot  p params  r rerun  b back  q quit") + "\n")

	return b.String()
}

func (e explorer) renderVarPlot(plot dynamo.Plot, width, height int) string {
	data := make([][]float64, 0, len(plot.Vars))
	legends := make([]string, 0, len(plot.Vars))
	for _, name := range plot.Vars {
		series, ok := e.model.Trajectory(name)
		if !ok {
			continue
		}
		data = append(data, finitePrefix(series))
		legends = append(legends, name)
	}
	if len(data) == 0 {
		return "   " + dim.Render("no data") + "\n"
	}

	graph := asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.SeriesColors(seriesColors(len(data))...),
		asciigraph.SeriesLegends(legends...),
		asciigraph.Caption("time"),
	)
	return indent(graph, "   ") + "\n"
}

func (e explorer) renderFnPlot(plot dynamo.Plot, width, height int) string {
	points, err := e.model.FnCurve(plot.Fn, plot.XLims[0], plot.XLims[1], width)
	if err != nil {
		return "   " + red.Render(err.Error()) + "\n"
	}
	data := make([]float64, len(points))
	for i, p := range points {
		data[i] = p.Y
	}
	graph := asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(fmt.Sprintf("%s over [%g, %g]", plot.Fn, plot.XLims[0], plot.XLims[1])),
	)
	return indent(graph, "   ") + "\n"
}

func seriesColors(n int) []asciigraph.AnsiColor {
	palette := []asciigraph.AnsiColor{
		asciigraph.Aqua, asciigraph.Orange, asciigraph.Green,
		asciigraph.Fuchsia, asciigraph.Yellow, asciigraph.Blue,
	}
	colors := make([]asciigraph.AnsiColor, n)
	for i := range colors {
		colors[i] = palette[i%len(palette)]
	}
	return colors
}

// finitePrefix cuts a series at its first NaN so truncated runs chart
// cleanly.
func finitePrefix(series []float64) []float64 {
	for i, v := range series {
		if math.IsNaN(v) {
			return series[:i]
		}
	}
	return series
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func wrap(s string, width int) string {
	words := strings.Fields(s)
	var b strings.Builder
	line := 0
	for i, w := range words {
		if line+len(w)+1 > width && line > 0 {
			b.WriteString("\n   ")
			line = 0
		} else if i > 0 {
			b.WriteString(" ")
			line++
		}
		b.WriteString(w)
		line += len(w)
	}
	return b.String()
}

// Run starts the interactive model explorer.
func Run() error {
	p := tea.NewProgram(NewExplorer(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
