package main

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/armbridge/internal/peer"
)

// liveWindow bounds the joint history kept for the live plot.
const liveWindow = 200

var seriesColors = []asciigraph.AnsiColor{asciigraph.Cyan, asciigraph.Yellow, asciigraph.Green, asciigraph.Magenta}

type exchangeMsg struct {
	n     int
	frame peer.Frame
}

type sessionDoneMsg struct{ err error }

// liveModel follows a drive session: joint angle history, the latest
// joint values and the muscle group lengths.
type liveModel struct {
	coords []string
	total  int
	n      int
	series [][]float64
	last   peer.Frame
	done   bool
	err    error
	cancel func()
}

func newLiveModel(coords []string, total int, cancel func()) liveModel {
	return liveModel{
		coords: coords,
		total:  total,
		series: make([][]float64, len(coords)),
		cancel: cancel,
	}
}

func (m liveModel) Init() tea.Cmd { return nil }

func (m liveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
	case exchangeMsg:
		m.n = msg.n
		m.last = msg.frame
		for i := range m.series {
			if i >= len(msg.frame.Joints) {
				continue
			}
			m.series[i] = append(m.series[i], msg.frame.Joints[i])
			if len(m.series[i]) > liveWindow {
				m.series[i] = m.series[i][1:]
			}
		}
	case sessionDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m liveModel) View() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("armbridge drive") + "\n")
	status := fmt.Sprintf("exchange %d/%d", m.n, m.total)
	switch {
	case m.err != nil:
		status += "  failed: " + m.err.Error()
	case m.done:
		status += "  done"
	}
	s.WriteString(mutedStyle.Render(status) + "\n\n")

	if len(m.series) > 0 && len(m.series[0]) > 1 {
		s.WriteString(jointPlot(m.series, m.coords, 8, 60) + "\n\n")
	}
	for i, name := range m.coords {
		if i < len(m.last.Joints) {
			s.WriteString(metricLine(name, strconv.FormatFloat(m.last.Joints[i], 'f', 4, 64)) + "\n")
		}
	}
	s.WriteString(groupLines(m.last.Muscles))
	s.WriteString(mutedStyle.Render("q: stop") + "\n")
	return s.String()
}

func jointPlot(series [][]float64, coords []string, height, width int) string {
	colors := seriesColors
	if len(series) < len(colors) {
		colors = colors[:len(series)]
	}
	return asciigraph.PlotMany(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.SeriesColors(colors...),
		asciigraph.Caption(strings.Join(coords, " / ")+" (rad)"),
	)
}

// groupLines renders the mean fiber length per muscle group, or nothing
// when the frame is not the reference 18-muscle layout.
func groupLines(muscles []float64) string {
	groups, ok := peer.GroupLengths(muscles, [4]int{})
	if !ok {
		return ""
	}
	var s strings.Builder
	for g, l := range groups {
		s.WriteString(metricLine(peer.GroupNames[g]+" length", strconv.FormatFloat(l, 'f', 4, 64)) + "\n")
	}
	return s.String()
}
