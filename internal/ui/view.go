package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/atomicstack/menubar/internal/geom"
	"github.com/atomicstack/menubar/internal/layer"
)

const (
	bodyTop     = 2
	bodyLeft    = 2
	areaMaxW    = 44
	areaIndent  = 2
	childHeight = 3
)

var areaBorderStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("245"))

// placePopups lays out popup areas in the body: pull-down buttons take one
// row, context areas draw a box that encloses the areas nested in them.
func (m *Model) placePopups() {
	width := min(areaMaxW, m.width-2*bodyLeft)
	y := bodyTop
	for _, p := range m.popups {
		if p.def.Parent != "" {
			continue
		}
		y += m.placePopup(p, bodyLeft, y, width) + 1
	}
	m.env.SetViewport(geom.Size{Width: m.width, Height: m.height})
}

func (m *Model) placePopup(p *popup, left, top, width int) int {
	if !p.def.Context {
		p.area = geom.Rect{Left: left, Top: top, Width: max(1, lipgloss.Width(p.menu.View())), Height: 1}
		p.menu.Place(p.area)
		return 1
	}
	height := 2
	y := top + 2
	for _, child := range m.popups {
		if child.def.Parent != p.def.ID {
			continue
		}
		h := m.placePopup(child, left+areaIndent, y, max(1, width-2*areaIndent))
		y += h + 1
		height += h + 1
	}
	if height == 2 {
		height = childHeight
	}
	p.area = geom.Rect{Left: left, Top: top, Width: max(1, width), Height: height}
	p.menu.Place(p.area)
	return height
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting || m.height < 1 {
		return ""
	}
	lines := make([]string, m.height)
	lines[0] = m.bar.View()
	for _, p := range m.popups {
		m.drawPopup(lines, p)
	}
	status, footer := m.statusLine(), m.footerLine()
	row := m.height - 1
	if footer != "" {
		footerLines := strings.Split(footer, "\n")
		for i := len(footerLines) - 1; i >= 0 && row > 1; i-- {
			lines[row] = footerLines[i]
			row--
		}
	}
	if status != "" && row > 1 {
		lines[row] = status
	}
	base := strings.Join(lines, "\n")
	return m.env.Layer.Compose(base, m.width, m.height)
}

func (m *Model) drawPopup(lines []string, p *popup) {
	r := p.area
	if r.Width <= 0 || r.Top >= len(lines) {
		return
	}
	var block string
	if p.def.Context {
		label := truncate.StringWithTail(p.def.Label, uint(max(0, r.Width-2)), "…")
		block = areaBorderStyle.
			Width(max(0, r.Width-2)).
			Height(max(0, r.Height-2)).
			Render(label)
	} else {
		block = p.menu.View()
	}
	for i, seg := range strings.Split(block, "\n") {
		y := r.Top + i
		if y >= len(lines) {
			break
		}
		lines[y] = layer.Splice(lines[y], r.Left, seg, m.width)
	}
}

func (m *Model) statusLine() string {
	style := m.env.Theme.Info
	text := m.infoMsg
	if m.errMsg != "" {
		style = m.env.Theme.Error
		text = m.errMsg
	} else if m.backendErr != "" {
		style = m.env.Theme.Error
		text = "reload failed: " + m.backendErr
	}
	if text == "" {
		return ""
	}
	text = truncate.StringWithTail(text, uint(max(0, m.width)), "…")
	if style == nil {
		return text
	}
	return style.Render(text)
}

func (m *Model) footerLine() string {
	if !m.showFooter {
		return ""
	}
	m.help.Width = m.width
	return m.help.View(m.keys)
}
