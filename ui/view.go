package ui

// View draws the whole screen: meters, table, footer, then any dialog and
// the pending error on top. The bounds registry is rebuilt on every frame.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	c := NewCanvas(m.width, m.height)
	m.bounds.Reset()

	y := 0
	if hh := m.headerHeight(); hh > 0 {
		hh = min(hh, m.height)
		m.drawHeader(c, Rect{X: 0, Y: 0, W: m.width, H: hh})
		y = hh
	}

	fy := max(y, m.height-footerHeight)
	m.drawTable(c, Rect{X: 0, Y: y, W: m.width, H: fy - y})
	m.drawFooter(c, Rect{X: 0, Y: fy, W: m.width, H: m.height - fy})

	m.drawDialog(c)
	m.drawError(c)
	return c.Render()
}
